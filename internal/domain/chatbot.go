package domain

import "context"

// Chat reply sources.
const (
	ChatSourceRule     = "rule"
	ChatSourceLLM      = "llm"
	ChatSourceFallback = "fallback"
)

// ChatReply is the support bot's answer to a message.
// swagger:model ChatReply
type ChatReply struct {
	Reply  string `json:"reply"`
	Source string `json:"source"`
}

// LLMClient answers a free-form prompt via an external model endpoint.
type LLMClient interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// ChatbotService answers support questions, rules first, LLM as fallback.
type ChatbotService interface {
	Answer(ctx context.Context, message string) (*ChatReply, error)
}
