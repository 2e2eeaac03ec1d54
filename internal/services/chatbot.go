package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"campusevents/internal/domain"
)

const chatbotSystemPrompt = "You are the support assistant of a student events platform. " +
	"Students discover and register for events, hosts publish them. " +
	"Answer briefly and only about using the platform."

const chatbotFallbackReply = "I couldn't find an answer to that. " +
	"Try asking about registering for events, certificates, payments, or connections, " +
	"or contact support@campusevents.example."

// chatRule maps message keywords to a canned answer. Rules are checked in
// order; the first rule with any matching keyword wins.
type chatRule struct {
	keywords []string
	reply    string
}

var chatRules = []chatRule{
	{
		keywords: []string{"register", "sign up for", "join event", "how do i join"},
		reply:    "Open the event page and press Register. Paid events ask you to complete checkout first. You can see all your registrations under My Events.",
	},
	{
		keywords: []string{"cancel"},
		reply:    "You can cancel a registration from My Events at any time before the event starts. Your spot is freed immediately.",
	},
	{
		keywords: []string{"certificate"},
		reply:    "Certificates are available for events you attended. Once the host marks your attendance, download the PDF from the event page in My Events.",
	},
	{
		keywords: []string{"pay", "payment", "refund", "checkout", "price"},
		reply:    "Paid events use a secure hosted checkout. After paying you can register. Refunds are handled by the event host; reach out to them directly.",
	},
	{
		keywords: []string{"friend", "connection", "suggest"},
		reply:    "Connection suggestions are based on your organization, mutual connections, shared interests, and events you both attend. Send a request from a profile page.",
	},
	{
		keywords: []string{"badge", "points", "level"},
		reply:    "You earn points for registering (10), attending (25), and reviewing (5) events. Every 100 points is a level, and badges unlock along the way.",
	},
	{
		keywords: []string{"password", "login", "log in", "account"},
		reply:    "Log in with your email and password. If you can't access your account, contact support@campusevents.example.",
	},
}

type chatbotService struct {
	llm    domain.LLMClient // nil disables the LLM fallback
	logger *slog.Logger
}

// NewChatbotService creates a ChatbotService. llm may be nil, in which case
// only the rule-based answers and the canned fallback are used.
func NewChatbotService(llm domain.LLMClient, logger *slog.Logger) domain.ChatbotService {
	return &chatbotService{llm: llm, logger: logger}
}

func (s *chatbotService) Answer(ctx context.Context, message string) (*domain.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}

	lower := strings.ToLower(message)
	for _, rule := range chatRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return &domain.ChatReply{Reply: rule.reply, Source: domain.ChatSourceRule}, nil
			}
		}
	}

	if s.llm != nil {
		reply, err := s.llm.Complete(ctx, chatbotSystemPrompt, message)
		if err != nil {
			// LLM problems degrade to the canned fallback rather than failing
			// the request.
			s.logger.WarnContext(ctx, "llm completion failed", "err", err)
		} else if strings.TrimSpace(reply) != "" {
			return &domain.ChatReply{Reply: reply, Source: domain.ChatSourceLLM}, nil
		}
	}

	return &domain.ChatReply{Reply: chatbotFallbackReply, Source: domain.ChatSourceFallback}, nil
}
