package domain

import "context"

// SuggestionCandidate is a transient projection of a user plus the computed
// affinity components. The composite score ranks candidates internally and is
// never serialized to clients.
type SuggestionCandidate struct {
	ID                    string `json:"id"`
	DisplayName           string `json:"display_name"`
	Organization          string `json:"organization"`
	ImageRef              string `json:"image_ref"`
	SameOrganization      bool   `json:"same_organization"`
	MutualConnectionCount int    `json:"mutual_connection_count"`
	SharedInterestCount   int    `json:"shared_interest_count"`
	MutualActivityCount   int    `json:"mutual_activity_count"`
	Score                 int    `json:"-"`
}

// ScoreWeights are the per-component weights of the suggestion score.
// Injected into the service so tests can run with alternate weight sets.
type ScoreWeights struct {
	SameOrganization int
	MutualConnection int
	SharedInterest   int
	MutualActivity   int
}

// DefaultScoreWeights returns the production weight set.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		SameOrganization: 3,
		MutualConnection: 2,
		SharedInterest:   1,
		MutualActivity:   3,
	}
}

// SuggestionService computes connection suggestions for a user.
type SuggestionService interface {
	// SuggestionsFor returns up to 20 ranked candidates for the user.
	// The list never contains the user or anyone already connected to them,
	// and every candidate shares at least one affinity axis with the user.
	SuggestionsFor(ctx context.Context, userID string) ([]*SuggestionCandidate, error)
}
