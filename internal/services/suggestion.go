package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"campusevents/internal/domain"
)

// Caps applied to mutual-connection and mutual-activity counts before
// weighting, so hub users cannot dominate the score.
const (
	mutualConnectionCap = 10
	mutualActivityCap   = 10
	maxSuggestions      = 20
)

type suggestionService struct {
	userRepo domain.UserRepository
	connRepo domain.ConnectionRepository
	regRepo  domain.RegistrationRepository
	weights  domain.ScoreWeights
}

// NewSuggestionService creates a SuggestionService with the given
// repositories and score weights.
func NewSuggestionService(
	userRepo domain.UserRepository,
	connRepo domain.ConnectionRepository,
	regRepo domain.RegistrationRepository,
	weights domain.ScoreWeights,
) domain.SuggestionService {
	return &suggestionService{
		userRepo: userRepo,
		connRepo: connRepo,
		regRepo:  regRepo,
		weights:  weights,
	}
}

func (s *suggestionService) SuggestionsFor(ctx context.Context, userID string) ([]*domain.SuggestionCandidate, error) {
	requester, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get requester: %w", err)
	}
	if !requester.Active {
		return nil, domain.ErrUserNotFound
	}

	// Direct-connection set: accepted edges touching the requester, either
	// direction. These users are never suggested.
	peerIDs, err := s.connRepo.ListAcceptedPeerIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list accepted peers: %w", err)
	}
	connected := make(map[string]struct{}, len(peerIDs))
	for _, id := range peerIDs {
		connected[id] = struct{}{}
	}

	// Attendance index: the requester's registered, non-deleted events and,
	// per event, the other registered users. Materialized up front so the
	// per-candidate overlap count is an in-memory lookup.
	eventIDs, err := s.regRepo.ListRegisteredEventIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registered events: %w", err)
	}
	membersByEvent, err := s.regRepo.ListRegisteredUserIDsByEvents(ctx, eventIDs)
	if err != nil {
		return nil, fmt.Errorf("list event members: %w", err)
	}
	sharedEvents := make(map[string]int)
	for _, members := range membersByEvent {
		for _, memberID := range members {
			if memberID != userID {
				sharedEvents[memberID]++
			}
		}
	}

	// Mutual connections: for each user, how many of the requester's peers
	// they hold an accepted edge with.
	mutualConns, err := s.connRepo.CountAcceptedEdgesWithPeers(ctx, peerIDs)
	if err != nil {
		return nil, fmt.Errorf("count mutual connections: %w", err)
	}

	interests := make(map[string]struct{}, len(requester.Interests))
	for _, tag := range requester.Interests {
		interests[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
	}

	candidates, err := s.userRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	var scored []*domain.SuggestionCandidate
	for _, cand := range candidates {
		if cand.ID == userID {
			continue
		}
		if _, ok := connected[cand.ID]; ok {
			continue
		}
		c := s.score(requester, cand, interests, mutualConns[cand.ID], sharedEvents[cand.ID])
		if c.Score == 0 {
			// Zero-affinity strangers are never surfaced, regardless of
			// candidate-pool size.
			continue
		}
		scored = append(scored, c)
	}

	rank(scored)
	if len(scored) > maxSuggestions {
		scored = scored[:maxSuggestions]
	}
	if scored == nil {
		scored = []*domain.SuggestionCandidate{}
	}
	return scored, nil
}

func (s *suggestionService) score(requester, cand *domain.User, interests map[string]struct{}, mutualConns, mutualActivities int) *domain.SuggestionCandidate {
	c := &domain.SuggestionCandidate{
		ID:           cand.ID,
		DisplayName:  cand.DisplayName(),
		Organization: cand.Organization,
		ImageRef:     cand.ImageRef,
	}

	if requester.Organization != "" && cand.Organization == requester.Organization {
		c.SameOrganization = true
	}

	c.MutualConnectionCount = mutualConns
	c.MutualActivityCount = mutualActivities

	for _, tag := range cand.Interests {
		if _, ok := interests[strings.ToLower(strings.TrimSpace(tag))]; ok {
			c.SharedInterestCount++
		}
	}

	sameOrg := 0
	if c.SameOrganization {
		sameOrg = 1
	}
	c.Score = sameOrg*s.weights.SameOrganization +
		capInt(c.MutualConnectionCount, mutualConnectionCap)*s.weights.MutualConnection +
		c.SharedInterestCount*s.weights.SharedInterest +
		capInt(c.MutualActivityCount, mutualActivityCap)*s.weights.MutualActivity
	return c
}

// rank orders candidates descending by score; ties broken by mutual activity,
// then mutual connections, then shared interests, all descending. Candidate
// ID ascending is the final deterministic tie-break.
func rank(candidates []*domain.SuggestionCandidate) {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.MutualActivityCount != b.MutualActivityCount {
			return a.MutualActivityCount > b.MutualActivityCount
		}
		if a.MutualConnectionCount != b.MutualConnectionCount {
			return a.MutualConnectionCount > b.MutualConnectionCount
		}
		if a.SharedInterestCount != b.SharedInterestCount {
			return a.SharedInterestCount > b.SharedInterestCount
		}
		return a.ID < b.ID
	})
}

func capInt(n, max int) int {
	if n > max {
		return max
	}
	return n
}
