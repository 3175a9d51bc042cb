package question

import (
	"context"
	"math/rand/v2"

	"github.com/queple/queple-server/internal/identity"
	"github.com/queple/queple-server/internal/question/ai"
)

// Recommendation sources reported to clients.
const (
	SourceDatabase         = "database"
	SourceDatabaseFallback = "database_fallback"
	SourceHybrid           = "hybrid"
)

// RecentFilter scopes the recommendation candidate query.
type RecentFilter struct {
	TargetGender string // rows matching this gender or BOTH; empty for all
	MinLevel     int
	MaxLevel     int
	Allow18Plus  bool
	CategoryID   string
	ExcludeIDs   []string
	Limit        int
}

// LevelRange bounds question intensity.
type LevelRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// RecommendRequest mixes stored and generated content for one caller.
type RecommendRequest struct {
	LevelRange   LevelRange `json:"levelRange"`
	ExcludeIDs   []string   `json:"excludeIds"`
	TargetGender string     `json:"targetGender"`
	Allow18Plus  bool       `json:"allow18Plus"`
	Limit        int        `json:"limit"`
	CategoryID   string     `json:"category"`
	UserID       string     `json:"-"`
}

// RecommendResponse reports where the batch came from.
type RecommendResponse struct {
	Source    string     `json:"source"`
	Questions []Question `json:"questions"`
}

// Recommend returns up to limit questions, mixing recent stored content with
// freshly generated items. Generation triggers on shortfall, or randomly at
// the fresh-content ratio even when the database satisfied the request.
func (s *Service) Recommend(ctx context.Context, req RecommendRequest) (RecommendResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 5
	}
	minLevel := req.LevelRange.Min
	if minLevel < 1 {
		minLevel = 1
	}
	maxLevel := req.LevelRange.Max
	if maxLevel < 1 || maxLevel > 10 {
		maxLevel = 10
	}
	target := req.TargetGender
	if !ValidGender(target) {
		target = GenderBoth
	}

	stored, err := s.store.FetchRecent(ctx, RecentFilter{
		TargetGender: target,
		MinLevel:     minLevel,
		MaxLevel:     maxLevel,
		Allow18Plus:  req.Allow18Plus,
		CategoryID:   req.CategoryID,
		ExcludeIDs:   req.ExcludeIDs,
		Limit:        limit * 2,
	})
	if err != nil {
		return RecommendResponse{}, err
	}
	stored = sampleN(stored, limit)

	needsMore := len(stored) < limit
	freshTrigger := rand.Float64() < s.freshRatio

	if !needsMore && !freshTrigger {
		return RecommendResponse{Source: SourceDatabase, Questions: stored}, nil
	}

	if s.generator == nil || !s.generator.Enabled() {
		s.logger.Warn().Msg("generator unavailable, returning stored questions only")
		return RecommendResponse{Source: SourceDatabaseFallback, Questions: stored}, nil
	}

	count := 1
	if needsMore {
		count = limit - len(stored)
	}

	creator := req.UserID
	if creator == "" {
		creator = identity.SystemUserID
	}

	items, err := s.generator.GenerateQuestions(ctx, ai.Request{
		Gender:      target,
		Count:       count,
		MinLevel:    minLevel,
		MaxLevel:    maxLevel,
		Allow18Plus: req.Allow18Plus,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("recommendation generation failed")
		if s.metrics != nil {
			s.metrics.GenerationFailures.Inc()
		}
		return RecommendResponse{Source: SourceDatabaseFallback, Questions: stored}, nil
	}

	saved := s.persistGenerated(ctx, items, target, req.CategoryID, creator, req.Allow18Plus)
	mix := append(stored, saved...)
	if len(mix) > limit {
		mix = mix[:limit]
	}
	return RecommendResponse{Source: SourceHybrid, Questions: mix}, nil
}
