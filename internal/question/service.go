// Package question assembles decks of couple questions from the database,
// topping up shortfalls with generated and hand-authored content.
package question

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/queple/queple-server/internal/identity"
	"github.com/queple/queple-server/internal/question/ai"
)

// Store exposes the question table operations deck flows need.
type Store interface {
	FetchCandidates(ctx context.Context, f Filter) ([]Question, error)
	Insert(ctx context.Context, q Question) (Question, error)
	VotedQuestionIDs(ctx context.Context, userID string) ([]string, error)
	RandomUnseen(ctx context.Context, userID string) (*Question, error)
	FetchRecent(ctx context.Context, f RecentFilter) ([]Question, error)
	FirstOrCreateCategory(ctx context.Context, defaultName string) (string, error)
}

// Generator produces questions for a deficit bucket (implemented by ai.Client).
type Generator interface {
	Enabled() bool
	GenerateQuestions(ctx context.Context, req ai.Request) ([]ai.Generated, error)
}

// FallbackBank serves static questions when generation cannot cover a deficit.
type FallbackBank interface {
	Sample(gender string, count int, exclude map[string]struct{}, allow18Plus bool) []Question
}

// UserResolver maps a claimed identity onto a persisted user id, or empty for
// guests (implemented by identity.Service).
type UserResolver interface {
	ResolveUserID(ctx context.Context, explicitID, externalUID string) (string, error)
}

// SeenCache caches a user's voted-history id set between deck requests.
type SeenCache interface {
	Get(ctx context.Context, userID string) ([]string, bool)
	Set(ctx context.Context, userID string, ids []string)
}

// ServiceOptions tunes deck assembly.
type ServiceOptions struct {
	DeckSize          int
	BucketFetchLimit  int
	FreshContentRatio float64
}

// Service orchestrates deck assembly: concurrent bucket queries, AI top-up,
// static fallback, and final ordering.
type Service struct {
	store      Store
	generator  Generator
	bank       FallbackBank
	users      UserResolver
	seen       SeenCache
	metrics    *Metrics
	logger     zerolog.Logger
	deckSize   int
	fetchLimit int
	freshRatio float64
}

func NewService(store Store, generator Generator, bank FallbackBank, users UserResolver, seen SeenCache, metrics *Metrics, opts ServiceOptions, logger zerolog.Logger) *Service {
	if opts.DeckSize <= 0 {
		opts.DeckSize = DeckSize
	}
	if opts.BucketFetchLimit <= 0 {
		opts.BucketFetchLimit = 30
	}
	if opts.FreshContentRatio < 0 {
		opts.FreshContentRatio = 0
	}
	return &Service{
		store:      store,
		generator:  generator,
		bank:       bank,
		users:      users,
		seen:       seen,
		metrics:    metrics,
		logger:     logger.With().Str("component", "deck").Logger(),
		deckSize:   opts.DeckSize,
		fetchLimit: opts.BucketFetchLimit,
		freshRatio: opts.FreshContentRatio,
	}
}

type bucket struct {
	gender string
	count  int
}

type deficit struct {
	gender string
	count  int
}

func bucketsFor(mode string) []bucket {
	switch mode {
	case ModeAllBoth:
		return []bucket{{GenderBoth, 6}}
	case ModeZigzagBoth:
		return []bucket{{GenderMale, 2}, {GenderFemale, 2}, {GenderBoth, 2}}
	default:
		return []bucket{{GenderMale, 3}, {GenderFemale, 3}}
	}
}

// AssembleDeck produces an ordered batch of up to six questions honoring the
// caller's filters and exclusion history. Shortfalls degrade through the
// generator and then the static bank; the method fails only on unexpected
// top-level errors.
func (s *Service) AssembleDeck(ctx context.Context, req DeckRequest) ([]Question, error) {
	mode := req.Mode
	if mode != ModeZigzag && mode != ModeAllBoth && mode != ModeZigzagBoth {
		mode = ModeZigzag
	}
	minLevel, maxLevel := req.MinLevel, req.MaxLevel
	if minLevel <= 0 {
		minLevel = 1
	}
	if maxLevel <= 0 {
		maxLevel = 3
	}

	userID, err := s.users.ResolveUserID(ctx, req.UserID, req.ExternalUID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("identity resolution failed, continuing as guest")
		userID = ""
	}

	exclude := make(map[string]struct{}, len(req.ExcludeIDs))
	for _, id := range req.ExcludeIDs {
		exclude[id] = struct{}{}
	}
	if userID != "" {
		for _, id := range s.votedHistory(ctx, userID) {
			exclude[id] = struct{}{}
		}
	}
	excludeList := make([]string, 0, len(exclude))
	for id := range exclude {
		excludeList = append(excludeList, id)
	}

	buckets := bucketsFor(mode)
	pools := make([][]Question, len(buckets))

	g, gctx := errgroup.WithContext(ctx)
	for i, b := range buckets {
		g.Go(func() error {
			candidates, err := s.store.FetchCandidates(gctx, Filter{
				Gender:      b.gender,
				MinLevel:    minLevel,
				MaxLevel:    maxLevel,
				Allow18Plus: req.Allow18Plus,
				CategoryID:  req.CategoryID,
				ExcludeIDs:  excludeList,
				Limit:       s.fetchLimit,
			})
			if err != nil {
				// Degrade: an empty bucket becomes a deficit.
				s.logger.Warn().Err(err).Str("gender", b.gender).Msg("bucket query failed")
				return nil
			}
			pools[i] = sampleN(candidates, b.count)
			return nil
		})
	}
	_ = g.Wait()

	var pool []Question
	var deficits []deficit
	for i, b := range buckets {
		pool = append(pool, pools[i]...)
		if missing := b.count - len(pools[i]); missing > 0 {
			deficits = append(deficits, deficit{gender: b.gender, count: missing})
		}
		s.countServed("database", len(pools[i]))
	}

	if len(deficits) > 0 {
		pool = append(pool, s.generateForDeficits(ctx, deficits, req, minLevel, maxLevel, userID)...)
	}

	// Whatever generation could not cover comes from the static bank, reusing
	// the caller's exclusion set (content-keyed for bank items).
	for _, b := range buckets {
		if !hasDeficit(deficits, b.gender) {
			continue
		}
		have := 0
		for _, q := range pool {
			if q.ForGender == b.gender {
				have++
			}
		}
		if missing := b.count - have; missing > 0 {
			fills := s.bank.Sample(b.gender, missing, exclude, req.Allow18Plus)
			s.logger.Warn().Int("count", len(fills)).Str("gender", b.gender).Msg("using static fallbacks")
			pool = append(pool, fills...)
			s.countServed("fallback", len(fills))
		}
	}

	deck := s.orderDeck(mode, pool)
	if len(deck) > s.deckSize {
		deck = deck[:s.deckSize]
	}
	if s.metrics != nil {
		s.metrics.DecksAssembled.WithLabelValues(mode).Inc()
	}
	return deck, nil
}

// generateForDeficits invokes the generator once per deficit bucket, in
// parallel, persisting every accepted item. Failures yield zero items.
func (s *Service) generateForDeficits(ctx context.Context, deficits []deficit, req DeckRequest, minLevel, maxLevel int, userID string) []Question {
	if s.generator == nil || !s.generator.Enabled() {
		s.logger.Warn().Msg("generator unavailable, skipping AI generation")
		return nil
	}

	creatorID := userID
	if creatorID == "" {
		creatorID = identity.SystemUserID
	}

	results := make([][]Question, len(deficits))
	g, gctx := errgroup.WithContext(ctx)
	for i, d := range deficits {
		g.Go(func() error {
			items, err := s.generator.GenerateQuestions(gctx, ai.Request{
				Gender:      d.gender,
				Count:       d.count,
				MinLevel:    minLevel,
				MaxLevel:    maxLevel,
				Allow18Plus: req.Allow18Plus,
				CategoryID:  req.CategoryID,
			})
			if err != nil {
				s.logger.Warn().Err(err).Str("gender", d.gender).Msg("generation failed")
				if s.metrics != nil {
					s.metrics.GenerationFailures.Inc()
				}
				return nil
			}
			results[i] = s.persistGenerated(gctx, items, d.gender, req.CategoryID, creatorID, req.Allow18Plus)
			return nil
		})
	}
	_ = g.Wait()

	var out []Question
	for _, r := range results {
		out = append(out, r...)
		s.countServed("ai", len(r))
	}
	return out
}

// persistGenerated saves accepted generator output as new question rows.
// Adult items are rejected when the caller disallowed 18+ content; the prompt
// alone is not trusted to enforce that. Per-item save errors are logged and
// skipped.
func (s *Service) persistGenerated(ctx context.Context, items []ai.Generated, bucketGender, categoryID, creatorID string, allow18Plus bool) []Question {
	catID, err := s.resolveCategory(ctx, categoryID)
	if err != nil {
		s.logger.Error().Err(err).Msg("category resolution failed, dropping generated items")
		return nil
	}

	var saved []Question
	for _, item := range items {
		if item.Is18Plus && !allow18Plus {
			s.logger.Warn().Str("gender", bucketGender).Msg("rejecting adult item from generator output")
			continue
		}
		gender := item.ForGender
		if !ValidGender(gender) {
			gender = bucketGender
		}
		level := item.Level
		if level < 1 || level > 10 {
			level = 1
		}
		q, err := s.store.Insert(ctx, Question{
			ID:         uuid.NewString(),
			Content:    item.Content,
			ForGender:  gender,
			Level:      level,
			Is18Plus:   item.Is18Plus,
			CategoryID: catID,
			CreatorID:  creatorID,
		})
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to save generated question")
			continue
		}
		saved = append(saved, q)
	}
	return saved
}

func (s *Service) resolveCategory(ctx context.Context, preferred string) (string, error) {
	if preferred != "" {
		return preferred, nil
	}
	return s.store.FirstOrCreateCategory(ctx, "General")
}

// orderDeck interleaves zigzag decks M,F,M,F,M,F by index order; other modes
// are flattened and shuffled. Unused leftovers are appended when the deck
// comes up short.
func (s *Service) orderDeck(mode string, pool []Question) []Question {
	sorted := make([]Question, 0, len(pool))
	used := make(map[string]struct{}, len(pool))

	pop := func(gender string) *Question {
		for i := range pool {
			if pool[i].ForGender != gender {
				continue
			}
			if _, ok := used[pool[i].ID]; ok {
				continue
			}
			used[pool[i].ID] = struct{}{}
			return &pool[i]
		}
		return nil
	}

	if mode == ModeZigzag {
		for i := 0; i < 3; i++ {
			if m := pop(GenderMale); m != nil {
				sorted = append(sorted, *m)
			}
			if f := pop(GenderFemale); f != nil {
				sorted = append(sorted, *f)
			}
		}
	} else {
		for _, q := range pool {
			if _, ok := used[q.ID]; ok {
				continue
			}
			used[q.ID] = struct{}{}
			sorted = append(sorted, q)
		}
		rand.Shuffle(len(sorted), func(i, j int) {
			sorted[i], sorted[j] = sorted[j], sorted[i]
		})
	}

	if len(sorted) < s.deckSize {
		for _, q := range pool {
			if _, ok := used[q.ID]; !ok {
				used[q.ID] = struct{}{}
				sorted = append(sorted, q)
			}
		}
	}
	return sorted
}

// NextQuestion returns one random question the caller has never interacted
// with, or nil when none remain.
func (s *Service) NextQuestion(ctx context.Context, explicitID, externalUID string) (*Question, error) {
	userID, err := s.users.ResolveUserID(ctx, explicitID, externalUID)
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}
	return s.store.RandomUnseen(ctx, userID)
}

// Create persists a user-submitted question with upstream defaults.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Question, error) {
	if req.Content == "" {
		return nil, fmt.Errorf("content is required")
	}
	level := req.Level
	if level <= 0 {
		level = 1
	}
	gender := req.ForGender
	if !ValidGender(gender) {
		gender = GenderBoth
	}
	creator := req.CreatorID
	if creator == "" {
		creator = identity.SystemUserID
	}

	catID, err := s.resolveCategory(ctx, req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("resolve category: %w", err)
	}

	q, err := s.store.Insert(ctx, Question{
		ID:         uuid.NewString(),
		Content:    req.Content,
		ForGender:  gender,
		Level:      level,
		CategoryID: catID,
		CreatorID:  creator,
	})
	if err != nil {
		return nil, fmt.Errorf("insert question: %w", err)
	}
	return &q, nil
}

func (s *Service) votedHistory(ctx context.Context, userID string) []string {
	if s.seen != nil {
		if ids, ok := s.seen.Get(ctx, userID); ok {
			return ids
		}
	}
	ids, err := s.store.VotedQuestionIDs(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("voted history lookup failed")
		return nil
	}
	if s.seen != nil {
		s.seen.Set(ctx, userID, ids)
	}
	return ids
}

func (s *Service) countServed(source string, n int) {
	if s.metrics != nil && n > 0 {
		s.metrics.QuestionsServed.WithLabelValues(source).Add(float64(n))
	}
}

func hasDeficit(deficits []deficit, gender string) bool {
	for _, d := range deficits {
		if d.gender == gender {
			return true
		}
	}
	return false
}

// sampleN takes a uniform random sample via full shuffle then slice. Candidate
// sets are capped at the bucket fetch limit, so this stays cheap.
func sampleN(qs []Question, n int) []Question {
	shuffled := make([]Question, len(qs))
	copy(shuffled, qs)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n < len(shuffled) {
		shuffled = shuffled[:n]
	}
	return shuffled
}
