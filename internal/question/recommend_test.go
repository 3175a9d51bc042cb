package question

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecommendService(store Store, gen Generator, freshRatio float64) *Service {
	opts := ServiceOptions{FreshContentRatio: freshRatio}
	return NewService(store, gen, &stubBank{}, stubResolver{}, nil, nil, opts, zerolog.Nop())
}

func TestRecommendServesFromDatabase(t *testing.T) {
	store := &stubStore{recent: seedQuestions(GenderBoth, 3, 10)}
	gen := &stubGenerator{enabled: true}
	svc := newRecommendService(store, gen, 0)

	resp, err := svc.Recommend(context.Background(), RecommendRequest{Limit: 5})

	require.NoError(t, err)
	assert.Equal(t, SourceDatabase, resp.Source)
	assert.Len(t, resp.Questions, 5)
	assert.Empty(t, gen.calls)

	require.Len(t, store.recentFilters, 1)
	assert.Equal(t, 10, store.recentFilters[0].Limit, "candidate query should over-fetch")
	assert.Equal(t, GenderBoth, store.recentFilters[0].TargetGender)
}

func TestRecommendShortfallTriggersGeneration(t *testing.T) {
	store := &stubStore{recent: seedQuestions(GenderFemale, 3, 2)}
	gen := &stubGenerator{enabled: true}
	svc := newRecommendService(store, gen, 0)

	resp, err := svc.Recommend(context.Background(), RecommendRequest{
		Limit:        5,
		TargetGender: GenderFemale,
		UserID:       "u1",
	})

	require.NoError(t, err)
	assert.Equal(t, SourceHybrid, resp.Source)
	assert.Len(t, resp.Questions, 5)

	require.Len(t, gen.calls, 1)
	assert.Equal(t, 3, gen.calls[0].Count)
	assert.Equal(t, GenderFemale, gen.calls[0].Gender)

	require.Len(t, store.inserted, 3)
	for _, q := range store.inserted {
		assert.Equal(t, "u1", q.CreatorID)
	}
}

func TestRecommendFreshTriggerWithFullDatabase(t *testing.T) {
	store := &stubStore{recent: seedQuestions(GenderBoth, 3, 10)}
	gen := &stubGenerator{enabled: true}
	svc := newRecommendService(store, gen, 1)

	resp, err := svc.Recommend(context.Background(), RecommendRequest{Limit: 5})

	require.NoError(t, err)
	assert.Equal(t, SourceHybrid, resp.Source)
	assert.Len(t, resp.Questions, 5)
	require.Len(t, gen.calls, 1)
	assert.Equal(t, 1, gen.calls[0].Count, "a satisfied request refreshes with a single item")
}

func TestRecommendGeneratorDisabled(t *testing.T) {
	store := &stubStore{recent: seedQuestions(GenderBoth, 3, 2)}
	svc := newRecommendService(store, &stubGenerator{}, 0)

	resp, err := svc.Recommend(context.Background(), RecommendRequest{Limit: 5})

	require.NoError(t, err)
	assert.Equal(t, SourceDatabaseFallback, resp.Source)
	assert.Len(t, resp.Questions, 2)
}

func TestRecommendGenerationFailureFallsBack(t *testing.T) {
	store := &stubStore{recent: seedQuestions(GenderBoth, 3, 2)}
	gen := &stubGenerator{enabled: true, err: errors.New("quota exceeded")}
	svc := newRecommendService(store, gen, 0)

	resp, err := svc.Recommend(context.Background(), RecommendRequest{Limit: 5})

	require.NoError(t, err)
	assert.Equal(t, SourceDatabaseFallback, resp.Source)
	assert.Len(t, resp.Questions, 2)
}

func TestRecommendRejectsAdultGeneratedItems(t *testing.T) {
	store := &stubStore{recent: seedQuestions(GenderBoth, 3, 2)}
	gen := &stubGenerator{enabled: true, adult: true}
	svc := newRecommendService(store, gen, 0)

	resp, err := svc.Recommend(context.Background(), RecommendRequest{Limit: 5})

	require.NoError(t, err)
	for _, q := range resp.Questions {
		assert.False(t, q.Is18Plus)
	}
	assert.Empty(t, store.inserted, "adult generator output must not be persisted")
}

func TestRecommendClampsLevelRange(t *testing.T) {
	store := &stubStore{}
	svc := newRecommendService(store, &stubGenerator{}, 0)

	_, err := svc.Recommend(context.Background(), RecommendRequest{
		Limit:      5,
		LevelRange: LevelRange{Min: -3, Max: 42},
	})

	require.NoError(t, err)
	require.Len(t, store.recentFilters, 1)
	assert.Equal(t, 1, store.recentFilters[0].MinLevel)
	assert.Equal(t, 10, store.recentFilters[0].MaxLevel)
}
