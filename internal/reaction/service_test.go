package reaction

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queple/queple-server/internal/question"
)

type counters struct {
	upvotes   int
	downvotes int
	viewers   int
}

// memStore keeps interactions and counters in memory and serves as both the
// transactional store and its per-transaction view.
type memStore struct {
	interactions map[string]Interaction
	counters     map[string]*counters
	txErr        error
	upsertErr    error
}

func newMemStore() *memStore {
	return &memStore{
		interactions: make(map[string]Interaction),
		counters:     make(map[string]*counters),
	}
}

func (m *memStore) InTx(_ context.Context, fn func(TxStore) error) error {
	if m.txErr != nil {
		return m.txErr
	}
	return fn(m)
}

func (m *memStore) GetInteraction(_ context.Context, userID, questionID string) (*Interaction, error) {
	in, ok := m.interactions[userID+"|"+questionID]
	if !ok {
		return nil, nil
	}
	return &in, nil
}

func (m *memStore) UpsertInteraction(_ context.Context, in Interaction) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.interactions[in.UserID+"|"+in.QuestionID] = in
	return nil
}

func (m *memStore) ApplyCounterDelta(_ context.Context, questionID string, d Delta) error {
	c, ok := m.counters[questionID]
	if !ok {
		c = &counters{}
		m.counters[questionID] = c
	}
	c.upvotes += d.Upvotes
	c.downvotes += d.Downvotes
	c.viewers += d.Viewers
	return nil
}

type staticResolver struct {
	id  string
	err error
}

func (r staticResolver) ResolveActor(context.Context, string, string) (string, error) {
	return r.id, r.err
}

type recordingInvalidator struct {
	userIDs []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, userID string) {
	r.userIDs = append(r.userIDs, userID)
}

func newTestService(store *memStore, resolver ActorResolver, seen SeenInvalidator) *Service {
	return NewService(store, resolver, seen, nil, zerolog.Nop())
}

func TestRecordFirstUpvote(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, staticResolver{id: "u1"}, nil)

	res := svc.Record(context.Background(), RecordRequest{
		QuestionID: "q1",
		Reaction:   Upvote,
		TimeSpent:  4.2,
	})

	require.True(t, res.Success)
	require.Contains(t, store.counters, "q1")
	assert.Equal(t, &counters{upvotes: 1, viewers: 1}, store.counters["q1"])
	assert.Equal(t, Upvote, store.interactions["u1|q1"].Reaction)
	assert.Equal(t, 4.2, store.interactions["u1|q1"].TimeSpent)
}

func TestRecordRepeatIsIdempotent(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, staticResolver{id: "u1"}, nil)

	req := RecordRequest{QuestionID: "q1", Reaction: Downvote}
	require.True(t, svc.Record(context.Background(), req).Success)
	require.True(t, svc.Record(context.Background(), req).Success)

	assert.Equal(t, &counters{downvotes: 1, viewers: 1}, store.counters["q1"])
}

func TestRecordToggleRestoresCounters(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, staticResolver{id: "u1"}, nil)

	ctx := context.Background()
	for _, r := range []string{Upvote, Downvote, Upvote} {
		require.True(t, svc.Record(ctx, RecordRequest{QuestionID: "q1", Reaction: r}).Success)
	}

	assert.Equal(t, &counters{upvotes: 1, downvotes: 0, viewers: 1}, store.counters["q1"])
	assert.Equal(t, Upvote, store.interactions["u1|q1"].Reaction)
}

func TestRecordSkipCountsViewerOnly(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, staticResolver{id: "u1"}, nil)

	res := svc.Record(context.Background(), RecordRequest{QuestionID: "q1", Reaction: Skip})

	require.True(t, res.Success)
	assert.Equal(t, &counters{viewers: 1}, store.counters["q1"])
}

func TestRecordOverwritesTimeSpent(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, staticResolver{id: "u1"}, nil)

	ctx := context.Background()
	svc.Record(ctx, RecordRequest{QuestionID: "q1", Reaction: Skip, TimeSpent: 3})
	svc.Record(ctx, RecordRequest{QuestionID: "q1", Reaction: Upvote, TimeSpent: 9})

	assert.Equal(t, 9.0, store.interactions["u1|q1"].TimeSpent)
}

func TestRecordTransientQuestionSkipsPersistence(t *testing.T) {
	store := newMemStore()
	store.txErr = errors.New("must not be called")
	svc := newTestService(store, staticResolver{id: "u1"}, nil)

	for _, id := range []string{question.FallbackIDPrefix + "abc", question.MockIDPrefix + "xyz"} {
		res := svc.Record(context.Background(), RecordRequest{QuestionID: id, Reaction: Upvote})
		assert.True(t, res.Success)
	}
	assert.Empty(t, store.interactions)
	assert.Empty(t, store.counters)
}

func TestRecordTxFailureIsSoft(t *testing.T) {
	store := newMemStore()
	store.txErr = errors.New("deadlock detected")
	svc := newTestService(store, staticResolver{id: "u1"}, nil)

	res := svc.Record(context.Background(), RecordRequest{QuestionID: "q1", Reaction: Upvote})

	assert.False(t, res.Success)
}

func TestRecordUpsertFailureIsSoft(t *testing.T) {
	store := newMemStore()
	store.upsertErr = errors.New("write failed")
	svc := newTestService(store, staticResolver{id: "u1"}, nil)

	res := svc.Record(context.Background(), RecordRequest{QuestionID: "q1", Reaction: Upvote})

	assert.False(t, res.Success)
	assert.Empty(t, store.counters)
}

func TestRecordResolverFailureIsSoft(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, staticResolver{err: errors.New("db down")}, nil)

	res := svc.Record(context.Background(), RecordRequest{QuestionID: "q1", Reaction: Upvote})

	assert.False(t, res.Success)
	assert.Empty(t, store.interactions)
}

func TestRecordInvalidatesSeenCache(t *testing.T) {
	store := newMemStore()
	seen := &recordingInvalidator{}
	svc := newTestService(store, staticResolver{id: "u1"}, seen)

	svc.Record(context.Background(), RecordRequest{QuestionID: "q1", Reaction: Upvote})

	assert.Equal(t, []string{"u1"}, seen.userIDs)
}
