// Package reaction records swipe reactions and keeps question counters
// consistent with each user's latest reaction.
package reaction

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/queple/queple-server/internal/question"
)

// Interaction is one user's current reaction to one question. At most one row
// exists per (user, question) pair; timeSpent is overwritten, not accumulated.
type Interaction struct {
	UserID     string
	QuestionID string
	Reaction   string
	TimeSpent  float64
}

// TxStore is the per-transaction view of the interaction store.
type TxStore interface {
	GetInteraction(ctx context.Context, userID, questionID string) (*Interaction, error)
	UpsertInteraction(ctx context.Context, in Interaction) error
	ApplyCounterDelta(ctx context.Context, questionID string, d Delta) error
}

// Store runs the read-upsert-adjust sequence inside one atomic transaction.
type Store interface {
	InTx(ctx context.Context, fn func(TxStore) error) error
}

// ActorResolver maps the caller's claimed identity onto a persisted user id,
// falling back to the sentinel system identity.
type ActorResolver interface {
	ResolveActor(ctx context.Context, explicitID, externalUID string) (string, error)
}

// SeenInvalidator drops a user's cached voted-history set after a write.
type SeenInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// RecordRequest identifies the question, the reaction, and the acting user.
type RecordRequest struct {
	QuestionID  string
	Reaction    string
	TimeSpent   float64
	UserID      string
	ExternalUID string
}

// Result reports whether the reaction was durably recorded. Failures are soft;
// gameplay continues either way.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Service applies reaction state transitions.
type Service struct {
	store    Store
	resolver ActorResolver
	seen     SeenInvalidator
	logger   zerolog.Logger
	metrics  *Metrics
}

func NewService(store Store, resolver ActorResolver, seen SeenInvalidator, metrics *Metrics, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		resolver: resolver,
		seen:     seen,
		metrics:  metrics,
		logger:   logger.With().Str("component", "reaction").Logger(),
	}
}

// Record upserts the interaction row and adjusts the question's counters
// within a single transaction. Transient (fallback/mock) question ids are
// acknowledged without any write.
func (s *Service) Record(ctx context.Context, req RecordRequest) Result {
	if question.IsTransientID(req.QuestionID) {
		return Result{Success: true, Message: "transient question, not persisted"}
	}

	actorID, err := s.resolver.ResolveActor(ctx, req.UserID, req.ExternalUID)
	if err != nil {
		s.logger.Warn().Err(err).Str("question_id", req.QuestionID).Msg("actor resolution failed")
		return Result{Success: false}
	}

	err = s.store.InTx(ctx, func(tx TxStore) error {
		prev, err := tx.GetInteraction(ctx, actorID, req.QuestionID)
		if err != nil {
			return err
		}

		if err := tx.UpsertInteraction(ctx, Interaction{
			UserID:     actorID,
			QuestionID: req.QuestionID,
			Reaction:   req.Reaction,
			TimeSpent:  req.TimeSpent,
		}); err != nil {
			return err
		}

		prevReaction := ""
		if prev != nil {
			prevReaction = prev.Reaction
		}
		if d := ComputeDelta(prevReaction, req.Reaction); !d.IsZero() {
			return tx.ApplyCounterDelta(ctx, req.QuestionID, d)
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).
			Str("question_id", req.QuestionID).
			Str("user_id", actorID).
			Msg("reaction transaction failed")
		return Result{Success: false}
	}

	if s.seen != nil {
		s.seen.Invalidate(ctx, actorID)
	}
	if s.metrics != nil {
		s.metrics.Recorded.WithLabelValues(req.Reaction).Inc()
	}
	return Result{Success: true}
}
