package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/queple/queple-server/internal/reaction"
)

// InteractionRepository implements reaction.Store over pgx. The read-upsert-
// adjust sequence runs inside one transaction so concurrent reactions from
// the same user cannot produce lost counter updates.
type InteractionRepository struct {
	pool *pgxpool.Pool
}

func NewInteractionRepository(pool *pgxpool.Pool) *InteractionRepository {
	return &InteractionRepository{pool: pool}
}

var _ reaction.Store = (*InteractionRepository)(nil)

// InTx runs fn within a transaction, committing on nil and rolling back
// otherwise.
func (r *InteractionRepository) InTx(ctx context.Context, fn func(reaction.TxStore) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&interactionTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type interactionTx struct {
	tx pgx.Tx
}

func (t *interactionTx) GetInteraction(ctx context.Context, userID, questionID string) (*reaction.Interaction, error) {
	var in reaction.Interaction
	err := t.tx.QueryRow(ctx, `
		SELECT user_id, question_id, reaction, time_spent
		FROM user_questions
		WHERE user_id = $1 AND question_id = $2`, userID, questionID).
		Scan(&in.UserID, &in.QuestionID, &in.Reaction, &in.TimeSpent)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get interaction: %w", err)
	}
	return &in, nil
}

func (t *interactionTx) UpsertInteraction(ctx context.Context, in reaction.Interaction) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO user_questions (user_id, question_id, reaction, time_spent)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, question_id) DO UPDATE SET
			reaction = EXCLUDED.reaction,
			time_spent = EXCLUDED.time_spent,
			updated_at = now()`,
		in.UserID, in.QuestionID, in.Reaction, in.TimeSpent)
	if err != nil {
		return fmt.Errorf("upsert interaction: %w", err)
	}
	return nil
}

func (t *interactionTx) ApplyCounterDelta(ctx context.Context, questionID string, d reaction.Delta) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE questions SET
			upvotes = upvotes + $2,
			downvotes = downvotes + $3,
			viewers_count = viewers_count + $4,
			updated_at = now()
		WHERE id = $1`,
		questionID, d.Upvotes, d.Downvotes, d.Viewers)
	if err != nil {
		return fmt.Errorf("apply counter delta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("question %s not found", questionID)
	}
	return nil
}
