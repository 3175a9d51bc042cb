// Package repository provides typed Postgres access for the domain services.
// All SQL lives here; services see only domain types.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/queple/queple-server/internal/question"
)

const questionColumns = `id, content, for_gender, level, is_18_plus, category_id, creator_id,
	upvotes, downvotes, viewers_count, created_at, updated_at`

// QuestionRepository implements question.Store over pgx.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

var _ question.Store = (*QuestionRepository)(nil)

// FetchCandidates returns up to f.Limit questions matching the bucket filter,
// excluding already-seen ids at the query level.
func (r *QuestionRepository) FetchCandidates(ctx context.Context, f question.Filter) ([]question.Question, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM questions
		WHERE for_gender = $1
		  AND level BETWEEN $2 AND $3
		  AND (is_18_plus = false OR $4)
		  AND ($5 = '' OR category_id = $5)
		  AND id <> ALL($6)
		LIMIT $7`, questionColumns)

	exclude := f.ExcludeIDs
	if exclude == nil {
		exclude = []string{}
	}
	rows, err := r.pool.Query(ctx, query, f.Gender, f.MinLevel, f.MaxLevel, f.Allow18Plus, f.CategoryID, exclude, f.Limit)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}
	defer rows.Close()
	return scanQuestions(rows)
}

// FetchRecent returns the newest questions matching the recommendation filter.
// A BOTH target places no gender restriction; otherwise rows for the target
// gender or BOTH qualify.
func (r *QuestionRepository) FetchRecent(ctx context.Context, f question.RecentFilter) ([]question.Question, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM questions
		WHERE ($1 = 'BOTH' OR for_gender IN ($1, 'BOTH'))
		  AND level BETWEEN $2 AND $3
		  AND (is_18_plus = false OR $4)
		  AND ($5 = '' OR category_id = $5)
		  AND id <> ALL($6)
		ORDER BY created_at DESC
		LIMIT $7`, questionColumns)

	exclude := f.ExcludeIDs
	if exclude == nil {
		exclude = []string{}
	}
	rows, err := r.pool.Query(ctx, query, f.TargetGender, f.MinLevel, f.MaxLevel, f.Allow18Plus, f.CategoryID, exclude, f.Limit)
	if err != nil {
		return nil, fmt.Errorf("fetch recent: %w", err)
	}
	defer rows.Close()
	return scanQuestions(rows)
}

// Insert stores a new question row and returns it with timestamps populated.
func (r *QuestionRepository) Insert(ctx context.Context, q question.Question) (question.Question, error) {
	query := fmt.Sprintf(`
		INSERT INTO questions (id, content, for_gender, level, is_18_plus, category_id, creator_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s`, questionColumns)

	row := r.pool.QueryRow(ctx, query, q.ID, q.Content, q.ForGender, q.Level, q.Is18Plus, q.CategoryID, q.CreatorID)
	return scanQuestion(row)
}

// VotedQuestionIDs lists questions the user has upvoted or downvoted. Skips
// are deliberately absent so skipped cards can resurface.
func (r *QuestionRepository) VotedQuestionIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT question_id FROM user_questions
		WHERE user_id = $1 AND reaction IN ('UPVOTE', 'DOWNVOTE')`, userID)
	if err != nil {
		return nil, fmt.Errorf("voted history: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RandomUnseen picks one uniformly random question the user has never
// interacted with, or any random question for guests. Returns nil when the
// pool is exhausted.
func (r *QuestionRepository) RandomUnseen(ctx context.Context, userID string) (*question.Question, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM questions q
		WHERE $1 = '' OR NOT EXISTS (
			SELECT 1 FROM user_questions uq
			WHERE uq.question_id = q.id AND uq.user_id = $1
		)
		ORDER BY random()
		LIMIT 1`, questionColumns)

	row := r.pool.QueryRow(ctx, query, userID)
	q, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("random unseen: %w", err)
	}
	return &q, nil
}

// FirstOrCreateCategory returns any existing category id, creating one with
// defaultName when the table is empty.
func (r *QuestionRepository) FirstOrCreateCategory(ctx context.Context, defaultName string) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `SELECT id FROM categories ORDER BY id LIMIT 1`).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("first category: %w", err)
	}

	id = uuid.NewString()
	if _, err := r.pool.Exec(ctx, `INSERT INTO categories (id, name) VALUES ($1, $2)`, id, defaultName); err != nil {
		return "", fmt.Errorf("create category: %w", err)
	}
	return id, nil
}

func scanQuestion(row pgx.Row) (question.Question, error) {
	var q question.Question
	err := row.Scan(&q.ID, &q.Content, &q.ForGender, &q.Level, &q.Is18Plus, &q.CategoryID, &q.CreatorID,
		&q.Upvotes, &q.Downvotes, &q.ViewersCount, &q.CreatedAt, &q.UpdatedAt)
	return q, err
}

func scanQuestions(rows pgx.Rows) ([]question.Question, error) {
	var qs []question.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		qs = append(qs, q)
	}
	return qs, rows.Err()
}
