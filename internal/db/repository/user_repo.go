package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/queple/queple-server/internal/identity"
)

const userColumns = `id, firebase_uid, email, name, image, location, ip_address, birthday, created_at, updated_at`

// UserRepository implements identity.Store over pgx.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

var _ identity.Store = (*UserRepository)(nil)

// GetByID fetches a user by internal id.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*identity.User, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns), id)
	return scanUser(row)
}

// GetByExternalUID fetches a user by external auth identifier.
func (r *UserRepository) GetByExternalUID(ctx context.Context, uid string) (*identity.User, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT %s FROM users WHERE firebase_uid = $1`, userColumns), uid)
	return scanUser(row)
}

// Create inserts a new user row.
func (r *UserRepository) Create(ctx context.Context, user identity.User) (*identity.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO users (id, firebase_uid, email, name, image, location, ip_address, birthday)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s`, userColumns),
		user.ID, user.ExternalUID, user.Email, user.Name, user.Image, user.Location, user.IPAddress, user.Birthday)
	return scanUser(row)
}

// UpsertByExternalUID creates the user or refreshes profile fields when a row
// with the same external uid exists.
func (r *UserRepository) UpsertByExternalUID(ctx context.Context, user identity.User) (*identity.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	row := r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO users (id, firebase_uid, email, name, image, location)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (firebase_uid) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			image = EXCLUDED.image,
			location = EXCLUDED.location,
			updated_at = now()
		RETURNING %s`, userColumns),
		user.ID, user.ExternalUID, user.Email, user.Name, user.Image, user.Location)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*identity.User, error) {
	var u identity.User
	err := row.Scan(&u.ID, &u.ExternalUID, &u.Email, &u.Name, &u.Image, &u.Location, &u.IPAddress, &u.Birthday, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, identity.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
