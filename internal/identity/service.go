// Package identity manages externally-authenticated user profiles and the
// sentinel system identity that anonymous activity falls back to.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned by stores when no user row matches.
var ErrNotFound = errors.New("user not found")

// Store exposes the user table operations identity flows need.
type Store interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByExternalUID(ctx context.Context, uid string) (*User, error)
	Create(ctx context.Context, user User) (*User, error)
	UpsertByExternalUID(ctx context.Context, user User) (*User, error)
}

// Service handles check/create/sync flows and actor resolution.
type Service struct {
	store    Store
	tokenMgr *TokenManager
	logger   zerolog.Logger
}

func NewService(store Store, tokenMgr *TokenManager, logger zerolog.Logger) *Service {
	return &Service{
		store:    store,
		tokenMgr: tokenMgr,
		logger:   logger.With().Str("component", "identity").Logger(),
	}
}

// Check looks up a user by external uid.
func (s *Service) Check(ctx context.Context, externalUID string) (*User, bool, error) {
	user, err := s.store.GetByExternalUID(ctx, externalUID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return user, true, nil
}

// Create registers a new externally-authenticated user and mints a session
// token for it.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*User, string, error) {
	user := User{
		ExternalUID: req.ExternalUID,
		Email:       req.Email,
		Name:        req.Name,
		Image:       req.Image,
		IPAddress:   req.IP,
		Location:    req.Location,
	}
	if user.Location == "" {
		user.Location = "Unknown"
	}
	if req.Birthday != "" {
		if bd, err := time.Parse("2006-01-02", req.Birthday); err == nil {
			user.Birthday = &bd
		}
	}

	created, err := s.store.Create(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokenMgr.Mint(created)
	if err != nil {
		return nil, "", fmt.Errorf("mint session token: %w", err)
	}
	return created, token, nil
}

// Sync upserts profile fields keyed by external uid and mints a fresh session
// token.
func (s *Service) Sync(ctx context.Context, req SyncRequest) (*User, string, error) {
	user := User{
		ExternalUID: req.ExternalUID,
		Email:       req.Email,
		Name:        req.Name,
		Image:       req.Image,
		Location:    req.Location,
	}
	if user.Location == "" {
		user.Location = "Unknown"
	}

	synced, err := s.store.UpsertByExternalUID(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("sync user: %w", err)
	}

	token, err := s.tokenMgr.Mint(synced)
	if err != nil {
		return nil, "", fmt.Errorf("mint session token: %w", err)
	}
	return synced, token, nil
}

// ResolveActor maps a claimed identity onto a persisted user id: an explicit
// id that exists wins, then a user matching the external uid, then the system
// sentinel.
func (s *Service) ResolveActor(ctx context.Context, explicitID, externalUID string) (string, error) {
	if explicitID != "" {
		if _, err := s.store.GetByID(ctx, explicitID); err == nil {
			return explicitID, nil
		} else if !errors.Is(err, ErrNotFound) {
			return "", err
		}
		if explicitID != SystemUserID {
			s.logger.Warn().Str("user_id", explicitID).Msg("claimed user not found, falling back")
		}
	}

	if externalUID != "" {
		user, err := s.store.GetByExternalUID(ctx, externalUID)
		if err == nil {
			return user.ID, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", err
		}
	}

	return SystemUserID, nil
}

// ResolveUserID returns the persisted user id for the claimed identity, or
// empty when the caller is a guest with no matching row. Unlike ResolveActor
// it never falls back to the system identity.
func (s *Service) ResolveUserID(ctx context.Context, explicitID, externalUID string) (string, error) {
	if explicitID != "" {
		return explicitID, nil
	}
	if externalUID == "" {
		return "", nil
	}
	user, err := s.store.GetByExternalUID(ctx, externalUID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return user.ID, nil
}
