package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/studypulse/checkin-backend/internal/dto"
	"github.com/studypulse/checkin-backend/internal/models"
)

type ProfileSource interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}

type UserService struct {
	store    LedgerStore
	profiles ProfileSource
}

// NewUserService accepts a nil profiles source; Sync then only ensures the row exists.
func NewUserService(store LedgerStore, profiles ProfileSource) *UserService {
	return &UserService{store: store, profiles: profiles}
}

func (s *UserService) Sync(ctx context.Context, userID, sessionID string) (*dto.SyncUserResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	var profile *models.Profile
	if s.profiles != nil {
		p, err := s.profiles.GetProfile(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrProfileLookup, err)
		}
		profile = p
	}

	if err := s.store.UpsertProfile(ctx, userID, profile); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	slog.Info("user synced", "user_id", userID, "with_profile", profile != nil)
	return &dto.SyncUserResponse{OK: true, UserID: userID, SessionID: sessionID}, nil
}
