package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/studypulse/checkin-backend/internal/dto"
	"github.com/studypulse/checkin-backend/internal/models"
)

// LedgerStore is the persistence the check-in ledger needs. Implementations must
// enforce at most one record per (user, day) with a uniqueness constraint and run
// CheckIn as a single transaction.
type LedgerStore interface {
	Status(ctx context.Context, userID string, day time.Time) (*models.LedgerSnapshot, error)
	CheckIn(ctx context.Context, userID string, day time.Time, reward int) (*models.CheckinResult, error)
	UpsertProfile(ctx context.Context, userID string, profile *models.Profile) error
}

type CheckinService struct {
	store  LedgerStore
	days   *DayResolver
	reward int
}

func NewCheckinService(store LedgerStore, days *DayResolver, reward int) *CheckinService {
	return &CheckinService{store: store, days: days, reward: reward}
}

func (s *CheckinService) Reward() int {
	return s.reward
}

// Status reports whether userID already checked in today, plus lifetime totals.
func (s *CheckinService) Status(ctx context.Context, userID string) (*dto.CheckinStatusResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	today := s.days.Today()
	snap, err := s.store.Status(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return &dto.CheckinStatusResponse{
		OK:             true,
		Today:          FormatDay(today),
		CheckedInToday: snap.CheckedInToday,
		TotalDays:      snap.TotalDays,
		Points:         snap.Points,
	}, nil
}

// CheckIn credits today's reward at most once. Repeated calls on the same day
// report zero gained points with the same totals.
func (s *CheckinService) CheckIn(ctx context.Context, userID string) (*dto.CheckinResponse, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	today := s.days.Today()
	result, err := s.store.CheckIn(ctx, userID, today, s.reward)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransactionFailure, err)
	}

	gained := 0
	if result.Inserted {
		gained = s.reward
		slog.Info("checkin credited", "user_id", userID, "today", FormatDay(today), "gained_points", gained)
	}

	return &dto.CheckinResponse{
		OK:             true,
		Today:          FormatDay(today),
		CheckedInToday: true,
		GainedPoints:   gained,
		TotalDays:      result.TotalDays,
		Points:         result.Points,
	}, nil
}
