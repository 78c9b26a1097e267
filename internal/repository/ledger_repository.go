package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/studypulse/checkin-backend/internal/database"
	"github.com/studypulse/checkin-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const snapshotQuery = `
SELECT
	EXISTS(SELECT 1 FROM app_checkins WHERE clerk_user_id = ? AND checkin_date = ?) AS checked_in_today,
	(SELECT COUNT(*) FROM app_checkins WHERE clerk_user_id = ?) AS total_days,
	COALESCE((SELECT points FROM app_users WHERE clerk_user_id = ?), 0) AS points`

// LedgerRepository keeps the check-in ledger in Postgres. All cross-request
// coordination goes through the unique (clerk_user_id, checkin_date) index.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// Status upserts the user row (bumping last_seen_at) and reads the snapshot for day.
func (r *LedgerRepository) Status(ctx context.Context, userID string, day time.Time) (*models.LedgerSnapshot, error) {
	db := r.db.WithContext(ctx)
	if err := touchUser(db, userID); err != nil {
		return nil, err
	}

	snap, err := readSnapshot(db, userID, day)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// CheckIn inserts the record for (userID, day) and credits reward only when the
// insert actually happened. Everything runs in one transaction.
func (r *LedgerRepository) CheckIn(ctx context.Context, userID string, day time.Time, reward int) (*models.CheckinResult, error) {
	var result models.CheckinResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := touchUser(tx, userID); err != nil {
			return err
		}

		record := models.CheckinRecord{
			ClerkUserID: userID,
			CheckinDate: datatypes.Date(day),
		}
		ins := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "clerk_user_id"}, {Name: "checkin_date"}},
				DoNothing: true,
			}).
			Create(&record)
		if ins.Error != nil {
			return fmt.Errorf("insert checkin: %w", ins.Error)
		}
		result.Inserted = ins.RowsAffected == 1

		if result.Inserted {
			upd := tx.Model(&models.User{}).
				Where("clerk_user_id = ?", userID).
				Updates(map[string]interface{}{
					"points":       gorm.Expr("points + ?", reward),
					"last_seen_at": gorm.Expr("NOW()"),
				})
			if upd.Error != nil {
				return fmt.Errorf("credit points: %w", upd.Error)
			}
			if upd.RowsAffected != 1 {
				return fmt.Errorf("credit points: user %s not found", userID)
			}
		}

		snap, err := readSnapshot(tx, userID, day)
		if err != nil {
			return err
		}
		result.LedgerSnapshot = *snap
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// UpsertProfile writes the advisory profile fields, last write wins.
// A nil profile only ensures the row exists.
func (r *LedgerRepository) UpsertProfile(ctx context.Context, userID string, profile *models.Profile) error {
	db := r.db.WithContext(ctx)
	if profile == nil {
		return touchUser(db, userID)
	}

	user := models.User{
		ClerkUserID: userID,
		Email:       profile.Email,
		FullName:    profile.FullName,
		AvatarURL:   profile.AvatarURL,
		LastSeenAt:  time.Now(),
	}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "clerk_user_id"}},
		DoUpdates: clause.Set{
			{Column: clause.Column{Name: "email"}, Value: gorm.Expr("EXCLUDED.email")},
			{Column: clause.Column{Name: "full_name"}, Value: gorm.Expr("EXCLUDED.full_name")},
			{Column: clause.Column{Name: "avatar_url"}, Value: gorm.Expr("EXCLUDED.avatar_url")},
			{Column: clause.Column{Name: "last_seen_at"}, Value: gorm.Expr("NOW()")},
		},
	}).Select("clerk_user_id", "email", "full_name", "avatar_url", "last_seen_at").Create(&user).Error
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (r *LedgerRepository) Ping(ctx context.Context) error {
	return database.Ping(ctx, r.db)
}

// touchUser creates the row with zero points or bumps last_seen_at; never check-then-insert.
func touchUser(db *gorm.DB, userID string) error {
	err := db.Exec(`
		INSERT INTO app_users (clerk_user_id, last_seen_at)
		VALUES (?, NOW())
		ON CONFLICT (clerk_user_id) DO UPDATE SET last_seen_at = NOW()`, userID).Error
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}

func readSnapshot(db *gorm.DB, userID string, day time.Time) (*models.LedgerSnapshot, error) {
	var snap models.LedgerSnapshot
	date := datatypes.Date(day)
	if err := db.Raw(snapshotQuery, userID, date, userID, userID).Scan(&snap).Error; err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return &snap, nil
}
