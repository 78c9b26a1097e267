package logging

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/studypulse/checkin-backend/internal/models"
	"gorm.io/gorm"
)

// StartCleanup schedules a daily job deleting system_logs older than retentionDays.
// The caller shuts the returned scheduler down on exit.
func StartCleanup(db *gorm.DB, retentionDays int) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			deleted, err := PurgeSystemLogs(db, time.Now().AddDate(0, 0, -retentionDays))
			if err != nil {
				slog.Error("log cleanup failed", "action", "log_cleanup", "error", err)
			} else if deleted > 0 {
				slog.Info("log cleanup completed", "deleted", deleted)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to schedule log cleanup: %w", err)
	}

	sched.Start()
	return sched, nil
}

func PurgeSystemLogs(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}
