package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/studypulse/checkin-backend/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup installs the global slog logger: JSON to stdout, plus a rotating file
// when LOG_FILE is set. The returned closer releases the file.
func Setup(cfg *config.Config) (slog.Handler, io.Closer) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	var closer io.Closer = nopCloser{}

	if cfg.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			Compress:   true,
		}
		handler = NewMultiHandler(handler, slog.NewJSONHandler(file, opts))
		closer = file
	}

	slog.SetDefault(slog.New(handler))
	return handler, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
