package goSecurity

import (
	"io"
	"log/slog"

	"github.com/MrEthical07/goSecurity/internal/logging"
)

const serviceName = "gosecurity"

// NewLogger builds a slog.Logger from textual settings. level is one of
// debug, info, warn or error; format is json (default) or text. A nil w
// writes to stderr.
func NewLogger(level, format string, w io.Writer) *slog.Logger {
	return logging.New(level, format, w)
}

func managerLogger(base *slog.Logger, cfg LoggingConfig) *slog.Logger {
	if base == nil {
		base = logging.New(cfg.Level, cfg.Format, nil)
	}
	return logging.Child(base, serviceName)
}
