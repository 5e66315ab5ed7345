package server

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the server logger. With cfg.LogFile set, records go as
// JSON to a rotating file instead of stderr. The returned closer releases
// the file and is a no-op otherwise.
func NewLogger(cfg Config, stderr io.Writer) (*log.Logger, io.Closer, error) {
	level := log.InfoLevel
	if s := strings.TrimSpace(cfg.LogLevel); s != "" {
		l, err := log.ParseLevel(s)
		if err != nil {
			return nil, nil, err
		}
		level = l
	}

	if cfg.LogFile == "" {
		logger := log.NewWithOptions(stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
			Prefix:          "anchor",
		})
		return logger, io.NopCloser(nil), nil
	}

	file := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	logger := log.NewWithOptions(file, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Formatter:       log.JSONFormatter,
	})
	return logger, file, nil
}
