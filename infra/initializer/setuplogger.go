package initializer

import (
	"io"
	"log/slog"
	"os"

	"github.com/amirasaad/splitpay/pkg/config"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var levelColors = map[log.Level]lipgloss.AdaptiveColor{
	log.DebugLevel: {Light: "#7E57C2", Dark: "#7E57C2"},
	log.InfoLevel:  {Light: "#04B575", Dark: "#04B575"},
	log.WarnLevel:  {Light: "#EE6FF8", Dark: "#EE6FF8"},
	log.ErrorLevel: {Light: "#FF6B6B", Dark: "#FF6B6B"},
}

// highlighted keys get the colour of the level they usually appear with.
var highlighted = map[string]log.Level{
	"error":       log.ErrorLevel,
	"sender_id":   log.InfoLevel,
	"inn":         log.InfoLevel,
	"total_debit": log.InfoLevel,
	"prefix":      log.DebugLevel,
	"caller":      log.DebugLevel,
	"time":        log.DebugLevel,
}

// SetupLogger builds the process logger on a charmbracelet handler and
// installs it as the slog default.
func SetupLogger(cfg *config.Log) *slog.Logger {
	logger := newLogger(os.Stdout, cfg)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, cfg *config.Log) *slog.Logger {
	if cfg == nil {
		cfg = &config.Log{Format: "text", TimeFormat: "2006-01-02 15:04:05"}
	}
	formatter := log.TextFormatter
	switch cfg.Format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	handler := log.NewWithOptions(w, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           log.Level(cfg.Level),
		Prefix:          cfg.Prefix,
		Formatter:       formatter,
	})
	handler.SetStyles(styles())
	return slog.New(handler)
}

func styles() *log.Styles {
	s := log.DefaultStyles()
	for level, color := range levelColors {
		s.Levels[level] = lipgloss.NewStyle().
			SetString(level.String()).
			Bold(true).
			Padding(0, 1).
			Foreground(color)
	}
	for key, level := range highlighted {
		s.Keys[key] = lipgloss.NewStyle().Foreground(levelColors[level])
		s.Values[key] = lipgloss.NewStyle().Bold(true)
	}
	return s
}
