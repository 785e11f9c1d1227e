// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options configures New.
type Options struct {
	Level  string    // logrus level name, default "info"
	Format string    // "text" or "json", default "text"
	Output io.Writer // default os.Stderr
}

// New creates a logger. Levels and formats are validated so a bad config
// fails at startup.
func New(opts Options) (*log.Logger, error) {
	logger := log.New()

	level := log.InfoLevel
	if strings.TrimSpace(opts.Level) != "" {
		lvl, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = lvl
	}
	logger.SetLevel(level)

	switch strings.ToLower(opts.Format) {
	case "", FormatText:
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case FormatJSON:
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		return nil, fmt.Errorf("log format %q: must be %s or %s", opts.Format, FormatText, FormatJSON)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	logger.SetOutput(out)

	return logger, nil
}
