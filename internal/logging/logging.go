// Package logging builds the process logger from the log section of the config.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ledgerlift/statex/internal/config"
)

// New returns a logger writing to w, or to cfg.File when set. The returned
// close func releases the file and is safe to call when no file was opened.
func New(cfg config.LogConfig, w io.Writer) (*logrus.Logger, func() error, error) {
	log := logrus.New()
	closeFn := func() error { return nil }

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, closeFn, fmt.Errorf("parsing log level: %w", err)
	}
	log.SetLevel(lvl)

	switch cfg.Format {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, closeFn, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	log.SetOutput(w)
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, closeFn, fmt.Errorf("creating log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, closeFn, fmt.Errorf("opening log file: %w", err)
		}
		log.SetOutput(f)
		closeFn = f.Close
	}
	return log, closeFn, nil
}
