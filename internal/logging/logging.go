// Package logging configures the slog-based loggers used across the pipeline.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults applied when no configuration has been supplied.
const (
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 3
	defaultMaxAgeDays = 28
)

// Config holds file logging settings, normally populated from conf.Settings.
type Config struct {
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var (
	configMu sync.RWMutex
	config   = Config{Dir: "logs", MaxSizeMB: defaultMaxSizeMB, MaxBackups: defaultMaxBackups, MaxAgeDays: defaultMaxAgeDays}
)

// SetConfig installs the file logging configuration. Zero values keep defaults.
func SetConfig(c Config) {
	configMu.Lock()
	defer configMu.Unlock()
	if c.Dir != "" {
		config.Dir = c.Dir
	}
	if c.MaxSizeMB > 0 {
		config.MaxSizeMB = c.MaxSizeMB
	}
	if c.MaxBackups > 0 {
		config.MaxBackups = c.MaxBackups
	}
	if c.MaxAgeDays > 0 {
		config.MaxAgeDays = c.MaxAgeDays
	}
}

// Dir returns the configured log directory.
func Dir() string {
	configMu.RLock()
	defer configMu.RUnlock()
	return config.Dir
}

// Init initializes the default logger. Debug mode lowers the level and
// switches to text output for readability during interactive runs.
func Init(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// NewFileLogger creates a slog.Logger writing JSON logs to the given file,
// rotated by lumberjack. Every record carries a 'service' attribute. The
// returned func closes the underlying writer.
func NewFileLogger(filePath, serviceName string, level slog.Leveler) (*slog.Logger, func() error, error) {
	logDir := filepath.Dir(filePath)
	if logDir != "." {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
		}
	}

	configMu.RLock()
	c := config
	configMu.RUnlock()

	logWriter := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAge:     c.MaxAgeDays,
	}

	fileHandler := slog.NewJSONHandler(logWriter, &slog.HandlerOptions{Level: level})
	logger := slog.New(fileHandler).With("service", serviceName)

	closeFunc := func() error {
		return logWriter.Close()
	}

	return logger, closeFunc, nil
}
