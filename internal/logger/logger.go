// Package logger is a small leveled wrapper around the standard log package.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	NONE
)

var (
	mu        sync.RWMutex
	level     = INFO
	logFile   io.Closer
	stdLogger = log.New(os.Stderr, "[spamcheck] ", log.LstdFlags)
)

// ParseLevel maps a level name to a Level.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return DEBUG, nil
	case "info", "":
		return INFO, nil
	case "warn":
		return WARN, nil
	case "error":
		return ERROR, nil
	case "none":
		return NONE, nil
	}
	return INFO, fmt.Errorf("unknown log level %q", name)
}

// Init sets the level and, when logfilePath is set, tees output to that file.
func Init(logfilePath string, levelName string) error {
	lvl, err := ParseLevel(levelName)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stderr
	var closer io.Closer
	if logfilePath != "" {
		if err := os.MkdirAll(filepath.Dir(logfilePath), 0755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(logfilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(os.Stderr, f)
		closer = f
	}

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
	}
	level = lvl
	logFile = closer
	stdLogger.SetOutput(out)
	return nil
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	stdLogger.SetOutput(w)
}

// SetLevel changes the minimum level that is written.
func SetLevel(lvl Level) {
	mu.Lock()
	level = lvl
	mu.Unlock()
}

func enabled(lvl Level) bool {
	mu.RLock()
	defer mu.RUnlock()
	return level <= lvl
}

func Debug(msg string, args ...any) {
	if enabled(DEBUG) {
		stdLogger.Printf("[DEBUG] "+msg, args...)
	}
}

func Info(msg string, args ...any) {
	if enabled(INFO) {
		stdLogger.Printf("[INFO] "+msg, args...)
	}
}

func Warn(msg string, args ...any) {
	if enabled(WARN) {
		stdLogger.Printf("[WARN] "+msg, args...)
	}
}

func Error(msg string, args ...any) {
	if enabled(ERROR) {
		stdLogger.Printf("[ERROR] "+msg, args...)
	}
}
