package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// Logger is the leveled logger shared by every component.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Error(ctx context.Context, msg string, args ...interface{})
}

type implLogger struct {
	logger *log.Logger
	level  string
	format string
}

// New creates a new Logger instance. Format is "text" or "json";
// anything else falls back to text.
func New(level, format string) Logger {
	format = strings.ToLower(format)
	flags := log.LstdFlags
	if format == "json" {
		// Timestamp is part of the JSON record instead.
		flags = 0
	}
	return &implLogger{
		logger: log.New(os.Stdout, "", flags),
		level:  strings.ToLower(level),
		format: format,
	}
}

func (l *implLogger) shouldLog(level string) bool {
	levels := map[string]int{
		"debug": 0,
		"info":  1,
		"warn":  2,
		"error": 3,
	}

	currentLevel, ok := levels[l.level]
	if !ok {
		currentLevel = 1 // default to info
	}

	targetLevel, ok := levels[level]
	if !ok {
		return true
	}

	return targetLevel >= currentLevel
}

func (l *implLogger) write(level, msg string, args ...interface{}) {
	if !l.shouldLog(level) {
		return
	}
	if l.format == "json" {
		rec := map[string]string{
			"ts":    time.Now().Format(time.RFC3339),
			"level": level,
			"msg":   fmt.Sprintf(msg, args...),
		}
		b, err := json.Marshal(rec)
		if err != nil {
			l.logger.Printf("[%s] "+msg, append([]interface{}{strings.ToUpper(level)}, args...)...)
			return
		}
		l.logger.Print(string(b))
		return
	}
	l.logger.Printf("["+strings.ToUpper(level)+"] "+msg, args...)
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.write("debug", msg, args...)
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.write("info", msg, args...)
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.write("warn", msg, args...)
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.write("error", msg, args...)
}

// Helper to format error messages
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%v", err)
}
