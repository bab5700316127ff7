package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const maxRetentionDays = 7

var (
	// Logger is the process-wide logger. Helpers are no-ops until Init runs.
	Logger *log.Logger
)

// Config holds logger configuration
type Config struct {
	Dir           string
	Level         string
	RetentionDays int
	// Quiet drops the stdout copy, leaving only the rotating file.
	Quiet bool
}

// Init sets up the global logger writing to stdout and Dir/app.log.
// The returned func flushes and closes the log file.
func Init(cfg Config) (func() error, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "storage/logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	retention := cfg.RetentionDays
	if retention <= 0 || retention > maxRetentionDays {
		retention = maxRetentionDays
	}
	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "app.log"),
		MaxSize:    10, // megabytes
		MaxBackups: retention,
		MaxAge:     retention,
		Compress:   true,
	}

	var writer io.Writer = fileWriter
	if !cfg.Quiet {
		writer = io.MultiWriter(os.Stdout, fileWriter)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportTimestamp: true,
		Level:           ParseLevel(cfg.Level),
		Prefix:          "tracker",
	})
	return fileWriter.Close, nil
}

// ParseLevel maps debug|info|warn|error to a level, defaulting to info.
func ParseLevel(raw string) log.Level {
	level, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs and exits with status 1.
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Fatal(msg, keyvals...)
	}
	os.Exit(1)
}
