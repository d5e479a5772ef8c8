package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/careagent/internal/constants"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger
)

// Config holds logger configuration
type Config struct {
	Debug  bool
	LogDir string
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
		return err
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, constants.AppName+".log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	level := log.InfoLevel
	if cfg.Debug {
		level = log.DebugLevel
	}

	// Silent on stderr unless debugging; the caregiver sees command output only.
	var writer io.Writer = fileWriter
	if cfg.Debug {
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})

	return nil
}

// Debug logs a debug message
func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

// Info logs an info message
func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

// Warn logs a warning message
func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

// Error logs an error message
func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Fatal logs a fatal error and exits
func Fatal(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
	exitFunc(1)
}

var exitFunc = os.Exit

// Scope carries key/value pairs, such as a request id, into every entry it
// writes. It resolves the global Logger at write time, so a Scope created
// before Init still logs once Init has run.
type Scope struct {
	keyvals []interface{}
}

// With returns a Scope that prefixes its entries with keyvals.
func With(keyvals ...interface{}) Scope {
	return Scope{keyvals: keyvals}
}

func (s Scope) merge(keyvals []interface{}) []interface{} {
	out := make([]interface{}, 0, len(s.keyvals)+len(keyvals))
	out = append(out, s.keyvals...)
	return append(out, keyvals...)
}

func (s Scope) Debug(msg string, keyvals ...interface{}) { Debug(msg, s.merge(keyvals)...) }

func (s Scope) Info(msg string, keyvals ...interface{}) { Info(msg, s.merge(keyvals)...) }

func (s Scope) Warn(msg string, keyvals ...interface{}) { Warn(msg, s.merge(keyvals)...) }

func (s Scope) Error(msg string, keyvals ...interface{}) { Error(msg, s.merge(keyvals)...) }
