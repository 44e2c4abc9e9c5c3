package utils

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	instance *Logger
	once     sync.Once
	mu       sync.Mutex
)

// Logger wraps a logrus logger shared by the whole process.
type Logger struct {
	entry *logrus.Entry
}

// getDefaultLogFilePath returns the default log file path
func getDefaultLogFilePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	logDir := filepath.Join(homeDir, ".geomys")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(logDir, "geomys.log"), nil
}

// NewLogger creates the logger instance (singleton). Entries go to stdout and
// to logFilePath; an empty path means ~/.geomys/geomys.log. Debug entries are
// only emitted in debug mode.
func NewLogger(logFilePath string, debugMode bool) *Logger {
	once.Do(func() {
		out := logrus.New()
		out.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		out.SetOutput(os.Stdout)
		out.SetLevel(logrus.InfoLevel)
		if debugMode {
			out.SetLevel(logrus.DebugLevel)
		}

		if logFilePath == "" {
			path, err := getDefaultLogFilePath()
			if err != nil {
				out.WithError(err).Warn("Failed to resolve log file, logging to stdout only")
			}
			logFilePath = path
		}
		if logFilePath != "" {
			file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				out.WithError(err).Warn("Failed to open log file, logging to stdout only")
			} else {
				out.SetOutput(io.MultiWriter(file, os.Stdout))
			}
		}

		setInstance(&Logger{entry: logrus.NewEntry(out).WithField("module", "geomys")})
	})
	return GetLogger()
}

// GetLogger retrieves the singleton logger instance. Before NewLogger has
// run it returns a stdout logger at info level.
func GetLogger() *Logger {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		instance = &Logger{entry: logrus.NewEntry(logrus.StandardLogger()).WithField("module", "geomys")}
	}
	return instance
}

func setInstance(l *Logger) {
	mu.Lock()
	defer mu.Unlock()
	instance = l
}

// WithField returns a logger that adds key to every entry.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

// Logging methods
func (l *Logger) Info(message string) {
	l.entry.Info(message)
}

func (l *Logger) Warn(message string) {
	l.entry.Warn(message)
}

func (l *Logger) Error(message string) {
	l.entry.Error(message)
}

func (l *Logger) Debug(message string) {
	l.entry.Debug(message)
}
