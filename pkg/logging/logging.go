package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
)

const (
	// AppName names the log directory and log files.
	AppName = "dotfiles-installer"

	// LogFileFormat is the time layout of the per-run log file name.
	LogFileFormat = "dotfiles-installer_2006-01-02_15:04:05.log"

	// DefaultLevelIndex selects info in Levels.
	DefaultLevelIndex = 3
)

// Levels lists console levels from quietest to most verbose.
var Levels = []zerolog.Level{
	zerolog.Disabled,
	zerolog.ErrorLevel,
	zerolog.WarnLevel,
	zerolog.InfoLevel,
	zerolog.DebugLevel,
	zerolog.TraceLevel,
}

// LevelFor maps -v and -q counts to a console level. Each -v moves one step
// towards trace, each -q one step towards silence.
func LevelFor(verbose, quiet int) zerolog.Level {
	idx := DefaultLevelIndex + verbose - quiet
	if idx < 0 {
		idx = 0
	}
	if idx > len(Levels)-1 {
		idx = len(Levels) - 1
	}
	return Levels[idx]
}

// Options configures Setup
type Options struct {
	// Level is the console level. The log file always records trace.
	Level zerolog.Level

	// Console receives human readable output. Defaults to os.Stderr.
	Console io.Writer

	// Dir holds the log file. Defaults to $XDG_STATE_HOME/dotfiles-installer.
	Dir string

	// NoColor disables colors on the console.
	NoColor bool

	// Now is used to name the log file. Defaults to time.Now.
	Now func() time.Time
}

// Setup builds the logger for one run. It writes to the console at
// opts.Level and to a timestamped log file at trace level. If the log file
// cannot be created the logger falls back to console only and says so.
//
// The returned path is empty when no log file is in use. The returned
// function closes the log file.
func Setup(opts Options) (zerolog.Logger, string, func()) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.Kitchen,
		NoColor:    opts.NoColor,
	}

	writers := []io.Writer{&zerolog.FilteredLevelWriter{
		Writer: zerolog.LevelWriterAdapter{Writer: consoleWriter},
		Level:  opts.Level,
	}}

	logFile := filepath.Join(logDir(opts.Dir), now().Format(LogFileFormat))
	fileHandle, err := setupLogFile(logFile)
	if err == nil {
		writers = append(writers, fileHandle)
	}

	// Filtering happens per writer, so let every event through globally.
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(zerolog.TraceLevel).
		With().Timestamp().Logger()

	// Add caller information for debug and trace levels
	if opts.Level != zerolog.Disabled && opts.Level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}

	if err != nil {
		logger.Error().Err(err).Str("path", logFile).Msg("Failed to create log file")
		logger.Warn().Msg("Continuing with logging only to the console")
		return logger, "", func() {}
	}

	logger.Info().Str("path", logFile).Msg("Logging to file")
	return logger, logFile, func() { _ = fileHandle.Close() }
}

// Component returns a logger tagged with the component name
func Component(logger zerolog.Logger, name string) zerolog.Logger {
	return logger.With().Str("component", name).Logger()
}

// LogOperationStart logs the start of an operation and returns a function to log its completion
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().
		Str("operation", operation).
		Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}

// logDir returns the directory for log files
// It respects XDG_STATE_HOME through adrg/xdg
func logDir(dir string) string {
	if dir != "" {
		return dir
	}
	return filepath.Join(xdg.StateHome, AppName)
}

// setupLogFile creates the log file and its parent directories
func setupLogFile(logPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return file, nil
}
