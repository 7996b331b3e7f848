// pkg/logging/logging.go - leveled logging for psinstall.
//
// Console output plus a session log file under the configured log directory.
// The log directory is created on Init and shared with the per-step child
// process output files written by pkg/installer.

package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sys/windows"

	"github.com/burnoil/PSinstall/pkg/config"
)

// LogLevel represents the severity of the log message.
type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// String returns the string representation of the LogLevel.
func (ll LogLevel) String() string {
	switch ll {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a configured level name to a LogLevel. Unknown names fall
// back to INFO.
func ParseLevel(name string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ERROR":
		return LevelError
	case "WARN", "WARNING":
		return LevelWarn
	case "DEBUG":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Logger writes leveled messages to the console and the session log file.
type Logger struct {
	mu       sync.Mutex
	logger   *log.Logger
	logFile  *os.File
	logLevel LogLevel
	console  bool
}

var (
	instance *Logger
	once     sync.Once
)

// Init initializes the singleton logger from the resolved settings. It
// creates the log directory recursively; an existing directory is fine.
func Init(cfg *config.Settings) error {
	var initErr error
	once.Do(func() {
		instance, initErr = newLogger(cfg.LogDir, ParseLevel(cfg.LogLevel))
	})
	return initErr
}

// InitWithDir initializes the logger with an explicit directory and level,
// used by tests.
func InitWithDir(dir string, level LogLevel) error {
	var initErr error
	once.Do(func() {
		instance, initErr = newLogger(dir, level)
	})
	return initErr
}

func newLogger(dir string, level LogLevel) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	logPath := filepath.Join(dir, "psinstall.log")
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	enableColors()
	return &Logger{
		logger:   log.New(file, "", 0),
		logFile:  file,
		logLevel: level,
		console:  true,
	}, nil
}

// CloseLogger closes the session log file if it is open.
func CloseLogger() {
	if instance == nil {
		return
	}
	instance.mu.Lock()
	defer instance.mu.Unlock()
	if instance.logFile != nil {
		if err := instance.logFile.Close(); err != nil {
			fmt.Printf("Failed to close log file: %v\n", err)
		}
		instance.logFile = nil
	}
}

// logMessage is the core logging method shared by the level helpers.
func (l *Logger) logMessage(level LogLevel, message string, keyValues ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level > l.logLevel {
		return
	}

	ts := time.Now().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("[%s] %-5s %s%s", ts, level.String(), message, formatKeyValues(keyValues))

	if l.logger != nil {
		l.logger.Println(line)
	}
	if l.logFile != nil {
		l.logFile.Sync()
	}
	if l.console {
		fmt.Println(colorFor(level) + line + colorReset)
	}
}

// formatKeyValues renders trailing key/value pairs as " key=value" suffixes.
func formatKeyValues(keyValues []interface{}) string {
	var b strings.Builder
	for i := 0; i < len(keyValues); i += 2 {
		if i+1 < len(keyValues) {
			fmt.Fprintf(&b, " %v=%v", keyValues[i], keyValues[i+1])
		} else {
			fmt.Fprintf(&b, " %v", keyValues[i])
		}
	}
	return b.String()
}

// Info logs an informational message with optional key/value pairs.
func Info(message string, keyValues ...interface{}) {
	if instance == nil {
		fmt.Printf("LOGGING NOT INITIALIZED: INFO %s %v\n", message, keyValues)
		return
	}
	instance.logMessage(LevelInfo, message, keyValues...)
}

// Debug logs a debug message with optional key/value pairs.
func Debug(message string, keyValues ...interface{}) {
	if instance == nil {
		return
	}
	instance.logMessage(LevelDebug, message, keyValues...)
}

// Warn logs a warning message with optional key/value pairs.
func Warn(message string, keyValues ...interface{}) {
	if instance == nil {
		fmt.Printf("LOGGING NOT INITIALIZED: WARN %s %v\n", message, keyValues)
		return
	}
	instance.logMessage(LevelWarn, message, keyValues...)
}

// Error logs an error message with optional key/value pairs.
func Error(message string, keyValues ...interface{}) {
	if instance == nil {
		fmt.Printf("LOGGING NOT INITIALIZED: ERROR %s %v\n", message, keyValues)
		return
	}
	instance.logMessage(LevelError, message, keyValues...)
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func colorFor(level LogLevel) string {
	switch level {
	case LevelError:
		return colorRed
	case LevelWarn:
		return colorYellow
	case LevelDebug:
		return colorCyan
	default:
		return ""
	}
}

// enableColors enables ANSI escape processing in the Windows console.
func enableColors() {
	for _, stream := range []*os.File{os.Stdout, os.Stderr} {
		handle := windows.Handle(stream.Fd())
		var mode uint32
		if err := windows.GetConsoleMode(handle, &mode); err == nil {
			mode |= windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING
			_ = windows.SetConsoleMode(handle, mode)
		}
	}
}
