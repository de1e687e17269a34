package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Logger holds one log.Logger per level and the active threshold.
type Logger struct {
	debugLogger *log.Logger
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	output      io.Writer
	level       LogLevel
	mutex       sync.Mutex
}

// LogLevel defines the logging levels
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// ParseLevel maps a level name to a LogLevel, defaulting to INFO.
func ParseLevel(level string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// GlobalLogger is the process-wide logger. It starts as an INFO logger on
// stderr so packages can log before InitLogger runs.
var GlobalLogger = New(os.Stderr, "INFO")
var once sync.Once

// InitLogger replaces the global logger once with the given output and level.
func InitLogger(output io.Writer, level string) {
	once.Do(func() {
		GlobalLogger = New(output, level)
	})
}

// New builds a standalone logger. A nil output writes to stderr.
func New(output io.Writer, level string) *Logger {
	if output == nil {
		output = os.Stderr
	}
	flags := log.Ldate | log.Ltime | log.Lshortfile
	return &Logger{
		debugLogger: log.New(output, color.BlueString("DEBUG: "), flags),
		infoLogger:  log.New(output, color.GreenString("INFO: "), flags),
		warnLogger:  log.New(output, color.YellowString("WARN: "), flags),
		errorLogger: log.New(output, color.RedString("ERROR: "), flags),
		output:      output,
		level:       ParseLevel(level),
	}
}

// SetLevel changes the threshold at runtime.
func (l *Logger) SetLevel(level string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.level = ParseLevel(level)
}

// Level returns the current threshold.
func (l *Logger) Level() LogLevel {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return l.level
}

func (l *Logger) emit(level LogLevel, target *log.Logger, format string, v ...interface{}) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.level > level {
		return
	}
	// depth 3: emit -> Printf/Errorf/... -> caller
	if format == "" {
		_ = target.Output(3, strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
		return
	}
	_ = target.Output(3, fmt.Sprintf(format, v...))
}

// Println logs a message at the INFO level
func (l *Logger) Println(v ...interface{}) { l.emit(INFO, l.infoLogger, "", v...) }

// Printf logs a formatted message at the INFO level
func (l *Logger) Printf(format string, v ...interface{}) { l.emit(INFO, l.infoLogger, format, v...) }

// Warn logs a message at the WARN level
func (l *Logger) Warn(v ...interface{}) { l.emit(WARN, l.warnLogger, "", v...) }

// Warnf logs a formatted message at the WARN level
func (l *Logger) Warnf(format string, v ...interface{}) { l.emit(WARN, l.warnLogger, format, v...) }

// Error logs a message at the ERROR level
func (l *Logger) Error(v ...interface{}) { l.emit(ERROR, l.errorLogger, "", v...) }

// Errorf logs a formatted message at the ERROR level
func (l *Logger) Errorf(format string, v ...interface{}) { l.emit(ERROR, l.errorLogger, format, v...) }

// Debug logs a message at the DEBUG level
func (l *Logger) Debug(v ...interface{}) { l.emit(DEBUG, l.debugLogger, "", v...) }

// Debugf logs a formatted message at the DEBUG level
func (l *Logger) Debugf(format string, v ...interface{}) { l.emit(DEBUG, l.debugLogger, format, v...) }
