package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ANSI color codes
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Gray    = "\033[90m"

	BrightRed     = "\033[91m"
	BrightGreen   = "\033[92m"
	BrightYellow  = "\033[93m"
	BrightBlue    = "\033[94m"
	BrightMagenta = "\033[95m"
	BrightCyan    = "\033[96m"
	BrightWhite   = "\033[97m"
)

// ColoredLogger wraps zap.Logger with colored, component-tagged output
type ColoredLogger struct {
	*zap.Logger
	enableColors bool
	file         *os.File // set when logging to OutputFile
}

// Component represents different parts of the system for color coding
type Component string

const (
	ComponentRecords Component = "RECORDS"
	ComponentBackend Component = "BACKEND"
	ComponentREST    Component = "REST"
	ComponentRQLite  Component = "RQLITE"
	ComponentAuth    Component = "AUTH"
	ComponentConfig  Component = "CONFIG"
	ComponentCLI     Component = "CLI"
	ComponentGeneral Component = "GENERAL"
)

func getComponentColor(component Component) string {
	switch component {
	case ComponentRecords:
		return BrightBlue
	case ComponentBackend:
		return Green
	case ComponentREST:
		return BrightCyan
	case ComponentRQLite:
		return BrightMagenta
	case ComponentAuth:
		return BrightYellow
	case ComponentConfig:
		return Cyan
	case ComponentCLI:
		return BrightGreen
	case ComponentGeneral:
		return Yellow
	default:
		return White
	}
}

func getLevelColor(level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return Gray
	case zapcore.InfoLevel:
		return BrightWhite
	case zapcore.WarnLevel:
		return BrightYellow
	case zapcore.ErrorLevel:
		return BrightRed
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return Red
	default:
		return White
	}
}

// coloredConsoleEncoder creates a compact console encoder: HH:MM:SS, one-letter
// level, caller file without extension.
func coloredConsoleEncoder(enableColors bool) zapcore.Encoder {
	config := zap.NewDevelopmentEncoderConfig()

	config.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		timeStr := t.Format("15:04:05")
		if enableColors {
			enc.AppendString(fmt.Sprintf("%s%s%s", Dim, timeStr, Reset))
		} else {
			enc.AppendString(timeStr)
		}
	}

	config.EncodeLevel = func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		levelMap := map[zapcore.Level]string{
			zapcore.DebugLevel: "D",
			zapcore.InfoLevel:  "I",
			zapcore.WarnLevel:  "W",
			zapcore.ErrorLevel: "E",
		}
		levelStr := levelMap[level]
		if levelStr == "" {
			levelStr = "?"
		}
		if enableColors {
			enc.AppendString(fmt.Sprintf("%s%s%s%s", getLevelColor(level), Bold, levelStr, Reset))
		} else {
			enc.AppendString(levelStr)
		}
	}

	config.EncodeCaller = func(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		file := caller.File
		if idx := strings.LastIndex(file, "/"); idx >= 0 {
			file = file[idx+1:]
		}
		file = strings.TrimSuffix(file, ".go")
		if enableColors {
			enc.AppendString(fmt.Sprintf("%s%s%s", Dim, file, Reset))
		} else {
			enc.AppendString(file)
		}
	}

	return zapcore.NewConsoleEncoder(config)
}

// Options selects level, encoding and destination for New.
type Options struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	OutputFile string // empty for Writer
	NoColor    bool

	Writer io.Writer // defaults to stdout
}

// New builds a logger from Options. Console output uses the colored encoder;
// json output uses zap's production encoder.
func New(opts Options) (*ColoredLogger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	colors := !opts.NoColor
	if opts.OutputFile != "" || opts.Format == "json" {
		colors = false
	}

	var encoder zapcore.Encoder
	switch opts.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case "", "console":
		encoder = coloredConsoleEncoder(colors)
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	var out io.Writer = os.Stdout
	if opts.Writer != nil {
		out = opts.Writer
	}
	var file *os.File
	if opts.OutputFile != "" {
		f, err := os.OpenFile(opts.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", opts.OutputFile, err)
		}
		out, file = f, f
	}

	l := newLogger(zapcore.NewCore(encoder, zapcore.AddSync(out), level), colors)
	l.file = file
	return l, nil
}

// Close flushes buffered entries and closes the log file, if any.
func (l *ColoredLogger) Close() error {
	_ = l.Sync()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// NewNop returns a logger that discards everything.
func NewNop() *ColoredLogger {
	return &ColoredLogger{Logger: zap.NewNop()}
}

// FromCore wraps an existing core, e.g. an observer core in tests.
func FromCore(core zapcore.Core) *ColoredLogger {
	return newLogger(core, false)
}

func newLogger(core zapcore.Core, enableColors bool) *ColoredLogger {
	return &ColoredLogger{
		Logger:       zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)),
		enableColors: enableColors,
	}
}

// Component returns a plain *zap.Logger whose messages carry the component tag.
// Libraries in this module take *zap.Logger; this is how they get a tagged one.
func (l *ColoredLogger) Component(component Component) *zap.Logger {
	return l.Logger.WithOptions(zap.AddCallerSkip(-1)).Named(l.tag(component))
}

func (l *ColoredLogger) tag(component Component) string {
	if l.enableColors {
		return fmt.Sprintf("%s%s%s", getComponentColor(component), component, Reset)
	}
	return string(component)
}

func (l *ColoredLogger) prefix(component Component, msg string) string {
	return fmt.Sprintf("[%s] %s", l.tag(component), msg)
}

// Component-specific logging methods
func (l *ColoredLogger) ComponentInfo(component Component, msg string, fields ...zap.Field) {
	l.Info(l.prefix(component, msg), fields...)
}

func (l *ColoredLogger) ComponentWarn(component Component, msg string, fields ...zap.Field) {
	l.Warn(l.prefix(component, msg), fields...)
}

func (l *ColoredLogger) ComponentError(component Component, msg string, fields ...zap.Field) {
	l.Error(l.prefix(component, msg), fields...)
}

func (l *ColoredLogger) ComponentDebug(component Component, msg string, fields ...zap.Field) {
	l.Debug(l.prefix(component, msg), fields...)
}
