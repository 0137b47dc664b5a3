// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the interface for logging operations.
// It provides methods for different log levels and formatted output.
//
// The verifier only depends on this interface, so the CLI can switch between
// human-readable output and structured logging without touching the pipeline.
type Logger interface {
	// Printf formats and prints a log message.
	Printf(format string, v ...any)
	// Println prints a log message with a newline.
	Println(v ...any)
	// SetOutput sets the output destination for the logger.
	SetOutput(w io.Writer)
}

// CLILogger implements Logger using the standard log package.
// It's designed for command-line interface output with human-readable formatting.
type CLILogger struct{ logger *log.Logger }

// NewCLILogger creates a new CLI logger with timestamps disabled.
// This is suitable for user-facing CLI output.
func NewCLILogger() *CLILogger {
	l := log.New(os.Stdout, "", 0)
	return &CLILogger{logger: l}
}

// Printf formats and prints a log message using fmt.Printf semantics.
func (c *CLILogger) Printf(format string, v ...any) { c.logger.Printf(format, v...) }

// Println prints a log message with a newline.
func (c *CLILogger) Println(v ...any) { c.logger.Println(v...) }

// SetOutput sets the output destination for the CLI logger.
func (c *CLILogger) SetOutput(w io.Writer) { c.logger.SetOutput(w) }

// JSONLogger implements Logger with one JSON object per line.
// It can be silenced entirely, which is what the CLI does when the
// verification result itself is emitted as JSON on stdout.
//
// JSONLogger is safe for concurrent use by multiple goroutines.
type JSONLogger struct {
	mu     sync.Mutex
	writer io.Writer
	silent bool
}

// NewJSONLogger creates a new JSON logger.
// A nil writer discards output.
func NewJSONLogger(writer io.Writer, silent bool) *JSONLogger {
	if writer == nil {
		writer = io.Discard
	}
	return &JSONLogger{
		writer: writer,
		silent: silent,
	}
}

// Printf formats and logs a structured message in JSON format.
// Output is suppressed if silent mode is enabled.
func (j *JSONLogger) Printf(format string, v ...any) {
	if j.silent {
		return
	}
	j.write(fmt.Sprintf(format, v...))
}

// Println logs a structured message in JSON format.
// Output is suppressed if silent mode is enabled.
func (j *JSONLogger) Println(v ...any) {
	if j.silent {
		return
	}
	j.write(fmt.Sprint(v...))
}

func (j *JSONLogger) write(msg string) {
	data, _ := json.Marshal(map[string]any{
		"level":   "info",
		"message": msg,
	})

	j.mu.Lock()
	fmt.Fprintln(j.writer, string(data))
	j.mu.Unlock()
}

// SetOutput sets the output destination for the JSON logger.
//
// SetOutput is safe for concurrent use by multiple goroutines.
func (j *JSONLogger) SetOutput(w io.Writer) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if w == nil {
		j.writer = io.Discard
	} else {
		j.writer = w
	}
}

// ZapLogger implements Logger on top of a [zap.SugaredLogger].
// Every entry carries the static fields given at construction time
// (for example the application version).
//
// ZapLogger is safe for concurrent use by multiple goroutines.
type ZapLogger struct {
	mu     sync.RWMutex
	level  zapcore.Level
	fields []any
	sugar  *zap.SugaredLogger
}

// NewZapLogger creates a zap-backed logger writing JSON entries at the given level to w.
// A nil writer discards output.
func NewZapLogger(w io.Writer, level zapcore.Level, fields ...any) *ZapLogger {
	z := &ZapLogger{level: level, fields: fields}
	z.sugar = z.build(w)
	return z
}

func (z *ZapLogger) build(w io.Writer) *zap.SugaredLogger {
	if w == nil {
		w = io.Discard
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		z.level,
	)
	return zap.New(core).Sugar().With(z.fields...)
}

// Printf logs a formatted message at info level.
func (z *ZapLogger) Printf(format string, v ...any) {
	z.mu.RLock()
	defer z.mu.RUnlock()
	z.sugar.Infof(format, v...)
}

// Println logs a message at info level.
func (z *ZapLogger) Println(v ...any) {
	z.mu.RLock()
	defer z.mu.RUnlock()
	z.sugar.Info(v...)
}

// SetOutput rebuilds the underlying core so that subsequent entries go to w.
func (z *ZapLogger) SetOutput(w io.Writer) {
	z.mu.Lock()
	defer z.mu.Unlock()
	_ = z.sugar.Sync()
	z.sugar = z.build(w)
}

// Sync flushes any buffered entries.
func (z *ZapLogger) Sync() error {
	z.mu.RLock()
	defer z.mu.RUnlock()
	return z.sugar.Sync()
}
