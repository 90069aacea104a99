// Copyright 2025 The Blas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logging

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/blas/urlmask/masking"
	"github.com/blas/urlmask/telemetry/semconv"
)

// HandlerType represents the type of logging handler.
type HandlerType string

const (
	// JSONHandler outputs structured JSON logs.
	JSONHandler HandlerType = "json"
	// TextHandler outputs key=value text logs.
	TextHandler HandlerType = "text"
	// ConsoleHandler outputs human-readable colored logs.
	ConsoleHandler HandlerType = "console"
)

// Level represents log level.
type Level = slog.Level

const (
	// LevelDebug is the debug log level.
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Logger is a structured logger whose output never contains an unmasked URL
// under one of the masked attribute keys (http.url, url.full, url and any
// added with [WithMaskedKeys]).
//
// Thread-safety: All public methods are safe for concurrent use.
type Logger struct {
	handlerType HandlerType
	output      io.Writer
	level       slog.LevelVar

	serviceName    string
	serviceVersion string

	addSource   bool
	masker      *masking.Masker
	maskedKeys  map[string]struct{}
	replaceAttr func(groups []string, a slog.Attr) slog.Attr

	slogger atomic.Pointer[slog.Logger]

	registerGlobal   bool
	validationErrors []error
}

// Option is a functional option for configuring the logger.
type Option func(*Logger)

func defaultLogger() *Logger {
	l := &Logger{
		handlerType: JSONHandler,
		output:      os.Stdout,
		maskedKeys:  make(map[string]struct{}),
	}
	l.level.Set(LevelInfo)
	for _, k := range semconv.URLKeys() {
		l.maskedKeys[k] = struct{}{}
	}
	return l
}

// New creates a new Logger with the given options.
//
// By default, this function does NOT set the global slog default logger.
// Use WithGlobalLogger() if you want to register this logger as the global default.
func New(opts ...Option) (*Logger, error) {
	l := defaultLogger()

	for _, opt := range opts {
		opt(l)
	}

	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if l.masker == nil {
		m, err := masking.New()
		if err != nil {
			return nil, err
		}
		l.masker = m
	}

	if err := l.initializeHandler(); err != nil {
		return nil, err
	}
	return l, nil
}

// MustNew creates a new Logger or panics on error.
func MustNew(opts ...Option) *Logger {
	l, err := New(opts...)
	if err != nil {
		panic("logging initialization failed: " + err.Error())
	}
	return l
}

// Validate checks if the configuration is valid.
func (l *Logger) Validate() error {
	if len(l.validationErrors) > 0 {
		return l.validationErrors[0]
	}
	if l.output == nil {
		return ErrNilOutput
	}
	return nil
}

func (l *Logger) initializeHandler() error {
	opts := &slog.HandlerOptions{
		Level:       &l.level,
		AddSource:   l.addSource,
		ReplaceAttr: l.buildReplaceAttr(),
	}

	var handler slog.Handler
	switch l.handlerType {
	case JSONHandler:
		handler = slog.NewJSONHandler(l.output, opts)
	case TextHandler:
		handler = slog.NewTextHandler(l.output, opts)
	case ConsoleHandler:
		handler = newConsoleHandler(l.output, opts)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidHandler, l.handlerType)
	}

	newLogger := slog.New(handler)

	var attrs []any
	if l.serviceName != "" {
		attrs = append(attrs, "service", l.serviceName)
	}
	if l.serviceVersion != "" {
		attrs = append(attrs, "version", l.serviceVersion)
	}
	if len(attrs) > 0 {
		newLogger = newLogger.With(attrs...)
	}

	l.slogger.Store(newLogger)
	if l.registerGlobal {
		slog.SetDefault(newLogger)
	}
	return nil
}

// buildReplaceAttr masks URL-valued attributes, then runs the user replacer.
func (l *Logger) buildReplaceAttr() func(groups []string, a slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if _, ok := l.maskedKeys[strings.ToLower(a.Key)]; ok {
			a = l.maskAttr(a)
		}
		if l.replaceAttr != nil {
			return l.replaceAttr(groups, a)
		}
		return a
	}
}

func (l *Logger) maskAttr(a slog.Attr) slog.Attr {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(a.Key, l.masker.Mask(v.String()))
	case slog.KindAny:
		switch u := v.Any().(type) {
		case *url.URL:
			if u != nil {
				return slog.String(a.Key, l.masker.Mask(u.String()))
			}
		case fmt.Stringer:
			return slog.String(a.Key, l.masker.Mask(u.String()))
		}
	}
	return a
}

// Logger returns the underlying [slog.Logger].
func (l *Logger) Logger() *slog.Logger {
	return l.slogger.Load()
}

// With returns a [slog.Logger] with additional attributes.
func (l *Logger) With(args ...any) *slog.Logger {
	return l.Logger().With(args...)
}

// WithGroup returns a [slog.Logger] that nests following attributes under name.
func (l *Logger) WithGroup(name string) *slog.Logger {
	return l.Logger().WithGroup(name)
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, args ...any) { l.Logger().Debug(msg, args...) }

// Info logs at info level.
func (l *Logger) Info(msg string, args ...any) { l.Logger().Info(msg, args...) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, args ...any) { l.Logger().Warn(msg, args...) }

// Error logs at error level.
func (l *Logger) Error(msg string, args ...any) { l.Logger().Error(msg, args...) }

// SetLevel changes the minimum level at runtime.
//
// Errors:
//   - Returns [ErrInvalidLevel] for levels other than debug, info, warn and error
func (l *Logger) SetLevel(level Level) error {
	switch level {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		l.level.Set(level)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidLevel, level)
	}
}

// Level returns the current minimum level.
func (l *Logger) Level() Level {
	return l.level.Level()
}

// ServiceName returns the service attribute added to every entry.
func (l *Logger) ServiceName() string {
	return l.serviceName
}

// Masker returns the masker applied to URL attributes.
func (l *Logger) Masker() *masking.Masker {
	return l.masker
}

// MaskedKeys returns the attribute keys whose values are masked.
func (l *Logger) MaskedKeys() []string {
	keys := make([]string, 0, len(l.maskedKeys))
	for k := range l.maskedKeys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// EventHandler adapts the logger to [masking.EventHandler] so masking
// events land in the same output.
func (l *Logger) EventHandler() masking.EventHandler {
	return masking.DefaultEventHandler(l.Logger())
}
