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

package tracing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/blas/urlmask/spanprocessor"
)

// EventType represents the severity of an internal operational event.
type EventType int

const (
	// EventError indicates an error event (e.g., failed to flush spans).
	EventError EventType = iota
	// EventWarning indicates a warning event.
	EventWarning
	// EventInfo indicates an informational event (e.g., tracing initialized).
	EventInfo
	// EventDebug indicates a debug event (e.g., global provider registered).
	EventDebug
)

// Event represents an internal operational event from the tracing package.
type Event struct {
	Type    EventType
	Message string
	Args    []any // slog-style key-value pairs
}

// EventHandler processes internal operational events from the tracing package.
//
// Example custom handler:
//
//	tracing.WithEventHandler(func(e tracing.Event) {
//	    if e.Type == tracing.EventError {
//	        sentry.CaptureMessage(e.Message)
//	    }
//	})
type EventHandler func(Event)

// DefaultEventHandler returns an EventHandler that logs events to the provided slog.Logger.
// If logger is nil, returns a no-op handler that discards all events.
func DefaultEventHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		return func(Event) {}
	}
	return func(e Event) {
		switch e.Type {
		case EventError:
			logger.Error(e.Message, e.Args...)
		case EventWarning:
			logger.Warn(e.Message, e.Args...)
		case EventInfo:
			logger.Info(e.Message, e.Args...)
		case EventDebug:
			logger.Debug(e.Message, e.Args...)
		}
	}
}

const (
	// DefaultServiceName is used when [WithServiceName] is not given.
	DefaultServiceName = "urlmask"

	// DefaultServiceVersion is used when [WithServiceVersion] is not given.
	DefaultServiceVersion = "dev"

	// TracerName is the instrumentation scope of [Tracer.Tracer] without a name.
	TracerName = "github.com/blas/urlmask/tracing"
)

// Provider represents the available span exporters.
type Provider string

const (
	// NoopProvider exports nothing (default).
	NoopProvider Provider = "noop"

	// StdoutProvider writes spans as JSON to stdout or a configured writer.
	StdoutProvider Provider = "stdout"

	// OTLPProvider exports spans via OTLP gRPC.
	OTLPProvider Provider = "otlp"

	// OTLPHTTPProvider exports spans via OTLP HTTP.
	OTLPHTTPProvider Provider = "otlp-http"

	// CustomProvider exports to a caller-supplied [sdktrace.SpanExporter].
	CustomProvider Provider = "custom"
)

// Tracer owns an [sdktrace.TracerProvider] whose first span processor masks
// URL attributes, so every exporter behind it only sees masked values.
//
// Global State:
// By default the provider is NOT registered with otel.SetTracerProvider().
// Use [WithGlobalTracerProvider] for that.
type Tracer struct {
	tp        *sdktrace.TracerProvider
	processor *spanprocessor.Processor
	exporter  sdktrace.SpanExporter

	shutdownTracker *shutdownTrackingExporter

	provider       Provider
	serviceName    string
	serviceVersion string
	otlpEndpoint   string
	otlpInsecure   bool
	stdoutWriter   io.Writer
	syncExport     bool
	eventHandler   EventHandler
	processorOpts  []spanprocessor.Option

	shutdownOnce sync.Once
	shutdownErr  error

	providerSet      bool
	registerGlobal   bool
	validationErrors []error
}

// New builds the tracer provider. The masking processor is created from the
// processor options unless [WithProcessor] supplies one.
//
// Errors:
//   - Returns a validation error for conflicting or invalid options
//   - Returns the exporter or masking construction error
func New(ctx context.Context, opts ...Option) (*Tracer, error) {
	t := newDefaultTracer()

	for _, opt := range opts {
		opt(t)
	}

	if err := t.validate(); err != nil {
		return nil, err
	}

	if t.processor == nil {
		p, err := spanprocessor.New(t.processorOpts...)
		if err != nil {
			return nil, fmt.Errorf("tracing initialization failed: %w", err)
		}
		t.processor = p
	}
	t.processorOpts = nil

	if err := t.initializeProvider(ctx); err != nil {
		return nil, fmt.Errorf("tracing initialization failed: %w", err)
	}

	return t, nil
}

// MustNew creates a Tracer or panics on error.
func MustNew(ctx context.Context, opts ...Option) *Tracer {
	t, err := New(ctx, opts...)
	if err != nil {
		panic("tracing initialization failed: " + err.Error())
	}
	return t
}

func newDefaultTracer() *Tracer {
	return &Tracer{
		provider:       NoopProvider,
		serviceName:    DefaultServiceName,
		serviceVersion: DefaultServiceVersion,
	}
}

func (t *Tracer) validate() error {
	errs := t.validationErrors

	if t.serviceName == "" {
		errs = append(errs, errors.New("serviceName: must not be empty"))
	}
	if t.serviceVersion == "" {
		errs = append(errs, errors.New("serviceVersion: must not be empty"))
	}
	if t.provider == OTLPHTTPProvider && t.otlpEndpoint == "" {
		errs = append(errs, errors.New("otlpEndpoint: required for the otlp-http provider"))
	}
	if t.provider == CustomProvider && t.exporter == nil {
		errs = append(errs, errors.New("exporter: must not be nil"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid tracing configuration: %w", errors.Join(errs...))
	}
	return nil
}

// TracerProvider returns the underlying SDK provider.
func (t *Tracer) TracerProvider() *sdktrace.TracerProvider {
	return t.tp
}

// Tracer returns a tracer from the provider. An empty name uses [TracerName].
func (t *Tracer) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	if name == "" {
		name = TracerName
	}
	return t.tp.Tracer(name, opts...)
}

// Processor returns the masking span processor.
func (t *Tracer) Processor() *spanprocessor.Processor {
	return t.processor
}

// Provider returns the configured exporter kind.
func (t *Tracer) Provider() Provider {
	return t.provider
}

// ServiceName returns the service.name resource attribute.
func (t *Tracer) ServiceName() string {
	return t.serviceName
}

// ServiceVersion returns the service.version resource attribute.
func (t *Tracer) ServiceVersion() string {
	return t.serviceVersion
}

// ForceFlush exports all ended spans that have not been exported yet.
func (t *Tracer) ForceFlush(ctx context.Context) error {
	if err := t.tp.ForceFlush(ctx); err != nil {
		t.emitError("Failed to flush spans", "error", err)
		return fmt.Errorf("tracer provider flush: %w", err)
	}
	return nil
}

// Shutdown flushes and stops the provider and its exporter.
// It is safe to call more than once; later calls return the first result.
func (t *Tracer) Shutdown(ctx context.Context) error {
	t.shutdownOnce.Do(func() {
		err := t.tp.Shutdown(ctx)
		if t.shutdownTracker != nil {
			if expErr := t.shutdownTracker.shutdownErr(); expErr != nil && !errors.Is(err, expErr) {
				err = errors.Join(err, expErr)
			}
		}
		if err != nil {
			t.emitError("Error shutting down tracer provider", "error", err)
			t.shutdownErr = fmt.Errorf("tracer provider shutdown: %w", err)
			return
		}
		t.emitDebug("Tracer provider shut down", "provider", string(t.provider))
	})
	return t.shutdownErr
}

func (t *Tracer) registerGlobalProvider() {
	if !t.registerGlobal {
		t.emitDebug("Skipping global tracer provider registration", "provider", string(t.provider))
		return
	}
	t.emitDebug("Setting global OpenTelemetry tracer provider", "provider", string(t.provider))
	otel.SetTracerProvider(t.tp)
}

func (t *Tracer) emit(et EventType, msg string, args ...any) {
	if t.eventHandler != nil {
		t.eventHandler(Event{Type: et, Message: msg, Args: args})
	}
}

func (t *Tracer) emitError(msg string, args ...any) { t.emit(EventError, msg, args...) }

func (t *Tracer) emitInfo(msg string, args ...any) { t.emit(EventInfo, msg, args...) }

func (t *Tracer) emitDebug(msg string, args ...any) { t.emit(EventDebug, msg, args...) }
