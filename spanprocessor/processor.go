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

package spanprocessor

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/blas/urlmask/config"
	"github.com/blas/urlmask/masking"
	"github.com/blas/urlmask/telemetry/semconv"
)

// Recorder receives one call per inspected URL attribute value.
// [metrics.Recorder] implements it.
type Recorder interface {
	RecordProcessed(ctx context.Context, attrKey string)
	RecordMasked(ctx context.Context, attrKey string)
	RecordUnparsable(ctx context.Context, attrKey string)
}

// Processor is an [sdktrace.SpanProcessor] that masks URL attributes when a
// span starts. Only attributes present at start time are seen; attributes
// added later with span.SetAttributes are exported as given.
//
// A Processor holds no mutable state and is safe for concurrent use.
type Processor struct {
	masker       *masking.Masker
	keys         map[attribute.Key]struct{}
	recorder     Recorder
	eventHandler masking.EventHandler

	extraKeys        []string
	meterProvider    metric.MeterProvider
	validationErrors []error
}

var _ sdktrace.SpanProcessor = (*Processor)(nil)

// New creates a Processor. Without [WithMasker] it masks with the built-in
// defaults; without [WithAttributes] it masks only http.url.
//
// Errors:
//   - Returns an error wrapping [masking.ErrNilMasker] if WithMasker(nil) was given
//   - Returns the masking or metrics construction error otherwise
func New(opts ...Option) (*Processor, error) {
	p := &Processor{}

	for _, opt := range opts {
		opt(p)
	}

	if len(p.validationErrors) > 0 {
		return nil, fmt.Errorf("span processor configuration: %w", errors.Join(p.validationErrors...))
	}

	if p.masker == nil {
		m, err := masking.New(masking.WithEventHandler(p.eventHandler))
		if err != nil {
			return nil, err
		}
		p.masker = m
	}

	if p.recorder == nil && p.meterProvider != nil {
		rec, err := newMeterRecorder(p.meterProvider)
		if err != nil {
			return nil, err
		}
		p.recorder = rec
	}

	p.keys = make(map[attribute.Key]struct{}, len(p.extraKeys)+1)
	p.keys[attribute.Key(semconv.HTTPURL)] = struct{}{}
	for _, k := range p.extraKeys {
		p.keys[attribute.Key(k)] = struct{}{}
	}
	p.extraKeys, p.meterProvider = nil, nil

	return p, nil
}

// MustNew creates a Processor or panics on error.
func MustNew(opts ...Option) *Processor {
	p, err := New(opts...)
	if err != nil {
		panic("span processor initialization failed: " + err.Error())
	}
	return p
}

// NewFromEnv creates a Processor configured by the
// OTEL_INSTRUMENTATION_BLAS_MASKED_* environment variables. opts are applied
// after the environment; a [WithMasker] option replaces the one built from it.
//
// Example:
//
//	processor, err := spanprocessor.NewFromEnv(ctx, spanprocessor.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(processor))
func NewFromEnv(ctx context.Context, opts ...Option) (*Processor, error) {
	settings, err := config.Load(ctx, config.WithEnv(config.EnvPrefix))
	if err != nil {
		return nil, fmt.Errorf("loading masking configuration: %w", err)
	}
	return NewFromSettings(settings, opts...)
}

// NewFromSettings is like [NewFromEnv] with already loaded settings.
func NewFromSettings(settings config.Settings, opts ...Option) (*Processor, error) {
	probe := &Processor{}
	for _, opt := range opts {
		opt(probe)
	}

	base := []Option{WithAttributes(settings.Masked.Attributes...)}
	if probe.masker == nil {
		m, err := masking.FromSettings(settings.Masked, masking.WithEventHandler(probe.eventHandler))
		if err != nil {
			return nil, err
		}
		base = append(base, WithMasker(m))
	}

	return New(append(base, opts...)...)
}

// AttributeKeys returns the attribute keys that are masked, sorted.
func (p *Processor) AttributeKeys() []string {
	keys := make([]string, 0, len(p.keys))
	for k := range p.keys {
		keys = append(keys, string(k))
	}
	slices.Sort(keys)
	return keys
}

// Masker returns the masker used by the processor.
func (p *Processor) Masker() *masking.Masker {
	return p.masker
}

// OnStart masks the configured string attributes of s in place. Keys and
// value types are kept. It never panics.
func (p *Processor) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	defer func() {
		if r := recover(); r != nil {
			p.emit(masking.EventError, "Recovered from panic while masking span attributes", "panic", r)
		}
	}()

	var updates []attribute.KeyValue
	for _, kv := range s.Attributes() {
		if _, ok := p.keys[kv.Key]; !ok || kv.Value.Type() != attribute.STRING {
			continue
		}

		key := string(kv.Key)
		raw := kv.Value.AsString()
		p.record(parent, key, Recorder.RecordProcessed)

		masked, err := p.masker.MaskURL(raw)
		if err != nil {
			p.record(parent, key, Recorder.RecordUnparsable)
			p.emit(masking.EventDebug, "Span attribute left unmasked", "attribute", key, semconv.Error, err)
			continue
		}
		if masked == raw {
			continue
		}

		p.record(parent, key, Recorder.RecordMasked)
		updates = append(updates, attribute.String(key, masked))
	}

	if len(updates) > 0 {
		s.SetAttributes(updates...)
	}
}

// OnEnd does nothing; attributes are masked on start.
func (p *Processor) OnEnd(sdktrace.ReadOnlySpan) {}

// Shutdown does nothing.
func (p *Processor) Shutdown(context.Context) error { return nil }

// ForceFlush does nothing.
func (p *Processor) ForceFlush(context.Context) error { return nil }

func (p *Processor) record(ctx context.Context, key string, fn func(Recorder, context.Context, string)) {
	if p.recorder != nil {
		fn(p.recorder, ctx, key)
	}
}

func (p *Processor) emit(t masking.EventType, msg string, args ...any) {
	if p.eventHandler != nil {
		p.eventHandler(masking.Event{Type: t, Message: msg, Args: args})
	}
}
