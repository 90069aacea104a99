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
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/metric"

	"github.com/blas/urlmask/masking"
	"github.com/blas/urlmask/metrics"
)

// Option defines functional options for Processor configuration.
type Option func(*Processor)

// WithMasker sets the masker. A nil masker makes New() fail with
// [masking.ErrNilMasker].
func WithMasker(m *masking.Masker) Option {
	return func(p *Processor) {
		if m == nil {
			p.validationErrors = append(p.validationErrors, fmt.Errorf("WithMasker: %w", masking.ErrNilMasker))
			return
		}
		p.masker = m
	}
}

// WithAttributes adds span attribute keys to mask besides http.url.
// Blank keys are ignored.
//
// Example:
//
//	spanprocessor.New(spanprocessor.WithAttributes(semconv.URLFull))
func WithAttributes(keys ...string) Option {
	return func(p *Processor) {
		for _, k := range keys {
			if k = strings.TrimSpace(k); k != "" {
				p.extraKeys = append(p.extraKeys, k)
			}
		}
	}
}

// WithRecorder sets where masking outcomes are counted.
// It takes precedence over [WithMeterProvider].
func WithRecorder(r Recorder) Option {
	return func(p *Processor) {
		p.recorder = r
	}
}

// WithMeterProvider counts masking outcomes on a [metrics.Recorder] created
// on mp. The provider's lifecycle stays with the caller.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(p *Processor) {
		p.meterProvider = mp
	}
}

// WithEventHandler sets a custom event handler for internal operational events.
// When the processor builds its own masker, the handler is passed on to it.
func WithEventHandler(handler masking.EventHandler) Option {
	return func(p *Processor) {
		p.eventHandler = handler
	}
}

// WithLogger sets the logger for internal operational events using the default event handler.
// This is a convenience wrapper around WithEventHandler.
func WithLogger(logger *slog.Logger) Option {
	return WithEventHandler(masking.DefaultEventHandler(logger))
}

func newMeterRecorder(mp metric.MeterProvider) (*metrics.Recorder, error) {
	rec, err := metrics.New(metrics.WithMeterProvider(mp))
	if err != nil {
		return nil, fmt.Errorf("span processor metrics: %w", err)
	}
	return rec, nil
}
