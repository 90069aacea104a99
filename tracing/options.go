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
	"errors"
	"fmt"
	"io"
	"log/slog"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/blas/urlmask/spanprocessor"
)

// Option defines functional options for Tracer configuration.
// Options are applied during Tracer creation via New().
type Option func(*Tracer)

// WithServiceName sets the service.name resource attribute.
//
// Example:
//
//	tracer := tracing.MustNew(ctx, tracing.WithServiceName("checkout"))
func WithServiceName(name string) Option {
	return func(t *Tracer) {
		t.serviceName = name
	}
}

// WithServiceVersion sets the service.version resource attribute.
func WithServiceVersion(version string) Option {
	return func(t *Tracer) {
		t.serviceVersion = version
	}
}

// WithGlobalTracerProvider registers the tracer provider as the global
// OpenTelemetry tracer provider via otel.SetTracerProvider().
func WithGlobalTracerProvider() Option {
	return func(t *Tracer) {
		t.registerGlobal = true
	}
}

// WithProcessor uses p as the masking processor. [WithProcessorOptions] is
// ignored when it is given.
func WithProcessor(p *spanprocessor.Processor) Option {
	return func(t *Tracer) {
		if p == nil {
			t.validationErrors = append(t.validationErrors, errors.New("processor: must not be nil"))
			return
		}
		t.processor = p
	}
}

// WithProcessorOptions passes options to the masking processor built by New().
//
// Example:
//
//	tracer := tracing.MustNew(ctx,
//	    tracing.WithOTLP("localhost:4317", tracing.OTLPInsecure()),
//	    tracing.WithProcessorOptions(spanprocessor.WithAttributes(semconv.URLFull)),
//	)
func WithProcessorOptions(opts ...spanprocessor.Option) Option {
	return func(t *Tracer) {
		t.processorOpts = append(t.processorOpts, opts...)
	}
}

// WithEventHandler sets a custom event handler for internal operational events.
func WithEventHandler(handler EventHandler) Option {
	return func(t *Tracer) {
		t.eventHandler = handler
	}
}

// WithLogger sets the logger for internal operational events using the default event handler.
// The built-in masking processor logs to the same logger.
//
// Example:
//
//	tracing.MustNew(ctx, tracing.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracer) {
		t.eventHandler = DefaultEventHandler(logger)
		t.processorOpts = append(t.processorOpts, spanprocessor.WithLogger(logger))
	}
}

// OTLPOption configures OTLP provider behavior.
type OTLPOption func(*otlpConfig)

type otlpConfig struct {
	insecure bool
}

// OTLPInsecure disables TLS for OTLP. Default is false (uses TLS).
func OTLPInsecure() OTLPOption {
	return func(c *otlpConfig) {
		c.insecure = true
	}
}

// setProvider records the provider once; a second provider is a validation error.
func (t *Tracer) setProvider(p Provider) bool {
	if t.providerSet {
		t.validationErrors = append(t.validationErrors,
			fmt.Errorf("provider: multiple providers configured (already have %q, cannot add %q); only one provider allowed", t.provider, p))
		return false
	}
	t.provider = p
	t.providerSet = true
	return true
}

// WithOTLP configures the OTLP gRPC exporter.
// Endpoint format: "host:port" (e.g., "localhost:4317"). An empty endpoint
// uses the exporter's defaults and OTEL_EXPORTER_OTLP_* variables.
//
// Only one provider can be configured.
//
// Example:
//
//	tracer := tracing.MustNew(ctx, tracing.WithOTLP("localhost:4317", tracing.OTLPInsecure()))
func WithOTLP(endpoint string, opts ...OTLPOption) Option {
	return func(t *Tracer) {
		if !t.setProvider(OTLPProvider) {
			return
		}
		t.otlpEndpoint = endpoint
		cfg := &otlpConfig{}
		for _, opt := range opts {
			opt(cfg)
		}
		t.otlpInsecure = cfg.insecure
	}
}

// WithOTLPHTTP configures the OTLP HTTP exporter.
// Endpoint format: "http://host:port" (e.g., "http://localhost:4318").
// An http:// scheme disables TLS.
//
// Only one provider can be configured.
func WithOTLPHTTP(endpoint string, opts ...OTLPOption) Option {
	return func(t *Tracer) {
		if !t.setProvider(OTLPHTTPProvider) {
			return
		}
		t.otlpEndpoint = endpoint
		cfg := &otlpConfig{}
		for _, opt := range opts {
			opt(cfg)
		}
		t.otlpInsecure = cfg.insecure
	}
}

// WithStdout configures the stdout exporter for development and debugging.
//
// Only one provider can be configured.
func WithStdout() Option {
	return func(t *Tracer) {
		t.setProvider(StdoutProvider)
	}
}

// WithStdoutWriter is like [WithStdout] but writes spans to w.
// Spans are exported synchronously so they appear as soon as they end.
//
// Example:
//
//	var buf bytes.Buffer
//	tracer := tracing.MustNew(ctx, tracing.WithStdoutWriter(&buf))
func WithStdoutWriter(w io.Writer) Option {
	return func(t *Tracer) {
		if w == nil {
			t.validationErrors = append(t.validationErrors, errors.New("stdoutWriter: must not be nil"))
			return
		}
		if !t.setProvider(StdoutProvider) {
			return
		}
		t.stdoutWriter = w
		t.syncExport = true
	}
}

// WithNoop configures the noop provider (default, no spans exported).
//
// Only one provider can be configured.
func WithNoop() Option {
	return func(t *Tracer) {
		t.setProvider(NoopProvider)
	}
}

// WithExporter exports spans to exporter. It is registered behind the masking
// processor and shut down with the Tracer.
//
// Only one provider can be configured.
func WithExporter(exporter sdktrace.SpanExporter) Option {
	return func(t *Tracer) {
		if !t.setProvider(CustomProvider) {
			return
		}
		t.exporter = exporter
	}
}

// WithSyncExport exports each span when it ends instead of batching.
// Meant for tests and short-lived tools.
func WithSyncExport() Option {
	return func(t *Tracer) {
		t.syncExport = true
	}
}
