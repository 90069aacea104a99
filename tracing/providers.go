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
	"fmt"
	"os"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	otelsemconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// initializeProvider creates the exporter for the configured provider and
// builds the tracer provider around it. The masking processor is always
// registered first.
func (t *Tracer) initializeProvider(ctx context.Context) error {
	exporter, err := t.newExporter(ctx)
	if err != nil {
		return err
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(createResource(t.serviceName, t.serviceVersion)),
		sdktrace.WithSpanProcessor(t.processor),
	}
	if exporter != nil {
		t.exporter = exporter
		t.shutdownTracker = &shutdownTrackingExporter{SpanExporter: exporter}
		if t.syncExport {
			opts = append(opts, sdktrace.WithSyncer(t.shutdownTracker))
		} else {
			opts = append(opts, sdktrace.WithBatcher(t.shutdownTracker))
		}
	}

	t.tp = sdktrace.NewTracerProvider(opts...)
	t.registerGlobalProvider()

	t.emitInfo("Tracing initialized",
		"provider", string(t.provider),
		"endpoint", t.otlpEndpoint,
		"service", t.serviceName,
		"masked_attributes", t.processor.AttributeKeys(),
	)

	return nil
}

// shutdownTrackingExporter keeps the result of the exporter's Shutdown.
// The batch span processor reports that error to the global OTel error
// handler only, so the Tracer reads it from here.
type shutdownTrackingExporter struct {
	sdktrace.SpanExporter

	mu  sync.Mutex
	err error
}

func (e *shutdownTrackingExporter) Shutdown(ctx context.Context) error {
	err := e.SpanExporter.Shutdown(ctx)
	e.mu.Lock()
	e.err = err
	e.mu.Unlock()
	return err
}

func (e *shutdownTrackingExporter) shutdownErr() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// newExporter returns nil for the noop provider.
func (t *Tracer) newExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	switch t.provider {
	case NoopProvider:
		return nil, nil //nolint:nilnil // noop has no exporter
	case StdoutProvider:
		return t.newStdoutExporter()
	case OTLPProvider:
		return t.newOTLPExporter(ctx)
	case OTLPHTTPProvider:
		return t.newOTLPHTTPExporter(ctx)
	case CustomProvider:
		return t.exporter, nil
	default:
		return nil, fmt.Errorf("unsupported tracing provider: %s", t.provider)
	}
}

func (t *Tracer) newStdoutExporter() (sdktrace.SpanExporter, error) {
	w := t.stdoutWriter
	if w == nil {
		w = os.Stdout
	}
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
	}
	return exporter, nil
}

func (t *Tracer) newOTLPExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	var opts []otlptracegrpc.Option
	if t.otlpEndpoint != "" {
		opts = append(opts, otlptracegrpc.WithEndpoint(t.otlpEndpoint))
	}
	if t.otlpInsecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP gRPC exporter: %w", err)
	}
	return exporter, nil
}

func (t *Tracer) newOTLPHTTPExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	host, insecure := splitEndpoint(t.otlpEndpoint)
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(host)}
	if insecure || t.otlpInsecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP HTTP exporter: %w", err)
	}
	return exporter, nil
}

// splitEndpoint strips the scheme and any path from endpoint and reports
// whether it asked for plain HTTP.
func splitEndpoint(endpoint string) (host string, insecure bool) {
	host = endpoint
	if trimmed, ok := strings.CutPrefix(host, "http://"); ok {
		host, insecure = trimmed, true
	} else {
		host = strings.TrimPrefix(host, "https://")
	}
	if before, _, found := strings.Cut(host, "/"); found {
		host = before
	}
	return host, insecure
}

// createResource creates an OpenTelemetry resource with service information.
func createResource(serviceName, serviceVersion string) *resource.Resource {
	return resource.NewWithAttributes(
		otelsemconv.SchemaURL,
		otelsemconv.ServiceName(serviceName),
		otelsemconv.ServiceVersion(serviceVersion),
	)
}
