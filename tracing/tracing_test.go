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
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/blas/urlmask/masking"
	"github.com/blas/urlmask/spanprocessor"
	"github.com/blas/urlmask/telemetry/semconv"
)

type TracerSuite struct {
	suite.Suite
	tracer   *Tracer
	exporter *tracetest.InMemoryExporter
}

func (s *TracerSuite) SetupTest() {
	s.tracer, s.exporter = TestingTracer(s.T())
}

func (s *TracerSuite) startAndEnd(attrs ...attribute.KeyValue) {
	_, span := s.tracer.Tracer("").Start(context.Background(), "op", trace.WithAttributes(attrs...))
	span.End()
}

func (s *TracerSuite) TestMasksBeforeExport() {
	s.startAndEnd(attribute.String(semconv.HTTPURL, "https://h/v1?password=hunter2&q=go"))

	spans := s.exporter.GetSpans()
	s.Require().Len(spans, 1)
	s.Equal("https://h/v1?password=*******&q=go", stringAttr(s.T(), spans[0].Attributes, semconv.HTTPURL))
}

func (s *TracerSuite) TestResource() {
	s.startAndEnd()

	spans := s.exporter.GetSpans()
	s.Require().Len(spans, 1)

	res := spans[0].Resource
	name, ok := res.Set().Value(attribute.Key(semconv.ServiceName))
	s.True(ok)
	s.Equal("test-service", name.AsString())
	version, ok := res.Set().Value(attribute.Key(semconv.ServiceVersion))
	s.True(ok)
	s.Equal("v1.0.0", version.AsString())
}

func (s *TracerSuite) TestAccessors() {
	s.Equal(CustomProvider, s.tracer.Provider())
	s.Equal("test-service", s.tracer.ServiceName())
	s.Equal("v1.0.0", s.tracer.ServiceVersion())
	s.NotNil(s.tracer.TracerProvider())
	s.Equal([]string{semconv.HTTPURL}, s.tracer.Processor().AttributeKeys())
}

func (s *TracerSuite) TestForceFlush() {
	s.NoError(s.tracer.ForceFlush(context.Background()))
}

func TestTracerSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(TracerSuite))
}

func stringAttr(t *testing.T, attrs []attribute.KeyValue, key string) string {
	t.Helper()
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value.AsString()
		}
	}
	t.Fatalf("attribute %q not found", key)
	return ""
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	tracer, err := New(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })

	assert.Equal(t, NoopProvider, tracer.Provider())
	assert.Equal(t, DefaultServiceName, tracer.ServiceName())
	assert.Equal(t, DefaultServiceVersion, tracer.ServiceVersion())
	assert.NotNil(t, tracer.Processor().Masker())
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		wantErr string
	}{
		{
			name:    "multiple providers",
			opts:    []Option{WithStdout(), WithNoop()},
			wantErr: "multiple providers configured",
		},
		{
			name:    "empty service name",
			opts:    []Option{WithServiceName("")},
			wantErr: "serviceName",
		},
		{
			name:    "empty service version",
			opts:    []Option{WithServiceVersion("")},
			wantErr: "serviceVersion",
		},
		{
			name:    "otlp http without endpoint",
			opts:    []Option{WithOTLPHTTP("")},
			wantErr: "otlpEndpoint",
		},
		{
			name:    "nil exporter",
			opts:    []Option{WithExporter(nil)},
			wantErr: "exporter",
		},
		{
			name:    "nil stdout writer",
			opts:    []Option{WithStdoutWriter(nil)},
			wantErr: "stdoutWriter",
		},
		{
			name:    "nil processor",
			opts:    []Option{WithProcessor(nil)},
			wantErr: "processor",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tracer, err := New(context.Background(), tt.opts...)
			require.Error(t, err)
			assert.Nil(t, tracer)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNew_ProcessorError(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), WithProcessorOptions(spanprocessor.WithMasker(nil)))
	require.Error(t, err)
	assert.ErrorIs(t, err, masking.ErrNilMasker)
	assert.Panics(t, func() {
		MustNew(context.Background(), WithProcessorOptions(spanprocessor.WithMasker(nil)))
	})
}

func TestWithProcessor(t *testing.T) {
	t.Parallel()

	p := spanprocessor.MustNew(spanprocessor.WithAttributes(semconv.URLFull))
	tracer, exporter := TestingTracer(t, WithProcessor(p))
	assert.Same(t, p, tracer.Processor())

	_, span := tracer.Tracer("x").Start(context.Background(), "op",
		trace.WithAttributes(attribute.String(semconv.URLFull, "https://h/?secret=abc")))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "https://h/?secret=***", stringAttr(t, spans[0].Attributes, semconv.URLFull))
}

func TestWithStdoutWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tracer, err := New(context.Background(), WithStdoutWriter(&buf))
	require.NoError(t, err)
	assert.Equal(t, StdoutProvider, tracer.Provider())

	_, span := tracer.Tracer("").Start(context.Background(), "op",
		trace.WithAttributes(attribute.String(semconv.HTTPURL, "https://h/?apiKey=SECRETVALUE")))
	span.End()
	require.NoError(t, tracer.Shutdown(context.Background()))

	out := buf.String()
	assert.Contains(t, out, "apiKey=***********")
	assert.NotContains(t, out, "SECRETVALUE")
}

func TestOTLPProviders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opt  Option
		want Provider
	}{
		{name: "grpc", opt: WithOTLP("localhost:4317", OTLPInsecure()), want: OTLPProvider},
		{name: "http", opt: WithOTLPHTTP("http://localhost:4318/v1/traces"), want: OTLPHTTPProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tracer, err := New(context.Background(), tt.opt)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tracer.Provider())

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = tracer.Shutdown(ctx)
		})
	}
}

func TestSplitEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		host     string
		insecure bool
	}{
		{in: "http://localhost:4318", host: "localhost:4318", insecure: true},
		{in: "https://collector:4318/v1/traces", host: "collector:4318"},
		{in: "collector:4318", host: "collector:4318"},
	}

	for _, tt := range tests {
		host, insecure := splitEndpoint(tt.in)
		assert.Equal(t, tt.host, host, tt.in)
		assert.Equal(t, tt.insecure, insecure, tt.in)
	}
}

func TestShutdown_Idempotent(t *testing.T) {
	t.Parallel()

	tracer, err := New(context.Background())
	require.NoError(t, err)
	require.NoError(t, tracer.Shutdown(context.Background()))
	assert.NoError(t, tracer.Shutdown(context.Background()))
}

type failingExporter struct {
	tracetest.InMemoryExporter
}

func (*failingExporter) Shutdown(context.Context) error { return errors.New("exporter down") }

func TestShutdown_Error(t *testing.T) {
	t.Parallel()

	var events []Event
	tracer, err := New(context.Background(),
		WithExporter(&failingExporter{}),
		WithEventHandler(func(e Event) { events = append(events, e) }),
	)
	require.NoError(t, err)

	err = tracer.Shutdown(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exporter down")
	assert.Equal(t, err, tracer.Shutdown(context.Background()))

	var sawError bool
	for _, e := range events {
		if e.Type == EventError {
			sawError = true
		}
	}
	assert.True(t, sawError)
}

func TestShutdown_ErrorSyncExport(t *testing.T) {
	t.Parallel()

	tracer, err := New(context.Background(),
		WithExporter(&failingExporter{}),
		WithSyncExport(),
	)
	require.NoError(t, err)

	err = tracer.Shutdown(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, strings.Count(err.Error(), "exporter down"))
}

func TestEvents(t *testing.T) {
	t.Parallel()

	var events []Event
	tracer, err := New(context.Background(), WithEventHandler(func(e Event) { events = append(events, e) }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })

	var info bool
	for _, e := range events {
		if e.Type == EventInfo && e.Message == "Tracing initialized" {
			info = true
		}
	}
	assert.True(t, info)
}

func TestDefaultEventHandler(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		DefaultEventHandler(nil)(Event{Type: EventError, Message: "ignored"})
	})
}
