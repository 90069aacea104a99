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

package metrics

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/blas/urlmask/telemetry/semconv"
)

func TestRecorder_Counters(t *testing.T) {
	t.Parallel()

	recorder, reader := TestingManualRecorder(t, WithServiceName("checkout"))
	ctx := context.Background()

	recorder.RecordProcessed(ctx, semconv.HTTPURL)
	recorder.RecordProcessed(ctx, semconv.HTTPURL)
	recorder.RecordProcessed(ctx, semconv.URLFull)
	recorder.RecordMasked(ctx, semconv.HTTPURL)
	recorder.RecordUnparsable(ctx, semconv.URLFull)

	assert.Equal(t, int64(3), CounterValue(t, reader, ProcessedName))
	assert.Equal(t, int64(1), CounterValue(t, reader, MaskedName))
	assert.Equal(t, int64(1), CounterValue(t, reader, UnparsableName))
}

func TestRecorder_Attributes(t *testing.T) {
	t.Parallel()

	recorder, reader := TestingManualRecorder(t, WithServiceName("checkout"))
	recorder.RecordMasked(context.Background(), semconv.URLFull)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	assert.Equal(t, MeterName, rm.ScopeMetrics[0].Scope.Name)

	var found bool
	for _, m := range rm.ScopeMetrics[0].Metrics {
		if m.Name != MaskedName {
			continue
		}
		sum, ok := m.Data.(metricdata.Sum[int64])
		require.True(t, ok)
		require.Len(t, sum.DataPoints, 1)
		assert.True(t, sum.IsMonotonic)

		attrs := sum.DataPoints[0].Attributes
		service, ok := attrs.Value(semconv.ServiceName)
		require.True(t, ok)
		assert.Equal(t, "checkout", service.AsString())
		key, ok := attrs.Value(semconv.AttributeKey)
		require.True(t, ok)
		assert.Equal(t, semconv.URLFull, key.AsString())
		found = true
	}
	assert.True(t, found)
}

func TestRecorder_Concurrent(t *testing.T) {
	t.Parallel()

	recorder, reader := TestingManualRecorder(t)

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			recorder.RecordProcessed(context.Background(), semconv.HTTPURL)
		})
	}
	wg.Wait()

	assert.Equal(t, int64(50), CounterValue(t, reader, ProcessedName))
}

func TestCounterValue_Unrecorded(t *testing.T) {
	t.Parallel()

	_, reader := TestingManualRecorder(t)
	assert.Zero(t, CounterValue(t, reader, MaskedName))
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []Option
	}{
		{name: "conflicting providers", opts: []Option{WithStdout(), WithOTLP("http://localhost:4318")}},
		{name: "empty service name", opts: []Option{WithServiceName(""), WithStdout()}},
		{name: "empty prometheus port", opts: []Option{WithPrometheus("", "/metrics")}},
		{name: "empty prometheus path", opts: []Option{WithPrometheus(":9090", "")}},
		{name: "nil stdout writer", opts: []Option{WithStdoutWriter(nil)}},
		{name: "nil custom provider", opts: []Option{WithMeterProvider(nil)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.opts...)
			assert.Error(t, err)
		})
	}
}

func TestMustNew_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustNew(WithServiceName("")) })
}

func TestWithPrometheus_Normalizes(t *testing.T) {
	t.Parallel()

	recorder, err := New(WithPrometheus("9464", "metrics"), WithServerDisabled())
	require.NoError(t, err)
	t.Cleanup(func() { _ = recorder.Shutdown(context.Background()) })

	assert.Equal(t, ":9464", recorder.ServerAddress())
	assert.Equal(t, "/metrics", recorder.Path())
}

func TestPrometheus_Handler(t *testing.T) {
	t.Parallel()

	recorder, err := New(
		WithPrometheus(":9090", "/metrics"),
		WithServerDisabled(),
		WithServiceName("checkout"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = recorder.Shutdown(context.Background()) })
	assert.Equal(t, PrometheusProvider, recorder.Provider())

	recorder.RecordMasked(context.Background(), semconv.HTTPURL)

	handler, err := recorder.Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "urlmask_urls_masked")
	assert.Contains(t, rec.Body.String(), `urlmask_attribute="http.url"`)
}

func TestPrometheus_Server(t *testing.T) {
	t.Parallel()

	recorder, err := New(WithPrometheus(":0", "/metrics"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = recorder.Shutdown(context.Background()) })

	require.NoError(t, recorder.Start(t.Context()))
	require.NoError(t, recorder.Start(t.Context()), "Start is idempotent")
	recorder.RecordProcessed(context.Background(), semconv.HTTPURL)

	addr := "http://127.0.0.1" + recorder.ServerAddress() + recorder.Path()
	require.NotEqual(t, ":0", recorder.ServerAddress())

	var body []byte
	require.Eventually(t, func() bool {
		resp, err := http.Get(addr) //nolint:noctx // test helper
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, err = io.ReadAll(resp.Body)
		return err == nil && resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	assert.Contains(t, string(body), "urlmask_urls_processed")
}

func TestHandler_NotPrometheus(t *testing.T) {
	t.Parallel()

	recorder := TestingRecorder(t, "test-service")
	_, err := recorder.Handler()
	assert.ErrorIs(t, err, ErrNotPrometheus)
	assert.Equal(t, StdoutProvider, recorder.Provider())
}

func TestStdout_WritesOnShutdown(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	recorder, err := New(WithStdoutWriter(&buf), WithExportInterval(time.Hour))
	require.NoError(t, err)

	recorder.RecordUnparsable(context.Background(), semconv.HTTPURL)
	require.NoError(t, recorder.Shutdown(context.Background()))
	require.NoError(t, recorder.Shutdown(context.Background()), "Shutdown is idempotent")

	assert.Contains(t, buf.String(), UnparsableName)
}

func TestCustomProvider_NotShutDown(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	recorder, err := New(WithMeterProvider(mp))
	require.NoError(t, err)
	require.NoError(t, recorder.Start(context.Background()))
	require.NoError(t, recorder.Shutdown(context.Background()))

	recorder.RecordProcessed(context.Background(), semconv.HTTPURL)
	assert.Equal(t, int64(1), CounterValue(t, reader, ProcessedName))
	require.NoError(t, mp.Shutdown(context.Background()))
}

func TestEvents(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var events []Event
	recorder, err := New(
		WithStdoutWriter(io.Discard),
		WithExportInterval(100*time.Millisecond),
		WithEventHandler(func(e Event) {
			mu.Lock()
			events = append(events, e)
			mu.Unlock()
		}),
	)
	require.NoError(t, err)
	require.NoError(t, recorder.Shutdown(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, events)
	assert.Equal(t, EventWarning, events[0].Type)
}

func TestSplitEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		host     string
		insecure bool
	}{
		{in: "http://localhost:4318", host: "localhost:4318", insecure: true},
		{in: "https://collector:4318/v1/metrics", host: "collector:4318"},
		{in: "collector:4318", host: "collector:4318"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.in), func(t *testing.T) {
			t.Parallel()
			host, insecure := splitEndpoint(tt.in)
			assert.Equal(t, tt.host, host)
			assert.Equal(t, tt.insecure, insecure)
		})
	}
}

func TestOTLPProvider(t *testing.T) {
	t.Parallel()

	recorder, err := New(WithOTLP("http://localhost:4318"))
	require.NoError(t, err)
	assert.Equal(t, OTLPProvider, recorder.Provider())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	// No collector is running; only shutdown must not hang.
	_ = recorder.Shutdown(ctx)
}

func TestDefaultEventHandler(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		DefaultEventHandler(nil)(Event{Type: EventError, Message: "ignored"})
	})
}
