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
	"context"
	"io"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// TestingRecorder creates a test [Recorder] with sensible defaults for unit tests.
// The recorder uses [StdoutProvider] writing to io.Discard, so no port is opened.
// It is shut down when the test completes.
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    t.Parallel()
//	    recorder := metrics.TestingRecorder(t, "test-service")
//	    // Use recorder...
//	}
func TestingRecorder(tb testing.TB, serviceName string, opts ...Option) *Recorder {
	tb.Helper()

	allOpts := append([]Option{
		WithServiceName(serviceName),
		WithStdoutWriter(io.Discard),
		WithServerDisabled(),
	}, opts...)

	recorder, err := New(allOpts...)
	if err != nil {
		tb.Fatalf("TestingRecorder: failed to create recorder: %v", err)
	}

	tb.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := recorder.Shutdown(ctx); err != nil {
			tb.Logf("TestingRecorder: shutdown warning: %v", err)
		}
	})

	return recorder
}

// TestingManualRecorder creates a test [Recorder] backed by a
// [sdkmetric.ManualReader], so tests can read back what was recorded with
// [CounterValue].
func TestingManualRecorder(tb testing.TB, opts ...Option) (*Recorder, *sdkmetric.ManualReader) {
	tb.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	recorder, err := New(append([]Option{WithMeterProvider(mp)}, opts...)...)
	if err != nil {
		tb.Fatalf("TestingManualRecorder: failed to create recorder: %v", err)
	}

	tb.Cleanup(func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			tb.Logf("TestingManualRecorder: shutdown warning: %v", err)
		}
	})

	return recorder, reader
}

// CounterValue collects reader and returns the sum of all data points of the
// Int64 counter name, or 0 if it has not been recorded.
func CounterValue(tb testing.TB, reader sdkmetric.Reader, name string) int64 {
	tb.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		tb.Fatalf("CounterValue: collect failed: %v", err)
	}

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				tb.Fatalf("CounterValue: %s is %T, not an int64 sum", name, m.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}

	return total
}
