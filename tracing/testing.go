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
	"testing"
	"time"

	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TestingTracer creates a test [Tracer] that exports synchronously to an
// in-memory exporter, so tests can inspect the masked spans.
//
// Example:
//
//	func TestSomething(t *testing.T) {
//	    t.Parallel()
//	    tracer, exporter := tracing.TestingTracer(t)
//	    _, span := tracer.Tracer("").Start(t.Context(), "op")
//	    span.End()
//	    spans := exporter.GetSpans()
//	}
func TestingTracer(tb testing.TB, opts ...Option) (*Tracer, *tracetest.InMemoryExporter) {
	tb.Helper()

	exporter := tracetest.NewInMemoryExporter()
	defaultOpts := []Option{
		WithServiceName("test-service"),
		WithServiceVersion("v1.0.0"),
		WithExporter(exporter),
		WithSyncExport(),
	}

	tracer, err := New(context.Background(), append(defaultOpts, opts...)...)
	if err != nil {
		tb.Fatalf("TestingTracer: failed to create tracer: %v", err)
	}

	tb.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(ctx); err != nil {
			tb.Logf("TestingTracer: shutdown warning: %v", err)
		}
	})

	return tracer, exporter
}
