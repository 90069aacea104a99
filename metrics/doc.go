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

// Package metrics counts URL masking outcomes with OpenTelemetry.
//
// A [Recorder] owns three counters:
//
//   - urlmask.urls.processed: URL attribute values inspected
//   - urlmask.urls.masked: values that masking changed
//   - urlmask.urls.unparsable: values exported unmasked because they do not parse
//
// Each measurement carries service.name and urlmask.attribute, the span
// attribute the value came from.
//
// # Basic Usage
//
//	recorder := metrics.MustNew(
//	    metrics.WithPrometheus(":9090", "/metrics"),
//	    metrics.WithServiceName("checkout"),
//	)
//	if err := recorder.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer recorder.Shutdown(context.Background())
//
//	processor := spanprocessor.MustNew(spanprocessor.WithRecorder(recorder))
//
// # Providers
//
// Three providers are supported:
//   - [PrometheusProvider] (default): exposes metrics via an HTTP endpoint
//   - [OTLPProvider]: pushes metrics to an OTLP/HTTP collector
//   - [StdoutProvider]: prints metrics periodically (development/testing)
//
// [WithMeterProvider] plugs in any other [go.opentelemetry.io/otel/metric.MeterProvider].
//
// # Global State
//
// By default, this package does NOT set the global OpenTelemetry meter provider.
// Use [WithGlobalMeterProvider] if you want global registration.
package metrics
