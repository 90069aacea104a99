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

// Package tracing builds an OpenTelemetry tracer provider whose exporters
// only ever see masked URL attributes.
//
// The provider registers a [spanprocessor.Processor] ahead of the exporter,
// so http.url (and any extra configured attribute) is redacted when a span
// starts, before batching or export.
//
// # Providers
//
//   - [NoopProvider]: no exporter (default)
//   - [StdoutProvider]: pretty-printed JSON via stdouttrace
//   - [OTLPProvider]: OTLP gRPC via otlptracegrpc
//   - [OTLPHTTPProvider]: OTLP HTTP via otlptracehttp
//   - [CustomProvider]: any [sdktrace.SpanExporter] given to [WithExporter]
//
// # Basic Usage
//
//	tracer, err := tracing.New(ctx,
//	    tracing.WithServiceName("checkout"),
//	    tracing.WithOTLP("localhost:4317", tracing.OTLPInsecure()),
//	    tracing.WithProcessorOptions(spanprocessor.WithAttributes(semconv.URLFull)),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer tracer.Shutdown(context.Background())
//
//	_, span := tracer.Tracer("").Start(ctx, "GET /users",
//	    trace.WithAttributes(attribute.String("http.url", rawURL)))
//	defer span.End()
//
// Only attributes present when the span starts are masked. Attributes added
// later with span.SetAttributes reach the exporter unchanged.
package tracing
