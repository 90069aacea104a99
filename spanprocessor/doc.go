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

// Package spanprocessor masks secrets in URL span attributes before they
// leave the process.
//
// [Processor] implements the OpenTelemetry SDK SpanProcessor interface. When
// a span starts it rewrites http.url (and any attribute added with
// [WithAttributes]) through a [masking.Masker]. It exports nothing itself;
// register it next to the exporting processors:
//
//	processor, err := spanprocessor.NewFromEnv(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tp := sdktrace.NewTracerProvider(
//	    sdktrace.WithSpanProcessor(processor),
//	    sdktrace.WithBatcher(exporter),
//	)
//
// Values that are not valid URLs are exported unmasked. Count them with
// [WithRecorder] or [WithMeterProvider].
package spanprocessor
