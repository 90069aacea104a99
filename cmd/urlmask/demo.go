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

package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/blas/urlmask/metrics"
	"github.com/blas/urlmask/spanprocessor"
	"github.com/blas/urlmask/telemetry/semconv"
	"github.com/blas/urlmask/tracing"
)

const demoURL = "https://api.telegram.org/bot123456:AbCdEf-token/sendMessage?chat_id=42&apiKey=s3cr3t"

func newDemoCmd(opts *rootOptions) *cobra.Command {
	var (
		rawURL      string
		withMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Export one span carrying http.url to stdout and show the masked result",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := commandContext(cmd)

			var (
				extra    []spanprocessor.Option
				recorder *metrics.Recorder
			)
			if withMetrics {
				r, err := metrics.New(
					metrics.WithServiceName("urlmask-demo"),
					metrics.WithStdoutWriter(cmd.OutOrStdout()),
				)
				if err != nil {
					return err
				}
				recorder = r
				extra = append(extra, spanprocessor.WithRecorder(recorder))
			}

			p, err := opts.processor(cmd, extra...)
			if err != nil {
				return err
			}

			tracer, err := tracing.New(ctx,
				tracing.WithServiceName("urlmask-demo"),
				tracing.WithServiceVersion(Version),
				tracing.WithStdoutWriter(cmd.OutOrStdout()),
				tracing.WithProcessor(p),
			)
			if err != nil {
				return err
			}

			_, span := tracer.Tracer("").Start(ctx, "demo",
				trace.WithSpanKind(trace.SpanKindClient),
				trace.WithAttributes(attribute.String(semconv.HTTPURL, rawURL)),
			)
			span.End()

			err = tracer.Shutdown(ctx)
			if recorder != nil {
				err = errors.Join(err, recorder.Shutdown(ctx))
			}
			return err
		},
	}

	cmd.Flags().StringVar(&rawURL, "url", demoURL, "value of the http.url attribute")
	cmd.Flags().BoolVar(&withMetrics, "metrics", false, "also print the masking counters")

	return cmd
}
