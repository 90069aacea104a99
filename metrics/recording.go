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
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/blas/urlmask/telemetry/semconv"
)

// initializeMetrics creates all the metric instruments.
func (r *Recorder) initializeMetrics() error {
	var err error

	r.processed, err = r.meter.Int64Counter(
		ProcessedName,
		metric.WithDescription("Number of URL attribute values inspected for secrets"),
		metric.WithUnit("{url}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create processed counter: %w", err)
	}

	r.masked, err = r.meter.Int64Counter(
		MaskedName,
		metric.WithDescription("Number of URL attribute values changed by masking"),
		metric.WithUnit("{url}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create masked counter: %w", err)
	}

	r.unparsable, err = r.meter.Int64Counter(
		UnparsableName,
		metric.WithDescription("Number of URL attribute values exported unmasked because they could not be parsed"),
		metric.WithUnit("{url}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create unparsable counter: %w", err)
	}

	return nil
}

func (r *Recorder) attributes(attrKey string) metric.MeasurementOption {
	return metric.WithAttributes(
		r.serviceNameAttr,
		attribute.String(semconv.AttributeKey, attrKey),
	)
}

// RecordProcessed counts one inspected value of the span attribute attrKey.
func (r *Recorder) RecordProcessed(ctx context.Context, attrKey string) {
	r.processed.Add(ctx, 1, r.attributes(attrKey))
}

// RecordMasked counts one value of attrKey that masking changed.
func (r *Recorder) RecordMasked(ctx context.Context, attrKey string) {
	r.masked.Add(ctx, 1, r.attributes(attrKey))
}

// RecordUnparsable counts one value of attrKey that was left unmasked
// because it is not a valid URL.
func (r *Recorder) RecordUnparsable(ctx context.Context, attrKey string) {
	r.unparsable.Add(ctx, 1, r.attributes(attrKey))
}
