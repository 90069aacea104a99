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

package masking

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestingMasker creates a Masker for tests and fails the test if the
// options are invalid.
//
// Example:
//
//	func TestHandler(t *testing.T) {
//	    m := masking.TestingMasker(t, masking.WithSensitiveKeys("token"))
//	    // use m
//	}
func TestingMasker(tb testing.TB, opts ...Option) *Masker {
	tb.Helper()

	m, err := New(opts...)
	require.NoError(tb, err, "failed to create test masker")

	return m
}
