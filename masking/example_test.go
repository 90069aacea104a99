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

package masking_test

import (
	"errors"
	"fmt"

	"github.com/blas/urlmask/masking"
)

func ExampleMasker_Mask() {
	masker := masking.MustNew()

	fmt.Println(masker.Mask("https://api.example.com/v1/users?apiKey=ABC123&name=bob"))
	fmt.Println(masker.Mask("https://api.telegram.org/bot123456:AbCdEf-token/sendMessage"))
	fmt.Println(masker.Mask("not a valid uri"))
	// Output:
	// https://api.example.com/v1/users?apiKey=******&name=bob
	// https://api.telegram.org/bot******:************/sendMessage
	// not a valid uri
}

func ExampleWithSensitiveKeys() {
	masker := masking.MustNew(masking.WithSensitiveKeys("access_token"))

	fmt.Println(masker.Mask("https://example.com/cb?access_token=xyz&state=1"))
	// Output:
	// https://example.com/cb?access_token=***&state=1
}

func ExampleWithMergeMode() {
	masker := masking.MustNew(
		masking.WithSensitiveKeys("token"),
		masking.WithMergeMode(masking.MergeReplace),
	)

	fmt.Println(masker.SensitiveKeys())
	// Output:
	// [token]
}

func ExampleWithPatterns() {
	masker := masking.MustNew(
		masking.WithPatterns(`hooks\.slack\.com/services/T[A-Z0-9]+/([A-Z0-9]+)/([a-zA-Z0-9]+)`),
	)

	fmt.Println(masker.Mask("https://hooks.slack.com/services/T0001/B0002/XyZ123"))
	// Output:
	// https://hooks.slack.com/services/T0001/*****/******
}

func ExampleMasker_MaskURL() {
	masker := masking.MustNew()

	out, err := masker.MaskURL("https://example.com/a b?password=x")
	fmt.Println(out)
	fmt.Println(errors.Is(err, masking.ErrMalformedURL))
	fmt.Println(err)
	// Output:
	// https://example.com/a b?password=x
	// true
	// malformed URL: space at offset 21
}
