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
	"errors"
	"fmt"
)

var (
	// ErrMalformedURL is returned by [Decompose] and [Masker.MaskURL] when
	// the input is not a syntactically valid URI reference.
	ErrMalformedURL = errors.New("malformed URL")

	// ErrInvalidPattern is returned by [New] when a sensitive pattern does
	// not compile.
	ErrInvalidPattern = errors.New("invalid sensitive pattern")

	// ErrInvalidMergeMode is returned when a merge mode is neither
	// "extend" nor "replace".
	ErrInvalidMergeMode = errors.New("invalid merge mode")

	// ErrNilMasker is returned when a nil *Masker is passed where one is required.
	ErrNilMasker = errors.New("masker cannot be nil")
)

// ParseError describes why a URL could not be decomposed.
// It deliberately does not carry the URL itself, which may hold the very
// secrets masking is meant to remove.
type ParseError struct {
	Reason string // Human readable cause
	Offset int    // Byte offset of the offending character, -1 if unknown
	Err    error  // Underlying net/url error, if any
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s: %s at offset %d", ErrMalformedURL, e.Reason, e.Offset)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedURL, e.Reason)
}

// Unwrap allows errors.Is(err, ErrMalformedURL) and inspection of the
// underlying net/url error.
func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedURL, e.Err}
	}
	return []error{ErrMalformedURL}
}

// PatternError reports a sensitive pattern that failed to compile.
type PatternError struct {
	Pattern string
	Err     error
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	return fmt.Sprintf("%s %q: %v", ErrInvalidPattern, e.Pattern, e.Err)
}

// Unwrap returns both the sentinel and the regexp error.
func (e *PatternError) Unwrap() []error {
	return []error{ErrInvalidPattern, e.Err}
}
