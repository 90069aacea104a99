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
	"cmp"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"
)

// span is a half-open byte range [start, end) of the input.
type span struct {
	start, end int
}

// RedactPatterns replaces every capture group of every match of every pattern
// with asterisks, one per character of the captured text.
//
// All patterns are matched against s itself, not against the output of
// earlier patterns, and the output is built in a single left-to-right pass,
// so overlapping groups are masked as their union. Group 0 is never
// redacted: a pattern without capture groups redacts nothing.
func RedactPatterns(s string, patterns []*regexp.Regexp) string {
	var spans []span

	for _, re := range patterns {
		groups := re.NumSubexp()
		if groups == 0 {
			continue
		}
		for _, loc := range re.FindAllStringSubmatchIndex(s, -1) {
			for g := 1; g <= groups; g++ {
				start, end := loc[2*g], loc[2*g+1]
				// -1 marks a group that did not participate in the match.
				if start < 0 || start == end {
					continue
				}
				spans = append(spans, span{start: start, end: end})
			}
		}
	}

	if len(spans) == 0 {
		return s
	}

	slices.SortFunc(spans, func(a, b span) int {
		return cmp.Compare(a.start, b.start)
	})

	var b strings.Builder
	b.Grow(len(s))
	pos := 0
	for _, sp := range spans {
		if sp.end <= pos {
			continue
		}
		start := max(sp.start, pos)
		b.WriteString(s[pos:start])
		b.WriteString(strings.Repeat(MaskChar, utf8.RuneCountInString(s[start:sp.end])))
		pos = sp.end
	}
	b.WriteString(s[pos:])

	return b.String()
}

// compilePatterns compiles sources in order, skipping duplicates and blanks.
// Every failing pattern is reported, not just the first.
func compilePatterns(sources []string) ([]*regexp.Regexp, []error) {
	var (
		compiled []*regexp.Regexp
		errs     []error
	)
	seen := make(map[string]struct{}, len(sources))

	for _, src := range sources {
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		if _, dup := seen[src]; dup {
			continue
		}
		seen[src] = struct{}{}

		re, err := regexp.Compile(src)
		if err != nil {
			errs = append(errs, &PatternError{Pattern: src, Err: err})
			continue
		}
		compiled = append(compiled, re)
	}

	return compiled, errs
}
