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
	"net/url"
	"strings"
)

// illegalURIChars are printable ASCII characters that may never appear
// unescaped in a URI reference.
const illegalURIChars = "\"<>\\^`{|}"

// DecomposedURL holds the raw text of each URI component.
// The Has* flags distinguish an absent component from an empty one, so that
// "https://host/?" and "https://host/" reassemble to themselves.
type DecomposedURL struct {
	Scheme    string
	Authority string
	Path      string
	Query     string
	Fragment  string

	HasAuthority bool
	HasQuery     bool
	HasFragment  bool
}

// Decompose splits raw into its URI components.
//
// Validation is stricter than [url.Parse]: spaces, control characters,
// the characters " < > \ ^ ` { | }, malformed percent escapes, a second '#'
// and brackets in the authority that do not enclose an IP literal host are
// rejected. Brackets in the path, query and fragment are accepted.
// Every component keeps its original text, so [DecomposedURL.String]
// returns raw unchanged.
//
// Errors:
//   - Returns [*ParseError] (matching [ErrMalformedURL]) if raw is not a valid URI reference
func Decompose(raw string) (DecomposedURL, error) {
	if offset, reason := firstIllegal(raw); offset >= 0 {
		return DecomposedURL{}, &ParseError{Reason: reason, Offset: offset}
	}

	u, err := url.Parse(raw)
	if err != nil {
		// url.Error embeds the full input; keep only the cause.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return DecomposedURL{}, &ParseError{Reason: "rejected by URL parser", Offset: -1, Err: err}
	}

	var d DecomposedURL
	rest := raw

	if i := strings.IndexByte(rest, '#'); i >= 0 {
		d.Fragment, d.HasFragment = rest[i+1:], true
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		d.Query, d.HasQuery = rest[i+1:], true
		rest = rest[:i]
	}
	if u.Scheme != "" {
		// u.Scheme is lowercased; keep the caller's spelling.
		d.Scheme = rest[:len(u.Scheme)]
		rest = rest[len(u.Scheme)+1:]
	}
	if strings.HasPrefix(rest, "//") && (d.Scheme != "" || !strings.HasPrefix(rest, "///")) {
		authority := rest[2:]
		rest = ""
		if i := strings.IndexByte(authority, '/'); i >= 0 {
			authority, rest = authority[:i], authority[i:]
		}
		d.Authority, d.HasAuthority = authority, true

		if err := checkAuthorityBrackets(authority); err != nil {
			return DecomposedURL{}, err
		}
	}
	d.Path = rest

	return d, nil
}

// String reassembles the components into a URI reference.
func (d DecomposedURL) String() string {
	var b strings.Builder
	b.Grow(len(d.Scheme) + len(d.Authority) + len(d.Path) + len(d.Query) + len(d.Fragment) + 5)

	if d.Scheme != "" {
		b.WriteString(d.Scheme)
		b.WriteByte(':')
	}
	if d.HasAuthority {
		b.WriteString("//")
		b.WriteString(d.Authority)
	}
	b.WriteString(d.Path)
	if d.HasQuery {
		b.WriteByte('?')
		b.WriteString(d.Query)
	}
	if d.HasFragment {
		b.WriteByte('#')
		b.WriteString(d.Fragment)
	}

	return b.String()
}

// firstIllegal returns the offset of the first character that cannot appear
// in a URI reference, or -1.
func firstIllegal(raw string) (int, string) {
	inFragment := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c < 0x20 || c == 0x7f:
			return i, "control character"
		case c == ' ':
			return i, "space"
		case strings.IndexByte(illegalURIChars, c) >= 0:
			return i, fmt.Sprintf("illegal character %q", c)
		case c == '%':
			if i+2 >= len(raw) || !isHex(raw[i+1]) || !isHex(raw[i+2]) {
				return i, "malformed percent escape"
			}
		case c == '#':
			if inFragment {
				return i, "second fragment delimiter"
			}
			inFragment = true
		}
	}
	return -1, ""
}

// checkAuthorityBrackets accepts brackets only as a single pair wrapping
// the whole host, as in "[::1]:8080".
func checkAuthorityBrackets(authority string) error {
	host := authority
	if at := strings.LastIndexByte(host, '@'); at >= 0 {
		if strings.ContainsAny(host[:at], "[]") {
			return &ParseError{Reason: "bracket in user info", Offset: -1}
		}
		host = host[at+1:]
	}
	if !strings.ContainsAny(host, "[]") {
		return nil
	}
	if host[0] != '[' || strings.Count(host, "[") != 1 || strings.Count(host, "]") != 1 {
		return &ParseError{Reason: "unbalanced brackets in authority", Offset: -1}
	}
	return nil
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
