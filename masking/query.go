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
	"net/url"
	"slices"
	"strings"
	"unicode/utf8"
)

// MaskChar is the character that replaces every redacted character.
const MaskChar = "*"

// QueryParam is a single key=value pair of a query string, in raw form.
type QueryParam struct {
	Key   string
	Value string
}

// KeySet is a case-insensitive set of query parameter names.
// The zero value is an empty set. A KeySet must not be modified after it is
// shared between goroutines.
type KeySet map[string]struct{}

// NewKeySet builds a KeySet from keys. Surrounding whitespace is trimmed and
// empty names are ignored.
func NewKeySet(keys ...string) KeySet {
	set := make(KeySet, len(keys))
	for _, k := range keys {
		set.add(k)
	}
	return set
}

func (s KeySet) add(key string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	s[strings.ToLower(key)] = struct{}{}
}

// Contains reports whether key is in the set, ignoring case.
// Percent-encoded keys are compared in decoded form, so "%70assword"
// matches "password".
func (s KeySet) Contains(key string) bool {
	if len(s) == 0 {
		return false
	}
	if _, ok := s[strings.ToLower(key)]; ok {
		return true
	}
	if decoded, err := url.QueryUnescape(key); err == nil && decoded != key {
		_, ok := s[strings.ToLower(decoded)]
		return ok
	}
	return false
}

// Keys returns the lowercased members in sorted order.
func (s KeySet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ParseQuery splits a raw query string into pairs.
//
// A token is kept only if it contains exactly one '='; tokens without '=' or
// with several are dropped. A repeated key keeps the position of its first
// occurrence and the value of its last.
func ParseQuery(query string) []QueryParam {
	var params []QueryParam
	index := make(map[string]int)

	for _, pair := range strings.Split(query, "&") {
		if strings.Count(pair, "=") != 1 {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if i, ok := index[key]; ok {
			params[i].Value = value
			continue
		}
		index[key] = len(params)
		params = append(params, QueryParam{Key: key, Value: value})
	}

	return params
}

// BuildQuery joins pairs as key=value separated by '&'.
func BuildQuery(params []QueryParam) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}

// RedactQuery replaces the value of every parameter whose key is in keys with
// asterisks of the value's length, then rebuilds the query with [BuildQuery].
// Note that the rebuilt query omits pairs [ParseQuery] drops.
func RedactQuery(query string, keys KeySet) string {
	params := ParseQuery(query)
	for i := range params {
		if keys.Contains(params[i].Key) {
			params[i].Value = maskValue(params[i].Value)
		}
	}
	return BuildQuery(params)
}

// maskValue masks v with one asterisk per character of its decoded form.
func maskValue(v string) string {
	n := utf8.RuneCountInString(v)
	if decoded, err := url.QueryUnescape(v); err == nil {
		n = utf8.RuneCountInString(decoded)
	}
	return strings.Repeat(MaskChar, n)
}
