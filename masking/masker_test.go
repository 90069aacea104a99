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
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMask_Examples(t *testing.T) {
	t.Parallel()

	m := TestingMasker(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "sensitive key masked to value length",
			in:   "https://api.example.com/v1/users?apiKey=ABC123&name=bob",
			want: "https://api.example.com/v1/users?apiKey=******&name=bob",
		},
		{
			name: "telegram bot id and token masked",
			in:   "https://api.telegram.org/bot123456:AbCdEf-token/sendMessage",
			want: "https://api.telegram.org/bot******:************/sendMessage",
		},
		{
			name: "invalid URI returned unchanged",
			in:   "not a valid uri",
			want: "not a valid uri",
		},
		{
			name: "duplicate key keeps last value",
			in:   "https://example.com/path?a=1&a=2",
			want: "https://example.com/path?a=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, m.Mask(tt.in))
		})
	}
}

func TestMask_Query(t *testing.T) {
	t.Parallel()

	m := TestingMasker(t)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "key match ignores case",
			in:   "https://h/p?APIKEY=abc&Password=hunter2",
			want: "https://h/p?APIKEY=***&Password=*******",
		},
		{
			name: "non sensitive query unchanged",
			in:   "https://h/p?page=2&sort=name",
			want: "https://h/p?page=2&sort=name",
		},
		{
			name: "pairs without equals dropped",
			in:   "https://h/p?flag&user=bob&x=1=2",
			want: "https://h/p?user=***",
		},
		{
			name: "brackets in query key accepted",
			in:   "https://h/p?a[0]=1&key=abc",
			want: "https://h/p?a[0]=1&key=***",
		},
		{
			name: "brackets in path accepted",
			in:   "http://h/p[1]?key=abc",
			want: "http://h/p[1]?key=***",
		},
		{
			name: "empty value stays empty",
			in:   "https://h/p?secret=&a=b",
			want: "https://h/p?secret=&a=b",
		},
		{
			name: "percent encoded value masked by decoded length",
			in:   "https://h/p?pass=%C3%A9t%C3%A9",
			want: "https://h/p?pass=***",
		},
		{
			name: "percent encoded key matched",
			in:   "https://h/p?%70assword=x1",
			want: "https://h/p?%70assword=**",
		},
		{
			name: "no query untouched",
			in:   "https://h/p/user/secret",
			want: "https://h/p/user/secret",
		},
		{
			name: "empty query untouched",
			in:   "https://h/p?",
			want: "https://h/p?",
		},
		{
			name: "fragment and userinfo preserved",
			in:   "https://Bob@H:8443/p;x?key=abcd#key=frag",
			want: "https://Bob@H:8443/p;x?key=****#key=frag",
		},
		{
			name: "relative reference",
			in:   "/v1/login?username=alice&next=/home",
			want: "/v1/login?username=*****&next=/home",
		},
		{
			name: "ipv6 host",
			in:   "http://[::1]:8080/x?key=k",
			want: "http://[::1]:8080/x?key=*",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, m.Mask(tt.in))
		})
	}
}

func TestMask_MalformedReturnsInput(t *testing.T) {
	t.Parallel()

	m := TestingMasker(t)

	// Unparsable URLs are exported as-is, secrets included.
	inputs := []string{
		"https://h/p?password=a b",
		"https://h/p?password=%zz",
		"https://h/p?key=1#a#b",
		"https://h/p?key=<x>",
		"http://[::1/x?key=1",
		"http://h[1]/x?key=1",
		"https://h/p?key=1\n",
	}
	for _, in := range inputs {
		assert.Equal(t, in, m.Mask(in))

		out, err := m.MaskURL(in)
		require.Error(t, err, in)
		assert.ErrorIs(t, err, ErrMalformedURL)
		assert.Equal(t, in, out)
	}
}

func TestMaskURL_ErrorOmitsURL(t *testing.T) {
	t.Parallel()

	m := TestingMasker(t)

	_, err := m.MaskURL("https://h/p?password=topsecret value")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "topsecret")

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "space", pe.Reason)
	assert.Equal(t, 30, pe.Offset)
}

func TestMask_MalformedEmitsDebugEvent(t *testing.T) {
	t.Parallel()

	var events []Event
	m := TestingMasker(t, WithEventHandler(func(e Event) {
		events = append(events, e)
	}))
	events = nil

	m.Mask("not a valid uri")

	require.Len(t, events, 1)
	assert.Equal(t, EventDebug, events[0].Type)
	for _, arg := range events[0].Args {
		assert.NotEqual(t, "not a valid uri", fmt.Sprint(arg))
	}
}

func TestMask_Idempotent(t *testing.T) {
	t.Parallel()

	m := TestingMasker(t)

	inputs := []string{
		"https://api.example.com/v1/users?apiKey=ABC123&name=bob",
		"https://api.telegram.org/bot123456:AbCdEf-token/sendMessage?secret=s",
		"https://h/p?a=1&a=2&flag",
		"not a valid uri",
	}
	for _, in := range inputs {
		once := m.Mask(in)
		assert.Equal(t, once, m.Mask(once), in)
	}
}

func TestNew_MergeModes(t *testing.T) {
	t.Parallel()

	t.Run("extend keeps defaults", func(t *testing.T) {
		t.Parallel()
		m := TestingMasker(t, WithSensitiveKeys("token"))
		assert.True(t, m.IsSensitiveKey("token"))
		assert.True(t, m.IsSensitiveKey("apikey"))
		assert.Equal(t, MergeExtend, m.MergeMode())
	})

	t.Run("replace drops defaults", func(t *testing.T) {
		t.Parallel()
		m := TestingMasker(t, WithSensitiveKeys("token"), WithMergeMode(MergeReplace))
		assert.Equal(t, []string{"token"}, m.SensitiveKeys())
		assert.Equal(t, "https://h/?token=***&apiKey=abc", m.Mask("https://h/?token=xyz&apiKey=abc"))
	})

	t.Run("replace without keys keeps defaults", func(t *testing.T) {
		t.Parallel()
		var warned bool
		m := TestingMasker(t, WithMergeMode(MergeReplace), WithEventHandler(func(e Event) {
			if e.Type == EventWarning {
				warned = true
			}
		}))
		assert.ElementsMatch(t, []string{"apikey", "pass", "password", "key", "user", "username", "secret"}, m.SensitiveKeys())
		assert.True(t, warned)
	})

	t.Run("invalid mode", func(t *testing.T) {
		t.Parallel()
		_, err := New(WithMergeMode("union"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidMergeMode)
	})
}

func TestNew_DefaultsNotMutated(t *testing.T) {
	t.Parallel()

	before := DefaultSensitiveKeys()
	for range 3 {
		TestingMasker(t, WithSensitiveKeys("token", "sig"))
	}
	assert.Equal(t, before, DefaultSensitiveKeys())

	m := TestingMasker(t)
	assert.False(t, m.IsSensitiveKey("token"))

	keys := DefaultSensitiveKeys()
	keys[0] = "changed"
	assert.Equal(t, "apiKey", DefaultSensitiveKeys()[0])
}

func TestNew_SensitiveKeysNormalized(t *testing.T) {
	t.Parallel()

	m := TestingMasker(t, WithSensitiveKeys(" Token ", "", "  "), WithMergeMode(MergeReplace))
	assert.Equal(t, []string{"token"}, m.SensitiveKeys())
	assert.True(t, m.IsSensitiveKey("TOKEN"))
}

func TestNew_InvalidPatterns(t *testing.T) {
	t.Parallel()

	var errorEvents int
	_, err := New(
		WithPatterns(`ok=(\d+)`, `bad=(`, `worse=[`),
		WithEventHandler(func(e Event) {
			if e.Type == EventError {
				errorEvents++
			}
		}),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPattern)
	assert.Equal(t, 2, errorEvents)

	var pe *PatternError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, `bad=(`, pe.Pattern)
	assert.Contains(t, err.Error(), "worse=[")
}

func TestNew_Patterns(t *testing.T) {
	t.Parallel()

	m := TestingMasker(t, WithPatterns(`sig-([a-f0-9]+)`, " ", TelegramBotPattern))
	assert.Equal(t, []string{TelegramBotPattern, `sig-([a-f0-9]+)`}, m.Patterns())
	assert.Equal(t, "https://h/files/sig-****/x", m.Mask("https://h/files/sig-beef/x"))

	only := TestingMasker(t, WithoutDefaultPatterns(), WithPatterns(`sig-([a-f0-9]+)`))
	assert.Equal(t, []string{`sig-([a-f0-9]+)`}, only.Patterns())
	telegram := "https://api.telegram.org/bot1:a/sendMessage"
	assert.Equal(t, telegram, only.Mask(telegram))
}

func TestNew_InfoEvent(t *testing.T) {
	t.Parallel()

	var got []Event
	TestingMasker(t, WithEventHandler(func(e Event) { got = append(got, e) }))

	require.Len(t, got, 1)
	assert.Equal(t, EventInfo, got[0].Type)
	assert.Equal(t, "URL masking configured", got[0].Message)
}

func TestMustNew_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustNew(WithPatterns(`(`)) })
	assert.NotPanics(t, func() { MustNew() })
}

func TestMask_Concurrent(t *testing.T) {
	t.Parallel()

	m := TestingMasker(t, WithSensitiveKeys("token"))
	const in = "https://api.telegram.org/bot42:tok/send?token=abc&apiKey=xyz"
	const want = "https://api.telegram.org/bot**:***/send?token=***&apiKey=***"

	var wg sync.WaitGroup
	results := make([]string, 64)
	for i := range results {
		wg.Go(func() {
			results[i] = m.Mask(in)
		})
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestMask_LongQuery(t *testing.T) {
	t.Parallel()

	m := TestingMasker(t)

	var b strings.Builder
	b.WriteString("https://h/p?")
	for i := range 500 {
		if i > 0 {
			b.WriteByte('&')
		}
		fmt.Fprintf(&b, "k%d=v%d", i, i)
	}
	b.WriteString("&secret=s3cr3t")

	out := m.Mask(b.String())
	assert.True(t, strings.HasSuffix(out, "&secret=******"))
	assert.Equal(t, len(b.String()), len(out))
}

func TestParseMergeMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    MergeMode
		wantErr bool
	}{
		{in: "", want: MergeExtend},
		{in: "extend", want: MergeExtend},
		{in: " Replace ", want: MergeReplace},
		{in: "merge", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseMergeMode(tt.in)
		if tt.wantErr {
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidMergeMode))
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
