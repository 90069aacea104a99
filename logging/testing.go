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

package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// LogEntry represents a parsed log entry for testing.
type LogEntry struct {
	Time    time.Time
	Level   string
	Message string
	Attrs   map[string]any
}

// NewTestLogger creates a JSON [Logger] at debug level writing to an
// in-memory buffer. Use [ParseJSONLogEntries] to inspect the output.
func NewTestLogger(opts ...Option) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := MustNew(append([]Option{
		WithJSONHandler(),
		WithOutput(buf),
		WithLevel(LevelDebug),
	}, opts...)...)

	return logger, buf
}

// ParseJSONLogEntries parses JSON log lines from buf without consuming it.
func ParseJSONLogEntries(buf *bytes.Buffer) ([]LogEntry, error) {
	var entries []LogEntry
	scanner := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for scanner.Scan() {
		var raw map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &raw); err != nil {
			return nil, err
		}

		msg, _ := raw["msg"].(string)
		level, _ := raw["level"].(string)
		le := LogEntry{Message: msg, Level: level, Attrs: make(map[string]any)}
		if ts, ok := raw["time"].(string); ok {
			le.Time, _ = time.Parse(time.RFC3339Nano, ts)
		}

		for k, v := range raw {
			if k != "time" && k != "level" && k != "msg" {
				le.Attrs[k] = v
			}
		}
		entries = append(entries, le)
	}

	return entries, scanner.Err()
}

// TestHelper provides utilities for testing with the logging package.
type TestHelper struct {
	Logger *Logger
	Buffer *bytes.Buffer
}

// NewTestHelper creates a [TestHelper] with in-memory JSON logging.
func NewTestHelper(tb testing.TB, opts ...Option) *TestHelper {
	tb.Helper()
	logger, buf := NewTestLogger(opts...)
	return &TestHelper{Logger: logger, Buffer: buf}
}

// Logs returns all parsed log entries.
func (th *TestHelper) Logs() ([]LogEntry, error) {
	return ParseJSONLogEntries(th.Buffer)
}

// LastLog returns the most recent log entry.
func (th *TestHelper) LastLog() (*LogEntry, error) {
	entries, err := th.Logs()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("no log entries")
	}
	return &entries[len(entries)-1], nil
}

// ContainsLog reports whether any entry has message msg.
func (th *TestHelper) ContainsLog(msg string) bool {
	entries, err := th.Logs()
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.Message == msg {
			return true
		}
	}
	return false
}

// Reset clears the buffer.
func (th *TestHelper) Reset() {
	th.Buffer.Reset()
}

// AssertLog fails the test unless the last entry has the given level,
// message and attributes.
func (th *TestHelper) AssertLog(tb testing.TB, level, msg string, attrs map[string]any) {
	tb.Helper()

	entry, err := th.LastLog()
	require.NoError(tb, err, "no log entry found")
	require.Equal(tb, level, entry.Level, "log level mismatch")
	require.Equal(tb, msg, entry.Message, "log message mismatch")
	for k, want := range attrs {
		require.Contains(tb, entry.Attrs, k, "missing attribute %q", k)
		require.Equal(tb, want, entry.Attrs[k], "attribute %q mismatch", k)
	}
}
