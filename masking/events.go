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

import "log/slog"

// EventType represents the severity of an internal operational event.
type EventType int

const (
	// EventError indicates an error event (e.g., an invalid pattern).
	EventError EventType = iota
	// EventWarning indicates a warning event.
	EventWarning
	// EventInfo indicates an informational event (e.g., masker configured).
	EventInfo
	// EventDebug indicates a debug event (e.g., a URL left unmasked).
	EventDebug
)

// Event represents an internal operational event from the masking package.
// Events never carry the URL being masked, only metadata about it.
type Event struct {
	Type    EventType
	Message string
	Args    []any // slog-style key-value pairs
}

// EventHandler processes internal operational events from the masking package.
type EventHandler func(Event)

// DefaultEventHandler returns an EventHandler that logs events to the provided slog.Logger.
// If logger is nil, returns a no-op handler that discards all events.
func DefaultEventHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		return func(Event) {}
	}
	return func(e Event) {
		switch e.Type {
		case EventError:
			logger.Error(e.Message, e.Args...)
		case EventWarning:
			logger.Warn(e.Message, e.Args...)
		case EventInfo:
			logger.Info(e.Message, e.Args...)
		case EventDebug:
			logger.Debug(e.Message, e.Args...)
		}
	}
}

func (m *Masker) emit(t EventType, msg string, args ...any) {
	if m.eventHandler != nil {
		m.eventHandler(Event{Type: t, Message: msg, Args: args})
	}
}

func (m *Masker) emitError(msg string, args ...any) { m.emit(EventError, msg, args...) }

func (m *Masker) emitWarning(msg string, args ...any) { m.emit(EventWarning, msg, args...) }

func (m *Masker) emitInfo(msg string, args ...any) { m.emit(EventInfo, msg, args...) }

func (m *Masker) emitDebug(msg string, args ...any) { m.emit(EventDebug, msg, args...) }
