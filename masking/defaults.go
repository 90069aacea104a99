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

import "slices"

// TelegramBotPattern matches Telegram Bot API URLs. Group 1 is the bot id,
// group 2 the token.
const TelegramBotPattern = `https://api\.telegram\.org/bot([a-zA-Z0-9_-]+):([a-zA-Z0-9_-]+)`

var (
	defaultSensitiveKeys = []string{
		"apiKey",
		"pass",
		"password",
		"key",
		"user",
		"username",
		"secret",
	}

	defaultSensitivePatterns = []string{
		TelegramBotPattern,
	}
)

// DefaultSensitiveKeys returns a copy of the built-in sensitive query keys.
func DefaultSensitiveKeys() []string {
	return slices.Clone(defaultSensitiveKeys)
}

// DefaultSensitivePatterns returns a copy of the built-in sensitive patterns.
func DefaultSensitivePatterns() []string {
	return slices.Clone(defaultSensitivePatterns)
}
