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

// Package codec decodes raw configuration text into nested maps.
//
// The only format needed here is the environment variable format: one
// NAME=value pair per line, where underscores in NAME introduce nesting.
//
//	MASKED_TAGS=token,sig     -> masked.tags = "token,sig"
//	MASKED_MERGE=replace      -> masked.merge = "replace"
package codec
