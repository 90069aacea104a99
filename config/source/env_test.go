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

package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

type OSEnvVarTestSuite struct {
	suite.Suite
}

func TestOSEnvVarTestSuite(t *testing.T) {
	suite.Run(t, new(OSEnvVarTestSuite))
}

func (s *OSEnvVarTestSuite) TestLoad_Prefix() {
	s.T().Setenv("URLMASK_TEST_MASKED_TAGS", "token,sig")
	s.T().Setenv("URLMASK_TEST_MASKED_MERGE", "replace")
	s.T().Setenv("URLMASK_OTHER_MASKED_TAGS", "skip")

	conf, err := NewOSEnvVar("URLMASK_TEST_").Load(context.Background())
	s.Require().NoError(err)

	masked, ok := conf["masked"].(map[string]any)
	s.Require().True(ok)
	s.Equal("token,sig", masked["tags"])
	s.Equal("replace", masked["merge"])
	s.Len(conf, 1)
}

func (s *OSEnvVarTestSuite) TestLoad_NoMatches() {
	conf, err := NewOSEnvVar("URLMASK_NOTHING_SET_HERE_").Load(context.Background())
	s.Require().NoError(err)
	s.Empty(conf)
}

func (s *OSEnvVarTestSuite) TestLoad_EmptyValue() {
	s.T().Setenv("URLMASK_EMPTY_MASKED_TAGS", "")

	conf, err := NewOSEnvVar("URLMASK_EMPTY_").Load(context.Background())
	s.Require().NoError(err)

	masked, ok := conf["masked"].(map[string]any)
	s.Require().True(ok)
	s.Empty(masked["tags"])
}

type MapTestSuite struct {
	suite.Suite
}

func TestMapTestSuite(t *testing.T) {
	suite.Run(t, new(MapTestSuite))
}

func (s *MapTestSuite) TestLoad_StripsPrefix() {
	src := NewMap("APP_", map[string]string{
		"APP_MASKED_TAGS":     "token",
		"APP_MASKED_PATTERNS": "a=(b)",
		"OTHER_MASKED_TAGS":   "skip",
	})

	conf, err := src.Load(context.Background())
	s.Require().NoError(err)

	masked, ok := conf["masked"].(map[string]any)
	s.Require().True(ok)
	s.Equal("token", masked["tags"])
	s.Equal("a=(b)", masked["patterns"])
}

func (s *MapTestSuite) TestLoad_CopiesEntries() {
	entries := map[string]string{"MASKED_TAGS": "token"}
	src := NewMap("", entries)
	entries["MASKED_TAGS"] = "changed"

	conf, err := src.Load(context.Background())
	s.Require().NoError(err)

	masked, ok := conf["masked"].(map[string]any)
	s.Require().True(ok)
	s.Equal("token", masked["tags"])
}

func (s *MapTestSuite) TestLoad_Nil() {
	conf, err := NewMap("", nil).Load(context.Background())
	s.Require().NoError(err)
	s.Empty(conf)
}

type LookupTestSuite struct {
	suite.Suite
}

func TestLookupTestSuite(t *testing.T) {
	suite.Run(t, new(LookupTestSuite))
}

func (s *LookupTestSuite) TestLoad_OnlyKnownNames() {
	vars := map[string]string{
		"P_MASKED_TAGS":  "token",
		"P_MASKED_OTHER": "ignored",
	}
	lookup := func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}

	conf, err := NewLookup("P_", []string{"MASKED_TAGS", "MASKED_MERGE"}, lookup).Load(context.Background())
	s.Require().NoError(err)

	masked, ok := conf["masked"].(map[string]any)
	s.Require().True(ok)
	s.Equal(map[string]any{"tags": "token"}, masked)
}

func (s *LookupTestSuite) TestLoad_DefaultsToEnvironment() {
	s.T().Setenv("URLMASK_LOOKUP_MASKED_MERGE", "extend")

	conf, err := NewLookup("URLMASK_LOOKUP_", []string{"MASKED_MERGE"}, nil).Load(context.Background())
	s.Require().NoError(err)

	masked, ok := conf["masked"].(map[string]any)
	s.Require().True(ok)
	s.Equal("extend", masked["merge"])
}
