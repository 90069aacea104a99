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

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blas/urlmask/config"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective masking configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := opts.processor(cmd)
			if err != nil {
				return err
			}
			m := p.Masker()

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "merge mode:     %s\n", m.MergeMode())
			_, _ = fmt.Fprintf(out, "sensitive keys: %s\n", strings.Join(m.SensitiveKeys(), ", "))
			_, _ = fmt.Fprintf(out, "attributes:     %s\n", strings.Join(p.AttributeKeys(), ", "))
			_, _ = fmt.Fprintln(out, "patterns:")
			for _, pat := range m.Patterns() {
				_, _ = fmt.Fprintf(out, "  %s\n", pat)
			}
			_, _ = fmt.Fprintln(out, "environment:")
			for _, name := range config.EnvNames() {
				_, err = fmt.Fprintf(out, "  %s%s\n", config.EnvPrefix, name)
			}
			return err
		},
	}
}
