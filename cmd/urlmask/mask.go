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
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

var errUnparsable = errors.New("some URLs could not be masked")

func newMaskCmd(opts *rootOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "mask [url...]",
		Short: "Mask URLs given as arguments or read line by line from stdin",
		Example: `  urlmask mask 'https://api.example.com/?apiKey=abc'
  cat urls.txt | urlmask mask --keys token,sig`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.masker(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			maskOne := func(raw string) error {
				masked, err := m.MaskURL(raw)
				if err != nil {
					failed++
					if strict {
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
					}
				}
				_, werr := fmt.Fprintln(out, masked)
				return werr
			}

			if len(args) > 0 {
				for _, raw := range args {
					if err := maskOne(raw); err != nil {
						return err
					}
				}
			} else if err := maskLines(cmd.InOrStdin(), maskOne); err != nil {
				return err
			}

			if strict && failed > 0 {
				return fmt.Errorf("%w: %d", errUnparsable, failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "report URLs that cannot be parsed and exit non-zero")

	return cmd
}

// maskLines calls fn for every line of r.
func maskLines(r io.Reader, fn func(string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if err := fn(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}
