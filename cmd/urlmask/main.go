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

// Package main implements the urlmask command line interface.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blas/urlmask/config"
	"github.com/blas/urlmask/logging"
	"github.com/blas/urlmask/masking"
	"github.com/blas/urlmask/spanprocessor"
)

var (
	// Version is set at build time.
	Version = "dev"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	keys     []string
	patterns []string
	merge    string
	noEnv    bool
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "urlmask",
		Short:         "urlmask redacts secrets in URLs the way the span processor does",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringSliceVar(&opts.keys, "keys", nil, "extra sensitive query keys (comma separated)")
	flags.StringArrayVar(&opts.patterns, "pattern", nil, "extra sensitive pattern; may be repeated")
	flags.StringVar(&opts.merge, "merge", "", `how --keys combine with the defaults: "extend" or "replace"`)
	flags.BoolVar(&opts.noEnv, "no-env", false, "ignore "+config.EnvPrefix+"* variables")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log masking events to stderr")

	rootCmd.AddCommand(
		newMaskCmd(opts),
		newConfigCmd(opts),
		newDemoCmd(opts),
		newVersionCmd(),
	)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of urlmask",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "urlmask version %s\n", Version)
			return err
		},
	}
}

// settings returns the environment settings with the flags applied on top.
func (o *rootOptions) settings(ctx context.Context) (config.Settings, error) {
	var s config.Settings
	if !o.noEnv {
		loaded, err := config.Load(ctx)
		if err != nil {
			return config.Settings{}, fmt.Errorf("configuration load failed: %w", err)
		}
		s = loaded
	}

	s.Masked.Tags = append(s.Masked.Tags, o.keys...)
	s.Masked.Patterns = append(s.Masked.Patterns, o.patterns...)
	if o.merge != "" {
		s.Masked.Merge = o.merge
	}
	return s, nil
}

// logger returns a console logger on stderr, or nil when not verbose.
func (o *rootOptions) logger(cmd *cobra.Command) *logging.Logger {
	if !o.verbose {
		return nil
	}
	return logging.MustNew(
		logging.WithConsoleHandler(),
		logging.WithOutput(cmd.ErrOrStderr()),
		logging.WithDebugLevel(),
	)
}

func (o *rootOptions) masker(cmd *cobra.Command) (*masking.Masker, error) {
	s, err := o.settings(commandContext(cmd))
	if err != nil {
		return nil, err
	}

	var opts []masking.Option
	if l := o.logger(cmd); l != nil {
		opts = append(opts, masking.WithEventHandler(l.EventHandler()))
	}
	return masking.FromSettings(s.Masked, opts...)
}

func (o *rootOptions) processor(cmd *cobra.Command, extra ...spanprocessor.Option) (*spanprocessor.Processor, error) {
	s, err := o.settings(commandContext(cmd))
	if err != nil {
		return nil, err
	}

	var opts []spanprocessor.Option
	if l := o.logger(cmd); l != nil {
		opts = append(opts, spanprocessor.WithLogger(l.Logger()))
	}
	return spanprocessor.NewFromSettings(s, append(opts, extra...)...)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
