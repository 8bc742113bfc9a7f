// Copyright 2024 The lawe Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/lorearchive/lawe"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func (a *app) renderCommand() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render markup as HTML",
		Long: `Render reads markup from a file, or standard input if none is given,
and writes the HTML to standard output.
Malformed blocks are dropped with a warning unless --strict is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			tokens, err := lawe.NewLexer().Tokenise(text)
			if err != nil {
				return err
			}
			p := &lawe.Parser{Logger: &a.log}
			doc := p.Parse(tokens)
			if errs := p.Errors(); strict && len(errs) > 0 {
				return fmt.Errorf("%w: %w", errParse, errors.Join(errs...))
			}
			out := cmd.OutOrStdout()
			if err := a.cfg.Renderer(&a.log).Render(out, doc); err != nil {
				return err
			}
			_, err = io.WriteString(out, "\n")
			return err
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on malformed blocks")
	cmd.Flags().String("image-base", "", "base URL for relative image paths")
	return cmd
}

func (a *app) tokensCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the tokens of markup",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			tokens, err := lawe.NewLexer().Tokenise(text)
			if err != nil {
				return err
			}
			return writeTokens(cmd.OutOrStdout(), format, tokens)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json, yaml)")
	return cmd
}

func writeTokens(w io.Writer, format string, tokens []lawe.Token) error {
	switch format {
	case "text":
		for _, tok := range tokens {
			if _, err := fmt.Fprintln(w, tok); err != nil {
				return err
			}
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(tokens)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tokens); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
