// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"github.com/urfave/cli/v3"
)

// Formats accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatRaw  = "raw"
)

// Formats lists the values accepted by --output.
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatRaw}

// Options controls how a result set is shaped and rendered.
type Options struct {
	Output  string
	Filter  string
	Sort    string
	Titles  bool
	Color   bool
	Padding int
	Header  string
	Footer  string
}

// OptionsFromCommand reads the common output flags from cmd. Header and footer
// come from the command's Metadata.
func OptionsFromCommand(cmd *cli.Command) Options {
	opts := Options{
		Output:  cmd.String("output"),
		Filter:  cmd.String("filter"),
		Sort:    cmd.String("sort"),
		Titles:  cmd.Bool("titles"),
		Color:   cmd.Bool("color"),
		Padding: int(cmd.Int("padding")),
	}
	if h, ok := cmd.Metadata["header"].(string); ok {
		opts.Header = h
	}
	if f, ok := cmd.Metadata["footer"].(string); ok {
		opts.Footer = f
	}
	if opts.Output == "" {
		opts.Output = FormatText
	}
	return opts
}
