// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/orgctl/internal/meta"
)

// CommandBuilder constructs a leaf cli.Command using a consistent pattern.
// It wires metadata, the AWS and output flags, optional --schema and
// mutation flags, and maps failures through Friendly.
type CommandBuilder struct {
	Name      string
	Usage     string
	UsageText string
	// Namespace is the config keyspace of the command, e.g. policy.apply.
	Namespace string
	Flags     []cli.Flag
	Schema    bool
	Mutating  bool
	Action    func(context.Context, *cli.Command) error
	Meta      meta.Meta
}

// Build returns a configured cli.Command from the builder.
func (cb *CommandBuilder) Build() *cli.Command {
	flags := append([]cli.Flag{}, cb.Flags...)
	flags = append(flags, NewAWSFlags(cb.Namespace)...)
	flags = append(flags, NewGlobalFlags(cb.Namespace)...)
	if cb.Schema {
		flags = append(flags, newSchemaFlag())
	}
	if cb.Mutating {
		flags = append(flags,
			NewDryRunFlag(cb.Namespace),
			&cli.BoolFlag{
				Name:  "diff",
				Usage: "show the policy content diff",
			},
		)
	}

	operation := strings.ReplaceAll(cb.Namespace, ".", " ")
	return &cli.Command{
		Name:      cb.Name,
		Usage:     cb.Usage,
		UsageText: cb.UsageText,
		Metadata: map[string]any{
			"meta": cb.Meta,
		},
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			err := cb.Action(ctx, cmd)
			return Friendly(err, ErrorContext{
				Operation: operation,
				Profile:   cmd.String("profile"),
				Region:    cmd.String("region"),
			})
		},
	}
}
