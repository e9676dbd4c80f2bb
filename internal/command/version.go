// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/orgctl/internal/meta"
	"github.com/tfctl/orgctl/internal/version"
)

func versionCommandBuilder(m meta.Meta) *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "print version information",
		Metadata: map[string]any{
			"meta": m,
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			_, err := fmt.Fprintln(writer(cmd), version.String())
			return err
		},
	}
}
