// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/orgctl/internal/config"
	"github.com/tfctl/orgctl/internal/log"
	"github.com/tfctl/orgctl/internal/meta"
)

// InitApp builds the orgctl command tree for args using the real
// Organizations client.
func InitApp(ctx context.Context, args []string) (*cli.Command, error) {
	return NewApp(meta.Meta{
		Args:      args,
		Context:   ctx,
		NewClient: NewOrganizationsClient,
	})
}

// NewApp builds the command tree around m. The config namespace is derived
// from the command path in m.Args, so "orgctl policy apply" prefers
// policy.apply.* keys, then policy.*, then top-level keys.
func NewApp(m meta.Meta) (*cli.Command, error) {
	m.Namespace = Namespace(m.Args)
	config.Config.Namespace = m.Namespace
	if m.Config.Source == "" {
		m.Config = config.Config
	}
	if m.NewClient == nil {
		m.NewClient = NewOrganizationsClient
	}
	log.Debugf("app init: namespace=%s config=%s", m.Namespace, m.Config.Source)

	app := &cli.Command{
		Name:  "orgctl",
		Usage: "AWS Organizations policy and OU control",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "version",
				Aliases:     []string{"v"},
				Usage:       "orgctl version info",
				HideDefault: true,
			},
		},
	}

	app.Commands = append(app.Commands,
		policyCommandBuilder(m),
		ouCommandBuilder(m),
		versionCommandBuilder(m),
		completionCommandBuilder(m),
	)

	// Make sure flags are sorted for the --help text.
	sortFlags(app.Commands)

	return app, nil
}

// Namespace returns the config namespace for args: the dotted command path
// up to the first flag, such as "policy.apply".
func Namespace(args []string) string {
	var path []string
	for _, a := range args[min(1, len(args)):] {
		if strings.HasPrefix(a, "-") || strings.HasPrefix(a, "@") || len(path) == 2 {
			break
		}
		path = append(path, a)
	}
	return strings.Join(path, ".")
}

func sortFlags(cmds []*cli.Command) {
	for _, cmd := range cmds {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
		sortFlags(cmd.Commands)
	}
}
