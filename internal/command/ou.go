// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"reflect"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/orgctl/internal/log"
	"github.com/tfctl/orgctl/internal/meta"
	"github.com/tfctl/orgctl/internal/orgs"
)

// ouInfoAction describes one OU by id or the OUs under a parent.
func ouInfoAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if DumpSchemaIfRequested(cmd, reflect.TypeOf(orgs.OrganizationalUnit{})) {
		return nil
	}

	id := cmd.String("id")
	if id != "" && cmd.String("parent") != "" {
		return errors.New("--id and --parent are mutually exclusive")
	}

	// A single OU reports its attachments unless told otherwise; a subtree
	// only when asked.
	attachments := id != ""
	if cmd.IsSet("attachments") {
		attachments = cmd.Bool("attachments")
	}

	defaults := []string{"id", "name", "arn"}
	if attachments {
		defaults = append(defaults, "parents", "child_ous", "attached_policies[*].id:policies")
	}
	al, err := BuildAttrs(cmd, defaults...)
	if err != nil {
		return err
	}

	api, err := newClient(ctx, cmd)
	if err != nil {
		return err
	}

	warn := &orgs.Warnings{}
	ous := orgs.NewOrgUnits(api, orgs.Config{}, warn)
	opts := orgs.DescribeOptions{FetchAttachments: attachments}

	var results []*orgs.OrganizationalUnit
	if id != "" {
		ou, err := ous.DescribeOU(ctx, id, opts)
		if err != nil {
			return err
		}
		if ou != nil {
			results = append(results, ou)
		}
	} else {
		results, err = ous.DescribeOUs(ctx, orgs.ListOUsOptions{
			ParentID: cmd.String("parent"),
			Recurse:  cmd.Bool("recurse"),
			MaxDepth: int(cmd.Int("max-depth")),
		}, opts)
		if err != nil {
			return err
		}
	}

	if err := EmitEntities(cmd, results, al); err != nil {
		return err
	}
	emitWarnings(cmd, warn.List())
	return nil
}

// ouRootsAction lists the organization's roots.
func ouRootsAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	al, err := BuildAttrs(cmd, "id", "name", "policy_types[*].type:policy_types")
	if err != nil {
		return err
	}

	api, err := newClient(ctx, cmd)
	if err != nil {
		return err
	}

	roots, err := orgs.NewOrgUnits(api, orgs.Config{}, nil).ListRoots(ctx)
	if err != nil {
		return err
	}
	return EmitEntities(cmd, roots, al)
}

// ouCommandBuilder constructs the "ou" command group.
func ouCommandBuilder(m meta.Meta) *cli.Command {
	info := (&CommandBuilder{
		Name:      "info",
		Usage:     "describe organizational units",
		UsageText: "orgctl ou info [--id ID | --parent ID [--recurse]] [options]",
		Namespace: "ou.info",
		Schema:    true,
		Meta:      m,
		Action:    ouInfoAction,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "id",
				Usage: "OU id, e.g. ou-ab12-cdefgh34",
			},
			&cli.StringFlag{
				Name:  "parent",
				Usage: "list the OUs under this root or OU, default the only root",
			},
			&cli.BoolFlag{
				Name:    "recurse",
				Aliases: []string{"R"},
				Usage:   "descend into child OUs",
				Sources: configSources("ou.info", "recurse"),
			},
			&cli.IntFlag{
				Name:    "max-depth",
				Usage:   "levels to return when recursing",
				Value:   orgs.DefaultMaxDepth,
				Sources: configSources("ou.info", "max-depth"),
			},
			&cli.BoolFlag{
				Name:  "attachments",
				Usage: "include attached policies, default on with --id",
			},
		},
	}).Build()

	roots := (&CommandBuilder{
		Name:      "roots",
		Usage:     "list the organization roots",
		UsageText: "orgctl ou roots [options]",
		Namespace: "ou.roots",
		Meta:      m,
		Action:    ouRootsAction,
	}).Build()

	return &cli.Command{
		Name:     "ou",
		Usage:    "report on organizational units",
		Commands: []*cli.Command{info, roots},
	}
}
