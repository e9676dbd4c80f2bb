// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/orgctl/internal/config"
	"github.com/tfctl/orgctl/internal/log"
	"github.com/tfctl/orgctl/internal/meta"
	"github.com/tfctl/orgctl/internal/orgs"
)

var policyDefaultAttrs = []string{
	"policy_summary.id:id",
	"policy_summary.name:name",
	"policy_summary.type:type",
	"policy_summary.aws_managed:aws_managed",
}

// policyApplyAction reconciles one policy to present.
func policyApplyAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	al, err := BuildAttrs(cmd, policyDefaultAttrs...)
	if err != nil {
		return err
	}

	content, err := readContent(cmd)
	if err != nil {
		return err
	}

	desired := orgs.DesiredPolicy{
		State:       orgs.StatePresent,
		ID:          cmd.String("id"),
		Name:        cmd.String("name"),
		Type:        cmd.String("type"),
		Description: cmd.String("description"),
		Content:     content,
		PurgeTags:   cmd.Bool("purge-tags"),
	}
	desired.Tags, err = desiredTags(cmd)
	if err != nil {
		return err
	}
	if cmd.Bool("clear-tags") {
		desired.PurgeTags = true
	}

	api, err := newClient(ctx, cmd)
	if err != nil {
		return err
	}

	policies := orgs.NewPolicies(api, orgs.Config{DryRun: cmd.Bool("dry-run")}, &orgs.Warnings{})
	res, err := policies.Reconcile(ctx, desired)
	if err != nil {
		return err
	}

	return EmitResult(cmd, res, al)
}

// desiredTags returns the tag set to enforce, or nil to leave tags alone.
// Tags from the config file are overlaid by --tag; --clear-tags asks for
// none at all.
func desiredTags(cmd *cli.Command) (map[string]string, error) {
	if cmd.Bool("clear-tags") {
		if len(cmd.StringSlice("tag")) > 0 {
			return nil, errors.New("--clear-tags cannot be combined with --tag")
		}
		return map[string]string{}, nil
	}

	tags, err := config.GetStringMap("tags")
	if err != nil {
		log.Debugf("no config tags: %v", err)
		tags = nil
	}

	flagTags := parseTags(cmd.StringSlice("tag"))
	if len(tags) == 0 && len(flagTags) == 0 {
		return nil, nil
	}
	if tags == nil {
		tags = map[string]string{}
	}
	maps.Copy(tags, flagTags)
	return tags, nil
}

// policyDeleteAction reconciles one policy to absent.
func policyDeleteAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	al, err := BuildAttrs(cmd, policyDefaultAttrs...)
	if err != nil {
		return err
	}

	api, err := newClient(ctx, cmd)
	if err != nil {
		return err
	}

	cfg := orgs.Config{
		DryRun:                   cmd.Bool("dry-run"),
		TolerateTargetListDenied: cmd.Bool("tolerate-denied-targets"),
	}
	policies := orgs.NewPolicies(api, cfg, &orgs.Warnings{})
	res, err := policies.Reconcile(ctx, orgs.DesiredPolicy{
		State:       orgs.StateAbsent,
		ID:          cmd.String("id"),
		Name:        cmd.String("name"),
		Type:        cmd.String("type"),
		ForceDelete: cmd.Bool("force"),
	})
	if err != nil {
		return err
	}

	return EmitResult(cmd, res, al)
}

// policyInfoAction describes policies by id, or every policy of a type.
func policyInfoAction(ctx context.Context, cmd *cli.Command) error {
	m := GetMeta(cmd)
	log.Debugf("Executing action for %v", m.Args[1:])

	if DumpSchemaIfRequested(cmd, reflect.TypeOf(orgs.Policy{})) {
		return nil
	}

	ids := cmd.StringSlice("id")
	if len(ids) > 0 && cmd.String("type") != "" {
		return errors.New("--id and --type are mutually exclusive")
	}

	defaults := policyDefaultAttrs
	if cmd.Bool("targets") {
		defaults = append(slices.Clone(defaults), "targets[*].target_id:targets")
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
	policies := orgs.NewPolicies(api, orgs.Config{}, warn)

	if len(ids) == 0 {
		pt, err := orgs.ParsePolicyType(cmd.String("type"))
		if err != nil {
			return err
		}
		if ids, err = policies.ListPolicies(ctx, pt); err != nil {
			return err
		}
	}

	results, err := policies.DescribePolicies(ctx, ids, orgs.DescribeOptions{FetchTargets: cmd.Bool("targets")})
	if err != nil {
		return err
	}

	if err := EmitEntities(cmd, results, al); err != nil {
		return err
	}
	emitWarnings(cmd, warn.List())
	return nil
}

// emitWarnings writes warnings of a read-only command to the error stream.
func emitWarnings(cmd *cli.Command, warnings []string) {
	w := cmd.Root().ErrWriter
	if w == nil {
		return
	}
	for _, warning := range warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}

func policySelectorFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "id",
			Usage: "policy id, e.g. p-examplepolicyid111",
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "policy name",
		},
		&cli.StringFlag{
			Name:  "type",
			Usage: "policy type (" + strings.Join(orgs.PolicyTypeChoices(), "|") + ")",
			Validator: func(value string) error {
				return FlagValidators(value, PolicyTypeValidator)
			},
		},
	}
}

// policyCommandBuilder constructs the "policy" command group.
func policyCommandBuilder(m meta.Meta) *cli.Command {
	apply := (&CommandBuilder{
		Name:      "apply",
		Usage:     "create or update a policy",
		UsageText: "orgctl policy apply --name NAME --content @policy.json [options]",
		Namespace: "policy.apply",
		Mutating:  true,
		Meta:      m,
		Action:    policyApplyAction,
		Flags: append(policySelectorFlags(),
			&cli.StringFlag{
				Name:  "description",
				Usage: "policy description",
			},
			&cli.StringFlag{
				Name:  "content",
				Usage: "policy document, inline JSON or @file (@- for stdin)",
			},
			&cli.StringSliceFlag{
				Name:  "tag",
				Usage: "tag to enforce as key=value, repeatable",
				Validator: func(value []string) error {
					return FlagValidators(value, TagValidator)
				},
			},
			&cli.BoolFlag{
				Name:    "purge-tags",
				Usage:   "remove tags that are not given",
				Value:   true,
				Sources: configSources("policy.apply", "purge-tags"),
			},
			&cli.BoolFlag{
				Name:  "clear-tags",
				Usage: "remove every tag from the policy",
			},
		),
	}).Build()

	del := (&CommandBuilder{
		Name:      "delete",
		Usage:     "delete a policy",
		UsageText: "orgctl policy delete --id ID [--force] [options]",
		Namespace: "policy.delete",
		Mutating:  true,
		Meta:      m,
		Action:    policyDeleteAction,
		Flags: append(policySelectorFlags(),
			&cli.BoolFlag{
				Name:  "force",
				Usage: "detach the policy from its targets before deleting",
			},
			&cli.BoolFlag{
				Name:    "tolerate-denied-targets",
				Usage:   "delete even when the policy's targets cannot be listed",
				Sources: configSources("policy.delete", "tolerate-denied-targets"),
			},
		),
	}).Build()

	info := (&CommandBuilder{
		Name:      "info",
		Usage:     "describe policies",
		UsageText: "orgctl policy info [--id ID]... [--type TYPE] [options]",
		Namespace: "policy.info",
		Schema:    true,
		Meta:      m,
		Action:    policyInfoAction,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "id",
				Usage: "policy id, repeatable",
			},
			&cli.StringFlag{
				Name:  "type",
				Usage: "list every policy of this type (" + strings.Join(orgs.PolicyTypeChoices(), "|") + ")",
				Validator: func(value string) error {
					return FlagValidators(value, PolicyTypeValidator)
				},
			},
			&cli.BoolFlag{
				Name:    "targets",
				Usage:   "include the targets each policy is attached to",
				Sources: configSources("policy.info", "targets"),
			},
		},
	}).Build()

	return &cli.Command{
		Name:     "policy",
		Usage:    "manage organization policies",
		Commands: []*cli.Command{apply, del, info},
	}
}
