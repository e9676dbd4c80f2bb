// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/tfctl/orgctl/internal/orgs"
)

// ErrorContext carries the invocation details used to explain a failure.
type ErrorContext struct {
	Operation string
	Profile   string
	Region    string
}

// Friendly rewrites well-known failures into actionable text. Unknown errors
// are wrapped with the operation and returned.
func Friendly(err error, ctx ErrorContext) error {
	if err == nil {
		return nil
	}

	op := nonEmpty(ctx.Operation, "request")

	var oe *orgs.Error
	if !errors.As(err, &oe) {
		return fmt.Errorf("%s: %w", op, err)
	}

	subject := strings.TrimSpace(oe.Op + " " + oe.ID)

	switch oe.Kind {
	case orgs.KindAccessDenied:
		return fmt.Errorf("%s: access denied for %s (profile %q, region %q). "+
			"Organizations calls must use the management account or a delegated administrator: %w",
			op, subject, nonEmpty(ctx.Profile, "<default>"), nonEmpty(ctx.Region, "<default>"), err)

	case orgs.KindNotFound:
		return fmt.Errorf("%s: %s not found: %w", op, nonEmpty(oe.ID, "entity"), err)

	case orgs.KindPrecondition:
		if len(oe.Targets) > 0 {
			var ids []string
			for _, t := range oe.Targets {
				ids = append(ids, aws.ToString(t.TargetId))
			}
			return fmt.Errorf("%s: policy %s is attached to %s. Use --force to detach it first",
				op, oe.ID, strings.Join(ids, ", "))
		}

	case orgs.KindAmbiguous:
		if len(oe.Matches) > 0 {
			return fmt.Errorf("%s: name %q matches %s. Use --id to choose one",
				op, oe.ID, strings.Join(oe.Matches, ", "))
		}
		if len(oe.Roots) > 0 {
			var ids []string
			for _, r := range oe.Roots {
				ids = append(ids, aws.ToString(r.Id))
			}
			return fmt.Errorf("%s: the organization has %d roots (%s). Use --parent to choose one",
				op, len(oe.Roots), strings.Join(ids, ", "))
		}

	case orgs.KindConflict:
		return fmt.Errorf("%s: %s conflicts with a concurrent change, try again: %w", op, subject, err)

	case orgs.KindValidation:
		return fmt.Errorf("%s: invalid %s: %s", op, nonEmpty(oe.ID, "input"), nonEmpty(oe.Reason, errString(oe.Err)))
	}

	return fmt.Errorf("%s: %w", op, err)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
