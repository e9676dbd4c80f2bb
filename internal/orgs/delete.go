// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package orgs

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"

	"github.com/tfctl/orgctl/internal/log"
)

// DeletePolicy removes policy id. A policy still attached to targets is only
// detached and deleted when force is set; otherwise the call fails listing
// the blocking targets. It reports true iff a detach or the delete ran (or
// would run, in dry-run).
func (p *Policies) DeletePolicy(ctx context.Context, id string, force bool) (bool, error) {
	if id == "" {
		return false, nil
	}

	targets, err := p.listTargets(ctx, id)
	switch {
	case err == nil:
	case IsKind(err, KindNotFound):
		p.warn.Warnf("attempted to delete a non-existent policy %s", id)
		return false, nil
	case IsKind(err, KindAccessDenied) && p.cfg.TolerateTargetListDenied:
		p.warn.Warnf("access denied fetching targets for policy %s, assuming none", id)
		targets = nil
	default:
		return false, fail("list targets for policy", id, err)
	}

	changed := false

	if len(targets) > 0 {
		if !force {
			return false, &Error{
				Op:      "delete policy",
				ID:      id,
				Kind:    KindPrecondition,
				Reason:  fmt.Sprintf("still attached to %s", strings.Join(targetIDs(targets), ", ")),
				Targets: targets,
			}
		}

		if p.cfg.DryRun {
			return true, nil
		}

		for _, t := range targets {
			targetID := aws.ToString(t.TargetId)
			_, err := p.api.DetachPolicy(ctx, &organizations.DetachPolicyInput{
				PolicyId: aws.String(id),
				TargetId: aws.String(targetID),
			})
			switch {
			case err == nil:
				changed = true
				log.Debugf("policy detached: id=%s target=%s", id, targetID)
			case IsKind(err, KindNotAttached):
				log.Debugf("policy already detached: id=%s target=%s", id, targetID)
			default:
				return changed, &Error{
					Op:     "detach policy",
					ID:     id,
					Kind:   Classify(err),
					Reason: "from target " + targetID,
					Err:    err,
				}
			}
		}
	}

	if p.cfg.DryRun {
		return true, nil
	}

	_, err = p.api.DeletePolicy(ctx, &organizations.DeletePolicyInput{PolicyId: aws.String(id)})
	switch {
	case err == nil:
		changed = true
		log.Debugf("policy deleted: id=%s", id)
	case IsKind(err, KindNotFound):
		log.Debugf("policy already deleted: id=%s", id)
	default:
		return changed, fail("delete policy", id, err)
	}

	return changed, nil
}

// DeletePolicies deletes each policy in order and stops at the first failure.
func (p *Policies) DeletePolicies(ctx context.Context, ids []string, force bool) (bool, error) {
	changed := false
	for _, id := range ids {
		c, err := p.DeletePolicy(ctx, id, force)
		changed = changed || c
		if err != nil {
			return changed, err
		}
	}
	return changed, nil
}
