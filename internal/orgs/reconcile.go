// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package orgs

import (
	"context"
	"fmt"
	"strings"

	"github.com/tfctl/orgctl/internal/differ"
	"github.com/tfctl/orgctl/internal/log"
)

// State is the desired existence of a policy.
type State string

const (
	StatePresent State = "present"
	StateAbsent  State = "absent"
)

// DesiredPolicy is the full desired-state description handed to Reconcile.
// ID selects the policy when set; otherwise Name does, filtered by Type.
type DesiredPolicy struct {
	State       State
	ID          string
	Name        string
	Type        string
	Description string
	Content     string
	// Tags are left alone when nil. An empty non-nil map with PurgeTags
	// removes every tag.
	Tags        map[string]string
	PurgeTags   bool
	ForceDelete bool
}

// Result reports the outcome of a reconciliation.
type Result struct {
	Changed     bool
	Policies    []*Policy
	ContentDiff string
	Warnings    []string
}

// validate checks d before any network call and resolves its policy type.
func (d DesiredPolicy) validate() (PolicyType, error) {
	switch d.State {
	case "", StatePresent, StateAbsent:
	default:
		return "", invalid("state", "state must be %q or %q, got %q", StatePresent, StateAbsent, d.State)
	}
	if d.ID == "" && d.Name == "" {
		return "", invalid("id", "one of id or name is required")
	}
	if d.ID != "" && d.Type != "" {
		return "", invalid("policy_type", "policy type cannot be combined with an explicit id")
	}
	pt, err := ParsePolicyType(d.Type)
	if err != nil {
		return "", err
	}
	if d.Content != "" {
		if _, err := differ.Parse(d.Content); err != nil {
			return "", invalid("content", "policy content is not a JSON object: %v", err)
		}
	}
	return pt, nil
}

// Reconcile drives one policy to the desired state and describes the result.
func (p *Policies) Reconcile(ctx context.Context, d DesiredPolicy) (Result, error) {
	var res Result

	pt, err := d.validate()
	if err != nil {
		return res, err
	}

	ids, err := p.resolve(ctx, d, pt)
	if err != nil {
		return res, err
	}
	log.Debugf("reconcile: state=%s ids=%v dryRun=%v", d.State, ids, p.cfg.DryRun)

	if d.State == StateAbsent {
		res.Changed, err = p.DeletePolicies(ctx, ids, d.ForceDelete)
		res.Warnings = p.Warnings()
		return res, err
	}

	if len(ids) > 0 {
		changed, diff, err := p.updatePolicy(ctx, ids[0], PolicyUpdate{
			Name:        d.Name,
			Description: d.Description,
			Content:     d.Content,
		})
		if err != nil {
			return res, err
		}
		tagsChanged, err := p.ReconcileTags(ctx, ids[0], d.Tags, d.PurgeTags)
		if err != nil {
			return res, err
		}
		res.Changed = changed || tagsChanged
		res.ContentDiff = diff
	} else {
		id, err := p.CreatePolicy(ctx, PolicySpec{
			Name:        d.Name,
			Type:        pt,
			Description: d.Description,
			Content:     d.Content,
			Tags:        d.Tags,
		})
		if err != nil {
			return res, err
		}
		res.Changed = true
		ids = nil
		if id != "" {
			ids = []string{id}
		}
	}

	res.Policies, err = p.DescribePolicies(ctx, ids, DescribeOptions{})
	res.Warnings = p.Warnings()
	return res, err
}

// resolve maps the selector in d to policy ids. An id is taken as given; a
// name must match at most one policy of type pt.
func (p *Policies) resolve(ctx context.Context, d DesiredPolicy, pt PolicyType) ([]string, error) {
	if d.ID != "" {
		return []string{d.ID}, nil
	}

	ids, err := p.FindPolicyByName(ctx, d.Name, pt)
	if err != nil {
		return nil, err
	}
	if len(ids) > 1 {
		return nil, &Error{
			Op:      "find policy",
			ID:      d.Name,
			Kind:    KindAmbiguous,
			Reason:  fmt.Sprintf("multiple policies found (%s), use an id to choose one", strings.Join(ids, ", ")),
			Matches: ids,
		}
	}
	return ids, nil
}
