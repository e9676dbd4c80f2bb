// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package orgs

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/organizations/types"

	"github.com/tfctl/orgctl/internal/differ"
	"github.com/tfctl/orgctl/internal/log"
)

// Policy is the merged view of one policy. Targets is nil unless targets
// were requested.
type Policy struct {
	Content       string
	PolicySummary *types.PolicySummary
	Tags          map[string]string
	Targets       []types.PolicyTargetSummary
}

// ID returns the policy identifier.
func (p *Policy) ID() string {
	if p == nil || p.PolicySummary == nil {
		return ""
	}
	return aws.ToString(p.PolicySummary.Id)
}

// PolicyUpdate holds the desired attributes of an existing policy. Empty
// fields are left untouched.
type PolicyUpdate struct {
	Name        string
	Description string
	Content     string
}

// Policies manages Organizations policies.
type Policies struct {
	base
}

// NewPolicies returns a policy manager. warn may be nil.
func NewPolicies(api API, cfg Config, warn *Warnings) *Policies {
	return &Policies{base: newBase(api, cfg, warn)}
}

// UpdatePolicy applies the attributes of want that differ from the stored
// policy in a single call. It issues no mutating call when nothing differs.
func (p *Policies) UpdatePolicy(ctx context.Context, id string, want PolicyUpdate) (bool, error) {
	changed, _, err := p.updatePolicy(ctx, id, want)
	return changed, err
}

// updatePolicy is UpdatePolicy that also returns the rendered content diff.
func (p *Policies) updatePolicy(ctx context.Context, id string, want PolicyUpdate) (bool, string, error) {
	out, err := p.api.DescribePolicy(ctx, &organizations.DescribePolicyInput{PolicyId: aws.String(id)})
	if err != nil {
		return false, "", fail("describe policy", id, err)
	}
	current := out.Policy
	if current == nil || current.PolicySummary == nil {
		return false, "", &Error{Op: "describe policy", ID: id, Kind: KindNotFound, Reason: "no policy returned"}
	}

	in := &organizations.UpdatePolicyInput{PolicyId: aws.String(id)}
	changed := false

	if want.Name != "" && want.Name != aws.ToString(current.PolicySummary.Name) {
		in.Name = aws.String(want.Name)
		changed = true
	}
	if want.Description != "" && want.Description != aws.ToString(current.PolicySummary.Description) {
		in.Description = aws.String(want.Description)
		changed = true
	}

	var rendered string
	if want.Content != "" {
		delta, err := differ.Compare(aws.ToString(current.Content), want.Content)
		if err != nil {
			return false, "", &Error{Op: "compare policy content", ID: id, Kind: KindValidation, Err: err}
		}
		if delta.Modified() {
			in.Content = aws.String(want.Content)
			changed = true
			rendered, _ = delta.Render(false)
		}
	}

	if !changed {
		log.Debugf("policy unchanged: id=%s", id)
		return false, "", nil
	}

	if p.cfg.DryRun {
		return true, rendered, nil
	}

	if _, err := p.api.UpdatePolicy(ctx, in); err != nil {
		return false, "", fail("update policy", id, err)
	}
	log.Debugf("policy updated: id=%s", id)
	return true, rendered, nil
}

// PolicySpec is the desired state of a new policy.
type PolicySpec struct {
	Name        string
	Type        PolicyType
	Description string
	Content     string
	Tags        map[string]string
}

// CreatePolicy creates a policy and then tags it. It returns the new id, or
// "" in dry-run. A tagging failure after a successful create is a hard
// failure naming the created policy; the policy is not rolled back.
func (p *Policies) CreatePolicy(ctx context.Context, spec PolicySpec) (string, error) {
	if spec.Type == "" {
		spec.Type = DefaultPolicyType
	}
	if spec.Name == "" {
		return "", invalid("name", "a name is required to create a policy")
	}
	if spec.Content == "" {
		return "", invalid("content", "policy %q could not be found, unable to create it without content", spec.Name)
	}
	if _, err := differ.Parse(spec.Content); err != nil {
		return "", invalid("content", "policy content is not a JSON object: %v", err)
	}

	if p.cfg.DryRun {
		return "", nil
	}

	out, err := p.api.CreatePolicy(ctx, &organizations.CreatePolicyInput{
		Content:     aws.String(spec.Content),
		Description: aws.String(spec.Description),
		Name:        aws.String(spec.Name),
		Type:        spec.Type.API(),
	})
	if err != nil {
		return "", fail("create policy", spec.Name, err)
	}
	if out.Policy == nil || out.Policy.PolicySummary == nil {
		return "", &Error{Op: "create policy", ID: spec.Name, Reason: "no policy returned"}
	}
	id := aws.ToString(out.Policy.PolicySummary.Id)
	log.Debugf("policy created: id=%s type=%s", id, spec.Type)

	if len(spec.Tags) > 0 {
		_, err := p.api.TagResource(ctx, &organizations.TagResourceInput{
			ResourceId: aws.String(id),
			Tags:       tagList(spec.Tags),
		})
		if err != nil {
			return id, &Error{Op: "tag created policy", ID: id, Kind: Classify(err), Err: err}
		}
	}

	return id, nil
}

// ListPolicies returns the ids of every policy of type t.
func (p *Policies) ListPolicies(ctx context.Context, t PolicyType) ([]string, error) {
	summaries, err := p.listPolicies(ctx, t)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(summaries))
	for _, s := range summaries {
		ids = append(ids, aws.ToString(s.Id))
	}
	return ids, nil
}

// FindPolicyByName returns the ids of the policies of type t named name.
func (p *Policies) FindPolicyByName(ctx context.Context, name string, t PolicyType) ([]string, error) {
	summaries, err := p.listPolicies(ctx, t)
	if err != nil {
		return nil, err
	}
	var ids []string
	for _, s := range summaries {
		if aws.ToString(s.Name) == name {
			ids = append(ids, aws.ToString(s.Id))
		}
	}
	log.Debugf("policies named %q: %v", name, ids)
	return ids, nil
}

func (p *Policies) listPolicies(ctx context.Context, t PolicyType) ([]types.PolicySummary, error) {
	if t == "" {
		t = DefaultPolicyType
	}
	pg := organizations.NewListPoliciesPaginator(p.api, &organizations.ListPoliciesInput{Filter: t.API()})
	summaries, err := drain(ctx, pg, func(o *organizations.ListPoliciesOutput) []types.PolicySummary {
		return o.Policies
	})
	if err != nil {
		return nil, fail("list policies", string(t), err)
	}
	return summaries, nil
}

// DescribePolicy returns the merged view of policy id, or nil when it does
// not exist. Denied tag or target lookups degrade to empty with a warning.
func (p *Policies) DescribePolicy(ctx context.Context, id string, opts DescribeOptions) (*Policy, error) {
	out, err := p.api.DescribePolicy(ctx, &organizations.DescribePolicyInput{PolicyId: aws.String(id)})
	if err != nil {
		if IsKind(err, KindNotFound) {
			log.Debugf("policy not found: id=%s", id)
			return nil, nil
		}
		return nil, fail("describe policy", id, err)
	}
	if out.Policy == nil {
		return nil, nil
	}

	policy := &Policy{
		Content:       aws.ToString(out.Policy.Content),
		PolicySummary: out.Policy.PolicySummary,
	}

	tags, err := p.listTags(ctx, id)
	if err := p.tolerate(err, "tags", "list tags", id); err != nil {
		return nil, err
	}
	policy.Tags = tags
	if policy.Tags == nil {
		policy.Tags = map[string]string{}
	}

	if opts.FetchTargets {
		targets, err := p.listTargets(ctx, id)
		if err := p.tolerate(err, "targets", "list targets for policy", id); err != nil {
			return nil, err
		}
		policy.Targets = append([]types.PolicyTargetSummary{}, targets...)
	}

	return policy, nil
}

// DescribePolicies describes each id in order, dropping those that do not
// exist. It stops at the first hard failure.
func (p *Policies) DescribePolicies(ctx context.Context, ids []string, opts DescribeOptions) ([]*Policy, error) {
	var policies []*Policy
	for _, id := range ids {
		policy, err := p.DescribePolicy(ctx, id, opts)
		if err != nil {
			return nil, err
		}
		if policy != nil {
			policies = append(policies, policy)
		}
	}
	return policies, nil
}

func (p *Policies) listTargets(ctx context.Context, id string) ([]types.PolicyTargetSummary, error) {
	pg := organizations.NewListTargetsForPolicyPaginator(p.api, &organizations.ListTargetsForPolicyInput{
		PolicyId: aws.String(id),
	})
	return drain(ctx, pg, func(o *organizations.ListTargetsForPolicyOutput) []types.PolicyTargetSummary {
		return o.Targets
	})
}

// String renders a policy id and name for messages.
func (p *Policy) String() string {
	if p == nil || p.PolicySummary == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s (%s)", p.ID(), aws.ToString(p.PolicySummary.Name))
}
