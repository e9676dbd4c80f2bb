// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package command

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/aws/smithy-go"

	"github.com/tfctl/orgctl/internal/orgs"
)

// fakeOrg is a small in-memory organization: one root, a few OUs and
// policies. Errors are injected by operation name.
type fakeOrg struct {
	policies map[string]*types.Policy
	tags     map[string]map[string]string
	targets  map[string][]types.PolicyTargetSummary
	ous      map[string]types.OrganizationalUnit
	children map[string][]string
	parents  map[string]string
	roots    []types.Root
	errs     map[string]error
	ops      []string
	nextID   int
}

func newFakeOrg() *fakeOrg {
	f := &fakeOrg{
		policies: map[string]*types.Policy{},
		tags:     map[string]map[string]string{},
		targets:  map[string][]types.PolicyTargetSummary{},
		ous:      map[string]types.OrganizationalUnit{},
		children: map[string][]string{},
		parents:  map[string]string{},
		roots:    []types.Root{{Id: aws.String("r-1"), Name: aws.String("Root"), Arn: aws.String("arn:root/r-1")}},
		errs:     map[string]error{},
	}
	f.addOU("r-1", "ou-a", "Workloads")
	f.addOU("ou-a", "ou-a1", "Prod")
	f.addOU("ou-a1", "ou-a1x", "Payments")
	f.addOU("r-1", "ou-b", "Sandbox")
	f.addPolicy("p-1", "deny-all", orgs.ServiceControlPolicy, `{"Version":"2012-10-17","Statement":[{"Effect":"Deny","Action":"*","Resource":"*"}]}`)
	f.addPolicy("p-2", "require-tags", orgs.TagPolicy, `{"tags":{}}`)
	f.targets["p-1"] = []types.PolicyTargetSummary{{TargetId: aws.String("ou-a"), Type: types.TargetTypeOrganizationalUnit}}
	f.tags["p-1"] = map[string]string{"env": "prod"}
	return f
}

func (f *fakeOrg) addOU(parent, id, name string) {
	f.ous[id] = types.OrganizationalUnit{Id: aws.String(id), Arn: aws.String("arn:ou/" + id), Name: aws.String(name)}
	f.children[parent] = append(f.children[parent], id)
	f.parents[id] = parent
}

func (f *fakeOrg) addPolicy(id, name string, pt orgs.PolicyType, content string) {
	f.policies[id] = &types.Policy{
		Content: aws.String(content),
		PolicySummary: &types.PolicySummary{
			Id:   aws.String(id),
			Arn:  aws.String("arn:policy/" + id),
			Name: aws.String(name),
			Type: pt.API(),
		},
	}
}

func (f *fakeOrg) call(op string) error {
	f.ops = append(f.ops, op)
	return f.errs[op]
}

func (f *fakeOrg) count(op string) int {
	n := 0
	for _, o := range f.ops {
		if o == op {
			n++
		}
	}
	return n
}

func fakeErr(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: code}
}

func (f *fakeOrg) DescribePolicy(_ context.Context, in *organizations.DescribePolicyInput, _ ...func(*organizations.Options)) (*organizations.DescribePolicyOutput, error) {
	if err := f.call("DescribePolicy"); err != nil {
		return nil, err
	}
	p, ok := f.policies[aws.ToString(in.PolicyId)]
	if !ok {
		return nil, &types.PolicyNotFoundException{}
	}
	cp, summary := *p, *p.PolicySummary
	cp.PolicySummary = &summary
	return &organizations.DescribePolicyOutput{Policy: &cp}, nil
}

func (f *fakeOrg) CreatePolicy(_ context.Context, in *organizations.CreatePolicyInput, _ ...func(*organizations.Options)) (*organizations.CreatePolicyOutput, error) {
	if err := f.call("CreatePolicy"); err != nil {
		return nil, err
	}
	f.nextID++
	id := fmt.Sprintf("p-new%d", f.nextID)
	f.addPolicy(id, aws.ToString(in.Name), orgs.PolicyType(in.Type), aws.ToString(in.Content))
	return &organizations.CreatePolicyOutput{Policy: f.policies[id]}, nil
}

func (f *fakeOrg) UpdatePolicy(_ context.Context, in *organizations.UpdatePolicyInput, _ ...func(*organizations.Options)) (*organizations.UpdatePolicyOutput, error) {
	if err := f.call("UpdatePolicy"); err != nil {
		return nil, err
	}
	p := f.policies[aws.ToString(in.PolicyId)]
	if in.Name != nil {
		p.PolicySummary.Name = in.Name
	}
	if in.Description != nil {
		p.PolicySummary.Description = in.Description
	}
	if in.Content != nil {
		p.Content = in.Content
	}
	return &organizations.UpdatePolicyOutput{Policy: p}, nil
}

func (f *fakeOrg) DeletePolicy(_ context.Context, in *organizations.DeletePolicyInput, _ ...func(*organizations.Options)) (*organizations.DeletePolicyOutput, error) {
	if err := f.call("DeletePolicy"); err != nil {
		return nil, err
	}
	id := aws.ToString(in.PolicyId)
	if len(f.targets[id]) > 0 {
		return nil, fakeErr("PolicyInUseException")
	}
	delete(f.policies, id)
	return &organizations.DeletePolicyOutput{}, nil
}

func (f *fakeOrg) DetachPolicy(_ context.Context, in *organizations.DetachPolicyInput, _ ...func(*organizations.Options)) (*organizations.DetachPolicyOutput, error) {
	if err := f.call("DetachPolicy"); err != nil {
		return nil, err
	}
	id, target := aws.ToString(in.PolicyId), aws.ToString(in.TargetId)
	var kept []types.PolicyTargetSummary
	for _, t := range f.targets[id] {
		if aws.ToString(t.TargetId) != target {
			kept = append(kept, t)
		}
	}
	f.targets[id] = kept
	return &organizations.DetachPolicyOutput{}, nil
}

func (f *fakeOrg) TagResource(_ context.Context, in *organizations.TagResourceInput, _ ...func(*organizations.Options)) (*organizations.TagResourceOutput, error) {
	if err := f.call("TagResource"); err != nil {
		return nil, err
	}
	id := aws.ToString(in.ResourceId)
	if f.tags[id] == nil {
		f.tags[id] = map[string]string{}
	}
	for _, t := range in.Tags {
		f.tags[id][aws.ToString(t.Key)] = aws.ToString(t.Value)
	}
	return &organizations.TagResourceOutput{}, nil
}

func (f *fakeOrg) UntagResource(_ context.Context, in *organizations.UntagResourceInput, _ ...func(*organizations.Options)) (*organizations.UntagResourceOutput, error) {
	if err := f.call("UntagResource"); err != nil {
		return nil, err
	}
	for _, k := range in.TagKeys {
		delete(f.tags[aws.ToString(in.ResourceId)], k)
	}
	return &organizations.UntagResourceOutput{}, nil
}

func (f *fakeOrg) ListTagsForResource(_ context.Context, in *organizations.ListTagsForResourceInput, _ ...func(*organizations.Options)) (*organizations.ListTagsForResourceOutput, error) {
	if err := f.call("ListTagsForResource"); err != nil {
		return nil, err
	}
	tags := f.tags[aws.ToString(in.ResourceId)]
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := &organizations.ListTagsForResourceOutput{}
	for _, k := range keys {
		out.Tags = append(out.Tags, types.Tag{Key: aws.String(k), Value: aws.String(tags[k])})
	}
	return out, nil
}

func (f *fakeOrg) ListPoliciesForTarget(_ context.Context, in *organizations.ListPoliciesForTargetInput, _ ...func(*organizations.Options)) (*organizations.ListPoliciesForTargetOutput, error) {
	if err := f.call("ListPoliciesForTarget"); err != nil {
		return nil, err
	}
	out := &organizations.ListPoliciesForTargetOutput{}
	ids := make([]string, 0, len(f.targets))
	for id := range f.targets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		for _, t := range f.targets[id] {
			p := f.policies[id]
			if aws.ToString(t.TargetId) == aws.ToString(in.TargetId) && p.PolicySummary.Type == in.Filter {
				out.Policies = append(out.Policies, *p.PolicySummary)
			}
		}
	}
	return out, nil
}

func (f *fakeOrg) ListTargetsForPolicy(_ context.Context, in *organizations.ListTargetsForPolicyInput, _ ...func(*organizations.Options)) (*organizations.ListTargetsForPolicyOutput, error) {
	if err := f.call("ListTargetsForPolicy"); err != nil {
		return nil, err
	}
	return &organizations.ListTargetsForPolicyOutput{Targets: f.targets[aws.ToString(in.PolicyId)]}, nil
}

func (f *fakeOrg) ListPolicies(_ context.Context, in *organizations.ListPoliciesInput, _ ...func(*organizations.Options)) (*organizations.ListPoliciesOutput, error) {
	if err := f.call("ListPolicies"); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(f.policies))
	for id := range f.policies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := &organizations.ListPoliciesOutput{}
	for _, id := range ids {
		if s := f.policies[id].PolicySummary; s.Type == in.Filter {
			out.Policies = append(out.Policies, *s)
		}
	}
	return out, nil
}

func (f *fakeOrg) ListOrganizationalUnitsForParent(_ context.Context, in *organizations.ListOrganizationalUnitsForParentInput, _ ...func(*organizations.Options)) (*organizations.ListOrganizationalUnitsForParentOutput, error) {
	if err := f.call("ListOrganizationalUnitsForParent"); err != nil {
		return nil, err
	}
	out := &organizations.ListOrganizationalUnitsForParentOutput{}
	for _, id := range f.children[aws.ToString(in.ParentId)] {
		out.OrganizationalUnits = append(out.OrganizationalUnits, f.ous[id])
	}
	return out, nil
}

func (f *fakeOrg) DescribeOrganizationalUnit(_ context.Context, in *organizations.DescribeOrganizationalUnitInput, _ ...func(*organizations.Options)) (*organizations.DescribeOrganizationalUnitOutput, error) {
	if err := f.call("DescribeOrganizationalUnit"); err != nil {
		return nil, err
	}
	ou, ok := f.ous[aws.ToString(in.OrganizationalUnitId)]
	if !ok {
		return nil, &types.OrganizationalUnitNotFoundException{}
	}
	return &organizations.DescribeOrganizationalUnitOutput{OrganizationalUnit: &ou}, nil
}

func (f *fakeOrg) ListChildren(_ context.Context, in *organizations.ListChildrenInput, _ ...func(*organizations.Options)) (*organizations.ListChildrenOutput, error) {
	if err := f.call("ListChildren"); err != nil {
		return nil, err
	}
	out := &organizations.ListChildrenOutput{}
	if in.ChildType != types.ChildTypeOrganizationalUnit {
		return out, nil
	}
	for _, id := range f.children[aws.ToString(in.ParentId)] {
		out.Children = append(out.Children, types.Child{Id: aws.String(id), Type: in.ChildType})
	}
	return out, nil
}

func (f *fakeOrg) ListParents(_ context.Context, in *organizations.ListParentsInput, _ ...func(*organizations.Options)) (*organizations.ListParentsOutput, error) {
	if err := f.call("ListParents"); err != nil {
		return nil, err
	}
	out := &organizations.ListParentsOutput{}
	if p, ok := f.parents[aws.ToString(in.ChildId)]; ok {
		out.Parents = append(out.Parents, types.Parent{Id: aws.String(p)})
	}
	return out, nil
}

func (f *fakeOrg) ListRoots(_ context.Context, _ *organizations.ListRootsInput, _ ...func(*organizations.Options)) (*organizations.ListRootsOutput, error) {
	if err := f.call("ListRoots"); err != nil {
		return nil, err
	}
	return &organizations.ListRootsOutput{Roots: f.roots}, nil
}

var _ orgs.API = (*fakeOrg)(nil)
