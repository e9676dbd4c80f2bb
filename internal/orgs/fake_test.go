// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package orgs

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/aws/smithy-go"
)

// call records one request made against fakeAPI.
type call struct {
	Op    string
	Input any
}

// fakeAPI is an in-memory Organizations service. Errors are injected by
// operation name, optionally qualified by the id the call targets
// ("DetachPolicy:ou-1") or, for filtered lists, by the filter value.
type fakeAPI struct {
	policies map[string]*types.Policy
	tags     map[string]map[string]string
	targets  map[string][]types.PolicyTargetSummary
	ous      map[string]types.OrganizationalUnit
	childOUs map[string][]string
	accounts map[string][]string
	parents  map[string][]string
	attached map[string]map[types.PolicyType][]types.PolicySummary
	roots    []types.Root
	errs     map[string]error
	calls    []call
	nextID   int
	// pageSize splits list responses into pages of this many items,
	// chained by NextToken. Zero returns everything in one page.
	pageSize int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		policies: map[string]*types.Policy{},
		tags:     map[string]map[string]string{},
		targets:  map[string][]types.PolicyTargetSummary{},
		ous:      map[string]types.OrganizationalUnit{},
		childOUs: map[string][]string{},
		accounts: map[string][]string{},
		parents:  map[string][]string{},
		attached: map[string]map[types.PolicyType][]types.PolicySummary{},
		errs:     map[string]error{},
	}
}

func apiErr(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: code + " raised by fake"}
}

// page returns the slice of items selected by token and the token of the
// next page, or nil on the last one.
func page[T any](f *fakeAPI, items []T, token *string) ([]T, *string) {
	if f.pageSize <= 0 {
		return items, nil
	}
	start := 0
	if token != nil {
		start, _ = strconv.Atoi(*token)
	}
	start = min(start, len(items))
	end := min(start+f.pageSize, len(items))
	var next *string
	if end < len(items) {
		next = aws.String(strconv.Itoa(end))
	}
	return items[start:end], next
}

func (f *fakeAPI) record(op string, in any) { f.calls = append(f.calls, call{Op: op, Input: in}) }

func (f *fakeAPI) err(op, qualifier string) error {
	if err, ok := f.errs[op+":"+qualifier]; ok {
		return err
	}
	return f.errs[op]
}

// ops lists the operation names called, in order.
func (f *fakeAPI) ops() []string {
	ops := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		ops = append(ops, c.Op)
	}
	return ops
}

// count returns how many times op was called.
func (f *fakeAPI) count(op string) int {
	n := 0
	for _, c := range f.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// inputs returns the inputs recorded for op.
func (f *fakeAPI) inputs(op string) []any {
	var in []any
	for _, c := range f.calls {
		if c.Op == op {
			in = append(in, c.Input)
		}
	}
	return in
}

func (f *fakeAPI) addPolicy(id, name string, pt PolicyType, content string) {
	f.policies[id] = &types.Policy{
		Content: aws.String(content),
		PolicySummary: &types.PolicySummary{
			Id:          aws.String(id),
			Arn:         aws.String("arn:aws:organizations::123456789012:policy/o-abc/" + id),
			Name:        aws.String(name),
			Description: aws.String(name + " description"),
			Type:        pt.API(),
		},
	}
}

func (f *fakeAPI) addTarget(policyID, targetID string, tt types.TargetType) {
	f.targets[policyID] = append(f.targets[policyID], types.PolicyTargetSummary{
		TargetId: aws.String(targetID),
		Arn:      aws.String("arn:" + targetID),
		Name:     aws.String(targetID + "-name"),
		Type:     tt,
	})
}

func (f *fakeAPI) addOU(parent, id, name string) {
	f.ous[id] = types.OrganizationalUnit{
		Id:   aws.String(id),
		Arn:  aws.String("arn:aws:organizations::123456789012:ou/o-abc/" + id),
		Name: aws.String(name),
	}
	f.childOUs[parent] = append(f.childOUs[parent], id)
	f.parents[id] = []string{parent}
}

func (f *fakeAPI) DescribePolicy(_ context.Context, in *organizations.DescribePolicyInput, _ ...func(*organizations.Options)) (*organizations.DescribePolicyOutput, error) {
	id := aws.ToString(in.PolicyId)
	f.record("DescribePolicy", in)
	if err := f.err("DescribePolicy", id); err != nil {
		return nil, err
	}
	p, ok := f.policies[id]
	if !ok {
		return nil, &types.PolicyNotFoundException{Message: aws.String("policy " + id + " not found")}
	}
	cp := *p
	summary := *p.PolicySummary
	cp.PolicySummary = &summary
	return &organizations.DescribePolicyOutput{Policy: &cp}, nil
}

func (f *fakeAPI) CreatePolicy(_ context.Context, in *organizations.CreatePolicyInput, _ ...func(*organizations.Options)) (*organizations.CreatePolicyOutput, error) {
	f.record("CreatePolicy", in)
	if err := f.err("CreatePolicy", aws.ToString(in.Name)); err != nil {
		return nil, err
	}
	f.nextID++
	id := fmt.Sprintf("p-new%04d", f.nextID)
	f.addPolicy(id, aws.ToString(in.Name), PolicyType(in.Type), aws.ToString(in.Content))
	f.policies[id].PolicySummary.Description = in.Description
	return &organizations.CreatePolicyOutput{Policy: f.policies[id]}, nil
}

func (f *fakeAPI) UpdatePolicy(_ context.Context, in *organizations.UpdatePolicyInput, _ ...func(*organizations.Options)) (*organizations.UpdatePolicyOutput, error) {
	id := aws.ToString(in.PolicyId)
	f.record("UpdatePolicy", in)
	if err := f.err("UpdatePolicy", id); err != nil {
		return nil, err
	}
	p, ok := f.policies[id]
	if !ok {
		return nil, &types.PolicyNotFoundException{}
	}
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

func (f *fakeAPI) DeletePolicy(_ context.Context, in *organizations.DeletePolicyInput, _ ...func(*organizations.Options)) (*organizations.DeletePolicyOutput, error) {
	id := aws.ToString(in.PolicyId)
	f.record("DeletePolicy", in)
	if err := f.err("DeletePolicy", id); err != nil {
		return nil, err
	}
	if _, ok := f.policies[id]; !ok {
		return nil, &types.PolicyNotFoundException{}
	}
	if len(f.targets[id]) > 0 {
		return nil, apiErr("PolicyInUseException")
	}
	delete(f.policies, id)
	return &organizations.DeletePolicyOutput{}, nil
}

func (f *fakeAPI) DetachPolicy(_ context.Context, in *organizations.DetachPolicyInput, _ ...func(*organizations.Options)) (*organizations.DetachPolicyOutput, error) {
	id, target := aws.ToString(in.PolicyId), aws.ToString(in.TargetId)
	f.record("DetachPolicy", in)
	kept := f.targets[id][:0]
	found := false
	for _, t := range f.targets[id] {
		if aws.ToString(t.TargetId) == target {
			found = true
			continue
		}
		kept = append(kept, t)
	}
	f.targets[id] = kept
	if err := f.err("DetachPolicy", target); err != nil {
		return nil, err
	}
	if !found {
		return nil, &types.PolicyNotAttachedException{}
	}
	return &organizations.DetachPolicyOutput{}, nil
}

func (f *fakeAPI) TagResource(_ context.Context, in *organizations.TagResourceInput, _ ...func(*organizations.Options)) (*organizations.TagResourceOutput, error) {
	id := aws.ToString(in.ResourceId)
	f.record("TagResource", in)
	if err := f.err("TagResource", id); err != nil {
		return nil, err
	}
	if f.tags[id] == nil {
		f.tags[id] = map[string]string{}
	}
	for _, t := range in.Tags {
		f.tags[id][aws.ToString(t.Key)] = aws.ToString(t.Value)
	}
	return &organizations.TagResourceOutput{}, nil
}

func (f *fakeAPI) UntagResource(_ context.Context, in *organizations.UntagResourceInput, _ ...func(*organizations.Options)) (*organizations.UntagResourceOutput, error) {
	id := aws.ToString(in.ResourceId)
	f.record("UntagResource", in)
	if err := f.err("UntagResource", id); err != nil {
		return nil, err
	}
	for _, k := range in.TagKeys {
		delete(f.tags[id], k)
	}
	return &organizations.UntagResourceOutput{}, nil
}

func (f *fakeAPI) ListTagsForResource(_ context.Context, in *organizations.ListTagsForResourceInput, _ ...func(*organizations.Options)) (*organizations.ListTagsForResourceOutput, error) {
	id := aws.ToString(in.ResourceId)
	f.record("ListTagsForResource", in)
	if err := f.err("ListTagsForResource", id); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(f.tags[id]))
	for k := range f.tags[id] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var tags []types.Tag
	for _, k := range keys {
		tags = append(tags, types.Tag{Key: aws.String(k), Value: aws.String(f.tags[id][k])})
	}
	out := &organizations.ListTagsForResourceOutput{}
	out.Tags, out.NextToken = page(f, tags, in.NextToken)
	return out, nil
}

func (f *fakeAPI) ListPoliciesForTarget(_ context.Context, in *organizations.ListPoliciesForTargetInput, _ ...func(*organizations.Options)) (*organizations.ListPoliciesForTargetOutput, error) {
	f.record("ListPoliciesForTarget", in)
	if err := f.err("ListPoliciesForTarget", string(in.Filter)); err != nil {
		return nil, err
	}
	out := &organizations.ListPoliciesForTargetOutput{}
	out.Policies, out.NextToken = page(f, f.attached[aws.ToString(in.TargetId)][in.Filter], in.NextToken)
	return out, nil
}

func (f *fakeAPI) ListTargetsForPolicy(_ context.Context, in *organizations.ListTargetsForPolicyInput, _ ...func(*organizations.Options)) (*organizations.ListTargetsForPolicyOutput, error) {
	id := aws.ToString(in.PolicyId)
	f.record("ListTargetsForPolicy", in)
	if err := f.err("ListTargetsForPolicy", id); err != nil {
		return nil, err
	}
	if _, ok := f.policies[id]; !ok {
		return nil, &types.PolicyNotFoundException{}
	}
	out := &organizations.ListTargetsForPolicyOutput{}
	out.Targets, out.NextToken = page(f, append([]types.PolicyTargetSummary(nil), f.targets[id]...), in.NextToken)
	return out, nil
}

func (f *fakeAPI) ListPolicies(_ context.Context, in *organizations.ListPoliciesInput, _ ...func(*organizations.Options)) (*organizations.ListPoliciesOutput, error) {
	f.record("ListPolicies", in)
	if err := f.err("ListPolicies", string(in.Filter)); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(f.policies))
	for id := range f.policies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var summaries []types.PolicySummary
	for _, id := range ids {
		s := f.policies[id].PolicySummary
		if s.Type == in.Filter {
			summaries = append(summaries, *s)
		}
	}
	out := &organizations.ListPoliciesOutput{}
	out.Policies, out.NextToken = page(f, summaries, in.NextToken)
	return out, nil
}

func (f *fakeAPI) ListOrganizationalUnitsForParent(_ context.Context, in *organizations.ListOrganizationalUnitsForParentInput, _ ...func(*organizations.Options)) (*organizations.ListOrganizationalUnitsForParentOutput, error) {
	parent := aws.ToString(in.ParentId)
	f.record("ListOrganizationalUnitsForParent", in)
	if err := f.err("ListOrganizationalUnitsForParent", parent); err != nil {
		return nil, err
	}
	var children []types.OrganizationalUnit
	for _, id := range f.childOUs[parent] {
		children = append(children, f.ous[id])
	}
	out := &organizations.ListOrganizationalUnitsForParentOutput{}
	out.OrganizationalUnits, out.NextToken = page(f, children, in.NextToken)
	return out, nil
}

func (f *fakeAPI) DescribeOrganizationalUnit(_ context.Context, in *organizations.DescribeOrganizationalUnitInput, _ ...func(*organizations.Options)) (*organizations.DescribeOrganizationalUnitOutput, error) {
	id := aws.ToString(in.OrganizationalUnitId)
	f.record("DescribeOrganizationalUnit", in)
	if err := f.err("DescribeOrganizationalUnit", id); err != nil {
		return nil, err
	}
	ou, ok := f.ous[id]
	if !ok {
		return nil, &types.OrganizationalUnitNotFoundException{}
	}
	return &organizations.DescribeOrganizationalUnitOutput{OrganizationalUnit: &ou}, nil
}

func (f *fakeAPI) ListChildren(_ context.Context, in *organizations.ListChildrenInput, _ ...func(*organizations.Options)) (*organizations.ListChildrenOutput, error) {
	parent := aws.ToString(in.ParentId)
	f.record("ListChildren", in)
	if err := f.err("ListChildren", string(in.ChildType)); err != nil {
		return nil, err
	}
	ids := f.childOUs[parent]
	if in.ChildType == types.ChildTypeAccount {
		ids = f.accounts[parent]
	}
	var children []types.Child
	for _, id := range ids {
		children = append(children, types.Child{Id: aws.String(id), Type: in.ChildType})
	}
	out := &organizations.ListChildrenOutput{}
	out.Children, out.NextToken = page(f, children, in.NextToken)
	return out, nil
}

func (f *fakeAPI) ListParents(_ context.Context, in *organizations.ListParentsInput, _ ...func(*organizations.Options)) (*organizations.ListParentsOutput, error) {
	id := aws.ToString(in.ChildId)
	f.record("ListParents", in)
	if err := f.err("ListParents", id); err != nil {
		return nil, err
	}
	var parents []types.Parent
	for _, p := range f.parents[id] {
		parents = append(parents, types.Parent{Id: aws.String(p)})
	}
	out := &organizations.ListParentsOutput{}
	out.Parents, out.NextToken = page(f, parents, in.NextToken)
	return out, nil
}

func (f *fakeAPI) ListRoots(_ context.Context, in *organizations.ListRootsInput, _ ...func(*organizations.Options)) (*organizations.ListRootsOutput, error) {
	f.record("ListRoots", in)
	if err := f.err("ListRoots", ""); err != nil {
		return nil, err
	}
	out := &organizations.ListRootsOutput{}
	out.Roots, out.NextToken = page(f, f.roots, in.NextToken)
	return out, nil
}

var _ API = (*fakeAPI)(nil)
