// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package orgs

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/organizations/types"

	"github.com/tfctl/orgctl/internal/log"
)

// DefaultMaxDepth is the --max-depth default.
const DefaultMaxDepth = 5

// OrganizationalUnit is the merged view of one OU. The attachment fields are
// nil unless attachments were requested.
type OrganizationalUnit struct {
	ID               string `json:"Id"`
	Arn              string
	Name             string
	Tags             map[string]string
	Parents          []string
	ChildAccounts    []string
	ChildOUs         []string `json:"ChildOus"`
	AttachedPolicies []types.PolicySummary
}

// ListOUsOptions positions a walk in the tree. An empty ParentID means the
// organization's only root.
type ListOUsOptions struct {
	ParentID string
	Recurse  bool
	MaxDepth int
}

// OrgUnits reads the organization's OU tree.
type OrgUnits struct {
	base
}

// NewOrgUnits returns an OU reader. warn may be nil.
func NewOrgUnits(api API, cfg Config, warn *Warnings) *OrgUnits {
	return &OrgUnits{base: newBase(api, cfg, warn)}
}

// ListRoots returns the organization's roots.
func (o *OrgUnits) ListRoots(ctx context.Context) ([]types.Root, error) {
	p := organizations.NewListRootsPaginator(o.api, &organizations.ListRootsInput{})
	roots, err := drain(ctx, p, func(out *organizations.ListRootsOutput) []types.Root {
		return out.Roots
	})
	if err != nil {
		return nil, fail("list roots", "", err)
	}
	return roots, nil
}

// soleRoot returns the id of the only root. Zero or several roots are
// refused; the caller has to name a parent.
func (o *OrgUnits) soleRoot(ctx context.Context) (string, error) {
	roots, err := o.ListRoots(ctx)
	if err != nil {
		return "", err
	}
	switch len(roots) {
	case 0:
		return "", invalid("parent_id", "unable to list organization roots, a parent must be specified")
	case 1:
		return aws.ToString(roots[0].Id), nil
	default:
		return "", &Error{
			Op:     "resolve root",
			Kind:   KindAmbiguous,
			Reason: "found multiple organization roots, a parent must be specified",
			Roots:  roots,
		}
	}
}

// ListOUs returns the OUs under opts.ParentID: its immediate children first,
// then, when recursing, each child's own subtree in child order. MaxDepth
// counts the levels returned; the walk never goes below it even if the tree
// were cyclic. Immediate children are always returned, so a MaxDepth of one
// or less never descends regardless of Recurse.
func (o *OrgUnits) ListOUs(ctx context.Context, opts ListOUsOptions) ([]types.OrganizationalUnit, error) {
	parent := opts.ParentID
	if parent == "" {
		root, err := o.soleRoot(ctx)
		if err != nil {
			return nil, err
		}
		parent = root
	}
	return o.walk(ctx, parent, opts.Recurse, opts.MaxDepth)
}

func (o *OrgUnits) walk(ctx context.Context, parent string, recurse bool, depth int) ([]types.OrganizationalUnit, error) {
	p := organizations.NewListOrganizationalUnitsForParentPaginator(o.api, &organizations.ListOrganizationalUnitsForParentInput{
		ParentId: aws.String(parent),
	})
	children, err := drain(ctx, p, func(out *organizations.ListOrganizationalUnitsForParentOutput) []types.OrganizationalUnit {
		return out.OrganizationalUnits
	})
	if err != nil {
		return nil, fail("list organizational units", parent, err)
	}
	log.Debugf("walk: parent=%s children=%d depth=%d", parent, len(children), depth)

	ous := children
	if recurse && depth > 1 {
		for _, child := range children {
			sub, err := o.walk(ctx, aws.ToString(child.Id), recurse, depth-1)
			if err != nil {
				return nil, err
			}
			ous = append(ous, sub...)
		}
	}
	return ous, nil
}

// DescribeOU returns the merged view of OU id, or nil when it does not exist.
func (o *OrgUnits) DescribeOU(ctx context.Context, id string, opts DescribeOptions) (*OrganizationalUnit, error) {
	if id == "" {
		return nil, nil
	}
	out, err := o.api.DescribeOrganizationalUnit(ctx, &organizations.DescribeOrganizationalUnitInput{
		OrganizationalUnitId: aws.String(id),
	})
	if err != nil {
		if IsKind(err, KindNotFound) {
			log.Debugf("ou not found: id=%s", id)
			return nil, nil
		}
		return nil, fail("describe organizational unit", id, err)
	}
	if out.OrganizationalUnit == nil {
		return nil, nil
	}
	return o.describe(ctx, *out.OrganizationalUnit, opts)
}

// DescribeOUs walks the tree per lo and describes every OU found. The
// summaries returned by the walk are used as the base view.
func (o *OrgUnits) DescribeOUs(ctx context.Context, lo ListOUsOptions, opts DescribeOptions) ([]*OrganizationalUnit, error) {
	summaries, err := o.ListOUs(ctx, lo)
	if err != nil {
		return nil, err
	}
	ous := make([]*OrganizationalUnit, 0, len(summaries))
	for _, s := range summaries {
		ou, err := o.describe(ctx, s, opts)
		if err != nil {
			return nil, err
		}
		ous = append(ous, ou)
	}
	return ous, nil
}

// describe merges tags and, optionally, parents, children and attached
// policies onto base. Each lookup degrades on its own when denied.
func (o *OrgUnits) describe(ctx context.Context, summary types.OrganizationalUnit, opts DescribeOptions) (*OrganizationalUnit, error) {
	id := aws.ToString(summary.Id)
	ou := &OrganizationalUnit{
		ID:   id,
		Arn:  aws.ToString(summary.Arn),
		Name: aws.ToString(summary.Name),
	}

	tags, err := o.listTags(ctx, id)
	if err := o.tolerate(err, "tags", "list tags", id); err != nil {
		return nil, err
	}
	ou.Tags = tags
	if ou.Tags == nil {
		ou.Tags = map[string]string{}
	}

	if !opts.FetchAttachments {
		return ou, nil
	}

	parents, err := o.listParents(ctx, id)
	if err := o.tolerate(err, "parents", "list parents", id); err != nil {
		return nil, err
	}
	ou.Parents = append([]string{}, parents...)

	accounts, err := o.listChildren(ctx, id, types.ChildTypeAccount)
	if err := o.tolerate(err, "child accounts", "list child accounts", id); err != nil {
		return nil, err
	}
	ou.ChildAccounts = append([]string{}, accounts...)

	childOUs, err := o.listChildren(ctx, id, types.ChildTypeOrganizationalUnit)
	if err := o.tolerate(err, "child OUs", "list child OUs", id); err != nil {
		return nil, err
	}
	ou.ChildOUs = append([]string{}, childOUs...)

	ou.AttachedPolicies = []types.PolicySummary{}
	for _, pt := range AllPolicyTypes {
		attached, err := o.listAttached(ctx, id, pt)
		if err := o.tolerate(err, "attached "+string(pt), "list attached policies", id); err != nil {
			return nil, err
		}
		ou.AttachedPolicies = append(ou.AttachedPolicies, attached...)
	}

	return ou, nil
}

func (o *OrgUnits) listParents(ctx context.Context, id string) ([]string, error) {
	p := organizations.NewListParentsPaginator(o.api, &organizations.ListParentsInput{ChildId: aws.String(id)})
	parents, err := drain(ctx, p, func(out *organizations.ListParentsOutput) []types.Parent {
		return out.Parents
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parents))
	for _, parent := range parents {
		ids = append(ids, aws.ToString(parent.Id))
	}
	return ids, nil
}

func (o *OrgUnits) listChildren(ctx context.Context, id string, ct types.ChildType) ([]string, error) {
	p := organizations.NewListChildrenPaginator(o.api, &organizations.ListChildrenInput{
		ParentId:  aws.String(id),
		ChildType: ct,
	})
	children, err := drain(ctx, p, func(out *organizations.ListChildrenOutput) []types.Child {
		return out.Children
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(children))
	for _, c := range children {
		ids = append(ids, aws.ToString(c.Id))
	}
	return ids, nil
}

func (o *OrgUnits) listAttached(ctx context.Context, id string, pt PolicyType) ([]types.PolicySummary, error) {
	p := organizations.NewListPoliciesForTargetPaginator(o.api, &organizations.ListPoliciesForTargetInput{
		TargetId: aws.String(id),
		Filter:   pt.API(),
	})
	return drain(ctx, p, func(out *organizations.ListPoliciesForTargetOutput) []types.PolicySummary {
		return out.Policies
	})
}
