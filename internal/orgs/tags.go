// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package orgs

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	"github.com/aws/aws-sdk-go-v2/service/organizations/types"

	"github.com/tfctl/orgctl/internal/log"
)

// DiffTags computes the patch that turns observed into desired. toSet holds
// every desired pair that is missing or different in observed. toDelete holds
// the observed keys absent from desired, sorted, and is empty unless purge is
// set.
func DiffTags(observed, desired map[string]string, purge bool) (toSet map[string]string, toDelete []string) {
	toSet = map[string]string{}
	for k, v := range desired {
		if cur, ok := observed[k]; !ok || cur != v {
			toSet[k] = v
		}
	}

	if purge {
		for k := range observed {
			if _, ok := desired[k]; !ok {
				toDelete = append(toDelete, k)
			}
		}
		sort.Strings(toDelete)
	}

	return toSet, toDelete
}

// ReconcileTags brings the tags on resourceID to desired. A nil desired
// leaves tags unmanaged. New and changed tags are set before stale ones are
// removed so the resource never passes through an untagged state.
func (b *base) ReconcileTags(ctx context.Context, resourceID string, desired map[string]string, purge bool) (bool, error) {
	if desired == nil {
		return false, nil
	}

	observed, err := b.listTags(ctx, resourceID)
	if err != nil {
		return false, fail("list tags", resourceID, err)
	}

	toSet, toDelete := DiffTags(observed, desired, purge)
	log.Debugf("tag diff: id=%s set=%d delete=%d", resourceID, len(toSet), len(toDelete))
	if len(toSet) == 0 && len(toDelete) == 0 {
		return false, nil
	}

	if b.cfg.DryRun {
		return true, nil
	}

	if len(toSet) > 0 {
		_, err := b.api.TagResource(ctx, &organizations.TagResourceInput{
			ResourceId: aws.String(resourceID),
			Tags:       tagList(toSet),
		})
		if err != nil {
			return false, fail("set tags", resourceID, err)
		}
	}

	if len(toDelete) > 0 {
		_, err := b.api.UntagResource(ctx, &organizations.UntagResourceInput{
			ResourceId: aws.String(resourceID),
			TagKeys:    toDelete,
		})
		if err != nil {
			return false, fail("remove tags", resourceID, err)
		}
	}

	return true, nil
}

// listTags returns every tag on resourceID as a map.
func (b *base) listTags(ctx context.Context, resourceID string) (map[string]string, error) {
	p := organizations.NewListTagsForResourcePaginator(b.api, &organizations.ListTagsForResourceInput{
		ResourceId: aws.String(resourceID),
	})
	tags, err := drain(ctx, p, func(o *organizations.ListTagsForResourceOutput) []types.Tag {
		return o.Tags
	})
	if err != nil {
		return nil, err
	}
	return tagMap(tags), nil
}

// tagMap converts the SDK tag list to a map.
func tagMap(tags []types.Tag) map[string]string {
	m := make(map[string]string, len(tags))
	for _, t := range tags {
		m[aws.ToString(t.Key)] = aws.ToString(t.Value)
	}
	return m
}

// tagList converts a map to the SDK tag list, ordered by key.
func tagList(m map[string]string) []types.Tag {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tags := make([]types.Tag, 0, len(keys))
	for _, k := range keys {
		tags = append(tags, types.Tag{Key: aws.String(k), Value: aws.String(m[k])})
	}
	return tags
}
