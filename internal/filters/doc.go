// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package filters selects rows of a result set with --filter expressions.
//
// Expressions are key, operator and target, joined by a comma or by the
// delimiter in ORGCTL_FILTER_DELIM. Prefix the operator with ! to negate it.
//
//   - = : exact match
//   - ~ : case-insensitive match
//   - ^ : prefix match
//   - < and > : ordering, numeric when the value is a number
//   - @ : substring, list element, or map key (e.g. tags@env)
//   - / : regular expression match
//
// A key with no operator tests that the value is present. Keys name an
// attribute's output key; any other key is resolved as a path into the
// normalized entity, so "policy_summary.aws_managed=false" works without
// adding the path to --attrs.
package filters
