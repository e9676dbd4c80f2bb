// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package output shapes normalized entities for display. A result set is
// filtered and projected onto an attribute list, transformed, sorted and then
// rendered as a table, JSON, YAML or the raw document. Mutating commands wrap
// their rows in a Status carrying the changed flag, warnings and any content
// diff.
package output
