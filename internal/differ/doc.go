// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ compares policy documents as structured JSON rather than as
// text, and renders the differences for display.
package differ
