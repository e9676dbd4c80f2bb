// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package driller resolves the dotted attribute paths used by --attrs,
// --filter and --sort against normalized JSON documents.
package driller
