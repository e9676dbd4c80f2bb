// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package orgs reconciles AWS Organizations policies and describes
// Organizational Units. It computes desired-vs-actual differences for
// policies and tags, walks the OU tree, assembles merged entity views whose
// auxiliary lookups degrade independently on access denied, and enforces the
// detach-before-delete protocol for attached policies.
//
// All network access goes through the API interface, which the SDK's
// *organizations.Client satisfies. Retries and pagination are the SDK's job.
package orgs
