// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package command defines the CLI command set for orgctl. It wires flags,
// config sources, validators and actions for the policy and ou subcommands.
package command
