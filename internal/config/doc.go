// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for orgctl's user
// configuration. The configuration is a YAML document located through the
// ORGCTL_CFG_FILE environment variable or, failing that, in the user's
// configuration directory:
//   - Linux: $XDG_CONFIG_HOME/orgctl.yaml or $HOME/.config/orgctl.yaml
//   - macOS: $HOME/Library/Application Support/orgctl.yaml
//   - Windows: %APPDATA%/orgctl.yaml
//
// Keys are dotted paths. A Namespace, normally the command path such as
// "policy.info", is tried before the bare key so that per-command settings
// override global ones.
package config
