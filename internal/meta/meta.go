// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package meta

import (
	"context"

	"github.com/tfctl/orgctl/internal/config"
	"github.com/tfctl/orgctl/internal/orgs"
)

// AWSSettings are the connection overrides gathered from flags, env and
// config. Empty values defer to the SDK's default chain.
type AWSSettings struct {
	Profile     string
	Region      string
	EndpointURL string
	MaxAttempts int
}

// ClientFactory builds the Organizations API client for a command.
type ClientFactory func(context.Context, AWSSettings) (orgs.API, error)

// Meta contains runtime metadata shared by commands. It carries CLI arguments,
// loaded configuration, context, the config namespace derived from the command
// path and the factory used to reach Organizations.
type Meta struct {
	Args      []string
	Config    config.Type
	Context   context.Context
	Namespace string
	NewClient ClientFactory
}
