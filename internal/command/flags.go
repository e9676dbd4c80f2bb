// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strings"

	"github.com/iancoleman/strcase"
	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/tfctl/orgctl/internal/config"
	"github.com/tfctl/orgctl/internal/output"
)

func newSchemaFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:        "schema",
		Usage:       "dump the attribute paths available to --attrs",
		HideDefault: true,
	}
}

// NewGlobalFlags returns the output flags shared by every reporting command.
// Values not given on the command line fall back to the environment and then
// to the config file, namespaced by ns.
func NewGlobalFlags(ns string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "attrs",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of attributes to include in results",
			Sources: configSources(ns, "attrs"),
		},
		&cli.BoolFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Value:   false,
			Sources: configSources(ns, "color"),
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format (" + strings.Join(output.Formats, "|") + ")",
			Value:   output.FormatText,
			Sources: configSources(ns, "output", "ORGCTL_OUTPUT"),
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.IntFlag{
			Name:    "padding",
			Usage:   "spaces between text columns",
			Value:   2,
			Sources: configSources(ns, "padding"),
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of attributes to sort the results by",
			Sources: configSources(ns, "sort"),
		},
		&cli.BoolFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Value:   false,
			Sources: configSources(ns, "titles"),
		},
	}

	return
}

// NewAWSFlags returns the connection flags. The SDK's own chain applies to
// anything left unset.
func NewAWSFlags(ns string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "profile",
			Aliases: []string{"p"},
			Usage:   "AWS shared config profile",
			Sources: configSources(ns, "profile", "ORGCTL_PROFILE", "AWS_PROFILE"),
		},
		&cli.StringFlag{
			Name:    "region",
			Aliases: []string{"r"},
			Usage:   "AWS region for the Organizations endpoint",
			Sources: configSources(ns, "region", "ORGCTL_REGION", "AWS_REGION"),
		},
		&cli.StringFlag{
			Name:    "endpoint-url",
			Usage:   "override the Organizations endpoint",
			Sources: configSources(ns, "endpoint-url", "ORGCTL_ENDPOINT_URL", "AWS_ENDPOINT_URL_ORGANIZATIONS"),
		},
		&cli.IntFlag{
			Name:    "max-attempts",
			Usage:   "maximum attempts per API call, 0 for the SDK default",
			Value:   0,
			Sources: configSources(ns, "max-attempts", "ORGCTL_MAX_ATTEMPTS"),
		},
	}
}

// NewDryRunFlag returns --dry-run for mutating commands.
func NewDryRunFlag(ns string) *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:    "dry-run",
		Aliases: []string{"n"},
		Usage:   "report what would change without changing it",
		Sources: configSources(ns, "dry-run", "ORGCTL_DRY_RUN"),
	}
}

// configSources builds the value chain for a flag: the given env vars first,
// then each config key from the most to the least specific namespace. A flag
// named max-attempts in namespace policy.apply looks up
// policy.apply.max_attempts, policy.max_attempts and max_attempts.
func configSources(ns string, name string, envVars ...string) cli.ValueSourceChain {
	chain := cli.NewValueSourceChain()
	for _, env := range envVars {
		chain.Chain = append(chain.Chain, cli.EnvVar(env))
	}

	path := config.Source()
	if path == "" {
		return chain
	}
	for _, key := range configKeys(ns, name) {
		chain.Chain = append(chain.Chain, yaml.YAML(key, altsrc.StringSourcer(path)))
	}
	return chain
}

// configKeys lists the config keys consulted for a flag, most specific first.
func configKeys(ns string, name string) []string {
	key := strcase.ToSnake(name)
	var keys []string
	if ns != "" {
		parts := strings.Split(ns, ".")
		for i := len(parts); i > 0; i-- {
			keys = append(keys, strings.Join(parts[:i], ".")+"."+key)
		}
	}
	return append(keys, key)
}
