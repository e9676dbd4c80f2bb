// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tfctl/orgctl/internal/orgs"
	"github.com/tfctl/orgctl/internal/output"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

func OutputValidator(value any) error {
	s, _ := value.(string)
	if !slices.Contains(output.Formats, s) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

// PolicyTypeValidator accepts any API name or alias. Empty means the default.
func PolicyTypeValidator(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := orgs.ParsePolicyType(s); err != nil {
		return fmt.Errorf("must be one of %v", orgs.PolicyTypeChoices())
	}
	return nil
}

// TagValidator accepts key=value pairs with a non-empty key.
func TagValidator(value any) error {
	tags, _ := value.([]string)
	for _, tag := range tags {
		k, _, ok := strings.Cut(tag, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return fmt.Errorf("tag %q must be key=value", tag)
		}
	}
	return nil
}
