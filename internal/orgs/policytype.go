// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package orgs

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/organizations/types"
)

// PolicyType is one of the four policy types this package manages.
type PolicyType string

const (
	ServiceControlPolicy   PolicyType = PolicyType(types.PolicyTypeServiceControlPolicy)
	TagPolicy              PolicyType = PolicyType(types.PolicyTypeTagPolicy)
	BackupPolicy           PolicyType = PolicyType(types.PolicyTypeBackupPolicy)
	AIServicesOptOutPolicy PolicyType = PolicyType(types.PolicyTypeAiservicesOptOutPolicy)
)

// DefaultPolicyType applies when no type is given.
const DefaultPolicyType = ServiceControlPolicy

// AllPolicyTypes is the order in which attached policies are gathered.
var AllPolicyTypes = []PolicyType{
	ServiceControlPolicy,
	TagPolicy,
	AIServicesOptOutPolicy,
	BackupPolicy,
}

var policyTypeAliases = map[string]PolicyType{
	"service_control":    ServiceControlPolicy,
	"tag":                TagPolicy,
	"backup":             BackupPolicy,
	"aiservices_opt_out": AIServicesOptOutPolicy,
}

// ParsePolicyType resolves a short alias or API literal. An empty string
// yields DefaultPolicyType.
func ParsePolicyType(s string) (PolicyType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultPolicyType, nil
	}
	if pt, ok := policyTypeAliases[s]; ok {
		return pt, nil
	}
	for _, pt := range AllPolicyTypes {
		if string(pt) == s {
			return pt, nil
		}
	}
	return "", invalid("policy_type", "unrecognized policy type %q, must be one of %s",
		s, strings.Join(PolicyTypeChoices(), ", "))
}

// Alias returns the short lower-case name of t.
func (t PolicyType) Alias() string {
	for alias, pt := range policyTypeAliases {
		if pt == t {
			return alias
		}
	}
	return strings.ToLower(string(t))
}

// API converts t to the SDK enum.
func (t PolicyType) API() types.PolicyType { return types.PolicyType(t) }

// PolicyTypeChoices lists every accepted spelling, alias first.
func PolicyTypeChoices() []string {
	choices := make([]string, 0, 2*len(AllPolicyTypes))
	for _, pt := range AllPolicyTypes {
		choices = append(choices, pt.Alias(), string(pt))
	}
	return choices
}
