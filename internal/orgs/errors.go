// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package orgs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations/types"
	"github.com/aws/smithy-go"
)

// Kind discriminates the conditions a call site must handle explicitly.
type Kind int

const (
	KindOther Kind = iota
	KindNotFound
	KindAccessDenied
	KindConflict
	KindNotAttached
	KindPrecondition
	KindAmbiguous
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindAccessDenied:
		return "access denied"
	case KindConflict:
		return "conflict"
	case KindNotAttached:
		return "not attached"
	case KindPrecondition:
		return "precondition failed"
	case KindAmbiguous:
		return "ambiguous"
	case KindValidation:
		return "invalid input"
	default:
		return "error"
	}
}

// errorCodeKinds maps Organizations error codes onto a Kind. Codes missing
// from the map are KindOther.
var errorCodeKinds = map[string]Kind{
	"PolicyNotFoundException":             KindNotFound,
	"OrganizationalUnitNotFoundException": KindNotFound,
	"ParentNotFoundException":             KindNotFound,
	"ChildNotFoundException":              KindNotFound,
	"TargetNotFoundException":             KindNotFound,
	"AccessDeniedException":               KindAccessDenied,
	"ConcurrentModificationException":     KindConflict,
	"PolicyChangesInProgressException":    KindConflict,
	"PolicyNotAttachedException":          KindNotAttached,
}

// Classify returns the Kind of err. A nil error is KindOther; callers check
// err != nil first.
func Classify(err error) Kind {
	if err == nil {
		return KindOther
	}

	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind
	}

	var ae smithy.APIError
	if errors.As(err, &ae) {
		if k, ok := errorCodeKinds[ae.ErrorCode()]; ok {
			return k
		}
	}
	return KindOther
}

// IsKind reports whether err is non-nil and classifies as k.
func IsKind(err error, k Kind) bool {
	return err != nil && Classify(err) == k
}

// Error is a hard failure. It names the attempted operation and the
// identifier it was applied to. Structured context (blocking targets,
// matching policies, roots) is attached where the caller must act on it.
type Error struct {
	Op      string
	ID      string
	Kind    Kind
	Err     error
	Reason  string
	Targets []types.PolicyTargetSummary
	Matches []string
	Roots   []types.Root
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.ID != "" {
		fmt.Fprintf(&b, " %s", e.ID)
	}
	switch {
	case e.Reason != "" && e.Err != nil:
		fmt.Fprintf(&b, ": %s: %v", e.Reason, e.Err)
	case e.Reason != "":
		fmt.Fprintf(&b, ": %s", e.Reason)
	case e.Err != nil:
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// fail wraps a service error from op against id, keeping its classification.
func fail(op, id string, err error) error {
	return &Error{Op: op, ID: id, Kind: Classify(err), Err: err}
}

// invalid reports caller input rejected before any network call.
func invalid(field, format string, args ...any) error {
	return &Error{Op: "validate", ID: field, Kind: KindValidation, Reason: fmt.Sprintf(format, args...)}
}

// targetIDs lists the identifiers of targets for error messages.
func targetIDs(targets []types.PolicyTargetSummary) []string {
	ids := make([]string, 0, len(targets))
	for _, t := range targets {
		ids = append(ids, aws.ToString(t.TargetId))
	}
	return ids
}
