// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package orgs

import (
	"fmt"

	"github.com/tfctl/orgctl/internal/log"
)

// Config carries the behaviour switches for one invocation. It is copied
// into each manager; nothing here is read from globals.
type Config struct {
	// DryRun reports what would change without calling mutating endpoints.
	DryRun bool
	// TolerateTargetListDenied lets a delete proceed as if the policy had no
	// targets when listing them is denied. Off by default: the delete fails
	// before anything is removed.
	TolerateTargetListDenied bool
}

// DescribeOptions selects the auxiliary lookups a describe performs.
type DescribeOptions struct {
	FetchTargets     bool
	FetchAttachments bool
}

// Warnings collects the non-fatal conditions raised during an invocation.
type Warnings struct {
	msgs []string
}

// Warnf records and logs a warning.
func (w *Warnings) Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Warnf("%s", msg)
	w.msgs = append(w.msgs, msg)
}

// List returns the warnings recorded so far.
func (w *Warnings) List() []string {
	if w == nil {
		return nil
	}
	return append([]string(nil), w.msgs...)
}

// base holds what the policy and OU managers share.
type base struct {
	api  API
	cfg  Config
	warn *Warnings
}

func newBase(api API, cfg Config, warn *Warnings) base {
	if warn == nil {
		warn = &Warnings{}
	}
	return base{api: api, cfg: cfg, warn: warn}
}

// Warnings returns the warnings recorded by this manager.
func (b *base) Warnings() []string { return b.warn.List() }

// tolerate degrades an access-denied sub-query to an empty result with a
// warning. Any other error becomes a hard failure of op against id.
func (b *base) tolerate(err error, what, op, id string) error {
	if err == nil {
		return nil
	}
	if IsKind(err, KindAccessDenied) {
		b.warn.Warnf("access denied fetching %s for %s", what, id)
		return nil
	}
	return fail(op, id, err)
}
