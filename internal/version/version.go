// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Do not import any other orgctl packages to avoid import cycles.

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the module version of the binary, or "dev" for local builds.
// It can be overridden at link time with -ldflags "-X ...version.Version=".
var Version = func() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}()

// Revision returns the VCS revision recorded at build time, shortened to
// twelve characters, or "" when none was recorded.
func Revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	return revision(info.Settings)
}

func revision(settings []debug.BuildSetting) string {
	var rev string
	dirty := false
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	if rev != "" && dirty {
		rev += "-dirty"
	}
	return rev
}

// String returns the long form printed by the version command.
func String() string {
	s := "orgctl " + Version
	if rev := Revision(); rev != "" {
		s += " (" + rev + ")"
	}
	return fmt.Sprintf("%s %s/%s %s", s, runtime.GOOS, runtime.GOARCH, runtime.Version())
}
