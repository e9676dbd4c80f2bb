// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tfctl/orgctl/internal/command"
	"github.com/tfctl/orgctl/internal/config"
	"github.com/tfctl/orgctl/internal/log"
	"github.com/tfctl/orgctl/internal/version"
)

var ctx = context.Background()

// repeatableFlags may legitimately appear more than once.
var repeatableFlags = map[string]bool{
	"--tag": true,
	"--id":  true,
}

func main() {
	os.Exit(realMain(os.Args))
}

// handleVersion checks for --version/-v and returns whether it was handled.
func handleVersion(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-v" {
			fmt.Println(version.Version)
			return true
		}
	}
	return false
}

// handleNakedCommand appends --help if no command is provided.
func handleNakedCommand(args []string) []string {
	if len(args) <= 1 {
		return append(args, "--help")
	}
	return args
}

// initAndRunApp initializes the app and runs it, returning the exit code.
func initAndRunApp(args []string) int {
	app, err := command.InitApp(ctx, args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app init err: err=%v", err)
		return 1
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		log.Debugf("app run err: err=%v", err)
		return 2
	}

	return 0
}

func realMain(args []string) int {
	log.InitLogger()
	log.Debugf("args captured: args=%v", args)

	if handleVersion(args) {
		return 0
	}

	args = handleNakedCommand(args)

	// If --help appears anywhere, skip argument processing and let the CLI
	// handle it.
	helpFound := false
	for _, a := range args {
		if a == "--help" || a == "-h" {
			helpFound = true
			break
		}
	}

	if !helpFound {
		args = processSetOnly(args)
		args = deduplicateFlags(args)
		log.Debugf("args after processing: args=%v", args)
	}

	return initAndRunApp(args)
}

// processSetOnly expands an @set argument in place with the flags listed
// under <namespace>.<set> in the config file, e.g. "orgctl policy info @prod"
// reads policy.info.prod. Later flags override the expansion.
func processSetOnly(args []string) []string {
	removeIdx := -1
	set := ""
	for i, a := range args {
		if i > 0 && strings.HasPrefix(a, "@") {
			set = a[1:]
			removeIdx = i
			break
		}
	}
	if removeIdx == -1 {
		return args
	}

	args = append(args[:removeIdx:removeIdx], args[removeIdx+1:]...)

	key := set
	if ns := command.Namespace(args); ns != "" {
		key = ns + "." + set
	}
	entries, err := config.GetStringSlice(key)
	if err != nil {
		log.Debugf("set not found: key=%s err=%v", key, err)
		return args
	}
	return injectConfigSet(args, entries, removeIdx)
}

// injectConfigSet splits entries on whitespace and inserts the fields at
// insertIdx.
func injectConfigSet(args []string, entries []string, insertIdx int) []string {
	if len(entries) == 0 {
		return args
	}

	var expanded []string
	for _, entry := range entries {
		expanded = append(expanded, strings.Fields(entry)...)
	}

	out := make([]string, 0, len(args)+len(expanded))
	out = append(out, args[:insertIdx]...)
	out = append(out, expanded...)
	return append(out, args[insertIdx:]...)
}

// deduplicateFlags drops earlier occurrences of a flag so the last one wins,
// which lets command line flags override those injected from a set. A flag
// followed by a non-flag token is taken to carry that token as its value, so
// "--sort -name" keeps "-name" as the value.
// Repeatable flags are left alone.
func deduplicateFlags(args []string) []string {
	type occurrence struct {
		name  string
		start int
		end   int
	}

	var occurrences []occurrence
	for i := 0; i < len(args); i++ {
		a := args[i]
		if i == 0 || !isFlag(a) {
			continue
		}
		name, _, hasValue := strings.Cut(a, "=")
		end := i
		if !hasValue && i+1 < len(args) && !isFlag(args[i+1]) {
			end = i + 1
		}
		occurrences = append(occurrences, occurrence{name: name, start: i, end: end})
		i = end
	}

	last := map[string]int{}
	for idx, o := range occurrences {
		last[o.name] = idx
	}

	drop := map[int]bool{}
	for idx, o := range occurrences {
		if repeatableFlags[o.name] || last[o.name] == idx {
			continue
		}
		for j := o.start; j <= o.end; j++ {
			drop[j] = true
		}
	}

	result := make([]string, 0, len(args))
	for i, a := range args {
		if !drop[i] {
			result = append(result, a)
		}
	}
	return result
}

// isFlag reports whether a is a long flag or a single-letter short flag.
func isFlag(a string) bool {
	return strings.HasPrefix(a, "--") && len(a) > 2 || len(a) == 2 && a[0] == '-' && a[1] != '-'
}
