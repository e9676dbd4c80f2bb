// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tfctl/orgctl/internal/meta"
	"github.com/tfctl/orgctl/internal/orgs"
	"github.com/tfctl/orgctl/internal/output"
)

// flagValues lists the fixed choices offered after a flag.
var flagValues = map[string][]string{
	"--output": output.Formats,
	"-o":       output.Formats,
	"--type":   orgs.PolicyTypeChoices(),
}

// completionWords maps each command path ("", "policy", "policy apply") to
// the words offered there.
func completionWords(root *cli.Command) map[string][]string {
	words := map[string][]string{}
	var walk func(path string, cmd *cli.Command)
	walk = func(path string, cmd *cli.Command) {
		var w []string
		for _, sub := range cmd.Commands {
			if sub.Hidden {
				continue
			}
			w = append(w, sub.Name)
			walk(strings.TrimSpace(path+" "+sub.Name), sub)
		}
		for _, f := range cmd.Flags {
			for _, name := range f.Names() {
				if len(name) == 1 {
					w = append(w, "-"+name)
				} else {
					w = append(w, "--"+name)
				}
			}
		}
		sort.Strings(w)
		words[path] = w
	}
	walk("", root)
	return words
}

// writeBashCompletion renders a bash completion script for root.
func writeBashCompletion(w io.Writer, root *cli.Command) {
	words := completionWords(root)
	paths := make([]string, 0, len(words))
	for p := range words {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	fmt.Fprintf(w, "# bash completion for %[1]s\n_%[1]s()\n{\n", root.Name)
	fmt.Fprintln(w, `    local cur prev path w i
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
    path=""
    for ((i=1; i<COMP_CWORD; i++)); do
        w=${COMP_WORDS[$i]}
        [[ $w == -* ]] && break
        path="${path:+$path }$w"
    done

    case "$prev" in`)
	values := make([]string, 0, len(flagValues))
	for f := range flagValues {
		values = append(values, f)
	}
	sort.Strings(values)
	for _, f := range values {
		fmt.Fprintf(w, "    %s) COMPREPLY=( $(compgen -W %q -- \"$cur\") ); return 0 ;;\n", f, strings.Join(flagValues[f], " "))
	}
	fmt.Fprintln(w, `    esac

    case "$path" in`)
	for _, p := range paths {
		fmt.Fprintf(w, "    %q) COMPREPLY=( $(compgen -W %q -- \"$cur\") ) ;;\n", p, strings.Join(words[p], " "))
	}
	fmt.Fprintf(w, "    esac\n}\n\ncomplete -F _%[1]s %[1]s\n", root.Name)
}

// writeZshCompletion renders a zsh script that reuses the bash one.
func writeZshCompletion(w io.Writer, root *cli.Command) {
	fmt.Fprintf(w, "#compdef %s\n\nautoload -U +X bashcompinit && bashcompinit\n", root.Name)
	writeBashCompletion(w, root)
}

func completionCommandAction(_ context.Context, cmd *cli.Command) error {
	shell := cmd.Args().First()
	if shell == "" {
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}

	switch shell {
	case "bash":
		writeBashCompletion(writer(cmd), cmd.Root())
	case "zsh":
		writeZshCompletion(writer(cmd), cmd.Root())
	default:
		return fmt.Errorf("usage: orgctl completion [bash|zsh]")
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "orgctl completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
