// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Command docsgen renders one markdown page per orgctl subcommand. Flags
// come from the live command tree; descriptions, examples and notes come
// from docs/templates/orgctl.yaml.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/tfctl/orgctl/internal/command"
	"github.com/tfctl/orgctl/internal/meta"
)

type Config struct {
	Subcommands []Subcommand `yaml:"subcommands"`
}

type Subcommand struct {
	ID          string    `yaml:"id"`
	Description string    `yaml:"description"`
	Examples    []Example `yaml:"examples"`
	Notes       []string  `yaml:"notes,omitempty"`
}

type Example struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description"`
}

type Flag struct {
	Syntax      string
	Description string
	Default     string
}

type TemplateData struct {
	Subcommand
	Name    string
	Short   string
	Usage   string
	Flags   []Flag
	Date    string
	Version string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: docsgen <docs dir>")
		os.Exit(1)
	}
	if err := generate(os.Args[1], getVersion(), os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// generate writes <docs>/commands/<id>.md for every leaf command.
func generate(docs, version string, log io.Writer) error {
	data, err := os.ReadFile(filepath.Join(docs, "templates", "orgctl.yaml"))
	if err != nil {
		return err
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return err
	}
	extra := map[string]Subcommand{}
	for _, sub := range config.Subcommands {
		extra[sub.ID] = sub
	}

	tmpl, err := template.ParseFiles(filepath.Join(docs, "templates", "orgctl.md.tmpl"))
	if err != nil {
		return err
	}

	app, err := command.NewApp(meta.Meta{Args: []string{"orgctl"}, Context: context.Background()})
	if err != nil {
		return err
	}

	folder := filepath.Join(docs, "commands")
	if err := os.MkdirAll(folder, 0755); err != nil {
		return err
	}

	for _, leaf := range leaves(app, "") {
		id := strings.ReplaceAll(leaf.path, " ", "-")
		sub := extra[id]
		sub.ID = id

		metadata := TemplateData{
			Subcommand: sub,
			Name:       "orgctl " + leaf.path,
			Short:      leaf.cmd.Usage,
			Usage:      leaf.cmd.UsageText,
			Flags:      docFlags(leaf.cmd.Flags),
			Date:       time.Now().Format("January 2, 2006"),
			Version:    version,
		}

		name := filepath.Join(folder, id+".md")
		fmt.Fprintln(log, "Generating", name)
		file, err := os.Create(name)
		if err != nil {
			return err
		}
		err = tmpl.Execute(file, metadata)
		file.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

type leaf struct {
	path string
	cmd  *cli.Command
}

func leaves(cmd *cli.Command, path string) []leaf {
	if len(cmd.Commands) == 0 {
		return []leaf{{path, cmd}}
	}
	var out []leaf
	for _, sub := range cmd.Commands {
		out = append(out, leaves(sub, strings.TrimSpace(path+" "+sub.Name))...)
	}
	return out
}

func docFlags(flags []cli.Flag) []Flag {
	var out []Flag
	for _, f := range flags {
		names := f.Names()
		syntax := "--" + names[0]
		for _, alias := range names[1:] {
			if len(alias) == 1 {
				syntax = "-" + alias + ", " + syntax
			}
		}
		doc := Flag{Syntax: syntax}
		if d, ok := f.(interface{ GetUsage() string }); ok {
			doc.Description = d.GetUsage()
		}
		if d, ok := f.(interface{ GetDefaultText() string }); ok {
			doc.Default = d.GetDefaultText()
		}
		out = append(out, doc)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.TrimLeft(out[i].Syntax, "-") < strings.TrimLeft(out[j].Syntax, "-")
	})
	return out
}

// getVersion returns the version string from git tags, stripping the leading
// "v" prefix. Falls back to "dev" if git describe fails.
func getVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--abbrev=0").Output()
	if err != nil {
		return "dev"
	}

	version := strings.TrimSpace(string(out))
	return strings.TrimPrefix(version, "v")
}
