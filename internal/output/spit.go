// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"os"
	"reflect"
	"strconv"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v2"

	"github.com/tfctl/orgctl/internal/attrs"
	"github.com/tfctl/orgctl/internal/config"
	"github.com/tfctl/orgctl/internal/filters"
	"github.com/tfctl/orgctl/internal/log"
)

// InterfaceToString converts supported primitive or composite values to a
// string. A custom empty value may be provided.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	// Booleans are reported as-is; false is a meaningful value here.
	if b, ok := value.(bool); ok {
		return strconv.FormatBool(b)
	}

	if value == nil || reflect.ValueOf(value).IsZero() {
		return emptyValue[0]
	}

	switch value := value.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return fmt.Sprintf("%.0f", value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}

// Status is the outcome of a mutating command, reported alongside its rows.
type Status struct {
	Changed  bool
	Warnings []string
	Diff     string
}

// Prepare filters, projects, transforms and sorts raw, a JSON array of
// normalized entities.
func Prepare(raw []byte, al attrs.AttrList, opts Options) []map[string]interface{} {
	dataset := gjson.ParseBytes(raw)
	rows := filters.FilterDataset(dataset, al, opts.Filter)

	for _, row := range rows {
		for _, attr := range al {
			if attr.TransformSpec != "" {
				row[attr.OutputKey] = attr.Transform(row[attr.OutputKey])
			}
		}
	}

	SortDataset(rows, opts.Sort)
	log.Debugf("prepared: rows=%d of %d", len(rows), len(dataset.Array()))
	return rows
}

// SliceDiceSpit orchestrates filtering, transforming, sorting and rendering
// of a dataset. The optional postProcess callback lets commands adjust the
// rows before a text rendering.
func SliceDiceSpit(raw []byte,
	al attrs.AttrList,
	opts Options,
	w io.Writer,
	postProcess func([]map[string]interface{}) error) error {

	if w == nil {
		w = os.Stdout
	}

	if opts.Output == FormatRaw {
		return writeLine(w, raw)
	}

	rows := Prepare(raw, al, opts)

	switch opts.Output {
	case FormatJSON:
		return writeJSON(w, rows)
	case FormatYAML:
		return writeYAML(w, rows)
	default:
		if postProcess != nil {
			if err := postProcess(rows); err != nil {
				return fmt.Errorf("post process: %w", err)
			}
		}
		TableWriter(rows, al, opts, w)
		return nil
	}
}

// SpitResult renders the rows of a mutating command together with its
// Status. Structured formats wrap both in one document; text prints the
// table followed by the status lines.
func SpitResult(raw []byte, al attrs.AttrList, opts Options, w io.Writer, status Status) error {
	if w == nil {
		w = os.Stdout
	}

	warnings := status.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	switch opts.Output {
	case FormatRaw:
		var results interface{}
		if err := json.Unmarshal(raw, &results); err != nil {
			return fmt.Errorf("failed to parse results: %w", err)
		}
		return writeJSON(w, envelope(status, warnings, results))
	case FormatJSON:
		return writeJSON(w, envelope(status, warnings, Prepare(raw, al, opts)))
	case FormatYAML:
		return writeYAML(w, envelope(status, warnings, Prepare(raw, al, opts)))
	}

	if status.Diff != "" {
		fmt.Fprint(w, status.Diff)
	}
	TableWriter(Prepare(raw, al, opts), al, opts, w)
	fmt.Fprintf(w, "changed: %t\n", status.Changed)
	for _, warning := range warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	return nil
}

func envelope(status Status, warnings []string, results interface{}) map[string]interface{} {
	env := map[string]interface{}{
		"changed":  status.Changed,
		"warnings": warnings,
		"results":  results,
	}
	if status.Diff != "" {
		env["diff"] = status.Diff
	}
	return env
}

func writeJSON(w io.Writer, v interface{}) error {
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	return writeLine(w, out)
}

func writeYAML(w io.Writer, v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	_, err = w.Write(out)
	return err
}

func writeLine(w io.Writer, b []byte) error {
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// TableWriter renders the result set in a tabular form honoring color,
// titles and padding options. Output is written to w. If w is nil, os.Stdout
// is used.
func TableWriter(
	resultSet []map[string]interface{},
	al attrs.AttrList,
	opts Options,
	w io.Writer) {

	if w == nil {
		w = os.Stdout
	}

	if len(resultSet) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left).Bold(true)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if opts.Color {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(headerColor)
		evenRowStyle = evenRowStyle.Foreground(evenColor)
		oddRowStyle = oddRowStyle.Foreground(oddColor)
	}

	var rows [][]string
	for _, result := range resultSet {
		row := make([]string, 0, len(result))
		for _, attr := range al {
			if !attr.Include || attr.Key == "*" {
				continue
			}
			row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
		}
		rows = append(rows, row)
	}

	if opts.Header != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Header))
	}

	pad := opts.Padding
	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	if opts.Titles {
		var headers []string
		for _, attr := range al {
			if attr.Include && attr.Key != "*" {
				headers = append(headers, attr.OutputKey)
			}
		}

		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)

	if opts.Footer != "" {
		fmt.Fprintln(w, headerStyle.Render(opts.Footer))
	}
}

// getColors returns configured color values for table rendering. Each color is
// selected based on terminal background color and brightness so that we can
// make sure output is reasonably visible for all(?) terminal themes.
func getColors(key string) (header, even, odd color.Color) {
	isDark := lipgloss.HasDarkBackground(os.Stdin, os.Stdout)

	// Use the explicit color if found in the config and leave it up to the user
	// to choose appropriate colors for their theme. If not found, pick a
	// reasonable default based on terminal background.
	resolveColor := func(key string, light string, dark string) color.Color {
		colorCfg, err := config.GetString(key)
		if err == nil {
			return lipgloss.Color(colorCfg)
		}

		if isDark {
			return lipgloss.Color(dark)
		}
		return lipgloss.Color(light)
	}

	header = resolveColor(key+".title", "#b08800", "#f6be00")
	even = resolveColor(key+".even", "#333333", "#ffffff")
	odd = resolveColor(key+".odd", "#0088a0", "#00c8f0")

	return
}
