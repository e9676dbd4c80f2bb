// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/tfctl/orgctl/internal/log"
)

// Delta is the outcome of comparing two policy documents.
type Delta struct {
	diff gojsondiff.Diff
	left map[string]interface{}
}

// Modified reports whether the documents differ semantically.
func (d Delta) Modified() bool {
	return d.diff != nil && d.diff.Modified()
}

// Render formats the delta as an annotated copy of the left document. An
// unmodified delta renders as "".
func (d Delta) Render(color bool) (string, error) {
	if !d.Modified() {
		return "", nil
	}
	f := formatter.NewAsciiFormatter(d.left, formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       color,
	})
	return f.Format(d.diff)
}

// Compare parses both documents and compares their canonical forms, so key
// order, whitespace, array order and a scalar written where a one-element list
// is allowed never count as a difference.
func Compare(current, desired string) (Delta, error) {
	left, err := Parse(current)
	if err != nil {
		return Delta{}, fmt.Errorf("failed to parse current document: %w", err)
	}
	right, err := Parse(desired)
	if err != nil {
		return Delta{}, fmt.Errorf("failed to parse desired document: %w", err)
	}

	left = Canonical(left)
	right = Canonical(right)
	diff := gojsondiff.New().CompareObjects(left, right)
	log.Debugf("document compare: modified=%v deltas=%d", diff.Modified(), len(diff.Deltas()))

	return Delta{diff: diff, left: left}, nil
}

// Equal reports whether two documents are semantically identical.
func Equal(a, b string) (bool, error) {
	d, err := Compare(a, b)
	if err != nil {
		return false, err
	}
	return !d.Modified(), nil
}

// Parse decodes a policy document, which must be a JSON object.
func Parse(doc string) (map[string]interface{}, error) {
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("document is not a JSON object")
	}
	return m, nil
}

// listKeys name the policy elements that accept a string or a list of strings.
var listKeys = map[string]bool{
	"Action":       true,
	"NotAction":    true,
	"Resource":     true,
	"NotResource":  true,
	"Principal":    true,
	"NotPrincipal": true,
}

// Canonical returns doc with every array sorted and the scalar values of
// listKeys (and of Principal maps such as {"AWS": "..."}) wrapped into
// one-element lists. doc is not modified.
func Canonical(doc map[string]interface{}) map[string]interface{} {
	return canonical(doc, false).(map[string]interface{})
}

func canonical(v interface{}, wrap bool) interface{} {
	switch v := v.(type) {
	case map[string]interface{}:
		// A wrapped map is a Principal block whose values take lists too.
		out := make(map[string]interface{}, len(v))
		for k, child := range v {
			out[k] = canonical(child, wrap || listKeys[k])
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, child := range v {
			out[i] = canonical(child, false)
		}
		sortValues(out)
		return out
	default:
		if wrap {
			return []interface{}{v}
		}
		return v
	}
}

// sortValues orders values by their JSON encoding, which is stable for maps
// because encoding/json sorts keys.
func sortValues(values []interface{}) {
	keys := make([]string, len(values))
	for i, v := range values {
		b, _ := json.Marshal(v)
		keys[i] = string(b)
	}
	sort.Sort(byKey{values, keys})
}

type byKey struct {
	values []interface{}
	keys   []string
}

func (b byKey) Len() int           { return len(b.values) }
func (b byKey) Less(i, j int) bool { return b.keys[i] < b.keys[j] }
func (b byKey) Swap(i, j int) {
	b.values[i], b.values[j] = b.values[j], b.values[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}
