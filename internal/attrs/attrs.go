// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tfctl/orgctl/internal/log"
)

var lengthSpec = regexp.MustCompile(`-?\d+`)

// Attr is one output column. Key is a dotted path into the normalized
// (snake_case) form of an entity.
type Attr struct {
	// Path to extract from the entity.
	Key string `yaml:"key" json:"Key"`
	// False when the attr only feeds --filter or --sort.
	Include bool `yaml:"include" json:"Include"`
	// Output key, and the column title for text output.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// Transform letters and length, see Transform.
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

// Transform applies the attr's spec to value. The spec letters are:
//
//	u/U  upper case        l/L  lower case (the later of the two wins)
//	a/A  ARN to resource id, e.g. .../service_control_policy/p-abcd -> p-abcd
//	j/J  join a list of scalars with ", "
//	N    truncate to N runes; -N keeps both ends around ".."
//
// Lists are only touched by a and j. Maps and other scalars pass through.
func (a *Attr) Transform(value interface{}) interface{} {
	spec := a.TransformSpec
	if spec == "" {
		return value
	}

	if list, ok := value.([]interface{}); ok {
		if strings.ContainsAny(spec, "aA") {
			list = mapStrings(list, arnResource)
		}
		if !strings.ContainsAny(spec, "jJ") {
			return list
		}
		parts := make([]string, 0, len(list))
		for _, v := range list {
			parts = append(parts, fmt.Sprint(v))
		}
		value = strings.Join(parts, ", ")
		log.Tracef("list joined: value=%v", value)
	}

	result, ok := value.(string)
	if !ok {
		log.Tracef("non-string value: value=%v", value)
		return value
	}

	if strings.ContainsAny(spec, "aA") {
		result = arnResource(result)
	}
	result = applyCase(spec, result)
	result = applyLength(spec, result)

	return result
}

// arnResource returns the last path element of an ARN, or s unchanged when it
// is not one.
func arnResource(s string) string {
	if !strings.HasPrefix(s, "arn:") {
		return s
	}
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

func mapStrings(list []interface{}, fn func(string) string) []interface{} {
	out := make([]interface{}, len(list))
	for i, v := range list {
		if s, ok := v.(string); ok {
			out[i] = fn(s)
		} else {
			out[i] = v
		}
	}
	return out
}

// applyCase honours whichever case letter appears last, so that an attr's
// own spec beats a global one prepended to it. IOW, --attrs '*::U,name::l'
// leaves name lower case.
func applyCase(spec, s string) string {
	lastL := strings.LastIndexAny(spec, "lL")
	lastU := strings.LastIndexAny(spec, "uU")
	switch {
	case lastL > lastU:
		return strings.ToLower(s)
	case lastU > lastL:
		return strings.ToUpper(s)
	}
	return s
}

// applyLength uses the last number in spec. A negative length keeps both ends
// and elides the middle, which suits ARNs and account emails.
func applyLength(spec, s string) string {
	match := lengthSpec.FindAllString(spec, -1)
	if len(match) == 0 {
		return s
	}
	l, _ := strconv.Atoi(match[len(match)-1])
	r := []rune(s)
	abs := l
	if abs < 0 {
		abs = -abs
	}
	if len(r) <= abs {
		return s
	}
	if l >= 0 {
		return string(r[:l])
	}
	keep := max(abs/2-1, 0)
	return string(r[:keep]) + ".." + string(r[len(r)-keep:])
}

// AttrList is a collection of Attr used to shape output fields.
type AttrList []Attr

// Set parses a comma separated --attrs value. Each spec is
// path[:output[:transform]]. A leading ! keeps the attr for filtering and
// sorting only, and the path * carries a transform applied to every attr.
// Specs naming an attr already in the list (by key or output key) update it
// in place, so users can retitle or hide a command's default columns.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		log.Debugf("early return: value=%s", value)
		return nil
	}

	for _, spec := range strings.Split(value, ",") {
		attr, err := parseSpec(spec)
		if err != nil {
			return err
		}
		a.merge(attr)
	}

	return nil
}

func parseSpec(spec string) (Attr, error) {
	fields := strings.SplitN(spec, ":", 3)
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	key, excluded := strings.CutPrefix(fields[0], "!")
	attr := Attr{Key: strings.TrimPrefix(key, "."), Include: !excluded}
	if attr.Key == "" {
		return attr, fmt.Errorf("invalid attr spec: %q", spec)
	}
	if attr.Key == "*" {
		attr.Include = false
	}

	attr.OutputKey = attr.Key[strings.LastIndex(attr.Key, ".")+1:]
	if len(fields) > 1 && fields[1] != "" {
		attr.OutputKey = fields[1]
	}
	if len(fields) > 2 {
		attr.TransformSpec = fields[2]
	}
	log.Tracef("spec parsed: attr=%+v", attr)

	return attr, nil
}

func (a *AttrList) merge(attr Attr) {
	for i := range *a {
		if (*a)[i].Key == attr.Key || (*a)[i].OutputKey == attr.Key {
			(*a)[i].Include = attr.Include
			(*a)[i].OutputKey = attr.OutputKey
			(*a)[i].TransformSpec = attr.TransformSpec
			log.Tracef("existing updated: i=%d", i)
			return
		}
	}
	*a = append(*a, attr)
}

// SetGlobalTransformSpec prepends the first * attr's transform to every attr.
func (a *AttrList) SetGlobalTransformSpec() error {
	spec := ""
	for _, attr := range *a {
		if attr.Key == "*" {
			spec = attr.TransformSpec
			break
		}
	}
	log.Debugf("global spec: spec=%s", spec)

	if spec == "" {
		return nil
	}

	for i := range *a {
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}

	return nil
}

// String returns the list in --attrs form.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		result = append(result, fmt.Sprintf("%s:%s:%s", attr.Key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Type returns the flag type for use with the flag.Value interface.
func (a *AttrList) Type() string { return "list" }
