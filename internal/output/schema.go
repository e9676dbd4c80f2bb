// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/tfctl/orgctl/internal/log"
)

// schemaTag represents a discovered attribute path used when emitting schema
// information (--schema flag).
type schemaTag struct {
	Kind string
	Name string
}

// maxSchemaDepth limits the depth of schema walking to prevent infinite
// recursion.
const maxSchemaDepth = 2

// DumpSchema writes a sorted list of attribute paths for the provided type
// to the provided writer. If w is nil, os.Stdout is used.
func DumpSchema(typ reflect.Type, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintln(w,
		`Attributes that are directly available to the --attrs, --filter and --sort
flags. Use --output=raw to see a complete document.`)
	fmt.Fprintln(w, "")

	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		log.Debugf("not a struct: %s", typ)
		return
	}

	tags := dumpSchemaWalker("", typ, 0)
	if len(tags) == 0 {
		log.Debugf("No tags found for type: %s", typ.Name())
		return
	}

	sort.Slice(tags, func(i, j int) bool {
		return tags[i].Name < tags[j].Name
	})

	for _, tag := range tags {
		fmt.Fprintln(w, tag.Name)
	}
}

// schemaName returns the normalized key of a field, the snake_case form of
// its json name.
func schemaName(field reflect.StructField) (string, bool) {
	name := field.Name
	if tagValue, ok := field.Tag.Lookup("json"); ok {
		tagName := strings.Split(tagValue, ",")[0]
		if tagName == "-" {
			return "", false
		}
		if tagName != "" {
			name = tagName
		}
	}
	return strcase.ToSnake(name), true
}

// dumpSchemaWalker recursively walks a struct type collecting the
// normalized paths of its exported fields.
func dumpSchemaWalker(holder string, typ reflect.Type, depth int) []schemaTag {
	tags := make([]schemaTag, 0)

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}

		name, ok := schemaName(field)
		if !ok {
			continue
		}
		if holder != "" {
			name = holder + "." + name
		}

		ft := field.Type
		for ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}

		log.Tracef("field: %s, type: %s", name, ft)

		switch ft.Kind() {
		case reflect.Struct:
			if depth < maxSchemaDepth {
				tags = append(tags, dumpSchemaWalker(name, ft, depth+1)...)
				continue
			}
		case reflect.Slice:
			elem := ft.Elem()
			for elem.Kind() == reflect.Ptr {
				elem = elem.Elem()
			}
			if elem.Kind() == reflect.Struct && depth < maxSchemaDepth {
				tags = append(tags, dumpSchemaWalker(name+"[*]", elem, depth+1)...)
				continue
			}
		case reflect.Map:
			tags = append(tags, schemaTag{Kind: "map", Name: name + ".<key>"})
			continue
		}

		tags = append(tags, schemaTag{Kind: ft.Kind().String(), Name: name})
	}

	return tags
}
