// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// segmentRegex splits one path segment into its key and optional index. Keys
// may hold any character but brackets so that tag keys such as
// "cost-center@finance" can be addressed.
var segmentRegex = regexp.MustCompile(`^([^\[\]]+)(\[(\d+|\*)?\])?$`)

// Driller navigates JSON using a dot path with optional array indexes.
//
//	attached_policies[0].name   one element
//	attached_policies[*].name   every element, as a list
//	attached_policies.name      every element, or the value itself when the
//	                            list holds exactly one
func Driller(jsonData string, path string) gjson.Result {
	current := gjson.Parse(jsonData)

	for _, p := range strings.Split(path, ".") {
		matches := segmentRegex.FindStringSubmatch(p)
		if len(matches) == 0 {
			return gjson.Result{}
		}

		key := gjson.Escape(matches[1])
		if current.IsArray() {
			// Project the key over every element of a list reached earlier.
			key = "#." + key
		}

		index := -1
		all := matches[3] == "*"
		if matches[3] != "" && !all {
			i, err := strconv.Atoi(matches[3])
			if err != nil {
				return gjson.Result{}
			}
			index = i
		}

		val := current.Get(key)
		if val.IsArray() && !all {
			arr := val.Array()
			switch {
			case index == -1:
				if len(arr) == 1 {
					val = arr[0]
				}
			case index < len(arr):
				val = arr[index]
			default:
				return gjson.Result{}
			}
		}

		current = val
	}

	return current
}
