// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package orgs

import (
	"encoding/json"
	"fmt"

	"github.com/iancoleman/strcase"
)

// Normalize reshapes an API-shaped entity (or slice of them) into plain
// maps with snake_case keys. Null members are dropped. The keys of a tags
// map are user data and kept verbatim.
func Normalize(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return snakeKeys(doc), nil
}

func snakeKeys(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			if child == nil {
				continue
			}
			key := strcase.ToSnake(k)
			if key == "tags" {
				out[key] = child
				continue
			}
			out[key] = snakeKeys(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = snakeKeys(child)
		}
		return out
	default:
		return v
	}
}
