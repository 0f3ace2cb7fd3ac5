package types

import (
	"encoding/json"
	"fmt"
)

// FlattenProperties flattens nested maps into a single level of graph-storable
// primitives. Nested keys are joined with "_", lists of primitives are joined
// into a comma-separated string, other lists are JSON-encoded, and nil values
// become empty strings.
func FlattenProperties(properties map[string]any) map[string]any {
	return flattenProperties(properties, "", "_")
}

func flattenProperties(properties map[string]any, prefix, separator string) map[string]any {
	flattened := make(map[string]any, len(properties))

	for key, value := range properties {
		newKey := key
		if prefix != "" {
			newKey = prefix + separator + key
		}

		switch v := value.(type) {
		case map[string]any:
			for nk, nv := range flattenProperties(v, newKey, separator) {
				flattened[nk] = nv
			}
		case []any:
			flattened[newKey] = flattenList(v)
		case nil:
			flattened[newKey] = ""
		case string, bool, int, int32, int64, float32, float64:
			flattened[newKey] = v
		default:
			flattened[newKey] = fmt.Sprintf("%v", v)
		}
	}

	return flattened
}

func flattenList(items []any) any {
	allPrimitive := true
	for _, item := range items {
		switch item.(type) {
		case string, bool, int, int32, int64, float32, float64:
		default:
			allPrimitive = false
		}
	}

	if allPrimitive {
		joined := ""
		for i, item := range items {
			if i > 0 {
				joined += ", "
			}
			joined += fmt.Sprintf("%v", item)
		}
		return joined
	}

	encoded, err := json.Marshal(items)
	if err != nil {
		return fmt.Sprintf("%v", items)
	}
	return string(encoded)
}
