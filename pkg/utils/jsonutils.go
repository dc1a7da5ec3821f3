package utils

import (
	"encoding/json"
	"fmt"
)

// GetNestedString extracts a string from a nested map
func GetNestedString(data map[string]interface{}, keys ...string) (string, error) {
	var current interface{} = data

	for i, key := range keys {
		m, ok := current.(map[string]interface{})
		if !ok {
			return "", fmt.Errorf("key %s is not a map", keys[i-1])
		}

		if i == len(keys)-1 {
			if str, ok := m[key].(string); ok {
				return str, nil
			}
			return "", fmt.Errorf("key %s is not a string", key)
		}
		current = m[key]
	}

	return "", fmt.Errorf("invalid keys")
}

// GetNestedMap extracts a map from a nested map
func GetNestedMap(data map[string]interface{}, keys ...string) (map[string]interface{}, error) {
	current := data
	for _, key := range keys {
		next, ok := current[key].(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("key %s is not a map", key)
		}
		current = next
	}
	return current, nil
}

// GetFirstMapValue returns the value of the lexically first key in a map
func GetFirstMapValue(m map[string]interface{}) (interface{}, error) {
	first := ""
	found := false
	for k := range m {
		if !found || k < first {
			first = k
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("map is empty")
	}
	return m[first], nil
}

// ParseJSON parses a JSON string into a map
func ParseJSON(jsonStr string) (map[string]interface{}, error) {
	var result map[string]interface{}
	err := json.Unmarshal([]byte(jsonStr), &result)
	if err != nil {
		return nil, fmt.Errorf("error parsing JSON: %w", err)
	}
	return result, nil
}
