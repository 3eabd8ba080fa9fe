package config

import "strings"

// flattenMap 将嵌套 map 展平为点号分隔的 key
// 例如：{"server": {"port": 8080}} -> {"server.port": 8080}
func flattenMap(prefix string, data map[string]any) map[string]any {
	result := make(map[string]any)

	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]any); ok {
			for nk, nv := range flattenMap(fullKey, nested) {
				result[nk] = nv
			}
			continue
		}
		result[fullKey] = value
	}

	return result
}

// unflattenMap 将展平 map 还原为嵌套 map
// 例如：{"server.port": 8080} -> {"server": {"port": 8080}}
func unflattenMap(flat map[string]any) map[string]any {
	result := make(map[string]any)
	for key, value := range flat {
		setNestedValue(result, key, value)
	}
	return result
}

func setNestedValue(m map[string]any, key string, value any) {
	keys := strings.Split(key, ".")

	current := m
	for i, k := range keys {
		if k == "" {
			return
		}
		if i == len(keys)-1 {
			current[k] = value
			return
		}

		next, ok := current[k].(map[string]any)
		if !ok {
			// 不是 map（或不存在）则覆盖为新的嵌套层
			next = make(map[string]any)
			current[k] = next
		}
		current = next
	}
}
