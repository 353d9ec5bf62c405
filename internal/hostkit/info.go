package hostkit

import "strings"

// ParseInfo splits a "KEY=value|KEY=value" info payload into a map.
// Segments without '=' are skipped.
func ParseInfo(message string) map[string]string {
	info := make(map[string]string)
	for _, part := range strings.Split(message, "|") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		info[key] = value
	}
	return info
}
