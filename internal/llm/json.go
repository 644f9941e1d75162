package llm

import "strings"

// ExtractJSON pulls the JSON payload out of a model response. Models
// wrap JSON in code fences or surround it with prose; this trims the
// fences and cuts to the outermost object or array.
func ExtractJSON(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	objStart := strings.Index(content, "{")
	arrStart := strings.Index(content, "[")

	if arrStart >= 0 && (objStart < 0 || arrStart < objStart) {
		if end := strings.LastIndex(content, "]"); end > arrStart {
			return content[arrStart : end+1]
		}
	}
	if objStart >= 0 {
		if end := strings.LastIndex(content, "}"); end > objStart {
			return content[objStart : end+1]
		}
	}
	return content
}
