package ai

import "strings"

// HandleContentReasoning splits a model answer into the visible content and
// the reasoning some models prepend.
func HandleContentReasoning(text string) (content, reasoning string) {
	content = strings.TrimSpace(text)
	for _, tag := range []string{"think", "reasoning"} {
		open, closing := "<"+tag+">", "</"+tag+">"
		start := strings.Index(content, open)
		end := strings.Index(content, closing)
		if start >= 0 && end > start {
			reasoning = strings.TrimSpace(content[start+len(open) : end])
			content = strings.TrimSpace(content[:start] + content[end+len(closing):])
			return
		}
	}

	if strings.HasPrefix(content, "```reasoning") {
		rest := content[len("```reasoning"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			reasoning = strings.TrimSpace(rest[:end])
			content = strings.TrimSpace(rest[end+3:])
		}
	}
	return
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
