package prompts

import (
	"regexp"
	"strings"
)

var (
	pythonFence = regexp.MustCompile("(?is)```python\\s*(.*?)```")
	plainFence  = regexp.MustCompile("(?s)```\\s*(.*?)```")
)

// Render substitutes {name} placeholders in a template with the given field
// values. Placeholders without a matching field are left untouched.
func Render(template string, fields map[string]string) string {
	if len(fields) == 0 {
		return template
	}
	pairs := make([]string, 0, len(fields)*2)
	for name, value := range fields {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// ExtractCode pulls the first fenced code block out of a generated response,
// preferring ```python fences; the raw trimmed text is the fallback.
func ExtractCode(text string) string {
	if text == "" {
		return ""
	}
	if m := pythonFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := plainFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}
