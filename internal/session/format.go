package session

import (
	"fmt"
	"strings"
)

// FormatDataInfo renders data descriptions for prompting, one
// "## <path>" block per file.
func FormatDataInfo(descriptions []DataDescription) string {
	if len(descriptions) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, d := range descriptions {
		if d.FilePath != "" {
			sb.WriteString("## " + d.FilePath + "\n")
		}
		if d.Description != "" {
			sb.WriteString(strings.TrimSpace(d.Description) + "\n")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// FormatPlanSteps renders a plan as a 1-indexed numbered list.
func FormatPlanSteps(plan []string) string {
	if len(plan) == 0 {
		return ""
	}
	lines := make([]string, len(plan))
	for i, step := range plan {
		lines[i] = fmt.Sprintf("%d. %s", i+1, step)
	}
	return strings.Join(lines, "\n")
}
