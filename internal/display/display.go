package display

import (
	"fmt"
	"strings"

	"dstar/internal/session"
)

const rule = "--------------------------------------------------"

const maxObservationLength = 2000

func FormatPlan(plan []string) string {
	if len(plan) == 0 {
		return "(plan not available)"
	}
	var sb strings.Builder
	for i, step := range plan {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func FormatDataDescriptions(descriptions []session.DataDescription) string {
	if len(descriptions) == 0 {
		return "(no data files analyzed)"
	}
	var sb strings.Builder
	for _, d := range descriptions {
		sb.WriteString("## " + d.FilePath + "\n")
		sb.WriteString(strings.TrimSpace(d.Description) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatOutcome renders the full end-of-session report.
func FormatOutcome(o *session.Outcome) string {
	var sb strings.Builder
	sb.WriteString(rule + "\n")
	sb.WriteString(fmt.Sprintf("Session %s finished (%s)\n", o.SessionID, o.Reason))
	sb.WriteString(rule + "\n")

	sb.WriteString("Final solution code:\n")
	if strings.TrimSpace(o.FinalCode) == "" {
		sb.WriteString("(no code returned)\n")
	} else {
		sb.WriteString(o.FinalCode + "\n")
	}

	sb.WriteString("\nFinal plan:\n")
	sb.WriteString(FormatPlan(o.FinalPlan) + "\n")

	if len(o.Observations) > 0 {
		sb.WriteString("\nLast observation:\n")
		sb.WriteString(clip(o.Observations[len(o.Observations)-1]) + "\n")
	}
	sb.WriteString(rule)
	return sb.String()
}

func clip(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxObservationLength {
		return s[:maxObservationLength] + "..."
	}
	return s
}
