package display

import (
	"fmt"
	"strings"

	"dstar/internal/metrics"
)

func FormatSolveMetrics(sm *metrics.SolveMetrics) string {
	if sm == nil {
		return "No metrics available."
	}
	var sb strings.Builder
	sb.WriteString("Session metrics:\n")
	sb.WriteString(fmt.Sprintf("- Total: %d ms  (iterations=%d, reason=%s)\n",
		sm.DurationMs, sm.Iterations, sm.Reason))
	for _, p := range sm.Phases {
		sb.WriteString(fmt.Sprintf("  %-10s %6d ms\n", p.Phase, p.DurationMs))
		for _, a := range p.Attempts {
			status := "ok"
			if !a.Success {
				status = "err"
			}
			sb.WriteString(fmt.Sprintf("    attempt %d: %5d ms  [%s]\n",
				a.Attempt, a.DurationMs, status))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
