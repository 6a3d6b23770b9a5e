package session

import (
	"strconv"
	"strings"
)

type DecisionKind int

const (
	DecisionUnrecognized DecisionKind = iota
	DecisionAddStep
	DecisionRollback
)

// Decision is the router's instruction, parsed once from the raw capability
// output so downstream logic never re-reads free text.
type Decision struct {
	Kind  DecisionKind
	Index int    // 1-based rollback target, set only for DecisionRollback
	Raw   string // original response, kept for logging
}

// ParseDecision classifies a raw router response: the literal "add step"
// (case-insensitive), a stringified integer, or anything else
// (unrecognized, which downstream treats as a no-op).
func ParseDecision(raw string) Decision {
	d := Decision{Raw: raw}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return d
	}
	if strings.EqualFold(trimmed, "add step") {
		d.Kind = DecisionAddStep
		return d
	}
	if k, err := strconv.Atoi(trimmed); err == nil {
		d.Kind = DecisionRollback
		d.Index = k
		return d
	}
	return d
}

// TruncatePlan applies a router decision to the plan. "Add Step" and
// unrecognized decisions leave the plan unchanged (the latter is a defensive
// default for malformed router output, not a success signal). A rollback to
// k keeps the first min(len, k) steps; k <= 0 empties the plan.
func TruncatePlan(plan []string, decision Decision) []string {
	switch decision.Kind {
	case DecisionRollback:
		if decision.Index <= 0 {
			return []string{}
		}
		keep := decision.Index
		if keep > len(plan) {
			keep = len(plan)
		}
		out := make([]string, keep)
		copy(out, plan[:keep])
		return out
	default:
		out := make([]string, len(plan))
		copy(out, plan)
		return out
	}
}
