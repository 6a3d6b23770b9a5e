package session

import (
	"strings"

	"dstar/internal/sandbox"
)

type Verdict string

const (
	VerdictSufficient   Verdict = "SUFFICIENT"
	VerdictInsufficient Verdict = "INSUFFICIENT"
)

// DataDescription is the outcome of analyzing one attached data file:
// the generated inspection script and the textual summary it printed, or an
// error message when every debug attempt failed. Immutable once created.
type DataDescription struct {
	FilePath    string `json:"file_path"`
	Description string `json:"description"`
	Script      string `json:"script"`
}

// State is the single mutable session record. One Solve call owns it
// exclusively end to end; phases run strictly sequentially over it.
type State struct {
	ID           string
	Query        string
	DataFiles    []string
	Descriptions []DataDescription

	Plan          []string
	Code          string
	LastExecution *sandbox.Result
	Observations  []string

	// Iteration increments only on an insufficient verification verdict and
	// is capped by MaxRefinementRounds, which bounds the whole run.
	Iteration        int
	Verification     Verdict
	VerifierResponse string
	Decision         Decision

	FinalizationReason string
	FinalCode          string
}

// Observation renders the most recent execution for downstream phases:
// trimmed stdout on success, otherwise trimmed error text falling back to
// stdout.
func (s *State) Observation() string {
	return observationOf(s.LastExecution)
}

func observationOf(result *sandbox.Result) string {
	if result == nil {
		return ""
	}
	if result.Success {
		return strings.TrimSpace(result.Output)
	}
	if strings.TrimSpace(result.Error) != "" {
		return strings.TrimSpace(result.Error)
	}
	return strings.TrimSpace(result.Output)
}
