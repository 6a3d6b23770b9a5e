package display

import (
	"strings"
	"testing"
	"time"

	"dstar/internal/metrics"
	"dstar/internal/session"
)

func TestFormatPlan(t *testing.T) {
	got := FormatPlan([]string{"Load the data", "Sum the column"})
	want := "1. Load the data\n2. Sum the column"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if got := FormatPlan(nil); got != "(plan not available)" {
		t.Errorf("expected placeholder for empty plan, got %q", got)
	}
}

func TestFormatDataDescriptions(t *testing.T) {
	descriptions := []session.DataDescription{
		{FilePath: "sales.csv", Description: " Columns: a, b. \n"},
	}
	got := FormatDataDescriptions(descriptions)
	if !strings.Contains(got, "## sales.csv") || !strings.Contains(got, "Columns: a, b.") {
		t.Errorf("unexpected rendering:\n%s", got)
	}

	if got := FormatDataDescriptions(nil); got != "(no data files analyzed)" {
		t.Errorf("expected placeholder, got %q", got)
	}
}

func TestFormatOutcome(t *testing.T) {
	outcome := &session.Outcome{
		SessionID:    "ab12cd34",
		FinalCode:    "print('answer')",
		FinalPlan:    []string{"Load", "Sum"},
		Observations: []string{"first", "final observation"},
		Reason:       "verified",
	}

	got := FormatOutcome(outcome)
	for _, want := range []string{
		"Session ab12cd34 finished (verified)",
		"print('answer')",
		"1. Load",
		"2. Sum",
		"final observation",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected report to contain %q, got:\n%s", want, got)
		}
	}
	if strings.Contains(got, "first") {
		t.Error("expected only the last observation in the report")
	}
}

func TestFormatOutcomeEmptyCode(t *testing.T) {
	got := FormatOutcome(&session.Outcome{SessionID: "x", Reason: "max_rounds", FinalCode: "  "})
	if !strings.Contains(got, "(no code returned)") {
		t.Errorf("expected empty-code placeholder, got:\n%s", got)
	}
}

func TestClipLongObservation(t *testing.T) {
	long := strings.Repeat("x", maxObservationLength+50)
	got := clip(long)
	if len(got) != maxObservationLength+3 {
		t.Errorf("expected clipped length %d, got %d", maxObservationLength+3, len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("expected ellipsis suffix on clipped text")
	}
}

func TestFormatSolveMetrics(t *testing.T) {
	now := time.Now()
	sm := &metrics.SolveMetrics{
		SessionID:  "ab12cd34",
		Start:      now,
		End:        now.Add(1500 * time.Millisecond),
		DurationMs: 1500,
		Iterations: 2,
		Reason:     "verified",
		Phases: []metrics.PhaseMetrics{
			{
				Phase:      "execute",
				DurationMs: 900,
				Attempts: []metrics.AttemptMetrics{
					{Attempt: 1, DurationMs: 400, Success: false, Err: "boom"},
					{Attempt: 2, DurationMs: 500, Success: true},
				},
			},
		},
	}

	got := FormatSolveMetrics(sm)
	for _, want := range []string{"1500 ms", "iterations=2", "reason=verified", "execute", "attempt 1", "[err]", "attempt 2", "[ok]"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected metrics output to contain %q, got:\n%s", want, got)
		}
	}

	if got := FormatSolveMetrics(nil); got != "No metrics available." {
		t.Errorf("expected nil placeholder, got %q", got)
	}
}
