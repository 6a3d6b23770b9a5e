package session

import (
	"testing"

	"dstar/internal/sandbox"
)

func TestObservation(t *testing.T) {
	testCases := []struct {
		name   string
		result *sandbox.Result
		want   string
	}{
		{name: "No execution yet", result: nil, want: ""},
		{
			name:   "Success uses trimmed stdout",
			result: &sandbox.Result{Success: true, Output: "  42\n"},
			want:   "42",
		},
		{
			name:   "Failure uses trimmed error",
			result: &sandbox.Result{Success: false, Output: "partial", Error: " boom \n"},
			want:   "boom",
		},
		{
			name:   "Failure with blank error falls back to stdout",
			result: &sandbox.Result{Success: false, Output: " partial output ", Error: "  "},
			want:   "partial output",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			st := &State{LastExecution: tc.result}
			if got := st.Observation(); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
