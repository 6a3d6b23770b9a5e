package metrics

import "time"

type AttemptMetrics struct {
	Attempt    int       `json:"attempt"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	DurationMs int64     `json:"duration_ms"`
	Success    bool      `json:"success"`
	Err        string    `json:"err,omitempty"`
}

type PhaseMetrics struct {
	Phase      string           `json:"phase"`
	Start      time.Time        `json:"start"`
	End        time.Time        `json:"end"`
	DurationMs int64            `json:"duration_ms"`
	Attempts   []AttemptMetrics `json:"attempts,omitempty"`
}

type SolveMetrics struct {
	SessionID  string         `json:"session_id"`
	Start      time.Time      `json:"start"`
	End        time.Time      `json:"end"`
	DurationMs int64          `json:"duration_ms"`
	Iterations int            `json:"iterations"`
	Reason     string         `json:"reason,omitempty"`
	Phases     []PhaseMetrics `json:"phases"`
}

// Compute derived fields for a phase.
func (p *PhaseMetrics) Finalize() {
	p.DurationMs = p.End.Sub(p.Start).Milliseconds()
}

func (m *SolveMetrics) Finalize() {
	m.DurationMs = m.End.Sub(m.Start).Milliseconds()
}
