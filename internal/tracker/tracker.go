package tracker

import (
	"fmt"
	"sync"
	"time"
)

type Kind string

const (
	KindPhaseStart     Kind = "phase_start"
	KindPhaseEnd       Kind = "phase_end"
	KindExecutionStart Kind = "execution_start"
	KindExecutionEnd   Kind = "execution_end"
	KindDebugAttempt   Kind = "debug_attempt"
	KindInfo           Kind = "info"
	KindError          Kind = "error"
)

// Activity is one recorded event of a solving session.
type Activity struct {
	Time    time.Time `json:"time"`
	Kind    Kind      `json:"kind"`
	Phase   string    `json:"phase,omitempty"`
	Message string    `json:"message"`
}

func (a Activity) String() string {
	ts := a.Time.Format("15:04:05")
	if a.Phase != "" {
		return fmt.Sprintf("[%s] [%s] %s", ts, a.Phase, a.Message)
	}
	return fmt.Sprintf("[%s] %s", ts, a.Message)
}

const defaultMaxActivities = 1000

// Tracker is an injectable activity sink. All methods are safe on a nil
// receiver, so callers that do not care about tracking pass nil.
type Tracker struct {
	mu         sync.Mutex
	activities []Activity
	max        int
}

func New() *Tracker {
	return &Tracker{max: defaultMaxActivities}
}

func (t *Tracker) Record(kind Kind, phase, message string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.activities = append(t.activities, Activity{
		Time:    time.Now(),
		Kind:    kind,
		Phase:   phase,
		Message: message,
	})
	max := t.max
	if max <= 0 {
		max = defaultMaxActivities
	}
	if len(t.activities) > max {
		t.activities = t.activities[len(t.activities)-max:]
	}
}

func (t *Tracker) Recordf(kind Kind, phase, format string, args ...any) {
	if t == nil {
		return
	}
	t.Record(kind, phase, fmt.Sprintf(format, args...))
}

// All returns a copy of the recorded activities, oldest first.
func (t *Tracker) All() []Activity {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Activity, len(t.activities))
	copy(out, t.activities)
	return out
}

func (t *Tracker) Len() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.activities)
}

// Reset clears the buffer; callers reset explicitly between runs.
func (t *Tracker) Reset() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.activities = nil
}
