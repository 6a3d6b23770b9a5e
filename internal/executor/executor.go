package executor

import (
	"context"
	"strings"
	"time"

	"dstar/internal/sandbox"
)

const DefaultMaxAttempts = 3

// Runner is the sandbox contract the retry loop drives.
type Runner interface {
	RunWithTimeout(code string, timeout time.Duration) sandbox.Result
}

// Fixer produces revised code from failing code and a failure summary.
// Its errors are generation failures and abort the loop.
type Fixer func(ctx context.Context, code, failureSummary string) (string, error)

// Summarizer compresses a raw failure trace before it reaches a fixer.
// Its failures are always swallowed in favor of the raw trace.
type Summarizer func(ctx context.Context, traceback string) (string, error)

// Loop is the bounded run/fix/rerun policy shared by the analysis and
// solution phases.
type Loop struct {
	Runner      Runner
	MaxAttempts int
	Timeout     time.Duration
	Summarizer  Summarizer

	// OnAttempt, when set, observes every sandbox run (1-based attempt).
	OnAttempt func(attempt int, result sandbox.Result)
}

// Run executes code, asking fix for revisions after failed runs, up to
// MaxAttempts runs total. A successful run returns immediately. The fixer is
// never invoked after the last allowed run, so the returned code may still be
// failing; callers must check result.Success.
func (l *Loop) Run(ctx context.Context, code string, fix Fixer) (string, sandbox.Result, error) {
	maxAttempts := l.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	current := code
	var last sandbox.Result

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return current, last, err
		}

		last = l.Runner.RunWithTimeout(current, l.Timeout)
		if l.OnAttempt != nil {
			l.OnAttempt(attempt+1, last)
		}
		if last.Success {
			return current, last, nil
		}

		if attempt == maxAttempts-1 || fix == nil {
			break
		}

		summary := l.summarizeFailure(ctx, last)
		revised, err := fix(ctx, current, summary)
		if err != nil {
			return current, last, err
		}
		current = revised
	}

	return current, last, nil
}

func (l *Loop) summarizeFailure(ctx context.Context, result sandbox.Result) string {
	raw := result.Traceback
	if raw == "" {
		raw = result.Error
	}
	raw = strings.TrimSpace(raw)

	if l.Summarizer == nil {
		return raw
	}
	summary, err := l.Summarizer(ctx, raw)
	if err != nil || strings.TrimSpace(summary) == "" {
		return raw
	}
	return strings.TrimSpace(summary)
}
