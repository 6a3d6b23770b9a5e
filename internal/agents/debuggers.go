package agents

import (
	"context"
	"strings"

	"dstar/internal/prompts"
)

// AnalyzerDebugger fixes failing inspection scripts from a failure summary.
type AnalyzerDebugger struct {
	agent
}

func (d AnalyzerDebugger) Configured() bool { return d.configured() }

func (d AnalyzerDebugger) Debug(ctx context.Context, script, errorTraceback string) (string, error) {
	response, err := d.invoke(ctx, map[string]string{
		"script":          script,
		"error_traceback": errorTraceback,
	})
	if err != nil {
		return "", err
	}
	return prompts.ExtractCode(response), nil
}

// SolutionDebugger fixes failing solution scripts; it additionally sees the
// data-context description.
type SolutionDebugger struct {
	agent
}

func (d SolutionDebugger) Configured() bool { return d.configured() }

func (d SolutionDebugger) Debug(ctx context.Context, script, errorTraceback, dataInfo string) (string, error) {
	response, err := d.invoke(ctx, map[string]string{
		"script":          script,
		"error_traceback": errorTraceback,
		"data_info":       dataInfo,
	})
	if err != nil {
		return "", err
	}
	return prompts.ExtractCode(response), nil
}

// TracebackSummarizer compresses raw failure traces. It is best-effort: when
// unconfigured it passes the trace through, and callers treat its errors as
// a cue to fall back to the raw trace.
type TracebackSummarizer struct {
	agent
}

func (s TracebackSummarizer) Configured() bool { return s.configured() }

func (s TracebackSummarizer) Summarize(ctx context.Context, errorTraceback string) (string, error) {
	if !s.configured() {
		return errorTraceback, nil
	}
	response, err := s.invoke(ctx, map[string]string{"error_traceback": errorTraceback})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(response) == "" {
		return errorTraceback, nil
	}
	return strings.TrimSpace(response), nil
}
