package session

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"dstar/internal/executor"
	"dstar/internal/tracker"
)

const analysisConcurrency = 4

// analyzeFiles produces one DataDescription per attached file, preserving
// input order. Files are independent, so they are analyzed in parallel with
// a concurrency cap; generation failures abort, execution failures degrade
// to an embedded error description instead.
func (s *Solver) analyzeFiles(ctx context.Context, query string, dataFiles []string) ([]DataDescription, error) {
	descriptions := make([]DataDescription, len(dataFiles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(analysisConcurrency)

	for i, path := range dataFiles {
		g.Go(func() error {
			desc, err := s.analyzeFile(gctx, path)
			if err != nil {
				return fmt.Errorf("analyzing %s: %w", path, err)
			}
			descriptions[i] = desc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return s.selectRelevant(query, descriptions), nil
}

func (s *Solver) analyzeFile(ctx context.Context, path string) (DataDescription, error) {
	s.tracker.Recordf(tracker.KindExecutionStart, phaseAnalyze, "inspecting %s", path)

	script, err := s.agents.Analyzer.GenerateScript(ctx, path)
	if err != nil {
		return DataDescription{}, err
	}

	var fix executor.Fixer
	if s.agents.AnalyzerDebugger.Configured() {
		fix = func(ctx context.Context, failing, summary string) (string, error) {
			s.tracker.Recordf(tracker.KindDebugAttempt, phaseAnalyze, "fixing inspection script for %s", path)
			return s.agents.AnalyzerDebugger.Debug(ctx, failing, summary)
		}
	}

	loop := s.newLoop(nil)
	code, result, err := loop.Run(ctx, script, fix)
	if err != nil {
		return DataDescription{}, err
	}

	var description string
	if result.Success {
		description = strings.TrimSpace(result.Output)
	} else {
		detail := strings.TrimSpace(result.Error)
		if detail == "" {
			detail = strings.TrimSpace(result.Output)
		}
		description = fmt.Sprintf("ERROR: Failed to analyze file after %d attempts.\n%s",
			loop.MaxAttempts, detail)
		s.tracker.Recordf(tracker.KindError, phaseAnalyze, "giving up on %s after %d attempts", path, loop.MaxAttempts)
	}

	return DataDescription{FilePath: path, Description: description, Script: code}, nil
}

// selectRelevant optionally narrows the description set. The current policy
// is a deterministic prefix take of the first TopKFiles entries; the query
// is accepted but reserved for future relevance scoring.
func (s *Solver) selectRelevant(query string, descriptions []DataDescription) []DataDescription {
	_ = query
	if !s.opts.UseRetriever || len(descriptions) <= s.opts.TopKFiles {
		return descriptions
	}
	return descriptions[:s.opts.TopKFiles]
}
