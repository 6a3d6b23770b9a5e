package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dstar/internal/agents"
	"dstar/internal/executor"
	"dstar/internal/metrics"
	"dstar/internal/prompts"
	"dstar/internal/sandbox"
	"dstar/internal/tracker"
)

const (
	phaseAnalyze  = "analyze"
	phasePlan     = "plan"
	phaseCode     = "code"
	phaseExecute  = "execute"
	phaseVerify   = "verify"
	phaseRoute    = "route"
	phaseFinalize = "finalize"
)

const (
	ReasonVerified  = "verified"
	ReasonMaxRounds = "max_rounds"
)

type Options struct {
	MaxRefinementRounds int           // cap on insufficient-verification iterations
	MaxDebugAttempts    int           // sandbox-run budget per debug-retry loop
	UseRetriever        bool          // enables the relevance-reduction step
	TopKFiles           int           // reduction target and trigger threshold
	ExecTimeout         time.Duration // wall-clock limit per sandbox run
	Model               string

	Tracker *tracker.Tracker // optional activity sink, nil-safe
	Runner  executor.Runner  // optional sandbox override, defaults to python3
}

func (o Options) withDefaults() Options {
	if o.MaxRefinementRounds <= 0 {
		o.MaxRefinementRounds = 10
	}
	if o.MaxDebugAttempts <= 0 {
		o.MaxDebugAttempts = 3
	}
	if o.TopKFiles <= 0 {
		o.TopKFiles = 10
	}
	if o.ExecTimeout <= 0 {
		o.ExecTimeout = sandbox.DefaultTimeout
	}
	return o
}

// Solver wires the phases into the iterative solving loop. It is safe to
// run multiple Solve calls from independent Solvers concurrently; a single
// Solver runs one session at a time.
type Solver struct {
	opts    Options
	lib     *prompts.Library
	agents  *agents.Bundle
	runner  executor.Runner
	tracker *tracker.Tracker
}

func New(client agents.Client, lib *prompts.Library, opts Options) *Solver {
	opts = opts.withDefaults()
	s := &Solver{
		opts:    opts,
		lib:     lib,
		agents:  agents.NewBundle(client, lib, opts.Model),
		tracker: opts.Tracker,
	}
	if opts.Runner != nil {
		s.runner = opts.Runner
	} else {
		r := sandbox.NewRunner()
		r.Timeout = opts.ExecTimeout
		s.runner = r
	}
	return s
}

// SetPrompt overrides the template for one recognized prompt slot.
func (s *Solver) SetPrompt(name, text string) error {
	return s.lib.Set(name, text)
}

// ExecuteCode runs code through the sandbox directly, outside any session.
func (s *Solver) ExecuteCode(code string, timeout time.Duration) sandbox.Result {
	return s.runner.RunWithTimeout(code, timeout)
}

// Outcome is what a finished session hands back to the caller.
type Outcome struct {
	SessionID    string
	FinalCode    string
	FinalPlan    []string
	Observations []string
	Reason       string
	Metrics      *metrics.SolveMetrics
}

// Solve runs the full state machine:
//
//	analyze -> plan -> code -> execute -> verify
//	  -> {finalize | route -> plan -> code -> execute ...}
//
// A SUFFICIENT verdict finalizes with reason "verified" and always wins over
// the round cap; otherwise the run finalizes with "max_rounds" once the
// iteration count reaches MaxRefinementRounds. Only generation-capability
// and configuration errors abort; execution failures degrade per phase.
func (s *Solver) Solve(ctx context.Context, query string, dataFiles []string) (*Outcome, error) {
	st := &State{
		ID:        uuid.New().String()[:8],
		Query:     query,
		DataFiles: append([]string(nil), dataFiles...),
	}
	sm := &metrics.SolveMetrics{SessionID: st.ID, Start: time.Now()}
	defer func() {
		sm.End = time.Now()
		sm.Finalize()
		sm.Iterations = st.Iteration
		sm.Reason = st.FinalizationReason
	}()

	pm := s.startPhase(phaseAnalyze, "analyzing data files")
	descriptions, err := s.analyzeFiles(ctx, query, st.DataFiles)
	if err != nil {
		return nil, s.failPhase(sm, pm, err)
	}
	st.Descriptions = descriptions
	s.endPhase(sm, pm)

	dataInfo := FormatDataInfo(st.Descriptions)

	pm = s.startPhase(phasePlan, "generating initial plan")
	firstStep, err := s.agents.Planner.GenerateInitial(ctx, query, dataInfo)
	if err != nil {
		return nil, s.failPhase(sm, pm, err)
	}
	st.Plan = []string{firstStep}
	s.endPhase(sm, pm)

	pm = s.startPhase(phaseCode, "implementing initial plan")
	code, err := s.agents.Coder.GenerateInitial(ctx, st.Plan[0], dataInfo)
	if err != nil {
		return nil, s.failPhase(sm, pm, err)
	}
	st.Code = code
	s.endPhase(sm, pm)

	for {
		pm = s.startPhase(phaseExecute, "executing solution code")
		finalCode, result, err := s.executeSolution(ctx, st.Code, dataInfo, pm)
		if err != nil {
			return nil, s.failPhase(sm, pm, err)
		}
		st.Code = finalCode
		st.LastExecution = &result
		st.Observations = append(st.Observations, observationOf(&result))
		s.endPhase(sm, pm)

		pm = s.startPhase(phaseVerify, "verifying plan sufficiency")
		response, err := s.agents.Verifier.Verify(ctx, FormatPlanSteps(st.Plan), query, st.Code, st.Observation())
		if err != nil {
			return nil, s.failPhase(sm, pm, err)
		}
		st.VerifierResponse = response
		st.Verification = ClassifyVerification(response)
		if st.Verification == VerdictInsufficient {
			st.Iteration++
		}
		s.tracker.Recordf(tracker.KindInfo, phaseVerify, "verdict=%s iteration=%d", st.Verification, st.Iteration)
		s.endPhase(sm, pm)

		if st.Verification == VerdictSufficient {
			st.FinalizationReason = ReasonVerified
			break
		}
		if st.Iteration >= s.opts.MaxRefinementRounds {
			st.FinalizationReason = ReasonMaxRounds
			break
		}

		pm = s.startPhase(phaseRoute, "routing next action")
		rawDecision, err := s.agents.Router.Decide(ctx, FormatPlanSteps(st.Plan), query, st.Observation(), dataInfo, len(st.Plan))
		if err != nil {
			return nil, s.failPhase(sm, pm, err)
		}
		st.Decision = ParseDecision(rawDecision)
		s.tracker.Recordf(tracker.KindInfo, phaseRoute, "decision=%q", rawDecision)
		s.endPhase(sm, pm)

		// A rollback decision shrinks the plan before the new step lands.
		pm = s.startPhase(phasePlan, "generating next plan step")
		plan := TruncatePlan(st.Plan, st.Decision)
		nextStep, err := s.agents.Planner.GenerateNext(ctx, FormatPlanSteps(plan), query, st.Observation(), dataInfo)
		if err != nil {
			return nil, s.failPhase(sm, pm, err)
		}
		st.Plan = append(plan, nextStep)
		s.endPhase(sm, pm)

		pm = s.startPhase(phaseCode, "implementing updated plan")
		previousPlans := ""
		if len(st.Plan) > 1 {
			previousPlans = FormatPlanSteps(st.Plan[:len(st.Plan)-1])
		}
		currentPlan := st.Plan[len(st.Plan)-1]
		code, err := s.agents.Coder.GenerateNext(ctx, previousPlans, currentPlan, query, st.Code, dataInfo)
		if err != nil {
			return nil, s.failPhase(sm, pm, err)
		}
		st.Code = code
		s.endPhase(sm, pm)
	}

	pm = s.startPhase(phaseFinalize, "finalizing solution")
	if st.FinalizationReason == "" {
		st.FinalizationReason = ReasonVerified
	}
	finalCode, err := s.agents.Finalyzer.Finalize(ctx, query, st.Code, st.Observation(), dataInfo, "")
	if err != nil {
		return nil, s.failPhase(sm, pm, err)
	}
	st.FinalCode = finalCode
	s.endPhase(sm, pm)

	return &Outcome{
		SessionID:    st.ID,
		FinalCode:    st.FinalCode,
		FinalPlan:    append([]string(nil), st.Plan...),
		Observations: append([]string(nil), st.Observations...),
		Reason:       st.FinalizationReason,
		Metrics:      sm,
	}, nil
}

// executeSolution drives the current solution code through the debug-retry
// loop, recording one attempt metric per sandbox run.
func (s *Solver) executeSolution(ctx context.Context, code, dataInfo string, pm *metrics.PhaseMetrics) (string, sandbox.Result, error) {
	var fix executor.Fixer
	if s.agents.SolutionDebugger.Configured() {
		fix = func(ctx context.Context, failing, summary string) (string, error) {
			s.tracker.Record(tracker.KindDebugAttempt, phaseExecute, "fixing solution script")
			return s.agents.SolutionDebugger.Debug(ctx, failing, summary, dataInfo)
		}
	}

	attemptStart := time.Now()
	loop := s.newLoop(func(attempt int, result sandbox.Result) {
		now := time.Now()
		pm.Attempts = append(pm.Attempts, metrics.AttemptMetrics{
			Attempt:    attempt,
			Start:      attemptStart,
			End:        now,
			DurationMs: now.Sub(attemptStart).Milliseconds(),
			Success:    result.Success,
			Err:        result.Error,
		})
		s.tracker.Recordf(tracker.KindExecutionEnd, phaseExecute, "attempt %d success=%v", attempt, result.Success)
		attemptStart = time.Now()
	})

	s.tracker.Recordf(tracker.KindExecutionStart, phaseExecute, "running solution (budget %d attempts)", loop.MaxAttempts)
	return loop.Run(ctx, code, fix)
}

func (s *Solver) newLoop(onAttempt func(int, sandbox.Result)) *executor.Loop {
	return &executor.Loop{
		Runner:      s.runner,
		MaxAttempts: s.opts.MaxDebugAttempts,
		Timeout:     s.opts.ExecTimeout,
		Summarizer: func(ctx context.Context, traceback string) (string, error) {
			return s.agents.Summarizer.Summarize(ctx, traceback)
		},
		OnAttempt: onAttempt,
	}
}

func (s *Solver) startPhase(name, message string) *metrics.PhaseMetrics {
	s.tracker.Record(tracker.KindPhaseStart, name, message)
	return &metrics.PhaseMetrics{Phase: name, Start: time.Now()}
}

func (s *Solver) endPhase(sm *metrics.SolveMetrics, pm *metrics.PhaseMetrics) {
	pm.End = time.Now()
	pm.Finalize()
	sm.Phases = append(sm.Phases, *pm)
	s.tracker.Recordf(tracker.KindPhaseEnd, pm.Phase, "done in %d ms", pm.DurationMs)
}

func (s *Solver) failPhase(sm *metrics.SolveMetrics, pm *metrics.PhaseMetrics, err error) error {
	s.tracker.Record(tracker.KindError, pm.Phase, err.Error())
	s.endPhase(sm, pm)
	return fmt.Errorf("%s phase: %w", pm.Phase, err)
}
