// Package agents binds the generation capability to the prompt slots used by
// each solving phase. An agent is configured when its prompt slot is
// non-empty; invoking an unconfigured agent is a configuration error raised
// at the point of use.
package agents

import (
	"context"
	"fmt"
	"strings"

	"dstar/internal/prompts"
)

// Client is the generation capability the agents depend on.
type Client interface {
	Generate(ctx context.Context, prompt, model string) (string, error)
}

type agent struct {
	client Client
	lib    *prompts.Library
	key    string
	model  string
}

func (a agent) configured() bool {
	return a.lib != nil && strings.TrimSpace(a.lib.Get(a.key)) != ""
}

func (a agent) invoke(ctx context.Context, fields map[string]string) (string, error) {
	if a.lib == nil {
		return "", fmt.Errorf("prompt library not set for agent '%s'", a.key)
	}
	template := a.lib.Get(a.key)
	if strings.TrimSpace(template) == "" {
		return "", fmt.Errorf("prompt not configured for agent '%s'", a.key)
	}
	return a.client.Generate(ctx, prompts.Render(template, fields), a.model)
}

// Bundle holds one agent per phase, all bound to the same client and prompt
// library. Prompt edits through the library are picked up on the next invoke.
type Bundle struct {
	Analyzer         Analyzer
	AnalyzerDebugger AnalyzerDebugger
	SolutionDebugger SolutionDebugger
	Summarizer       TracebackSummarizer
	Planner          Planner
	Coder            Coder
	Verifier         Verifier
	Router           Router
	Finalyzer        Finalyzer
}

func NewBundle(client Client, lib *prompts.Library, model string) *Bundle {
	bind := func(key string) agent {
		return agent{client: client, lib: lib, key: key, model: model}
	}
	return &Bundle{
		Analyzer:         Analyzer{bind(prompts.KeyAnalyzer)},
		AnalyzerDebugger: AnalyzerDebugger{bind(prompts.KeyDebuggerAnalyzer)},
		SolutionDebugger: SolutionDebugger{bind(prompts.KeyDebuggerSolution)},
		Summarizer:       TracebackSummarizer{bind(prompts.KeyDebuggerSummarize)},
		Planner: Planner{
			initial: bind(prompts.KeyPlannerInitial),
			next:    bind(prompts.KeyPlannerNext),
		},
		Coder: Coder{
			initial: bind(prompts.KeyCoderInitial),
			next:    bind(prompts.KeyCoderNext),
		},
		Verifier:  Verifier{bind(prompts.KeyVerifier)},
		Router:    Router{bind(prompts.KeyRouter)},
		Finalyzer: Finalyzer{bind(prompts.KeyFinalyzer)},
	}
}
