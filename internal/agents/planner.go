package agents

import (
	"context"
	"strings"
)

// Planner generates the initial plan step and each subsequent one.
type Planner struct {
	initial agent
	next    agent
}

func (p Planner) GenerateInitial(ctx context.Context, query, dataInfo string) (string, error) {
	response, err := p.initial.invoke(ctx, map[string]string{
		"query":     query,
		"data_info": dataInfo,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response), nil
}

func (p Planner) GenerateNext(ctx context.Context, planSteps, query, lastResult, dataInfo string) (string, error) {
	response, err := p.next.invoke(ctx, map[string]string{
		"plan_steps":  planSteps,
		"query":       query,
		"last_result": lastResult,
		"data_info":   dataInfo,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response), nil
}
