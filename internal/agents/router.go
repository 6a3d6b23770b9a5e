package agents

import (
	"context"
	"strconv"
	"strings"
)

// Router decides whether to add a plan step or backtrack to an earlier one.
type Router struct {
	agent
}

func (r Router) Decide(ctx context.Context, planSteps, query, lastResult, dataInfo string, numSteps int) (string, error) {
	response, err := r.invoke(ctx, map[string]string{
		"plan_steps":  planSteps,
		"query":       query,
		"last_result": lastResult,
		"data_info":   dataInfo,
		"num_steps":   strconv.Itoa(numSteps),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response), nil
}
