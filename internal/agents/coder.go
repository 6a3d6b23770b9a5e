package agents

import (
	"context"

	"dstar/internal/prompts"
)

// Coder implements plan steps as runnable scripts.
type Coder struct {
	initial agent
	next    agent
}

func (c Coder) GenerateInitial(ctx context.Context, planStep, dataInfo string) (string, error) {
	response, err := c.initial.invoke(ctx, map[string]string{
		"plan_step": planStep,
		"data_info": dataInfo,
	})
	if err != nil {
		return "", err
	}
	return prompts.ExtractCode(response), nil
}

func (c Coder) GenerateNext(ctx context.Context, previousPlans, currentPlan, query, previousCode, dataInfo string) (string, error) {
	response, err := c.next.invoke(ctx, map[string]string{
		"previous_plans": previousPlans,
		"current_plan":   currentPlan,
		"query":          query,
		"previous_code":  previousCode,
		"data_info":      dataInfo,
	})
	if err != nil {
		return "", err
	}
	return prompts.ExtractCode(response), nil
}
