package agents

import (
	"context"
	"strings"
)

// Verifier judges whether the current plan and result answer the query.
type Verifier struct {
	agent
}

func (v Verifier) Verify(ctx context.Context, planSteps, query, code, result string) (string, error) {
	response, err := v.invoke(ctx, map[string]string{
		"plan_steps": planSteps,
		"query":      query,
		"code":       code,
		"result":     result,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response), nil
}
