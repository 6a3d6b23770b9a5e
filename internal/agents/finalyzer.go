package agents

import (
	"context"

	"dstar/internal/prompts"
)

const defaultGuidelines = "Print the answer clearly and concisely."

// Finalyzer formats the final solution script. When unconfigured it passes
// the working code through unchanged.
type Finalyzer struct {
	agent
}

func (f Finalyzer) Finalize(ctx context.Context, query, code, result, dataInfo, guidelines string) (string, error) {
	if !f.configured() {
		return code, nil
	}
	if guidelines == "" {
		guidelines = defaultGuidelines
	}
	response, err := f.invoke(ctx, map[string]string{
		"query":      query,
		"code":       code,
		"result":     result,
		"data_info":  dataInfo,
		"guidelines": guidelines,
	})
	if err != nil {
		return "", err
	}
	return prompts.ExtractCode(response), nil
}
