package agents

import (
	"context"

	"dstar/internal/prompts"
)

// Analyzer generates inspection scripts that describe data files.
type Analyzer struct {
	agent
}

func (a Analyzer) GenerateScript(ctx context.Context, dataFile string) (string, error) {
	response, err := a.invoke(ctx, map[string]string{"data_file": dataFile})
	if err != nil {
		return "", err
	}
	return prompts.ExtractCode(response), nil
}
