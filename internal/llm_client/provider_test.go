package llm_client

import (
	"context"
	"errors"
	"testing"
)

func TestInitRejectsUnknownBackend(t *testing.T) {
	if err := Init(Config{Backend: "mystery"}); err == nil {
		t.Error("expected an error for an unsupported backend")
	}
}

func TestGenerateBeforeInit(t *testing.T) {
	active = nil
	_, err := Generate(context.Background(), "prompt", "")
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestGeminiAllowedModelOrDefault(t *testing.T) {
	p := &geminiProvider{model: "gemini-2.5-pro"}

	testCases := []struct {
		name  string
		model string
		want  string
	}{
		{name: "Empty uses configured model", model: "", want: "gemini-2.5-pro"},
		{name: "Gemini-prefixed model accepted", model: "gemini-2.0-flash", want: "gemini-2.0-flash"},
		{name: "Mixed case prefix accepted", model: "Gemini-2.0-flash", want: "Gemini-2.0-flash"},
		{name: "Foreign model falls back to default", model: "phi4:latest", want: geminiDefault},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.AllowedModelOrDefault(tc.model); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestOllamaAllowedModelOrDefault(t *testing.T) {
	p := &ollamaProvider{model: ollamaDefault}

	if got := p.AllowedModelOrDefault(""); got != ollamaDefault {
		t.Errorf("expected configured default, got %q", got)
	}
	if got := p.AllowedModelOrDefault("llama3:8b"); got != "llama3:8b" {
		t.Errorf("expected any named model to be accepted, got %q", got)
	}
}
