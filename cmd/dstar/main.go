package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"dstar/internal/cli"
	"dstar/internal/llm_client"
	"dstar/internal/logger"
)

func main() {
	// A missing .env is fine; environment variables may be set directly.
	_ = godotenv.Load()

	if err := logger.Init("dstar.log"); err != nil {
		log.Fatalf("Fatal Error: Could not initialize logger: %v", err)
	}
	defer logger.Close()

	if err := llm_client.Init(llm_client.Config{
		Backend:    os.Getenv("LLM_BACKEND"),
		Model:      os.Getenv("LLM_MODEL"),
		OllamaHost: os.Getenv("OLLAMA_HOST"),
	}); err != nil {
		log.Fatalf("Fatal Error: Could not initialize LLM client: %v", err)
	}

	cli.Execute()
}
