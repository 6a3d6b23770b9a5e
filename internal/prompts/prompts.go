package prompts

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

//go:embed templates/*.txt
var defaults embed.FS

// The fixed set of prompt slots. Every generation phase is bound to exactly
// one of these names; Set rejects anything else.
const (
	KeyAnalyzer          = "analyzer"
	KeyPlannerInitial    = "planner_initial"
	KeyPlannerNext       = "planner_next"
	KeyCoderInitial      = "coder_initial"
	KeyCoderNext         = "coder_next"
	KeyVerifier          = "verifier"
	KeyRouter            = "router"
	KeyDebuggerSummarize = "debugger_summarize"
	KeyDebuggerAnalyzer  = "debugger_analyzer"
	KeyDebuggerSolution  = "debugger_solution"
	KeyFinalyzer         = "finalyzer"
)

var promptKeys = []string{
	KeyAnalyzer,
	KeyPlannerInitial,
	KeyPlannerNext,
	KeyCoderInitial,
	KeyCoderNext,
	KeyVerifier,
	KeyRouter,
	KeyDebuggerSummarize,
	KeyDebuggerAnalyzer,
	KeyDebuggerSolution,
	KeyFinalyzer,
}

// Keys returns the recognized prompt names in a stable order.
func Keys() []string {
	out := make([]string, len(promptKeys))
	copy(out, promptKeys)
	return out
}

// Library holds the mutable prompt text for each recognized slot.
type Library struct {
	mu    sync.RWMutex
	texts map[string]string
}

// Default returns a library populated from the embedded templates.
func Default() *Library {
	lib := &Library{texts: make(map[string]string, len(promptKeys))}
	for _, key := range promptKeys {
		data, err := defaults.ReadFile("templates/" + key + ".txt")
		if err != nil {
			continue // slot stays empty; the owning phase fails at point of use
		}
		lib.texts[key] = string(data)
	}
	return lib
}

// Load builds a library from the embedded defaults, then overlays any
// <key>.txt files found in dir. Files whose base name is not a recognized
// key are ignored.
func Load(dir string) (*Library, error) {
	lib := Default()

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("prompts directory not found: %s", dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("prompts path is not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read prompts directory: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".txt") {
			continue
		}
		key := strings.TrimSuffix(name, ".txt")
		if !known(key) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("could not read prompt %s: %w", name, err)
		}
		lib.mu.Lock()
		lib.texts[key] = string(data)
		lib.mu.Unlock()
	}
	return lib, nil
}

func known(key string) bool {
	for _, k := range promptKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the current text for name, or "" if the slot is empty or the
// name is unrecognized.
func (l *Library) Get(name string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.texts[name]
}

// Set replaces the text for a recognized prompt slot.
func (l *Library) Set(name, text string) error {
	if !known(name) {
		return fmt.Errorf("unknown prompt name: %q (recognized: %s)", name, strings.Join(promptKeys, ", "))
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.texts[name] = text
	return nil
}
