package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dstar/internal/display"
	"dstar/internal/listener"
	"dstar/internal/llm_client"
	"dstar/internal/logger"
	"dstar/internal/prompts"
	"dstar/internal/sandbox"
	"dstar/internal/session"
	"dstar/internal/tracker"
)

var (
	flagBackend       string
	flagQueryFile     string
	flagDataFiles     []string
	flagPromptsDir    string
	flagModel         string
	flagInterpreter   string
	flagMaxRounds     int
	flagDebugAttempts int
	flagUseRetriever  bool
	flagTopKFiles     int
	flagExecTimeout   time.Duration
	flagQuiet         bool
)

var rootCmd = &cobra.Command{
	Use:   "dstar",
	Short: "An iterative data-analysis solver driven by an LLM",
	Long: `dstar answers a data-science query against a set of attached data files by
iteratively planning, generating, executing and verifying small analysis
scripts until the result is sufficient or the refinement budget runs out.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&flagBackend, "backend", "", "LLM backend override: gemini or ollama")
	rootCmd.Flags().StringVar(&flagQueryFile, "query-file", "", "text file containing the query (skips the interactive prompt)")
	rootCmd.Flags().StringSliceVar(&flagDataFiles, "data", nil, "data file to attach (repeatable)")
	rootCmd.Flags().StringVar(&flagPromptsDir, "prompts-dir", "", "directory of prompt template overrides (*.txt)")
	rootCmd.Flags().StringVar(&flagModel, "model", "", "model override for all generation calls")
	rootCmd.Flags().StringVar(&flagInterpreter, "interpreter", "", "interpreter for generated scripts (default python3)")
	rootCmd.Flags().IntVar(&flagMaxRounds, "max-rounds", 10, "cap on insufficient-verification iterations")
	rootCmd.Flags().IntVar(&flagDebugAttempts, "debug-attempts", 3, "sandbox-run budget per debug-retry loop")
	rootCmd.Flags().BoolVar(&flagUseRetriever, "use-retriever", false, "enable the relevance-reduction step")
	rootCmd.Flags().IntVar(&flagTopKFiles, "top-k-files", 10, "relevance-reduction target and trigger threshold")
	rootCmd.Flags().DurationVar(&flagExecTimeout, "exec-timeout", 30*time.Second, "wall-clock limit per script execution")
	rootCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "disable real-time activity output")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if flagBackend != "" {
		if err := llm_client.Init(llm_client.Config{
			Backend:    flagBackend,
			Model:      os.Getenv("LLM_MODEL"),
			OllamaHost: os.Getenv("OLLAMA_HOST"),
		}); err != nil {
			return err
		}
	}

	var lib *prompts.Library
	var err error
	if flagPromptsDir != "" {
		lib, err = prompts.Load(flagPromptsDir)
		if err != nil {
			return err
		}
	} else {
		lib = prompts.Default()
	}

	if err := listener.Init(); err != nil {
		return fmt.Errorf("failed to init terminal input: %w", err)
	}
	defer listener.Close()

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("\nGoodbye!")
		os.Exit(0)
	}()

	var query string
	files := flagDataFiles
	if flagQueryFile != "" {
		query, err = readQueryFile(flagQueryFile)
		if err != nil {
			return err
		}
	} else {
		query, files = collectInputs()
	}

	runner := sandbox.NewRunner()
	if flagInterpreter != "" {
		runner.Interpreter = flagInterpreter
	}
	runner.Timeout = flagExecTimeout

	track := tracker.New()
	solver := session.New(llm_client.Active(), lib, session.Options{
		MaxRefinementRounds: flagMaxRounds,
		MaxDebugAttempts:    flagDebugAttempts,
		UseRetriever:        flagUseRetriever,
		TopKFiles:           flagTopKFiles,
		ExecTimeout:         flagExecTimeout,
		Model:               flagModel,
		Tracker:             track,
		Runner:              runner,
	})

	listener.AsyncPrintln(fmt.Sprintf("Solving via %s backend, %d data file(s) attached...", llm_client.ActiveBackend(), len(files)))
	logger.Log.Printf("Solving query (%d data files): %q", len(files), clipForLog(query))

	stop := make(chan struct{})
	done := make(chan struct{})
	if !flagQuiet {
		go streamActivities(track, stop, done)
	} else {
		close(done)
	}

	outcome, err := solver.Solve(context.Background(), query, files)
	close(stop)
	<-done
	if err != nil {
		logger.Log.Printf("Solve failed: %v", err)
		return err
	}

	logger.Log.Printf("Session %s finished (%s) in %d ms",
		outcome.SessionID, outcome.Reason, outcome.Metrics.DurationMs)
	listener.AsyncPrintln(display.FormatOutcome(outcome))
	listener.AsyncPrintln(display.FormatSolveMetrics(outcome.Metrics))
	return nil
}

// streamActivities prints tracker entries above the prompt as they appear,
// flushing once more when the solve finishes.
func streamActivities(track *tracker.Tracker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	seen := 0
	flush := func() {
		activities := track.All()
		for _, a := range activities[seen:] {
			listener.AsyncPrintln(a.String())
		}
		seen = len(activities)
	}

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			flush()
			return
		case <-ticker.C:
			flush()
		}
	}
}

func readQueryFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read query file: %w", err)
	}
	query := strings.TrimSpace(string(data))
	if query == "" {
		return "", fmt.Errorf("query file is empty: %s", path)
	}
	return query, nil
}

// collectInputs walks the user through query-file selection, data-file
// attachment and a final review, looping until the inputs are confirmed.
func collectInputs() (string, []string) {
	for {
		query := promptQuery()
		files := promptDataFiles()
		if confirmInputs(query, files) {
			return query, files
		}
		listener.AsyncPrintln("Let's try that again.")
	}
}

func promptQuery() string {
	listener.AsyncPrintln("Provide the path to a text file containing the question to solve ('q' to quit).")
	for {
		entry := listener.GetInput("query file> ")
		if entry == "" {
			listener.AsyncPrintln("Please provide a file path.")
			continue
		}
		if entry == "q" || entry == "quit" {
			fmt.Println("Goodbye!")
			os.Exit(0)
		}
		query, err := readQueryFile(entry)
		if err != nil {
			listener.AsyncPrintln(fmt.Sprintf("  ! %v", err))
			continue
		}
		listener.AsyncPrintln(fmt.Sprintf("  Loaded %s", entry))
		return query
	}
}

func promptDataFiles() []string {
	listener.AsyncPrintln("Attach data files, one path per line. Blank line when done. Commands: 'list', 'clear'.")
	var files []string
	for {
		entry := listener.GetInput("files> ")
		if entry == "" {
			return files
		}
		switch entry {
		case "list", "ls":
			if len(files) == 0 {
				listener.AsyncPrintln("No files selected yet.")
				continue
			}
			for i, f := range files {
				listener.AsyncPrintln(fmt.Sprintf("  %d. %s", i+1, f))
			}
			continue
		case "clear":
			files = nil
			listener.AsyncPrintln("Cleared all selected files.")
			continue
		}

		clean := filepath.Clean(entry)
		if _, err := os.Stat(clean); err != nil {
			listener.AsyncPrintln(fmt.Sprintf("  ! File not found: %s", clean))
			ans := listener.GetConfirmation("    Add anyway? [y/N] > ")
			if ans != "y" && ans != "yes" {
				continue
			}
		}
		files = append(files, clean)
		listener.AsyncPrintln(fmt.Sprintf("  Added %s", clean))
	}
}

func confirmInputs(query string, files []string) bool {
	listener.AsyncPrintln("Query:\n  " + clipForLog(query))
	if len(files) == 0 {
		listener.AsyncPrintln("Data files: (none)")
	} else {
		listener.AsyncPrintln("Data files:")
		for i, f := range files {
			listener.AsyncPrintln(fmt.Sprintf("  %d. %s", i+1, f))
		}
	}
	for {
		ans := listener.GetConfirmation("Proceed with these inputs? [y/n] > ")
		switch ans {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		default:
			listener.AsyncPrintln("Please answer y/n.")
		}
	}
}

const maxLoggedQuery = 200

func clipForLog(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > maxLoggedQuery {
		return s[:maxLoggedQuery] + "..."
	}
	return s
}
