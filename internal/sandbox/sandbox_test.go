package sandbox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// shRunner executes scripts through sh so the tests do not depend on a
// Python installation.
func shRunner() *Runner {
	return &Runner{Interpreter: "sh", Suffix: ".sh", Timeout: 5 * time.Second}
}

// scriptFileCount counts leftover temp script files; runs must not change it.
func scriptFileCount(t *testing.T) int {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "dstar-script-*"))
	if err != nil {
		t.Fatal(err)
	}
	return len(matches)
}

func TestRunSuccess(t *testing.T) {
	result := shRunner().Run(`echo hello`)

	if !result.Success {
		t.Fatalf("expected success, got error=%q traceback=%q", result.Error, result.Traceback)
	}
	if strings.TrimSpace(result.Output) != "hello" {
		t.Errorf("expected output %q, got %q", "hello", result.Output)
	}
	if result.Error != "" || result.Traceback != "" {
		t.Errorf("expected empty error fields on success, got error=%q traceback=%q", result.Error, result.Traceback)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	result := shRunner().Run(`echo partial
echo broken >&2
exit 3`)

	if result.Success {
		t.Fatal("expected failure for non-zero exit")
	}
	if !strings.Contains(result.Output, "partial") {
		t.Errorf("expected stdout to be preserved, got %q", result.Output)
	}
	if !strings.Contains(result.Error, "broken") {
		t.Errorf("expected stderr in error field, got %q", result.Error)
	}
	if result.Error != result.Traceback {
		t.Errorf("expected error and traceback to match for script failures, got %q vs %q", result.Error, result.Traceback)
	}
}

func TestRunTimeout(t *testing.T) {
	before := scriptFileCount(t)

	start := time.Now()
	result := shRunner().RunWithTimeout(`sleep 10`, 200*time.Millisecond)
	elapsed := time.Since(start)

	if result.Success {
		t.Fatal("expected failure on timeout")
	}
	if result.Error != "Execution timeout" {
		t.Errorf("expected timeout error sentinel, got %q", result.Error)
	}
	if result.Traceback != "Script execution exceeded timeout limit" {
		t.Errorf("expected timeout traceback sentinel, got %q", result.Traceback)
	}
	if elapsed > 5*time.Second {
		t.Errorf("child was not killed promptly, run took %v", elapsed)
	}
	if after := scriptFileCount(t); after > before {
		t.Errorf("temp script file leaked on timeout: %d before, %d after", before, after)
	}
}

func TestRunTimeoutKillsGrandchildren(t *testing.T) {
	// The background sleep is a grandchild of the runner; it inherits the
	// output pipes, so the run only returns promptly if the whole process
	// group is killed at the deadline.
	start := time.Now()
	result := shRunner().RunWithTimeout("sleep 10 &\nwait", 200*time.Millisecond)
	elapsed := time.Since(start)

	if result.Success {
		t.Fatal("expected failure on timeout")
	}
	if result.Error != "Execution timeout" {
		t.Errorf("expected timeout error sentinel, got %q", result.Error)
	}
	if elapsed > 5*time.Second {
		t.Errorf("grandchild held the run open past the deadline, took %v", elapsed)
	}
}

func TestRunHostFailure(t *testing.T) {
	before := scriptFileCount(t)

	r := &Runner{Interpreter: "definitely-not-an-interpreter", Suffix: ".sh", Timeout: time.Second}
	result := r.Run(`echo hi`)

	if after := scriptFileCount(t); after > before {
		t.Errorf("temp script file leaked on host failure: %d before, %d after", before, after)
	}
	if result.Success {
		t.Fatal("expected failure for a missing interpreter")
	}
	if result.Error == "" {
		t.Error("expected a host error message")
	}
	if !strings.Contains(result.Traceback, result.Error) {
		t.Errorf("expected traceback to embed the error, got %q", result.Traceback)
	}
	// Host failures carry a Go stack, unlike script failures.
	if !strings.Contains(result.Traceback, "goroutine") {
		t.Errorf("expected a stack trace in the traceback, got %q", result.Traceback)
	}
}

func TestRunWithTimeoutZeroFallsBackToRunnerDefault(t *testing.T) {
	r := shRunner()
	r.Timeout = 200 * time.Millisecond
	result := r.RunWithTimeout(`sleep 10`, 0)

	if result.Success || result.Error != "Execution timeout" {
		t.Fatalf("expected runner default timeout to apply, got success=%v error=%q", result.Success, result.Error)
	}
}
