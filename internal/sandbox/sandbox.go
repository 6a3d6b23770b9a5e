package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime/debug"
	"syscall"
	"time"
)

const (
	DefaultTimeout     = 30 * time.Second
	DefaultInterpreter = "python3"
	defaultSuffix      = ".py"

	timeoutError     = "Execution timeout"
	timeoutTraceback = "Script execution exceeded timeout limit"
)

// Result is the outcome of one script execution. Execution failures are
// represented here, never as Go errors.
type Result struct {
	Success   bool   `json:"success"`
	Output    string `json:"output"`
	Error     string `json:"error,omitempty"`
	Traceback string `json:"traceback,omitempty"`
}

// Runner executes ad-hoc scripts in a temporary file via a child process.
type Runner struct {
	Interpreter string        // defaults to python3
	Suffix      string        // temp file suffix, defaults to .py
	Timeout     time.Duration // default wall-clock limit per run
}

func NewRunner() *Runner {
	return &Runner{
		Interpreter: DefaultInterpreter,
		Suffix:      defaultSuffix,
		Timeout:     DefaultTimeout,
	}
}

// Run executes code with the runner's default timeout.
func (r *Runner) Run(code string) Result {
	return r.RunWithTimeout(code, 0)
}

// RunWithTimeout writes code to a fresh temp file, spawns the interpreter on
// it and captures stdout/stderr. The temp file is removed on every exit path.
// Exactly one outcome class is produced per call: clean exit, non-zero exit,
// timeout, or host-side failure.
func (r *Runner) RunWithTimeout(code string, timeout time.Duration) Result {
	if timeout <= 0 {
		timeout = r.Timeout
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	suffix := r.Suffix
	if suffix == "" {
		suffix = defaultSuffix
	}

	tmp, err := os.CreateTemp("", "dstar-script-*"+suffix)
	if err != nil {
		return hostFailure(err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(code); err != nil {
		tmp.Close()
		return hostFailure(err)
	}
	if err := tmp.Close(); err != nil {
		return hostFailure(err)
	}

	interpreter := r.Interpreter
	if interpreter == "" {
		interpreter = DefaultInterpreter
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, interpreter, tmpPath)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Run the script in its own process group and kill the whole group on
	// timeout; killing only the direct child would leave grandchildren
	// running and holding the stdout/stderr pipes open past the deadline.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	// Stop waiting on the pipes shortly after the kill in case a detached
	// descendant escaped the group.
	cmd.WaitDelay = time.Second

	runErr := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		// CommandContext has already killed the child.
		return Result{
			Success:   false,
			Output:    "",
			Error:     timeoutError,
			Traceback: timeoutTraceback,
		}
	}

	if runErr == nil {
		return Result{Success: true, Output: stdout.String()}
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return Result{
			Success:   false,
			Output:    stdout.String(),
			Error:     stderr.String(),
			Traceback: stderr.String(),
		}
	}

	// Launch/read failed on the host side (bad interpreter path, etc.).
	return hostFailure(runErr)
}

func hostFailure(err error) Result {
	return Result{
		Success:   false,
		Error:     err.Error(),
		Traceback: fmt.Sprintf("%v\n%s", err, debug.Stack()),
	}
}
