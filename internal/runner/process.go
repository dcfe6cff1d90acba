package runner

import (
	"fmt"
	"os/exec"
	"strings"
)

// ProcessError reports a benchmark process that exited non-zero, carrying
// the combined output it produced. A process failure aborts the whole run
// sequence; there is no retry and no partial-result salvage.
type ProcessError struct {
	CommandLine []string
	Output      string
	Err         error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("benchmark command %q failed: %v: %s",
		strings.Join(e.CommandLine, " "), e.Err, strings.TrimSpace(e.Output))
}

func (e *ProcessError) Unwrap() error { return e.Err }

// runCommand executes one assembled command line and returns its combined
// stdout/stderr. Swappable for tests that exercise the orchestrator
// without a real benchmark binary.
var runCommand = func(commandLine []string) (string, error) {
	cmd := exec.Command(commandLine[0], commandLine[1:]...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// execute spawns the benchmark and waits for it to exit. This wait is the
// orchestrator's only blocking point: there is no timeout, so a hung
// benchmark hangs the run sequence (a documented limitation).
func execute(commandLine []string, verbose bool) error {
	output, err := runCommand(commandLine)
	if err != nil {
		return &ProcessError{CommandLine: commandLine, Output: output, Err: err}
	}
	if verbose && strings.TrimSpace(output) != "" {
		fmt.Print(output)
	}
	return nil
}
