// Package runner drives the sequential execution of the external benchmark
// program and the harvesting of each run's statistics.
package runner

import (
	"fmt"
	"strings"
)

// HomePath derives the isolated working directory for one run. It is pure
// and injective over (batchIndex, runIndex): distinct index pairs never
// collide, so each run owns its directory for the lifetime of the batch.
func HomePath(home string, batchIndex, runIndex int) string {
	return fmt.Sprintf("%s_%d_%d", home, batchIndex, runIndex)
}

// CommandLine assembles the benchmark invocation in fixed order: the
// optional environment prefix tokens, the executable, the optional
// override-file pair, the caller's extra arguments verbatim, and the
// working-directory pair. Token contents are not validated here; the
// orchestrator guarantees required fields before building.
func CommandLine(bench, envPrefix, overrideFile string, extraArgs []string, homePath string) []string {
	var commandLine []string
	if envPrefix != "" {
		commandLine = append(commandLine, strings.Fields(envPrefix)...)
	}
	commandLine = append(commandLine, bench)
	if overrideFile != "" {
		commandLine = append(commandLine, "-O", overrideFile)
	}
	commandLine = append(commandLine, extraArgs...)
	if homePath != "" {
		commandLine = append(commandLine, "-h", homePath)
	}
	return commandLine
}
