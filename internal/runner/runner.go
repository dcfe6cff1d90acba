package runner

import (
	"log"

	"github.com/fatih/color"

	"github.com/perfrun/perfrun/internal/appconfig"
	"github.com/perfrun/perfrun/internal/perfstat"
)

var (
	runStarted   = color.New(color.FgCyan).SprintfFunc()
	runCompleted = color.New(color.FgGreen).SprintfFunc()
)

// Run drives the whole orchestration: for each batch entry (or the single
// implicit entry when no batch file was supplied), execute the benchmark
// runMax times and fold each run's artifacts into that entry's collection.
// Runs and entries execute strictly one after another; the first failure
// of any kind aborts everything and the partial results are discarded.
func Run(cfg appconfig.Config, entries []appconfig.BatchEntry) ([]*perfstat.Record, error) {
	if len(entries) == 0 {
		entries = []appconfig.BatchEntry{{Arguments: cfg.Arguments, Operations: cfg.Operations}}
	}

	var reported []*perfstat.Record
	for batchIndex, entry := range entries {
		if cfg.Verbose && cfg.BatchFile != "" {
			log.Printf("Batch test %d: arguments: %v, operations: %v", batchIndex, entry.Arguments, entry.Operations)
		}

		collection := perfstat.NewCollection(entry.Operations)
		for runIndex := 0; runIndex < cfg.RunMax; runIndex++ {
			if err := runOnce(cfg, batchIndex, runIndex, entry.Arguments, collection); err != nil {
				return nil, err
			}
		}
		reported = append(reported, collection.Report()...)
	}
	return reported, nil
}

// runOnce builds the run context, executes the benchmark unless the caller
// asked to reuse prior artifacts, and harvests the run's statistics. The
// reuse path still requires collection to succeed: a missing working
// directory fails loudly instead of reporting empty statistics.
func runOnce(cfg appconfig.Config, batchIndex, runIndex int, arguments []string, collection *perfstat.Collection) error {
	testHome := HomePath(cfg.HomeDir, batchIndex, runIndex)
	if cfg.Verbose {
		log.Printf("Home directory path created: %s", testHome)
	}

	if !cfg.Reuse {
		log.Println(runStarted("Starting test %d", runIndex))
		commandLine := CommandLine(cfg.BenchPath, cfg.Environment, cfg.TestPath, arguments, testHome)
		if err := execute(commandLine, cfg.Verbose); err != nil {
			return err
		}
		log.Println(runCompleted("Completed test %d", runIndex))
	}

	if cfg.Verbose {
		log.Printf("Reading stats from %s directory.", testHome)
	}
	return collection.Collect(testHome)
}
