// Package report renders the accumulated statistics into the brief or
// detailed output shape and serializes the result.
package report

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/perfrun/perfrun/internal/appconfig"
	"github.com/perfrun/perfrun/internal/perfstat"
)

// SystemFacts are the host facts attached to detailed reports.
type SystemFacts struct {
	PhysicalCores    int
	LogicalCores     int
	TotalMemoryBytes uint64
	Platform         string
}

// GitFacts are the source-control facts attached to detailed reports when
// a git root was configured.
type GitFacts struct {
	HeadHash     string
	HeadMessage  string
	HeadAuthor   string
	BranchName   string
	FilesChanged int
	NumCommits   int
}

// SystemProvider supplies host facts.
type SystemProvider interface {
	SystemFacts() (SystemFacts, error)
}

// GitProvider supplies source-control facts for a working tree.
type GitProvider interface {
	GitFacts(workTree string) (GitFacts, error)
}

// Renderer builds report values from a finished run's records. Rendering
// never mutates the records; serialization is a separate step.
type Renderer struct {
	System SystemProvider
	Git    GitProvider
}

func valueList(records []*perfstat.Record, brief bool) []map[string]any {
	values := make([]map[string]any, 0, len(records))
	for _, record := range records {
		values = append(values, record.ValueList(brief)...)
	}
	return values
}

// Brief renders the terse, machine-oriented shape: test identity plus the
// flat brief-flagged metric list.
func (r Renderer) Brief(cfg appconfig.Config, records []*perfstat.Record) []any {
	return []any{
		map[string]any{
			"info": map[string]any{
				"test_name": cfg.TestName(),
			},
			"metrics": valueList(records, true),
		},
	}
}

// Detailed renders the annotated shape: configuration echo, full metric
// values, host facts, and source-control facts when a git root was
// configured.
func (r Renderer) Detailed(cfg appconfig.Config, records []*perfstat.Record) (map[string]any, error) {
	system, err := r.System.SystemFacts()
	if err != nil {
		return nil, err
	}

	result := map[string]any{
		"Test Name": cfg.TestName(),
		"config":    cfg.ValueMap(),
		"metrics":   valueList(records, false),
		"system": map[string]any{
			"cpu_physical_cores":       system.PhysicalCores,
			"cpu_logical_cores":        system.LogicalCores,
			"total_physical_memory_gb": float64(system.TotalMemoryBytes) / (1024 * 1024 * 1024),
			"platform":                 system.Platform,
		},
	}

	if cfg.GitRoot != "" {
		facts, err := r.Git.GitFacts(cfg.GitRoot)
		if err != nil {
			return nil, err
		}
		result["git"] = map[string]any{
			"head_commit": map[string]any{
				"hash":    facts.HeadHash,
				"message": facts.HeadMessage,
				"author":  facts.HeadAuthor,
			},
			"branch": map[string]any{
				"name": facts.BranchName,
			},
			"stats": map[string]any{
				"files_changed": facts.FilesChanged,
			},
			"num_commits": facts.NumCommits,
		}
	}

	return result, nil
}

// Write serializes the rendered report. Verbose mode echoes it to the log;
// a non-empty outfile path gets the same JSON, with parent directories
// created as needed.
func Write(result any, outFile string, verbose bool) error {
	data, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return fmt.Errorf("could not serialize report: %w", err)
	}

	if verbose {
		log.Printf("%s", data)
	}

	if outFile == "" {
		return nil
	}
	if dir := filepath.Dir(outFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("could not create report directory %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(outFile, data, 0o644); err != nil {
		return fmt.Errorf("could not write report to %q: %w", outFile, err)
	}
	return nil
}
