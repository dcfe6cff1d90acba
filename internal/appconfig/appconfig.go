// Package appconfig holds the run configuration assembled from the command
// line and the optional batch-definition file.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Config describes one family of benchmark invocations. It is built once
// from external input and read-only for the lifetime of a run.
type Config struct {
	BenchPath   string         `json:"bench"`
	Environment string         `json:"env,omitempty"`
	TestPath    string         `json:"test"`
	HomeDir     string         `json:"home"`
	OutFile     string         `json:"outfile,omitempty"`
	Brief       bool           `json:"brief"`
	RunMax      int            `json:"runmax"`
	Reuse       bool           `json:"reuse"`
	GitRoot     string         `json:"gitRoot,omitempty"`
	BatchFile   string         `json:"batchFile,omitempty"`
	Arguments   []string       `json:"arguments,omitempty"`
	Operations  []string       `json:"operations,omitempty"`
	JSONInfo    map[string]any `json:"jsonInfo,omitempty"`
	Verbose     bool           `json:"verbose"`
	LogFile     string         `json:"logFile,omitempty"`
}

// TestName returns the base name of the configured test, used as the
// report's test identity.
func (c Config) TestName() string {
	return filepath.Base(c.TestPath)
}

// Validate applies the fail-fast configuration checks. Every failure here
// is reported before any benchmark process is launched.
func (c Config) Validate() error {
	if c.BenchPath == "" {
		return errors.New("the path to the benchmark executable is required")
	}
	if c.TestPath == "" {
		return errors.New("the path to the test file is required")
	}
	if c.HomeDir == "" {
		return errors.New(`the path to the "home" directory is required`)
	}
	if c.RunMax < 1 {
		return fmt.Errorf("runmax must be at least 1, got %d", c.RunMax)
	}
	if c.BatchFile != "" {
		if _, err := os.Stat(c.BatchFile); err != nil {
			return fmt.Errorf("batch file %q not found", c.BatchFile)
		}
		if len(c.Arguments) > 0 || len(c.Operations) > 0 {
			return errors.New("a batch file should not be defined at the same time as direct operations or arguments")
		}
	}
	if !c.Verbose && c.OutFile == "" {
		return errors.New("enable verbosity or provide an output file path to dump the stats")
	}
	return nil
}

// ValueMap echoes the configuration into the detailed report, with the
// caller-supplied JSON metadata folded in.
func (c Config) ValueMap() map[string]any {
	values := map[string]any{
		"bench":   c.BenchPath,
		"test":    c.TestPath,
		"home":    c.HomeDir,
		"runmax":  c.RunMax,
		"reuse":   c.Reuse,
		"verbose": c.Verbose,
	}
	if c.Environment != "" {
		values["env"] = c.Environment
	}
	if c.GitRoot != "" {
		values["git_root"] = c.GitRoot
	}
	if c.BatchFile != "" {
		values["batch_file"] = c.BatchFile
	}
	if len(c.Arguments) > 0 {
		values["arguments"] = c.Arguments
	}
	if len(c.Operations) > 0 {
		values["operations"] = c.Operations
	}
	for key, value := range c.JSONInfo {
		values[key] = value
	}
	return values
}

// ParseJSONInfo decodes the free-form metadata blob supplied on the
// command line.
func ParseJSONInfo(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	var info map[string]any
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return nil, fmt.Errorf("could not parse json info: %w", err)
	}
	return info, nil
}

// ParseStringList decodes a JSON array of strings, the wire shape of the
// --args and --ops flags.
func ParseStringList(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("could not parse string list %q: %w", raw, err)
	}
	return list, nil
}
