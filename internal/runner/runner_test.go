package runner

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/perfrun/perfrun/internal/appconfig"
	"github.com/perfrun/perfrun/internal/perfstat"
)

func baseConfig(t *testing.T) appconfig.Config {
	t.Helper()
	return appconfig.Config{
		BenchPath: "/opt/bench/wtperf",
		TestPath:  "runners/small.wtperf",
		HomeDir:   filepath.Join(t.TempDir(), "WT_TEST"),
		RunMax:    1,
		Verbose:   true,
	}
}

// homeDirOf extracts the -h argument from an assembled command line.
func homeDirOf(t *testing.T, commandLine []string) string {
	t.Helper()
	for i, token := range commandLine {
		if token == "-h" && i+1 < len(commandLine) {
			return commandLine[i+1]
		}
	}
	t.Fatalf("no -h argument in %v", commandLine)
	return ""
}

// stubBenchmark swaps runCommand for a fake that writes one stat line per
// invocation, taking values from lines in order.
func stubBenchmark(t *testing.T, lines []string) *[][]string {
	t.Helper()
	var calls [][]string
	orig := runCommand
	runCommand = func(commandLine []string) (string, error) {
		call := len(calls)
		calls = append(calls, commandLine)
		if call >= len(lines) {
			t.Fatalf("unexpected extra benchmark invocation: %v", commandLine)
		}
		home := homeDirOf(t, commandLine)
		if err := os.MkdirAll(home, 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(filepath.Join(home, "test.stat"), []byte(lines[call]+"\n"), 0o644); err != nil {
			return "", err
		}
		return "", nil
	}
	t.Cleanup(func() { runCommand = orig })
	return &calls
}

func TestRunAggregatesRepeatedRuns(t *testing.T) {
	cfg := baseConfig(t)
	cfg.RunMax = 2
	cfg.Operations = []string{"read"}
	calls := stubBenchmark(t, []string{
		"executed 5 read operations",
		"executed 7 read operations",
	})

	records, err := Run(cfg, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(*calls) != 2 {
		t.Fatalf("expected 2 benchmark invocations, got %d", len(*calls))
	}
	if len(records) != 1 {
		t.Fatalf("expected one reported record, got %d", len(records))
	}
	read := records[0]
	if !reflect.DeepEqual(read.Values, []float64{5, 7}) {
		t.Fatalf("read values: %v", read.Values)
	}
	if read.Aggregate() != 6 {
		t.Fatalf("read aggregate: %v", read.Aggregate())
	}
}

func TestRunAbortsOnProcessFailure(t *testing.T) {
	cfg := baseConfig(t)
	cfg.RunMax = 2

	var calls int
	orig := runCommand
	runCommand = func(commandLine []string) (string, error) {
		calls++
		return "disk full", errors.New("exit status 1")
	}
	t.Cleanup(func() { runCommand = orig })

	records, err := Run(cfg, nil)
	if err == nil {
		t.Fatal("expected process failure to abort the run")
	}
	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("expected *ProcessError, got %T", err)
	}
	if !strings.Contains(procErr.Output, "disk full") {
		t.Fatalf("captured output missing: %q", procErr.Output)
	}
	if calls != 1 {
		t.Fatalf("expected abort after first failure, got %d invocations", calls)
	}
	if records != nil {
		t.Fatalf("partial results must be discarded, got %v", records)
	}
}

func TestRunReuseIsIdempotent(t *testing.T) {
	cfg := baseConfig(t)
	cfg.RunMax = 2
	cfg.Operations = []string{"read"}
	stubBenchmark(t, []string{
		"executed 5 read operations",
		"executed 7 read operations",
	})

	first, err := Run(cfg, nil)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}

	orig := runCommand
	runCommand = func(commandLine []string) (string, error) {
		t.Fatal("reuse must not re-execute the benchmark")
		return "", nil
	}
	t.Cleanup(func() { runCommand = orig })

	cfg.Reuse = true
	second, err := Run(cfg, nil)
	if err != nil {
		t.Fatalf("reuse Run: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("record counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !reflect.DeepEqual(first[i].Values, second[i].Values) {
			t.Fatalf("record %d differs: %v vs %v", i, first[i].Values, second[i].Values)
		}
	}
}

func TestRunReuseWithMissingArtifacts(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Reuse = true

	records, err := Run(cfg, nil)
	if err == nil {
		t.Fatal("expected a collection failure for missing artifacts")
	}
	var collErr *perfstat.CollectionError
	if !errors.As(err, &collErr) {
		t.Fatalf("expected *CollectionError, got %T", err)
	}
	if records != nil {
		t.Fatalf("no records expected, got %v", records)
	}
}

func TestRunBatchEntriesKeepOrderAndIsolation(t *testing.T) {
	cfg := baseConfig(t)
	cfg.BatchFile = "batch.json"
	entries := []appconfig.BatchEntry{
		{Arguments: []string{"-T", "1"}, Operations: []string{"read"}},
		{Arguments: []string{"-T", "8"}, Operations: []string{"read"}},
	}
	calls := stubBenchmark(t, []string{
		"executed 10 read operations",
		"executed 80 read operations",
	})

	records, err := Run(cfg, entries)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected one record per entry, got %d", len(records))
	}
	if records[0].Values[0] != 10 || records[1].Values[0] != 80 {
		t.Fatalf("entry records out of order: %v %v", records[0].Values, records[1].Values)
	}

	firstHome := homeDirOf(t, (*calls)[0])
	secondHome := homeDirOf(t, (*calls)[1])
	if !strings.HasSuffix(firstHome, "_0_0") || !strings.HasSuffix(secondHome, "_1_0") {
		t.Fatalf("batch working directories not isolated: %q %q", firstHome, secondHome)
	}
	if !reflect.DeepEqual((*calls)[0][3:5], []string{"-T", "1"}) {
		t.Fatalf("entry 0 arguments not passed through: %v", (*calls)[0])
	}
}

func TestRunExecutesRealProcess(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "fakebench.sh")
	contents := `#!/bin/sh
home=""
while [ $# -gt 0 ]; do
	if [ "$1" = "-h" ]; then home="$2"; fi
	shift
done
mkdir -p "$home"
case "$home" in
	*_1) value=7 ;;
	*) value=5 ;;
esac
printf 'executed %s read operations\n' "$value" > "$home/test.stat"
`
	if err := os.WriteFile(script, []byte(contents), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	cfg := appconfig.Config{
		BenchPath:  script,
		TestPath:   "runners/small.wtperf",
		HomeDir:    filepath.Join(dir, "WT_TEST"),
		RunMax:     2,
		Operations: []string{"read"},
		Verbose:    true,
	}

	records, err := Run(cfg, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	if !reflect.DeepEqual(records[0].Values, []float64{5, 7}) {
		t.Fatalf("values: %v", records[0].Values)
	}
}

func TestRunSurfacesRealProcessFailure(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "failbench.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\necho 'disk full'\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	cfg := appconfig.Config{
		BenchPath: script,
		TestPath:  "runners/small.wtperf",
		HomeDir:   filepath.Join(dir, "WT_TEST"),
		RunMax:    1,
		Verbose:   true,
	}

	_, err := Run(cfg, nil)
	var procErr *ProcessError
	if !errors.As(err, &procErr) {
		t.Fatalf("expected *ProcessError, got %v", err)
	}
	if !strings.Contains(procErr.Output, "disk full") {
		t.Fatalf("output not captured: %q", procErr.Output)
	}
	if !strings.Contains(procErr.Error(), "disk full") {
		t.Fatalf("error message should surface the output: %v", procErr)
	}
}
