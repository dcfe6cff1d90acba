package perfstat

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CollectionError reports that a run's expected result artifact could not
// be read, naming the missing path.
type CollectionError struct {
	Path string
	Err  error
}

func (e *CollectionError) Error() string {
	return fmt.Sprintf("could not read result artifact %q: %v", e.Path, e.Err)
}

func (e *CollectionError) Unwrap() error { return e.Err }

// Collection accumulates statistic records across the repeated runs of one
// test definition. It has a single writer (the run loop) and is read only
// during reporting.
type Collection struct {
	operations []string
	order      []string
	records    map[string]*Record
}

// NewCollection builds a collection over the full statistic registry. A
// non-empty operations list restricts which records the report includes;
// an empty list means every statistic with harvested values reports.
func NewCollection(operations []string) *Collection {
	c := &Collection{
		operations: append([]string(nil), operations...),
		records:    make(map[string]*Record),
	}
	for _, def := range allStats() {
		c.order = append(c.order, def.ShortLabel)
		c.records[def.ShortLabel] = &Record{Def: def}
	}
	return c
}

// Collect scans workDir for recognized result artifacts and folds each
// extracted value into the matching record. A missing artifact is fatal:
// it means the run never produced results, which matters most on the reuse
// path where no fresh execution backs the directory.
func (c *Collection) Collect(workDir string) error {
	sources := make(map[string][]*Record)
	for _, label := range c.order {
		record := c.records[label]
		sources[record.Def.Source] = append(sources[record.Def.Source], record)
	}

	for source, records := range sources {
		path := filepath.Join(workDir, source)
		if err := c.collectFile(path, records); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collection) collectFile(path string, records []*Record) error {
	file, err := os.Open(path)
	if err != nil {
		return &CollectionError{Path: path, Err: err}
	}
	defer file.Close()

	counts := make(map[string]float64)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		for _, record := range records {
			if !strings.Contains(line, record.Def.Pattern) {
				continue
			}
			if record.Def.InputOffset < 0 {
				counts[record.Def.ShortLabel]++
				continue
			}
			fields := strings.Fields(line)
			if record.Def.InputOffset >= len(fields) {
				continue
			}
			value, err := strconv.ParseFloat(fields[record.Def.InputOffset], 64)
			if err != nil {
				continue
			}
			record.add(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return &CollectionError{Path: path, Err: err}
	}

	for label, count := range counts {
		c.records[label].add(count)
	}
	return nil
}

// Report returns the records with harvested values, in registry order,
// restricted to the requested operations when any were named.
func (c *Collection) Report() []*Record {
	var reported []*Record
	for _, label := range c.order {
		record := c.records[label]
		if record.NumValues() == 0 {
			continue
		}
		if len(c.operations) > 0 && !contains(c.operations, label) {
			continue
		}
		reported = append(reported, record)
	}
	return reported
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
