// Package perfstat defines the registry of statistics the harness knows how
// to harvest from a benchmark run's working directory, and the collection
// that accumulates them across repeated runs.
package perfstat

import (
	"math"
)

// Aggregation selects how a statistic folds values from repeated runs into
// the single number reported in brief output.
type Aggregation int

const (
	// AggregateAverage reports the mean of the per-run values.
	AggregateAverage Aggregation = iota
	// AggregateSum reports the total across all runs.
	AggregateSum
)

// Definition describes one statistic the collector can extract: where to
// find it in a run's artifacts and how to fold repeated observations.
type Definition struct {
	ShortLabel  string
	Label       string
	Source      string
	Pattern     string
	InputOffset int
	Precision   int
	Brief       bool
	Aggregation Aggregation
}

// Record is one realized statistic: a definition plus the values harvested
// from each processed run, in run order.
type Record struct {
	Def    Definition
	Values []float64
}

// NumValues reports how many observations the record has accumulated.
func (r *Record) NumValues() int { return len(r.Values) }

func (r *Record) add(value float64) {
	r.Values = append(r.Values, value)
}

// Aggregate folds the record's values per its definition's aggregation rule.
func (r *Record) Aggregate() float64 {
	if len(r.Values) == 0 {
		return 0
	}
	var total float64
	for _, v := range r.Values {
		total += v
	}
	if r.Def.Aggregation == AggregateSum {
		return roundTo(total, r.Def.Precision)
	}
	return roundTo(total/float64(len(r.Values)), r.Def.Precision)
}

// Min returns the smallest observed value.
func (r *Record) Min() float64 {
	result := r.Values[0]
	for _, v := range r.Values[1:] {
		if v < result {
			result = v
		}
	}
	return result
}

// Max returns the largest observed value.
func (r *Record) Max() float64 {
	result := r.Values[0]
	for _, v := range r.Values[1:] {
		if v > result {
			result = v
		}
	}
	return result
}

// ValueList flattens the record into report metric entries. Brief output
// carries only the aggregate for brief-flagged records; detailed output
// additionally carries the per-run values and their bounds.
func (r *Record) ValueList(brief bool) []map[string]any {
	if r.NumValues() == 0 {
		return nil
	}
	if brief {
		if !r.Def.Brief {
			return nil
		}
		return []map[string]any{{
			"name":  r.Def.Label,
			"value": r.Aggregate(),
		}}
	}
	return []map[string]any{{
		"name":   r.Def.Label,
		"value":  r.Aggregate(),
		"values": append([]float64(nil), r.Values...),
		"min":    r.Min(),
		"max":    r.Max(),
	}}
}

func roundTo(value float64, precision int) float64 {
	scale := math.Pow(10, float64(precision))
	return math.Round(value*scale) / scale
}

// statFileName is the artifact every known statistic is harvested from.
// Its format is owned by the benchmark executable.
const statFileName = "test.stat"

// allStats returns freshly-built definitions for every statistic the
// collector recognizes, in report order.
func allStats() []Definition {
	return []Definition{
		{ShortLabel: "load", Label: "Load time", Source: statFileName, Pattern: "Load time:", InputOffset: 2, Precision: 2, Brief: true, Aggregation: AggregateAverage},
		{ShortLabel: "insert", Label: "Insert count", Source: statFileName, Pattern: "insert operations", InputOffset: 1, Brief: true, Aggregation: AggregateAverage},
		{ShortLabel: "modify", Label: "Modify count", Source: statFileName, Pattern: "modify operations", InputOffset: 1, Brief: true, Aggregation: AggregateAverage},
		{ShortLabel: "read", Label: "Read count", Source: statFileName, Pattern: "read operations", InputOffset: 1, Brief: true, Aggregation: AggregateAverage},
		{ShortLabel: "truncate", Label: "Truncate count", Source: statFileName, Pattern: "truncate operations", InputOffset: 1, Brief: true, Aggregation: AggregateAverage},
		{ShortLabel: "update", Label: "Update count", Source: statFileName, Pattern: "update operations", InputOffset: 1, Brief: true, Aggregation: AggregateAverage},
		{ShortLabel: "warnings", Label: "Warning count", Source: statFileName, Pattern: "WARN", InputOffset: -1, Aggregation: AggregateSum},
	}
}

// AllStats exposes the full registry, for operation validation and for
// error messages that enumerate the valid choices.
func AllStats() []Definition {
	return allStats()
}
