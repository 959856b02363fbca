package sample

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"multistats/domain/core"
)

// Statistic names, in the order a summary is built.
const (
	StatCount    = "count"
	StatMean     = "mean"
	StatStd      = "std"
	StatMin      = "min"
	StatP25      = "25%"
	StatP50      = "50%"
	StatP75      = "75%"
	StatMax      = "max"
	StatMedian   = "median"
	StatMode     = "mode"
	StatKurtosis = "kurtosis"
	StatSkewness = "skewness"
	StatOutliers = "# outliers"
)

// Sample is an ordered sequence of observations
type Sample []float64

// Validate checks that the sample is non-empty and finite.
func (s Sample) Validate(name string) error {
	if len(s) == 0 {
		return core.NewInvalidInputError(name, -1, "", "sample is empty")
	}
	for i, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return core.NewInvalidInputError(name, i, strconv.FormatFloat(v, 'g', -1, 64), "value is not finite")
		}
	}
	return nil
}

// ParseSample converts textual values into a Sample. Surrounding whitespace
// is ignored; anything else that does not parse as a finite float is rejected.
func ParseSample(name string, raw []string) (Sample, error) {
	out := make(Sample, len(raw))
	for i, r := range raw {
		v, err := strconv.ParseFloat(strings.TrimSpace(r), 64)
		if err != nil {
			return nil, core.NewInvalidInputError(name, i, r, "not a number")
		}
		out[i] = v
	}
	if err := out.Validate(name); err != nil {
		return nil, err
	}
	return out, nil
}

// OutlierSet holds the values beyond the box-plot fences, in sample order
type OutlierSet []float64

// Entry is one named statistic
type Entry struct {
	Name  string
	Value float64
}

// Statistics is an insertion-ordered mapping from statistic name to value.
type Statistics struct {
	keys   []string
	values map[string]float64
}

// NewStatistics creates an empty statistics block
func NewStatistics() *Statistics {
	return &Statistics{values: make(map[string]float64)}
}

// Set stores a value; a new name is appended to the key order, an existing
// name keeps its position.
func (s *Statistics) Set(name string, value float64) {
	if _, ok := s.values[name]; !ok {
		s.keys = append(s.keys, name)
	}
	s.values[name] = value
}

// Get returns the value for name
func (s *Statistics) Get(name string) (float64, bool) {
	v, ok := s.values[name]
	return v, ok
}

// MustGet returns the value for name or NaN when absent
func (s *Statistics) MustGet(name string) float64 {
	if v, ok := s.values[name]; ok {
		return v
	}
	return math.NaN()
}

func (s *Statistics) Len() int { return len(s.keys) }

// Keys returns the names in insertion order
func (s *Statistics) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Entries returns name/value pairs in insertion order
func (s *Statistics) Entries() []Entry {
	out := make([]Entry, len(s.keys))
	for i, k := range s.keys {
		out[i] = Entry{Name: k, Value: s.values[k]}
	}
	return out
}

// MarshalJSON writes an object whose keys keep insertion order.
func (s *Statistics) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		v := s.values[k]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf.WriteString("null")
			continue
		}
		buf.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Column is a named numeric column; NaN marks a missing cell
type Column struct {
	Name   string
	Values []float64
}

// Table is an ordered set of equal-length numeric columns
type Table struct {
	Columns []Column
}

// NewTable builds a table, rejecting ragged or unnamed columns.
func NewTable(columns ...Column) (*Table, error) {
	seen := make(map[string]bool, len(columns))
	for i, c := range columns {
		if strings.TrimSpace(c.Name) == "" {
			return nil, core.NewInvalidInputError("table", i, "", "column has no name")
		}
		if seen[c.Name] {
			return nil, core.NewInvalidInputError("table", i, c.Name, "duplicate column name")
		}
		seen[c.Name] = true
		if len(c.Values) != len(columns[0].Values) {
			return nil, core.NewInvalidInputError("table", i, c.Name,
				fmt.Sprintf("column has %d rows, expected %d", len(c.Values), len(columns[0].Values)))
		}
	}
	return &Table{Columns: columns}, nil
}

func (t *Table) ColumnCount() int { return len(t.Columns) }

func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Values)
}

// Names returns the column names in order
func (t *Table) Names() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks a column up by name
func (t *Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Select returns a table restricted to the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		c, ok := t.Column(n)
		if !ok {
			return nil, core.NewInvalidInputError("table", -1, n, fmt.Sprintf("unknown column %q", n))
		}
		cols = append(cols, c)
	}
	return NewTable(cols...)
}

// Present returns the non-missing values of a column
func (c Column) Present() Sample {
	out := make(Sample, 0, len(c.Values))
	for _, v := range c.Values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// CorrelationMatrix is a symmetric matrix of Pearson coefficients
type CorrelationMatrix struct {
	names  []string
	index  map[string]int
	values [][]float64
}

// NewCorrelationMatrix creates an N×N matrix with a unit diagonal and NaN elsewhere
func NewCorrelationMatrix(names []string) *CorrelationMatrix {
	m := &CorrelationMatrix{
		names:  append([]string(nil), names...),
		index:  make(map[string]int, len(names)),
		values: make([][]float64, len(names)),
	}
	for i, n := range names {
		m.index[n] = i
		m.values[i] = make([]float64, len(names))
		for j := range m.values[i] {
			m.values[i][j] = math.NaN()
		}
		m.values[i][i] = 1.0
	}
	return m
}

// SetPair stores r for both (i, j) and (j, i). The diagonal stays 1.
func (m *CorrelationMatrix) SetPair(i, j int, r float64) {
	if i == j {
		return
	}
	m.values[i][j] = r
	m.values[j][i] = r
}

func (m *CorrelationMatrix) Size() int { return len(m.names) }

func (m *CorrelationMatrix) Names() []string { return append([]string(nil), m.names...) }

func (m *CorrelationMatrix) AtIndex(i, j int) float64 { return m.values[i][j] }

// At returns the coefficient for two column names
func (m *CorrelationMatrix) At(a, b string) (float64, bool) {
	i, ok := m.index[a]
	if !ok {
		return math.NaN(), false
	}
	j, ok := m.index[b]
	if !ok {
		return math.NaN(), false
	}
	return m.values[i][j], true
}

// MarshalJSON writes the matrix as a nested object keyed by column name.
func (m *CorrelationMatrix) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, a := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(a)
		buf.Write(key)
		buf.WriteString(":{")
		for j, b := range m.names {
			if j > 0 {
				buf.WriteByte(',')
			}
			inner, _ := json.Marshal(b)
			buf.Write(inner)
			buf.WriteByte(':')
			v := m.values[i][j]
			if math.IsNaN(v) {
				buf.WriteString("null")
				continue
			}
			buf.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
