package core

import (
	"errors"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}
	if ID("not-empty").IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

// TestParseChartID tests chart ID parsing
func TestParseChartID(t *testing.T) {
	valid := NewChartID()

	tests := []struct {
		input    string
		expected ChartID
		hasError bool
	}{
		{valid.String(), valid, false},
		{"  " + valid.String() + " ", valid, false},
		{"", "", true},
		{"   ", "", true},
		{"not-a-uuid", "", true},
	}

	for _, test := range tests {
		result, err := ParseChartID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

// TestErrorClassification tests that typed errors unwrap to their sentinels
func TestErrorClassification(t *testing.T) {
	invalid := NewInvalidInputError("sample", 3, "abc", "not a number")
	if !IsInvalidInput(invalid) {
		t.Errorf("Expected %v to be an invalid input error", invalid)
	}
	if IsInsufficientData(invalid) {
		t.Errorf("Did not expect %v to be an insufficient data error", invalid)
	}

	short := NewInsufficientDataError("std", 2, 1)
	if !IsInsufficientData(short) {
		t.Errorf("Expected %v to be an insufficient data error", short)
	}

	var typed *InsufficientDataError
	if !errors.As(short, &typed) || typed.Statistic != "std" {
		t.Errorf("Expected errors.As to recover the statistic name, got %+v", typed)
	}

	if got := invalid.Error(); got != `invalid input: sample[3] = "abc": not a number` {
		t.Errorf("Unexpected message: %s", got)
	}
	if got := short.Error(); got != "insufficient data for analysis: std requires at least 2 values, got 1" {
		t.Errorf("Unexpected message: %s", got)
	}

	render := NewRenderError("summary", errors.New("boom"))
	if !IsRenderError(render) {
		t.Errorf("Expected %v to be a render error", render)
	}
}

// TestComputeSampleHash tests sample fingerprints
func TestComputeSampleHash(t *testing.T) {
	a := ComputeSampleHash("x", []float64{1, 2, 3})

	if len(a.String()) != 64 {
		t.Errorf("Expected 64 hex digits, got %d", len(a.String()))
	}
	if a.Short() != a.String()[:12] {
		t.Errorf("Short() = %q, want prefix of %q", a.Short(), a.String())
	}
	if a != ComputeSampleHash("x", []float64{1, 2, 3}) {
		t.Error("Same sample should hash the same")
	}

	others := map[string]SampleHash{
		"order": ComputeSampleHash("x", []float64{3, 2, 1}),
		"label": ComputeSampleHash("y", []float64{1, 2, 3}),
		"value": ComputeSampleHash("x", []float64{1, 2, 3.0000001}),
	}
	for name, h := range others {
		if h == a {
			t.Errorf("Changing the %s should change the hash", name)
		}
	}
}
