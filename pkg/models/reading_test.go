package models

import "testing"

func TestFahrenheitFromCelsius(t *testing.T) {
	testCases := []struct {
		name     string
		tempC    string
		expected string
	}{
		{
			name:     "Zero Celsius",
			tempC:    "0",
			expected: "32",
		},
		{
			name:     "Whole degrees",
			tempC:    "10",
			expected: "50",
		},
		{
			name:     "Boiling point",
			tempC:    "100",
			expected: "212",
		},
		{
			name:     "Whitespace around value",
			tempC:    " 10 ",
			expected: "50",
		},
		{
			name:     "Non-numeric value is stored, not rejected",
			tempC:    "undefined",
			expected: "NaN",
		},
		{
			name:     "Empty value",
			tempC:    "",
			expected: "NaN",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := FahrenheitFromCelsius(tc.tempC)
			if got != tc.expected {
				t.Errorf("FahrenheitFromCelsius(%q) = %q, want %q", tc.tempC, got, tc.expected)
			}
		})
	}
}

func TestFahrenheitFromCelsius_DecimalInput(t *testing.T) {
	// Decimal Celsius values convert with IEEE-754 arithmetic; the result
	// must parse back as a number close to the exact conversion.
	got := FahrenheitFromCelsius("12.3")
	if got == "NaN" || got == "" {
		t.Fatalf("expected a numeric string, got %q", got)
	}
	if got[0] != '5' {
		t.Errorf("FahrenheitFromCelsius(\"12.3\") = %q, expected a value in the 54.x range", got)
	}
}
