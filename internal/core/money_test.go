package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "dot separator", input: "12.34", want: "12.34"},
		{name: "comma separator", input: "12,34", want: "12.34"},
		{name: "integer", input: "100", want: "100"},
		{name: "rounds half up", input: "10.005", want: "10.01"},
		{name: "rounds down", input: "10.004", want: "10"},
		{name: "surrounding whitespace", input: "  7.50  ", want: "7.5"},
		{name: "zero rejected", input: "0", wantErr: true},
		{name: "rounds to zero rejected", input: "0.001", wantErr: true},
		{name: "negative rejected", input: "-5.00", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
		{name: "garbage rejected", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseAmount(%q) expected error, got %s", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) error = %v", tt.input, err)
			}
			want, _ := decimal.NewFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-07-15")
	if err != nil {
		t.Fatalf("ParseDate error = %v", err)
	}
	if got.Year() != 2024 || got.Month() != time.July || got.Day() != 15 {
		t.Errorf("ParseDate = %v, want 2024-07-15", got)
	}

	if _, err := ParseDate("15/07/2024"); err == nil {
		t.Error("ParseDate should reject non-ISO dates")
	}
}

func TestMonthKey(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), "Jul 2024"},
		{time.Date(2024, time.July, 31, 23, 59, 0, 0, time.UTC), "Jul 2024"},
		{time.Date(2023, time.December, 5, 0, 0, 0, 0, time.UTC), "Dec 2023"},
	}

	for _, tt := range tests {
		if got := MonthKey(tt.date); got != tt.want {
			t.Errorf("MonthKey(%v) = %q, want %q", tt.date, got, tt.want)
		}
	}
}
