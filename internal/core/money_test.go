package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12", 1200, true},
		{"12.3", 1230, true},
		{"12.345", 1235, true}, // half rounds up
		{"12.346", 1235, true}, // rounds up
		{"12.344", 1234, true}, // rounds down
		{"0", 0, true},
		{"0.00", 0, true},
		{".5", 50, true},
		{"", 0, false},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1e3", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("ParseDecimalToCents(%q) = %d, %v; want %d", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseDecimalToCents(%q) expected error", tc.in)
		}
	}
}

func TestMoneyUnits(t *testing.T) {
	if got := (Money{Cents: 1234}).Units(); got != 12.34 {
		t.Fatalf("got %v", got)
	}
	if got := (Money{Cents: -70}).Units(); got != -0.7 {
		t.Fatalf("got %v", got)
	}
}

func TestMoneyMarshalJSON(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{1234, "12.34"},
		{0, "0.00"},
		{5, "0.05"},
		{-70, "-0.70"},
	}
	for _, tc := range cases {
		data, err := (Money{Cents: tc.cents}).MarshalJSON()
		if err != nil || string(data) != tc.want {
			t.Fatalf("MarshalJSON(%d) = %s, %v; want %s", tc.cents, data, err, tc.want)
		}
	}
}
