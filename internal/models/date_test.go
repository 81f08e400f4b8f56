package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-01")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	want := Date{Year: 2026, Month: time.March, Day: 1}
	if d != want {
		t.Errorf("ParseDate = %+v, want %+v", d, want)
	}
	if d.String() != "2026-03-01" {
		t.Errorf("String() = %q", d.String())
	}

	if _, err := ParseDate("03/01/2026"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

// TestDateUnmarshal covers the date encodings found in stored snapshots and
// import files.
func TestDateUnmarshal(t *testing.T) {
	cases := []struct {
		input string
		want  Date
	}{
		{`"2026-01-15"`, Date{2026, time.January, 15}},
		{`"2026-01-15T08:30:00Z"`, Date{2026, time.January, 15}},
		{`""`, Date{}},
		{`null`, Date{}},
	}
	for _, tc := range cases {
		var d Date
		if err := json.Unmarshal([]byte(tc.input), &d); err != nil {
			t.Errorf("Unmarshal(%s): %v", tc.input, err)
			continue
		}
		if d != tc.want {
			t.Errorf("Unmarshal(%s) = %+v, want %+v", tc.input, d, tc.want)
		}
	}

	var d Date
	if err := json.Unmarshal([]byte(`"yesterday"`), &d); err == nil {
		t.Error("expected error for unparseable date")
	}
}

func TestDateMarshalZero(t *testing.T) {
	b, err := json.Marshal(Date{})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `""` {
		t.Errorf("Marshal(zero) = %s, want \"\"", b)
	}
}

func TestDateArithmetic(t *testing.T) {
	d := Date{2024, time.February, 28}

	if got := d.AddDays(1); got != (Date{2024, time.February, 29}) {
		t.Errorf("AddDays(1) = %v, want leap day", got)
	}
	if got := d.AddDays(2); got != (Date{2024, time.March, 1}) {
		t.Errorf("AddDays(2) = %v", got)
	}
	if got := d.AddDays(2).DaysSince(d); got != 2 {
		t.Errorf("DaysSince = %d, want 2", got)
	}
	if !d.Before(d.AddDays(1)) || d.AddDays(1).Before(d) {
		t.Error("Before is inconsistent")
	}
	if d.Compare(d) != 0 {
		t.Error("Compare(self) != 0")
	}
}
