package models

import "testing"

func TestSnapRPE(t *testing.T) {
	cases := []struct {
		in   float64
		want RPE
	}{
		{0, 0},
		{-1, 0},
		{8, 8},
		{8.2, 8},
		{8.3, 8.5},
		{9.75, 10},
		{11, 10},
		{3, 6},
	}
	for _, tc := range cases {
		if got := SnapRPE(tc.in); got != tc.want {
			t.Errorf("SnapRPE(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestRPEScale(t *testing.T) {
	scale := RPEScale()
	if len(scale) != 9 {
		t.Fatalf("len = %d, want 9", len(scale))
	}
	for _, r := range scale {
		if !r.Valid() {
			t.Errorf("%v should be valid", r)
		}
	}
	for _, r := range []RPE{0, 5.5, 6.25, 10.5} {
		if r.Valid() {
			t.Errorf("%v should be invalid", r)
		}
	}
	if DefaultRPE.Description() == "" {
		t.Error("default RPE has no description")
	}
}

func TestCatalogLookups(t *testing.T) {
	def, cat, ok := LookupBiomarker("resting heart rate")
	if !ok || def.Unit != "bpm" || cat != "Endurance Metrics" {
		t.Errorf("LookupBiomarker = %+v, %q, %v", def, cat, ok)
	}
	if _, _, ok := LookupBiomarker("Blood Type"); ok {
		t.Error("unknown biomarker should not be found")
	}

	ex, ok := LookupExercise("back squat")
	if !ok || ex.Quality != "Maximal Strength" {
		t.Errorf("LookupExercise = %+v, %v", ex, ok)
	}

	power := FilterLibrary("", "Power / Explosiveness")
	for _, ex := range power {
		if ex.Quality != "Power / Explosiveness" {
			t.Errorf("FilterLibrary returned %q with quality %q", ex.Name, ex.Quality)
		}
	}
	if len(power) == 0 {
		t.Error("no power exercises")
	}
	if got := FilterLibrary("squat", ""); len(got) != 3 {
		t.Errorf("FilterLibrary(squat) = %d results, want 3", len(got))
	}
}
