package alpha

import (
	"strings"
	"testing"
	"time"
)

// Two sessions, 15 + 5 working sets.
const sampleCSV = `
"Lower · Day 1 · Week 2 · Upper-Lower";"2026-03-09 6:15 h";"1:20 hr"
"1. Back Squat · Barbell · 5 reps";"WU1 · 60 kg · 8 reps<br>WU2 · 100 kg · 5 reps<br>WU3 · 127,5 kg · 3 reps"
#;KG;REPS;RIR
1;145;5;2
2;145;5;1,5
3;145;5;1
4;140;6;1
"2. Romanian Deadlift · Barbell · 8 reps";"WU1 · 80 kg · 8 reps"
#;KG;REPS;RIR
1;120;8;2
2;120;8;2
3;120;8;1
"3. Walking Lunges · Dumbbells · 12 reps"
#;KG;REPS;RIR
1;22,5;12;2
2;22,5;12;1
3;22,5;11;-
"4. Leg Press · Machine · 10 reps · 1 dropset"
#;KG;REPS;RIR
1;200;10;1
2;200;9;0
"5. Nordic Hamstring Curls · Bodyweight · 6 reps";"WU1 · +0 kg · 4 reps"
#;KG;REPS;RIR
1;+0;6;1
2;+0;5;1
3;+5;4;0

"Upper · Day 2 · Week 2 · Upper-Lower";"2026-03-11 17:40 h";"1:05 hr"
"1. Overhead Press · Barbell · 6 reps";"WU1 · 20 kg · 10 reps<br>WU2 · 40 kg · 6 reps"
#;KG;REPS;RIR
1;62,5;6;2
2;62,5;6;2
3;60;7;1
"2. Weighted Pull-Ups · Pull-up bar · 5 reps"
#;KG;REPS;RIR
1;+20;5;1
2;+20;4;0
`

func TestParseCompleteSessions(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}

	lower, upper := sessions[0], sessions[1]
	if lower.Name != "Lower · Day 1 · Week 2 · Upper-Lower" || lower.Duration != "1:20 hr" {
		t.Errorf("lower = %q / %q", lower.Name, lower.Duration)
	}
	if want := time.Date(2026, 3, 9, 6, 15, 0, 0, time.UTC); !lower.Start.Equal(want) {
		t.Errorf("lower.Start = %v, want %v", lower.Start, want)
	}
	if want := time.Date(2026, 3, 11, 17, 40, 0, 0, time.UTC); !upper.Start.Equal(want) {
		t.Errorf("upper.Start = %v, want %v", upper.Start, want)
	}

	tests := []struct {
		ex         Exercise
		name       string
		equipment  string
		targetReps int
		sets       int // warmups included
	}{
		{lower.Exercises[0], "Back Squat", "Barbell", 5, 7},
		{lower.Exercises[1], "Romanian Deadlift", "Barbell", 8, 4},
		{lower.Exercises[2], "Walking Lunges", "Dumbbells", 12, 3},
		{lower.Exercises[3], "Leg Press", "Machine", 10, 2},
		{lower.Exercises[4], "Nordic Hamstring Curls", "Bodyweight", 6, 4},
		{upper.Exercises[0], "Overhead Press", "Barbell", 6, 5},
		{upper.Exercises[1], "Weighted Pull-Ups", "Pull-up bar", 5, 2},
	}
	if len(lower.Exercises) != 5 || len(upper.Exercises) != 2 {
		t.Fatalf("exercises = %d + %d, want 5 + 2", len(lower.Exercises), len(upper.Exercises))
	}
	for _, tt := range tests {
		if tt.ex.Name != tt.name || tt.ex.Equipment != tt.equipment || tt.ex.TargetReps != tt.targetReps {
			t.Errorf("exercise = %q/%q/%d, want %q/%q/%d",
				tt.ex.Name, tt.ex.Equipment, tt.ex.TargetReps, tt.name, tt.equipment, tt.targetReps)
		}
		if len(tt.ex.Sets) != tt.sets {
			t.Errorf("%s: sets = %d, want %d", tt.name, len(tt.ex.Sets), tt.sets)
		}
	}

	squat := lower.Exercises[0].Sets
	if !squat[2].IsWarmup || squat[2].WeightKg != 127.5 || squat[3].IsWarmup {
		t.Errorf("squat warmup boundary = %+v / %+v", squat[2], squat[3])
	}
	if s := squat[4]; s.RIR != 1.5 || !s.RIRTracked {
		t.Errorf("squat set 2 = %+v", s)
	}
	if s := lower.Exercises[2].Sets[2]; s.RIRTracked {
		t.Errorf("untracked RIR parsed as %+v", s)
	}
	if s := upper.Exercises[1].Sets[0]; !s.IsBodyweightPlus || s.WeightKg != 20 {
		t.Errorf("pull-up set = %+v", s)
	}
}

func TestParseNumbers(t *testing.T) {
	tests := []struct {
		in       string
		want     float64
		wantOK   bool
		wantBW   bool
		isWeight bool
	}{
		{in: "127,5", want: 127.5, wantOK: true},
		{in: "1,5", want: 1.5, wantOK: true},
		{in: "-", want: 0, wantOK: false},
		{in: "", want: 0, wantOK: false},
		{in: "+20", want: 20, wantBW: true, isWeight: true},
		{in: "+0", want: 0, wantBW: true, isWeight: true},
		{in: "145", want: 145, isWeight: true},
	}
	for _, tt := range tests {
		if tt.isWeight {
			w, bw := parseWeight(tt.in)
			if w != tt.want || bw != tt.wantBW {
				t.Errorf("parseWeight(%q) = %v, %v; want %v, %v", tt.in, w, bw, tt.want, tt.wantBW)
			}
			continue
		}
		f, ok := parseDecimal(tt.in)
		if f != tt.want || ok != tt.wantOK {
			t.Errorf("parseDecimal(%q) = %v, %v; want %v, %v", tt.in, f, ok, tt.want, tt.wantOK)
		}
	}
}

func TestWarmupParsing(t *testing.T) {
	sets := parseWarmups("WU1 · 42,5 kg · 10 reps<br>junk<br>WU2 · +0 kg · 6 reps")
	if len(sets) != 2 {
		t.Fatalf("warmup sets = %d, want 2", len(sets))
	}
	if sets[0].WeightKg != 42.5 || sets[0].Reps != 10 || !sets[0].IsWarmup || sets[0].Number != 1 {
		t.Errorf("wu1 = %+v", sets[0])
	}
	if !sets[1].IsBodyweightPlus || sets[1].WeightKg != 0 || sets[1].Number != 2 {
		t.Errorf("wu2 = %+v", sets[1])
	}
}

func TestEmptyInput(t *testing.T) {
	sessions, err := Parse(strings.NewReader("\n\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("sessions = %d, want 0", len(sessions))
	}
}

// TestParseErrorsCarryLine checks structural errors name the offending line.
func TestParseErrorsCarryLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line string
	}{
		{"set outside exercise", "\"Pull\";\"2026-03-10 7:00 h\";\"0:50 hr\"\n1;100;5;1\n", "line 2"},
		{"exercise outside session", "\"1. Deadlift · Barbell · 3 reps\"\n", "line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in))
			if err == nil || !strings.Contains(err.Error(), tt.line) {
				t.Errorf("err = %v, want mention of %q", err, tt.line)
			}
		})
	}
}
