package models

import "strings"

// DefaultSport is assumed when the profile names none.
const DefaultSport = "General Fitness"

// Sports lists the sports an athlete can pick.
var Sports = []string{
	"General Fitness", "Powerlifting", "Olympic Weightlifting", "Bodybuilding",
	"CrossFit", "Football", "Basketball", "Soccer", "Tennis", "Rugby", "MMA / BJJ",
	"Boxing", "Wrestling", "Gymnastics", "Swimming", "Cycling", "Running / Track",
	"Rowing", "Volleyball", "Baseball", "American Football", "Triathlon", "Climbing",
	"Calisthenics", "Sprinting", "Long Jump / High Jump", "Throwing Events",
	"Hockey", "Golf", "Skiing / Snowboarding", "Custom",
}

// Goals lists the primary training goals.
var Goals = []string{
	"Build Muscle (Hypertrophy)",
	"Increase Maximal Strength",
	"Develop Power & Explosiveness",
	"Improve Speed & Agility",
	"Build Aerobic Endurance",
	"Improve Body Composition",
	"Enhance Mobility & Flexibility",
	"Athletic Performance (Sport-Specific)",
	"General Health & Fitness",
	"Muscular Endurance",
	"Skill Development",
}

// ExperienceLevels lists training experience levels, least to most.
var ExperienceLevels = []string{"Beginner", "Intermediate", "Advanced", "Elite"}

// AthleticQualities are the quality tags used on exercises.
var AthleticQualities = []string{
	"Maximal Strength",
	"Relative Strength",
	"Power / Explosiveness",
	"Speed & Agility",
	"Aerobic Endurance",
	"Anaerobic Capacity",
	"Muscular Endurance",
	"Mobility & Flexibility",
	"Skill & Coordination",
	"Body Composition",
	"Recovery & Wellness",
}

// BiomarkerDef is one entry of the biomarker taxonomy.
type BiomarkerDef struct {
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	Description string `json:"description"`
}

// BiomarkerCategory groups related biomarkers.
type BiomarkerCategory struct {
	Name    string         `json:"name"`
	Markers []BiomarkerDef `json:"markers"`
}

// DefaultBiomarkerCategory is used when an entry names no category.
const DefaultBiomarkerCategory = "Body Composition"

// BiomarkerCatalog is the fixed biomarker taxonomy, in display order.
var BiomarkerCatalog = []BiomarkerCategory{
	{Name: "Body Composition", Markers: []BiomarkerDef{
		{"Body Weight", "kg", "Total body mass"},
		{"Body Fat %", "%", "Estimated body fat percentage"},
		{"Lean Mass", "kg", "Fat-free mass estimate"},
		{"Waist Circumference", "cm", "Waist measurement"},
		{"Hip Circumference", "cm", "Hip measurement"},
		{"Chest Circumference", "cm", "Chest measurement"},
		{"Arm Circumference", "cm", "Upper arm measurement"},
		{"Thigh Circumference", "cm", "Thigh measurement"},
	}},
	{Name: "Strength Markers", Markers: []BiomarkerDef{
		{"Squat 1RM", "kg", "Back squat 1-rep max"},
		{"Bench Press 1RM", "kg", "Bench press 1-rep max"},
		{"Deadlift 1RM", "kg", "Deadlift 1-rep max"},
		{"Overhead Press 1RM", "kg", "OHP 1-rep max"},
		{"Total (SBD)", "kg", "Squat + Bench + Deadlift total"},
		{"Wilks Score", "pts", "Strength relative to bodyweight"},
		{"Grip Strength", "kg", "Dynamometer grip test"},
	}},
	{Name: "Power & Speed", Markers: []BiomarkerDef{
		{"Vertical Jump", "cm", "Countermovement jump height"},
		{"Broad Jump", "cm", "Standing broad/long jump"},
		{"30m Sprint", "s", "30-meter sprint time"},
		{"10m Sprint", "s", "10-meter sprint (explosive start)"},
		{"100m Sprint", "s", "100m personal best"},
		{"T-Test Agility", "s", "T-test agility run time"},
		{"Power Clean 1RM", "kg", "Power clean 1-rep max"},
		{"Snatch 1RM", "kg", "Full snatch 1-rep max"},
	}},
	{Name: "Endurance Metrics", Markers: []BiomarkerDef{
		{"VO2 Max (estimated)", "ml/kg/min", "Aerobic capacity estimate"},
		{"Resting Heart Rate", "bpm", "Morning resting HR"},
		{"HRV (RMSSD)", "ms", "Heart rate variability"},
		{"5K Run Time", "min", "5km personal best"},
		{"10K Run Time", "min", "10km personal best"},
		{"Lactate Threshold HR", "bpm", "HR at lactate threshold"},
		{"Max Aerobic Speed", "km/h", "Speed at VO2max"},
	}},
	{Name: "Recovery & Wellness", Markers: []BiomarkerDef{
		{"Sleep Duration", "hrs", "Total sleep hours"},
		{"Sleep Quality", "/10", "Subjective sleep quality"},
		{"Energy Level", "/10", "Subjective energy (1-10)"},
		{"Muscle Soreness", "/10", "DOMS level (1=none, 10=extreme)"},
		{"Stress Level", "/10", "Perceived stress (1-10)"},
		{"Mood", "/10", "Overall mood score"},
		{"Readiness Score", "/10", "Overall training readiness"},
	}},
	{Name: "Mobility & Flexibility", Markers: []BiomarkerDef{
		{"Sit & Reach", "cm", "Hamstring flexibility test"},
		{"Shoulder Rotation", "°", "Internal/external rotation ROM"},
		{"Hip Flexor ROM", "°", "Hip flexor flexibility"},
		{"Ankle Dorsiflexion", "°", "Ankle ROM assessment"},
		{"Thoracic Rotation", "°", "T-spine rotational ROM"},
		{"FMS Score", "/21", "Functional Movement Screen total"},
	}},
}

// LookupBiomarker finds a biomarker by name (case-insensitive) and returns its
// definition and category.
func LookupBiomarker(name string) (BiomarkerDef, string, bool) {
	for _, cat := range BiomarkerCatalog {
		for _, m := range cat.Markers {
			if strings.EqualFold(m.Name, name) {
				return m, cat.Name, true
			}
		}
	}
	return BiomarkerDef{}, "", false
}

// LibraryExercise is an entry of the built-in exercise library.
type LibraryExercise struct {
	Name      string   `json:"name"`
	Quality   string   `json:"quality"`
	Muscles   []string `json:"muscles"`
	Equipment string   `json:"equipment"`
}

// ExerciseLibrary is the built-in exercise library.
var ExerciseLibrary = []LibraryExercise{
	{"Back Squat", "Maximal Strength", []string{"Quads", "Glutes", "Hamstrings", "Core"}, "Barbell"},
	{"Front Squat", "Maximal Strength", []string{"Quads", "Core", "Upper Back"}, "Barbell"},
	{"Deadlift", "Maximal Strength", []string{"Posterior Chain", "Traps", "Grip"}, "Barbell"},
	{"Romanian Deadlift", "Relative Strength", []string{"Hamstrings", "Glutes", "Lower Back"}, "Barbell"},
	{"Bench Press", "Maximal Strength", []string{"Chest", "Triceps", "Front Delt"}, "Barbell"},
	{"Overhead Press", "Maximal Strength", []string{"Shoulders", "Triceps", "Core"}, "Barbell"},
	{"Barbell Row", "Relative Strength", []string{"Lats", "Rhomboids", "Biceps"}, "Barbell"},
	{"Pull-Up", "Relative Strength", []string{"Lats", "Biceps", "Core"}, "Bodyweight"},
	{"Weighted Pull-Up", "Maximal Strength", []string{"Lats", "Biceps"}, "Bodyweight+Belt"},
	{"Dip", "Relative Strength", []string{"Chest", "Triceps", "Front Delt"}, "Parallel Bars"},
	{"Bulgarian Split Squat", "Relative Strength", []string{"Quads", "Glutes", "Adductors"}, "Dumbbells/Barbell"},
	{"Leg Press", "Maximal Strength", []string{"Quads", "Glutes", "Hamstrings"}, "Machine"},
	{"Hip Thrust", "Relative Strength", []string{"Glutes", "Hamstrings"}, "Barbell"},
	{"Power Clean", "Power / Explosiveness", []string{"Full Body"}, "Barbell"},
	{"Hang Clean", "Power / Explosiveness", []string{"Full Body"}, "Barbell"},
	{"Snatch", "Power / Explosiveness", []string{"Full Body"}, "Barbell"},
	{"Push Press", "Power / Explosiveness", []string{"Shoulders", "Triceps", "Legs"}, "Barbell"},
	{"Box Jump", "Power / Explosiveness", []string{"Quads", "Glutes", "Calves"}, "Box"},
	{"Broad Jump", "Power / Explosiveness", []string{"Quads", "Glutes", "Calves"}, "Bodyweight"},
	{"Medicine Ball Slam", "Power / Explosiveness", []string{"Core", "Shoulders", "Arms"}, "Med Ball"},
	{"Kettlebell Swing", "Power / Explosiveness", []string{"Posterior Chain", "Core"}, "Kettlebell"},
	{"Depth Drop", "Power / Explosiveness", []string{"Legs", "Core"}, "Box"},
	{"Sprint Intervals (30m)", "Speed & Agility", []string{"Full Body"}, "Bodyweight"},
	{"Sled Push", "Speed & Agility", []string{"Quads", "Glutes", "Calves"}, "Sled"},
	{"Cone Drills (T-Test)", "Speed & Agility", []string{"Full Body"}, "Cones"},
	{"Lateral Bounds", "Speed & Agility", []string{"Glutes", "Adductors", "Calves"}, "Bodyweight"},
	{"Resisted Sprints", "Speed & Agility", []string{"Full Body"}, "Band/Sled"},
	{"Tempo Run", "Aerobic Endurance", []string{"Full Body"}, "Bodyweight"},
	{"Long Slow Distance Run", "Aerobic Endurance", []string{"Full Body"}, "Bodyweight"},
	{"Row Ergometer", "Aerobic Endurance", []string{"Full Body"}, "Rowing Machine"},
	{"Assault Bike HIIT", "Anaerobic Capacity", []string{"Full Body"}, "Assault Bike"},
	{"Hill Sprints", "Anaerobic Capacity", []string{"Full Body"}, "Bodyweight"},
	{"Battle Ropes", "Muscular Endurance", []string{"Shoulders", "Core", "Arms"}, "Battle Ropes"},
	{"Hip 90/90 Stretch", "Mobility & Flexibility", []string{"Hip Rotators", "Glutes"}, "Bodyweight"},
	{"World's Greatest Stretch", "Mobility & Flexibility", []string{"Hip Flexors", "Thoracic Spine", "Hamstrings"}, "Bodyweight"},
	{"Couch Stretch", "Mobility & Flexibility", []string{"Hip Flexors", "Quads"}, "Bodyweight"},
	{"Thoracic Extension on Roller", "Mobility & Flexibility", []string{"Thoracic Spine"}, "Foam Roller"},
	{"Pigeon Pose", "Mobility & Flexibility", []string{"Piriformis", "Glutes", "Hip Rotators"}, "Bodyweight"},
	{"Push-Up", "Muscular Endurance", []string{"Chest", "Triceps", "Shoulders"}, "Bodyweight"},
	{"Plank", "Muscular Endurance", []string{"Core", "Shoulders"}, "Bodyweight"},
	{"Farmer's Carry", "Muscular Endurance", []string{"Forearms", "Traps", "Core"}, "Dumbbells/Handles"},
}

// LookupExercise finds a library exercise by name (case-insensitive).
func LookupExercise(name string) (LibraryExercise, bool) {
	for _, ex := range ExerciseLibrary {
		if strings.EqualFold(ex.Name, name) {
			return ex, true
		}
	}
	return LibraryExercise{}, false
}

// FilterLibrary returns library exercises matching quality exactly (when
// non-empty) whose name, muscles or quality contain search, case-insensitively.
func FilterLibrary(search, quality string) []LibraryExercise {
	search = strings.ToLower(strings.TrimSpace(search))
	var out []LibraryExercise
	for _, ex := range ExerciseLibrary {
		if quality != "" && ex.Quality != quality {
			continue
		}
		if search != "" && !ex.matches(search) {
			continue
		}
		out = append(out, ex)
	}
	return out
}

func (ex LibraryExercise) matches(lower string) bool {
	if strings.Contains(strings.ToLower(ex.Name), lower) || strings.Contains(strings.ToLower(ex.Quality), lower) {
		return true
	}
	for _, m := range ex.Muscles {
		if strings.Contains(strings.ToLower(m), lower) {
			return true
		}
	}
	return false
}
