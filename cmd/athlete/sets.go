package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/meltforce/athletelog/internal/models"
)

// exerciseArg is one -e argument of log-workout: "Bench Press:100x5@8,100x5".
type exerciseArg struct {
	Name string
	Sets []models.Set
}

// exerciseFlags collects repeated -e flags.
type exerciseFlags []exerciseArg

func (f *exerciseFlags) String() string {
	names := make([]string, len(*f))
	for i, e := range *f {
		names[i] = e.Name
	}
	return strings.Join(names, ", ")
}

func (f *exerciseFlags) Set(v string) error {
	arg, err := parseExerciseArg(v)
	if err != nil {
		return err
	}
	*f = append(*f, arg)
	return nil
}

func parseExerciseArg(v string) (exerciseArg, error) {
	name, sets, _ := strings.Cut(v, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return exerciseArg{}, fmt.Errorf("exercise %q: missing name", v)
	}
	arg := exerciseArg{Name: name}
	if strings.TrimSpace(sets) == "" {
		return arg, nil
	}
	for _, s := range strings.Split(sets, ",") {
		set, err := parseSet(s)
		if err != nil {
			return exerciseArg{}, fmt.Errorf("exercise %s: %w", name, err)
		}
		arg.Sets = append(arg.Sets, set)
	}
	return arg, nil
}

// parseSet reads WEIGHTxREPS[@RPE], e.g. "102.5x3@9". A comma decimal
// separator is not accepted here since commas separate sets.
func parseSet(s string) (models.Set, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	load, rpe, hasRPE := strings.Cut(s, "@")
	weight, reps, ok := strings.Cut(load, "x")
	if !ok {
		return models.Set{}, fmt.Errorf("set %q: want WEIGHTxREPS[@RPE]", s)
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(weight), 64)
	if err != nil || w < 0 {
		return models.Set{}, fmt.Errorf("set %q: bad weight", s)
	}
	r, err := strconv.Atoi(strings.TrimSpace(reps))
	if err != nil || r < 0 {
		return models.Set{}, fmt.Errorf("set %q: bad reps", s)
	}
	set := models.Set{WeightKg: w, Reps: r}
	if hasRPE {
		v, err := strconv.ParseFloat(strings.TrimSpace(rpe), 64)
		if err != nil || !models.RPE(v).Valid() {
			return models.Set{}, fmt.Errorf("set %q: RPE must be 6 to 10 in half steps", s)
		}
		set.RPE = models.RPE(v)
	}
	return set, nil
}

func formatSet(s models.Set) string {
	out := strconv.FormatFloat(s.WeightKg, 'f', -1, 64) + "x" + strconv.Itoa(s.Reps)
	if s.RPE != 0 {
		out += "@" + strconv.FormatFloat(float64(s.RPE), 'f', -1, 64)
	}
	return out
}
