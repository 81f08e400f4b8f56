// Package alpha reads Alpha Progression CSV exports.
package alpha

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Session is one workout block of an export.
type Session struct {
	Name      string
	Start     time.Time
	Duration  string
	Exercises []Exercise
}

// Exercise is a numbered exercise inside a session.
type Exercise struct {
	Number     int
	Name       string
	Equipment  string
	TargetReps int
	Sets       []Set
}

// Set is a warmup or working set. RIR is only meaningful when RIRTracked.
type Set struct {
	Number           int
	WeightKg         float64
	IsBodyweightPlus bool
	Reps             int
	RIR              float64
	RIRTracked       bool
	IsWarmup         bool
}

var (
	// "Push · Day 1";"2026-02-17 5:04 h";"1:12 hr"
	sessionLine = regexp.MustCompile(`^"(.+)";"(\d{4}-\d{2}-\d{2}\s+\d{1,2}:\d{2})\s+h";"(.+)"$`)

	// "1. Bench Press · Barbell · 6 reps[ · modifiers]"[;"WU1 · ..."]
	exerciseLine = regexp.MustCompile(`^"(\d+)\.\s+(.+?)(?:\s+·\s+(\S.*?))?\s+·\s+(\d+)\s+reps(.*?)"(?:;"(.+)")?$`)

	// 1;102,5;6;0
	setLine = regexp.MustCompile(`^(\d+);([^;]+);(\d+);([^;]*)$`)

	// WU1 · 37,5 kg · 9 reps
	warmupItem = regexp.MustCompile(`WU(\d+)\s+·\s+(.+?)\s+kg\s+·\s+(\d+)\s+reps`)
)

const columnHeader = "#;KG;REPS;RIR"

// parser accumulates sessions line by line.
type parser struct {
	sessions []Session
	session  *Session
	exercise *Exercise
}

func (p *parser) closeExercise() {
	if p.exercise != nil && p.session != nil {
		p.session.Exercises = append(p.session.Exercises, *p.exercise)
	}
	p.exercise = nil
}

func (p *parser) closeSession() {
	p.closeExercise()
	if p.session != nil {
		p.sessions = append(p.sessions, *p.session)
	}
	p.session = nil
}

func (p *parser) line(line string) error {
	switch {
	case line == "":
		p.closeSession()

	case line == columnHeader:

	case sessionLine.MatchString(line):
		m := sessionLine.FindStringSubmatch(line)
		p.closeSession()
		start, err := parseStart(m[2])
		if err != nil {
			return err
		}
		p.session = &Session{Name: m[1], Start: start, Duration: m[3]}

	case exerciseLine.MatchString(line):
		m := exerciseLine.FindStringSubmatch(line)
		if p.session == nil {
			return fmt.Errorf("exercise outside a session: %q", line)
		}
		p.closeExercise()
		num, _ := strconv.Atoi(m[1])
		target, _ := strconv.Atoi(m[4])
		p.exercise = &Exercise{
			Number:     num,
			Name:       strings.TrimSpace(m[2]),
			Equipment:  strings.TrimSpace(m[3]),
			TargetReps: target,
			Sets:       parseWarmups(m[6]),
		}

	case setLine.MatchString(line):
		m := setLine.FindStringSubmatch(line)
		if p.exercise == nil {
			return fmt.Errorf("set outside an exercise: %q", line)
		}
		num, _ := strconv.Atoi(m[1])
		weight, bw := parseWeight(m[2])
		reps, _ := strconv.Atoi(m[3])
		rir, tracked := parseDecimal(m[4])
		p.exercise.Sets = append(p.exercise.Sets, Set{
			Number:           num,
			WeightKg:         weight,
			IsBodyweightPlus: bw,
			Reps:             reps,
			RIR:              rir,
			RIRTracked:       tracked,
		})
	}
	// Anything else is free text (notes) and ignored.
	return nil
}

// Parse reads an export. Sessions are separated by blank lines or start at a
// new session header.
func Parse(r io.Reader) ([]Session, error) {
	var p parser
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		if err := p.line(strings.TrimSpace(sc.Text())); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	p.closeSession()
	return p.sessions, nil
}

func parseStart(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04", "2006-01-02 3:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("bad session start %q", s)
}

// parseWarmups reads "WU1 · 37,5 kg · 9 reps<br>WU2 · ..." into warmup sets.
func parseWarmups(s string) []Set {
	if s == "" {
		return nil
	}
	var sets []Set
	for _, item := range strings.Split(s, "<br>") {
		m := warmupItem.FindStringSubmatch(item)
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])
		weight, bw := parseWeight(m[2])
		reps, _ := strconv.Atoi(m[3])
		sets = append(sets, Set{Number: num, WeightKg: weight, IsBodyweightPlus: bw, Reps: reps, IsWarmup: true})
	}
	return sets
}

// parseWeight reads "102,5" or bodyweight-plus "+35".
func parseWeight(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	plus := strings.HasPrefix(s, "+")
	w, _ := parseDecimal(strings.TrimPrefix(s, "+"))
	return w, plus
}

// parseDecimal reads a comma-decimal number. ok is false for blanks and
// placeholders such as "-".
func parseDecimal(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
