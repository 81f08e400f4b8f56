package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/meltforce/athletelog/internal/coach"
	"github.com/meltforce/athletelog/internal/models"
)

// cmdChat sends one message, or runs a conversation reading lines from stdin
// until EOF. The conversation lives only as long as the process.
func cmdChat(ctx context.Context, a *app, args []string) error {
	if !a.coach.HasKey() {
		return errors.New(coach.UserMessage(coach.ErrNoAPIKey))
	}
	if len(args) > 0 {
		return ask(ctx, a, strings.Join(args, " "))
	}

	fmt.Fprintln(a.out, "Coach is listening. Ctrl-D to quit, /clear to start over.")
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(a.out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(a.out)
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		switch line {
		case "":
			continue
		case "/clear":
			a.coord.ClearChat()
			continue
		}
		if err := ask(ctx, a, line); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintln(a.out, coach.UserMessage(err))
		}
	}
}

func ask(ctx context.Context, a *app, msg string) error {
	reply, err := a.coord.Ask(ctx, a.coach, msg)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, reply)
	return nil
}

func cmdPlan(ctx context.Context, a *app, _ []string) error {
	plan, err := a.coach.GeneratePlan(ctx, a.coord.Snapshot().Profile)
	if err != nil {
		return errors.New(coach.UserMessage(err))
	}
	fmt.Fprintln(a.out, plan)
	return nil
}

func cmdTip(ctx context.Context, a *app, _ []string) error {
	tip := a.coach.DailyTip(ctx, a.coord.Snapshot().Profile, time.Now())
	if tip == "" {
		tip = "Consistency beats intensity. Show up, log it, repeat."
	}
	fmt.Fprintln(a.out, tip)
	return nil
}

func cmdAnalyze(ctx context.Context, a *app, _ []string) error {
	snap := a.coord.Snapshot()
	if len(snap.Biomarkers) == 0 {
		return errors.New("no biomarkers logged yet")
	}
	text, err := a.coach.AnalyzeBiomarkers(ctx, snap.Biomarkers, snap.Profile)
	if err != nil {
		return errors.New(coach.UserMessage(err))
	}
	fmt.Fprintln(a.out, text)
	return nil
}

func cmdSuggest(ctx context.Context, a *app, args []string) error {
	fs := newFlags("suggest")
	exercise := fs.String("exercise", "", "exercise name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *exercise == "" {
		return errors.New("suggest: -exercise is required")
	}
	if lib, ok := models.LookupExercise(*exercise); ok {
		*exercise = lib.Name
	}
	var sets []models.Set
	for _, arg := range fs.Args() {
		s, err := parseSet(arg)
		if err != nil {
			return err
		}
		sets = append(sets, s)
	}

	sug := a.coach.SuggestNextSet(ctx, *exercise, sets, a.coord.Snapshot().Profile)
	if sug == nil {
		return errors.New("no suggestion available")
	}
	fmt.Fprintf(a.out, "next: %s", formatSet(sug.Set()))
	if sug.Note != "" {
		fmt.Fprintf(a.out, "  (%s)", sug.Note)
	}
	fmt.Fprintln(a.out)
	return nil
}
