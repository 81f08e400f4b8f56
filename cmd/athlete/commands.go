package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/athletelog/internal/ingest"
	"github.com/meltforce/athletelog/internal/ingest/alpha"
	"github.com/meltforce/athletelog/internal/localstore"
	"github.com/meltforce/athletelog/internal/mcp"
	"github.com/meltforce/athletelog/internal/metrics"
	"github.com/meltforce/athletelog/internal/models"
	"github.com/meltforce/athletelog/internal/state"
	"github.com/meltforce/athletelog/internal/timer"
)

var _ ingest.Sink = (*state.Coordinator)(nil)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("athlete "+name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func dateFlag(fs *flag.FlagSet) *string {
	return fs.String("date", "", "date as YYYY-MM-DD (default today)")
}

func parseDateOrToday(s string) (models.Date, error) {
	if s == "" {
		return models.Today(), nil
	}
	return models.ParseDate(s)
}

func cmdSummary(_ context.Context, a *app, args []string) error {
	fs := newFlags("summary")
	date := dateFlag(fs)
	asJSON := fs.Bool("json", false, "print the summary as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ref, err := parseDateOrToday(*date)
	if err != nil {
		return err
	}
	snap := a.coord.Snapshot()
	sum := metrics.Summarize(snap.Workouts, ref)
	if *asJSON {
		return printJSON(a, sum)
	}

	if snap.Profile.Name != "" {
		fmt.Fprintf(a.out, "%s (%s)\n", snap.Profile.Name, snap.Profile.SportOrDefault())
	}
	fmt.Fprintf(a.out, "Streak:   %d day(s)\nWorkouts: %d\nSets:     %d\nVolume:   %.0f kg\n",
		sum.Streak, sum.TotalWorkouts, sum.TotalSets, sum.TotalVolumeKg)

	if len(sum.PersonalRecords) > 0 {
		fmt.Fprintln(a.out, "\nPersonal records:")
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		for _, r := range metrics.SortedRecords(sum.PersonalRecords) {
			fmt.Fprintf(tw, "  %s\t%gkg x %d\t%s\te1RM %.0f\n",
				r.Exercise, r.WeightKg, r.Reps, r.Date, metrics.EstimatedOneRepMax(r.WeightKg, r.Reps))
		}
		_ = tw.Flush()
	}
	printSeries(a, "Volume by day", sum.VolumeSeries)
	printSeries(a, "Top exercises by volume", sum.TopExercises)
	return nil
}

func printSeries(a *app, title string, s metrics.Series) {
	if s.Len() == 0 {
		return
	}
	fmt.Fprintf(a.out, "\n%s:\n", title)
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for i, l := range s.Labels {
		fmt.Fprintf(tw, "  %s\t%.0f\n", l, s.Values[i])
	}
	_ = tw.Flush()
}

func cmdProfile(ctx context.Context, a *app, args []string) error {
	p := a.coord.Snapshot().Profile
	fs := newFlags("profile")
	fs.StringVar(&p.Name, "name", p.Name, "athlete name")
	fs.StringVar(&p.Sport, "sport", p.Sport, "primary sport")
	fs.StringVar(&p.Goal, "goal", p.Goal, "training goal")
	fs.StringVar(&p.Experience, "experience", p.Experience, "experience level")
	fs.IntVar(&p.Age, "age", p.Age, "age in years")
	fs.Float64Var(&p.WeightKg, "weight", p.WeightKg, "body weight in kg")
	fs.Float64Var(&p.HeightCm, "height", p.HeightCm, "height in cm")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NFlag() > 0 {
		if err := a.coord.UpdateProfile(ctx, p); err != nil {
			return err
		}
	}
	return printJSON(a, a.coord.Snapshot().Profile)
}

func cmdExercises(_ context.Context, a *app, args []string) error {
	fs := newFlags("exercises")
	search := fs.String("search", "", "match name, muscle or equipment")
	quality := fs.String("quality", "", "filter by physical quality")
	if err := fs.Parse(args); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, ex := range models.FilterLibrary(*search, *quality) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ex.Name, ex.Quality, ex.Equipment, strings.Join(ex.Muscles, ", "))
	}
	return tw.Flush()
}

func cmdLogWorkout(ctx context.Context, a *app, args []string) error {
	fs := newFlags("log-workout")
	date := dateFlag(fs)
	notes := fs.String("notes", "", "workout notes")
	var exercises exerciseFlags
	fs.Var(&exercises, "e", "exercise as 'Name:WEIGHTxREPS[@RPE],...' (repeatable)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(exercises) == 0 {
		return errors.New("log-workout: at least one -e is required")
	}
	d, err := parseDateOrToday(*date)
	if err != nil {
		return err
	}

	a.coord.StartWorkout(d)
	for _, ex := range exercises {
		ei := a.coord.AddExercise(ex.Name, "")
		if len(ex.Sets) == 0 {
			// drop the seeded default set
			_ = a.coord.RemoveSet(ei, 0)
		}
		for si, s := range ex.Sets {
			if si == 0 {
				_, err = a.coord.UpdateSet(ei, 0, s)
			} else {
				err = a.coord.AppendSet(ei, s)
			}
			if err != nil {
				a.coord.AbandonWorkout()
				return err
			}
		}
	}
	w, err := a.coord.FinishWorkout(ctx, *notes)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "logged workout %s on %s: %d exercise(s), %d set(s), %.0f kg\n",
		w.ID, w.Date, len(w.Exercises), w.SetCount(), metrics.WorkoutVolume(w))
	return nil
}

func cmdWorkouts(_ context.Context, a *app, args []string) error {
	fs := newFlags("workouts")
	n := fs.Int("n", 10, "number of workouts to show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ws := a.coord.Snapshot().Workouts
	slices.SortStableFunc(ws, func(x, y models.Workout) int { return y.Date.Compare(x.Date) })
	if *n > 0 && len(ws) > *n {
		ws = ws[:*n]
	}
	for _, w := range ws {
		fmt.Fprintf(a.out, "%s  %s  %s\n", w.Date, w.Sport, w.Notes)
		for _, ex := range w.Exercises {
			sets := make([]string, len(ex.Sets))
			for i, s := range ex.Sets {
				sets[i] = formatSet(s)
			}
			fmt.Fprintf(a.out, "    %-24s %s\n", ex.Name, strings.Join(sets, " "))
		}
	}
	return nil
}

func cmdLogBiomarker(ctx context.Context, a *app, args []string) error {
	fs := newFlags("log-biomarker")
	date := dateFlag(fs)
	name := fs.String("name", "", "biomarker name, e.g. 'Resting HR'")
	value := fs.Float64("value", 0, "measured value")
	unit := fs.String("unit", "", "unit (default from the catalog)")
	category := fs.String("category", "", "category (default from the catalog)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return errors.New("log-biomarker: -name is required")
	}
	d, err := parseDateOrToday(*date)
	if err != nil {
		return err
	}
	e, err := a.coord.LogBiomarker(ctx, models.BiomarkerEntry{
		Date: d, Name: *name, Value: *value, Unit: *unit, Category: *category,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "logged %s %g %s on %s (id %s)\n", e.Name, e.Value, e.Unit, e.Date, e.ID)
	return nil
}

func cmdDeleteBiomarker(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: athlete delete-biomarker ID")
	}
	return a.coord.DeleteBiomarker(ctx, args[0])
}

func cmdBiomarkers(_ context.Context, a *app, args []string) error {
	fs := newFlags("biomarkers")
	name := fs.String("name", "", "show the series for one biomarker")
	if err := fs.Parse(args); err != nil {
		return err
	}
	entries := a.coord.Snapshot().Biomarkers
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	if *name != "" {
		s := metrics.BiomarkerSeries(entries, *name)
		for i, l := range s.Labels {
			fmt.Fprintf(tw, "%s\t%g\n", l, s.Values[i])
		}
		return tw.Flush()
	}
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g %s\t%s\n", e.ID, e.Date, e.Name, e.Value, e.Unit, e.Category)
	}
	return tw.Flush()
}

func cmdExport(_ context.Context, a *app, args []string) error {
	fs := newFlags("export")
	out := fs.String("o", "", "output file (default athletelog-export-DATE.json, - for stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	now := time.Now()
	if *out == "-" {
		return a.coord.WriteExport(a.out, now)
	}
	path := *out
	if path == "" {
		path = fmt.Sprintf("athletelog-export-%s.json", models.DateOf(now))
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := a.coord.WriteExport(f, now); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "exported to", path)
	return nil
}

func cmdImport(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: athlete import FILE")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	if err := a.coord.Import(ctx, f); err != nil {
		return err
	}
	snap := a.coord.Snapshot()
	fmt.Fprintf(a.out, "imported: %d workouts, %d biomarkers\n", len(snap.Workouts), len(snap.Biomarkers))
	return nil
}

// cmdImportAlpha imports an Alpha Progression CSV export. Files already
// imported with the same content are skipped unless -force is given.
func cmdImportAlpha(ctx context.Context, a *app, args []string) error {
	fs := newFlags("import-alpha")
	sport := fs.String("sport", "", "sport for imported workouts (default profile sport)")
	force := fs.Bool("force", false, "import even if this file was imported before")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: athlete import-alpha [-sport ..] [-force] FILE")
	}
	path, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		return err
	}
	hash, err := localstore.HashFile(path)
	if err != nil {
		return err
	}
	if !*force {
		done, err := a.local.IsImported(ctx, path, hash)
		if err != nil {
			return err
		}
		if done {
			fmt.Fprintln(a.out, "already imported, skipping (use -force to re-import)")
			return nil
		}
	}

	if *sport == "" {
		*sport = a.coord.Snapshot().Profile.SportOrDefault()
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	owner := ""
	if sess := a.coord.Session(); sess != nil {
		owner = sess.UserID
	}
	res, err := alpha.NewProvider(a.log).Ingest(ctx, f, *sport, owner, a.coord)
	if err != nil {
		return err
	}
	if err := a.local.MarkImported(ctx, path, hash, res.WorkoutsInserted); err != nil {
		a.log.Warn("recording import", "path", path, "error", err)
	}
	fmt.Fprintln(a.out, res.Message)
	return nil
}

// cmdUploadAlpha hands the CSV to the server for parsing, then reloads so the
// new workouts show up locally.
func cmdUploadAlpha(ctx context.Context, a *app, args []string) error {
	fs := newFlags("upload-alpha")
	sport := fs.String("sport", "", "sport for imported workouts (default server profile sport)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: athlete upload-alpha [-sport ..] FILE")
	}
	if a.coord.Session() == nil {
		return errors.New("upload-alpha needs a reachable server (remote.url)")
	}
	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	res, err := a.remote.UploadAlpha(ctx, data, *sport)
	if err != nil {
		return err
	}
	a.coord.Load(ctx)
	fmt.Fprintln(a.out, res.Message)
	return nil
}

func cmdRest(ctx context.Context, a *app, args []string) error {
	fs := newFlags("rest")
	secs := fs.Int("s", int(timer.DefaultRest/time.Second), "rest period in seconds")
	if err := fs.Parse(args); err != nil {
		return err
	}
	done := make(chan struct{})
	rest := timer.NewRest(
		func(left int) { fmt.Fprintf(a.out, "\rrest %s ", timer.Format(left)) },
		func() { close(done) },
	)
	rest.Start(*secs)
	fmt.Fprintf(a.out, "rest %s ", timer.Format(*secs))
	select {
	case <-done:
		fmt.Fprintln(a.out, "\rrest over, next set!")
	case <-ctx.Done():
		rest.Stop()
		fmt.Fprintln(a.out)
	}
	return nil
}

func cmdMCP(_ context.Context, a *app, _ []string) error {
	return server.ServeStdio(mcp.New(a.coord, Version, nil, a.log))
}

func printJSON(a *app, v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
