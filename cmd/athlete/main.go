// Command athlete is the training-log client: it keeps the history in a local
// SQLite store, mirrors it to an athleted server when one is configured and
// talks to the coaching service.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/meltforce/athletelog/internal/coach"
	"github.com/meltforce/athletelog/internal/config"
	"github.com/meltforce/athletelog/internal/localstore"
	"github.com/meltforce/athletelog/internal/remote"
	"github.com/meltforce/athletelog/internal/state"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// app is what every subcommand runs against.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	local  *localstore.SQLite
	remote *remote.Client
	coord  *state.Coordinator
	coach  *coach.Client
	out    io.Writer
}

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"summary":          {"[-date YYYY-MM-DD]  dashboard: streak, totals, records, volume", cmdSummary},
	"profile":          {"[-name ..] [-sport ..] [-goal ..] [-experience ..] [-age N] [-weight KG] [-height CM]", cmdProfile},
	"exercises":        {"[-search TEXT] [-quality NAME]  browse the exercise library", cmdExercises},
	"log-workout":      {"[-date ..] [-notes ..] -e 'Name:100x5@8,100x5@8.5' [-e ...]", cmdLogWorkout},
	"workouts":         {"[-n N]  recent workouts", cmdWorkouts},
	"log-biomarker":    {"-name NAME -value V [-date ..] [-unit ..] [-category ..]", cmdLogBiomarker},
	"delete-biomarker": {"ID", cmdDeleteBiomarker},
	"biomarkers":       {"[-name NAME]  entries, or one marker's series", cmdBiomarkers},
	"export":           {"[-o FILE]  write a JSON export", cmdExport},
	"import":           {"FILE  replace data from a JSON export", cmdImport},
	"import-alpha":     {"[-sport ..] [-force] FILE  import an Alpha Progression CSV", cmdImportAlpha},
	"upload-alpha":     {"[-sport ..] FILE  send an Alpha Progression CSV to the server", cmdUploadAlpha},
	"chat":             {"[MESSAGE]  ask the coach (interactive without a message)", cmdChat},
	"plan":             {"generate a training plan for the profile", cmdPlan},
	"tip":              {"today's coaching tip", cmdTip},
	"analyze":          {"analyze recent biomarkers", cmdAnalyze},
	"suggest":          {"-exercise NAME SET...  suggest the next set", cmdSuggest},
	"rest":             {"[-s SECONDS]  run a rest timer", cmdRest},
	"mcp":              {"serve the training log as MCP tools over stdio", cmdMCP},
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("athlete", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath(), "path to config file (optional)")
	verbose := fs.Bool("v", false, "debug logging")
	version := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() { usage(fs) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *version {
		fmt.Println("athlete", Version)
		return 0
	}
	if fs.NArg() == 0 {
		usage(fs)
		return 2
	}
	name, rest := fs.Arg(0), fs.Args()[1:]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
		usage(fs)
		return 2
	}

	// Logs go to stderr: stdout carries command output and, for mcp, the protocol.
	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(*configPath, true)
	if err != nil {
		log.Error("failed to load config", "error", err)
		return 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	a, err := open(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", "error", err)
		return 1
	}
	defer a.close()

	if err := cmd.run(ctx, a, rest); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

// open wires the local store, the optional remote session and the
// coordinator, then loads the history.
func open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*app, error) {
	local, err := localstore.OpenSQLite(cfg.Local.StateDir)
	if err != nil {
		return nil, err
	}

	opts := state.Options{QueueSize: cfg.Remote.QueueSize, RemoteTimeout: cfg.Remote.Timeout}
	var rc *remote.Client
	if cfg.Remote.URL != "" {
		rc = remote.NewClient(cfg.Remote.URL, cfg.Remote.APIKey, cfg.Remote.Timeout)
		sess, err := rc.Session(ctx)
		if err != nil {
			log.Warn("remote unavailable, working offline", "url", cfg.Remote.URL, "error", err)
		} else {
			log.Info("remote session", "login", sess.Login)
			opts.Remote, opts.Session = rc, sess
		}
	}

	coord := state.New(local, log, opts)
	coord.Startup(ctx)

	return &app{
		cfg:    cfg,
		log:    log,
		local:  local,
		remote: rc,
		coord:  coord,
		coach:  coach.NewClient(cfg.Coach.APIKey, cfg.Coach.BaseURL, cfg.Coach.Model, cfg.Coach.Timeout, log),
		out:    os.Stdout,
	}, nil
}

// close waits briefly for pending remote writes before shutting down.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.coord.Flush(ctx); err != nil {
		a.log.Warn("remote writes still pending at exit", "error", err)
	}
	// ctx is already spent after a failed flush, so Close aborts at once.
	if err := a.coord.Close(ctx); err != nil {
		a.log.Warn("dropped pending remote writes", "error", err)
	}
	if err := a.local.Close(); err != nil {
		a.log.Warn("closing local store", "error", err)
	}
}

func defaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir + "/athletelog/config.yaml"
	}
	return "athletelog.yaml"
}

func usage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage: athlete [-config FILE] [-v] <command> [args]\n\nCommands:\n")
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(os.Stderr, "  %-17s %s\n", n, commands[n].usage)
	}
	fmt.Fprintln(os.Stderr, "\nFlags:")
	fs.PrintDefaults()
}
