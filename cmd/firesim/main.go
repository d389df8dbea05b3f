// Command firesim generates terrain, runs fire simulations and computes
// Monte-Carlo burn-probability heat maps from the command line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"firespread/internal/core"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, env *env, args []string) error
}

// env carries the shared outputs of one invocation.
type env struct {
	stdout io.Writer
	stderr io.Writer
	logger *log.Logger
}

var commands = []command{
	{name: "generate", summary: "generate a world and write it as JSON", run: runGenerate},
	{name: "run", summary: "run one fire to burnout and print its statistics", run: runFire},
	{name: "predict", summary: "compute a Monte-Carlo burn-probability heat map", run: runPredict},
	{name: "external", summary: "compute a heat map with an external model process", run: runExternal},
	{name: "dataset", summary: "append heat maps of random worlds to a JSON-lines dataset", run: runDataset},
	{name: "sweep", summary: "sweep the base spread probability", run: runSweep},
	{name: "params", summary: "print the tunable parameters", run: runParams},
	{name: "tui", summary: "interactive terminal viewer", run: runTUI},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("firesim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	level := fs.String("log-level", "info", "log level (debug, info, warn, error)")
	format := fs.String("log-format", "text", "log format (text, json, logfmt)")
	fs.Usage = func() { usage(stderr, fs) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	logger, err := newLogger(stderr, *level, *format)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	rest := fs.Args()
	if len(rest) == 0 {
		usage(stderr, fs)
		return 2
	}
	cmd, ok := lookup(rest[0])
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q", rest[0])
		if hint, ok := core.Suggest(rest[0], commandNames()); ok {
			fmt.Fprintf(stderr, ", did you mean %q?", hint)
		}
		fmt.Fprintln(stderr)
		return 2
	}

	e := &env{stdout: stdout, stderr: stderr, logger: logger.WithPrefix(cmd.name)}
	if err := cmd.run(ctx, e, rest[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		logger.Error("command failed", "cmd", cmd.name, "err", err)
		return 1
	}
	return 0
}

func newLogger(w io.Writer, level, format string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := log.Options{Level: lvl, ReportTimestamp: true, TimeFormat: time.TimeOnly}
	switch strings.ToLower(format) {
	case "text":
		opts.Formatter = log.TextFormatter
	case "json":
		opts.Formatter = log.JSONFormatter
	case "logfmt":
		opts.Formatter = log.LogfmtFormatter
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return log.NewWithOptions(w, opts), nil
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func commandNames() []string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}
	return names
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "usage: firesim [flags] <command> [command flags]")
	fmt.Fprintln(w, "\ncommands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-9s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(w, "\nflags:")
	fs.PrintDefaults()
}
