// Command soundclock encodes times of day as audio and decodes them back.
//
// Usage:
//
//	soundclock <command> [flags]
//
// Commands:
//
//	encode  -time HH:MM[:SS] -o out.wav    render one frame
//	range   -from T -to T -step N -o out.wav
//	                                       render consecutive frames
//	decode  [-v] file.wav                  recover the time from a recording
//	play    [-for 10s]                     play the current time every second
//	table                                  print the instrument table
//
// Settings default to the SOUNDCLOCK_* environment variables (see
// internal/config); a .env file in the working directory is honoured.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cwbudde/algo-soundclock/internal/config"
)

var errUsage = errors.New("usage")

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, env *environment, args []string) error
}

var commands = []command{
	{"encode", "render one time of day to a WAV file", runEncode},
	{"range", "render a span of times to one WAV file", runRange},
	{"decode", "recover hour and minute from a WAV file", runDecode},
	{"play", "play the current time once per second", runPlay},
	{"table", "print the instrument table", runTable},
}

// environment carries the resolved settings and output streams.
type environment struct {
	cfg    config.Config
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		return 2
	}

	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	env := &environment{cfg: cfg, logger: logger, stdout: stdout, stderr: stderr}
	for _, c := range commands {
		if c.name != args[0] {
			continue
		}

		err := c.run(ctx, env, args[1:])
		switch {
		case err == nil:
			return 0
		case errors.Is(err, flag.ErrHelp):
			return 0
		case errors.Is(err, errUsage):
			return 2
		default:
			logger.Error(c.name+" failed", "err", err)
			return 1
		}
	}

	fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
	usage(stderr)
	return 2
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: soundclock <command> [flags]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(w, "\nRun 'soundclock <command> -h' for command flags.\n")
}
