// Command songshelf indexes song libraries and browses them by category.
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

	"github.com/llehouerou/songshelf/internal/config"
	"github.com/llehouerou/songshelf/internal/errmsg"
	"github.com/llehouerou/songshelf/internal/shelf"
)

const usage = `usage: songshelf [-config file] [-v] <command> [args]

commands:
  scan [-force]            index the configured library sources
  browse <attribute>       list categories for an attribute
  random [-n count]        pick random songs
  find [-n limit] <query>  search titles, artists and albums
  stats                    show song and category counts
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("songshelf", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "config file (default: ~/.config/songshelf/config.toml, ./config.toml)")
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w", errmsg.Format(errmsg.OpParseArgs, err), errUsage)
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}

	s, err := shelf.Open(cfg)
	if err != nil {
		return errors.New(errmsg.FormatWith(errmsg.OpLibraryOpen, cfg.Database, err))
	}
	defer s.Close()

	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "scan":
		return runScan(ctx, s, cmdArgs, stdout, stderr)
	case "browse":
		return runBrowse(ctx, s, cmdArgs, stdout)
	case "random":
		return runRandom(ctx, s, cmdArgs, stdout)
	case "find":
		return runFind(ctx, s, cmdArgs, stdout)
	case "stats":
		return runStats(ctx, s, stdout)
	}
	return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
}
