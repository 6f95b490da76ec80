package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
)

// Build variables - set by ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)

func main() {
	os.Exit(realMain(os.Args[1:], nil, os.Stdout, os.Stderr))
}

// realMain runs the CLI and returns the process exit code: 0 on success,
// 2 on flag usage errors and 1 on everything else. A nil stdin reads os.Stdin.
func realMain(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := newFlagSet()
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: logtally [flags] [file ...]\n\nReads standard input when no files are given.\n\nFlags:\n%s", fs.FlagUsages())
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if showVersion, _ := fs.GetBool("version"); showVersion {
		fmt.Fprintf(stdout, "logtally - access log request counter\n")
		fmt.Fprintf(stdout, "  Version:    %s\n", version)
		fmt.Fprintf(stdout, "  Commit:     %s\n", commit)
		fmt.Fprintf(stdout, "  Built:      %s\n", buildTime)
		fmt.Fprintf(stdout, "  Go version: %s\n", goVersion)
		return 0
	}

	cfg, err := loadConfig(fs)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}

	cleanupLogger := configureRuntimeLogger(cfg.Verbose, stderr)
	defer cleanupLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, stdin, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// configureRuntimeLogger routes the standard logger to w in verbose mode and
// silences it otherwise, so stdout only ever carries the report.
func configureRuntimeLogger(verbose bool, w io.Writer) func() {
	prevOut, prevFlags := log.Writer(), log.Flags()
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if verbose {
		log.SetOutput(w)
	} else {
		log.SetOutput(io.Discard)
	}
	return func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	}
}
