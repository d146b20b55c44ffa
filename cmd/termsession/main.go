// Package main is the entry point for termsession, a terminal emulator
// that runs a shell inside the current terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"pkt.systems/pslog"

	"github.com/dshills/termsession/internal/config"
	"github.com/dshills/termsession/internal/screen"
	"github.com/dshills/termsession/internal/session"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath  string
	shell       string
	workdir     string
	logLevel    string
	logFile     string
	showVersion bool
	args        []string
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args, os.Stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if opts.showVersion {
		fmt.Printf("termsession %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, closeLog, err := newLogger(opts.logFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	ctx := pslog.ContextWithLogger(context.Background(), logger)
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, opts.configPath, cfg); err != nil {
		logger.With("err", err).Error("termsession failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, out io.Writer) (options, error) {
	var opts options
	fs := pflag.NewFlagSet("termsession", pflag.ContinueOnError)
	fs.SetOutput(out)

	fs.StringVarP(&opts.configPath, "config", "c", config.DefaultPath(), "Path to configuration file")
	fs.StringVarP(&opts.shell, "shell", "s", "", "Shell to run (default from config or the system)")
	fs.StringVarP(&opts.workdir, "workdir", "w", "", "Working directory (default home)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	fs.StringVar(&opts.logFile, "log-file", "", "Write logs to this file; logging is off without it")
	fs.BoolVarP(&opts.showVersion, "version", "v", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(out, "termsession - run a shell in a managed terminal session\n\n")
		fmt.Fprintf(out, "Usage: termsession [options] [-- shell args...]\n\n")
		fmt.Fprintf(out, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.args = fs.Args()
	return opts, nil
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig(opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	if opts.shell != "" {
		cfg.Shell = opts.shell
	}
	if opts.workdir != "" {
		cfg.WorkingDirectory = opts.workdir
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if len(opts.args) > 0 {
		cfg.Args = opts.args
	}
	return cfg, cfg.Validate()
}

// newLogger returns a console logger writing to path. The terminal
// itself belongs to the screen, so without a path nothing is logged.
func newLogger(path, level string) (pslog.Logger, func(), error) {
	var w io.Writer = io.Discard
	closeFn := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}

	opts := pslog.Options{Mode: pslog.ModeConsole}
	switch level {
	case "trace":
		opts.MinLevel = pslog.TraceLevel
	case "debug":
		opts.MinLevel = pslog.DebugLevel
	case "warn":
		opts.MinLevel = pslog.WarnLevel
	case "error":
		opts.MinLevel = pslog.ErrorLevel
	default:
		opts.MinLevel = pslog.InfoLevel
	}
	return pslog.LoggerFromEnv(
		pslog.WithEnvWriter(w),
		pslog.WithEnvOptions(opts),
	), closeFn, nil
}

// serve runs the session on the screen until the shell exits or ctx is
// cancelled.
func serve(ctx context.Context, configPath string, cfg config.Config) error {
	scr, err := screen.New()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := scr.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer scr.Fini()

	sess, err := session.New(ctx, cfg, scr.Size())
	if err != nil {
		return err
	}
	defer sess.Close()

	a := newApp(scr, sess)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.renderLoop(ctx) })
	g.Go(func() error { return a.inputLoop(ctx) })
	g.Go(func() error {
		err := config.Watch(ctx, configPath, config.DefaultDebounce, a.reload(ctx))
		if err != nil {
			pslog.Ctx(ctx).With("err", err).Warn("config watch stopped")
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errExited) {
		return err
	}
	return nil
}
