package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/vidscope/vidscope/pkg/analyzer"
	"github.com/vidscope/vidscope/pkg/blindspot"
	"github.com/vidscope/vidscope/pkg/config"
	"github.com/vidscope/vidscope/pkg/content"
	"github.com/vidscope/vidscope/pkg/llm"
	"github.com/vidscope/vidscope/pkg/memory"
	"github.com/vidscope/vidscope/pkg/repository"
	"github.com/vidscope/vidscope/pkg/scheduler"
	"github.com/vidscope/vidscope/pkg/search"
	"github.com/vidscope/vidscope/pkg/session"
	"github.com/vidscope/vidscope/pkg/video"
	"github.com/vidscope/vidscope/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"f" long:"config" env:"CONFIG" default:"config.yml" description:"config file path"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug)

	log.Printf("[INFO] starting vidscope version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] server failed: %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// run loads the config, wires all components and serves until the context is
// canceled
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// reconfigure logging so API keys never leak into logs
	setupLog(opts.Debug, secrets(cfg)...)

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to init database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	gen := llm.NewGenerator(cfg.GetLLMConfig())

	reader, err := video.NewReader(ctx, cfg.GetVideoConfig())
	if err != nil {
		return fmt.Errorf("failed to init video reader: %w", err)
	}

	previewer := content.NewPreviewer(cfg.Search.Timeout, 0)
	searcher := search.NewClient(cfg.GetSearchConfig(), previewer)

	sessions := session.NewService(repos.Session, repos.Stats, session.Config{
		IdleTimeout:     cfg.Session.IdleTimeout,
		CheckinInterval: cfg.Session.CheckinInterval,
	})

	sched := scheduler.NewScheduler(repos.Analysis, repos.Related, scheduler.Config{
		AnalysisTTL:     cfg.AnalysisTTL(),
		CleanupInterval: cfg.Cache.CleanupInterval,
	})
	sched.Start(ctx)
	defer sched.Stop()

	srv := server.New(cfg, server.Deps{
		Analyzer:   analyzer.New(reader, gen),
		Memory:     memory.NewEngine(gen),
		Searcher:   searcher,
		Generator:  gen,
		BlindSpots: blindspot.NewAnalyzer(repos.Stats),
		Repos:      repos,
		Sessions:   sessions,
	}, revision, opts.Debug)

	return srv.Run(ctx)
}

// secrets collects the configured API keys for log redaction
func secrets(cfg *config.Config) []string {
	var secs []string
	for _, s := range []string{cfg.LLM.APIKey, cfg.Video.APIKey, cfg.Search.APIKey} {
		if s != "" {
			secs = append(secs, s)
		}
	}
	return secs
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
