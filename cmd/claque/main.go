// Command claque runs a synthetic chat community: a deterministic,
// seed-reproducible stream of fake people typing fake messages.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"claque/internal/actor"
	"claque/internal/config"
	"claque/internal/content"
	"claque/internal/core"
	"claque/internal/orchestrator"
	"claque/internal/overlay"
	"claque/internal/stats"
	"claque/internal/typing"
)

const (
	ExitSuccess = 0
	ExitError   = 2
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	mode := flag.String("mode", "run", "mode: run, preview, backfill")
	seed := flag.Uint("seed", 0, "override the configured seed (0 = use config)")
	count := flag.Int("count", 0, "messages to generate in preview mode (0 = configured generatorPageSize)")
	duration := flag.Duration("duration", 0, "run length (0 = until interrupted)")
	format := flag.String("format", "", "output format: text, json (default: text on a TTY, json otherwise)")
	quiet := flag.Bool("quiet", false, "suppress progress output")
	verbose := flag.Bool("verbose", false, "enable debug diagnostics on stderr")
	flag.Parse()

	opts := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(ExitError)
		}
		opts = loaded
	}
	if *seed != 0 {
		opts.Seed = uint32(*seed)
	}

	jsonLines := false
	switch *format {
	case "json":
		jsonLines = true
	case "text":
	case "":
		jsonLines = !isatty.IsTerminal(os.Stdout.Fd())
	default:
		fmt.Fprintf(os.Stderr, "error: --format must be 'text' or 'json', got %q\n", *format)
		os.Exit(ExitError)
	}

	var log *core.DebugLogger
	if *verbose {
		log = core.NewDebugLogger(os.Stderr)
	}

	store, err := overlay.NewStore(opts.Store.Kind, opts.Store.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}
	defer store.Close()

	clock := core.RealClock{}
	actorCfg := actor.DefaultConfig(opts.PopulationSize)
	actorCfg.FatigueIncrement = opts.FatigueIncrement
	actorCfg.FatigueRecoveryPerHour = opts.FatigueRecoveryPerHour
	dir := actor.New(opts.Seed, actorCfg, store, clock, log)

	gen := content.New(opts.Seed, dir, content.Options{
		Size:        opts.HistorySize,
		HistorySpan: time.Duration(opts.HistorySpanDays * 24 * float64(time.Hour)),
	})

	typingCfg := typing.DefaultConfig()
	typingCfg.MinCharDelay = time.Duration(opts.TypingDelayRange[0]) * time.Millisecond
	typingCfg.MaxCharDelay = time.Duration(opts.TypingDelayRange[1]) * time.Millisecond
	sched := typing.NewScheduler(opts.Seed, typingCfg, dir, clock, log)

	recorder := stats.NewRecorder()
	console := newConsoleRenderer(os.Stdout, jsonLines, !jsonLines && !*quiet)
	renderer := stats.Tee(console, recorder)

	orch := orchestrator.New(opts, dir, gen, sched, renderer, clock, log)

	switch *mode {
	case "preview":
		n := *count
		if n <= 0 {
			n = opts.GeneratorPageSize
		}
		msgs, err := orch.PreviewOnce(n)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(ExitError)
		}
		for _, m := range msgs {
			console.Deliver(m, false)
		}
	case "backfill":
		orch.Backfill()
	case "run":
		runLive(orch, recorder, *duration, *quiet)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown mode %q\n", *mode)
		os.Exit(ExitError)
	}

	os.Exit(ExitSuccess)
}

func runLive(orch *orchestrator.Orchestrator, recorder *stats.Recorder, duration time.Duration, quiet bool) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	prog := stats.NewProgress(recorder, quiet)
	prog.Start()
	orch.Start()

	var timeout <-chan time.Time
	if duration > 0 {
		timeout = time.After(duration)
	}

	select {
	case <-sigCh:
		if !quiet {
			fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		}
	case <-timeout:
	}

	orch.Stop()
	prog.Stop()

	s := recorder.Snapshot()
	if !quiet {
		fmt.Fprintf(os.Stderr, "delivered %d messages over %s (%d sessions, %d abandoned)\n",
			s.Delivered, s.Uptime.Round(time.Second), s.Sessions, s.Abandoned)
	}
}
