// cmd/gztest/run.go
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/superfire/agv-gz-test/internal/ack"
	"github.com/superfire/agv-gz-test/internal/board"
	"github.com/superfire/agv-gz-test/internal/config"
	"github.com/superfire/agv-gz-test/internal/link"
	"github.com/superfire/agv-gz-test/internal/publisher"
	"github.com/superfire/agv-gz-test/internal/report"
	"github.com/superfire/agv-gz-test/internal/sequencer"
)

type runOptions struct {
	cfgPath  string
	port     string
	logLevel string
	noTable  bool
	color    bool
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the acceptance sequence against one board",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runSequence(ctx, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&opts.cfgPath, "config", "c", "", "path to the YAML config file")
	cmd.Flags().StringVarP(&opts.port, "port", "p", "", "serial device, overrides link.address")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "diagnostic log level (debug|info|warn|error)")
	cmd.Flags().BoolVar(&opts.noTable, "no-table", false, "do not print the result table")
	cmd.Flags().BoolVar(&opts.color, "color", false, "colour the result table by verdict")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// loadConfig is Load + port override + Validate + Normalize.
func loadConfig(path, port string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}
	if port != "" {
		cfg.Link.Address = port
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	config.Normalize(cfg)
	return cfg, nil
}

func runSequence(ctx context.Context, opts runOptions, stdout, stderr io.Writer) error {
	logger, err := newLogger(stderr, opts.logLevel)
	if err != nil {
		return &exitError{code: exitRuntimeErr, msg: err.Error()}
	}

	cfg, err := loadConfig(opts.cfgPath, opts.port)
	if err != nil {
		return &exitError{code: exitRuntimeErr, msg: err.Error()}
	}

	// --------------------
	// Control link
	// --------------------

	port, err := link.Open(link.Config{
		Address:     cfg.Link.Address,
		BaudRate:    cfg.Link.BaudRate,
		DataBits:    cfg.Link.DataBits,
		StopBits:    cfg.Link.StopBits,
		Parity:      cfg.Link.Parity,
		ReadTimeout: time.Duration(cfg.Link.ReadTimeoutMs) * time.Millisecond,
		LineEnding:  cfg.Link.LineEnding,
	}, logger)
	if err != nil {
		return &exitError{code: exitRuntimeErr, msg: err.Error()}
	}
	defer port.Close()

	// --------------------
	// Station status publisher (optional)
	// --------------------

	pub, closePub := buildPublisher(cfg.Status, logger)
	defer closePub()

	return runWith(ctx, cfg, port, pub, opts, stdout, logger)
}

// requestLink is the part of link.Port the run loop needs.
type requestLink interface {
	SendRequest(text string)
	Lines(ctx context.Context, out chan<- string) error
}

// runWith wires link -> interpreter -> sequencer and maps the verdict to an exit code.
// pub may be nil.
func runWith(
	ctx context.Context,
	cfg *config.Config,
	port requestLink,
	pub publisher.Publisher,
	opts runOptions,
	stdout io.Writer,
	logger *slog.Logger,
) error {
	results := board.NewResults()
	table := board.NewTextTable(cfg.Sequence.Header)
	transcript := newTranscript(stdout)

	publish := func(what string, snap func() error) {
		if pub == nil {
			return
		}
		if err := snap(); err != nil {
			logger.Warn("status publish failed", "stage", what, "err", err)
		}
	}

	seq, err := sequencer.New(
		sequencer.Config{
			Tick:     time.Duration(cfg.Sequence.TickMs) * time.Millisecond,
			MaxTicks: cfg.Sequence.MaxTicks,
			Table:    table,
		},
		results,
		sequencer.Hooks{
			Send: port.SendRequest,
			Progress: func(part, tick int) {
				logger.Debug("progress", "part", part, "tick", tick)
				if tick == 0 {
					publish("progress", func() error { return pub.Publish(publisher.Running(part)) })
				}
			},
			Log: transcript.Line,
		},
		logger,
	)
	if err != nil {
		return &exitError{code: exitRuntimeErr, msg: err.Error()}
	}

	interp, err := ack.New(table, results, seq, logger)
	if err != nil {
		return &exitError{code: exitRuntimeErr, msg: err.Error()}
	}

	// ---- link -> interpreter (message passing) ----
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string, 16)
	go func() {
		if err := port.Lines(runCtx, lines); err != nil && runCtx.Err() == nil {
			logger.Error("link reader stopped", "err", err)
		}
	}()
	go interp.Run(runCtx, lines)

	publish("start", func() error { return pub.Publish(publisher.Running(0)) })

	v := seq.Run(ctx)
	snap := seq.Snapshot()

	publish("verdict", func() error { return pub.Publish(publisher.Final(v.Kind, results, snap.Part)) })

	fmt.Fprintln(stdout)
	fmt.Fprint(stdout, v.Summary)
	if !opts.noTable {
		fmt.Fprint(stdout, report.Table(results.Snapshot(), v, snap.Part, report.Options{
			Title: stationTitle(cfg),
			Color: opts.color,
		}))
	}

	switch v.Kind {
	case sequencer.VerdictSuccess:
		return nil
	case sequencer.VerdictFailedSomeChannel:
		return &exitError{code: exitChannelFailure, msg: "board test failed"}
	case sequencer.VerdictTimedOut:
		return &exitError{code: exitRuntimeErr, msg: "board did not answer, check the link"}
	default:
		return &exitError{code: exitCancelled, msg: "test cancelled"}
	}
}

func buildPublisher(sc *config.StatusConfig, logger *slog.Logger) (publisher.Publisher, func()) {
	noop := func() {}
	if sc == nil {
		return nil, noop
	}

	cli, err := publisher.Dial(publisher.ClientConfig{
		Endpoint: sc.Endpoint,
		Timeout:  time.Duration(sc.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		// status publishing is best-effort; the test still runs
		logger.Warn("status endpoint unavailable", "endpoint", sc.Endpoint, "err", err)
		return nil, noop
	}

	pub, err := publisher.New(publisher.Plan{
		Endpoint:    sc.Endpoint,
		UnitID:      sc.UnitID,
		Slot:        sc.Slot,
		StationName: sc.StationName,
	}, cli)
	if err != nil {
		_ = cli.Close()
		logger.Warn("status publisher disabled", "err", err)
		return nil, noop
	}

	return pub, func() { _ = cli.Close() }
}

func stationTitle(cfg *config.Config) string {
	if cfg.Status != nil && cfg.Status.StationName != "" {
		return cfg.Status.StationName
	}
	return cfg.Link.Address
}
