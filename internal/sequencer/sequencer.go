// internal/sequencer/sequencer.go
package sequencer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/superfire/agv-gz-test/internal/board"
)

const (
	DefaultTick     = 200 * time.Millisecond
	DefaultMaxTicks = 15

	// SummaryHeader is the first line of every summary.
	SummaryHeader = "gz test report"
)

// Config is the runtime config of a sequencer.
// Zero Tick/MaxTicks select the defaults.
type Config struct {
	Tick     time.Duration
	MaxTicks int
	Table    *board.TextTable
}

// Hooks are the side effects of a run. Any of them may be nil.
// They are called from the goroutine executing Run.
type Hooks struct {
	// Send hands a request to the transport. Fire-and-forget.
	Send func(text string)
	// Progress reports (channels completed, ticks waited on the current channel).
	Progress func(part, tick int)
	// Log receives one human-readable sentence per call.
	Log func(line string)
}

// Snapshot is a consistent copy of the sequencer state.
type Snapshot struct {
	State   State
	Tick    int
	Part    int
	Summary string
}

// Sequencer walks the channels one at a time: send request, wait for the
// classified ack, advance. A timeout on any channel aborts the whole run.
type Sequencer struct {
	cfg     Config
	results *board.Results
	hooks   Hooks
	log     *slog.Logger

	// one-slot ack mailbox; only holds events for the awaited channel
	mailbox chan board.AckEvent

	mu      sync.Mutex
	state   State
	waiting bool
	tick    int
	part    int
	summary strings.Builder
}

// New creates a sequencer in its initial state.
func New(cfg Config, results *board.Results, hooks Hooks, logger *slog.Logger) (*Sequencer, error) {
	if results == nil {
		return nil, errors.New("sequencer: results table required")
	}
	if cfg.Tick < 0 {
		return nil, errors.New("sequencer: tick must be > 0")
	}
	if cfg.MaxTicks < 0 {
		return nil, errors.New("sequencer: max ticks must be > 0")
	}
	if cfg.Tick == 0 {
		cfg.Tick = DefaultTick
	}
	if cfg.MaxTicks == 0 {
		cfg.MaxTicks = DefaultMaxTicks
	}
	if cfg.Table == nil {
		cfg.Table = board.DefaultTable
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	s := &Sequencer{
		cfg:     cfg,
		results: results,
		hooks:   hooks,
		log:     logger.With("component", "sequencer"),
		mailbox: make(chan board.AckEvent, 1),
	}
	s.Reset()
	return s, nil
}

// Reset clears all results, counters and the summary and returns to the
// initial state. It must not be called while Run is in progress.
func (s *Sequencer) Reset() {
	s.results.Reset()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = sending(board.First())
	s.waiting = false
	s.tick = 0
	s.part = 0
	s.summary.Reset()
	s.summary.WriteString(SummaryHeader)
	s.summary.WriteByte('\n')
	s.drainLocked()
}

// OnAck is the feed point for classified acks. Safe from any goroutine.
// Events are dropped unless the sequencer is waiting on that exact channel.
func (s *Sequencer) OnAck(ev board.AckEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.waiting || s.state.Kind != StateSending || ev.Channel != s.state.Channel {
		s.log.Debug("dropping ack", "channel", ev.Channel.String(), "state", s.state.String(), "waiting", s.waiting)
		return
	}

	// the entry recorded for this ack is final; later lines for c are dropped
	s.results.Freeze(ev.Channel)

	select {
	case s.mailbox <- ev:
	default:
		// duplicate for the same channel; first one wins
	}
}

// Snapshot returns the current state, counters and summary.
func (s *Sequencer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:   s.state,
		Tick:    s.tick,
		Part:    s.part,
		Summary: s.summary.String(),
	}
}

// Run drives the sequence until a terminal state is reached.
// Cancelling ctx aborts the run with VerdictCancelled.
func (s *Sequencer) Run(ctx context.Context) Verdict {
	for {
		s.mu.Lock()
		cur := s.state
		s.mu.Unlock()

		if cur.Terminal() {
			return s.finish(cur)
		}

		ev := s.await(ctx, cur.Channel)
		nxt := next(cur, ev, s.results.AllPassed)

		s.mu.Lock()
		s.state = nxt
		s.mu.Unlock()

		s.log.Debug("transition", "from", cur.String(), "to", nxt.String())
	}
}

// await enters SendingChannel(c) and blocks until an ack for c arrives,
// the tick bound is reached or ctx is done.
func (s *Sequencer) await(ctx context.Context, c board.Channel) event {
	s.mu.Lock()
	s.drainLocked()
	s.tick = 0
	s.waiting = true
	part := s.part
	s.mu.Unlock()

	s.emitLog(fmt.Sprintf("testing %s", c))
	if s.hooks.Send != nil {
		s.hooks.Send(s.cfg.Table.Request(c))
	}

	ticker := time.NewTicker(s.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.stopWaiting()
			s.emitLog(fmt.Sprintf("%s test cancelled", c))
			return evCancel

		case <-ticker.C:
			s.mu.Lock()
			s.tick++
			tick := s.tick
			s.mu.Unlock()

			if s.hooks.Progress != nil {
				s.hooks.Progress(part, tick)
			}

			if tick >= s.cfg.MaxTicks {
				s.stopWaiting()
				s.appendSummary(fmt.Sprintf("%s test timed out after %s", c, time.Duration(tick)*s.cfg.Tick))
				return evTimeout
			}

		case ack := <-s.mailbox:
			if ack.Channel != c {
				continue
			}
			s.stopWaiting()
			s.appendSummary(s.describe(c, ack.Success))

			s.mu.Lock()
			s.part++
			s.tick = 0
			part = s.part
			s.mu.Unlock()

			if s.hooks.Progress != nil {
				s.hooks.Progress(part, 0)
			}
			return evAck
		}
	}
}

func (s *Sequencer) finish(st State) Verdict {
	kind := verdictFor(st)
	s.results.FreezeAll()

	s.mu.Lock()
	summary := s.summary.String()
	s.mu.Unlock()

	s.log.Info("run finished", "verdict", kind.String())
	s.emitLog(fmt.Sprintf("verdict: %s", kind))

	return Verdict{Kind: kind, Summary: summary}
}

// describe renders the per-channel report line. The RS-485 failure line
// lists every sub-channel, LSB first.
func (s *Sequencer) describe(c board.Channel, success bool) string {
	if success {
		return fmt.Sprintf("%s test passed", c)
	}
	if c != board.RS485 {
		return fmt.Sprintf("%s test failed", c)
	}

	res := s.results.Get(c)
	parts := make([]string, 0, board.RS485SubChannels)
	for i := 0; i < board.RS485SubChannels; i++ {
		flag := "fail"
		if res.SubChannelOK(i) {
			flag = "ok"
		}
		parts = append(parts, fmt.Sprintf("ch%d %s", i+1, flag))
	}
	return fmt.Sprintf("%s test failed: %s", c, strings.Join(parts, ", "))
}

func (s *Sequencer) appendSummary(line string) {
	s.mu.Lock()
	s.summary.WriteString(line)
	s.summary.WriteByte('\n')
	s.mu.Unlock()

	s.emitLog(line)
}

func (s *Sequencer) emitLog(line string) {
	s.log.Debug(line)
	if s.hooks.Log != nil {
		s.hooks.Log(line)
	}
}

func (s *Sequencer) stopWaiting() {
	s.mu.Lock()
	s.waiting = false
	s.mu.Unlock()
}

func (s *Sequencer) drainLocked() {
	for {
		select {
		case <-s.mailbox:
		default:
			return
		}
	}
}
