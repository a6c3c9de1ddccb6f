// internal/ack/interpreter.go
package ack

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/superfire/agv-gz-test/internal/board"
)

// Inbound line shape:
//
//	<preamble> <preamble> <ack|nack> <channel-name> [<hex-detail>]
const (
	minTokens  = 4
	idxVerdict = 2
	idxChannel = 3
	idxDetail  = 4
)

// Sink receives classified ack events.
type Sink interface {
	OnAck(ev board.AckEvent)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ev board.AckEvent)

func (f SinkFunc) OnAck(ev board.AckEvent) { f(ev) }

// Interpreter classifies inbound lines and records results.
// It never returns errors: malformed lines are logged and dropped.
type Interpreter struct {
	table   *board.TextTable
	results *board.Results
	sink    Sink
	log     *slog.Logger
}

// New creates an interpreter. A nil table selects board.DefaultTable,
// a nil logger discards diagnostics.
func New(table *board.TextTable, results *board.Results, sink Sink, logger *slog.Logger) (*Interpreter, error) {
	if results == nil {
		return nil, errors.New("ack: results table required")
	}
	if table == nil {
		table = board.DefaultTable
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Interpreter{
		table:   table,
		results: results,
		sink:    sink,
		log:     logger.With("component", "ack"),
	}, nil
}

// Deliver handles one logically complete line.
// The result table is updated before the event reaches the sink.
func (in *Interpreter) Deliver(line string) (board.AckEvent, bool) {
	line = strings.TrimRight(line, "\r\n")
	tokens := strings.Split(line, " ")

	if len(tokens) < minTokens {
		in.log.Debug("discarding line: too few tokens", "line", line, "tokens", len(tokens))
		return board.AckEvent{}, false
	}

	c, ok := in.table.Lookup(tokens[idxChannel])
	if !ok {
		in.log.Debug("discarding line: unknown channel", "line", line, "channel", tokens[idxChannel])
		return board.AckEvent{}, false
	}

	var success bool
	switch tokens[idxVerdict] {
	case board.TokenAck:
		success = true
	case board.TokenNack:
		success = false
	default:
		in.log.Debug("discarding line: not an ack", "line", line, "token", tokens[idxVerdict])
		return board.AckEvent{}, false
	}

	if in.results.Frozen(c) {
		in.log.Debug("discarding line: channel already settled", "line", line, "channel", c.String())
		return board.AckEvent{}, false
	}

	in.results.Record(c, success)
	if c == board.RS485 && !success {
		var raw string
		if len(tokens) > idxDetail {
			raw = tokens[idxDetail]
		}
		in.results.RecordDetail(c, parseDetail(raw))
	}

	phrase := tokens[idxVerdict] + " " + tokens[idxChannel]
	if !in.table.KnownPhrase(phrase) {
		in.log.Warn("discarding line: unknown ack phrase", "line", line, "phrase", phrase)
		return board.AckEvent{}, false
	}

	ev := board.AckEvent{Channel: c, Success: success}
	in.log.Debug("ack classified", "channel", c.String(), "success", success)

	if in.sink != nil {
		in.sink.OnAck(ev)
	}
	return ev, true
}

// Run feeds every line received on lines into Deliver until ctx is done
// or lines is closed.
func (in *Interpreter) Run(ctx context.Context, lines <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			in.Deliver(line)
		}
	}
}

// parseDetail decodes a base-16 sub-channel mask. Anything unparsable is 0.
func parseDetail(raw string) uint32 {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X")
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return 0
	}
	return uint32(v)
}
