// internal/link/port.go
package link

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/goburrow/serial"
)

// Config is the serial framing of the control link.
type Config struct {
	Address     string
	BaudRate    int
	DataBits    int
	StopBits    int
	Parity      string
	ReadTimeout time.Duration
	LineEnding  string
}

// Port is the control link to the board: requests out, lines in.
type Port struct {
	rw         io.ReadWriteCloser
	lineEnding string
	log        *slog.Logger

	wmu sync.Mutex
}

// Open opens the serial device described by cfg.
// The read timeout bounds how long ReadLines can miss a cancellation.
func Open(cfg Config, logger *slog.Logger) (*Port, error) {
	if cfg.Address == "" {
		return nil, errors.New("link: address required")
	}

	sp, err := serial.Open(&serial.Config{
		Address:  cfg.Address,
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		StopBits: cfg.StopBits,
		Parity:   cfg.Parity,
		Timeout:  cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("link: open %s: %w", cfg.Address, err)
	}

	p := New(sp, cfg.LineEnding, logger)
	p.log.Info("serial port open",
		"address", cfg.Address,
		"baud", cfg.BaudRate,
		"framing", fmt.Sprintf("%d%s%d", cfg.DataBits, cfg.Parity, cfg.StopBits),
	)
	return p, nil
}

// New wraps an already open stream.
func New(rw io.ReadWriteCloser, lineEnding string, logger *slog.Logger) *Port {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Port{
		rw:         rw,
		lineEnding: lineEnding,
		log:        logger.With("component", "link"),
	}
}

// SendRequest writes one request. Fire-and-forget: failures are logged,
// the sequencer's timeout covers a dead link.
func (p *Port) SendRequest(text string) {
	p.wmu.Lock()
	defer p.wmu.Unlock()

	if _, err := io.WriteString(p.rw, text+p.lineEnding); err != nil {
		p.log.Error("request write failed", "request", text, "err", err)
		return
	}
	p.log.Debug("tx", "line", text)
}

// Lines streams received lines into out until ctx is done or the port fails.
func (p *Port) Lines(ctx context.Context, out chan<- string) error {
	return ReadLines(ctx, p.rw, out, p.log)
}

func (p *Port) Close() error {
	if p == nil || p.rw == nil {
		return nil
	}
	return p.rw.Close()
}
