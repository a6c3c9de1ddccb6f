// internal/link/reader.go
package link

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/goburrow/serial"
)

// maxLineLen bounds the framing buffer; longer garbage is flushed as one line.
const maxLineLen = 1024

// idleBackoff is the pause after a read returning neither data nor error,
// as a hung-up tty does.
const idleBackoff = 20 * time.Millisecond

// ReadLines frames LF-terminated lines from r and sends them on out.
// CR is stripped and empty lines are skipped. When a serial read times out
// with unterminated bytes pending, they are flushed as a line: the board
// firmware does not always terminate its acks.
// Returns nil on EOF, ctx.Err() on cancellation.
func ReadLines(ctx context.Context, r io.Reader, out chan<- string, logger *slog.Logger) error {
	buf := make([]byte, 256)
	var pending []byte

	emit := func(raw []byte) error {
		line := strings.TrimRight(string(raw), "\r")
		if line == "" {
			return nil
		}
		if logger != nil {
			logger.Debug("rx", "line", line)
		}
		select {
		case out <- line:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := r.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)

			for {
				i := bytes.IndexByte(pending, '\n')
				if i < 0 {
					break
				}
				line := pending[:i]
				pending = pending[i+1:]
				if e := emit(line); e != nil {
					return e
				}
			}

			if len(pending) > maxLineLen {
				if e := emit(pending); e != nil {
					return e
				}
				pending = nil
			}
		}

		if n == 0 && err == nil {
			err = serial.ErrTimeout
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(idleBackoff):
			}
		}

		if err == nil {
			continue
		}

		switch {
		case errors.Is(err, serial.ErrTimeout):
			if len(pending) > 0 {
				if e := emit(pending); e != nil {
					return e
				}
				pending = nil
			}
		case errors.Is(err, io.EOF):
			if len(pending) > 0 {
				if e := emit(pending); e != nil {
					return e
				}
			}
			return nil
		default:
			return fmt.Errorf("link: read: %w", err)
		}
	}
}
