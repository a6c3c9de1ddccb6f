// cmd/gztest/transcript.go
package main

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// transcript is the operator-facing log: one timestamped sentence per line.
type transcript struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

func newTranscript(w io.Writer) *transcript {
	return &transcript{w: w, now: time.Now}
}

func (t *transcript) Line(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "[%s] %s\n", t.now().Format("2006-01-02 15:04:05"), msg)
}
