// internal/config/normalize.go
package config

import (
	"github.com/superfire/agv-gz-test/internal/board"
	"github.com/superfire/agv-gz-test/internal/status"
)

// Defaults applied by Normalize.
const (
	DefaultBaudRate      = 115200
	DefaultDataBits      = 8
	DefaultStopBits      = 1
	DefaultParity        = "N"
	DefaultReadTimeoutMs = 100
	DefaultLineEnding    = "\r\n"

	DefaultTickMs   = 200
	DefaultMaxTicks = 15

	DefaultStatusTimeoutMs = 1000
	StationNameMaxChars    = status.StationNameMaxChars
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	l := &cfg.Link
	if l.BaudRate == 0 {
		l.BaudRate = DefaultBaudRate
	}
	if l.DataBits == 0 {
		l.DataBits = DefaultDataBits
	}
	if l.StopBits == 0 {
		l.StopBits = DefaultStopBits
	}
	if l.Parity == "" {
		l.Parity = DefaultParity
	}
	if l.ReadTimeoutMs == 0 {
		l.ReadTimeoutMs = DefaultReadTimeoutMs
	}
	if l.LineEnding == "" {
		l.LineEnding = DefaultLineEnding
	}

	s := &cfg.Sequence
	if s.Header == "" {
		s.Header = board.DefaultHeader
	}
	if s.TickMs == 0 {
		s.TickMs = DefaultTickMs
	}
	if s.MaxTicks == 0 {
		s.MaxTicks = DefaultMaxTicks
	}

	// ------------------------------------------------------------
	// STATUS BLOCK NORMALIZATION (OPT-IN)
	// ------------------------------------------------------------

	if cfg.Status == nil {
		return
	}

	if cfg.Status.TimeoutMs == 0 {
		cfg.Status.TimeoutMs = DefaultStatusTimeoutMs
	}

	// ASCII already validated; truncate to the block's name capacity.
	if len(cfg.Status.StationName) > StationNameMaxChars {
		cfg.Status.StationName = cfg.Status.StationName[:StationNameMaxChars]
	}
}
