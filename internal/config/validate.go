// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/superfire/agv-gz-test/internal/status"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
// Zero values are accepted where Normalize supplies a default.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config: nil config")
	}

	// ------------------------------------------------------------
	// LINK
	// ------------------------------------------------------------

	l := cfg.Link

	if strings.TrimSpace(l.Address) == "" {
		return errors.New("link: address is required")
	}
	if l.BaudRate < 0 {
		return fmt.Errorf("link: baud_rate %d must be > 0", l.BaudRate)
	}
	switch l.DataBits {
	case 0, 5, 6, 7, 8:
	default:
		return fmt.Errorf("link: data_bits %d not in {5,6,7,8}", l.DataBits)
	}
	switch l.StopBits {
	case 0, 1, 2:
	default:
		return fmt.Errorf("link: stop_bits %d not in {1,2}", l.StopBits)
	}
	switch l.Parity {
	case "", "N", "E", "O":
	default:
		return fmt.Errorf("link: parity %q not in {N,E,O}", l.Parity)
	}
	if l.ReadTimeoutMs < 0 {
		return fmt.Errorf("link: read_timeout_ms %d must be >= 0", l.ReadTimeoutMs)
	}

	// ------------------------------------------------------------
	// SEQUENCE
	// ------------------------------------------------------------

	s := cfg.Sequence

	if !isASCII(s.Header) {
		return errors.New("sequence: header must contain ASCII characters only")
	}
	// inbound acks carry the header as exactly two tokens
	if s.Header != "" && len(strings.Split(strings.TrimSpace(s.Header), " ")) != 2 {
		return fmt.Errorf("sequence: header %q must be two space-separated words", s.Header)
	}
	if s.TickMs < 0 {
		return fmt.Errorf("sequence: tick_ms %d must be > 0", s.TickMs)
	}
	if s.MaxTicks < 0 {
		return fmt.Errorf("sequence: max_ticks %d must be > 0", s.MaxTicks)
	}

	// ------------------------------------------------------------
	// STATUS BLOCK (OPT-IN)
	// ------------------------------------------------------------

	if cfg.Status == nil {
		return nil
	}

	st := cfg.Status

	if st.Endpoint == "" {
		return errors.New("status: endpoint is required when status is set")
	}
	if st.TimeoutMs < 0 {
		return fmt.Errorf("status: timeout_ms %d must be >= 0", st.TimeoutMs)
	}
	if !isASCII(st.StationName) {
		return errors.New("status: station_name must contain ASCII characters only")
	}

	// block must fit the 16-bit register space
	if uint32(st.Slot)*status.SlotsPerStation+status.SlotsPerStation > 1<<16 {
		return fmt.Errorf("status: slot %d out of range", st.Slot)
	}

	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return false
		}
	}
	return true
}
