// internal/publisher/publisher.go
package publisher

import (
	"errors"
	"fmt"
	"strings"

	"github.com/superfire/agv-gz-test/internal/board"
	"github.com/superfire/agv-gz-test/internal/sequencer"
	"github.com/superfire/agv-gz-test/internal/status"
)

// registerWriter is the exact contract the publisher uses.
type registerWriter interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// Plan locates one station's status block.
type Plan struct {
	Endpoint    string
	UnitID      uint8
	Slot        uint16
	StationName string
}

// Publisher is the delivery-only contract for station status.
// It receives a snapshot and writes it verbatim.
type Publisher interface {
	Publish(s status.Snapshot) error
}

// stationPublisher is the concrete implementation used by the CLI.
type stationPublisher struct {
	plan Plan
	cli  registerWriter

	needFull bool
	last     status.Snapshot
}

// New builds a publisher writing into cli.
func New(plan Plan, cli registerWriter) (Publisher, error) {
	if cli == nil {
		return nil, fmt.Errorf("publisher: missing client for endpoint %s", plan.Endpoint)
	}
	return &stationPublisher{
		plan:     plan,
		cli:      cli,
		needFull: true, // full re-assert on first successful write
	}, nil
}

// Publish delivers a snapshot into status memory.
// On any write failure, the next successful call will re-assert the full block.
func (p *stationPublisher) Publish(s status.Snapshot) error {
	base := p.plan.Slot * status.SlotsPerStation

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if p.needFull {
		regs := status.Encode(s, p.plan.StationName)

		if err := p.cli.WriteRegisters(p.plan.UnitID, base, regs); err != nil {
			return fmt.Errorf("publisher: full block write failed: %w", err)
		}

		p.needFull = false
		p.last = s
		return nil
	}

	var errs []string

	slots := []struct {
		slot uint16
		name string
		prev *uint16
		cur  uint16
	}{
		{status.SlotVerdictCode, "verdict", &p.last.Verdict, s.Verdict},
		{status.SlotPassMask, "pass_mask", &p.last.PassMask, s.PassMask},
		{status.SlotRS485Detail, "rs485_detail", &p.last.RS485Detail, s.RS485Detail},
		{status.SlotProgressPart, "part", &p.last.Part, s.Part},
	}

	for _, sl := range slots {
		if *sl.prev == sl.cur {
			continue
		}
		if err := p.cli.WriteRegisters(p.plan.UnitID, base+sl.slot, []uint16{sl.cur}); err != nil {
			errs = append(errs, fmt.Sprintf("slot%d %s write failed: %v", sl.slot, sl.name, err))
			continue
		}
		*sl.prev = sl.cur
	}

	if len(errs) > 0 {
		// Any partial failure introduces doubt: re-assert on next success.
		p.needFull = true
		return errors.New("publisher: " + strings.Join(errs, " | "))
	}

	return nil
}

// Running is the snapshot published while a run is in progress.
func Running(part int) status.Snapshot {
	return status.Snapshot{Verdict: status.VerdictRunning, Part: uint16(part)}
}

// Final builds the snapshot for a finished run.
func Final(v sequencer.VerdictKind, res *board.Results, part int) status.Snapshot {
	return status.Snapshot{
		Verdict:     verdictCode(v),
		PassMask:    res.PassMask(),
		RS485Detail: uint16(res.Get(board.RS485).Detail),
		Part:        uint16(part),
	}
}

func verdictCode(v sequencer.VerdictKind) uint16 {
	switch v {
	case sequencer.VerdictSuccess:
		return status.VerdictSuccess
	case sequencer.VerdictFailedSomeChannel:
		return status.VerdictFailed
	case sequencer.VerdictTimedOut:
		return status.VerdictTimedOut
	default:
		return status.VerdictCancelled
	}
}
