// internal/report/table.go
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/superfire/agv-gz-test/internal/board"
	"github.com/superfire/agv-gz-test/internal/sequencer"
)

// Options controls table rendering.
type Options struct {
	Title string
	// Color selects a verdict-coloured style; plain ASCII otherwise.
	Color bool
}

// Table renders the per-channel results and the verdict as an ASCII table.
// completed is the number of channels that reached an ack; the rest are
// reported as not run.
func Table(results []board.ChannelResult, v sequencer.Verdict, completed int, opts Options) string {
	var buf bytes.Buffer

	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	if opts.Title != "" {
		t.SetTitle(opts.Title)
	}

	t.AppendHeader(table.Row{"#", "Channel", "Status", "Detail"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Detail", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	passed := 0
	for i, c := range board.Channels() {
		var res board.ChannelResult
		if i < len(results) {
			res = results[i]
		}

		status := "NOT RUN"
		switch {
		case i >= completed:
		case res.Passed:
			status = "PASS"
			passed++
		default:
			status = "FAIL"
		}

		t.AppendRow(table.Row{i + 1, c.String(), status, detail(c, res, status)})
	}

	if opts.Color {
		switch v.Kind {
		case sequencer.VerdictSuccess:
			t.SetStyle(table.StyleColoredBlackOnGreenWhite)
		case sequencer.VerdictFailedSomeChannel:
			t.SetStyle(table.StyleColoredBlackOnRedWhite)
		default:
			t.SetStyle(table.StyleColoredBlackOnYellowWhite)
		}
	} else {
		t.SetStyle(table.StyleDefault)
	}

	t.AppendFooter(table.Row{
		"",
		"VERDICT",
		v.Kind.String(),
		fmt.Sprintf("%d/%d passed", passed, board.ChannelCount),
	})

	t.Render()
	return buf.String()
}

func detail(c board.Channel, res board.ChannelResult, status string) string {
	if c != board.RS485 || status != "FAIL" {
		return ""
	}

	var bad []string
	for i := 0; i < board.RS485SubChannels; i++ {
		if !res.SubChannelOK(i) {
			bad = append(bad, fmt.Sprintf("ch%d", i+1))
		}
	}
	if len(bad) == 0 {
		return fmt.Sprintf("mask 0x%02X", res.Detail)
	}
	return fmt.Sprintf("mask 0x%02X, failing: %s", res.Detail, strings.Join(bad, " "))
}
