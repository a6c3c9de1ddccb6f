// internal/report/table_test.go
package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/superfire/agv-gz-test/internal/board"
	"github.com/superfire/agv-gz-test/internal/sequencer"
)

func TestTable_AllPassed(t *testing.T) {
	res := make([]board.ChannelResult, board.ChannelCount)
	for i := range res {
		res[i].Passed = true
	}

	out := Table(res, sequencer.Verdict{Kind: sequencer.VerdictSuccess}, board.ChannelCount, Options{Title: "GZ-01"})

	assert.Contains(t, out, "GZ-01")
	assert.Equal(t, board.ChannelCount, strings.Count(out, " PASS "))
	assert.Contains(t, out, "5/5 PASSED")
	assert.NotContains(t, out, "FAIL")
}

func TestTable_RS485Detail(t *testing.T) {
	res := make([]board.ChannelResult, board.ChannelCount)
	for i := range res {
		res[i].Passed = true
	}
	res[board.RS485] = board.ChannelResult{Passed: false, Detail: 0x1F}

	out := Table(res, sequencer.Verdict{Kind: sequencer.VerdictFailedSomeChannel}, board.ChannelCount, Options{})

	assert.Contains(t, out, " FAIL ")
	assert.Contains(t, out, "mask 0x1F, failing: ch6 ch7 ch8")
	assert.Contains(t, out, "4/5 PASSED")
	assert.Contains(t, out, "FAILEDSOMECHANNEL")
}

func TestTable_TimedOutMarksRemainingNotRun(t *testing.T) {
	res := make([]board.ChannelResult, board.ChannelCount)
	for i := 0; i < 4; i++ {
		res[i].Passed = true
	}

	out := Table(res, sequencer.Verdict{Kind: sequencer.VerdictTimedOut}, 4, Options{Color: true})

	assert.Equal(t, 1, strings.Count(out, "NOT RUN"))
	assert.Contains(t, out, "4/5 PASSED")
}
