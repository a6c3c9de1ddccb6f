// internal/ack/interpreter_test.go
package ack

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superfire/agv-gz-test/internal/board"
)

type recordingSink struct {
	events []board.AckEvent
}

func (s *recordingSink) OnAck(ev board.AckEvent) {
	s.events = append(s.events, ev)
}

func newInterpreter(t *testing.T) (*Interpreter, *board.Results, *recordingSink) {
	t.Helper()
	res := board.NewResults()
	sink := &recordingSink{}
	in, err := New(nil, res, sink, nil)
	require.NoError(t, err)
	return in, res, sink
}

func TestDeliver_AckEveryChannel(t *testing.T) {
	for _, c := range board.Channels() {
		t.Run(c.String(), func(t *testing.T) {
			in, res, sink := newInterpreter(t)

			ev, ok := in.Deliver("gz_test com ack " + c.Name() + " ")
			require.True(t, ok)
			assert.Equal(t, board.AckEvent{Channel: c, Success: true}, ev)
			assert.True(t, res.Get(c).Passed)
			require.Len(t, sink.events, 1)
			assert.Equal(t, ev, sink.events[0])
		})
	}
}

func TestDeliver_NackRecordsFailure(t *testing.T) {
	in, res, sink := newInterpreter(t)
	res.Record(board.CAN, true)

	ev, ok := in.Deliver("gz_test com nack can\r\n")
	require.True(t, ok)
	assert.False(t, ev.Success)
	assert.False(t, res.Get(board.CAN).Passed)
	assert.Len(t, sink.events, 1)
}

func TestDeliver_RS485Detail(t *testing.T) {
	cases := []struct {
		line string
		want uint32
	}{
		{"p p nack 485 1f", 0x1F},
		{"p p nack 485 0xA5", 0xA5},
		{"p p nack 485 FF", 0xFF},
		{"p p nack 485", 0},
		{"p p nack 485 zz", 0},
		{"p p nack 485 123456789", 0},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			in, res, _ := newInterpreter(t)
			_, ok := in.Deliver(tc.line)
			require.True(t, ok)
			assert.Equal(t, tc.want, res.Get(board.RS485).Detail)
			assert.False(t, res.Get(board.RS485).Passed)
		})
	}
}

func TestDeliver_DetailIgnoredOnAckAndOtherChannels(t *testing.T) {
	in, res, _ := newInterpreter(t)

	_, ok := in.Deliver("p p ack 485 1f")
	require.True(t, ok)
	assert.Equal(t, uint32(0), res.Get(board.RS485).Detail)

	_, ok = in.Deliver("p p nack can 1f")
	require.True(t, ok)
	assert.Equal(t, uint32(0), res.Get(board.CAN).Detail)
}

func TestDeliver_MalformedLinesAreNoOps(t *testing.T) {
	lines := []string{
		"",
		"gz_test com ack",
		"ack 485",
		"gz_test com ack usb",
		"gz_test com ACK can",
		"gz_test com done pmbus",
		"gz_test  com ack can", // double space shifts the tokens
	}

	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			in, res, sink := newInterpreter(t)
			_, ok := in.Deliver(line)
			assert.False(t, ok)
			assert.Empty(t, sink.events)
			for _, e := range res.Snapshot() {
				assert.Equal(t, board.ChannelResult{}, e)
			}
		})
	}
}

func TestDeliver_NilSink(t *testing.T) {
	res := board.NewResults()
	in, err := New(nil, res, nil, nil)
	require.NoError(t, err)
	_, ok := in.Deliver("x y ack pmbus")
	assert.True(t, ok)
	assert.True(t, res.Get(board.PMBus).Passed)
}

func TestNew_ResultsRequired(t *testing.T) {
	in, err := New(nil, nil, nil, nil)
	assert.Error(t, err)
	assert.Nil(t, in)
}

func TestDeliver_SettledChannelIsDropped(t *testing.T) {
	in, res, sink := newInterpreter(t)

	_, ok := in.Deliver("gz_test com ack can")
	require.True(t, ok)
	res.Freeze(board.CAN)

	_, ok = in.Deliver("gz_test com nack can")
	assert.False(t, ok)
	assert.Equal(t, board.ChannelResult{Passed: true}, res.Get(board.CAN))
	assert.Len(t, sink.events, 1)
}

func TestDeliver_RecordsBeforeEmit(t *testing.T) {
	res := board.NewResults()
	var seen board.ChannelResult
	in, err := New(nil, res, SinkFunc(func(ev board.AckEvent) {
		seen = res.Get(ev.Channel)
	}), nil)
	require.NoError(t, err)

	_, ok := in.Deliver("p p nack 485 3")
	require.True(t, ok)
	assert.Equal(t, board.ChannelResult{Passed: false, Detail: 3}, seen)
}

func TestRun_PumpsLines(t *testing.T) {
	res := board.NewResults()
	got := make(chan board.AckEvent, 4)
	in, err := New(nil, res, SinkFunc(func(ev board.AckEvent) { got <- ev }), nil)
	require.NoError(t, err)

	lines := make(chan string)
	done := make(chan struct{})
	go func() {
		in.Run(context.Background(), lines)
		close(done)
	}()

	lines <- "garbage"
	lines <- "gz_test com ack ethernet"
	close(lines)

	select {
	case ev := <-got:
		assert.Equal(t, board.Ethernet, ev.Channel)
	case <-time.After(time.Second):
		t.Fatal("no event emitted")
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after close")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	in, _, _ := newInterpreter(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		in.Run(ctx, make(chan string))
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
