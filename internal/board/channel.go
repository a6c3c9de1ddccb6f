// internal/board/channel.go
package board

// Channel identifies one interface of the board under test.
// The declaration order IS the test order.
type Channel int

const (
	DebugCom Channel = iota
	Ethernet
	RS485
	CAN
	PMBus
)

// ChannelCount is the fixed number of channels under test.
const ChannelCount = 5

// RS485SubChannels is the number of RS-485 sub-channels reported in the detail mask.
const RS485SubChannels = 8

var channelOrder = [ChannelCount]Channel{DebugCom, Ethernet, RS485, CAN, PMBus}

// wire tokens used in requests and acks
var channelNames = [ChannelCount]string{
	DebugCom: "uart_debug",
	Ethernet: "ethernet",
	RS485:    "485",
	CAN:      "can",
	PMBus:    "pmbus",
}

var channelLabels = [ChannelCount]string{
	DebugCom: "DebugCom",
	Ethernet: "Ethernet",
	RS485:    "RS485",
	CAN:      "CAN",
	PMBus:    "PMBus",
}

// Channels returns the channels in test order.
func Channels() []Channel {
	out := make([]Channel, ChannelCount)
	copy(out, channelOrder[:])
	return out
}

// Valid reports whether c is one of the known channels.
func (c Channel) Valid() bool {
	return c >= DebugCom && c <= PMBus
}

// Name returns the wire token of the channel.
func (c Channel) Name() string {
	if !c.Valid() {
		return ""
	}
	return channelNames[c]
}

func (c Channel) String() string {
	if !c.Valid() {
		return "Unknown"
	}
	return channelLabels[c]
}

// Next returns the channel following c in test order.
// ok is false when c is the last channel.
func (c Channel) Next() (Channel, bool) {
	if !c.Valid() || c == PMBus {
		return c, false
	}
	return c + 1, true
}

// First returns the first channel in test order.
func First() Channel {
	return channelOrder[0]
}
