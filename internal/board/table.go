// internal/board/table.go
package board

import "strings"

// DefaultHeader is the preamble the board firmware expects in front of every request.
const DefaultHeader = "gz_test com"

// Ack tokens (3rd token of an inbound line).
const (
	TokenAck  = "ack"
	TokenNack = "nack"
)

// TextTable maps channels to request text and known ack phrases.
// Built once; read-only afterwards.
type TextTable struct {
	header   string
	requests [ChannelCount]string
	byName   map[string]Channel
	phrases  map[string]struct{}
}

// DefaultTable is the process-wide table for DefaultHeader.
var DefaultTable = NewTextTable(DefaultHeader)

// NewTextTable builds a table for the given request header.
func NewTextTable(header string) *TextTable {
	header = strings.TrimSpace(header)

	t := &TextTable{
		header:  header,
		byName:  make(map[string]Channel, ChannelCount),
		phrases: make(map[string]struct{}, 2*ChannelCount),
	}

	for _, c := range channelOrder {
		name := c.Name()
		if header == "" {
			t.requests[c] = name
		} else {
			t.requests[c] = header + " " + name
		}
		t.byName[name] = c
		t.phrases[TokenAck+" "+name] = struct{}{}
		t.phrases[TokenNack+" "+name] = struct{}{}
	}

	return t
}

// Header returns the request preamble.
func (t *TextTable) Header() string { return t.header }

// Request returns the outbound request text for c.
func (t *TextTable) Request(c Channel) string {
	if !c.Valid() {
		return ""
	}
	return t.requests[c]
}

// Lookup resolves a wire token to a channel.
func (t *TextTable) Lookup(name string) (Channel, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// KnownPhrase reports whether phrase is one of "ack <name>" / "nack <name>".
func (t *TextTable) KnownPhrase(phrase string) bool {
	_, ok := t.phrases[phrase]
	return ok
}
