// internal/publisher/client.go
package publisher

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// maxWriteQuantity is the FC16 register limit of one request.
const maxWriteQuantity = 123

// ModbusClient talks to the test fixture's PLC, which mirrors the station
// status block to the line controller. One TCP connection; every write
// re-targets the unit id, so requests are serialized.
type ModbusClient struct {
	mu      sync.Mutex
	handler *modbus.TCPClientHandler
	client  modbus.Client
}

type ClientConfig struct {
	Endpoint string
	Timeout  time.Duration
}

// Dial connects to the fixture PLC.
func Dial(cfg ClientConfig) (*ModbusClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("publisher: fixture endpoint required")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("publisher: connect %s: %w", cfg.Endpoint, err)
	}

	return &ModbusClient{
		handler: h,
		client:  modbus.NewClient(h),
	}, nil
}

func (c *ModbusClient) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// WriteRegisters stores regs at addr in the status memory of unitID (FC16).
func (c *ModbusClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if len(regs) == 0 || len(regs) > maxWriteQuantity {
		return fmt.Errorf("publisher: write of %d registers out of range 1..%d", len(regs), maxWriteQuantity)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.handler.SlaveId = unitID
	if _, err := c.client.WriteMultipleRegisters(addr, uint16(len(regs)), packRegisters(regs)); err != nil {
		return fmt.Errorf("publisher: write unit %d addr %d: %w", unitID, addr, err)
	}
	return nil
}

// packRegisters lays regs out big-endian, as Modbus carries them.
func packRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}
