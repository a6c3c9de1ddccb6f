// internal/config/config.go
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Link     LinkConfig     `yaml:"link"`
	Sequence SequenceConfig `yaml:"sequence"`
	Status   *StatusConfig  `yaml:"status,omitempty"` // optional, opt-in
}

// ---- LINK ----

// LinkConfig describes the serial control link to the board.
type LinkConfig struct {
	Address       string `yaml:"address"`
	BaudRate      int    `yaml:"baud_rate"`
	DataBits      int    `yaml:"data_bits"`
	StopBits      int    `yaml:"stop_bits"`
	Parity        string `yaml:"parity"` // N | E | O
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
	LineEnding    string `yaml:"line_ending"`
}

// ---- SEQUENCE ----

type SequenceConfig struct {
	Header   string `yaml:"header"`
	TickMs   int    `yaml:"tick_ms"`
	MaxTicks int    `yaml:"max_ticks"`
}

// ---- STATUS PUBLISHING ----

// StatusConfig enables publishing the verdict block to a Modbus TCP endpoint.
type StatusConfig struct {
	Endpoint    string `yaml:"endpoint"`
	UnitID      uint8  `yaml:"unit_id"`
	Slot        uint16 `yaml:"slot"`
	TimeoutMs   int    `yaml:"timeout_ms"`
	StationName string `yaml:"station_name"`
}

// Load reads and decodes a YAML config file.
// Unknown keys are rejected. No validation is performed here.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a YAML document. An empty document yields a zero Config.
func Parse(raw []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	return &cfg, nil
}
