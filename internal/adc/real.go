//go:build linux

package adc

import (
	"fmt"
	"sync"

	"github.com/stianeikeland/go-rpio/v4"
)

// MCP3008 reads the converter over the Raspberry Pi SPI0 bus.
type MCP3008 struct {
	mu sync.Mutex
}

// NewMCP3008 opens the SPI bus at the given clock and chip select.
func NewMCP3008(speedHz int, chipSelect uint8) (*MCP3008, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open rpio: %w", err)
	}
	if err := rpio.SpiBegin(rpio.Spi0); err != nil {
		rpio.Close()
		return nil, fmt.Errorf("begin spi: %w", err)
	}
	rpio.SpiSpeed(speedHz)
	rpio.SpiChipSelect(chipSelect)

	return &MCP3008{}, nil
}

// Read performs one conversion on the given channel.
func (m *MCP3008) Read(channel uint8) (float64, error) {
	buf, err := request(channel)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	rpio.SpiExchange(buf)
	m.mu.Unlock()

	return Normalize(decode(buf)), nil
}

// Close ends the SPI session and unmaps GPIO memory.
func (m *MCP3008) Close() error {
	rpio.SpiEnd(rpio.Spi0)
	if err := rpio.Close(); err != nil {
		return fmt.Errorf("close rpio: %w", err)
	}
	return nil
}
