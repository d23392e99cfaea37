package lmx2594

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// DefaultSPISpeedHz is a safe serial clock for the uWire interface.
const DefaultSPISpeedHz = 1_000_000

// SPIDevice is the periph.io-backed SPI port. The device wants mode 0
// (clock idle low, sample on rising edge) with chip select asserted for the
// full 24-bit shift.
type SPIDevice struct {
	conn   spi.Conn
	port   spi.PortCloser
	device string
	speed  physic.Frequency
}

// NewSPIDevice opens and configures the SPI port at the given registry path,
// e.g. "/dev/spidev0.0". A zero speed selects DefaultSPISpeedHz.
func NewSPIDevice(device string, speedHz uint32) (*SPIDevice, error) {
	if speedHz == 0 {
		speedHz = DefaultSPISpeedHz
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph.io: %w", err)
	}

	port, err := spireg.Open(device)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI device %s: %w", device, err)
	}

	conn, err := port.Connect(physic.Frequency(speedHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to connect to SPI device: %w", err)
	}

	return &SPIDevice{
		conn:   conn,
		port:   port,
		device: device,
		speed:  physic.Frequency(speedHz) * physic.Hertz,
	}, nil
}

// Close releases the SPI port.
func (s *SPIDevice) Close() error {
	if s.port != nil {
		return s.port.Close()
	}
	return nil
}

// Transfer performs one full-duplex exchange.
func (s *SPIDevice) Transfer(tx, rx []byte) error {
	if len(tx) != len(rx) {
		return fmt.Errorf("tx and rx buffers must be the same length")
	}
	if s.conn == nil {
		return fmt.Errorf("SPI device not open")
	}
	if err := s.conn.Tx(tx, rx); err != nil {
		return fmt.Errorf("SPI transfer failed: %w", err)
	}
	return nil
}

// String describes the open port.
func (s *SPIDevice) String() string {
	return fmt.Sprintf("%s @ %s", s.device, s.speed)
}
