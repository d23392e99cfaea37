package lmx2594

import "fmt"

// HardwareBus combines the SPI port and the GPIO control lines into the Bus
// consumed by Initialize. It owns both resources and releases them on Close.
type HardwareBus struct {
	spi  *SPIDevice
	pins *ControlPins
}

// NewHardwareBus opens the SPI port and, when gpioChip is non-empty, the
// control lines. Pass negative pin numbers for lines that are not wired.
func NewHardwareBus(spiDevice string, spiSpeedHz uint32, gpioChip string, resetPin, enablePin int) (*HardwareBus, error) {
	dev, err := NewSPIDevice(spiDevice, spiSpeedHz)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SPI: %w", err)
	}

	bus := &HardwareBus{spi: dev}

	if gpioChip != "" {
		pins, err := NewControlPins(gpioChip, resetPin, enablePin)
		if err != nil {
			dev.Close()
			return nil, fmt.Errorf("failed to initialize GPIO: %w", err)
		}
		bus.pins = pins
	}

	return bus, nil
}

// Close releases the SPI port and GPIO lines.
func (b *HardwareBus) Close() error {
	var errs []error

	if b.pins != nil {
		if err := b.pins.Close(); err != nil {
			errs = append(errs, fmt.Errorf("GPIO close error: %w", err))
		}
	}
	if b.spi != nil {
		if err := b.spi.Close(); err != nil {
			errs = append(errs, fmt.Errorf("SPI close error: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}

// Transfer performs one full-duplex SPI exchange.
func (b *HardwareBus) Transfer(tx, rx []byte) error {
	return b.spi.Transfer(tx, rx)
}

// SetReset drives the hardware reset line when one is wired.
func (b *HardwareBus) SetReset(asserted bool) error {
	if b.pins == nil {
		return nil
	}
	return b.pins.SetReset(asserted)
}

// PowerOn raises the chip-enable line. Callers should allow the device's
// power-up settle time before starting the register sequence.
func (b *HardwareBus) PowerOn() error {
	if b.pins == nil {
		return nil
	}
	return b.pins.SetEnable(true)
}

// PowerOff drops the chip-enable line.
func (b *HardwareBus) PowerOff() error {
	if b.pins == nil {
		return nil
	}
	return b.pins.SetEnable(false)
}

// String describes the underlying SPI port.
func (b *HardwareBus) String() string {
	if b.spi == nil {
		return "closed"
	}
	return b.spi.String()
}
