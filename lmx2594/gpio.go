package lmx2594

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// ControlPins drives the synthesizer's board-level control lines through the
// Linux GPIO character device: the chip-enable (CE) power line and, where
// wired, a dedicated reset line. Pass a negative pin number for a line that
// is not connected; the corresponding operations become no-ops and the
// driver relies on the software reset through R0.
type ControlPins struct {
	chip       *gpiocdev.Chip
	resetLine  *gpiocdev.Line
	enableLine *gpiocdev.Line
}

// NewControlPins opens chipPath and requests the configured lines as
// outputs. Reset starts deasserted and CE starts low.
func NewControlPins(chipPath string, resetPin, enablePin int) (*ControlPins, error) {
	chip, err := gpiocdev.NewChip(chipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open GPIO chip %s: %w", chipPath, err)
	}

	pins := &ControlPins{chip: chip}

	if resetPin >= 0 {
		line, err := chip.RequestLine(
			resetPin,
			gpiocdev.AsOutput(0),
			gpiocdev.WithConsumer("lmx2594-reset"),
		)
		if err != nil {
			chip.Close()
			return nil, fmt.Errorf("failed to request reset pin %d: %w", resetPin, err)
		}
		pins.resetLine = line
	}

	if enablePin >= 0 {
		line, err := chip.RequestLine(
			enablePin,
			gpiocdev.AsOutput(0),
			gpiocdev.WithConsumer("lmx2594-ce"),
		)
		if err != nil {
			if pins.resetLine != nil {
				pins.resetLine.Close()
			}
			chip.Close()
			return nil, fmt.Errorf("failed to request chip-enable pin %d: %w", enablePin, err)
		}
		pins.enableLine = line
	}

	return pins, nil
}

// Close releases all GPIO resources.
func (g *ControlPins) Close() error {
	var errs []error

	if g.resetLine != nil {
		if err := g.resetLine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close reset line: %w", err))
		}
		g.resetLine = nil
	}

	if g.enableLine != nil {
		if err := g.enableLine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close chip-enable line: %w", err))
		}
		g.enableLine = nil
	}

	if g.chip != nil {
		if err := g.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close GPIO chip: %w", err))
		}
		g.chip = nil
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing GPIO: %v", errs)
	}
	return nil
}

// SetReset drives the reset line; a no-op when no reset pin is wired.
func (g *ControlPins) SetReset(asserted bool) error {
	if g.resetLine == nil {
		return nil
	}
	v := 0
	if asserted {
		v = 1
	}
	if err := g.resetLine.SetValue(v); err != nil {
		return fmt.Errorf("failed to set reset pin: %w", err)
	}
	return nil
}

// SetEnable drives the CE power line; a no-op when no CE pin is wired.
func (g *ControlPins) SetEnable(on bool) error {
	if g.enableLine == nil {
		return nil
	}
	v := 0
	if on {
		v = 1
	}
	if err := g.enableLine.SetValue(v); err != nil {
		return fmt.Errorf("failed to set chip-enable pin: %w", err)
	}
	return nil
}
