package lmx2594

import "fmt"

// Device operating limits. Output and reference bounds come straight from
// the datasheet; the phase-detector ceiling is the fractional-mode limit,
// which is the conservative choice for both modes.
const (
	MinOutputHz = 10_000_000
	MaxOutputHz = 15_000_000_000

	MinReferenceHz = 5_000_000
	MaxReferenceHz = 1_400_000_000

	MaxPhaseDetectorHz = 400_000_000

	// VCO operating band; outputs below it go through the channel divider.
	MinVCOHz = 7_500_000_000
	MaxVCOHz = 15_000_000_000

	// MaxOutputPower is the upper bound of the OUTA_PWR field.
	MaxOutputPower = 63

	// minPLLDivider is the smallest supported N divider value.
	minPLLDivider = 28
)

// TargetConfig describes the desired synthesizer output for one
// initialization attempt.
type TargetConfig struct {
	// FrequencyHz is the RFoutA output frequency. Required.
	FrequencyHz uint64 `yaml:"frequency_hz"`

	// ReferenceHz is the OSCin reference frequency. Required.
	ReferenceHz uint64 `yaml:"reference_hz"`

	// OutputPower programs the OUTA_PWR field, 0-63. Higher is stronger;
	// the dBm mapping depends on frequency and board matching.
	OutputPower int `yaml:"output_power"`

	// DoublerEnabled runs the reference through the OSC_2X doubler before
	// the phase detector.
	DoublerEnabled bool `yaml:"doubler"`
}

// Validate checks the configuration against the device's documented limits.
// It performs declarative validation only and never touches the bus.
func (c TargetConfig) Validate() error {
	if c.FrequencyHz == 0 {
		return &ConfigError{Field: "frequency_hz", Reason: "required"}
	}
	if c.ReferenceHz == 0 {
		return &ConfigError{Field: "reference_hz", Reason: "required"}
	}
	if c.FrequencyHz < MinOutputHz || c.FrequencyHz > MaxOutputHz {
		return &ConfigError{
			Field:  "frequency_hz",
			Reason: fmt.Sprintf("%d Hz outside supported band %d-%d Hz", c.FrequencyHz, MinOutputHz, MaxOutputHz),
		}
	}
	if c.ReferenceHz < MinReferenceHz || c.ReferenceHz > MaxReferenceHz {
		return &ConfigError{
			Field:  "reference_hz",
			Reason: fmt.Sprintf("%d Hz outside supported range %d-%d Hz", c.ReferenceHz, MinReferenceHz, MaxReferenceHz),
		}
	}
	if c.phaseDetectorHz() > MaxPhaseDetectorHz {
		return &ConfigError{
			Field:  "reference_hz",
			Reason: fmt.Sprintf("phase-detector frequency %d Hz above %d Hz limit", c.phaseDetectorHz(), MaxPhaseDetectorHz),
		}
	}
	if c.OutputPower < 0 || c.OutputPower > MaxOutputPower {
		return &ConfigError{
			Field:  "output_power",
			Reason: fmt.Sprintf("%d outside range 0-%d", c.OutputPower, MaxOutputPower),
		}
	}
	return nil
}

// phaseDetectorHz is the frequency presented to the phase detector after the
// optional reference doubler.
func (c TargetConfig) phaseDetectorHz() uint64 {
	if c.DoublerEnabled {
		return c.ReferenceHz * 2
	}
	return c.ReferenceHz
}
