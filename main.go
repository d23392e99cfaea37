// lmxinit programs an LMX2594 evaluation board from a YAML description of
// the target output and verifies lock before exiting.
//
// Usage:
//
//	lmxinit <config.yaml>
//
// Exit status is 0 only when the synthesizer reports lock.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rwpeterson/lmx2594ctl/lmx2594"
)

// PowerUpSettle is held after raising chip enable before the first
// bus transaction.
const PowerUpSettle = 10 * time.Millisecond

type Config struct {
	SPI struct {
		Device  string `yaml:"device"`
		SpeedHz uint32 `yaml:"speed_hz"`
	} `yaml:"spi"`
	GPIO struct {
		Chip      string `yaml:"chip"`
		ResetPin  int    `yaml:"reset_pin"`
		EnablePin int    `yaml:"enable_pin"`
	} `yaml:"gpio"`
	Target lmx2594.TargetConfig `yaml:"target"`
	Timing struct {
		ResetRecoveryMs     int `yaml:"reset_recovery_ms"`
		WriteGapUs          int `yaml:"write_gap_us"`
		CalibrationSettleMs int `yaml:"calibration_settle_ms"`
		PollIntervalMs      int `yaml:"poll_interval_ms"`
		PollMaxIntervalMs   int `yaml:"poll_max_interval_ms"`
		PollAttempts        int `yaml:"poll_attempts"`
	} `yaml:"timing"`
}

func loadConfig(path string) (Config, error) {
	var cfg Config

	// Defaults; negative pins mean "not wired".
	cfg.SPI.Device = "/dev/spidev0.0"
	cfg.GPIO.Chip = "/dev/gpiochip0"
	cfg.GPIO.ResetPin = -1
	cfg.GPIO.EnablePin = -1

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func (c Config) timing() lmx2594.Timing {
	return lmx2594.Timing{
		ResetRecovery:     time.Duration(c.Timing.ResetRecoveryMs) * time.Millisecond,
		WriteGap:          time.Duration(c.Timing.WriteGapUs) * time.Microsecond,
		CalibrationSettle: time.Duration(c.Timing.CalibrationSettleMs) * time.Millisecond,
		PollInterval:      time.Duration(c.Timing.PollIntervalMs) * time.Millisecond,
		PollMaxInterval:   time.Duration(c.Timing.PollMaxIntervalMs) * time.Millisecond,
		PollAttempts:      c.Timing.PollAttempts,
	}
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: lmxinit <config.yaml>")
		os.Exit(2)
	}

	cfg, err := loadConfig(os.Args[1])
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Fail on a bad target before touching any hardware.
	if err := cfg.Target.Validate(); err != nil {
		slog.Error("Invalid target configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Programming synthesizer",
		"spi_device", cfg.SPI.Device,
		"frequency_hz", cfg.Target.FrequencyHz,
		"reference_hz", cfg.Target.ReferenceHz,
		"output_power", cfg.Target.OutputPower,
		"doubler", cfg.Target.DoublerEnabled)

	bus, err := lmx2594.NewHardwareBus(
		cfg.SPI.Device,
		cfg.SPI.SpeedHz,
		cfg.GPIO.Chip,
		cfg.GPIO.ResetPin,
		cfg.GPIO.EnablePin,
	)
	if err != nil {
		slog.Error("Failed to open hardware", "error", err)
		os.Exit(1)
	}
	defer bus.Close()

	if err := bus.PowerOn(); err != nil {
		slog.Error("Failed to power on device", "error", err)
		os.Exit(1)
	}
	time.Sleep(PowerUpSettle)

	status, err := lmx2594.Initialize(cfg.Target, bus, cfg.timing())
	if err != nil {
		var spiErr *lmx2594.SPIError
		if errors.As(err, &spiErr) {
			slog.Error("Bus fault during initialization", "error", err)
		} else {
			slog.Error("Initialization failed", "error", err)
		}
		os.Exit(1)
	}

	switch status {
	case lmx2594.Locked:
		slog.Info("Synthesizer locked", "frequency_hz", cfg.Target.FrequencyHz)
	default:
		slog.Error("Synthesizer did not lock", "status", status.String())
		os.Exit(1)
	}
}
