package lmx2594

import "fmt"

// ConfigError reports a malformed or out-of-range target configuration.
// It is always raised before any bus traffic and is never retried.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// SPIError reports a failed bus transaction. It is fatal to the current
// initialization attempt; the chip state is undefined afterward and a fresh
// attempt must restart with a full reset.
type SPIError struct {
	Op   string // "write", "read" or "reset"
	Addr uint8  // register address, meaningless for "reset"
	Err  error
}

func (e *SPIError) Error() string {
	if e.Op == "reset" {
		return fmt.Sprintf("spi: reset line: %v", e.Err)
	}
	return fmt.Sprintf("spi: %s R%d: %v", e.Op, e.Addr, e.Err)
}

func (e *SPIError) Unwrap() error {
	return e.Err
}
