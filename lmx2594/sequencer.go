package lmx2594

import "log/slog"

// initState tracks the initialization sequence. There is no mid-flight
// cancellation: a started sequence runs to stateDone or stateAborted, and a
// failed attempt must restart from stateIdle with a full reset.
type initState uint8

const (
	stateIdle initState = iota
	stateResetting
	stateLoadingRegisters
	stateTriggeringCalibration
	stateAwaitingSettle
	stateDone
	stateAborted
)

func (s initState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateResetting:
		return "resetting"
	case stateLoadingRegisters:
		return "loading-registers"
	case stateTriggeringCalibration:
		return "triggering-calibration"
	case stateAwaitingSettle:
		return "awaiting-calibration-settle"
	case stateDone:
		return "done"
	case stateAborted:
		return "aborted"
	}
	return "unknown"
}

type sequencer struct {
	ictx   *InitContext
	timing Timing
	state  initState
}

// Initialize runs the full power-up sequence for the given target: reset,
// ordered register load, calibration, then lock polling. It blocks until a
// definitive verdict is reached.
//
// Locked and Unlocked are both normal outcomes with a nil error; Unlocked
// means calibration did not settle within the poll budget, which usually
// points at an unreachable frequency plan rather than broken hardware. A
// non-nil error is either a *ConfigError (raised before any bus traffic) or
// a *SPIError (the attempt aborted mid-sequence), and the returned status is
// then Failed.
func Initialize(cfg TargetConfig, bus Bus, timing Timing) (LockStatus, error) {
	m, err := BuildRegisterMap(cfg)
	if err != nil {
		return Failed, err
	}
	s := &sequencer{
		ictx:   NewInitContext(bus),
		timing: timing.withDefaults(),
	}
	return s.run(m)
}

func (s *sequencer) run(m RegisterMap) (LockStatus, error) {
	s.transition(stateResetting)
	if err := s.reset(); err != nil {
		return s.abort(err)
	}

	s.transition(stateLoadingRegisters)
	if err := s.load(m); err != nil {
		return s.abort(err)
	}

	// The final map write completed the calibration bracket; this is a
	// fire step, no status check yet.
	s.transition(stateTriggeringCalibration)

	s.transition(stateAwaitingSettle)
	s.timing.Clock.Sleep(s.timing.CalibrationSettle)

	status, err := pollLock(s.ictx, s.timing)
	if err != nil {
		return s.abort(err)
	}
	s.transition(stateDone)
	slog.Info("synthesizer initialization finished", "status", status.String())
	return status, nil
}

// reset pulses the hardware reset line when one is wired, then issues the
// software reset pair through R0, holding the recovery delay after each step.
func (s *sequencer) reset() error {
	clk := s.timing.Clock

	if err := s.ictx.setReset(true); err != nil {
		return err
	}
	clk.Sleep(s.timing.ResetRecovery)
	if err := s.ictx.setReset(false); err != nil {
		return err
	}
	clk.Sleep(s.timing.ResetRecovery)

	control := baseRegisterValues[RegControl] &^ CtlMuxOutLdSel
	if err := s.ictx.WriteRegister(RegisterWrite{Addr: RegControl, Value: control | CtlReset}); err != nil {
		return err
	}
	clk.Sleep(s.timing.ResetRecovery)
	if err := s.ictx.WriteRegister(RegisterWrite{Addr: RegControl, Value: control &^ CtlReset}); err != nil {
		return err
	}
	clk.Sleep(s.timing.ResetRecovery)
	return nil
}

// load transmits every entry of the map in sequence order, one blocking
// exchange each. The first transfer failure stops the sequence immediately.
func (s *sequencer) load(m RegisterMap) error {
	for _, w := range m {
		if err := s.ictx.WriteRegister(w); err != nil {
			return err
		}
		if s.timing.WriteGap > 0 {
			s.timing.Clock.Sleep(s.timing.WriteGap)
		}
	}
	slog.Debug("register map loaded", "writes", len(m))
	return nil
}

func (s *sequencer) transition(next initState) {
	slog.Debug("init state", "from", s.state.String(), "to", next.String())
	s.state = next
}

func (s *sequencer) abort(err error) (LockStatus, error) {
	failed := s.state
	s.transition(stateAborted)
	slog.Error("synthesizer initialization aborted", "state", failed.String(), "error", err)
	return Failed, err
}
