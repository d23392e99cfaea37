package lmx2594

import (
	"github.com/jpillora/backoff"
)

// LockStatus is the final verdict of an initialization attempt. It is
// produced only by the lock poller, never set by the sequencer.
type LockStatus uint8

const (
	// Calibrating means the VCO calibration is still running.
	Calibrating LockStatus = iota

	// Locked means the oscillator settled on the target frequency.
	Locked

	// Unlocked means the poll budget ran out without a positive read.
	Unlocked

	// Failed means a bus transfer error interrupted polling.
	Failed
)

func (s LockStatus) String() string {
	switch s {
	case Calibrating:
		return "calibrating"
	case Locked:
		return "locked"
	case Unlocked:
		return "unlocked"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// pollLock reads the lock-detect register once per attempt until it reports
// locked or the attempt budget is exhausted. Waits between attempts back off
// exponentially from t.PollInterval, so no read ever comes sooner than the
// minimum re-poll interval.
//
// An exhausted budget is a normal, reportable outcome (Unlocked), never an
// error: the target may simply be unreachable with the given reference. A
// transfer fault returns Failed with the underlying *SPIError.
func pollLock(ictx *InitContext, t Timing) (LockStatus, error) {
	b := &backoff.Backoff{
		Min:    t.PollInterval,
		Max:    t.PollMaxInterval,
		Factor: 2,
		Jitter: false,
	}

	for attempt := 1; attempt <= t.PollAttempts; attempt++ {
		v, err := ictx.ReadRegister(RegLockDetect)
		if err != nil {
			return Failed, err
		}
		if lockDetectField(v) == ldLocked {
			return Locked, nil
		}
		if attempt < t.PollAttempts {
			t.Clock.Sleep(b.Duration())
		}
	}
	return Unlocked, nil
}
