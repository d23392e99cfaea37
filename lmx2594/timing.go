package lmx2594

import "time"

// Default timing parameters. The reset and settle values follow the
// conservative bring-up timing used on the evaluation board; they can be
// tightened against the datasheet of the specific hardware revision.
const (
	DefaultResetRecovery     = 10 * time.Millisecond
	DefaultWriteGap          = 10 * time.Microsecond
	DefaultCalibrationSettle = 10 * time.Millisecond
	DefaultPollInterval      = 10 * time.Millisecond
	DefaultPollMaxInterval   = 100 * time.Millisecond
	DefaultPollAttempts      = 20
)

// Timing configures the datasheet-mandated delays and the lock poll budget.
// The zero value of any field falls back to the documented default.
type Timing struct {
	// ResetRecovery is held after each reset step before the next write.
	ResetRecovery time.Duration

	// WriteGap is inserted after every register write.
	WriteGap time.Duration

	// CalibrationSettle is the mandatory wait between the last register
	// write and the first lock-status read.
	CalibrationSettle time.Duration

	// PollInterval is the minimum wait between lock-status reads; the
	// poller backs off exponentially from here up to PollMaxInterval.
	PollInterval    time.Duration
	PollMaxInterval time.Duration

	// PollAttempts bounds the number of lock-status reads.
	PollAttempts int

	// Clock supplies time for all delays. Defaults to the wall clock;
	// tests inject a fake.
	Clock Clock
}

func (t Timing) withDefaults() Timing {
	if t.ResetRecovery == 0 {
		t.ResetRecovery = DefaultResetRecovery
	}
	if t.WriteGap == 0 {
		t.WriteGap = DefaultWriteGap
	}
	if t.CalibrationSettle == 0 {
		t.CalibrationSettle = DefaultCalibrationSettle
	}
	if t.PollInterval == 0 {
		t.PollInterval = DefaultPollInterval
	}
	if t.PollMaxInterval == 0 {
		t.PollMaxInterval = DefaultPollMaxInterval
	}
	if t.PollMaxInterval < t.PollInterval {
		t.PollMaxInterval = t.PollInterval
	}
	if t.PollAttempts == 0 {
		t.PollAttempts = DefaultPollAttempts
	}
	if t.Clock == nil {
		t.Clock = wallClock{}
	}
	return t
}

// Clock abstracts the delay primitive so the sequence is testable without
// real wall-clock waits.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type wallClock struct{}

func (wallClock) Now() time.Time        { return time.Now() }
func (wallClock) Sleep(d time.Duration) { time.Sleep(d) }
