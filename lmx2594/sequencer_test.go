package lmx2594

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

// mockBus is a scripted bus spy. It decodes every frame it sees, answers
// lock-detect reads from a script, and can inject a transport fault at a
// given transfer index.
type mockBus struct {
	writes    []RegisterWrite
	resets    []bool
	transfers int
	reads     int

	failAt int // 1-based transfer index at which Transfer starts failing
	lockOn int // 1-based read count that reports locked; 0 = never

	clk       *fakeClock
	readTimes []time.Time
}

func (b *mockBus) Transfer(tx, rx []byte) error {
	b.transfers++
	if b.failAt > 0 && b.transfers >= b.failAt {
		return errors.New("transfer fault")
	}

	f := FrameFromBytes([FrameSize]byte{tx[0], tx[1], tx[2]})
	if !f.IsRead() {
		b.writes = append(b.writes, RegisterWrite{Addr: f.Addr(), Value: f.Value()})
		return nil
	}

	b.reads++
	if b.clk != nil {
		b.readTimes = append(b.readTimes, b.clk.Now())
	}
	var v uint16
	if b.lockOn > 0 && b.reads >= b.lockOn {
		v = ldLocked << lockDetectShift
	}
	rx[1] = byte(v >> 8)
	rx[2] = byte(v)
	return nil
}

func (b *mockBus) SetReset(asserted bool) error {
	b.resets = append(b.resets, asserted)
	return nil
}

// fakeClock advances only when something sleeps.
type fakeClock struct {
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

func testTiming(clk Clock) Timing {
	return Timing{
		PollAttempts: 3,
		Clock:        clk,
	}
}

// The sequence issues the reset bracket, then every map entry, in order.
const wantWrites = 2 + NumRegisters + 1

func TestInitializeLocked(t *testing.T) {
	bus := &mockBus{lockOn: 1}

	status, err := Initialize(scenarioConfig(), bus, testTiming(&fakeClock{}))
	if err != nil {
		t.Fatalf("Initialize() err=%v", err)
	}
	if status != Locked {
		t.Fatalf("status = %v, want Locked", status)
	}

	if len(bus.writes) != wantWrites {
		t.Fatalf("writes = %d, want %d", len(bus.writes), wantWrites)
	}
	if bus.reads != 1 {
		t.Fatalf("status reads = %d, want 1", bus.reads)
	}

	// Hardware reset pulse precedes everything else.
	if len(bus.resets) != 2 || !bus.resets[0] || bus.resets[1] {
		t.Fatalf("reset line sequence = %v, want assert then deassert", bus.resets)
	}

	// Software reset bracket through R0 before the map load.
	if bus.writes[0].Addr != RegControl || bus.writes[0].Value&CtlReset == 0 {
		t.Fatalf("first write = %+v, want R0 with RESET set", bus.writes[0])
	}
	if bus.writes[1].Addr != RegControl || bus.writes[1].Value&CtlReset != 0 {
		t.Fatalf("second write = %+v, want R0 with RESET cleared", bus.writes[1])
	}
}

func TestControlWritesKeepReadbackMux(t *testing.T) {
	bus := &mockBus{lockOn: 1}

	if _, err := Initialize(scenarioConfig(), bus, testTiming(&fakeClock{})); err != nil {
		t.Fatalf("Initialize() err=%v", err)
	}

	// Every R0 write of the whole sequence, reset bracket included, must
	// keep MUXout in readback mode so the status reads reach R110.
	for i, w := range bus.writes {
		if w.Addr == RegControl && w.Value&CtlMuxOutLdSel != 0 {
			t.Fatalf("write %d: R0 value 0x%04X routes MUXout to the LD pin", i, w.Value)
		}
	}
}

func TestInitializeUnlockedAfterBudget(t *testing.T) {
	bus := &mockBus{} // never reports lock

	status, err := Initialize(scenarioConfig(), bus, testTiming(&fakeClock{}))
	if err != nil {
		t.Fatalf("Initialize() err=%v", err)
	}
	if status != Unlocked {
		t.Fatalf("status = %v, want Unlocked", status)
	}
	if bus.reads != 3 {
		t.Fatalf("status reads = %d, want 3", bus.reads)
	}
}

func TestInitializeBusFaultAborts(t *testing.T) {
	// Fault on the 7th transfer: 2 soft-reset writes, then mid map load.
	bus := &mockBus{failAt: 7}

	status, err := Initialize(scenarioConfig(), bus, testTiming(&fakeClock{}))
	var spiErr *SPIError
	if !errors.As(err, &spiErr) {
		t.Fatalf("expected SPIError, got %v", err)
	}
	if status != Failed {
		t.Fatalf("status = %v, want Failed", status)
	}
	if bus.transfers != 7 {
		t.Fatalf("transfers after fault = %d, want 7 (no writes after the fault)", bus.transfers)
	}
}

func TestInitializeConfigErrorNoBusTraffic(t *testing.T) {
	bus := &mockBus{}
	cfg := scenarioConfig()
	cfg.FrequencyHz = 0

	_, err := Initialize(cfg, bus, testTiming(&fakeClock{}))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if bus.transfers != 0 || len(bus.resets) != 0 {
		t.Fatalf("bus touched before validation: %d transfers, %d reset changes", bus.transfers, len(bus.resets))
	}
}

func TestAbortLogsFailingState(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	// Fault mid register load; the abort log must name the state that was
	// active when the fault hit, not the terminal one.
	bus := &mockBus{failAt: 7}
	if _, err := Initialize(scenarioConfig(), bus, testTiming(&fakeClock{})); err == nil {
		t.Fatal("expected a bus fault")
	}

	if !strings.Contains(buf.String(), "state=loading-registers") {
		t.Fatalf("abort log missing failing state: %s", buf.String())
	}
}

func TestFirstStatusReadAfterSettle(t *testing.T) {
	clk := &fakeClock{}
	bus := &mockBus{lockOn: 1, clk: clk}

	timing := Timing{
		ResetRecovery:     time.Millisecond,
		WriteGap:          time.Microsecond,
		CalibrationSettle: 500 * time.Millisecond,
		PollAttempts:      3,
		Clock:             clk,
	}

	if _, err := Initialize(scenarioConfig(), bus, timing); err != nil {
		t.Fatalf("Initialize() err=%v", err)
	}

	if len(bus.readTimes) == 0 {
		t.Fatal("no status read recorded")
	}
	start := time.Time{}
	if elapsed := bus.readTimes[0].Sub(start); elapsed < timing.CalibrationSettle {
		t.Fatalf("first status read after %v, want at least the %v settle delay", elapsed, timing.CalibrationSettle)
	}
}
