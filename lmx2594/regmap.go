package lmx2594

// RegisterMap is the ordered write sequence that fully configures the device
// for one target output. It is rebuilt for every initialization attempt and
// immutable once built.
//
// The control register R0 appears exactly twice: first with FCAL_EN set to
// arm VCO calibration, and last with FCAL_EN cleared so that later control
// writes do not retrigger it. Every other address appears exactly once, in
// strictly descending order, which is the order the register side effects
// require.
type RegisterMap []RegisterWrite

// frequencyPlan is the resolved divider arithmetic for one target.
type frequencyPlan struct {
	pllN    uint32 // integer N divider, 19 bits
	pllNum  uint32 // fractional numerator
	pllDen  uint32 // fractional denominator, 1 in integer mode
	chDiv   int    // index into chDivRatios, -1 when the VCO drives RFoutA
	vcoHz   uint64
	doubler bool
}

// BuildRegisterMap validates cfg and produces the write sequence for it.
// It is a pure function: identical configurations yield identical maps, and
// no bus traffic happens here.
func BuildRegisterMap(cfg TargetConfig) (RegisterMap, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	plan, err := planFrequency(cfg)
	if err != nil {
		return nil, err
	}

	regs := baseRegisterValues

	if plan.doubler {
		regs[RegRefPath] |= RefDoublerEnable
	}

	regs[RegNDivHigh] = uint16(plan.pllN >> 16)
	regs[RegNDiv] = uint16(plan.pllN)
	regs[RegDenHigh] = uint16(plan.pllDen >> 16)
	regs[RegDenLow] = uint16(plan.pllDen)
	regs[RegNumHigh] = uint16(plan.pllNum >> 16)
	regs[RegNumLow] = uint16(plan.pllNum)

	regs[RegOutput] = regs[RegOutput]&^OutAPowerMask | uint16(cfg.OutputPower)<<OutAPowerShift

	if plan.chDiv >= 0 {
		regs[RegOutMux] = regs[RegOutMux]&^OutMuxMask | OutMuxChDiv<<OutMuxShift
		regs[RegChDiv] = regs[RegChDiv]&^ChDivMask | uint16(plan.chDiv)<<ChDivShift
	} else {
		regs[RegOutMux] = regs[RegOutMux]&^OutMuxMask | OutMuxVCODirect<<OutMuxShift
	}

	// MUXout must stay in readback mode or the lock poll would see the LD
	// pin level instead of R110.
	control := regs[RegControl] &^ (CtlReset | CtlPowerdown | CtlMuxOutLdSel)

	m := make(RegisterMap, 0, NumRegisters+1)
	m = append(m, RegisterWrite{Addr: RegControl, Value: control | CtlFcalEn})
	for addr := MaxAddress; addr >= 1; addr-- {
		m = append(m, RegisterWrite{Addr: uint8(addr), Value: regs[addr]})
	}
	m = append(m, RegisterWrite{Addr: RegControl, Value: control &^ CtlFcalEn})
	return m, nil
}

// planFrequency resolves the divider chain for the target: pick a channel
// divider that places the VCO in band, then split the VCO/PFD ratio into the
// integer and exact fractional parts.
func planFrequency(cfg TargetConfig) (frequencyPlan, error) {
	plan := frequencyPlan{chDiv: -1, doubler: cfg.DoublerEnabled}

	plan.vcoHz = cfg.FrequencyHz
	if cfg.FrequencyHz < MinVCOHz {
		for i, ratio := range chDivRatios {
			vco := cfg.FrequencyHz * ratio
			if vco >= MinVCOHz && vco <= MaxVCOHz {
				plan.chDiv = i
				plan.vcoHz = vco
				break
			}
		}
		if plan.chDiv < 0 {
			return frequencyPlan{}, &ConfigError{
				Field:  "frequency_hz",
				Reason: "no channel divider places the VCO in band",
			}
		}
	}

	pfd := cfg.phaseDetectorHz()
	n := plan.vcoHz / pfd
	rem := plan.vcoHz % pfd

	if n < minPLLDivider {
		return frequencyPlan{}, &ConfigError{
			Field:  "reference_hz",
			Reason: "phase-detector frequency too high for target, N divider below minimum",
		}
	}
	plan.pllN = uint32(n)

	// rem/pfd reduced by their gcd is exact and always fits 32 bits, since
	// pfd is capped well below 2^32.
	plan.pllNum = 0
	plan.pllDen = 1
	if rem != 0 {
		g := gcd(rem, pfd)
		plan.pllNum = uint32(rem / g)
		plan.pllDen = uint32(pfd / g)
	}
	return plan, nil
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
