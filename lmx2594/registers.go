// Package lmx2594 programs a TI LMX2594 wideband frequency synthesizer over
// SPI: it builds the ordered register sequence for a target output, drives
// the datasheet power-up sequence, triggers VCO calibration, and polls the
// lock-detect readback until the output can be trusted.
package lmx2594

// Register addresses (R0-R112). The device exposes 113 16-bit registers
// behind 7-bit addresses; R107-R112 are readback only.
const (
	RegControl    = 0   // FCAL_EN, MUXout select, RESET, POWERDOWN
	RegRefPath    = 9   // OSC_2X reference doubler
	RegNDivHigh   = 34  // PLL_N bits 18:16
	RegNDiv       = 36  // PLL_N bits 15:0
	RegDenHigh    = 38  // PLL_DEN bits 31:16
	RegDenLow     = 39  // PLL_DEN bits 15:0
	RegNumHigh    = 42  // PLL_NUM bits 31:16
	RegNumLow     = 43  // PLL_NUM bits 15:0
	RegOutput     = 44  // OUTA_PWR, output powerdown, MASH order
	RegOutMux     = 45  // OUTA_MUX output source select
	RegChDiv      = 75  // CHDIV channel divider select
	RegLockDetect = 110 // readback: VCO calibration / lock-detect status

	// MaxAddress is the highest programmable register address.
	MaxAddress = 112

	// NumRegisters is the size of the register bank.
	NumRegisters = MaxAddress + 1
)

// RegControl (R0) bits
const (
	CtlFcalEn      = 1 << 3 // run VCO calibration on write
	CtlMuxOutLdSel = 1 << 2 // MUXout carries the LD pin level instead of readback; must stay clear for R110 polling
	CtlReset       = 1 << 1 // software reset, self-clearing is NOT implied
	CtlPowerdown   = 1 << 0 // full chip powerdown
)

// RegRefPath (R9) bits
const (
	RefDoublerEnable = 1 << 12 // OSC_2X: double the reference into the PFD
)

// RegOutput (R44) fields
const (
	OutAPowerShift = 8
	OutAPowerMask  = 0x3F << OutAPowerShift // OUTA_PWR, 0-63
	OutBPowerdown  = 1 << 7
	OutAPowerdown  = 1 << 6
)

// RegOutMux (R45) OUTA_MUX field (bits 12:11)
const (
	OutMuxShift     = 11
	OutMuxMask      = 0x3 << OutMuxShift
	OutMuxChDiv     = 0 // RFoutA driven from the channel divider
	OutMuxVCODirect = 1 // RFoutA driven from the VCO
)

// RegChDiv (R75) CHDIV field (bits 10:6), index into chDivRatios
const (
	ChDivShift = 6
	ChDivMask  = 0x1F << ChDivShift
)

// chDivRatios maps the CHDIV field value to the output divide ratio.
var chDivRatios = [...]uint64{
	2, 4, 6, 8, 12, 16, 24, 32, 48,
	64, 72, 96, 128, 192, 256, 384, 512, 768,
}

// RegLockDetect (R110) lock-detect status field (bits 10:9). Reading it over
// SPI requires MUXout in readback mode, so every R0 value the driver writes
// keeps CtlMuxOutLdSel clear even though the base image sets it.
const (
	lockDetectShift = 9
	lockDetectMask  = 0x3 << lockDetectShift

	ldUnlocked    = 0
	ldCalibrating = 1
	ldLocked      = 2
)

// lockDetectField extracts the 2-bit lock-detect status from an R110 readback.
func lockDetectField(v uint16) uint16 {
	return (v & lockDetectMask) >> lockDetectShift
}

// baseRegisterValues holds the base value of every programmable register,
// indexed by address. The frequency plan patches the PLL and output registers
// on top of these; everything else is written as-is so that unconfigured
// registers end up at their documented values and no reserved bit moves.
// R79-R106 matter only when the ramping function is enabled and stay zero.
var baseRegisterValues = [NumRegisters]uint16{
	0x241C, // R0   FCAL_EN | MUXOUT_LD_SEL, calibration timing adjusts
	0x0808, // R1
	0x0500, // R2
	0x0642, // R3
	0x0A43, // R4
	0x00C8, // R5
	0xC802, // R6
	0x40B2, // R7
	0x2000, // R8
	0x0604, // R9   OSC_2X off
	0x10D8, // R10
	0x0018, // R11
	0x5001, // R12
	0x4000, // R13
	0x1E70, // R14
	0x064F, // R15
	0x0080, // R16
	0x0118, // R17
	0x0064, // R18
	0x27B7, // R19
	0xD848, // R20
	0x0401, // R21
	0x0001, // R22
	0x007C, // R23
	0x071A, // R24
	0x0C2B, // R25
	0x0DB0, // R26
	0x0002, // R27
	0x0488, // R28
	0x318C, // R29
	0x318C, // R30
	0x43EC, // R31
	0x0393, // R32
	0x1E21, // R33
	0x0000, // R34  PLL_N high
	0x0004, // R35
	0x0800, // R36  PLL_N low
	0x0304, // R37
	0x0000, // R38  PLL_DEN high
	0x0001, // R39  PLL_DEN low (integer mode)
	0x0000, // R40
	0x0000, // R41
	0x0000, // R42  PLL_NUM high
	0x0000, // R43  PLL_NUM low
	0x1FA3, // R44  OUTA_PWR=31, OUTB powered down, MASH order 3
	0xC0DF, // R45  OUTA_MUX=CHDIV
	0x07FC, // R46
	0x0300, // R47
	0x0300, // R48
	0x4180, // R49
	0x0000, // R50
	0x0080, // R51
	0x0820, // R52
	0x0000, // R53
	0x0000, // R54
	0x0000, // R55
	0x0000, // R56
	0x0020, // R57
	0x8001, // R58
	0x0001, // R59
	0x0000, // R60
	0x00A8, // R61
	0x0322, // R62
	0x0000, // R63
	0x1388, // R64
	0x0000, // R65
	0x01F4, // R66
	0x0000, // R67
	0x03E8, // R68
	0x0000, // R69
	0xC350, // R70
	0x0081, // R71
	0x0001, // R72
	0x003F, // R73
	0x0000, // R74
	0x0B80, // R75  CHDIV
	0x000C, // R76
	0x0000, // R77
	0x00C3, // R78
	0x0000, // R79
	0x0000, // R80
	0x0000, // R81
	0x0000, // R82
	0x0000, // R83
	0x0000, // R84
	0x0000, // R85
	0x0000, // R86
	0x0000, // R87
	0x0000, // R88
	0x0000, // R89
	0x0000, // R90
	0x0000, // R91
	0x0000, // R92
	0x0000, // R93
	0x0000, // R94
	0x0000, // R95
	0x0000, // R96
	0x0888, // R97
	0x0000, // R98
	0x0000, // R99
	0x0000, // R100
	0x0011, // R101
	0x0000, // R102
	0x0000, // R103
	0x0000, // R104
	0x0021, // R105
	0x0000, // R106
	0x0000, // R107 readback
	0x0000, // R108 readback
	0x0000, // R109 readback
	0x0000, // R110 readback (lock detect)
	0x0000, // R111 readback
	0x0000, // R112 readback
}
