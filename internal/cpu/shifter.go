package cpu

// shiftResult is the output of the barrel shifter: the shifted value and the
// carry-out it produces, which feeds CPSR.C when the instruction is an
// S-suffixed data processing op.
type shiftResult struct {
	value    uint32
	carryOut bool
}

// applyShift implements the ARM barrel shifter for the four shift types,
// including the register-specified immediate-zero special cases from the
// ARM7TDMI data sheet (section 4.5.2): LSR/ASR #0 is treated as #32, and
// ROR #0 is RRX (rotate right through carry by one bit).
func applyShift(value uint32, shiftType ARMShiftType, shiftAmount uint8, carryIn bool) shiftResult {
	switch shiftType {
	case LSL:
		return shiftLSL(value, shiftAmount, carryIn)
	case LSR:
		return shiftLSR(value, shiftAmount, carryIn)
	case ASR:
		return shiftASR(value, shiftAmount, carryIn)
	case ROR:
		return shiftROR(value, shiftAmount, carryIn)
	}
	return shiftResult{value: value, carryOut: carryIn}
}

func shiftLSL(value uint32, amount uint8, carryIn bool) shiftResult {
	switch {
	case amount == 0:
		return shiftResult{value: value, carryOut: carryIn}
	case amount < 32:
		carry := (value>>(32-amount))&1 == 1
		return shiftResult{value: value << amount, carryOut: carry}
	case amount == 32:
		return shiftResult{value: 0, carryOut: value&1 == 1}
	default:
		return shiftResult{value: 0, carryOut: false}
	}
}

func shiftLSR(value uint32, amount uint8, carryIn bool) shiftResult {
	switch {
	case amount == 0:
		// Immediate-encoded LSR #0 means LSR #32.
		return shiftResult{value: 0, carryOut: (value>>31)&1 == 1}
	case amount < 32:
		carry := (value>>(amount-1))&1 == 1
		return shiftResult{value: value >> amount, carryOut: carry}
	case amount == 32:
		return shiftResult{value: 0, carryOut: (value>>31)&1 == 1}
	default:
		return shiftResult{value: 0, carryOut: false}
	}
}

func shiftASR(value uint32, amount uint8, carryIn bool) shiftResult {
	signed := int32(value)
	switch {
	case amount == 0:
		// Immediate-encoded ASR #0 means ASR #32: result is all sign bits.
		amount = 32
		fallthrough
	case amount < 32:
		carry := (value>>(amount-1))&1 == 1
		return shiftResult{value: uint32(signed >> amount), carryOut: carry}
	default:
		if signed < 0 {
			return shiftResult{value: 0xFFFFFFFF, carryOut: true}
		}
		return shiftResult{value: 0, carryOut: false}
	}
}

func shiftROR(value uint32, amount uint8, carryIn bool) shiftResult {
	if amount == 0 {
		// Immediate-encoded ROR #0 means RRX: rotate right by one through C.
		carryOut := value&1 == 1
		result := value >> 1
		if carryIn {
			result |= 1 << 31
		}
		return shiftResult{value: result, carryOut: carryOut}
	}
	amount &= 31
	if amount == 0 {
		return shiftResult{value: value, carryOut: (value>>31)&1 == 1}
	}
	result := (value >> amount) | (value << (32 - amount))
	carry := (result>>31)&1 == 1
	return shiftResult{value: result, carryOut: carry}
}
