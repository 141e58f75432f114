package cpu

import "testing"

func TestShiftLSLByZeroIsNoOp(t *testing.T) {
	r := applyShift(0x1, LSL, 0, true)
	if r.value != 0x1 || r.carryOut != true {
		t.Errorf("LSL #0 = %#x/%v, want 0x1/true (carry unchanged)", r.value, r.carryOut)
	}
}

func TestShiftLSLCarryOutIsLastBitShiftedOut(t *testing.T) {
	r := applyShift(0x80000000, LSL, 1, false)
	if r.value != 0 || !r.carryOut {
		t.Errorf("LSL 0x80000000 #1 = %#x/%v, want 0/true", r.value, r.carryOut)
	}
}

func TestShiftLSRImmediateZeroMeansShiftBy32(t *testing.T) {
	r := applyShift(0x80000000, LSR, 0, false)
	if r.value != 0 || !r.carryOut {
		t.Errorf("LSR #0 (== #32) of 0x80000000 = %#x/%v, want 0/true", r.value, r.carryOut)
	}
}

func TestShiftLSRNormal(t *testing.T) {
	r := applyShift(0xFF, LSR, 4, false)
	if r.value != 0xF || !r.carryOut {
		t.Errorf("LSR 0xFF #4 = %#x/%v, want 0xF/true", r.value, r.carryOut)
	}
}

func TestShiftASRImmediateZeroMeansShiftBy32(t *testing.T) {
	r := applyShift(0x80000000, ASR, 0, false)
	if r.value != 0xFFFFFFFF || !r.carryOut {
		t.Errorf("ASR #0 (== #32) of negative value = %#x/%v, want 0xFFFFFFFF/true", r.value, r.carryOut)
	}
}

func TestShiftASRPositiveImmediateZero(t *testing.T) {
	r := applyShift(0x7FFFFFFF, ASR, 0, false)
	if r.value != 0 || r.carryOut {
		t.Errorf("ASR #0 of positive value = %#x/%v, want 0/false", r.value, r.carryOut)
	}
}

func TestShiftRORByZeroIsRRX(t *testing.T) {
	r := applyShift(0x1, ROR, 0, true)
	if r.value != 0x80000000 || !r.carryOut {
		t.Errorf("RRX of 0x1 with carry-in=1 = %#x/%v, want 0x80000000/true", r.value, r.carryOut)
	}
}

func TestShiftRORByZeroNoCarryIn(t *testing.T) {
	r := applyShift(0x1, ROR, 0, false)
	if r.value != 0 || !r.carryOut {
		t.Errorf("RRX of 0x1 with carry-in=0 = %#x/%v, want 0/true", r.value, r.carryOut)
	}
}

func TestShiftROR32EqualsROR0Mod32(t *testing.T) {
	value := uint32(0x12345678)
	full := applyShift(value, ROR, 32, false)
	unrotated := applyShift(value, ROR, 0, full.carryOut)
	// ROR #32 (register-specified, not RRX) leaves the value unchanged and
	// sets carry from bit 31.
	if full.value != value {
		t.Errorf("ROR #32 = %#x, want unchanged %#x", full.value, value)
	}
	_ = unrotated
}

func TestShiftRORWrapsPast32(t *testing.T) {
	value := uint32(0x00000001)
	r40 := applyShift(value, ROR, 40, false)
	r8 := applyShift(value, ROR, 8, false)
	if r40.value != r8.value {
		t.Errorf("ROR #40 = %#x, want equal to ROR #8 = %#x", r40.value, r8.value)
	}
}
