package cpu

import "testing"

func TestSP_IsBankedPerMode(t *testing.T) {
	r := NewRegisters()

	r.SetMode(USRMode)
	r.SetReg(13, 0x1000)

	r.SetMode(SVCMode)
	r.SetReg(13, 0x2000)
	if got := r.GetReg(13); got != 0x2000 {
		t.Errorf("SVC SP = %#x, want 0x2000", got)
	}

	r.SetMode(USRMode)
	if got := r.GetReg(13); got != 0x1000 {
		t.Errorf("USR SP after returning from SVC = %#x, want 0x1000 (should not see SVC's bank)", got)
	}
}

func TestFIQBanksR8ThroughR12(t *testing.T) {
	r := NewRegisters()

	r.SetMode(USRMode)
	r.SetReg(8, 0xAAAA)

	r.SetMode(FIQMode)
	r.SetReg(8, 0xBBBB)
	if got := r.GetReg(8); got != 0xBBBB {
		t.Errorf("FIQ R8 = %#x, want 0xBBBB", got)
	}

	r.SetMode(USRMode)
	if got := r.GetReg(8); got != 0xAAAA {
		t.Errorf("USR R8 after returning from FIQ = %#x, want 0xAAAA (should not see FIQ's bank)", got)
	}
}

func TestR0ThroughR7AreSharedAcrossModes(t *testing.T) {
	r := NewRegisters()

	r.SetMode(USRMode)
	r.SetReg(3, 0x1234)

	r.SetMode(IRQMode)
	if got := r.GetReg(3); got != 0x1234 {
		t.Errorf("R3 in IRQ mode = %#x, want 0x1234 (R0-R7 are never banked)", got)
	}
}

func TestSPSRIsBankedAndAbsentInUserMode(t *testing.T) {
	r := NewRegisters()

	r.SetMode(SVCMode)
	r.SetSPSR(0xDEAD0000)

	r.SetMode(IRQMode)
	r.SetSPSR(0xBEEF0000)
	if got := r.GetSPSR(); got != 0xBEEF0000 {
		t.Errorf("IRQ SPSR = %#x, want 0xBEEF0000", got)
	}

	r.SetMode(SVCMode)
	if got := r.GetSPSR(); got != 0xDEAD0000 {
		t.Errorf("SVC SPSR after returning from IRQ = %#x, want 0xDEAD0000", got)
	}

	r.SetMode(USRMode)
	if got := r.GetSPSR(); got != 0 {
		t.Errorf("User-mode SPSR = %#x, want 0 (User mode has no SPSR)", got)
	}
}

func TestThumbStateRoundTrip(t *testing.T) {
	r := NewRegisters()
	r.SetThumbState(true)
	if !r.IsThumb() {
		t.Error("IsThumb() false after SetThumbState(true)")
	}
	r.SetThumbState(false)
	if r.IsThumb() {
		t.Error("IsThumb() true after SetThumbState(false)")
	}
}

func TestIRQDisabledRoundTrip(t *testing.T) {
	r := NewRegisters()
	r.SetIRQDisabled(true)
	if !r.IsIRQDisabled() {
		t.Error("IsIRQDisabled() false after SetIRQDisabled(true)")
	}
	r.SetIRQDisabled(false)
	if r.IsIRQDisabled() {
		t.Error("IsIRQDisabled() true after SetIRQDisabled(false)")
	}
}

func TestFlagsRoundTrip(t *testing.T) {
	r := NewRegisters()
	r.SetFlagN(true)
	r.SetFlagZ(true)
	r.SetFlagC(true)
	r.SetFlagV(true)
	if !(r.GetFlagN() && r.GetFlagZ() && r.GetFlagC() && r.GetFlagV()) {
		t.Error("NZCV flags not all set after setting all four")
	}
	r.SetFlagN(false)
	if r.GetFlagN() {
		t.Error("GetFlagN() true after SetFlagN(false)")
	}
}
