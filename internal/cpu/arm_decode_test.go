package cpu

import "testing"

func TestDecodeMovImmediate(t *testing.T) {
	// MOV R0, #42 (0x2A), always executed: 0xE3A0002A
	inst, ok := decodeArm(0xE3A0002A).(ARMDataProcessingInstruction)
	if !ok {
		t.Fatalf("decodeArm(0xE3A0002A) = %#v, want ARMDataProcessingInstruction", decodeArm(0xE3A0002A))
	}
	if inst.Cond != AL {
		t.Errorf("Cond = %#x, want AL", inst.Cond)
	}
	if !inst.I {
		t.Error("I (immediate) bit not set")
	}
	if inst.Opcode != MOV {
		t.Errorf("Opcode = %#x, want MOV", inst.Opcode)
	}
	if inst.Rd != 0 {
		t.Errorf("Rd = %d, want 0", inst.Rd)
	}
	if inst.Nn != 42 {
		t.Errorf("Nn = %d, want 42", inst.Nn)
	}
	if inst.Is != 0 {
		t.Errorf("Is (rotate) = %d, want 0", inst.Is)
	}
}

func TestDecodeAddImmediate(t *testing.T) {
	// ADD R1, R0, #10: 0xE280100A
	inst, ok := decodeArm(0xE280100A).(ARMDataProcessingInstruction)
	if !ok {
		t.Fatalf("decodeArm(0xE280100A) not a data-processing instruction")
	}
	if inst.Opcode != ADD {
		t.Errorf("Opcode = %#x, want ADD", inst.Opcode)
	}
	if inst.Rn != 0 {
		t.Errorf("Rn = %d, want 0", inst.Rn)
	}
	if inst.Rd != 1 {
		t.Errorf("Rd = %d, want 1", inst.Rd)
	}
	if inst.Nn != 10 {
		t.Errorf("Nn = %d, want 10", inst.Nn)
	}
}

func TestDecodeBranchExchange(t *testing.T) {
	// BX R0: cond=AL, 0xE12FFF10
	inst, ok := decodeArm(0xE12FFF10).(ARMBranchExchangeInstruction)
	if !ok {
		t.Fatalf("decodeArm(0xE12FFF10) not a branch-exchange instruction")
	}
	if inst.Rn != 0 {
		t.Errorf("Rn = %d, want 0", inst.Rn)
	}
}

func TestDecodeMultiply(t *testing.T) {
	// MUL R0, R1, R2 (Rd=0, Rm=1, Rs=2): cond=AL 000000 A=0 S=0 Rd Rn=0000 Rs 1001 Rm
	inst, ok := decodeArm(0xE0000291).(ARMMultiplyInstruction)
	if !ok {
		t.Fatalf("decodeArm(0xE0000291) = %#v, want ARMMultiplyInstruction", decodeArm(0xE0000291))
	}
	if inst.Rd != 0 || inst.Rs != 2 || inst.Rm != 1 {
		t.Errorf("Rd/Rs/Rm = %d/%d/%d, want 0/2/1", inst.Rd, inst.Rs, inst.Rm)
	}
}

func TestDecodeConditionField(t *testing.T) {
	// Same MOV encoding but with EQ condition instead of AL.
	inst := decodeArm(0x03A0002A).(ARMDataProcessingInstruction)
	if inst.Cond != EQ {
		t.Errorf("Cond = %#x, want EQ", inst.Cond)
	}
}
