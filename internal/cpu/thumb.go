package cpu

import "goba/util/dbg"

// executeThumb decodes and runs one 16-bit Thumb instruction. Thumb has no
// per-instruction condition field (only the B<cond> format carries one), so
// dispatch is a single masked switch over the high bits, format by format.
// Where two formats' masks overlap the more specific one comes first
// (format 2 before format 1, SWI before the conditional branch).
func (c *CPU) executeThumb(instr uint16) {
	switch {
	case instr&0xF800 == 0x1800:
		c.thumbAddSub(instr)
	case instr&0xE000 == 0x0000:
		c.thumbMoveShifted(instr)
	case instr&0xE000 == 0x2000:
		c.thumbImmediate(instr)
	case instr&0xFC00 == 0x4000:
		c.thumbALU(instr)
	case instr&0xFC00 == 0x4400:
		c.thumbHiRegOps(instr)
	case instr&0xF800 == 0x4800:
		c.thumbLoadPCRelative(instr)
	case instr&0xF200 == 0x5000:
		c.thumbLoadStoreRegOffset(instr)
	case instr&0xF200 == 0x5200:
		c.thumbLoadStoreSignExtended(instr)
	case instr&0xE000 == 0x6000:
		c.thumbLoadStoreImmOffset(instr)
	case instr&0xF000 == 0x8000:
		c.thumbLoadStoreHalfword(instr)
	case instr&0xF000 == 0x9000:
		c.thumbLoadStoreSPRelative(instr)
	case instr&0xF000 == 0xA000:
		c.thumbLoadAddress(instr)
	case instr&0xFF00 == 0xB000:
		c.thumbAddOffsetToSP(instr)
	case instr&0xF600 == 0xB400:
		c.thumbPushPop(instr)
	case instr&0xF000 == 0xC000:
		c.thumbBlockTransfer(instr)
	case instr&0xFF00 == 0xDF00:
		c.thumbSWI(instr)
	case instr&0xF000 == 0xD000:
		c.thumbConditionalBranch(instr)
	case instr&0xF800 == 0xE000:
		c.thumbUnconditionalBranch(instr)
	case instr&0xF800 == 0xF000:
		c.thumbLongBranchLink(instr, true)
	case instr&0xF800 == 0xF800:
		c.thumbLongBranchLink(instr, false)
	default:
		dbg.Logf("cpu", "unhandled Thumb instruction %04X at %08X", instr, c.registers.PC-4)
	}
}

// Format 1: move shifted register. LSL/LSR/ASR Rd, Rs, #imm5.
func (c *CPU) thumbMoveShifted(instr uint16) {
	op := (instr >> 11) & 0x3
	amount := uint8((instr >> 6) & 0x1F)
	rs := uint8((instr >> 3) & 0x7)
	rd := uint8(instr & 0x7)

	value := c.registers.GetReg(rs)
	var res shiftResult
	switch op {
	case 0:
		res = applyShift(value, LSL, amount, c.registers.GetFlagC())
	case 1:
		res = applyShift(value, LSR, amount, c.registers.GetFlagC())
	default: // 2: ASR
		res = applyShift(value, ASR, amount, c.registers.GetFlagC())
	}
	c.registers.SetReg(rd, res.value)
	c.setFlagsLogical(res.value, res.carryOut)
}

// Format 2: add/subtract. ADD/SUB Rd, Rs, Rn|#imm3.
func (c *CPU) thumbAddSub(instr uint16) {
	immFlag := (instr>>10)&0x1 != 0
	subFlag := (instr>>9)&0x1 != 0
	rnOrImm := uint8((instr >> 6) & 0x7)
	rs := uint8((instr >> 3) & 0x7)
	rd := uint8(instr & 0x7)

	a := c.registers.GetReg(rs)
	var b uint32
	if immFlag {
		b = uint32(rnOrImm)
	} else {
		b = c.registers.GetReg(rnOrImm)
	}

	var result uint32
	var carry bool
	if subFlag {
		result, carry = addWithCarry(a, ^b, true)
		c.registers.SetReg(rd, result)
		c.setFlagsArithmetic(a, b, result, SUB, carry)
	} else {
		result, carry = addWithCarry(a, b, false)
		c.registers.SetReg(rd, result)
		c.setFlagsArithmetic(a, b, result, ADD, carry)
	}
}

// Format 3: MOV/CMP/ADD/SUB Rd, #imm8.
func (c *CPU) thumbImmediate(instr uint16) {
	op := (instr >> 11) & 0x3
	rd := uint8((instr >> 8) & 0x7)
	imm := uint32(instr & 0xFF)

	switch op {
	case 0: // MOV
		c.registers.SetReg(rd, imm)
		c.setFlagsLogical(imm, c.registers.GetFlagC())
	case 1: // CMP
		rn := c.registers.GetReg(rd)
		result, carry := addWithCarry(rn, ^imm, true)
		c.setFlagsArithmetic(rn, imm, result, CMP, carry)
	case 2: // ADD
		rn := c.registers.GetReg(rd)
		result, carry := addWithCarry(rn, imm, false)
		c.registers.SetReg(rd, result)
		c.setFlagsArithmetic(rn, imm, result, ADD, carry)
	default: // 3: SUB
		rn := c.registers.GetReg(rd)
		result, carry := addWithCarry(rn, ^imm, true)
		c.registers.SetReg(rd, result)
		c.setFlagsArithmetic(rn, imm, result, SUB, carry)
	}
}

// Format 4: ALU operations, Rd, Rs.
func (c *CPU) thumbALU(instr uint16) {
	op := (instr >> 6) & 0xF
	rs := uint8((instr >> 3) & 0x7)
	rd := uint8(instr & 0x7)

	a := c.registers.GetReg(rd)
	b := c.registers.GetReg(rs)
	carryIn := c.registers.GetFlagC()

	switch op {
	case 0x0: // AND
		res := a & b
		c.registers.SetReg(rd, res)
		c.setFlagsLogical(res, carryIn)
	case 0x1: // EOR
		res := a ^ b
		c.registers.SetReg(rd, res)
		c.setFlagsLogical(res, carryIn)
	case 0x2: // LSL
		r := applyShift(a, LSL, uint8(b&0xFF), carryIn)
		c.registers.SetReg(rd, r.value)
		c.setFlagsLogical(r.value, r.carryOut)
	case 0x3: // LSR
		r := applyShift(a, LSR, uint8(b&0xFF), carryIn)
		c.registers.SetReg(rd, r.value)
		c.setFlagsLogical(r.value, r.carryOut)
	case 0x4: // ASR
		r := applyShift(a, ASR, uint8(b&0xFF), carryIn)
		c.registers.SetReg(rd, r.value)
		c.setFlagsLogical(r.value, r.carryOut)
	case 0x5: // ADC
		res, carry := addWithCarry(a, b, carryIn)
		c.registers.SetReg(rd, res)
		c.setFlagsArithmetic(a, b, res, ADC, carry)
	case 0x6: // SBC
		res, carry := addWithCarry(a, ^b, carryIn)
		c.registers.SetReg(rd, res)
		c.setFlagsArithmetic(a, b, res, SBC, carry)
	case 0x7: // ROR
		r := applyShift(a, ROR, uint8(b&0xFF), carryIn)
		c.registers.SetReg(rd, r.value)
		c.setFlagsLogical(r.value, r.carryOut)
	case 0x8: // TST
		res := a & b
		c.setFlagsLogical(res, carryIn)
	case 0x9: // NEG
		res, carry := addWithCarry(0, ^b, true)
		c.registers.SetReg(rd, res)
		c.setFlagsArithmetic(0, b, res, SUB, carry)
	case 0xA: // CMP
		res, carry := addWithCarry(a, ^b, true)
		c.setFlagsArithmetic(a, b, res, CMP, carry)
	case 0xB: // CMN
		res, carry := addWithCarry(a, b, false)
		c.setFlagsArithmetic(a, b, res, CMN, carry)
	case 0xC: // ORR
		res := a | b
		c.registers.SetReg(rd, res)
		c.setFlagsLogical(res, carryIn)
	case 0xD: // MUL
		res := a * b
		c.registers.SetReg(rd, res)
		c.setFlagsLogical(res, carryIn)
	case 0xE: // BIC
		res := a &^ b
		c.registers.SetReg(rd, res)
		c.setFlagsLogical(res, carryIn)
	default: // 0xF: MVN
		res := ^b
		c.registers.SetReg(rd, res)
		c.setFlagsLogical(res, carryIn)
	}
}

// Format 5: hi register operations / branch exchange.
func (c *CPU) thumbHiRegOps(instr uint16) {
	op := (instr >> 8) & 0x3
	h1 := (instr>>7)&0x1 != 0
	h2 := (instr>>6)&0x1 != 0
	rs := uint8((instr >> 3) & 0x7)
	rd := uint8(instr & 0x7)
	if h1 {
		rd += 8
	}
	if h2 {
		rs += 8
	}

	switch op {
	case 0: // ADD
		res, _ := addWithCarry(c.registers.GetReg(rd), c.registers.GetReg(rs), false)
		if rd == 15 {
			c.branchTo(res, true)
		} else {
			c.registers.SetReg(rd, res)
		}
	case 1: // CMP
		a := c.registers.GetReg(rd)
		b := c.registers.GetReg(rs)
		res, carry := addWithCarry(a, ^b, true)
		c.setFlagsArithmetic(a, b, res, CMP, carry)
	case 2: // MOV
		value := c.registers.GetReg(rs)
		if rd == 15 {
			c.branchTo(value, true)
		} else {
			c.registers.SetReg(rd, value)
		}
	default: // 3: BX/BLX
		target := c.registers.GetReg(rs)
		c.branchTo(target, target&1 != 0)
	}
}

// Format 6: PC-relative load. LDR Rd, [PC, #imm8*4].
func (c *CPU) thumbLoadPCRelative(instr uint16) {
	rd := uint8((instr >> 8) & 0x7)
	imm := uint32(instr&0xFF) * 4
	base := (c.registers.PC &^ 3) + imm
	c.registers.SetReg(rd, c.bus.Read32(base))
}

// Format 7: load/store with register offset.
func (c *CPU) thumbLoadStoreRegOffset(instr uint16) {
	l := (instr>>11)&0x1 != 0
	b := (instr>>10)&0x1 != 0
	ro := uint8((instr >> 6) & 0x7)
	rb := uint8((instr >> 3) & 0x7)
	rd := uint8(instr & 0x7)

	addr := c.registers.GetReg(rb) + c.registers.GetReg(ro)
	switch {
	case l && b:
		c.registers.SetReg(rd, uint32(c.bus.Read8(addr)))
	case l && !b:
		c.registers.SetReg(rd, readRotated32(c.bus, addr))
	case !l && b:
		c.bus.Write8(addr, uint8(c.registers.GetReg(rd)))
	default:
		c.bus.Write32(addr&^3, c.registers.GetReg(rd))
	}
}

// Format 8: load/store sign-extended byte/halfword.
func (c *CPU) thumbLoadStoreSignExtended(instr uint16) {
	hFlag := (instr>>11)&0x1 != 0
	signFlag := (instr>>10)&0x1 != 0
	ro := uint8((instr >> 6) & 0x7)
	rb := uint8((instr >> 3) & 0x7)
	rd := uint8(instr & 0x7)

	addr := c.registers.GetReg(rb) + c.registers.GetReg(ro)
	switch {
	case !signFlag && !hFlag: // STRH
		c.bus.Write16(addr&^1, uint16(c.registers.GetReg(rd)))
	case !signFlag && hFlag: // LDRH
		c.registers.SetReg(rd, uint32(c.bus.Read16(addr&^1)))
	case signFlag && !hFlag: // LDSB
		c.registers.SetReg(rd, uint32(int32(int8(c.bus.Read8(addr)))))
	default: // LDSH
		c.registers.SetReg(rd, uint32(int32(int16(c.bus.Read16(addr&^1)))))
	}
}

// Format 9: load/store with immediate offset.
func (c *CPU) thumbLoadStoreImmOffset(instr uint16) {
	b := (instr>>12)&0x1 != 0
	l := (instr>>11)&0x1 != 0
	imm := uint32((instr >> 6) & 0x1F)
	rb := uint8((instr >> 3) & 0x7)
	rd := uint8(instr & 0x7)

	var addr uint32
	if b {
		addr = c.registers.GetReg(rb) + imm
	} else {
		addr = c.registers.GetReg(rb) + imm*4
	}

	switch {
	case l && b:
		c.registers.SetReg(rd, uint32(c.bus.Read8(addr)))
	case l && !b:
		c.registers.SetReg(rd, readRotated32(c.bus, addr))
	case !l && b:
		c.bus.Write8(addr, uint8(c.registers.GetReg(rd)))
	default:
		c.bus.Write32(addr&^3, c.registers.GetReg(rd))
	}
}

// Format 10: load/store halfword with immediate offset.
func (c *CPU) thumbLoadStoreHalfword(instr uint16) {
	l := (instr>>11)&0x1 != 0
	imm := uint32((instr>>6)&0x1F) * 2
	rb := uint8((instr >> 3) & 0x7)
	rd := uint8(instr & 0x7)

	addr := c.registers.GetReg(rb) + imm
	if l {
		c.registers.SetReg(rd, uint32(c.bus.Read16(addr&^1)))
	} else {
		c.bus.Write16(addr&^1, uint16(c.registers.GetReg(rd)))
	}
}

// Format 11: SP-relative load/store.
func (c *CPU) thumbLoadStoreSPRelative(instr uint16) {
	l := (instr>>11)&0x1 != 0
	rd := uint8((instr >> 8) & 0x7)
	imm := uint32(instr&0xFF) * 4

	addr := c.registers.GetReg(13) + imm
	if l {
		c.registers.SetReg(rd, readRotated32(c.bus, addr))
	} else {
		c.bus.Write32(addr&^3, c.registers.GetReg(rd))
	}
}

// Format 12: load address, ADD Rd, PC|SP, #imm8*4.
func (c *CPU) thumbLoadAddress(instr uint16) {
	sp := (instr>>11)&0x1 != 0
	rd := uint8((instr >> 8) & 0x7)
	imm := uint32(instr&0xFF) * 4

	var base uint32
	if sp {
		base = c.registers.GetReg(13)
	} else {
		base = c.registers.PC &^ 3
	}
	c.registers.SetReg(rd, base+imm)
}

// Format 13: ADD/SUB SP, #imm7*4.
func (c *CPU) thumbAddOffsetToSP(instr uint16) {
	sign := (instr>>7)&0x1 != 0
	imm := uint32(instr&0x7F) * 4
	sp := c.registers.GetReg(13)
	if sign {
		c.registers.SetReg(13, sp-imm)
	} else {
		c.registers.SetReg(13, sp+imm)
	}
}

// Format 14: PUSH/POP, with optional LR/PC.
func (c *CPU) thumbPushPop(instr uint16) {
	l := (instr>>11)&0x1 != 0
	pclr := (instr>>8)&0x1 != 0
	list := instr & 0xFF

	sp := c.registers.GetReg(13)
	if l {
		addr := sp
		for i := uint8(0); i < 8; i++ {
			if list&(1<<i) != 0 {
				c.registers.SetReg(i, c.bus.Read32(addr))
				addr += 4
			}
		}
		if pclr {
			target := c.bus.Read32(addr)
			addr += 4
			c.branchTo(target, true)
		}
		c.registers.SetReg(13, addr)
	} else {
		count := popcount8(uint8(list))
		if pclr {
			count++
		}
		addr := sp - uint32(count)*4
		c.registers.SetReg(13, addr)
		for i := uint8(0); i < 8; i++ {
			if list&(1<<i) != 0 {
				c.bus.Write32(addr, c.registers.GetReg(i))
				addr += 4
			}
		}
		if pclr {
			c.bus.Write32(addr, c.registers.GetReg(14))
		}
	}
}

func popcount8(v uint8) int {
	n := 0
	for v != 0 {
		n += int(v & 1)
		v >>= 1
	}
	return n
}

// Format 15: multiple load/store, STMIA/LDMIA Rb!, {list}.
func (c *CPU) thumbBlockTransfer(instr uint16) {
	l := (instr>>11)&0x1 != 0
	rb := uint8((instr >> 8) & 0x7)
	list := instr & 0xFF

	addr := c.registers.GetReg(rb)
	for i := uint8(0); i < 8; i++ {
		if list&(1<<i) != 0 {
			if l {
				c.registers.SetReg(i, c.bus.Read32(addr))
			} else {
				c.bus.Write32(addr, c.registers.GetReg(i))
			}
			addr += 4
		}
	}
	c.registers.SetReg(rb, addr)
}

// Format 17: SWI.
func (c *CPU) thumbSWI(instr uint16) {
	c.serviceSWI(uint32(instr & 0xFF))
}

// Format 16: conditional branch.
func (c *CPU) thumbConditionalBranch(instr uint16) {
	cond := ARMCondition((instr >> 8) & 0xF)
	if !c.checkCondition_Arm(cond) {
		return
	}
	offset := int32(int8(instr & 0xFF))
	target := uint32(int32(c.registers.PC) + offset*2)
	c.branchTo(target, true)
}

// Format 18: unconditional branch.
func (c *CPU) thumbUnconditionalBranch(instr uint16) {
	raw := instr & 0x7FF
	offset := int32(raw << 1)
	if raw&0x400 != 0 {
		offset -= 0x1000
	}
	target := uint32(int32(c.registers.PC) + offset)
	c.branchTo(target, true)
}

// Format 19: long branch with link, a two-instruction sequence. The first
// half (high=true) stashes PC+(offset<<12) in LR; the second half computes
// the final target from LR and sets LR to the Thumb-interworking return
// address, per the standard BL/BLX encoding.
func (c *CPU) thumbLongBranchLink(instr uint16, high bool) {
	offset := uint32(instr & 0x7FF)
	if high {
		signed := int32(offset << 21) >> 9 // sign-extend the 11-bit field to bit 22
		lr := uint32(int32(c.registers.PC) + signed)
		c.registers.SetReg(14, lr)
		return
	}
	lr := c.registers.GetReg(14)
	target := lr + offset<<1
	nextInstr := c.registers.PC - 2
	c.registers.SetReg(14, nextInstr|1)
	c.branchTo(target, true)
}
