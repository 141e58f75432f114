package cpu

import "goba/util/dbg"

// execute_Arm decodes and dispatches one ARM-state instruction already
// fetched by Step. The
// condition field is checked once here, up front, so every exec* helper
// below can assume it is allowed to run.
func (c *CPU) execute_Arm(instruction uint32) {
	cond := ARMCondition((instruction >> 28) & 0x0F)
	if !c.checkCondition_Arm(cond) {
		return
	}

	switch inst := decodeArm(instruction).(type) {
	case ARMDataProcessingInstruction:
		c.execArmDataProcessing(inst)
	case ARMMultiplyInstruction:
		c.execArmMultiply(inst)
	case ARMMultiplyLongInstruction:
		c.execArmMultiplyLong(inst)
	case ARMSingleDataSwapInstruction:
		c.execArmSwap(inst)
	case ARMHalfwordTransferInstruction:
		c.execArmHalfwordTransfer(inst)
	case ARMPSRTransferInstruction:
		c.execArmPSRTransfer(inst)
	case ARMBranchExchangeInstruction:
		c.execArmBranchExchange(inst)
	case ARMLoadStoreInstruction:
		c.execArmLoadStore(inst)
	case ARMBlockDataTransferInstruction:
		c.execArmBlockDataTransfer(inst)
	case ARMBranchInstruction:
		c.execArmBranch(inst)
	case ARMSWIInstruction:
		c.execArmSWI(inst)
	case ARMUndefinedInstruction:
		c.execArmUndefined(inst)
	default:
		dbg.Logf("cpu", "unhandled ARM decode result %#v", inst)
	}
}

// operand2 evaluates a data-processing second operand, returning its value
// and the shifter carry-out.
func (c *CPU) operand2(inst ARMDataProcessingInstruction) (uint32, bool) {
	carryIn := c.registers.GetFlagC()
	if inst.I {
		if inst.Is == 0 {
			return uint32(inst.Nn), carryIn
		}
		res := applyShift(uint32(inst.Nn), ROR, inst.Is*2, carryIn)
		return res.value, res.carryOut
	}
	rm := c.registers.GetReg(inst.Rm)
	var amount uint8
	if inst.R {
		amount = uint8(c.registers.GetReg(inst.Rs) & 0xFF)
		if amount == 0 {
			return rm, carryIn
		}
	} else {
		amount = inst.Is
	}
	res := applyShift(rm, inst.ShiftType, amount, carryIn)
	return res.value, res.carryOut
}

func (c *CPU) execArmDataProcessing(inst ARMDataProcessingInstruction) {
	rn := c.registers.GetReg(inst.Rn)
	op2, shiftCarry := c.operand2(inst)

	var result uint32
	writesResult := true
	carryOut := shiftCarry

	switch inst.Opcode {
	case AND:
		result = rn & op2
	case EOR:
		result = rn ^ op2
	case SUB:
		result, carryOut = addWithCarry(rn, ^op2, true)
	case RSB:
		result, carryOut = addWithCarry(op2, ^rn, true)
	case ADD:
		result, carryOut = addWithCarry(rn, op2, false)
	case ADC:
		result, carryOut = addWithCarry(rn, op2, c.registers.GetFlagC())
	case SBC:
		result, carryOut = addWithCarry(rn, ^op2, c.registers.GetFlagC())
	case RSC:
		result, carryOut = addWithCarry(op2, ^rn, c.registers.GetFlagC())
	case TST:
		result = rn & op2
		writesResult = false
	case TEQ:
		result = rn ^ op2
		writesResult = false
	case CMP:
		result, carryOut = addWithCarry(rn, ^op2, true)
		writesResult = false
	case CMN:
		result, carryOut = addWithCarry(rn, op2, false)
		writesResult = false
	case ORR:
		result = rn | op2
	case MOV:
		result = op2
	case BIC:
		result = rn &^ op2
	case MVN:
		result = ^op2
	}

	if writesResult {
		if inst.Rd == 15 {
			if inst.S {
				// MOVS/ADDS/... PC,... is the standard exception-return
				// idiom: restore CPSR from SPSR, then branch.
				c.registers.LeaveException(result &^ 3)
				c.branchTo(result, c.registers.IsThumb())
				return
			}
			c.branchTo(result, c.registers.IsThumb())
			return
		}
		c.registers.SetReg(inst.Rd, result)
	}

	if inst.S {
		switch inst.Opcode {
		case ADD, ADC, SUB, SBC, RSB, RSC, CMP, CMN:
			c.setFlagsArithmetic(rn, op2, result, inst.Opcode, carryOut)
		default:
			c.setFlagsLogical(result, carryOut)
		}
	}
}

func (c *CPU) execArmMultiply(inst ARMMultiplyInstruction) {
	rm := c.registers.GetReg(inst.Rm)
	rs := c.registers.GetReg(inst.Rs)
	result := rm * rs
	if inst.A {
		result += c.registers.GetReg(inst.Rn)
	}
	c.registers.SetReg(inst.Rd, result)
	if inst.S {
		c.registers.SetFlagN(result&0x80000000 != 0)
		c.registers.SetFlagZ(result == 0)
	}
}

func (c *CPU) execArmMultiplyLong(inst ARMMultiplyLongInstruction) {
	rm := c.registers.GetReg(inst.Rm)
	rs := c.registers.GetReg(inst.Rs)

	var result uint64
	if inst.U {
		result = uint64(int64(int32(rm)) * int64(int32(rs)))
	} else {
		result = uint64(rm) * uint64(rs)
	}
	if inst.A {
		acc := uint64(c.registers.GetReg(inst.RdHi))<<32 | uint64(c.registers.GetReg(inst.RdLo))
		result += acc
	}
	c.registers.SetReg(inst.RdLo, uint32(result))
	c.registers.SetReg(inst.RdHi, uint32(result>>32))
	if inst.S {
		c.registers.SetFlagN(result&0x8000000000000000 != 0)
		c.registers.SetFlagZ(result == 0)
	}
}

func (c *CPU) execArmSwap(inst ARMSingleDataSwapInstruction) {
	addr := c.registers.GetReg(inst.Rn)
	if inst.B {
		old := c.bus.Read8(addr)
		c.bus.Write8(addr, uint8(c.registers.GetReg(inst.Rm)))
		c.registers.SetReg(inst.Rd, uint32(old))
	} else {
		old := readRotated32(c.bus, addr)
		c.bus.Write32(addr, c.registers.GetReg(inst.Rm))
		c.registers.SetReg(inst.Rd, old)
	}
}

func (c *CPU) execArmHalfwordTransfer(inst ARMHalfwordTransferInstruction) {
	var offset uint32
	if inst.I {
		offset = uint32(inst.OffsetHi)<<4 | uint32(inst.OffsetLo)
	} else {
		offset = c.registers.GetReg(inst.Rm)
	}
	base := c.registers.GetReg(inst.Rn)
	addr := base
	if inst.P {
		if inst.U {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}

	if inst.L {
		var value uint32
		switch {
		case inst.Signed && inst.Half:
			value = uint32(int32(int16(c.bus.Read16(addr))))
		case inst.Signed && !inst.Half:
			value = uint32(int32(int8(c.bus.Read8(addr))))
		default:
			value = uint32(c.bus.Read16(addr))
		}
		c.setLoadedReg(inst.Rd, value)
	} else {
		c.bus.Write16(addr, uint16(c.registers.GetReg(inst.Rd)))
	}

	if !inst.P {
		if inst.U {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}
	if (!inst.P || inst.W) && inst.Rn != 15 {
		c.registers.SetReg(inst.Rn, addr)
	}
}

func (c *CPU) execArmPSRTransfer(inst ARMPSRTransferInstruction) {
	if inst.MRS {
		if inst.ToSPSR {
			c.registers.SetReg(inst.Rd, c.registers.GetSPSR())
		} else {
			c.registers.SetReg(inst.Rd, c.registers.CPSR)
		}
		return
	}

	var operand uint32
	if inst.I {
		res := applyShift(uint32(inst.Nn), ROR, inst.RotateImm*2, c.registers.GetFlagC())
		operand = res.value
	} else {
		operand = c.registers.GetReg(inst.Rm)
	}

	mask := uint32(0)
	if inst.FieldMask&0x1 != 0 {
		mask |= 0x000000FF // control field (mode/T/I/F)
	}
	if inst.FieldMask&0x2 != 0 {
		mask |= 0x0000FF00 // extension
	}
	if inst.FieldMask&0x4 != 0 {
		mask |= 0x00FF0000 // status
	}
	if inst.FieldMask&0x8 != 0 {
		mask |= 0xFF000000 // flags
	}

	if inst.ToSPSR {
		spsr := (c.registers.GetSPSR() &^ mask) | (operand & mask)
		c.registers.SetSPSR(spsr)
		return
	}

	// In User mode only the flag byte is writable regardless of mask.
	if c.registers.GetMode() == USRMode {
		mask &= 0xFF000000
	}
	cpsr := (c.registers.CPSR &^ mask) | (operand & mask)
	newMode := uint8(cpsr & 0x1F)
	if newMode != c.registers.GetMode() {
		c.registers.CPSR = cpsr
		c.registers.SetMode(newMode)
	} else {
		c.registers.CPSR = cpsr
	}
}

func (c *CPU) execArmBranchExchange(inst ARMBranchExchangeInstruction) {
	target := c.registers.GetReg(inst.Rn)
	thumb := target&1 != 0
	c.branchTo(target, thumb)
}

func (c *CPU) execArmLoadStore(inst ARMLoadStoreInstruction) {
	var offset uint32
	if inst.I {
		res := applyShift(c.registers.GetReg(inst.Rm), inst.ShiftType, inst.ShiftAmt, c.registers.GetFlagC())
		offset = res.value
	} else {
		offset = inst.Offset
	}

	base := c.registers.GetReg(inst.Rn)
	addr := base
	if inst.P {
		if inst.U {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}

	if inst.L {
		var value uint32
		if inst.B {
			value = uint32(c.bus.Read8(addr))
		} else {
			value = readRotated32(c.bus, addr)
		}
		c.setLoadedReg(inst.Rd, value)
	} else {
		value := c.registers.GetReg(inst.Rd)
		if inst.Rd == 15 {
			// The real ARM7TDMI's extra internal cycle for a register-sourced
			// store means R15 reads as PC+12 here rather than the usual PC+8
			// every other operand read sees.
			value += 4
		}
		if inst.B {
			c.bus.Write8(addr, uint8(value))
		} else {
			c.bus.Write32(addr, value)
		}
	}

	if !inst.P {
		if inst.U {
			addr = base + offset
		} else {
			addr = base - offset
		}
	}
	if (!inst.P || inst.W) && !(inst.L && inst.Rd == inst.Rn) {
		c.registers.SetReg(inst.Rn, addr)
	}
}

func (c *CPU) setLoadedReg(reg uint8, value uint32) {
	if reg == 15 {
		c.branchTo(value, c.registers.IsThumb())
		return
	}
	c.registers.SetReg(reg, value)
}

// readRotated32 implements the ARM unaligned-word-read rule: the word at
// the aligned address is fetched, then rotated right by 8 bits for every
// byte of misalignment in the requested address.
func readRotated32(bus Bus, addr uint32) uint32 {
	value := bus.Read32(addr &^ 3)
	rotate := (addr & 3) * 8
	if rotate == 0 {
		return value
	}
	res := applyShift(value, ROR, uint8(rotate), false)
	return res.value
}

func (c *CPU) execArmBlockDataTransfer(inst ARMBlockDataTransferInstruction) {
	base := c.registers.GetReg(inst.Rn)

	var regs []uint8
	for i := uint8(0); i < 16; i++ {
		if inst.RegisterList&(1<<i) != 0 {
			regs = append(regs, i)
		}
	}

	count := uint32(len(regs))
	if count == 0 {
		count = 16 // empty-list edge case: no register is transferred, but the base still moves by 0x40
	}

	start := base
	if !inst.U {
		start = base - count*4
		if !inst.P {
			start += 4
		}
	} else if inst.P {
		start += 4
	}

	// useUserBank applies to S=1 STM always, and to S=1 LDM only when PC is
	// not in the register list (LDM with PC in the list and S=1 instead
	// restores CPSR from SPSR as part of the transfer).
	useUserBank := inst.S && !(inst.L && inst.RegisterList&0x8000 != 0)

	cur := start
	for _, r := range regs {
		if inst.L {
			value := c.bus.Read32(cur &^ 3)
			switch {
			case useUserBank:
				setUserReg(c.registers, r, value)
			case r == 15:
				if inst.S {
					c.registers.LeaveException(value &^ 3)
					c.branchTo(value, c.registers.IsThumb())
				} else {
					c.branchTo(value, c.registers.IsThumb())
				}
			default:
				c.registers.SetReg(r, value)
			}
		} else {
			var value uint32
			if useUserBank {
				value = getUserReg(c.registers, r)
			} else {
				value = c.registers.GetReg(r)
			}
			c.bus.Write32(cur&^3, value)
		}
		cur += 4
	}

	if inst.W && inst.Rn != 15 {
		if inst.U {
			c.registers.SetReg(inst.Rn, base+count*4)
		} else {
			c.registers.SetReg(inst.Rn, base-count*4)
		}
	}
}

// getUserReg/setUserReg bypass the current mode's banking to always touch
// the User-mode copy of a register, for S-bit LDM/STM.
func getUserReg(r *Registers, reg uint8) uint32 {
	switch {
	case reg == 13:
		return r.SP_usr
	case reg == 14:
		return r.LR_usr
	case reg == 15:
		return r.PC
	case reg >= 8 && reg <= 12 && r.GetMode() == FIQMode:
		switch reg {
		case 8:
			return r.R8_fiq
		case 9:
			return r.R9_fiq
		case 10:
			return r.R10_fiq
		case 11:
			return r.R11_fiq
		default:
			return r.R12_fiq
		}
	default:
		return r.R[reg]
	}
}

func setUserReg(r *Registers, reg uint8, value uint32) {
	switch {
	case reg == 13:
		r.SP_usr = value
	case reg == 14:
		r.LR_usr = value
	case reg == 15:
		r.PC = value
	case reg >= 8 && reg <= 12 && r.GetMode() == FIQMode:
		switch reg {
		case 8:
			r.R8_fiq = value
		case 9:
			r.R9_fiq = value
		case 10:
			r.R10_fiq = value
		case 11:
			r.R11_fiq = value
		default:
			r.R12_fiq = value
		}
	default:
		r.R[reg] = value
	}
}

func (c *CPU) execArmBranch(inst ARMBranchInstruction) {
	if inst.Link {
		c.registers.SetReg(14, c.registers.PC-4)
	}
	target := c.registers.PC + inst.TargetAddr
	c.branchTo(target, false)
}

func (c *CPU) execArmSWI(inst ARMSWIInstruction) {
	c.serviceSWI(inst.Immediate >> 16)
}

func (c *CPU) execArmUndefined(inst ARMUndefinedInstruction) {
	dbg.Logf("cpu", "undefined ARM instruction at %08X", c.registers.PC-8)
	c.registers.EnterException(vectorUndefined, UNDMode, c.registers.PC-4, false)
	c.FlushPipeline()
}
