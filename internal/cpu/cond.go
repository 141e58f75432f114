package cpu

// conditionTable maps each of the 16 ARM condition codes to a predicate over
// the NZCV flags, replacing a 16-way if/else chain with a lookup, in the
// compact-dispatch style the teacher uses for decode.
var conditionTable = [16]func(n, z, c, v bool) bool{
	EQ: func(n, z, c, v bool) bool { return z },
	NE: func(n, z, c, v bool) bool { return !z },
	CS: func(n, z, c, v bool) bool { return c },
	CC: func(n, z, c, v bool) bool { return !c },
	MI: func(n, z, c, v bool) bool { return n },
	PL: func(n, z, c, v bool) bool { return !n },
	VS: func(n, z, c, v bool) bool { return v },
	VC: func(n, z, c, v bool) bool { return !v },
	HI: func(n, z, c, v bool) bool { return c && !z },
	LS: func(n, z, c, v bool) bool { return !c || z },
	GE: func(n, z, c, v bool) bool { return n == v },
	LT: func(n, z, c, v bool) bool { return n != v },
	GT: func(n, z, c, v bool) bool { return !z && n == v },
	LE: func(n, z, c, v bool) bool { return z || n != v },
	AL: func(n, z, c, v bool) bool { return true },
	NV: func(n, z, c, v bool) bool { return false },
}

// checkCondition_Arm evaluates an instruction's condition field against the
// current CPSR flags.
func (c *CPU) checkCondition_Arm(cond ARMCondition) bool {
	n := c.registers.GetFlagN()
	z := c.registers.GetFlagZ()
	ca := c.registers.GetFlagC()
	v := c.registers.GetFlagV()
	return conditionTable[cond&0xF](n, z, ca, v)
}
