package vm

// CPU holds the architectural register file and program counter for one
// RV32IM hart. Register 0 is hardwired: reads always yield 0 and writes are
// silently discarded, enforced at the accessor rather than scattered through
// the executor.
type CPU struct {
	X  [32]uint32 // x0-x31; x0 is never written through SetRegister
	PC uint32

	// Insns is the retirement counter from spec.md §3: monotonic,
	// incremented once per completed Step.
	Insns uint64
}

// NewCPU returns a CPU with all registers and PC zeroed.
func NewCPU() *CPU {
	return &CPU{}
}

// Reset zeroes the register file, PC, and retirement counter.
func (c *CPU) Reset() {
	c.X = [32]uint32{}
	c.PC = 0
	c.Insns = 0
}

// GetRegister returns the value of x0-x31. Index 0 always reads 0.
func (c *CPU) GetRegister(reg int) uint32 {
	if reg == RegZero {
		return 0
	}
	return c.X[reg]
}

// SetRegister writes x1-x31. Writes to x0 are silently discarded, matching
// the RISC-V convention rather than erroring.
func (c *CPU) SetRegister(reg int, value uint32) {
	if reg == RegZero {
		return
	}
	c.X[reg] = value
}

// RegisterSnapshot captures the register file and PC for change detection.
// The trace emitter does not use it; it takes the written register from
// StepEffect.
type RegisterSnapshot struct {
	X  [32]uint32
	PC uint32
}

// Capture records the CPU's current register file and PC.
func (s *RegisterSnapshot) Capture(cpu *CPU) {
	s.X = cpu.X
	s.PC = cpu.PC
}

// ChangedRegister returns the index of the single register that differs
// between the snapshot and the CPU's current state, or -1 if none changed.
// x0 is never reported, since it cannot change.
func (s *RegisterSnapshot) ChangedRegister(cpu *CPU) int {
	for i := 1; i < 32; i++ {
		if s.X[i] != cpu.X[i] {
			return i
		}
	}
	return -1
}
