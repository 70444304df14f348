package vm

// BranchOutcome reports a conditional branch's resolved direction and
// target for the driver to feed into the branch predictor's update call.
type BranchOutcome struct {
	Taken  bool
	Target uint32
}

// executeBranch implements opcode BRANCH (0x63). It returns the outcome so
// the driver can consult the predictor; PC is set directly here since the
// executor owns architectural state, while the predictor update happens in
// the driver loop (spec.md §4.5) using the returned outcome.
func (vm *Machine) executeBranch(d Decoded) (BranchOutcome, error) {
	a := vm.CPU.GetRegister(d.RS1)
	b := vm.CPU.GetRegister(d.RS2)
	target := d.Address + uint32(d.Imm)

	var taken bool
	switch d.Funct3 {
	case Funct3BEQ:
		taken = a == b
	case Funct3BNE:
		taken = a != b
	case Funct3BLT:
		taken = int32(a) < int32(b)
	case Funct3BGE:
		taken = int32(a) >= int32(b)
	case Funct3BLTU:
		taken = a < b
	case Funct3BGEU:
		taken = a >= b
	default:
		return BranchOutcome{}, unknownFunct3Error(d)
	}

	if taken {
		vm.CPU.PC = target
	}
	return BranchOutcome{Taken: taken, Target: target}, nil
}

// executeJAL implements opcode JAL (0x6F): link then jump.
func (vm *Machine) executeJAL(d Decoded) error {
	vm.CPU.SetRegister(d.RD, d.Address+4)
	vm.CPU.PC = d.Address + uint32(d.Imm)
	return nil
}

// executeJALR implements opcode JALR (0x67): compute the target from rs1 +
// imm with bit 0 cleared, link, then jump. The link write happens before
// the jump in program order but after the target is computed from the
// pre-write value of rs1, so `jalr x1, 0(x1)` behaves per spec.
func (vm *Machine) executeJALR(d Decoded) error {
	target := (vm.CPU.GetRegister(d.RS1) + uint32(d.Imm)) &^ 1
	vm.CPU.SetRegister(d.RD, d.Address+4)
	vm.CPU.PC = target
	return nil
}
