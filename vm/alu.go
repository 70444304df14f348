package vm

// aluOp computes the OP/OP-IMM integer result shared by both opcodes: given
// the two operands (rs1 and either rs2 or the I-immediate) and the
// funct3/funct7 pair, return the result written to rd. shamt is the shift
// amount already masked to 5 bits by the caller: the low 5 bits of the rs2
// value for OP, or of the immediate for OP-IMM.
func aluOp(funct3 uint32, altFunct7 bool, a, b uint32, shamt uint32) uint32 {
	switch funct3 {
	case Funct3ADDSUB:
		if altFunct7 {
			return a - b
		}
		return a + b
	case Funct3SLL:
		return a << (shamt & 0x1F)
	case Funct3SLT:
		if int32(a) < int32(b) {
			return 1
		}
		return 0
	case Funct3SLTU:
		if a < b {
			return 1
		}
		return 0
	case Funct3XOR:
		return a ^ b
	case Funct3SRLSRA:
		sh := shamt & 0x1F
		if altFunct7 {
			return uint32(int32(a) >> sh) // arithmetic: sign-preserving
		}
		return a >> sh // logical
	case Funct3OR:
		return a | b
	case Funct3AND:
		return a & b
	default:
		return 0
	}
}

// executeOp implements opcode OP (0x33): register-register ALU and the
// M-extension when funct7 == Funct7MExt.
func (vm *Machine) executeOp(d Decoded) error {
	a := vm.CPU.GetRegister(d.RS1)
	b := vm.CPU.GetRegister(d.RS2)

	if d.Funct7 == Funct7MExt {
		result, err := mulDiv(d.Funct3, a, b)
		if err != nil {
			return err
		}
		vm.CPU.SetRegister(d.RD, result)
		return nil
	}

	altFunct7 := d.Funct7 == Funct7Alt
	result := aluOp(d.Funct3, altFunct7, a, b, b&0x1F)
	vm.CPU.SetRegister(d.RD, result)
	return nil
}

// executeOpImm implements opcode OP-IMM (0x13): same ALU semantics as OP
// with rs2 replaced by the sign-extended immediate. Shift variants take the
// shift amount from the immediate's low 5 bits and use funct7 (bit 30 of
// the raw word) to distinguish srli/srai exactly as OP distinguishes
// srl/sra.
func (vm *Machine) executeOpImm(d Decoded) error {
	a := vm.CPU.GetRegister(d.RS1)
	imm := uint32(d.Imm)

	altFunct7 := d.Funct3 == Funct3SRLSRA && d.Funct7 == Funct7Alt
	result := aluOp(d.Funct3, altFunct7, a, imm, d.Shamt())
	vm.CPU.SetRegister(d.RD, result)
	return nil
}

// executeLUI implements opcode LUI (0x37): write the 20-bit immediate
// (already shifted into bits 31..12 by Decode) into rd.
func (vm *Machine) executeLUI(d Decoded) error {
	vm.CPU.SetRegister(d.RD, uint32(d.Imm))
	return nil
}

// executeAUIPC implements opcode AUIPC (0x17): rd = current_pc + imm.
func (vm *Machine) executeAUIPC(d Decoded) error {
	vm.CPU.SetRegister(d.RD, d.Address+uint32(d.Imm))
	return nil
}
