package vm

// StoreEffect reports a completed store's address and stored value for the
// trace emitter's M[addr] <- value annotation.
type StoreEffect struct {
	Address uint32
	Value   uint32
	Size    int // 1, 2, or 4 bytes
}

// executeLoad implements opcode LOAD (0x03). addr = rs1 + imm, with
// uint32 wrap-around on overflow handled implicitly by Go's unsigned
// arithmetic.
func (vm *Machine) executeLoad(d Decoded) error {
	addr := vm.CPU.GetRegister(d.RS1) + uint32(d.Imm)

	var value uint32
	switch d.Funct3 {
	case Funct3LB:
		value = uint32(int32(int8(vm.Memory.ReadByte(addr))))
	case Funct3LH:
		value = uint32(int32(int16(vm.Memory.ReadHalfword(addr))))
	case Funct3LW:
		value = vm.Memory.ReadWord(addr)
	case Funct3LBU:
		value = uint32(vm.Memory.ReadByte(addr))
	case Funct3LHU:
		value = uint32(vm.Memory.ReadHalfword(addr))
	default:
		return unknownFunct3Error(d)
	}

	vm.CPU.SetRegister(d.RD, value)
	return nil
}

// executeStore implements opcode STORE (0x23). addr = rs1 + imm.
func (vm *Machine) executeStore(d Decoded) (StoreEffect, error) {
	addr := vm.CPU.GetRegister(d.RS1) + uint32(d.Imm)
	value := vm.CPU.GetRegister(d.RS2)

	switch d.Funct3 {
	case Funct3SB:
		vm.Memory.WriteByte(addr, byte(value))
		return StoreEffect{Address: addr, Value: uint32(byte(value)), Size: 1}, nil
	case Funct3SH:
		vm.Memory.WriteHalfword(addr, uint16(value))
		return StoreEffect{Address: addr, Value: uint32(uint16(value)), Size: 2}, nil
	case Funct3SW:
		vm.Memory.WriteWord(addr, value)
		return StoreEffect{Address: addr, Value: value, Size: 4}, nil
	default:
		return StoreEffect{}, unknownFunct3Error(d)
	}
}
