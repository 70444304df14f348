package vm

// Decoded is a pure view over a 32-bit RV32IM instruction word: the shared
// fields plus a format-dependent sign-extended immediate. Decode never
// mutates machine state; it is the decoder half of spec.md §4.1.
type Decoded struct {
	Raw     uint32
	Address uint32

	Opcode uint32
	RD     int
	Funct3 uint32
	RS1    int
	RS2    int
	Funct7 uint32
	Imm    int32
}

// Decode extracts the opcode/register/funct fields and assembles the
// format-appropriate immediate. The immediate formula used depends only on
// opcode, per the RISC-V unprivileged spec's instruction formats.
func Decode(word uint32, address uint32) Decoded {
	d := Decoded{
		Raw:     word,
		Address: address,
		Opcode:  word & 0x7F,
		RD:      int((word >> 7) & 0x1F),
		Funct3:  (word >> 12) & 0x7,
		RS1:     int((word >> 15) & 0x1F),
		RS2:     int((word >> 20) & 0x1F),
		Funct7:  (word >> 25) & 0x7F,
	}

	switch d.Opcode {
	case OpcodeOpImm, OpcodeLoad, OpcodeJALR, OpcodeSystem:
		d.Imm = signExtend(word>>20, 12)
	case OpcodeStore:
		imm := ((word >> 25) << 5) | ((word >> 7) & 0x1F)
		d.Imm = signExtend(imm, 12)
	case OpcodeBranch:
		imm := (((word >> 31) & 0x1) << 12) |
			(((word >> 7) & 0x1) << 11) |
			(((word >> 25) & 0x3F) << 5) |
			(((word >> 8) & 0xF) << 1)
		d.Imm = signExtend(imm, 13)
	case OpcodeLUI, OpcodeAUIPC:
		d.Imm = int32(word & 0xFFFFF000)
	case OpcodeJAL:
		imm := (((word >> 31) & 0x1) << 20) |
			(((word >> 12) & 0xFF) << 12) |
			(((word >> 20) & 0x1) << 11) |
			(((word >> 21) & 0x3FF) << 1)
		d.Imm = signExtend(imm, 21)
	}

	return d
}

// signExtend treats the low `bits` bits of v as a two's-complement value
// and sign-extends them to a full int32.
func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

// Shamt returns the shift amount for a shift instruction: the low 5 bits of
// the rs2 field (OP) or of the immediate (OP-IMM) per spec.md §4.2.
func (d Decoded) Shamt() uint32 {
	return uint32(d.RS2) & 0x1F
}
