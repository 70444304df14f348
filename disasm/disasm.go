// Package disasm renders a decoded RV32IM instruction word as a mnemonic
// operand string for the execution trace and the static "-d" CLI mode.
// Structured as a dispatch table keyed by opcode/funct, in the column-
// oriented style the teacher's tools/format.go uses for assembly text,
// adapted here to render one fixed instruction per call instead of
// reflowing a whole listing.
package disasm

import "fmt"

// regNames is the RISC-V ABI register-name table, ground truth taken from
// original_source/src/disassemble.c's reg_names array.
var regNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

func reg(i uint32) string {
	return regNames[i&0x1F]
}

func getBits(instr uint32, start, end uint) uint32 {
	width := end - start + 1
	return (instr >> start) & ((1 << width) - 1)
}

func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

// SymbolLookup renders an address as a symbol-qualified string when a
// symbol table is available; disassembly falls back to raw hex without one.
type SymbolLookup func(address uint32) string

// Disassemble renders the instruction at addr as a mnemonic operand string.
// lookup may be nil, in which case branch/jump targets are rendered as raw
// hex addresses.
func Disassemble(addr uint32, instr uint32, lookup SymbolLookup) string {
	opcode := getBits(instr, 0, 6)
	rd := getBits(instr, 7, 11)
	funct3 := getBits(instr, 12, 14)
	rs1 := getBits(instr, 15, 19)
	rs2 := getBits(instr, 20, 24)
	funct7 := getBits(instr, 25, 31)

	switch opcode {
	case 0x33:
		return disOp(funct7, funct3, rd, rs1, rs2)
	case 0x13:
		return disOpImm(funct7, funct3, rd, rs1, instr)
	case 0x03:
		return disLoad(funct3, rd, rs1, instr)
	case 0x23:
		return disStore(funct3, rs1, rs2, instr)
	case 0x63:
		return disBranch(funct3, rs1, rs2, addr, instr, lookup)
	case 0x6F:
		return disJAL(rd, addr, instr, lookup)
	case 0x67:
		imm := signExtend(getBits(instr, 20, 31), 12)
		return fmt.Sprintf("jalr\t%s,%d(%s)", reg(rd), imm, reg(rs1))
	case 0x37:
		imm := getBits(instr, 12, 31) << 12
		return fmt.Sprintf("lui\t%s,0x%x", reg(rd), imm>>12)
	case 0x17:
		imm := getBits(instr, 12, 31) << 12
		return fmt.Sprintf("auipc\t%s,0x%x", reg(rd), imm>>12)
	case 0x73:
		if instr == 0x00000073 {
			return "ecall"
		}
		return "unknown"
	default:
		return "unknown"
	}
}

func disOp(funct7, funct3, rd, rs1, rs2 uint32) string {
	names := map[uint32]map[uint32]string{
		0x00: {0x0: "add", 0x1: "sll", 0x2: "slt", 0x3: "sltu", 0x4: "xor", 0x5: "srl", 0x6: "or", 0x7: "and"},
		0x20: {0x0: "sub", 0x5: "sra"},
		0x01: {0x0: "mul", 0x1: "mulh", 0x2: "mulhsu", 0x3: "mulhu", 0x4: "div", 0x5: "divu", 0x6: "rem", 0x7: "remu"},
	}
	group, ok := names[funct7]
	if !ok {
		return "unknown"
	}
	mnemonic, ok := group[funct3]
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s\t%s,%s,%s", mnemonic, reg(rd), reg(rs1), reg(rs2))
}

func disOpImm(funct7, funct3, rd, rs1, instr uint32) string {
	imm := signExtend(getBits(instr, 20, 31), 12)
	shamt := getBits(instr, 20, 24)

	switch funct3 {
	case 0x0:
		return fmt.Sprintf("addi\t%s,%s,%d", reg(rd), reg(rs1), imm)
	case 0x2:
		return fmt.Sprintf("slti\t%s,%s,%d", reg(rd), reg(rs1), imm)
	case 0x3:
		return fmt.Sprintf("sltiu\t%s,%s,%d", reg(rd), reg(rs1), imm)
	case 0x4:
		return fmt.Sprintf("xori\t%s,%s,%d", reg(rd), reg(rs1), imm)
	case 0x6:
		return fmt.Sprintf("ori\t%s,%s,%d", reg(rd), reg(rs1), imm)
	case 0x7:
		return fmt.Sprintf("andi\t%s,%s,%d", reg(rd), reg(rs1), imm)
	case 0x1:
		return fmt.Sprintf("slli\t%s,%s,%d", reg(rd), reg(rs1), shamt)
	case 0x5:
		if funct7 == 0x00 {
			return fmt.Sprintf("srli\t%s,%s,%d", reg(rd), reg(rs1), shamt)
		} else if funct7 == 0x20 {
			return fmt.Sprintf("srai\t%s,%s,%d", reg(rd), reg(rs1), shamt)
		}
		return "unknown"
	default:
		return "unknown"
	}
}

func disLoad(funct3, rd, rs1, instr uint32) string {
	imm := signExtend(getBits(instr, 20, 31), 12)
	mnemonics := map[uint32]string{0x0: "lb", 0x1: "lh", 0x2: "lw", 0x4: "lbu", 0x5: "lhu"}
	m, ok := mnemonics[funct3]
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s\t%s,%d(%s)", m, reg(rd), imm, reg(rs1))
}

func disStore(funct3, rs1, rs2, instr uint32) string {
	imm := signExtend((getBits(instr, 25, 31)<<5)|getBits(instr, 7, 11), 12)
	mnemonics := map[uint32]string{0x0: "sb", 0x1: "sh", 0x2: "sw"}
	m, ok := mnemonics[funct3]
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s\t%s,%d(%s)", m, reg(rs2), imm, reg(rs1))
}

func disBranch(funct3, rs1, rs2, addr, instr uint32, lookup SymbolLookup) string {
	imm := signExtend(
		(getBits(instr, 31, 31)<<12)|
			(getBits(instr, 7, 7)<<11)|
			(getBits(instr, 25, 30)<<5)|
			(getBits(instr, 8, 11)<<1),
		13,
	)
	target := addr + uint32(imm)
	mnemonics := map[uint32]string{0x0: "beq", 0x1: "bne", 0x4: "blt", 0x5: "bge", 0x6: "bltu", 0x7: "bgeu"}
	m, ok := mnemonics[funct3]
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s\t%s,%s,%s", m, reg(rs1), reg(rs2), formatTarget(target, lookup))
}

func disJAL(rd, addr, instr uint32, lookup SymbolLookup) string {
	imm := signExtend(
		(getBits(instr, 31, 31)<<20)|
			(getBits(instr, 12, 19)<<12)|
			(getBits(instr, 20, 20)<<11)|
			(getBits(instr, 21, 30)<<1),
		21,
	)
	target := addr + uint32(imm)
	return fmt.Sprintf("jal\t%s,%s", reg(rd), formatTarget(target, lookup))
}

func formatTarget(target uint32, lookup SymbolLookup) string {
	if lookup != nil {
		if s := lookup(target); s != "" {
			return s
		}
	}
	return fmt.Sprintf("%x", target)
}
