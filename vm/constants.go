package vm

// Register ABI names, x0-x31, per the RISC-V calling convention. Index 0 is
// the hardwired zero register.
var RegisterNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// Register index aliases used by the syscall ABI and the driver.
const (
	RegZero = 0
	RegRA   = 1
	RegSP   = 2
	RegA0   = 10
	RegA7   = 17 // syscall number
)

// MaxInstructions is the runaway-execution ceiling from spec.md §4.2: a
// simulation that retires more instructions than this terminates with a
// diagnostic rather than running forever on a guest that never calls exit.
const MaxInstructions = 100_000_000

// Opcode field values (bits 0..6 of the instruction word).
const (
	OpcodeLoad     = 0x03
	OpcodeOpImm    = 0x13
	OpcodeAUIPC    = 0x17
	OpcodeStore    = 0x23
	OpcodeOp       = 0x33
	OpcodeLUI      = 0x37
	OpcodeBranch   = 0x63
	OpcodeJALR     = 0x67
	OpcodeJAL      = 0x6F
	OpcodeSystem   = 0x73
)

// funct3 values shared across opcodes.
const (
	Funct3ADDSUB = 0x0
	Funct3SLL    = 0x1
	Funct3SLT    = 0x2
	Funct3SLTU   = 0x3
	Funct3XOR    = 0x4
	Funct3SRLSRA = 0x5
	Funct3OR     = 0x6
	Funct3AND    = 0x7

	Funct3BEQ  = 0x0
	Funct3BNE  = 0x1
	Funct3BLT  = 0x4
	Funct3BGE  = 0x5
	Funct3BLTU = 0x6
	Funct3BGEU = 0x7

	Funct3LB  = 0x0
	Funct3LH  = 0x1
	Funct3LW  = 0x2
	Funct3LBU = 0x4
	Funct3LHU = 0x5

	Funct3SB = 0x0
	Funct3SH = 0x1
	Funct3SW = 0x2

	Funct3MUL    = 0x0
	Funct3MULH   = 0x1
	Funct3MULHSU = 0x2
	Funct3MULHU  = 0x3
	Funct3DIV    = 0x4
	Funct3DIVU   = 0x5
	Funct3REM    = 0x6
	Funct3REMU   = 0x7
)

// funct7 values distinguishing OP/OP-IMM variants.
const (
	Funct7Base = 0x00
	Funct7Alt  = 0x20 // sub, sra, srai
	Funct7MExt = 0x01 // M-extension (mul/div family)
)

// ECALLEncoding is the only SYSTEM-opcode encoding this simulator defines.
const ECALLEncoding = 0x00000073

// Guest syscall numbers, passed in x17 (a7).
const (
	SyscallGetChar = 1
	SyscallPutChar = 2
	SyscallExit3   = 3
	SyscallExit93  = 93
)
