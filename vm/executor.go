package vm

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/lookbusy1344/riscv32-sim/predictor"
)

// unknownFunct3Error reports a decoded instruction whose funct3 this
// simulator does not recognize for its opcode.
func unknownFunct3Error(d Decoded) error {
	return fmt.Errorf("unknown funct3 0x%x for opcode 0x%02x at PC=0x%08x (encoding 0x%08x)",
		d.Funct3, d.Opcode, d.Address, d.Raw)
}

// StepEffect summarizes the side effects of one executed instruction for
// the trace emitter: the changed register (if any, rd != 0), the store
// address/value (if any), and the branch outcome (if the instruction was a
// conditional branch). Collected as a record during Step rather than
// printed inline, per spec.md §9's trace-line-construction design note.
type StepEffect struct {
	RegWritten  bool
	RegIndex    int
	RegValue    uint32
	Stored      bool
	Store       StoreEffect
	IsBranch    bool
	Branch      BranchOutcome
	JumpOrTaken bool // true if this step should move the pending-jump-target marker
	NextPC      uint32
}

// Machine is the explicit machine-state value spec.md §9 asks for: register
// file, PC, and memory bundled together and passed to executor operations,
// rather than the teacher's process-wide CPU/Memory globals. Multiple
// independent simulations can coexist in one process.
type Machine struct {
	CPU    *CPU
	Memory *Memory

	Halted   bool
	LastErr  error
	ExitCode int32

	Predictor predictor.Predictor // nil means no predictor configured

	// Trace and statistics sinks; nil disables the corresponding feature,
	// per spec.md §4.4 ("the emitter is optional").
	Trace *ExecutionTrace
	Stats *RunStats

	EntryPoint uint32

	// MaxInsns overrides the runaway-execution ceiling when nonzero; zero
	// means use the package default.
	MaxInsns uint64

	OutputWriter io.Writer
	stdinReader  *bufio.Reader

	pendingJumpTarget uint32
	havePendingJump   bool
}

// NewMachine returns a Machine with fresh, empty register file and memory.
func NewMachine() *Machine {
	return &Machine{
		CPU:          NewCPU(),
		Memory:       NewMemory(),
		OutputWriter: os.Stdout,
		stdinReader:  bufio.NewReader(os.Stdin),
		Stats:        NewRunStats(),
	}
}

// Reset returns the machine to its state immediately after construction,
// preserving loaded memory contents (used by the debugger to re-run from
// the entry point without reloading the image).
func (vm *Machine) Reset() {
	vm.CPU.Reset()
	vm.CPU.PC = vm.EntryPoint
	vm.Halted = false
	vm.LastErr = nil
	vm.ExitCode = 0
	vm.havePendingJump = false
	if vm.Predictor != nil {
		vm.Predictor.Reset()
	}
	vm.Stats = NewRunStats()
}

// Fetch reads the 32-bit instruction word at the current PC.
func (vm *Machine) Fetch() uint32 {
	return vm.Memory.ReadWord(vm.CPU.PC)
}

// Execute dispatches a decoded instruction to its opcode handler and
// returns the side effects the trace emitter needs. PC is pre-set to
// current_pc + 4 by the caller before dispatch (spec.md §4.5); branch/jump
// handlers override it.
func (vm *Machine) Execute(d Decoded) (StepEffect, error) {
	var effect StepEffect

	switch d.Opcode {
	case OpcodeOp:
		if err := vm.executeOp(d); err != nil {
			return effect, err
		}
	case OpcodeOpImm:
		if err := vm.executeOpImm(d); err != nil {
			return effect, err
		}
	case OpcodeLUI:
		if err := vm.executeLUI(d); err != nil {
			return effect, err
		}
	case OpcodeAUIPC:
		if err := vm.executeAUIPC(d); err != nil {
			return effect, err
		}
	case OpcodeLoad:
		if err := vm.executeLoad(d); err != nil {
			return effect, err
		}
	case OpcodeStore:
		store, err := vm.executeStore(d)
		if err != nil {
			return effect, err
		}
		effect.Stored = true
		effect.Store = store
	case OpcodeBranch:
		outcome, err := vm.executeBranch(d)
		if err != nil {
			return effect, err
		}
		effect.IsBranch = true
		effect.Branch = outcome
		if outcome.Taken {
			effect.JumpOrTaken = true
		}
	case OpcodeJAL:
		if err := vm.executeJAL(d); err != nil {
			return effect, err
		}
		effect.JumpOrTaken = true
	case OpcodeJALR:
		if err := vm.executeJALR(d); err != nil {
			return effect, err
		}
		effect.JumpOrTaken = true
	case OpcodeSystem:
		if d.Raw != ECALLEncoding {
			return effect, fmt.Errorf("unrecognized SYSTEM encoding 0x%08x at PC=0x%08x", d.Raw, d.Address)
		}
		if err := vm.executeECALL(); err != nil {
			return effect, err
		}
	default:
		return effect, fmt.Errorf("unrecognized opcode 0x%02x at PC=0x%08x (encoding 0x%08x)", d.Opcode, d.Address, d.Raw)
	}

	if d.RD != RegZero && opcodeWritesRD(d.Opcode) {
		effect.RegWritten = true
		effect.RegIndex = d.RD
		effect.RegValue = vm.CPU.GetRegister(d.RD)
	}

	effect.NextPC = vm.CPU.PC
	return effect, nil
}

// opcodeWritesRD reports whether an opcode's dispatch path can write rd, so
// Execute only records the rd value for those that do.
func opcodeWritesRD(opcode uint32) bool {
	switch opcode {
	case OpcodeOp, OpcodeOpImm, OpcodeLUI, OpcodeAUIPC, OpcodeLoad, OpcodeJAL, OpcodeJALR:
		return true
	default:
		return false
	}
}

// Step performs one fetch/decode/execute/log cycle: the body of spec.md
// §4.5's driver loop. It returns false once the machine has halted.
func (vm *Machine) Step() (bool, error) {
	if vm.Halted {
		return false, nil
	}
	ceiling := uint64(MaxInstructions)
	if vm.MaxInsns != 0 {
		ceiling = vm.MaxInsns
	}
	if vm.CPU.Insns >= ceiling {
		vm.Halted = true
		vm.LastErr = fmt.Errorf("runaway guard: exceeded %d instructions", ceiling)
		fmt.Fprintln(os.Stderr, vm.LastErr)
		return false, nil
	}

	currentPC := vm.CPU.PC
	arrivedAtJump := vm.havePendingJump && currentPC == vm.pendingJumpTarget

	word := vm.Fetch()
	vm.CPU.Insns++

	d := Decode(word, currentPC)
	vm.CPU.PC = currentPC + 4

	effect, err := vm.Execute(d)
	if err != nil {
		vm.Halted = true
		vm.LastErr = err
		fmt.Fprintln(os.Stderr, err)
		if vm.Trace != nil {
			vm.Trace.Record(vm.CPU.Insns, currentPC, arrivedAtJump, d, effect)
		}
		return false, err
	}

	if effect.JumpOrTaken {
		vm.pendingJumpTarget = vm.CPU.PC
		vm.havePendingJump = true
	}

	if effect.IsBranch && vm.Predictor != nil {
		vm.Predictor.Update(currentPC, effect.Branch.Target, effect.Branch.Taken)
	}

	if vm.Trace != nil {
		vm.Trace.Record(vm.CPU.Insns, currentPC, arrivedAtJump, d, effect)
	}

	vm.Stats.Insns = vm.CPU.Insns

	return !vm.Halted, nil
}

// Run steps the machine until it halts, an error terminates the run, or the
// runaway ceiling is reached.
func (vm *Machine) Run() error {
	for {
		cont, err := vm.Step()
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}
