// Package loader reads a RISC-V32 ELF executable into guest memory and
// marshals the simulated program's command-line arguments the way the
// reference simulator's pass_args_to_program did.
package loader

import (
	"debug/elf"
	"fmt"

	"github.com/lookbusy1344/riscv32-sim/vm"
)

// ArgsCountAddr and ArgsVectorAddr are the fixed guest addresses the
// reference simulator uses to hand argc/argv to the loaded program, above
// any address an ELF image is expected to occupy.
const (
	ArgsCountAddr  uint32 = 0x1000000
	ArgsVectorAddr uint32 = 0x1000004
)

// ProgramInfo describes the loaded image: where its text segment lives (for
// -d disassembly) and where execution should begin.
type ProgramInfo struct {
	EntryPoint uint32
	TextStart  uint32
	TextEnd    uint32
}

// Load reads an RV32 ELF executable from path into the machine's memory,
// populating every PT_LOAD segment and recording the entry point.
func Load(m *vm.Machine, path string) (ProgramInfo, error) {
	f, err := elf.Open(path)
	if err != nil {
		return ProgramInfo{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS32 {
		return ProgramInfo{}, fmt.Errorf("%s is not a 32-bit ELF image", path)
	}
	if f.Machine != elf.EM_RISCV {
		return ProgramInfo{}, fmt.Errorf("%s is not a RISC-V ELF image (machine=%s)", path, f.Machine)
	}

	info := ProgramInfo{EntryPoint: uint32(f.Entry)}

	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		data := make([]byte, prog.Filesz)
		if _, err := prog.ReadAt(data, 0); err != nil {
			return ProgramInfo{}, fmt.Errorf("reading PT_LOAD segment at 0x%08x: %w", prog.Vaddr, err)
		}
		if err := m.Memory.LoadBytes(uint32(prog.Vaddr), data); err != nil {
			return ProgramInfo{}, fmt.Errorf("loading PT_LOAD segment at 0x%08x: %w", prog.Vaddr, err)
		}
		// BSS-style tail (Memsz > Filesz) reads as zero already; sparse
		// pages only materialize on first write, so nothing to do here.
	}

	if text := f.Section(".text"); text != nil {
		info.TextStart = uint32(text.Addr)
		info.TextEnd = uint32(text.Addr + text.Size)
	}

	m.EntryPoint = info.EntryPoint
	m.CPU.PC = info.EntryPoint
	return info, nil
}

// PassArgsToProgram writes argc and a NUL-terminated argv vector into guest
// memory at the fixed addresses the ecall ABI expects, mirroring the
// reference simulator's argument-marshalling helper. args excludes the
// simulator's own argv[0]; the guest sees "--" as its own argv[0], matching
// the original's convention of using the separator token as the program name.
func PassArgsToProgram(m *vm.Machine, args []string) {
	guestArgs := append([]string{"--"}, args...)

	countAddr := ArgsCountAddr
	argvAddr := ArgsVectorAddr
	strAddr := argvAddr + 4*uint32(len(guestArgs))

	m.Memory.WriteWord(countAddr, uint32(len(guestArgs)))
	for i, arg := range guestArgs {
		m.Memory.WriteWord(argvAddr+4*uint32(i), strAddr)
		for j := 0; j < len(arg); j++ {
			m.Memory.WriteByte(strAddr, arg[j])
			strAddr++
		}
		m.Memory.WriteByte(strAddr, 0)
		strAddr++
	}
}

// SymbolsFromELF builds a lookup table from the ELF's symbol table. Function,
// object and untyped (label) symbols with a name are kept; everything else
// (section and file symbols, empty names) is dropped, matching what a disassembly annotation
// needs. A stripped binary yields a valid, empty table rather than an error.
func SymbolsFromELF(path string) (*vm.SymbolTable, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	syms, err := f.Symbols()
	if err != nil {
		return vm.NewSymbolTable(nil), nil
	}

	names := make(map[string]uint32, len(syms))
	for _, s := range syms {
		if s.Name == "" {
			continue
		}
		switch elf.ST_TYPE(s.Info) {
		case elf.STT_FUNC, elf.STT_OBJECT, elf.STT_NOTYPE:
			names[s.Name] = uint32(s.Value)
		}
	}

	return vm.NewSymbolTable(names), nil
}
