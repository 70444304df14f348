package vm

import (
	"fmt"
	"io"
	"strings"

	"github.com/lookbusy1344/riscv32-sim/disasm"
)

// ExecutionTrace renders one line per retired instruction to Writer, per
// spec.md §4.4. It is a plain io.Writer sink rather than a buffered
// in-memory log, matching the teacher's ExecutionTrace.Writer contract so
// another writer can be layered in front of it without changing the line
// format.
type ExecutionTrace struct {
	Writer  io.Writer
	Symbols *SymbolTable // optional; nil is fine
}

// NewExecutionTrace returns a trace sink writing to w.
func NewExecutionTrace(w io.Writer) *ExecutionTrace {
	return &ExecutionTrace{Writer: w}
}

// Record writes one trace line for a retired instruction. Side-effect
// annotations are built as a small ordered slice and joined, rather than
// inline prints scattered across the executor, per spec.md §9.
func (t *ExecutionTrace) Record(ordinal uint64, pc uint32, arrivedAtJump bool, d Decoded, effect StepEffect) {
	if t == nil || t.Writer == nil {
		return
	}

	marker := "  "
	if arrivedAtJump {
		marker = "=>"
	}

	text := disasm.Disassemble(pc, d.Raw, t.symbolLookup())

	// Annotation order and the "R[n] <- value" only-if-rd-nonzero rule are
	// fixed by spec.md §4.4; formats below match
	// original_source/src/simulate.c's trace printfs field-for-field.
	var annotations []string
	if effect.RegWritten && effect.RegIndex != RegZero {
		annotations = append(annotations, fmt.Sprintf("R[%2d] <- %08x", effect.RegIndex, effect.RegValue))
	}
	if effect.Stored {
		annotations = append(annotations, fmt.Sprintf("M[%08x] <- %08x", effect.Store.Address, effect.Store.Value))
	}
	if effect.IsBranch {
		if effect.Branch.Taken {
			annotations = append(annotations, "{T}")
		} else {
			annotations = append(annotations, "{N}")
		}
	}

	line := fmt.Sprintf("| %d %s | %08x : %08x | %-20s |", ordinal, marker, pc, d.Raw, text)
	if len(annotations) > 0 {
		line += " " + strings.Join(annotations, " | ")
	}
	fmt.Fprintln(t.Writer, line)
}

func (t *ExecutionTrace) symbolLookup() func(uint32) string {
	if t.Symbols == nil {
		return nil
	}
	return t.Symbols.FormatAddressCompact
}
