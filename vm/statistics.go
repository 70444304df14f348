package vm

import (
	"fmt"
	"io"
	"time"

	"github.com/lookbusy1344/riscv32-sim/predictor"
)

// RunStats accumulates the end-of-run reporting spec.md §6 specifies: the
// summary line and, when a predictor is configured, its statistics block.
type RunStats struct {
	Insns     uint64
	StartTime time.Time
}

// NewRunStats returns a stats tracker with the clock started.
func NewRunStats() *RunStats {
	return &RunStats{StartTime: time.Now()}
}

// WriteSummary writes the "Simulated N instructions in T host ticks (M
// MIPS)" line, matching original_source/src/main.c's format string exactly:
// a leading blank line, %ld for the count, %d host ticks, and %f MIPS with
// the default six-decimal precision.
func (s *RunStats) WriteSummary(w io.Writer) {
	elapsed := time.Since(s.StartTime)
	ticks := int(elapsed / time.Millisecond) // host "ticks" stand in for clock() ticks
	if ticks == 0 {
		ticks = 1
	}
	mips := (float64(s.Insns) / 1_000_000) / (float64(ticks) / 1000)
	fmt.Fprintf(w, "\nSimulated %d instructions in %d host ticks (%f MIPS)\n", s.Insns, ticks, mips)
}

// WritePredictorReport writes the fixed statistics block, matching
// original_source/src/branch_predictor.c's predictor_print_stats exactly,
// including the "N/A (no branches)" sentinel when no branches were seen.
func WritePredictorReport(w io.Writer, p predictor.Predictor) {
	if p == nil {
		return
	}
	stats := p.Report()

	fmt.Fprintf(w, "\n=== Branch Predictor Statistics ===\n")
	fmt.Fprintf(w, "Predictor: %s\n", p.Name())
	fmt.Fprintf(w, "Total branches: %d\n", stats.TotalBranches)
	fmt.Fprintf(w, "Mispredictions: %d\n", stats.Mispredictions)

	if rate, ok := stats.MispredictionRate(); ok {
		fmt.Fprintf(w, "Misprediction rate: %.2f%%\n", rate)
	} else {
		fmt.Fprintf(w, "Misprediction rate: N/A (no branches)\n")
	}
	fmt.Fprintf(w, "===================================\n\n")
}
