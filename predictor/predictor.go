// Package predictor implements the eleven branch-prediction variants
// spec.md §4.3 describes: a null predictor, two static predictors, and
// bimodal/gshare tables at four sizes each. All share one Predictor
// interface so the driver dispatches on the variant once, at construction,
// rather than branching on type throughout the hot loop.
package predictor

import "fmt"

// Predictor is the shared update/report contract. The interface has no
// standalone Predict: Update computes the prediction internally from the
// pre-update state before mutating it, fixed as the canonical order per
// spec.md §9's open question.
type Predictor interface {
	// Name identifies the variant for the statistics block, the TUI and the
	// API state response.
	Name() string

	// Update records a retired branch: bumps total/misprediction counters
	// against the pre-update prediction, then mutates variant state. The
	// four-step ordering (predict, count, update counter, shift GHR for
	// gshare) is fixed by spec.md §4.3 and must not be reordered.
	Update(pc, target uint32, taken bool)

	// Report returns accumulated statistics.
	Report() Stats

	// Reset clears dynamic state and statistics, used when the debugger
	// restarts a run without reallocating the predictor.
	Reset()
}

// Stats is the predict/misprediction tally spec.md §3 attaches to every
// predictor variant.
type Stats struct {
	TotalBranches  uint64
	Mispredictions uint64
}

// MispredictionRate returns the percentage of mispredicted branches, or
// false when no branches have been observed (the N/A sentinel case).
func (s Stats) MispredictionRate() (rate float64, ok bool) {
	if s.TotalBranches == 0 {
		return 0, false
	}
	return float64(s.Mispredictions) / float64(s.TotalBranches) * 100.0, true
}

// Type identifies one of the eleven variants, used by New and by the CLI's
// -p flag parser.
type Type string

const (
	TypeNone        Type = "none"
	TypeNT          Type = "NT"
	TypeBTFNT       Type = "BTFNT"
	TypeBimodal256  Type = "bimodal-256"
	TypeBimodal1K   Type = "bimodal-1K"
	TypeBimodal4K   Type = "bimodal-4K"
	TypeBimodal16K  Type = "bimodal-16K"
	TypeGshare256   Type = "gshare-256"
	TypeGshare1K    Type = "gshare-1K"
	TypeGshare4K    Type = "gshare-4K"
	TypeGshare16K   Type = "gshare-16K"
)

// New constructs the predictor named by t, or an error if t is not one of
// the eleven recognized type strings.
func New(t Type) (Predictor, error) {
	switch t {
	case TypeNone, "":
		return &nonePredictor{}, nil
	case TypeNT:
		return &ntPredictor{}, nil
	case TypeBTFNT:
		return &btfntPredictor{}, nil
	case TypeBimodal256:
		return newBimodal(256), nil
	case TypeBimodal1K:
		return newBimodal(1024), nil
	case TypeBimodal4K:
		return newBimodal(4096), nil
	case TypeBimodal16K:
		return newBimodal(16384), nil
	case TypeGshare256:
		return newGshare(256), nil
	case TypeGshare1K:
		return newGshare(1024), nil
	case TypeGshare4K:
		return newGshare(4096), nil
	case TypeGshare16K:
		return newGshare(16384), nil
	default:
		return nil, fmt.Errorf("unknown predictor type: %s", t)
	}
}
