package predictor

// nonePredictor predicts not-taken and keeps no predictor state; like NT,
// its misprediction count equals the number of taken branches (spec.md
// §4.3's "None").
type nonePredictor struct {
	stats Stats
}

func (p *nonePredictor) Name() string { return "None" }

func (p *nonePredictor) Update(pc, target uint32, taken bool) {
	// No predictor state: only the fixed not-taken prediction is scored.
	p.stats.TotalBranches++
	if taken {
		p.stats.Mispredictions++
	}
}

func (p *nonePredictor) Report() Stats { return p.stats }
func (p *nonePredictor) Reset()        { p.stats = Stats{} }

// ntPredictor always predicts not-taken.
type ntPredictor struct {
	stats Stats
}

func (p *ntPredictor) Name() string { return "NT (Never Taken)" }

func (p *ntPredictor) Update(pc, target uint32, taken bool) {
	prediction := false
	p.stats.TotalBranches++
	if prediction != taken {
		p.stats.Mispredictions++
	}
}

func (p *ntPredictor) Report() Stats { return p.stats }
func (p *ntPredictor) Reset()        { p.stats = Stats{} }

// btfntPredictor predicts taken for backward branches, not-taken for
// forward ones. It is purely a function of (pc, target): stateless across
// calls.
type btfntPredictor struct {
	stats Stats
}

func (p *btfntPredictor) Name() string { return "BTFNT (Backward Taken, Forward Not Taken)" }

func (p *btfntPredictor) predict(pc, target uint32) bool {
	return target < pc
}

func (p *btfntPredictor) Update(pc, target uint32, taken bool) {
	prediction := p.predict(pc, target)
	p.stats.TotalBranches++
	if prediction != taken {
		p.stats.Mispredictions++
	}
}

func (p *btfntPredictor) Report() Stats { return p.stats }
func (p *btfntPredictor) Reset()        { p.stats = Stats{} }
