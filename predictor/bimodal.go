package predictor

import "fmt"

// bimodalPredictor indexes a table of 2-bit saturating counters by pc mod N.
// All counters start at 2 (weakly taken), per spec.md §4.3's table
// initialization rule.
type bimodalPredictor struct {
	size  int
	table []uint8
	stats Stats
}

func newBimodal(size int) *bimodalPredictor {
	p := &bimodalPredictor{size: size, table: make([]uint8, size)}
	p.resetTable()
	return p
}

func (p *bimodalPredictor) resetTable() {
	for i := range p.table {
		p.table[i] = 2
	}
}

func (p *bimodalPredictor) Name() string {
	return fmt.Sprintf("Bimodal (%d entries)", p.size)
}

func (p *bimodalPredictor) index(pc uint32) int {
	return int(pc) % p.size
}

func (p *bimodalPredictor) predict(pc uint32) bool {
	return p.table[p.index(pc)] >= 2
}

// Update follows the fixed four-step order from spec.md §4.3: (1) predict
// from current state, (2) bump total/misprediction counters, (3) update the
// counter with saturation, (4) gshare-only GHR shift (not applicable here).
func (p *bimodalPredictor) Update(pc, target uint32, taken bool) {
	prediction := p.predict(pc)

	p.stats.TotalBranches++
	if prediction != taken {
		p.stats.Mispredictions++
	}

	idx := p.index(pc)
	if taken {
		if p.table[idx] < 3 {
			p.table[idx]++
		}
	} else {
		if p.table[idx] > 0 {
			p.table[idx]--
		}
	}
}

func (p *bimodalPredictor) Report() Stats { return p.stats }

func (p *bimodalPredictor) Reset() {
	p.stats = Stats{}
	p.resetTable()
}
