package predictor

import (
	"fmt"
	"math/bits"
)

// gsharePredictor is a bimodal table additionally indexed by XOR with a
// global history register of recent branch outcomes. historyBits is
// log2(size); GHR and the PC-bits operand are both masked to that width
// before the XOR, per spec.md §4.3.
type gsharePredictor struct {
	size        int
	historyBits uint
	table       []uint8
	ghr         uint32
	stats       Stats
}

func newGshare(size int) *gsharePredictor {
	p := &gsharePredictor{
		size:        size,
		historyBits: uint(bits.Len(uint(size)) - 1), // log2(size); size is always a power of two
		table:       make([]uint8, size),
	}
	p.resetTable()
	return p
}

func (p *gsharePredictor) resetTable() {
	for i := range p.table {
		p.table[i] = 2
	}
	p.ghr = 0
}

func (p *gsharePredictor) Name() string {
	return fmt.Sprintf("gShare (%d entries)", p.size)
}

func (p *gsharePredictor) historyMask() uint32 {
	return (uint32(1) << p.historyBits) - 1
}

func (p *gsharePredictor) index(pc uint32) int {
	mask := p.historyMask()
	pcBits := (pc >> 2) & mask
	histBits := p.ghr & mask
	return int(pcBits^histBits) % p.size
}

func (p *gsharePredictor) predict(pc uint32) bool {
	return p.table[p.index(pc)] >= 2
}

// Update follows spec.md §4.3's fixed order, including shifting the GHR
// only after the counter has already been updated.
func (p *gsharePredictor) Update(pc, target uint32, taken bool) {
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

	var bit uint32
	if taken {
		bit = 1
	}
	p.ghr = ((p.ghr << 1) | bit) & p.historyMask()
}

func (p *gsharePredictor) Report() Stats { return p.stats }

func (p *gsharePredictor) Reset() {
	p.stats = Stats{}
	p.resetTable()
}
