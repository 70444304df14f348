package predictor

import "testing"

func TestBimodalSaturatesAtBounds(t *testing.T) {
	p := newBimodal(256)
	// Counter starts at 2; drive it to 3 then confirm it sticks.
	for i := 0; i < 5; i++ {
		p.Update(0x1000, 0x2000, true)
	}
	if got := p.table[p.index(0x1000)]; got != 3 {
		t.Fatalf("expected counter saturated at 3, got %d", got)
	}

	p.resetTable()
	for i := 0; i < 5; i++ {
		p.Update(0x1000, 0x2000, false)
	}
	if got := p.table[p.index(0x1000)]; got != 0 {
		t.Fatalf("expected counter saturated at 0, got %d", got)
	}
}

func TestBimodalCountersStayInRange(t *testing.T) {
	p := newBimodal(256)
	for i := 0; i < 1000; i++ {
		p.Update(uint32(i*4), 0, i%3 == 0)
	}
	for i, c := range p.table {
		if c > 3 {
			t.Fatalf("counter %d out of range: %d", i, c)
		}
	}
}

func TestGshareHistoryMaskedToWidth(t *testing.T) {
	p := newGshare(256) // historyBits = 8
	for i := 0; i < 20; i++ {
		p.Update(uint32(i*4), 0, true)
	}
	if p.ghr&^p.historyMask() != 0 {
		t.Fatalf("GHR has bits set above width: 0x%x", p.ghr)
	}
}

func TestNTMispredictionsEqualTakenCount(t *testing.T) {
	p := &ntPredictor{}
	taken := 0
	for i := 0; i < 10; i++ {
		wasTaken := i%2 == 0
		if wasTaken {
			taken++
		}
		p.Update(uint32(i*4), 0, wasTaken)
	}
	stats := p.Report()
	if stats.Mispredictions != uint64(taken) {
		t.Fatalf("NT mispredictions = %d, want %d", stats.Mispredictions, taken)
	}
}

func TestBTFNTStateless(t *testing.T) {
	p := &btfntPredictor{}
	// Backward branch (target < pc): predicted taken.
	if !p.predict(0x2000, 0x1000) {
		t.Fatal("expected backward branch predicted taken")
	}
	// Forward branch (target > pc): predicted not-taken.
	if p.predict(0x1000, 0x2000) {
		t.Fatal("expected forward branch predicted not-taken")
	}
}

func TestBTFNTZeroMispredictionsWhenBackwardAlwaysTaken(t *testing.T) {
	p := &btfntPredictor{}
	for i := 0; i < 10; i++ {
		p.Update(0x2000, 0x1000, true) // backward, taken, matches prediction
	}
	stats := p.Report()
	if stats.Mispredictions != 0 {
		t.Fatalf("expected 0 mispredictions, got %d", stats.Mispredictions)
	}
}

func TestMispredictionsNeverExceedTotal(t *testing.T) {
	p := newGshare(1024)
	for i := 0; i < 500; i++ {
		p.Update(uint32(i*4), uint32(i*4)-8, i%5 != 0)
		s := p.Report()
		if s.Mispredictions > s.TotalBranches {
			t.Fatalf("mispredictions %d exceeds total %d", s.Mispredictions, s.TotalBranches)
		}
	}
}

func TestNewRejectsUnknownType(t *testing.T) {
	if _, err := New("bogus"); err == nil {
		t.Fatal("expected error for unknown predictor type")
	}
}

func TestReportMispredictionRateNAWithNoBranches(t *testing.T) {
	p := newBimodal(256)
	if _, ok := p.Report().MispredictionRate(); ok {
		t.Fatal("expected no rate when no branches observed")
	}
}
