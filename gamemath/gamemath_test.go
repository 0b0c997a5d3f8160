package gamemath

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/Ashenafi-pixel/gamecrafter-slot-server/payout"
	"github.com/Ashenafi-pixel/gamecrafter-slot-server/reel"
)

func TestCompute_Shape(t *testing.T) {
	for _, mode := range []payout.Mode{payout.SingleLine, payout.MultiLine} {
		g := Compute(reel.Classic, payout.NewEvaluator(nil), mode)
		if g.ModelID != ModelID(mode) || g.Mechanic.Lines != int(mode) {
			t.Errorf("%v: model %q lines %d", mode, g.ModelID, g.Mechanic.Lines)
		}
		if g.Stats.Combinations != reel.StripLen*reel.StripLen*reel.StripLen {
			t.Errorf("%v: combinations %d", mode, g.Stats.Combinations)
		}
		if g.Stats.ComputedRTP <= 0 || g.Stats.HitRate <= 0 || g.Stats.HitRate >= 1 || g.Stats.Variance <= 0 {
			t.Errorf("%v: stats %+v", mode, g.Stats)
		}
		if len(g.Strips) != reel.Count || len(g.Strips[0]) != reel.StripLen {
			t.Errorf("%v: strips %v", mode, g.Strips)
		}
		if g.Integrity == nil || len(g.Integrity.ContentHash) != 64 {
			t.Errorf("%v: integrity %+v", mode, g.Integrity)
		}
	}
}

func TestCompute_SingleLineExact(t *testing.T) {
	// Count center lines by hand: per reel, how many stops show each symbol.
	var count [reel.Count]map[reel.Symbol]int
	for i, strip := range reel.Classic {
		count[i] = map[reel.Symbol]int{}
		for _, s := range strip {
			count[i][s]++
		}
	}
	const total = float64(reel.StripLen * reel.StripLen * reel.StripLen)
	var want float64
	for _, sym := range reel.Symbols {
		want += float64(count[0][sym]*count[1][sym]*count[2][sym]) * float64(payout.ClassicTable[sym])
	}
	// exactly two cherries: choose the odd reel out
	c := func(i int) int { return count[i][reel.Cherry] }
	nc := func(i int) int { return reel.StripLen - c(i) }
	pairs := c(0)*c(1)*nc(2) + c(0)*nc(1)*c(2) + nc(0)*c(1)*c(2)
	want += float64(pairs) * payout.CherryPairMultiplier
	want /= total

	g := Compute(reel.Classic, payout.NewEvaluator(nil), payout.SingleLine)
	if math.Abs(g.Stats.ComputedRTP-want) > 1e-12 {
		t.Errorf("RTP %.6f, want %.6f", g.Stats.ComputedRTP, want)
	}
	if g.Stats.MaxWin != 100 {
		t.Errorf("max win %d, want 100", g.Stats.MaxWin)
	}
}

func TestCompute_MatchesSimulation(t *testing.T) {
	ev := payout.NewEvaluator(nil)
	g := Compute(reel.Classic, ev, payout.MultiLine)
	r := reel.New(reel.Classic, rand.New(rand.NewPCG(11, 12)))
	const rounds = 200_000
	var paid int
	for i := 0; i < rounds; i++ {
		paid += ev.Evaluate(r.Grid(r.DrawStops()), 1, payout.MultiLine).Total
	}
	rtp := float64(paid) / rounds
	sd := math.Sqrt(g.Stats.Variance / rounds)
	if math.Abs(rtp-g.Stats.ComputedRTP) > 5*sd {
		t.Errorf("simulated RTP %.4f, exact %.4f (sd %.4f)", rtp, g.Stats.ComputedRTP, sd)
	}
}

func TestContentHash_ChangesWithTable(t *testing.T) {
	a := Compute(reel.Classic, payout.NewEvaluator(nil), payout.SingleLine)
	b := Compute(reel.Classic, payout.NewEvaluator(payout.Table{reel.Seven: 200}), payout.SingleLine)
	c := Compute(reel.Classic, payout.NewEvaluator(nil), payout.MultiLine)
	if a.Integrity.ContentHash == b.Integrity.ContentHash {
		t.Error("different pay tables share a hash")
	}
	if a.Integrity.ContentHash == c.Integrity.ContentHash {
		t.Error("different line counts share a hash")
	}
	if again := Compute(reel.Classic, payout.NewEvaluator(nil), payout.SingleLine); again.Integrity.ContentHash != a.Integrity.ContentHash {
		t.Error("hash is not stable")
	}
}

func TestContentHash_CoversStrips(t *testing.T) {
	a := Compute(reel.Classic, payout.NewEvaluator(nil), payout.SingleLine)
	swapped := reel.Classic
	swapped[0], swapped[1] = swapped[1], swapped[0]
	b := Compute(swapped, payout.NewEvaluator(nil), payout.SingleLine)
	if a.Integrity.ContentHash == b.Integrity.ContentHash {
		t.Error("reordered strips share a hash")
	}
	a.Strips[2][0] = "cherry"
	if contentHash(a) == a.Integrity.ContentHash {
		t.Error("edited strip kept its hash")
	}
}
