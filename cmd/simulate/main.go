package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/Ashenafi-pixel/gamecrafter-slot-server/gamemath"
	"github.com/Ashenafi-pixel/gamecrafter-slot-server/payout"
	"github.com/Ashenafi-pixel/gamecrafter-slot-server/reel"
	"github.com/Ashenafi-pixel/gamecrafter-slot-server/session"
)

type options struct {
	spins   int
	bet     int
	coins   int
	lines   int
	seed    uint64
	verbose bool
}

type summary struct {
	spins, refused, hits int
	wagered, paid        int
	maxWin               int
	endBalance           int
	ruleHits             map[payout.Rule]int
}

func main() {
	var o options
	flag.IntVar(&o.spins, "spins", 1000, "Number of spins to play")
	flag.IntVar(&o.bet, "bet", session.DefaultBet, "Coins wagered per spin")
	flag.IntVar(&o.coins, "coins", session.DefaultCoins, "Starting balance")
	flag.IntVar(&o.lines, "lines", 1, "Scoring mode: 1 (center row) or 3 (all rows)")
	flag.Uint64Var(&o.seed, "seed", 0, "PCG seed for reproducible runs (0 draws from crypto/rand)")
	flag.BoolVar(&o.verbose, "v", false, "Print every spin")
	flag.Parse()

	if err := run(os.Stdout, o); err != nil {
		fmt.Fprintf(os.Stderr, "simulate: %v\n", err)
		os.Exit(1)
	}
}

func run(w io.Writer, o options) error {
	if o.spins <= 0 {
		return errors.New("-spins must be positive")
	}
	mode, err := payout.ParseMode(o.lines)
	if err != nil {
		return err
	}
	ev := payout.NewEvaluator(nil)
	if err := ev.ValidateBet(o.bet, mode); err != nil {
		return err
	}
	var src reel.Source = reel.CryptoSource{}
	if o.seed != 0 {
		src = rand.New(rand.NewPCG(o.seed, o.seed^0x9e3779b97f4a7c15))
	}
	reels := reel.New(reel.Classic, src)
	sess := session.New(
		session.WithCoins(o.coins),
		session.WithBet(o.bet),
		session.WithMode(mode),
		session.WithReels(reels),
		session.WithEvaluator(ev),
	)

	sum := simulate(w, sess, o)
	printSummary(w, sum, o, gamemath.Compute(reels.Set(), ev, mode))
	return nil
}

// simulate plays until o.spins spins settle or the balance no longer covers the bet.
func simulate(w io.Writer, sess *session.Session, o options) summary {
	sum := summary{ruleHits: map[payout.Rule]int{}}
	for i := 0; i < o.spins; i++ {
		out, err := sess.Spin()
		if err != nil {
			sum.refused++
			if o.verbose {
				fmt.Fprintf(w, "#%d refused: %v\n", i+1, err)
			}
			break
		}
		sum.spins++
		sum.wagered += out.Bet
		sum.paid += out.TotalPayout
		if out.TotalPayout > 0 {
			sum.hits++
		}
		if out.TotalPayout > sum.maxWin {
			sum.maxWin = out.TotalPayout
		}
		for _, win := range out.Wins {
			sum.ruleHits[win.Rule]++
		}
		if o.verbose {
			printSpin(w, i+1, out)
		}
	}
	sum.endBalance = sess.Balance()
	return sum
}

func printSpin(w io.Writer, n int, out *session.Outcome) {
	fmt.Fprintf(w, "#%-6d stops=%v\n", n, out.Stops)
	for row, line := range out.Grid {
		glyphs := make([]string, len(line))
		for col, sym := range line {
			glyphs[col] = sym.Glyph()
		}
		marker := " "
		if row == reel.CenterRow && out.Mode == payout.SingleLine {
			marker = ">"
		}
		fmt.Fprintf(w, "  %s %s\n", marker, strings.Join(glyphs, " "))
	}
	msg := "no win"
	if out.TotalPayout > 0 {
		reasons := make([]string, len(out.Wins))
		for i, win := range out.Wins {
			reasons[i] = win.Reason
		}
		msg = fmt.Sprintf("win %d coins (%s)", out.TotalPayout, strings.Join(reasons, ", "))
	}
	fmt.Fprintf(w, "  %s | balance %d\n", msg, out.Balance)
}

func printSummary(w io.Writer, sum summary, o options, m *gamemath.GameMath) {
	fmt.Fprintf(w, "=== %s | spins=%d | bet=%d | coins=%d ===\n", m.ModelID, sum.spins, o.bet, o.coins)
	fmt.Fprintf(w, "total bet        : %d\n", sum.wagered)
	fmt.Fprintf(w, "total win        : %d\n", sum.paid)
	fmt.Fprintf(w, "max single win   : %d\n", sum.maxWin)
	fmt.Fprintf(w, "end balance      : %d\n", sum.endBalance)
	if sum.refused > 0 {
		fmt.Fprintf(w, "stopped early    : balance below bet after %d spins\n", sum.spins)
	}
	if sum.spins > 0 {
		fmt.Fprintf(w, "hit rate         : %.6f\n", float64(sum.hits)/float64(sum.spins))
		fmt.Fprintf(w, "observed RTP     : %.6f\n", float64(sum.paid)/float64(sum.wagered))
	}
	fmt.Fprintf(w, "exact RTP        : %.6f\n", m.Stats.ComputedRTP)
	fmt.Fprintf(w, "exact hit rate   : %.6f\n", m.Stats.HitRate)
	for _, rule := range []payout.Rule{payout.RuleThreeOfAKind, payout.RuleTwoCherries, payout.RuleLeftCherries} {
		if n := sum.ruleHits[rule]; n > 0 {
			fmt.Fprintf(w, "  %-16s: %d\n", rule, n)
		}
	}
}
