package gamemath

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/Ashenafi-pixel/gamecrafter-slot-server/payout"
	"github.com/Ashenafi-pixel/gamecrafter-slot-server/reel"
)

const (
	SchemaVersion = 1
	ModelVersion  = "1.0.0"
)

// GameMath is the computed math sheet of one machine configuration (schema_version 1).
type GameMath struct {
	SchemaVersion int            `json:"schema_version"`
	ModelID       string         `json:"model_id"`
	ModelVersion  string         `json:"model_version"`
	Mechanic      Mechanic       `json:"mechanic"`
	Strips        [][]string     `json:"strips"`
	PayTable      map[string]int `json:"pay_table"`
	RuleHits      map[string]int `json:"rule_hits"`
	Stats         *GameStats     `json:"stats,omitempty"`
	Integrity     *Integrity     `json:"integrity,omitempty"`
}

type Mechanic struct {
	Type     string `json:"type"`
	Lines    int    `json:"lines"`
	StripLen int    `json:"strip_len"`
}

// GameStats are exact expectations per coin bet, over all stop combinations.
type GameStats struct {
	Combinations int     `json:"combinations"`
	ComputedRTP  float64 `json:"computed_rtp"`
	HitRate      float64 `json:"hit_rate"`
	Variance     float64 `json:"variance"`
	MaxWin       int     `json:"max_win"`
}

type Integrity struct {
	ContentHash string `json:"content_hash"`
}

// ModelID names the math model for a scoring mode.
func ModelID(mode payout.Mode) string {
	return "classic3_" + mode.String()
}

// Compute enumerates every stop combination of set at bet 1 and returns the exact
// return to player, hit rate and variance for mode.
func Compute(set reel.Set, ev *payout.Evaluator, mode payout.Mode) *GameMath {
	var (
		n, hits, maxWin int
		sum, sumSq      float64
	)
	ruleHits := map[string]int{}
	var st reel.Stops
	for st[0] = 0; st[0] < reel.StripLen; st[0]++ {
		for st[1] = 0; st[1] < reel.StripLen; st[1]++ {
			for st[2] = 0; st[2] < reel.StripLen; st[2]++ {
				res := ev.Evaluate(set.Grid(st), 1, mode)
				x := float64(res.Total)
				n++
				sum += x
				sumSq += x * x
				if res.Total > 0 {
					hits++
				}
				if res.Total > maxWin {
					maxWin = res.Total
				}
				for _, w := range res.Wins {
					ruleHits[string(w.Rule)]++
				}
			}
		}
	}
	mean := sum / float64(n)

	strips := make([][]string, len(set))
	for i, s := range set {
		strips[i] = make([]string, len(s))
		for j, sym := range s {
			strips[i][j] = string(sym)
		}
	}
	table := make(map[string]int, len(ev.Table()))
	for sym, mult := range ev.Table() {
		table[string(sym)] = mult
	}

	g := &GameMath{
		SchemaVersion: SchemaVersion,
		ModelID:       ModelID(mode),
		ModelVersion:  ModelVersion,
		Mechanic:      Mechanic{Type: "reel_strips", Lines: int(mode), StripLen: reel.StripLen},
		Strips:        strips,
		PayTable:      table,
		RuleHits:      ruleHits,
		Stats: &GameStats{
			Combinations: n,
			ComputedRTP:  mean,
			HitRate:      float64(hits) / float64(n),
			Variance:     sumSq/float64(n) - mean*mean,
			MaxWin:       maxWin,
		},
	}
	g.Integrity = &Integrity{ContentHash: contentHash(g)}
	return g
}

// contentHash is sha256 over the strips, pay table and line count, so two sheets with
// the same hash describe the same machine.
func contentHash(g *GameMath) string {
	syms := make([]string, 0, len(g.PayTable))
	for s := range g.PayTable {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	h := sha256.New()
	for i, strip := range g.Strips {
		fmt.Fprintf(h, "strip%d=%s|", i, strings.Join(strip, ","))
	}
	for _, s := range syms {
		fmt.Fprintf(h, "|%s=%d", s, g.PayTable[s])
	}
	fmt.Fprintf(h, "|lines=%d", g.Mechanic.Lines)
	return hex.EncodeToString(h.Sum(nil))
}
