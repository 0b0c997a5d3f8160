// Package payout scores a spin's visible symbols against the pay table.
//
// Two scoring modes exist. SingleLine scores the center row only and pays a cherry
// pair anywhere on it. MultiLine scores every row and pays a cherry pair only when it
// sits on the two leftmost reels, at a higher multiplier. In both modes three of a
// kind is checked first, so a line of three cherries is never also a cherry pair.
package payout

import (
	"fmt"
	"math"

	"github.com/Ashenafi-pixel/gamecrafter-slot-server/reel"
)

// ErrInvalidArgument is reel.ErrInvalidArgument, re-exported for callers that only
// deal with scoring.
var ErrInvalidArgument = reel.ErrInvalidArgument

const (
	// CherryPairMultiplier pays exactly two cherries anywhere on the center line (SingleLine).
	CherryPairMultiplier = 2
	// LeftCherriesMultiplier pays cherries on reels 0 and 1 of any row (MultiLine).
	LeftCherriesMultiplier = 5
)

// Rule names the rule a line won by.
type Rule string

const (
	RuleThreeOfAKind Rule = "three_of_a_kind"
	RuleTwoCherries  Rule = "two_cherries"
	RuleLeftCherries Rule = "left_cherries"
)

// Mode is the number of lines scored per spin.
type Mode int

const (
	SingleLine Mode = 1
	MultiLine  Mode = 3
)

// ParseMode accepts a line count of 1 or 3.
func ParseMode(lines int) (Mode, error) {
	switch Mode(lines) {
	case SingleLine, MultiLine:
		return Mode(lines), nil
	}
	return 0, fmt.Errorf("line count %d not supported, want 1 or 3: %w", lines, ErrInvalidArgument)
}

func (m Mode) String() string {
	switch m {
	case SingleLine:
		return "single"
	case MultiLine:
		return "multi"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Table maps a symbol to its three-of-a-kind multiplier.
type Table map[reel.Symbol]int

// ClassicTable is the machine's pay table.
var ClassicTable = Table{
	reel.Seven:  100,
	reel.Star:   50,
	reel.Bell:   20,
	reel.Lemon:  10,
	reel.Orange: 10,
	reel.Cherry: 10,
}

// Multiplier returns the three-of-a-kind multiplier for sym, 0 if sym is not listed.
func (t Table) Multiplier(sym reel.Symbol) int {
	return t[sym]
}

// LineWin is one paying line.
type LineWin struct {
	Row    int    `json:"row"`
	Payout int    `json:"payout"`
	Reason string `json:"reason"`
	Rule   Rule   `json:"rule"`
}

// Result is the scored outcome of one grid.
type Result struct {
	Mode        Mode      `json:"lines"`
	Total       int       `json:"total"`
	Wins        []LineWin `json:"wins"`
	WinningRows []int     `json:"winningRows"`
}

// Evaluator scores lines against a pay table. It holds no mutable state.
type Evaluator struct {
	table Table
}

// NewEvaluator returns an evaluator for table. A nil table uses ClassicTable.
func NewEvaluator(table Table) *Evaluator {
	if table == nil {
		table = ClassicTable
	}
	return &Evaluator{table: table}
}

// Table returns the evaluator's pay table.
func (e *Evaluator) Table() Table {
	return e.table
}

// MaxMultiplier is the largest total payout of one spin in mode, in units of the bet.
func (e *Evaluator) MaxMultiplier(mode Mode) int {
	line := CherryPairMultiplier
	if mode == MultiLine {
		line = LeftCherriesMultiplier
	}
	for _, m := range e.table {
		if m > line {
			line = m
		}
	}
	if mode == MultiLine {
		return line * len(reel.Grid{})
	}
	return line
}

// MaxBet is the largest bet whose best possible payout in mode fits in an int.
func (e *Evaluator) MaxBet(mode Mode) int {
	return math.MaxInt / e.MaxMultiplier(mode)
}

// ValidateBet rejects a bet that is not positive or above MaxBet(mode).
func (e *Evaluator) ValidateBet(bet int, mode Mode) error {
	if bet <= 0 {
		return fmt.Errorf("bet %d must be positive: %w", bet, ErrInvalidArgument)
	}
	if limit := e.MaxBet(mode); bet > limit {
		return fmt.Errorf("bet %d above limit %d: %w", bet, limit, ErrInvalidArgument)
	}
	return nil
}

// EvaluateSingleLine scores line as the only line in play. The reason is empty when
// the line pays nothing. A bet below 1 pays nothing.
func (e *Evaluator) EvaluateSingleLine(line reel.Line, bet int) (int, string) {
	win, ok := e.singleLine(line, bet)
	if !ok {
		return 0, ""
	}
	return win.Payout, win.Reason
}

func (e *Evaluator) singleLine(line reel.Line, bet int) (LineWin, bool) {
	if bet <= 0 {
		return LineWin{}, false
	}
	if win, matched := e.threeOfAKind(line, bet); matched {
		return win, win.Payout > 0
	}
	cherries := 0
	for _, s := range line {
		if s == reel.Cherry {
			cherries++
		}
	}
	if cherries == 2 {
		return LineWin{
			Payout: bet * CherryPairMultiplier,
			Reason: "two cherries",
			Rule:   RuleTwoCherries,
		}, true
	}
	return LineWin{}, false
}

// EvaluateMultiLine scores every row of grid and returns the sum with one LineWin per
// paying row, in row order. A bet below 1 pays nothing.
func (e *Evaluator) EvaluateMultiLine(grid reel.Grid, bet int) (int, []LineWin) {
	var (
		total int
		wins  []LineWin
	)
	for row, line := range grid {
		win, ok := e.multiLine(line, bet)
		if !ok {
			continue
		}
		win.Row = row
		total += win.Payout
		wins = append(wins, win)
	}
	return total, wins
}

func (e *Evaluator) multiLine(line reel.Line, bet int) (LineWin, bool) {
	if bet <= 0 {
		return LineWin{}, false
	}
	if win, matched := e.threeOfAKind(line, bet); matched {
		return win, win.Payout > 0
	}
	if line[0] == reel.Cherry && line[1] == reel.Cherry {
		return LineWin{
			Payout: bet * LeftCherriesMultiplier,
			Reason: "two cherries on the left",
			Rule:   RuleLeftCherries,
		}, true
	}
	return LineWin{}, false
}

// threeOfAKind reports whether line is three of a kind. A matched line is settled by
// the table alone, even when the symbol is missing from it and pays 0.
func (e *Evaluator) threeOfAKind(line reel.Line, bet int) (LineWin, bool) {
	if line[0] != line[1] || line[1] != line[2] {
		return LineWin{}, false
	}
	return LineWin{
		Payout: bet * e.table.Multiplier(line[0]),
		Reason: fmt.Sprintf("%s three-of-a-kind", line[0]),
		Rule:   RuleThreeOfAKind,
	}, true
}

// Evaluate scores grid in mode. SingleLine scores the center row only. Bets above
// MaxBet(mode) may overflow; use ValidateBet first.
func (e *Evaluator) Evaluate(grid reel.Grid, bet int, mode Mode) Result {
	res := Result{Mode: mode, Wins: []LineWin{}, WinningRows: []int{}}
	switch mode {
	case MultiLine:
		total, wins := e.EvaluateMultiLine(grid, bet)
		res.Total = total
		if wins != nil {
			res.Wins = wins
		}
	default:
		if win, ok := e.singleLine(grid.Center(), bet); ok {
			win.Row = reel.CenterRow
			res.Total = win.Payout
			res.Wins = append(res.Wins, win)
		}
	}
	for _, w := range res.Wins {
		res.WinningRows = append(res.WinningRows, w.Row)
	}
	return res
}
