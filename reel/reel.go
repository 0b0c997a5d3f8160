package reel

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks malformed input: a strip index outside 0..2, a line or
// grid of the wrong shape, an unknown symbol name.
var ErrInvalidArgument = errors.New("invalid argument")

// Symbol is a reel symbol.
type Symbol string

const (
	Seven  Symbol = "seven"
	Star   Symbol = "star"
	Bell   Symbol = "bell"
	Lemon  Symbol = "lemon"
	Orange Symbol = "orange"
	Cherry Symbol = "cherry"
)

// Symbols lists every symbol in pay order (highest first).
var Symbols = []Symbol{Seven, Star, Bell, Lemon, Orange, Cherry}

var glyphs = map[Symbol]string{
	Seven:  "７",
	Star:   "⭐",
	Bell:   "🔔",
	Lemon:  "🍋",
	Orange: "🍊",
	Cherry: "🍒",
}

// Glyph returns the symbol as it is printed on the reel face.
func (s Symbol) Glyph() string {
	if g, ok := glyphs[s]; ok {
		return g
	}
	return string(s)
}

// ParseSymbol accepts a symbol name ("cherry") or its glyph ("🍒").
func ParseSymbol(v string) (Symbol, error) {
	for _, s := range Symbols {
		if v == string(s) || v == glyphs[s] {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown symbol %q: %w", v, ErrInvalidArgument)
}

const (
	// StripLen is the number of symbols on every strip.
	StripLen = 12
	// Count is the number of reels.
	Count = 3
)

// Strip is one reel's circular symbol sequence.
type Strip [StripLen]Symbol

// Set holds the strips of all reels, column order.
type Set [Count]Strip

// Classic is the machine's fixed strip set. Cherries are the most frequent symbol,
// one seven per strip.
var Classic = Set{
	{Seven, Bell, Orange, Cherry, Star, Lemon, Cherry, Bell, Cherry, Orange, Cherry, Lemon},
	{Cherry, Lemon, Seven, Cherry, Bell, Orange, Cherry, Star, Lemon, Cherry, Bell, Orange},
	{Star, Cherry, Lemon, Bell, Orange, Cherry, Lemon, Seven, Cherry, Bell, Orange, Cherry},
}

// Stops are the resting positions of the reels after a spin, one per reel.
type Stops [Count]int

// Window is what one reel shows: the row above, the center row and the row below.
type Window [3]Symbol

// Line is one row of the grid, one symbol per reel.
type Line [Count]Symbol

// NewLine builds a line from exactly Count symbols.
func NewLine(symbols ...Symbol) (Line, error) {
	var l Line
	if len(symbols) != Count {
		return l, fmt.Errorf("line has %d symbols, want %d: %w", len(symbols), Count, ErrInvalidArgument)
	}
	copy(l[:], symbols)
	return l, nil
}

// Grid is the visible 3x3 area, indexed [row][column]. Row 1 is the center line.
type Grid [3]Line

// CenterRow is the row index of the center line.
const CenterRow = 1

// NewGrid builds a grid from 3 rows of Count symbols each.
func NewGrid(rows [][]Symbol) (Grid, error) {
	var g Grid
	if len(rows) != len(g) {
		return g, fmt.Errorf("grid has %d rows, want %d: %w", len(rows), len(g), ErrInvalidArgument)
	}
	for i, row := range rows {
		l, err := NewLine(row...)
		if err != nil {
			return g, fmt.Errorf("row %d: %w", i, err)
		}
		g[i] = l
	}
	return g, nil
}

// Center returns the center line.
func (g Grid) Center() Line {
	return g[CenterRow]
}

// WindowAt returns the symbols visible on strip at stop. Any integer stop is accepted
// and wrapped around the strip.
func (s *Set) WindowAt(strip, stop int) (Window, error) {
	if strip < 0 || strip >= Count {
		return Window{}, fmt.Errorf("strip index %d out of range [0,%d): %w", strip, Count, ErrInvalidArgument)
	}
	return s.window(strip, stop), nil
}

func (s *Set) window(strip, stop int) Window {
	var w Window
	for off := -1; off <= 1; off++ {
		w[off+1] = s[strip][wrap(stop+off)]
	}
	return w
}

// Grid builds the visible grid for stops.
func (s *Set) Grid(stops Stops) Grid {
	var g Grid
	for col := 0; col < Count; col++ {
		w := s.window(col, stops[col])
		for row := range w {
			g[row][col] = w[row]
		}
	}
	return g
}

func wrap(i int) int {
	i %= StripLen
	if i < 0 {
		i += StripLen
	}
	return i
}

// Reels draws stop positions for a strip set.
type Reels struct {
	set Set
	src Source
}

// New returns reels over set drawing from src. A nil src uses CryptoSource.
func New(set Set, src Source) *Reels {
	if src == nil {
		src = CryptoSource{}
	}
	return &Reels{set: set, src: src}
}

// Set returns the strips the reels were built with.
func (r *Reels) Set() Set {
	return r.set
}

// DrawStops picks a uniform stop for every reel, independently.
func (r *Reels) DrawStops() Stops {
	var st Stops
	for i := range st {
		st[i] = r.src.IntN(StripLen)
	}
	return st
}

// WindowAt is Set.WindowAt on the reels' strips.
func (r *Reels) WindowAt(strip, stop int) (Window, error) {
	return r.set.WindowAt(strip, stop)
}

// Grid is Set.Grid on the reels' strips.
func (r *Reels) Grid(stops Stops) Grid {
	return r.set.Grid(stops)
}
