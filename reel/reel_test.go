package reel

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

func TestDrawStops_Bounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Uint64().Draw(t, "seed")
		r := New(Classic, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
		for i := 0; i < 50; i++ {
			for reel, st := range r.DrawStops() {
				if st < 0 || st >= StripLen {
					t.Fatalf("reel %d stop %d out of [0,%d)", reel, st, StripLen)
				}
			}
		}
	})
}

func TestDrawStops_CryptoSourceBounds(t *testing.T) {
	r := New(Classic, nil)
	for i := 0; i < 1000; i++ {
		for reel, st := range r.DrawStops() {
			if st < 0 || st >= StripLen {
				t.Fatalf("reel %d stop %d out of range", reel, st)
			}
		}
	}
}

func TestDrawStops_Uniform(t *testing.T) {
	r := New(Classic, rand.New(rand.NewPCG(1, 2)))
	const rounds = 120_000
	var count [Count][StripLen]int
	for i := 0; i < rounds; i++ {
		for reel, st := range r.DrawStops() {
			count[reel][st]++
		}
	}
	want := float64(rounds) / StripLen
	for reel := range count {
		for st, n := range count[reel] {
			if d := float64(n) - want; d > want*0.05 || d < -want*0.05 {
				t.Errorf("reel %d stop %d drawn %d times, want ~%.0f", reel, st, n, want)
			}
		}
	}
}

func TestWindowAt_Wraparound(t *testing.T) {
	tests := []struct {
		name  string
		strip int
		stop  int
		want  Window
	}{
		{"first stop wraps above", 0, 0, Window{Lemon, Seven, Bell}},
		{"last stop wraps below", 0, StripLen - 1, Window{Cherry, Lemon, Seven}},
		{"middle", 1, 5, Window{Bell, Orange, Cherry}},
		{"negative stop", 2, -1, Window{Orange, Cherry, Star}},
		{"stop past the end", 2, StripLen, Window{Cherry, Star, Cherry}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classic.WindowAt(tt.strip, tt.stop)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("WindowAt(%d, %d) mismatch (-want +got):\n%s", tt.strip, tt.stop, diff)
			}
		})
	}
}

func TestWindowAt_MatchesStrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		strip := rapid.IntRange(0, Count-1).Draw(t, "strip")
		stop := rapid.IntRange(-1000, 1000).Draw(t, "stop")
		got, err := Classic.WindowAt(strip, stop)
		if err != nil {
			t.Fatal(err)
		}
		mod := func(i int) int { return ((i % StripLen) + StripLen) % StripLen }
		want := Window{
			Classic[strip][mod(stop-1)],
			Classic[strip][mod(stop)],
			Classic[strip][mod(stop+1)],
		}
		if got != want {
			t.Fatalf("WindowAt(%d, %d) = %v, want %v", strip, stop, got, want)
		}
	})
}

func TestWindowAt_InvalidStrip(t *testing.T) {
	for _, strip := range []int{-1, Count, 10} {
		if _, err := Classic.WindowAt(strip, 0); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("WindowAt(%d, 0) err = %v, want ErrInvalidArgument", strip, err)
		}
	}
}

func TestGrid_ZeroStops(t *testing.T) {
	got := Classic.Grid(Stops{0, 0, 0})
	want := Grid{
		{Lemon, Orange, Cherry},
		{Seven, Cherry, Star},
		{Bell, Lemon, Cherry},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Grid mismatch (-want +got):\n%s", diff)
	}
	if got.Center() != (Line{Seven, Cherry, Star}) {
		t.Errorf("center = %v", got.Center())
	}
}

func TestGrid_ColumnsAreWindows(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var st Stops
		for i := range st {
			st[i] = rapid.IntRange(0, StripLen-1).Draw(t, "stop")
		}
		g := Classic.Grid(st)
		for col := 0; col < Count; col++ {
			w, _ := Classic.WindowAt(col, st[col])
			for row := range w {
				if g[row][col] != w[row] {
					t.Fatalf("grid[%d][%d] = %s, window has %s", row, col, g[row][col], w[row])
				}
			}
		}
	})
}

func TestParseSymbol(t *testing.T) {
	for _, s := range Symbols {
		if got, err := ParseSymbol(string(s)); err != nil || got != s {
			t.Errorf("ParseSymbol(%q) = %q, %v", s, got, err)
		}
		if got, err := ParseSymbol(s.Glyph()); err != nil || got != s {
			t.Errorf("ParseSymbol(%q) = %q, %v", s.Glyph(), got, err)
		}
	}
	if _, err := ParseSymbol("banana"); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("ParseSymbol(banana) err = %v", err)
	}
}

func TestNewGrid_Shape(t *testing.T) {
	if _, err := NewLine(Cherry, Cherry); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NewLine with 2 symbols err = %v", err)
	}
	if _, err := NewGrid([][]Symbol{{Seven, Seven, Seven}}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NewGrid with 1 row err = %v", err)
	}
	_, err := NewGrid([][]Symbol{
		{Seven, Seven, Seven},
		{Seven, Seven},
		{Seven, Seven, Seven},
	})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("NewGrid with short row err = %v", err)
	}
}

func TestClassic_CherryMostFrequent(t *testing.T) {
	for i, strip := range Classic {
		n := map[Symbol]int{}
		for _, s := range strip {
			n[s]++
		}
		if n[Cherry] <= n[Seven] {
			t.Errorf("strip %d: %d cherries, %d sevens", i, n[Cherry], n[Seven])
		}
	}
}
