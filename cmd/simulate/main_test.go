package main

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Ashenafi-pixel/gamecrafter-slot-server/reel"
)

func TestRun_SeededIsReproducible(t *testing.T) {
	o := options{spins: 200, bet: 1, coins: 1000, lines: 3, seed: 42, verbose: true}
	var a, b bytes.Buffer
	if err := run(&a, o); err != nil {
		t.Fatal(err)
	}
	if err := run(&b, o); err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("same seed produced different runs")
	}
	for _, want := range []string{"classic3_multi", "observed RTP", "exact RTP", "#1 "} {
		if !strings.Contains(a.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRun_StopsWhenBroke(t *testing.T) {
	var buf bytes.Buffer
	if err := run(&buf, options{spins: 10, bet: 10, coins: 5, lines: 1, seed: 1}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "stopped early") || !strings.Contains(out, "end balance      : 5") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRun_RejectsBadFlags(t *testing.T) {
	tests := []struct {
		name string
		o    options
	}{
		{"zero spins", options{spins: 0, bet: 1, coins: 10, lines: 1}},
		{"zero bet", options{spins: 1, bet: 0, coins: 10, lines: 1}},
		{"two lines", options{spins: 1, bet: 1, coins: 10, lines: 2}},
		{"bet above limit", options{spins: 1, bet: math.MaxInt / 50, coins: math.MaxInt, lines: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := run(&bytes.Buffer{}, tt.o); err == nil {
				t.Error("expected an error")
			}
		})
	}
	err := run(&bytes.Buffer{}, options{spins: 1, bet: 1, coins: 10, lines: 2})
	if !errors.Is(err, reel.ErrInvalidArgument) {
		t.Errorf("lines=2: %v", err)
	}
}
