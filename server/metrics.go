package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const labelLines = "lines"

// Metric names: slot_<name>, labelled by line count where it applies.
var (
	spinsTotal   = newCounter("slot_spins_total", "Spins resolved.")
	refusedTotal = newCounter("slot_spins_refused_total", "Spins refused for insufficient balance.")
	coinsWagered = newCounter("slot_coins_wagered_total", "Coins debited as bets.")
	coinsPaid    = newCounter("slot_coins_paid_total", "Coins credited as payouts.")
	lineWins     = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slot_line_wins_total",
		Help: "Paying lines by rule.",
	}, []string{labelLines, "rule"})
	sessionsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slot_sessions_opened_total",
		Help: "Sessions created.",
	})
)

func newCounter(name, help string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{Name: name, Help: help}, []string{labelLines})
}
