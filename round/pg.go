package round

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Ashenafi-pixel/gamecrafter-slot-server/payout"
)

const createSpinsTable = `CREATE TABLE IF NOT EXISTS slot_spins (
	spin_id             TEXT PRIMARY KEY,
	session_id          TEXT NOT NULL,
	lines               SMALLINT NOT NULL,
	stops               JSONB NOT NULL,
	symbols             JSONB NOT NULL,
	bet                 INTEGER NOT NULL,
	payout              INTEGER NOT NULL,
	wins                JSONB NOT NULL,
	balance_before      INTEGER NOT NULL,
	balance_after_debit INTEGER NOT NULL,
	balance_after       INTEGER NOT NULL,
	settled_at          TIMESTAMPTZ NOT NULL
)`

const insertSpin = `INSERT INTO slot_spins (spin_id, session_id, lines, stops, symbols, bet, payout, wins,
	balance_before, balance_after_debit, balance_after, settled_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (spin_id) DO NOTHING`

// PGLedger writes settled spins to the slot_spins table.
type PGLedger struct {
	db *sql.DB
}

func NewPGLedger(db *sql.DB) *PGLedger {
	return &PGLedger{db: db}
}

// EnsureSchema creates slot_spins if it does not exist.
func (l *PGLedger) EnsureSchema(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, createSpinsTable); err != nil {
		return fmt.Errorf("create slot_spins: %w", err)
	}
	return nil
}

func (l *PGLedger) Append(ctx context.Context, r *SpinRecord) error {
	stops, err := json.Marshal(r.Stops)
	if err != nil {
		return err
	}
	symbols, err := json.Marshal(r.Symbols)
	if err != nil {
		return err
	}
	wins := r.Wins
	if wins == nil {
		wins = []payout.LineWin{}
	}
	winsJSON, err := json.Marshal(wins)
	if err != nil {
		return err
	}
	_, err = l.db.ExecContext(ctx, insertSpin,
		r.SpinID, r.SessionID, r.Lines, string(stops), string(symbols), r.Bet, r.Payout, string(winsJSON),
		r.BalanceBefore, r.BalanceAfterDebit, r.BalanceAfter, r.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("insert spin %s: %w", r.SpinID, err)
	}
	return nil
}
