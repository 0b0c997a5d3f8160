package round

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Ashenafi-pixel/gamecrafter-slot-server/payout"
	"github.com/Ashenafi-pixel/gamecrafter-slot-server/session"
)

// SpinRecord is the audit copy of one resolved spin. Records are written, never used
// to restore a session.
type SpinRecord struct {
	SpinID            string           `json:"spinId"`
	SessionID         string           `json:"sessionId"`
	Lines             int              `json:"lines"`
	Stops             [3]int           `json:"stops"`
	Symbols           [3][3]string     `json:"symbols"`
	Bet               int              `json:"bet"`
	Payout            int              `json:"payout"`
	Wins              []payout.LineWin `json:"wins,omitempty"`
	BalanceBefore     int              `json:"balanceBefore"`
	BalanceAfterDebit int              `json:"balanceAfterDebit"`
	BalanceAfter      int              `json:"balanceAfter"`
	SettledAt         time.Time        `json:"settledAt"`
}

// NewSpinRecord copies the audit fields out of a spin outcome.
func NewSpinRecord(o *session.Outcome) *SpinRecord {
	r := &SpinRecord{
		SpinID:            o.SpinID,
		SessionID:         o.SessionID,
		Lines:             int(o.Mode),
		Stops:             o.Stops,
		Bet:               o.Bet,
		Payout:            o.TotalPayout,
		Wins:              o.Wins,
		BalanceBefore:     o.BalanceBefore,
		BalanceAfterDebit: o.BalanceAfterDebit,
		BalanceAfter:      o.Balance,
		SettledAt:         o.At,
	}
	for row := range o.Grid {
		for col, sym := range o.Grid[row] {
			r.Symbols[row][col] = string(sym)
		}
	}
	return r
}

// Ledger receives every settled spin.
type Ledger interface {
	Append(ctx context.Context, r *SpinRecord) error
}

// Discard is a Ledger that drops records.
var Discard Ledger = discard{}

type discard struct{}

func (discard) Append(context.Context, *SpinRecord) error { return nil }

// ResultsStore appends settled spins to data/spin_results.json.
type ResultsStore struct {
	mu      sync.Mutex
	dataDir string
}

func NewResultsStore(dataDir string) *ResultsStore {
	if dataDir == "" {
		dataDir = "data"
	}
	return &ResultsStore{dataDir: dataDir}
}

func (rs *ResultsStore) path() string {
	return filepath.Join(rs.dataDir, "spin_results.json")
}

func (rs *ResultsStore) ensureDir() error {
	return os.MkdirAll(rs.dataDir, 0755)
}

func (rs *ResultsStore) readLocked() ([]*SpinRecord, error) {
	data, err := os.ReadFile(rs.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var list []*SpinRecord
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Append adds a settled spin to the JSON file (append to array).
func (rs *ResultsStore) Append(_ context.Context, r *SpinRecord) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if err := rs.ensureDir(); err != nil {
		return err
	}
	list, err := rs.readLocked()
	if err != nil {
		return err
	}
	list = append(list, r)
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(rs.path(), data, 0644)
}

// GetBySpinID returns a settled spin by ID, or nil if it was never recorded.
func (rs *ResultsStore) GetBySpinID(spinID string) (*SpinRecord, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	list, err := rs.readLocked()
	if err != nil {
		return nil, err
	}
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].SpinID == spinID {
			return list[i], nil
		}
	}
	return nil, nil
}

// ListBySession returns a session's spins in the order they settled.
func (rs *ResultsStore) ListBySession(sessionID string) ([]*SpinRecord, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	list, err := rs.readLocked()
	if err != nil {
		return nil, err
	}
	out := []*SpinRecord{}
	for _, r := range list {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}
