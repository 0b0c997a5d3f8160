package round

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/Ashenafi-pixel/gamecrafter-slot-server/payout"
	"github.com/Ashenafi-pixel/gamecrafter-slot-server/reel"
	"github.com/Ashenafi-pixel/gamecrafter-slot-server/session"
)

func testOutcome(spinID, sessionID string) *session.Outcome {
	return &session.Outcome{
		SpinID:    spinID,
		SessionID: sessionID,
		Stops:     reel.Stops{3, 0, 1},
		Grid:      reel.Classic.Grid(reel.Stops{3, 0, 1}),
		Mode:      payout.SingleLine,
		Bet:       10,
		Wins: []payout.LineWin{
			{Row: 1, Payout: 100, Reason: "cherry three-of-a-kind", Rule: payout.RuleThreeOfAKind},
		},
		WinningRows:       []int{1},
		TotalPayout:       100,
		BalanceBefore:     100,
		BalanceAfterDebit: 90,
		Balance:           190,
		At:                time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestNewSpinRecord(t *testing.T) {
	r := NewSpinRecord(testOutcome("s1", "sess"))
	if r.Symbols[1] != [3]string{"cherry", "cherry", "cherry"} {
		t.Errorf("center symbols %v", r.Symbols[1])
	}
	if r.Lines != 1 || r.Payout != 100 || r.BalanceAfter != 190 || r.BalanceAfterDebit != 90 {
		t.Errorf("record %+v", r)
	}
}

func TestResultsStore_AppendGet(t *testing.T) {
	dir := t.TempDir()
	rs := NewResultsStore(dir)
	ctx := context.Background()

	if got, err := rs.GetBySpinID("missing"); err != nil || got != nil {
		t.Fatalf("GetBySpinID on empty store = %+v, %v", got, err)
	}
	for _, o := range []*session.Outcome{
		testOutcome("s1", "a"),
		testOutcome("s2", "b"),
		testOutcome("s3", "a"),
	} {
		if err := rs.Append(ctx, NewSpinRecord(o)); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "spin_results.json")); err != nil {
		t.Fatal(err)
	}
	got, err := rs.GetBySpinID("s2")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(NewSpinRecord(testOutcome("s2", "b")), got); diff != "" {
		t.Errorf("GetBySpinID mismatch (-want +got):\n%s", diff)
	}
	list, err := rs.ListBySession("a")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].SpinID != "s1" || list[1].SpinID != "s3" {
		t.Errorf("ListBySession(a) = %+v", list)
	}
}

func TestResultsStore_ReopenKeepsRecords(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	if err := NewResultsStore(dir).Append(ctx, NewSpinRecord(testOutcome("s1", "a"))); err != nil {
		t.Fatal(err)
	}
	rs := NewResultsStore(dir)
	if err := rs.Append(ctx, NewSpinRecord(testOutcome("s2", "a"))); err != nil {
		t.Fatal(err)
	}
	list, err := rs.ListBySession("a")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Errorf("got %d records, want 2", len(list))
	}
}

func TestDiscard(t *testing.T) {
	if err := Discard.Append(context.Background(), NewSpinRecord(testOutcome("x", "y"))); err != nil {
		t.Error(err)
	}
}
