package session

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ashenafi-pixel/gamecrafter-slot-server/payout"
	"github.com/Ashenafi-pixel/gamecrafter-slot-server/reel"
)

const (
	// DefaultCoins is the balance a new session starts with.
	DefaultCoins = 100
	// DefaultBet is the coins wagered per spin when none is given.
	DefaultBet = 10
	// MaxCoins caps the starting balance accepted from clients.
	MaxCoins = 1_000_000_000
)

var (
	// ErrInsufficientBalance is matched by *InsufficientBalanceError.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInvalidBet is returned for a bet that is not positive.
	ErrInvalidBet = fmt.Errorf("bet must be positive: %w", reel.ErrInvalidArgument)
	// ErrBalanceLimit is returned when the best possible payout would not fit in the
	// balance.
	ErrBalanceLimit = fmt.Errorf("balance too large for this bet: %w", reel.ErrInvalidArgument)
)

// InsufficientBalanceError is returned when a spin is refused. The session is left
// untouched.
type InsufficientBalanceError struct {
	Balance int
	Bet     int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %d coins, bet is %d", e.Balance, e.Bet)
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// Outcome is one resolved spin.
type Outcome struct {
	SpinID            string           `json:"spinId"`
	SessionID         string           `json:"sessionId"`
	Stops             reel.Stops       `json:"stops"`
	Grid              reel.Grid        `json:"grid"`
	Mode              payout.Mode      `json:"lines"`
	Bet               int              `json:"bet"`
	Wins              []payout.LineWin `json:"wins"`
	WinningRows       []int            `json:"winningRows"`
	TotalPayout       int              `json:"totalPayout"`
	BalanceBefore     int              `json:"balanceBefore"`
	BalanceAfterDebit int              `json:"balanceAfterDebit"`
	Balance           int              `json:"balance"`
	At                time.Time        `json:"at"`
}

// Snapshot is a point-in-time copy of a session's state.
type Snapshot struct {
	ID       string      `json:"id"`
	Balance  int         `json:"balance"`
	Bet      int         `json:"bet"`
	Mode     payout.Mode `json:"lines"`
	CanSpin  bool        `json:"canSpin"`
	Spins    int         `json:"spins"`
	Wagered  int         `json:"wagered"`
	Paid     int         `json:"paid"`
	Created  time.Time   `json:"createdAt"`
	LastSpin *time.Time  `json:"lastSpinAt,omitempty"`
}

// Session holds one player's coin balance and spins the reels for it. Spins on the
// same session are serialized.
type Session struct {
	mu        sync.Mutex
	id        string
	balance   int
	bet       int
	mode      payout.Mode
	reels     *reel.Reels
	evaluator *payout.Evaluator
	spins     int
	wagered   int
	paid      int
	created   time.Time
	lastSpin  time.Time
	now       func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithCoins sets the starting balance. Negative values are ignored.
func WithCoins(coins int) Option {
	return func(s *Session) {
		if coins >= 0 {
			s.balance = coins
		}
	}
}

// WithBet sets the current bet. Values below 1 are ignored.
func WithBet(bet int) Option {
	return func(s *Session) {
		if bet > 0 {
			s.bet = bet
		}
	}
}

// WithMode selects the scoring mode. Modes other than SingleLine and MultiLine are
// ignored.
func WithMode(m payout.Mode) Option {
	return func(s *Session) {
		if _, err := payout.ParseMode(int(m)); err == nil {
			s.mode = m
		}
	}
}

// WithReels replaces the reels, typically to inject a seeded source.
func WithReels(r *reel.Reels) Option {
	return func(s *Session) { s.reels = r }
}

// WithEvaluator replaces the payout evaluator.
func WithEvaluator(e *payout.Evaluator) Option {
	return func(s *Session) { s.evaluator = e }
}

// WithID sets the session ID instead of generating one.
func WithID(id string) Option {
	return func(s *Session) { s.id = id }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New returns a session with DefaultCoins, DefaultBet, single-line scoring on the
// classic strips and a crypto-backed source, before opts are applied.
func New(opts ...Option) *Session {
	s := &Session{
		balance: DefaultCoins,
		bet:     DefaultBet,
		mode:    payout.SingleLine,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.id == "" {
		s.id = uuid.New().String()
	}
	if s.reels == nil {
		s.reels = reel.New(reel.Classic, nil)
	}
	if s.evaluator == nil {
		s.evaluator = payout.NewEvaluator(nil)
	}
	s.created = s.now()
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) Balance() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

func (s *Session) Bet() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bet
}

func (s *Session) Mode() payout.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode switches scoring mode for the following spins.
func (s *Session) SetMode(m payout.Mode) error {
	if _, err := payout.ParseMode(int(m)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = m
	return nil
}

// CanSpin reports whether the balance covers the current bet.
func (s *Session) CanSpin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance >= s.bet
}

// TrySpin plays one spin at bet in the current mode. See SpinWith.
func (s *Session) TrySpin(bet int) (*Outcome, error) {
	if bet <= 0 {
		return nil, ErrInvalidBet
	}
	return s.SpinWith(bet, 0)
}

// Spin plays one spin at the current bet.
func (s *Session) Spin() (*Outcome, error) {
	return s.SpinWith(0, 0)
}

// SpinWith plays one spin. A zero bet or mode keeps the session's current one; both
// are resolved under the same lock as the spin and become current only if it is
// played. The bet is debited before the reels are drawn and the payout credited
// after evaluation; Outcome carries the balance at each step. A refused spin
// returns *InsufficientBalanceError and changes nothing.
func (s *Session) SpinWith(bet int, mode payout.Mode) (*Outcome, error) {
	if bet < 0 {
		return nil, ErrInvalidBet
	}
	if mode != 0 {
		if _, err := payout.ParseMode(int(mode)); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if bet == 0 {
		bet = s.bet
	}
	if mode == 0 {
		mode = s.mode
	}
	if err := s.evaluator.ValidateBet(bet, mode); err != nil {
		return nil, err
	}
	if s.balance < bet {
		return nil, &InsufficientBalanceError{Balance: s.balance, Bet: bet}
	}
	if s.balance-bet > math.MaxInt-bet*s.evaluator.MaxMultiplier(mode) {
		return nil, ErrBalanceLimit
	}
	s.bet = bet
	s.mode = mode

	before := s.balance
	s.balance -= bet
	afterDebit := s.balance

	stops := s.reels.DrawStops()
	grid := s.reels.Grid(stops)
	res := s.evaluator.Evaluate(grid, bet, mode)

	s.balance += res.Total
	s.spins++
	s.wagered += bet
	s.paid += res.Total
	s.lastSpin = s.now()

	return &Outcome{
		SpinID:            uuid.New().String(),
		SessionID:         s.id,
		Stops:             stops,
		Grid:              grid,
		Mode:              mode,
		Bet:               bet,
		Wins:              res.Wins,
		WinningRows:       res.WinningRows,
		TotalPayout:       res.Total,
		BalanceBefore:     before,
		BalanceAfterDebit: afterDebit,
		Balance:           s.balance,
		At:                s.lastSpin,
	}, nil
}

// Snapshot copies the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		ID:      s.id,
		Balance: s.balance,
		Bet:     s.bet,
		Mode:    s.mode,
		CanSpin: s.balance >= s.bet,
		Spins:   s.spins,
		Wagered: s.wagered,
		Paid:    s.paid,
		Created: s.created,
	}
	if !s.lastSpin.IsZero() {
		t := s.lastSpin
		snap.LastSpin = &t
	}
	return snap
}
