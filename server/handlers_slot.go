package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Ashenafi-pixel/gamecrafter-slot-server/payout"
	"github.com/Ashenafi-pixel/gamecrafter-slot-server/reel"
	"github.com/Ashenafi-pixel/gamecrafter-slot-server/round"
	"github.com/Ashenafi-pixel/gamecrafter-slot-server/session"
)

// decodeBody decodes an optional JSON body into v. An empty body leaves v untouched.
func decodeBody(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

type paytableSymbol struct {
	Symbol     reel.Symbol `json:"symbol"`
	Glyph      string      `json:"glyph"`
	Multiplier int         `json:"multiplier"`
}

type paytableResponse struct {
	Symbols                []paytableSymbol `json:"symbols"`
	Strips                 [][]reel.Symbol  `json:"strips"`
	CherryPairMultiplier   int              `json:"cherryPairMultiplier"`
	LeftCherriesMultiplier int              `json:"leftCherriesMultiplier"`
	Lines                  []int            `json:"lines"`
}

func (s *Server) handlePaytable(w http.ResponseWriter, r *http.Request) {
	resp := paytableResponse{
		CherryPairMultiplier:   payout.CherryPairMultiplier,
		LeftCherriesMultiplier: payout.LeftCherriesMultiplier,
		Lines:                  []int{int(payout.SingleLine), int(payout.MultiLine)},
	}
	for _, sym := range reel.Symbols {
		resp.Symbols = append(resp.Symbols, paytableSymbol{
			Symbol:     sym,
			Glyph:      sym.Glyph(),
			Multiplier: s.evaluator.Table().Multiplier(sym),
		})
	}
	for _, strip := range s.reels.Set() {
		resp.Strips = append(resp.Strips, append([]reel.Symbol(nil), strip[:]...))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMathList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.gameMath.List())
}

func (s *Server) handleMath(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "modelID")
	m := s.gameMath.Get(id)
	if m == nil {
		writeError(w, http.StatusNotFound, "unknown model "+id, codeNotFound)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

type evaluateRequest struct {
	Bet   int        `json:"bet"`
	Lines int        `json:"lines"`
	Grid  [][]string `json:"grid"`
}

// handleEvaluate scores a caller-supplied grid without touching any balance.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body", codeInvalidArgument)
		return
	}
	if req.Lines == 0 {
		req.Lines = int(payout.SingleLine)
	}
	mode, err := payout.ParseMode(req.Lines)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	if err := s.evaluator.ValidateBet(req.Bet, mode); err != nil {
		writeEngineError(w, err)
		return
	}
	rows := make([][]reel.Symbol, len(req.Grid))
	for i, row := range req.Grid {
		rows[i] = make([]reel.Symbol, len(row))
		for j, v := range row {
			sym, err := reel.ParseSymbol(v)
			if err != nil {
				writeEngineError(w, fmt.Errorf("grid[%d][%d]: %w", i, j, err))
				return
			}
			rows[i][j] = sym
		}
	}
	grid, err := reel.NewGrid(rows)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.evaluator.Evaluate(grid, req.Bet, mode))
}

type createSessionRequest struct {
	Coins *int `json:"coins"`
	Bet   *int `json:"bet"`
	Lines *int `json:"lines"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body", codeInvalidArgument)
		return
	}
	var opts []session.Option
	if req.Coins != nil {
		if *req.Coins < 0 || *req.Coins > session.MaxCoins {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("coins must be between 0 and %d", session.MaxCoins), codeInvalidArgument)
			return
		}
		opts = append(opts, session.WithCoins(*req.Coins))
	}
	mode := s.defaultMode
	if req.Lines != nil {
		m, err := payout.ParseMode(*req.Lines)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		mode = m
		opts = append(opts, session.WithMode(mode))
	}
	if req.Bet != nil {
		if err := s.evaluator.ValidateBet(*req.Bet, mode); err != nil {
			writeEngineError(w, err)
			return
		}
		opts = append(opts, session.WithBet(*req.Bet))
	}
	sess := s.sessions.Create(opts...)
	sessionsOpened.Inc()
	s.log.Info("session opened", zap.String("session_id", sess.ID()), zap.Int("coins", sess.Balance()))
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	sess, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found", codeNotFound)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.Delete(id) {
		writeError(w, http.StatusNotFound, "session not found", codeNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type spinRequest struct {
	Bet   *int `json:"bet"`
	Lines *int `json:"lines"`
}

type spinResponse struct {
	*session.Outcome
	Glyphs  [3][reel.Count]string `json:"glyphs"`
	Message string                `json:"message"`
}

func (s *Server) handleSpin(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req spinRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body", codeInvalidArgument)
		return
	}
	// zero keeps the session's current bet or mode
	var (
		bet  int
		mode payout.Mode
	)
	if req.Bet != nil {
		if *req.Bet <= 0 {
			writeEngineError(w, session.ErrInvalidBet)
			return
		}
		bet = *req.Bet
	}
	if req.Lines != nil {
		m, err := payout.ParseMode(*req.Lines)
		if err != nil {
			writeEngineError(w, err)
			return
		}
		mode = m
	}

	out, err := sess.SpinWith(bet, mode)
	if err != nil {
		if errors.Is(err, session.ErrInsufficientBalance) {
			if mode == 0 {
				mode = sess.Mode()
			}
			refusedTotal.WithLabelValues(strconv.Itoa(int(mode))).Inc()
		}
		writeEngineError(w, err)
		return
	}
	lines := strconv.Itoa(int(out.Mode))
	spinsTotal.WithLabelValues(lines).Inc()
	coinsWagered.WithLabelValues(lines).Add(float64(out.Bet))
	coinsPaid.WithLabelValues(lines).Add(float64(out.TotalPayout))
	for _, win := range out.Wins {
		lineWins.WithLabelValues(lines, string(win.Rule)).Inc()
	}

	if err := s.results.Append(r.Context(), round.NewSpinRecord(out)); err != nil {
		s.log.Error("ledger append failed", zap.String("spin_id", out.SpinID), zap.Error(err))
	}
	s.log.Debug("spin",
		zap.String("session_id", out.SessionID),
		zap.String("spin_id", out.SpinID),
		zap.Ints("stops", out.Stops[:]),
		zap.Int("bet", out.Bet),
		zap.Int("payout", out.TotalPayout),
		zap.Int("balance", out.Balance),
	)

	resp := spinResponse{Outcome: out, Message: "no win"}
	for row := range out.Grid {
		for col, sym := range out.Grid[row] {
			resp.Glyphs[row][col] = sym.Glyph()
		}
	}
	if out.TotalPayout > 0 {
		resp.Message = fmt.Sprintf("win %d coins", out.TotalPayout)
	}
	writeJSON(w, http.StatusOK, resp)
}
