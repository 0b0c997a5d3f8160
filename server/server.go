package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Ashenafi-pixel/gamecrafter-slot-server/config"
	"github.com/Ashenafi-pixel/gamecrafter-slot-server/gamemath"
	"github.com/Ashenafi-pixel/gamecrafter-slot-server/payout"
	"github.com/Ashenafi-pixel/gamecrafter-slot-server/reel"
	"github.com/Ashenafi-pixel/gamecrafter-slot-server/round"
	"github.com/Ashenafi-pixel/gamecrafter-slot-server/session"
)

type Server struct {
	cfg       *config.Config
	log       *zap.Logger
	reels     *reel.Reels
	evaluator *payout.Evaluator
	sessions  *session.Store
	results   round.Ledger
	gameMath  *gamemath.Store
	router    chi.Router

	defaultMode payout.Mode // mode new sessions start in
}

// Option configures a Server.
type Option func(*Server)

// WithSource makes every session draw from src. A source that is not safe for
// concurrent use must be wrapped in reel.LockedSource.
func WithSource(src reel.Source) Option {
	return func(s *Server) { s.reels = reel.New(reel.Classic, src) }
}

// WithLedger replaces the ledger chosen from cfg.Ledger.
func WithLedger(l round.Ledger) Option {
	return func(s *Server) { s.results = l }
}

func New(cfg *config.Config, log *zap.Logger, opts ...Option) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	srv := &Server{
		cfg:       cfg,
		log:       log,
		reels:     reel.New(reel.Classic, nil),
		evaluator: payout.NewEvaluator(nil),
		gameMath:  gamemath.NewStore(cfg.DataDir),
	}
	for _, o := range opts {
		o(srv)
	}
	if srv.results == nil {
		switch cfg.Ledger {
		case config.LedgerFile:
			srv.results = round.NewResultsStore(cfg.DataDir)
		default:
			srv.results = round.Discard
		}
	}
	mode, err := payout.ParseMode(cfg.DefaultLines)
	if err != nil {
		mode = payout.SingleLine
	}
	srv.defaultMode = mode
	srv.sessions = session.NewStore(
		session.WithCoins(cfg.StartingCoins),
		session.WithBet(cfg.DefaultBet),
		session.WithMode(mode),
		session.WithReels(srv.reels),
		session.WithEvaluator(srv.evaluator),
	)
	srv.loadGameMath()
	srv.router = srv.routes()
	return srv
}

// loadGameMath computes the math sheet of every scoring mode and registers it.
func (s *Server) loadGameMath() {
	for _, mode := range []payout.Mode{payout.SingleLine, payout.MultiLine} {
		m := gamemath.Compute(s.reels.Set(), s.evaluator, mode)
		if err := s.gameMath.Register(m); err != nil {
			s.log.Warn("game math: register failed", zap.String("model_id", m.ModelID), zap.Error(err))
			continue
		}
		s.log.Info("game math registered",
			zap.String("model_id", m.ModelID),
			zap.Float64("rtp", m.Stats.ComputedRTP),
			zap.Float64("hit_rate", m.Stats.HitRate),
		)
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         60 * 15,
	}))
	r.Use(s.requestLogger)

	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/slot", func(rr chi.Router) {
		rr.Get("/paytable", s.handlePaytable)
		rr.Get("/math", s.handleMathList)
		rr.Get("/math/{modelID}", s.handleMath)
		rr.Post("/evaluate", s.handleEvaluate)
		rr.Post("/sessions", s.handleCreateSession)
		rr.Get("/sessions/{id}", s.handleGetSession)
		rr.Delete("/sessions/{id}", s.handleDeleteSession)
		rr.Post("/sessions/{id}/spin", s.handleSpin)
	})
	return r
}

// Handler exposes the router, mostly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Port
	if port <= 0 {
		port = 8081
	}
	hs := &http.Server{
		Addr:              ":" + strconv.Itoa(port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("slot server listening", zap.String("addr", hs.Addr), zap.String("ledger", s.cfg.Ledger))
		errc <- hs.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// requestLogger logs method, path, status and latency for each request (no body or secrets).
func (s *Server) requestLogger(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		h.ServeHTTP(ww, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"service":  "slot",
		"sessions": s.sessions.Len(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
