// internal/httpserver/server.go
//
// HTTP wiring for the cup game backend. This layer is thin glue: it parses
// requests, calls into the game core, persists completed sessions, and maps
// the core's error taxonomy onto HTTP status codes.
//
// Endpoints:
//   - GET  /                    service info
//   - GET  /health              liveness probe
//   - POST /api/start_game      create + start a session
//   - POST /api/play_round      submit a guess
//   - POST /api/end_game        finish a session and persist its record
//   - GET  /api/game_status     current session state (timed expiry applied)
//   - GET  /api/statistics      aggregate report over stored records
//
// Each browser gets a signed player token cookie; active sessions live in an
// in-memory registry keyed by session id and are persisted to the store on
// completion.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"cupgame/internal/game"
	"cupgame/internal/stats"
	"cupgame/internal/store"
)

// Server bundles router, session registry, shared round engine, and the
// statistics store.
type Server struct {
	r        *chi.Mux
	store    store.Store
	engine   *game.Engine
	sessions *registry
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		store:    st,
		engine:   game.NewEngine(),
		sessions: newRegistry(),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(10 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"cupgame","endpoints":["/health","POST /api/start_game","POST /api/play_round","POST /api/end_game","GET /api/game_status","GET /api/statistics"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Route("/api", func(r chi.Router) {
		r.Post("/start_game", s.handleStartGame)
		r.Post("/play_round", s.handlePlayRound)
		r.Post("/end_game", s.handleEndGame)
		r.Get("/game_status", s.handleGameStatus)
		r.Get("/statistics", s.handleStatistics)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// --------------------------- /api/start_game -------------------------------

type startGameReq struct {
	Difficulty string `json:"difficulty"`
	GameMode   string `json:"gameMode"`
	Rounds     int    `json:"rounds,omitempty"` // classic round count override
}

type startGameRes struct {
	SessionID        string   `json:"sessionId"`
	Difficulty       string   `json:"difficulty"`
	GameMode         string   `json:"gameMode"`
	Cups             []string `json:"cups"`
	TimeLimitSeconds float64  `json:"timeLimitSeconds,omitempty"`
	RoundLimit       int      `json:"roundLimit,omitempty"`
}

// handleStartGame creates and starts a session for the requesting player.
func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req startGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	profile, err := game.LookupProfile(req.Difficulty)
	if err != nil {
		writeGameError(w, err)
		return
	}
	mode, err := game.LookupMode(req.GameMode)
	if err != nil {
		writeGameError(w, err)
		return
	}

	player := s.ensurePlayerID(w, r)
	sess := game.NewSession(profile, mode,
		game.WithEngine(s.engine),
		game.WithPlayer(player),
		game.WithRounds(req.Rounds),
	)
	if err := sess.Start(); err != nil {
		writeGameError(w, err)
		return
	}
	s.sessions.put(sess)

	log.Info().
		Str("sessionId", sess.ID()).
		Str("difficulty", string(profile.Name)).
		Str("mode", string(mode)).
		Msg("session started")

	res := startGameRes{
		SessionID:  sess.ID(),
		Difficulty: string(profile.Name),
		GameMode:   string(mode),
		Cups:       profile.CupLabels,
	}
	if mode == game.ModeTimed {
		res.TimeLimitSeconds = profile.TimeLimit.Seconds()
	}
	if mode == game.ModeClassic {
		res.RoundLimit = sess.RoundLimit()
	}
	_ = json.NewEncoder(w).Encode(res)
}

// --------------------------- /api/play_round -------------------------------

type playRoundReq struct {
	SessionID string `json:"sessionId"`
	Guess     int    `json:"guess"`
}

type scoreRes struct {
	Wins   int     `json:"wins"`
	Losses int     `json:"losses"`
	Score  float64 `json:"score"`
}

type playRoundRes struct {
	Win         bool         `json:"win"`
	Target      int          `json:"target"`
	TargetCup   string       `json:"targetCup"`
	Prize       string       `json:"prize,omitempty"`
	ElapsedMs   int64        `json:"elapsedMs"`
	RoundNumber int          `json:"roundNumber"`
	Score       scoreRes     `json:"score"`
	GameOver    bool         `json:"gameOver"`
	Record      *game.Record `json:"record,omitempty"`
}

// handlePlayRound submits one guess. If the round completes the session
// (mode rule fired), the record is persisted immediately and returned.
func (s *Server) handlePlayRound(w http.ResponseWriter, r *http.Request) {
	var req playRoundReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := s.sessions.get(req.SessionID)
	if !ok {
		http.Error(w, `{"error":"no_active_game"}`, http.StatusNotFound)
		return
	}

	out, err := sess.Play(req.Guess)
	if err != nil {
		writeGameError(w, err)
		return
	}

	res := playRoundRes{
		Win:         out.Win,
		Target:      out.Target,
		TargetCup:   sess.Profile().CupLabels[out.Target],
		Prize:       out.Prize,
		ElapsedMs:   out.ElapsedMs(),
		RoundNumber: sess.Rounds(),
		Score:       scoreRes{Wins: sess.Wins(), Losses: sess.Losses(), Score: sess.Score()},
	}
	if sess.Status() == game.StatusCompleted {
		rec, err := s.persistAndDrop(r.Context(), sess)
		if err != nil {
			writeGameError(w, err)
			return
		}
		res.GameOver = true
		res.Record = &rec
	}
	_ = json.NewEncoder(w).Encode(res)
}

// --------------------------- /api/end_game ---------------------------------

type endGameReq struct {
	SessionID string `json:"sessionId"`
}

type endGameRes struct {
	Record  game.Record `json:"record"`
	WinRate float64     `json:"winRate"`
}

// handleEndGame finishes a session on the player's request and persists it.
func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	var req endGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	sess, ok := s.sessions.get(req.SessionID)
	if !ok {
		http.Error(w, `{"error":"no_active_game"}`, http.StatusNotFound)
		return
	}
	// A completed session still registered means an earlier persist failed;
	// skip End and retry the append directly.
	if sess.Status() != game.StatusCompleted {
		if err := sess.End(); err != nil {
			writeGameError(w, err)
			return
		}
	}
	rec, err := s.persistAndDrop(r.Context(), sess)
	if err != nil {
		writeGameError(w, err)
		return
	}
	rate := 0.0
	if rec.Rounds() > 0 {
		rate = float64(rec.Wins) / float64(rec.Rounds())
	}
	_ = json.NewEncoder(w).Encode(endGameRes{Record: rec, WinRate: rate})
}

// --------------------------- /api/game_status ------------------------------

type gameStatusRes struct {
	SessionID            string       `json:"sessionId"`
	Status               string       `json:"status"`
	Difficulty           string       `json:"difficulty"`
	GameMode             string       `json:"gameMode"`
	RoundNumber          int          `json:"roundNumber"`
	Score                scoreRes     `json:"score"`
	TimeRemainingSeconds float64      `json:"timeRemainingSeconds,omitempty"`
	GameOver             bool         `json:"gameOver"`
	Record               *game.Record `json:"record,omitempty"`
}

// handleGameStatus reports the state of an active session. A timed session
// whose budget ran out between requests is completed and persisted here.
func (s *Server) handleGameStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.sessions.get(r.URL.Query().Get("sessionId"))
	if !ok {
		http.Error(w, `{"error":"no_active_game"}`, http.StatusNotFound)
		return
	}

	res := gameStatusRes{
		SessionID:   sess.ID(),
		Difficulty:  string(sess.Profile().Name),
		GameMode:    string(sess.Mode()),
		RoundNumber: sess.Rounds(),
		Score:       scoreRes{Wins: sess.Wins(), Losses: sess.Losses(), Score: sess.Score()},
	}
	if sess.ExpireIfTimedOut() {
		rec, err := s.persistAndDrop(r.Context(), sess)
		if err != nil {
			writeGameError(w, err)
			return
		}
		res.GameOver = true
		res.Record = &rec
	} else if sess.Mode() == game.ModeTimed {
		res.TimeRemainingSeconds = sess.TimeRemaining().Seconds()
	}
	res.Status = string(sess.Status())
	_ = json.NewEncoder(w).Encode(res)
}

// --------------------------- /api/statistics -------------------------------

// handleStatistics queries stored records and returns the aggregate report.
// Optional query params: difficulty, mode, from, to (RFC3339).
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	f := store.Filter{
		Difficulty: game.Difficulty(r.URL.Query().Get("difficulty")),
		Mode:       game.Mode(r.URL.Query().Get("mode")),
	}
	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, `{"error":"bad_from_timestamp"}`, http.StatusBadRequest)
			return
		}
		f.From = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			http.Error(w, `{"error":"bad_to_timestamp"}`, http.StatusBadRequest)
			return
		}
		f.To = t
	}

	records, err := s.store.Query(r.Context(), f)
	if err != nil {
		log.Error().Err(err).Msg("query statistics")
		writeGameError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(stats.Summarize(records))
}

// ------------------------------ helpers ------------------------------------

// persistAndDrop appends a completed session's record and removes the
// session from the registry. On a persistence failure the session stays
// registered so the caller can retry end_game.
func (s *Server) persistAndDrop(ctx context.Context, sess *game.Session) (game.Record, error) {
	rec, err := sess.Summary()
	if err != nil {
		return game.Record{}, err
	}
	if err := s.store.Append(ctx, rec); err != nil {
		log.Error().Err(err).Str("sessionId", rec.ID).Msg("persist session record")
		return game.Record{}, err
	}
	s.sessions.drop(rec.ID)
	log.Info().
		Str("sessionId", rec.ID).
		Int("wins", rec.Wins).
		Int("losses", rec.Losses).
		Float64("durationSeconds", rec.DurationSeconds).
		Msg("session persisted")
	return rec, nil
}

// writeGameError maps the core error taxonomy onto HTTP status codes.
func writeGameError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrInvalidGuess),
		errors.Is(err, game.ErrUnknownDifficulty),
		errors.Is(err, game.ErrUnknownMode):
		status = http.StatusBadRequest
	case errors.Is(err, game.ErrInvalidSessionState):
		status = http.StatusConflict
	case errors.Is(err, store.ErrPersistence):
		status = http.StatusBadGateway
	}
	buf, _ := json.Marshal(map[string]string{"error": err.Error()})
	http.Error(w, string(buf), status)
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
