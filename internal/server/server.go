// Package server exposes the simulation core over a small JSON API. This is
// the narrow snapshot/query interface a rendering UI consumes; the UI itself
// lives elsewhere.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/san-kum/shipsim/internal/motion"
	"github.com/san-kum/shipsim/internal/ship"
	"github.com/san-kum/shipsim/internal/sim"
	"github.com/san-kum/shipsim/internal/wave"
)

// Server owns at most one live session at a time, mirroring the one-ship
// page of the UI it backs.
type Server struct {
	mu   sync.RWMutex
	orch *sim.Orchestrator
	cfg  sim.Config
	log  zerolog.Logger
}

// New builds the router. cfg parameterizes sessions created via the API;
// orch may be nil until POST /session.
func New(orch *sim.Orchestrator, cfg sim.Config, log zerolog.Logger) http.Handler {
	s := &Server{orch: orch, cfg: cfg, log: log}
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/session", s.handleCreateSession)
	r.Get("/state", s.handleState)
	r.Get("/gz", s.handleGZ)
	r.Get("/snapshot", s.handleSnapshot)
	r.Post("/tick", s.handleTick)
	r.Post("/cargo", s.handleAddCargo)
	r.Delete("/cargo/{id}", s.handleRemoveCargo)
	r.Post("/cargo/{id}/move", s.handleMoveCargo)
	r.Post("/ballast/{id}", s.handleBallast)
	r.Post("/sea", s.handleSea)

	return r
}

type seaRequest struct {
	Hs         float64 `json:"hs"`
	Tp         float64 `json:"tp"`
	Components int     `json:"components"`
	Seed       int64   `json:"seed"`
}

type sessionRequest struct {
	Hull  ship.Hull          `json:"hull"`
	Tanks []ship.BallastTank `json:"tanks"`
	Sea   *seaRequest        `json:"sea,omitempty"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "malformed body")
		return
	}

	state, err := ship.NewState(req.Hull, req.Tanks)
	if err != nil {
		writeError(w, err)
		return
	}

	var field *wave.Field
	if req.Sea != nil {
		field, err = wave.FromSeaState(req.Sea.Hs, req.Sea.Tp, req.Sea.Components, req.Sea.Seed)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid_operand", err.Error())
			return
		}
	}

	orch, err := sim.New(state, field, s.cfg)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	s.orch = orch
	s.mu.Unlock()

	s.log.Info().
		Float64("length", req.Hull.Length).
		Float64("beam", req.Hull.Beam).
		Float64("draft", req.Hull.Draft).
		Msg("session created")
	writeJSON(w, http.StatusCreated, state.Summarize())
}

func (s *Server) session(w http.ResponseWriter) *sim.Orchestrator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.orch == nil {
		writeJSONError(w, http.StatusConflict, "no_session", "create a session first")
		return nil
	}
	return s.orch
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	orch := s.session(w)
	if orch == nil {
		return
	}
	snap, err := orch.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.Ship)
}

func (s *Server) handleGZ(w http.ResponseWriter, r *http.Request) {
	orch := s.session(w)
	if orch == nil {
		return
	}
	snap, err := orch.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap.GZ)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	orch := s.session(w)
	if orch == nil {
		return
	}
	snap, err := orch.Snapshot()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	orch := s.session(w)
	if orch == nil {
		return
	}
	var req struct {
		Dt float64 `json:"dt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Dt <= 0 {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "dt must be a positive number")
		return
	}
	snap, err := orch.Tick(req.Dt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleAddCargo(w http.ResponseWriter, r *http.Request) {
	orch := s.session(w)
	if orch == nil {
		return
	}
	var req struct {
		Label   string  `json:"label"`
		Mass    float64 `json:"mass"`
		LongPos float64 `json:"longitudinal"`
		VertPos float64 `json:"vertical"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "malformed body")
		return
	}
	id, err := orch.AddCargo(req.Label, req.Mass, req.LongPos, req.VertPos)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"id": id})
}

func (s *Server) handleRemoveCargo(w http.ResponseWriter, r *http.Request) {
	orch := s.session(w)
	if orch == nil {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "cargo id must be an integer")
		return
	}
	if err := orch.RemoveCargo(id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveCargo(w http.ResponseWriter, r *http.Request) {
	orch := s.session(w)
	if orch == nil {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "cargo id must be an integer")
		return
	}
	var req struct {
		LongPos float64 `json:"longitudinal"`
		VertPos float64 `json:"vertical"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "malformed body")
		return
	}
	if err := orch.MoveCargo(id, req.LongPos, req.VertPos); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBallast(w http.ResponseWriter, r *http.Request) {
	orch := s.session(w)
	if orch == nil {
		return
	}
	var req struct {
		Fill float64 `json:"fill"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "malformed body")
		return
	}
	if err := orch.SetBallastFill(chi.URLParam(r, "id"), req.Fill); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSea(w http.ResponseWriter, r *http.Request) {
	orch := s.session(w)
	if orch == nil {
		return
	}
	var req seaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "malformed body")
		return
	}
	field, err := wave.FromSeaState(req.Hs, req.Tp, req.Components, req.Seed)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_operand", err.Error())
		return
	}
	orch.SetSeaState(field)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the core error taxonomy onto status codes and stable kind
// strings the UI can switch on.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ship.ErrInvalidHullGeometry):
		writeJSONError(w, http.StatusBadRequest, "invalid_hull_geometry", err.Error())
	case errors.Is(err, ship.ErrInvalidOperand):
		writeJSONError(w, http.StatusBadRequest, "invalid_operand", err.Error())
	case errors.Is(err, motion.ErrTimestepTooLarge):
		writeJSONError(w, http.StatusBadRequest, "timestep_too_large", err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

type apiError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSONError(w http.ResponseWriter, status int, kind, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiError{Kind: kind, Message: msg})
}
