package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hirevox/hirevox/internal/service"
	"github.com/hirevox/hirevox/internal/session"
)

// SessionHandler serves one candidate-facing token surface. The current and
// legacy surfaces each get their own instance because their managers carry
// different recording ceilings.
type SessionHandler struct {
	svc     *service.Service
	manager *session.Manager
}

func NewSessionHandler(svc *service.Service, manager *session.Manager) *SessionHandler {
	return &SessionHandler{svc: svc, manager: manager}
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	token := mux.Vars(r)["token"]
	s, err := h.manager.Session(r.Context(), token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			writeError(w, "interview not found", http.StatusNotFound)
			return nil
		}
		writeError(w, "failed to load interview", http.StatusInternalServerError)
		return nil
	}
	return s
}

// GetInterview returns the welcome-screen detail. An unknown token is the
// terminal not-found answer; there is no recovery path from it.
func (h *SessionHandler) GetInterview(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]

	detail, err := h.svc.InterviewByToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, "interview not found", http.StatusNotFound)
			return
		}
		writeError(w, "failed to load interview", http.StatusInternalServerError)
		return
	}

	writeJSON(w, detail, http.StatusOK)
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	writeJSON(w, s.State(), http.StatusOK)
}

func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	if err := s.Begin(r.Context()); err != nil {
		h.sessionError(w, err, "failed to start interview")
		return
	}

	writeJSON(w, s.State(), http.StatusOK)
}

func (h *SessionHandler) StartRecording(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	if err := s.StartRecording(r.Context()); err != nil {
		h.sessionError(w, err, "failed to start recording")
		return
	}

	writeJSON(w, s.State(), http.StatusOK)
}

func (h *SessionHandler) StopRecording(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	if err := s.StopRecording(); err != nil {
		h.sessionError(w, err, "failed to stop recording")
		return
	}

	writeJSON(w, s.State(), http.StatusOK)
}

func (h *SessionHandler) Redo(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	if err := s.Redo(); err != nil {
		h.sessionError(w, err, "failed to redo")
		return
	}

	writeJSON(w, s.State(), http.StatusOK)
}

func (h *SessionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	if s == nil {
		return
	}

	if err := s.Confirm(r.Context()); err != nil {
		h.sessionError(w, err, "failed to confirm response")
		return
	}

	snap := s.State()
	if snap.Step == session.StepThankYou {
		// the interview is done; drop the live session so the map does not
		// grow for the process lifetime
		h.manager.Release(mux.Vars(r)["token"])
	}
	writeJSON(w, snap, http.StatusOK)
}

// sessionError maps session machine errors: step violations answer 409, a
// denied capability or persistence failure answers 5xx, and the session stays
// in the step it was in.
func (h *SessionHandler) sessionError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, session.ErrWrongStep),
		errors.Is(err, session.ErrRecording),
		errors.Is(err, session.ErrNotRecording),
		errors.Is(err, session.ErrClosed):
		writeError(w, err.Error(), http.StatusConflict)
	default:
		logger.Error("session operation failed", "err", err)
		writeError(w, fallback, http.StatusInternalServerError)
	}
}
