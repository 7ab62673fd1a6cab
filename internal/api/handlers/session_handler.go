package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"

	appMiddleware "github.com/markdave123-py/Textora/internal/api/middlewares"
	"github.com/markdave123-py/Textora/internal/core/session"
	"github.com/markdave123-py/Textora/internal/models"
)

type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// GetSession returns the current state of the caller's session.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOrError(w, r)
	if !ok {
		return
	}
	writeView(w, r, http.StatusOK, sess.View())
}

// Clear resets the session to its initial empty state.
func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess, ok := sessionOrError(w, r)
	if !ok {
		return
	}
	sess.Clear()
	writeView(w, r, http.StatusOK, sess.View())
}

func sessionOrError(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, ok := appMiddleware.SessionFrom(r.Context())
	if !ok {
		http.Error(w, "session not found in context", http.StatusUnauthorized)
		return nil, false
	}
	return sess, true
}

func writeView(w http.ResponseWriter, r *http.Request, status int, view models.SessionView) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(view); err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("write response")
	}
}
