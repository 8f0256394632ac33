package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"telegram-admin-backend/internal/domain"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeInternal hides err unless the server runs in development mode.
func (s *Server) writeInternal(w http.ResponseWriter, err error) {
	body := errorBody{Error: "Internal server error"}
	if s.dev && err != nil {
		body.Message = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, body)
}

// writeDomainError maps domain sentinels onto HTTP statuses. notFound is the
// message used for domain.ErrNotFound.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusUnprocessableEntity, "Invalid input")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "Already exists")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "Registration is closed")
	case errors.Is(err, domain.ErrPersistenceDisabled):
		writeError(w, http.StatusServiceUnavailable, "Persistence is disabled")
	case errors.Is(err, domain.ErrGatewayDisabled):
		writeError(w, http.StatusServiceUnavailable, "Telegram gateway is not configured")
	default:
		s.logFor(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		s.writeInternal(w, err)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	return dec.Decode(dst)
}
