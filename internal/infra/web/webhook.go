package web

import (
	"net/http"

	"telegram-admin-backend/internal/infra/telegram"
)

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	msg, err := telegram.ParseUpdate(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.logFor(r).Error().Err(err).Msg("cannot parse telegram update")
		s.writeInternal(w, err)
		return
	}

	res, err := s.webhookUC.HandleUpdate(r.Context(), msg)
	if err != nil {
		ev := s.logFor(r).Error().Err(err)
		if res != nil {
			ev = ev.Str("persisted", string(res.Persisted)).Str("notified", string(res.Notified))
		}
		ev.Msg("webhook handling failed")
		s.writeInternal(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
