package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"telegram-admin-backend/internal/domain"
	"telegram-admin-backend/internal/domain/model"
)

const messageNotFound = "Message not found"

type statusRequest struct {
	Status string `json:"status"`
}

type replyRequest struct {
	Text string `json:"text"`
}

func messageID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid message id")
	}
	return id, nil
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := model.MessageFilter{}
	if raw := q.Get("status"); raw != "" {
		st, err := model.ParseMessageStatus(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "Invalid status")
			return
		}
		f.Status = st
	}
	// malformed paging values fall back to the defaults
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	f.Offset, _ = strconv.Atoi(q.Get("offset"))

	page, err := s.messageUC.List(r.Context(), f)
	if err != nil {
		s.writeDomainError(w, r, err, messageNotFound)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleMessageStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.messageUC.Stats(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err, messageNotFound)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetMessage(w http.ResponseWriter, r *http.Request) {
	id, err := messageID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid message id")
		return
	}
	msg, err := s.messageUC.Get(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, r, err, messageNotFound)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) handleUpdateMessage(w http.ResponseWriter, r *http.Request) {
	id, err := messageID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid message id")
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	st, err := model.ParseMessageStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid status")
		return
	}
	msg, err := s.messageUC.UpdateStatus(r.Context(), id, st)
	if err != nil {
		s.writeDomainError(w, r, err, messageNotFound)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (s *Server) handleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := messageID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid message id")
		return
	}
	if err := s.messageUC.Delete(r.Context(), id); err != nil {
		s.writeDomainError(w, r, err, messageNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReplyMessage(w http.ResponseWriter, r *http.Request) {
	id, err := messageID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid message id")
		return
	}
	var req replyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	msg, err := s.messageUC.Reply(r.Context(), id, req.Text)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNoReplyChat):
		writeError(w, http.StatusUnprocessableEntity, "Message has no chat to reply to")
		return
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusUnprocessableEntity, "Reply text is required")
		return
	default:
		s.writeDomainError(w, r, err, messageNotFound)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}
