package web

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"telegram-admin-backend/internal/domain/model"
	"telegram-admin-backend/internal/infra/metrics"
	"telegram-admin-backend/internal/infra/redis"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string           `json:"token"`
	User  *model.AdminUser `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := s.authUC.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		s.writeDomainError(w, r, err, "Admin not found")
		return
	}
	token, err := s.auth.Mint(w, user)
	if err != nil {
		s.writeInternal(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Token: token, User: user})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.limiter != nil && s.loginLimit > 0 {
		ok, err := s.limiter.Allow(r.Context(), redis.LoginKey(clientIP(r)), s.loginLimit, s.loginWindow)
		if err != nil {
			// fail open: an unavailable limiter must not lock admins out
			s.logFor(r).Warn().Err(err).Msg("login rate limiter unavailable")
		} else if !ok {
			metrics.IncRateLimitTriggered()
			w.Header().Set("Retry-After", retryAfter(s.loginWindow))
			writeError(w, http.StatusTooManyRequests, "Too many login attempts")
			return
		}
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.authUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeDomainError(w, r, err, "Invalid credentials")
		return
	}
	token, err := s.auth.Mint(w, user)
	if err != nil {
		s.writeInternal(w, err)
		return
	}
	s.logFor(r).Info().Str("admin_id", user.ID).Msg("admin logged in")
	writeJSON(w, http.StatusOK, sessionResponse{Token: token, User: user})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	user, err := s.authUC.Me(r.Context(), claims.Subject)
	if err != nil {
		s.writeDomainError(w, r, err, "Admin not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// handleLogout always clears the cookie; a valid token is also revoked when Redis is available.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if claims, err := s.auth.ParseFromRequest(r); err == nil && s.revoker != nil && claims.ExpiresAt != nil {
		if err := s.revoker.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			s.logFor(r).Warn().Err(err).Msg("failed to revoke session token")
		}
	}
	s.auth.Clear(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// clientIP strips the port from RemoteAddr, which middleware.RealIP may already have rewritten.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func retryAfter(window time.Duration) string {
	secs := int(window.Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
