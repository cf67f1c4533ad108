package mock

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type registerRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type messageResult struct {
	Message string `json:"message"`
}

func (s *Service) defaultLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, http.MethodPost, &req) {
		return
	}
	user, ok := s.lookupUser(req.Identifier)
	if !ok || user.password != req.Password {
		writeEnvelope(w, http.StatusUnauthorized, "Invalid identifier or password", nil)
		return
	}
	if !s.issueSession(w, user.ID, true) {
		return
	}
	writeEnvelope(w, http.StatusOK, "Login success", nil)
}

// issueSession sets a fresh access cookie and, when withRefresh, a refresh cookie.
func (s *Service) issueSession(w http.ResponseWriter, userID string, withRefresh bool) bool {
	access, err := s.createJWT(userID, accessType, s.AccessTTL)
	if err != nil {
		writeEnvelope(w, http.StatusInternalServerError, "Server error", nil)
		return false
	}
	s.setSessionCookie(w, AccessCookie, access, s.AccessTTL)
	if !withRefresh {
		return true
	}
	refresh, err := s.createJWT(userID, refreshType, s.RefreshTTL)
	if err != nil {
		writeEnvelope(w, http.StatusInternalServerError, "Server error", nil)
		return false
	}
	s.setSessionCookie(w, RefreshCookie, refresh, s.RefreshTTL)
	return true
}

func (s *Service) defaultRefreshHandler(w http.ResponseWriter, r *http.Request) {
	if !decodeBody(w, r, http.MethodPost, nil) {
		return
	}
	if g := s.gate.Load(); g != nil {
		select {
		case g.entered <- struct{}{}:
		default:
		}
		select {
		case <-g.release:
		case <-r.Context().Done():
			return
		}
	}
	if s.failRefresh.Load() {
		writeEnvelope(w, http.StatusUnauthorized, "Refresh token expired", nil)
		return
	}
	cookie, err := r.Cookie(RefreshCookie)
	if err != nil {
		writeEnvelope(w, http.StatusUnauthorized, "Refresh token is missing", nil)
		return
	}
	userID, err := s.verifyJWT(cookie.Value, refreshType)
	if err != nil {
		writeEnvelope(w, http.StatusUnauthorized, "Refresh token expired", nil)
		return
	}
	if !s.issueSession(w, userID, false) {
		return
	}
	writeEnvelope(w, http.StatusOK, "Refresh token success", nil)
}

func (s *Service) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, http.MethodPost, &req) {
		return
	}
	switch {
	case req.Username == "" || req.Email == "" || req.Password == "":
		writeEnvelope(w, http.StatusBadRequest, "Username, email and password are required", nil)
		return
	case req.Password != req.ConfirmPassword:
		writeEnvelope(w, http.StatusBadRequest, "Passwords do not match", nil)
		return
	}
	if _, ok := s.lookupUser(req.Username); ok {
		writeEnvelope(w, http.StatusConflict, "Username already exists", nil)
		return
	}
	if _, ok := s.lookupUser(req.Email); ok {
		writeEnvelope(w, http.StatusConflict, "Email already exists", nil)
		return
	}
	user := s.AddUser(req.Username, req.Email, req.Password, "USER")
	writeEnvelope(w, http.StatusCreated, "Register success", user)
}

func (s *Service) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if !decodeBody(w, r, http.MethodPost, nil) {
		return
	}
	if _, err := s.authenticate(r); err != nil {
		writeEnvelope(w, http.StatusUnauthorized, "Unauthenticated", nil)
		return
	}
	clearSessionCookie(w, AccessCookie)
	clearSessionCookie(w, RefreshCookie)
	writeEnvelope(w, http.StatusOK, "Logout success", nil)
}

func (s *Service) forgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decodeBody(w, r, http.MethodPost, &req) {
		return
	}
	if _, ok := s.lookupUser(req.Email); !ok {
		writeEnvelope(w, http.StatusNotFound, "User not found", nil)
		return
	}
	s.resets.Put(strings.ToLower(req.Email), uuid.NewString())
	writeEnvelope(w, http.StatusOK, "Forgot password success", messageResult{Message: "Reset password link sent to your email"})
}

func (s *Service) resetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decodeBody(w, r, http.MethodPost, &req) {
		return
	}
	token, ok := s.ResetToken(req.Email)
	if !ok || token != req.Token {
		writeEnvelope(w, http.StatusBadRequest, "Invalid or expired reset token", nil)
		return
	}
	if req.Password == "" || req.Password != req.ConfirmPassword {
		writeEnvelope(w, http.StatusBadRequest, "Passwords do not match", nil)
		return
	}
	user, ok := s.lookupUser(req.Email)
	if !ok {
		writeEnvelope(w, http.StatusNotFound, "User not found", nil)
		return
	}
	// users are shared pointers, replace rather than mutate
	updated := *user
	updated.password = req.Password
	s.users.Put(user.ID, &updated)
	s.resets.Delete(strings.ToLower(req.Email))
	writeEnvelope(w, http.StatusOK, "Reset password success", messageResult{Message: "Password reset successful"})
}

func (s *Service) myInfoHandler(w http.ResponseWriter, r *http.Request) {
	if !decodeBody(w, r, http.MethodGet, nil) {
		return
	}
	user, err := s.authenticate(r)
	if err != nil {
		writeEnvelope(w, http.StatusUnauthorized, "Unauthenticated", nil)
		return
	}
	writeEnvelope(w, http.StatusOK, "Get my info success", user)
}
