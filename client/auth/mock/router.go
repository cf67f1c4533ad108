package mock

import (
	"net/http"
	"strings"
)

// Handler routes HTTP requests to the appropriate mock storefront endpoints.
type Handler struct {
	// Service is the mock API with endpoint handlers.
	Service *Service
}

// ServeHTTP dispatches incoming HTTP requests based on URL path.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.Service.count(r.URL.Path)
	switch r.URL.Path {
	case "/api/auth/login":
		if h.Service.LoginHandler != nil {
			h.Service.LoginHandler(w, r)
		} else {
			h.Service.defaultLoginHandler(w, r)
		}
	case "/api/auth/refresh":
		if h.Service.RefreshHandler != nil {
			h.Service.RefreshHandler(w, r)
		} else {
			h.Service.defaultRefreshHandler(w, r)
		}
	case "/api/auth/register":
		h.Service.registerHandler(w, r)
	case "/api/auth/logout":
		h.Service.logoutHandler(w, r)
	case "/api/auth/forgot-password":
		h.Service.forgotPasswordHandler(w, r)
	case "/api/auth/reset-password":
		h.Service.resetPasswordHandler(w, r)
	case "/api/user/my-info":
		h.Service.myInfoHandler(w, r)
	case "/api/fail":
		writeEnvelope(w, http.StatusInternalServerError, "Internal server error", nil)
	default:
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		if h.Service.ResourceHandler != nil {
			h.Service.ResourceHandler(w, r)
		} else {
			h.Service.defaultResourceHandler(w, r)
		}
	}
}
