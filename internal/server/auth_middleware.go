package server

import (
	"fmt"
	"net/http"
	"strings"

	"mediavault/internal/auth"
)

// requireAdmin guards mutating routes with the admin bearer token. A server
// without a configured token refuses all mutations rather than allowing
// them unauthenticated.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.adminToken == "" {
			s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("admin token is not configured")))
			return
		}
		candidate, ok := bearerToken(r)
		if !ok || !auth.VerifyToken(s.adminToken, candidate) {
			s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("invalid admin credential")))
			return
		}
		next(w, r)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
