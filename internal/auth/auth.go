package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

// AdminKeyHeader carries the static admin API key.
const AdminKeyHeader = "X-Admin-Key"

// Auth guards the admin API with an API key or, when enabled, an OIDC bearer token.
type Auth struct {
	AdminKey     string
	OIDCEnabled  bool
	OIDCVerifier TokenVerifier
}

func (a Auth) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.Ctx(r.Context())

		// JWT first when OIDC is on, then the API key
		if a.OIDCEnabled && a.OIDCVerifier != nil {
			if a.verifyJWT(r) {
				logger.Debug().
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Str("auth_type", "jwt").
					Msg("Admin authentication successful via JWT")
				next(w, r)
				return
			}
		}

		if a.AdminKey != "" && subtle.ConstantTimeCompare([]byte(r.Header.Get(AdminKeyHeader)), []byte(a.AdminKey)) == 1 {
			logger.Debug().
				Str("path", r.URL.Path).
				Str("method", r.Method).
				Str("auth_type", "api_key").
				Msg("Admin authentication successful via API key")
			next(w, r)
			return
		}

		logger.Warn().
			Str("path", r.URL.Path).
			Str("method", r.Method).
			Str("remote_addr", r.RemoteAddr).
			Msg("Admin authentication failed")
		http.Error(w, "unauthorized (admin)", http.StatusUnauthorized)
	}
}

func (a Auth) verifyJWT(r *http.Request) bool {
	token := ExtractBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return false
	}

	logger := log.Ctx(r.Context())
	claims, err := a.OIDCVerifier.Verify(r.Context(), token)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Msg("JWT verification failed")
		return false
	}

	role := a.OIDCVerifier.AdminRole()
	if role != "" && !claims.HasRole(role) {
		logger.Warn().
			Str("required_role", role).
			Str("subject", claims.Subject).
			Str("path", r.URL.Path).
			Msg("User missing required role")
		return false
	}
	return true
}

// ExtractBearerToken returns the token of a "Bearer <token>" header, or "".
func ExtractBearerToken(authHeader string) string {
	parts := strings.Fields(authHeader)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}
