package middleware

import (
	"net/http"
	"strings"

	"pantrypal-backend/internal/response"
	"pantrypal-backend/pkg/security"
)

// Identity is the authenticated caller, decoded from the access token and
// passed explicitly to handlers instead of living in ambient state.
type Identity struct {
	UserID   uint
	Email    string
	Username string
}

// AuthedHandler receives the verified caller alongside the request.
type AuthedHandler func(w http.ResponseWriter, r *http.Request, id Identity)

// RequireJWT verifies the bearer access token by signature and expiry only;
// revocation applies to refresh tokens, never to access tokens.
func RequireJWT(codec *security.TokenCodec, next AuthedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		if token == "" {
			response.WriteErr(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		claims, err := codec.Verify(token)
		if err != nil {
			response.WriteErr(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		email, _ := claims["sub"].(string)
		username, _ := claims["username"].(string)
		userIDF, _ := claims["user_id"].(float64)

		next(w, r, Identity{
			UserID:   uint(userIDF),
			Email:    email,
			Username: username,
		})
	}
}

func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
