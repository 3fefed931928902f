package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/pegboot/server/result"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL is how long an issued admin bearer token remains valid.
const tokenTTL = 24 * time.Hour

// claims is the JWT payload an admin login issues: just enough to mark
// the bearer as the registry's single administrator.
type claims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

// issueToken signs a new admin bearer token with secret.
func issueToken(secret []byte) (string, error) {
	now := time.Now()
	c := claims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := tok.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("server: signing token: %w", err)
	}
	return signed, nil
}

// validateToken parses and verifies a bearer token against secret,
// returning an error if it is malformed, unsigned by secret, expired, or
// does not carry the admin claim.
func validateToken(tokenString string, secret []byte) error {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return fmt.Errorf("server: invalid token: %w", err)
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || !c.Admin {
		return fmt.Errorf("server: token does not grant admin access")
	}
	return nil
}

// bearerToken extracts the token from an "Authorization: Bearer ..."
// header, or returns "" if the header is absent or malformed.
func bearerToken(req *http.Request) string {
	h := req.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimPrefix(h, prefix)
}

type ctxKey int

const ctxRequestID ctxKey = iota

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxRequestID).(string)
	return id
}

// requireAdmin is middleware gating registry writes behind a valid admin
// bearer token.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		tok := bearerToken(req)
		if tok == "" {
			r := result.Unauthorized("missing bearer token")
			r.WriteResponse(w, requestIDFrom(req.Context()))
			r.Log(requestIDFrom(req.Context()), req)
			return
		}
		if err := validateToken(tok, s.jwtSecret); err != nil {
			r := result.Unauthorized(err.Error())
			r.WriteResponse(w, requestIDFrom(req.Context()))
			r.Log(requestIDFrom(req.Context()), req)
			return
		}
		next.ServeHTTP(w, req)
	})
}

// checkAdminPassword reports whether password matches the server's
// configured admin credential.
func (s *Server) checkAdminPassword(password string) bool {
	return bcrypt.CompareHashAndPassword(s.adminHash, []byte(password)) == nil
}
