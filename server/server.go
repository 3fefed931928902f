// Package server implements pegserver's HTTP front end over the grammar
// registry: a chi router, JWT bearer auth gating writes, and a
// uuid-tagged request ID on every log line, in every response's
// X-Request-Id header, and in every result.ErrorBody.
package server

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/dekarrin/pegboot/server/result"
	"github.com/dekarrin/pegboot/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// PathPrefix is the prefix every registry route is mounted under.
const PathPrefix = "/api/v1"

// Server holds everything a request handler needs: the registry, the
// secret that signs and validates bearer tokens, and the admin
// credential's bcrypt hash.
type Server struct {
	registry  *store.Store
	jwtSecret []byte
	adminHash []byte
	router    http.Handler
}

// New builds a Server from cfg: opens (or creates) the registry database
// under cfg.DataDir, seeds it from cfg.GrammarManifest if given, hashes
// the configured admin password, and wires the router.
func New(cfg Config) (*Server, error) {
	reg, err := store.Open(store.DefaultPath(cfg.DataDir))
	if err != nil {
		return nil, fmt.Errorf("server: opening registry: %w", err)
	}

	if cfg.GrammarManifest != "" {
		n, err := store.Seed(context.Background(), reg, cfg.GrammarManifest)
		if err != nil {
			reg.Close()
			return nil, fmt.Errorf("server: seeding registry: %w", err)
		}
		if n > 0 {
			log.Printf("INFO  seeded %d grammars from %s", n, cfg.GrammarManifest)
		}
	}

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			reg.Close()
			return nil, fmt.Errorf("server: generating JWT secret: %w", err)
		}
	}

	password := cfg.AdminPassword
	if password == "" {
		password = "pegboot"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		reg.Close()
		return nil, fmt.Errorf("server: hashing admin password: %w", err)
	}

	s := &Server{registry: reg, jwtSecret: secret, adminHash: hash}
	s.router = s.buildRouter()
	return s, nil
}

// Close closes the underlying registry.
func (s *Server) Close() error {
	return s.registry.Close()
}

func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)

	r.Route(PathPrefix, func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Get("/grammars/{name}", s.handleGetGrammar)
		r.With(s.requireAdmin).Post("/grammars/{name}", s.handlePutGrammar)
		r.Post("/grammars/{name}/parse", s.handleParseGrammar)
	})

	return r
}

// ServeForever blocks, listening on addr (or localhost:8080 if addr is
// empty).
func (s *Server) ServeForever(addr string) error {
	if addr == "" {
		addr = "localhost:8080"
	}
	log.Printf("INFO  listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := uuid.NewString()
		ctx := context.WithValue(req.Context(), ctxRequestID, id)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				r := result.InternalServerError(fmt.Sprintf("panic: %v", v))
				r.WriteResponse(w, requestIDFrom(req.Context()))
				r.Log(requestIDFrom(req.Context()), req)
			}
		}()
		next.ServeHTTP(w, req)
	})
}

// unauthDelay deprioritizes failed-auth responses so password guesses
// can't be timed faster than it.
const unauthDelay = 250 * time.Millisecond
