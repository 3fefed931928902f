package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/dekarrin/pegboot/action"
	"github.com/dekarrin/pegboot/domain"
	"github.com/dekarrin/pegboot/peg"
	"github.com/dekarrin/pegboot/server/result"
	"github.com/dekarrin/pegboot/store"
	"github.com/go-chi/chi/v5"
)

func (s *Server) respond(w http.ResponseWriter, req *http.Request, r result.Result) {
	id := requestIDFrom(req.Context())
	r.WriteResponse(w, id)
	r.Log(id, req)
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// handleLogin exchanges the admin password for a bearer token. A failed
// attempt is deliberately slowed by unauthDelay so password guesses can't
// be timed faster than that.
func (s *Server) handleLogin(w http.ResponseWriter, req *http.Request) {
	var body loginRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		s.respond(w, req, result.BadRequest("could not parse request body", err.Error()))
		return
	}

	if !s.checkAdminPassword(body.Password) {
		time.Sleep(unauthDelay)
		s.respond(w, req, result.Unauthorized("bad admin password"))
		return
	}

	tok, err := issueToken(s.jwtSecret)
	if err != nil {
		s.respond(w, req, result.InternalServerError(err.Error()))
		return
	}
	s.respond(w, req, result.OK(loginResponse{Token: tok}))
}

type grammarResponse struct {
	Name     string `json:"name"`
	Dialect  string `json:"dialect"`
	Source   string `json:"source"`
	Modified int64  `json:"modified"`
}

// handleGetGrammar returns a registered grammar's source and dialect.
func (s *Server) handleGetGrammar(w http.ResponseWriter, req *http.Request) {
	name := chi.URLParam(req, "name")

	entry, err := s.registry.Get(req.Context(), name)
	if err != nil {
		if err == store.ErrNotFound {
			s.respond(w, req, result.NotFound())
			return
		}
		s.respond(w, req, result.InternalServerError(err.Error()))
		return
	}

	s.respond(w, req, result.OK(grammarResponse{
		Name:     entry.Name,
		Dialect:  entry.Dialect,
		Source:   entry.Source,
		Modified: entry.Modified.Unix(),
	}))
}

type putGrammarRequest struct {
	Dialect string `json:"dialect"`
	Source  string `json:"source"`
}

// handlePutGrammar registers or replaces a grammar. Requires an admin
// bearer token (wired via requireAdmin in buildRouter).
func (s *Server) handlePutGrammar(w http.ResponseWriter, req *http.Request) {
	name := chi.URLParam(req, "name")

	var body putGrammarRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		s.respond(w, req, result.BadRequest("could not parse request body", err.Error()))
		return
	}
	if body.Dialect == "" {
		body.Dialect = store.DialectSurface
	}

	if err := s.registry.Put(req.Context(), name, body.Dialect, body.Source); err != nil {
		s.respond(w, req, result.BadRequest("grammar could not be parsed", err.Error()))
		return
	}

	s.respond(w, req, result.Created(grammarResponse{Name: name, Dialect: body.Dialect, Source: body.Source}))
}

type parseRequest struct {
	Input string `json:"input"`
}

type parseResponse struct {
	Result any `json:"result"`
}

// parseFailureBody is the JSON shape of a failed /parse response: enough
// to render the same caret-annotated excerpt cmd/pegi prints to a
// terminal, in a form an HTTP caller can act on programmatically.
type parseFailureBody struct {
	Error  string   `json:"error"`
	Status int      `json:"status"`
	Index  int      `json:"index,omitempty"`
	Path   []string `json:"path,omitempty"`
	Reason string   `json:"reason,omitempty"`
}

func parseFailureResult(err error) result.Result {
	switch e := err.(type) {
	case *peg.ParseFailure:
		return result.ErrWithBody(http.StatusBadRequest, parseFailureBody{
			Error:  e.Message,
			Status: http.StatusBadRequest,
			Index:  e.Index,
			Path:   e.Path,
		}, err.Error())
	case *peg.UnpackError:
		return result.ErrWithBody(http.StatusBadRequest, parseFailureBody{
			Error:  "grammar did not resolve to a single result",
			Status: http.StatusBadRequest,
			Reason: e.Reason,
		}, err.Error())
	default:
		return result.BadRequest("parse failed", err.Error())
	}
}

// handleParseGrammar parses req's body against the named registered
// grammar. It always binds through store.RawCaptureNamespace, never a
// namespace carrying real side effects -- a stored grammar is, from this
// endpoint's perspective, untrusted input.
func (s *Server) handleParseGrammar(w http.ResponseWriter, req *http.Request) {
	name := chi.URLParam(req, "name")

	body, err := io.ReadAll(req.Body)
	if err != nil {
		s.respond(w, req, result.BadRequest("could not read request body", err.Error()))
		return
	}

	var p parseRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &p); err != nil {
			s.respond(w, req, result.BadRequest("could not parse request body", err.Error()))
			return
		}
	}

	snap, err := s.registry.Snapshot(req.Context(), name)
	if err != nil {
		if err == store.ErrNotFound {
			s.respond(w, req, result.NotFound())
			return
		}
		s.respond(w, req, result.InternalServerError(err.Error()))
		return
	}

	raw := snap.RawGrammar()
	ns, err := store.RawCaptureNamespace(raw)
	if err != nil {
		s.respond(w, req, result.InternalServerError(err.Error()))
		return
	}
	binder := action.NewBinder(ns)
	parser, err := peg.NewParser[domain.Text](raw, binder)
	if err != nil {
		s.respond(w, req, result.InternalServerError(err.Error()))
		return
	}

	parsed, err := parser.Parse(domain.NewText(p.Input))
	if err != nil {
		s.respond(w, req, parseFailureResult(err))
		return
	}

	s.respond(w, req, result.OK(parseResponse{Result: parsed}))
}
