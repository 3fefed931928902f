package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := Config{AdminPassword: "adminpass", DataDir: t.TempDir()}
	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func login(t *testing.T, s *Server) string {
	t.Helper()
	body, _ := json.Marshal(loginRequest{Password: "adminpass"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func Test_Login_WrongPassword(t *testing.T) {
	s := newTestServer(t)

	body, _ := json.Marshal(loginRequest{Password: "nope"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func Test_PutGetParse_Grammar(t *testing.T) {
	s := newTestServer(t)
	tok := login(t, s)

	src := `top:
| a="a" b="b" { pair(a, b) }
`
	putBody, _ := json.Marshal(putGrammarRequest{Dialect: "surface", Source: src})
	putReq := httptest.NewRequest(http.MethodPost, "/api/v1/grammars/demo.pair", bytes.NewReader(putBody))
	putReq.Header.Set("Authorization", "Bearer "+tok)
	putW := httptest.NewRecorder()
	s.router.ServeHTTP(putW, putReq)
	require.Equal(t, http.StatusCreated, putW.Code)

	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/grammars/demo.pair", nil)
	getW := httptest.NewRecorder()
	s.router.ServeHTTP(getW, getReq)
	require.Equal(t, http.StatusOK, getW.Code)

	var got grammarResponse
	require.NoError(t, json.Unmarshal(getW.Body.Bytes(), &got))
	assert.Equal(t, src, got.Source)

	parseBody, _ := json.Marshal(parseRequest{Input: "ab"})
	parseReq := httptest.NewRequest(http.MethodPost, "/api/v1/grammars/demo.pair/parse", bytes.NewReader(parseBody))
	parseW := httptest.NewRecorder()
	s.router.ServeHTTP(parseW, parseReq)
	assert.Equal(t, http.StatusOK, parseW.Code)
}

func Test_PutGrammar_RequiresAuth(t *testing.T) {
	s := newTestServer(t)

	putBody, _ := json.Marshal(putGrammarRequest{Dialect: "surface", Source: "top:\n| \"a\"\n"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/grammars/demo.x", bytes.NewReader(putBody))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func Test_GetGrammar_Missing(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/grammars/nope", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
