package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_IssueToken_ValidatesWithSameSecret(t *testing.T) {
	secret := []byte("test-secret")

	tok, err := issueToken(secret)
	require.NoError(t, err)
	assert.NoError(t, validateToken(tok, secret))
}

func Test_ValidateToken_RejectsWrongSecret(t *testing.T) {
	tok, err := issueToken([]byte("real-secret"))
	require.NoError(t, err)

	assert.Error(t, validateToken(tok, []byte("wrong-secret")))
}

func Test_ValidateToken_RejectsGarbage(t *testing.T) {
	assert.Error(t, validateToken("not-a-jwt", []byte("secret")))
}

func Test_BearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", bearerToken(req))

	req.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", bearerToken(req))

	req.Header.Set("Authorization", "Basic abc123")
	assert.Equal(t, "", bearerToken(req))
}

func Test_CheckAdminPassword(t *testing.T) {
	cfg := Config{AdminPassword: "correct horse", DataDir: t.TempDir()}
	s, err := New(cfg)
	require.NoError(t, err)
	defer s.Close()

	assert.True(t, s.checkAdminPassword("correct horse"))
	assert.False(t, s.checkAdminPassword("wrong"))
}
