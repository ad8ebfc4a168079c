package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTTL(t *testing.T) {
	d, err := parseTTL("")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, d)

	d, err = parseTTL("2h")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, d)

	d, err = parseTTL("30")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, d)

	_, err = parseTTL("forever")
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	tok, exp, err := GenerateToken("ops", "s3cret", "5m")
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	claims, err := VerifyToken(tok, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)

	_, err = VerifyToken(tok, "other")
	assert.Error(t, err)
}

func TestVerifyTokenWithoutSecret(t *testing.T) {
	_, err := VerifyToken("anything", "")
	assert.EqualError(t, err, "secret not configured")
}

func TestDecodeJSON(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
	w := httptest.NewRecorder()

	raw, err := DecodeJSON(w, r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(raw))
}

func TestDecodeJSONEmptyBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("  "))
	w := httptest.NewRecorder()

	raw, err := DecodeJSON(w, r)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(raw))
}

func TestDecodeJSONMalformed(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":`))
	w := httptest.NewRecorder()

	_, err := DecodeJSON(w, r)
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "JSON parse error - ")
}

func TestDecodeJSONTooLarge(t *testing.T) {
	body := `{"body":"` + strings.Repeat("x", MaxBodyBytes) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()

	_, err := DecodeJSON(w, r)
	require.Error(t, err)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.JSONEq(t, `{"detail":"Request body exceeded the maximum size."}`, w.Body.String())
}

func TestDecodeJSONAtLimit(t *testing.T) {
	body := `{"b":"` + strings.Repeat("x", MaxBodyBytes-8) + `"}`
	require.Len(t, body, MaxBodyBytes)
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()

	_, err := DecodeJSON(w, r)
	assert.NoError(t, err)
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	JSONError(w, http.StatusNotFound, "Not found.")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"detail":"Not found."}`, w.Body.String())
}
