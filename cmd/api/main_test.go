package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaughan-dsouza/myapp/internal/config"
	"github.com/vaughan-dsouza/myapp/internal/events"
	"github.com/vaughan-dsouza/myapp/internal/logger"
	"github.com/vaughan-dsouza/myapp/internal/store"
	"github.com/vaughan-dsouza/myapp/internal/utils"
)

func newTestServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	h, err := buildHandler(ctx, cfg, store.NewMock(), events.NopPublisher{}, logger.Discard(), prometheus.NewRegistry())
	require.NoError(t, err)

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, body, token string) (*http.Response, string) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestRootListsPosts(t *testing.T) {
	ts := newTestServer(t, &config.Config{})

	resp, body := do(t, http.MethodGet, ts.URL+"/", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"posts":"`+ts.URL+`/posts/"}`, body)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestCrudAndMetrics(t *testing.T) {
	ts := newTestServer(t, &config.Config{})

	resp, body := do(t, http.MethodPost, ts.URL+"/posts/", `{"title":"t","body":"b"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.JSONEq(t, `{"id":1,"title":"t","body":"b"}`, body)

	resp, _ = do(t, http.MethodGet, ts.URL+"/posts/1/", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, http.MethodGet, ts.URL+"/metrics", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `myapp_http_requests_total{method="POST",route="/posts",status="201"} 1`)
	assert.Contains(t, body, `route="/posts/{id}"`)
}

func TestWritesNeedTokenWhenSecretSet(t *testing.T) {
	ts := newTestServer(t, &config.Config{AccessSecret: "s3cret"})

	resp, _ := do(t, http.MethodPost, ts.URL+"/posts/", `{"title":"t","body":"b"}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, ts.URL+"/posts/", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	token, _, err := utils.GenerateToken("ops", "s3cret", "5m")
	require.NoError(t, err)
	resp, _ = do(t, http.MethodPost, ts.URL+"/posts/", `{"title":"t","body":"b"}`, token)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestThrottleWhenConfigured(t *testing.T) {
	ts := newTestServer(t, &config.Config{RateLimitRPS: 0.001, RateLimitBurst: 1})

	resp, _ := do(t, http.MethodGet, ts.URL+"/posts/", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, http.MethodGet, ts.URL+"/posts/", "", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.JSONEq(t, `{"detail":"Request was throttled."}`, body)
}
