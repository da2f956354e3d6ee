package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethanadams/s3presign"
	"github.com/ethanadams/s3presign/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *prometheus.Registry) {
	t.Helper()

	signer, err := s3presign.New("http://localhost:9000/bucket", s3presign.Credentials{
		AccessKey: "ACCESS",
		SecretKey: "SECRET",
	})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	return New(signer, time.Hour, metrics.NewCollector(reg)), reg
}

func doPresign(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/presign", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Handler("/metrics", promhttp.Handler()).ServeHTTP(rec, req)
	return rec
}

func TestHandlePresign(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doPresign(t, srv, `{"keys": ["a.txt", "nested/b.txt"], "expires_in": 300}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		URLs []string `json:"urls"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.URLs, 2)

	assert.True(t, strings.HasPrefix(resp.URLs[0], "http://localhost:9000/bucket/a.txt?"))
	assert.True(t, strings.HasPrefix(resp.URLs[1], "http://localhost:9000/bucket/nested/b.txt?"))
	assert.Contains(t, resp.URLs[0], "X-Amz-Expires=300")
	assert.Contains(t, resp.URLs[0], "X-Amz-Signature=")
}

func TestHandlePresign_DefaultExpires(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doPresign(t, srv, `{"keys": ["a.txt"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "X-Amz-Expires=3600")
}

func TestHandlePresign_EmptyKeys(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doPresign(t, srv, `{"keys": []}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		URLs []string `json:"urls"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotNil(t, resp.URLs)
	assert.Empty(t, resp.URLs)
}

func TestHandlePresign_BadRequests(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "empty key in batch", body: `{"keys": ["a.txt", ""]}`},
		{name: "expires out of range", body: `{"keys": ["a.txt"], "expires_in": 99999999}`},
		{name: "negative expires", body: `{"keys": ["a.txt"], "expires_in": -5}`},
		{name: "malformed json", body: `{"keys": [`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doPresign(t, srv, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestHandlePresign_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/presign", nil)
	rec := httptest.NewRecorder()
	srv.Handler("/metrics", promhttp.Handler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler("/metrics", promhttp.Handler()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, reg := newTestServer(t)
	handler := srv.Handler("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// Sign a batch so the counters have something to show.
	req := httptest.NewRequest(http.MethodPost, "/v1/presign", strings.NewReader(`{"keys": ["a.txt"]}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "s3presign_batches_total")
	assert.Contains(t, rec.Body.String(), "s3presign_urls_signed_total 1")
}

func TestSwap(t *testing.T) {
	srv, _ := newTestServer(t)

	replacement, err := s3presign.New("http://other:9000/bucket", s3presign.Credentials{
		AccessKey: "OTHER",
		SecretKey: "SECRET",
	})
	require.NoError(t, err)
	srv.Swap(replacement)

	rec := doPresign(t, srv, `{"keys": ["a.txt"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http://other:9000/bucket/a.txt?")
}
