package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/ethanadams/s3presign"
	"github.com/ethanadams/s3presign/internal/logging"
	"github.com/ethanadams/s3presign/internal/metrics"
)

// Server exposes batch presigning over HTTP. The signer is swappable at
// runtime so a scheduled refresh can rotate credentials without blocking
// in-flight requests.
type Server struct {
	signer         atomic.Pointer[s3presign.Signer]
	signerBuiltAt  atomic.Int64
	defaultExpires time.Duration
	metrics        *metrics.Collector
}

// New creates a Server around an initial signer.
func New(signer *s3presign.Signer, defaultExpires time.Duration, mc *metrics.Collector) *Server {
	s := &Server{
		defaultExpires: defaultExpires,
		metrics:        mc,
	}
	s.Swap(signer)
	return s
}

// Swap replaces the active signer. Requests already holding the previous
// signer finish with it.
func (s *Server) Swap(signer *s3presign.Signer) {
	s.signer.Store(signer)
	s.signerBuiltAt.Store(time.Now().Unix())
}

// Handler returns the HTTP handler: the presign API, a health check, and
// the metrics endpoint at metricsPath.
func (s *Server) Handler(metricsPath string, metricsHandler http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/presign", s.handlePresign)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle(metricsPath, metricsHandler)
	return mux
}

type presignRequest struct {
	Keys []string `json:"keys"`
	// ExpiresIn is the URL validity in seconds. Zero means the daemon's
	// configured default.
	ExpiresIn int64 `json:"expires_in,omitempty"`
}

type presignResponse struct {
	URLs []string `json:"urls"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handlePresign(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req presignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	expires := s.defaultExpires
	if req.ExpiresIn != 0 {
		expires = time.Duration(req.ExpiresIn) * time.Second
	}

	start := time.Now()
	urls, err := s.signer.Load().GenerateGetObjectURLs(req.Keys, expires)
	duration := time.Since(start)

	if err != nil {
		s.metrics.RecordBatch(len(req.Keys), duration, false)
		status := http.StatusInternalServerError
		if errors.Is(err, s3presign.ErrEmptyObjectKey) || errors.Is(err, s3presign.ErrExpiresOutOfRange) {
			status = http.StatusBadRequest
		}
		logging.Warn("presign batch failed", "keys", len(req.Keys), "error", err)
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	s.metrics.RecordBatch(len(urls), duration, true)
	logging.Debug("presign batch signed", "keys", len(urls), "duration", duration)
	writeJSON(w, http.StatusOK, presignResponse{URLs: urls})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":             "ok",
		"signer_age_seconds": time.Now().Unix() - s.signerBuiltAt.Load(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("write response", "error", err)
	}
}
