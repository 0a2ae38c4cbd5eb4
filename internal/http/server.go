// Package http exposes the JSON API: dashboard aggregates, transaction and
// account CRUD, CSV reports, theme settings and the SSE snapshot stream.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"fullbalance/internal/log"
	"fullbalance/internal/services"
	"fullbalance/internal/stream"
)

type Server struct {
	http.Server

	transactions *services.TransactionService
	accounts     *services.AccountService
	hub          *stream.Hub
	verifier     TokenVerifier
	logger       *log.Logger
	rateLimiter  *rateLimiter
	metrics      *securityMetrics

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, txs *services.TransactionService, accs *services.AccountService, hub *stream.Hub, verifier TokenVerifier, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		transactions: txs,
		accounts:     accs,
		hub:          hub,
		verifier:     verifier,
		logger:       logger.WithComponent(log.ComponentHTTP),
		rateLimiter:  newRateLimiter(),
		metrics:      &securityMetrics{},
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	api := func(h http.HandlerFunc) http.HandlerFunc {
		return s.withMiddleware(s.withAuth(h))
	}

	mux.HandleFunc("GET /api/dashboard", api(s.handleDashboard))

	mux.HandleFunc("GET /api/transactions", api(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", api(s.handleCreateTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", api(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", api(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/accounts", api(s.handleListAccounts))
	mux.HandleFunc("POST /api/accounts", api(s.handleCreateAccount))
	mux.HandleFunc("DELETE /api/accounts/{id}", api(s.handleDeleteAccount))

	mux.HandleFunc("GET /api/reports/csv", api(s.handleExportCSV))

	mux.HandleFunc("GET /api/settings/theme", api(s.handleGetTheme))
	mux.HandleFunc("PUT /api/settings/theme", api(s.handleSetTheme))

	mux.HandleFunc("GET /api/events", api(s.handleEvents))

	return s
}

// withMiddleware adds security headers, per-owner rate limiting on mutations
// and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		reqLogger := s.logger.With(log.FieldRequestID, requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		ctx = log.WithContext(ctx, reqLogger)
		r = r.WithContext(ctx)

		reqLogger.InfoContext(ctx, "Request started",
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		log.HTTPEnd(ctx, reqLogger, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the underlying writer so SSE streaming works through
// the middleware chain.
func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Shutdown stops the rate limiter cleanup goroutine and drains the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
