// Package http is the JSON API surface in front of the ledger and its
// collaborators.
package http

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"bizkash/internal/assistant"
	"bizkash/internal/auth"
	"bizkash/internal/cache"
	"bizkash/internal/capture"
	"bizkash/internal/core"
	"bizkash/internal/i18n"
	"bizkash/internal/invoice"
	"bizkash/internal/ledger"
	"bizkash/internal/log"
)

// Recorder is the write side of the ledger as the handlers see it. The
// backend may persist and publish behind it.
type Recorder interface {
	Record(in core.TransactionInput) (core.Transaction, error)
}

// Deps collects everything the server serves.
type Deps struct {
	Ledger    *ledger.Ledger
	Recorder  Recorder
	Voice     *capture.VoiceParser
	Photo     *capture.PhotoParser
	Manual    *capture.ManualParser
	Assistant *assistant.Responder
	Invoices  *invoice.Book
	Auth      *auth.Service
	Locale    i18n.Locale
	Logger    *log.Logger
}

type Server struct {
	http.Server
	deps        Deps
	logger      *log.Logger
	rateLimiter *rateLimiter
	reportCache *cache.LRUCache[ledger.Report]

	requestsTotal     atomic.Int64
	recordedTotal     atomic.Int64
	captureTotal      atomic.Int64
	assistantMessages atomic.Int64

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware and returns a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		deps:        deps,
		logger:      deps.Logger.WithComponent("http"),
		rateLimiter: newRateLimiter(),
		reportCache: cache.NewLRUCache[ledger.Report](16, 5*time.Minute),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	mux.HandleFunc("/api/transactions", s.withMiddleware(s.handleTransactions))
	mux.HandleFunc("/api/transactions/recent", s.withMiddleware(s.handleRecent))
	mux.HandleFunc("/api/capture/voice", s.withMiddleware(s.handleCaptureVoice))
	mux.HandleFunc("/api/capture/photo", s.withMiddleware(s.handleCapturePhoto))
	mux.HandleFunc("/api/summary", s.withMiddleware(s.handleSummary))
	mux.HandleFunc("/api/reports", s.withMiddleware(s.handleReports))
	mux.HandleFunc("/api/export.csv", s.withMiddleware(s.handleExportCSV))
	mux.HandleFunc("/api/invoices", s.withMiddleware(s.handleInvoices))
	mux.HandleFunc("/api/invoices/status", s.withMiddleware(s.handleInvoiceStatus))
	mux.HandleFunc("/api/auth/signin", s.withMiddleware(s.handleSignIn))
	mux.HandleFunc("/api/auth/signup", s.withMiddleware(s.handleSignUp))
	mux.HandleFunc("/api/auth/signout", s.withMiddleware(s.handleSignOut))
	mux.HandleFunc("/api/auth/me", s.withMiddleware(s.handleMe))
	mux.HandleFunc("/ws/assistant", s.withMiddleware(s.handleAssistantWS))

	return s
}

// Shutdown stops the server and its background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds security headers, rate limiting and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.requestsTotal.Add(1)

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		s.logger.Info("Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		// Writes are rate limited; reads are cheap enough not to bother
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			s.logger.Warn("Rate limit exceeded", "client_ip", clientIP, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.Info("Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack passes through so the websocket upgrade still works behind the
// status-capturing wrapper.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("underlying writer does not support hijacking")
	}
	return h.Hijack()
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "bizkash_requests_total %d\n", s.requestsTotal.Load())
	fmt.Fprintf(w, "bizkash_transactions_recorded_total %d\n", s.recordedTotal.Load())
	fmt.Fprintf(w, "bizkash_captures_total %d\n", s.captureTotal.Load())
	fmt.Fprintf(w, "bizkash_assistant_messages_total %d\n", s.assistantMessages.Load())
	fmt.Fprintf(w, "bizkash_ledger_transactions %d\n", s.deps.Ledger.Len())
}

type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}
