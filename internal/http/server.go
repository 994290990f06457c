package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"ledger/internal/cache"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/services"
)

// LedgerAPI is the transaction surface the handlers depend on.
type LedgerAPI interface {
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	ListStatements(ctx context.Context, f core.Filter) (map[string][]core.MonthlyStatement, error)
	RecordTransaction(ctx context.Context, in services.TransactionInput) (int64, error)
}

// OTPAPI is the passcode surface the handlers depend on.
type OTPAPI interface {
	Issue(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code string) error
}

type Server struct {
	http.Server
	ledger LedgerAPI
	otp    OTPAPI
	logger *log.Logger

	rateLimiter *rateLimiter

	// Statements are derived data; cache keyed by filter, dropped on insert.
	statementsCache *cache.LRUCache[map[string][]core.MonthlyStatement]

	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, ledger LedgerAPI, otp OTPAPI, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:          ledger,
		otp:             otp,
		logger:          logger.WithComponent(log.ComponentHTTP),
		rateLimiter:     newRateLimiter(),
		statementsCache: cache.NewLRUCache[map[string][]core.MonthlyStatement](100, 5*time.Minute),
	}
	s.statementsCache.StartJanitor(10 * time.Minute)

	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/api/otp/send-otp", s.withMiddleware(s.handleSendOTP))
	mux.HandleFunc("/api/otp/verify-otp", s.withMiddleware(s.handleVerifyOTP))
	mux.HandleFunc("/api/transactions", s.withMiddleware(s.handleTransactions))
	mux.HandleFunc("/api/statements", s.withMiddleware(s.handleStatements))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.statementsCache.StopJanitor()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// withMiddleware adds security headers, rate limiting, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		s.logger.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP)

		// Rate limit writes only; reads are cheap and cached.
		if r.Method == http.MethodPost && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
