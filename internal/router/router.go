package router

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-auth-go/internal/login"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/organization"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/otp"
	"github.com/ovaphlow/pitchfork/service-auth-go/internal/user"
	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/utilities"
)

const requestIDHeader = "X-Request-ID"

type Config struct {
	Addr string
	// Prefix is prepended to every API route, e.g. "/api".
	Prefix string
}

func ConfigFromEnv() Config {
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8421"
	}
	return Config{Addr: addr, Prefix: strings.TrimRight(os.Getenv("API_PREFIX"), "/")}
}

// Handlers groups the domain handlers mounted by RegisterRoutes.
type Handlers struct {
	OTP          *otp.Handler
	Login        *login.Handler
	User         *user.Handler
	Organization *organization.Handler
}

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// RequestIDMiddleware echoes an inbound X-Request-ID or assigns a KSUID.
func RequestIDMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = utilities.NewKSUID()
				r.Header.Set(requestIDHeader, id)
			}
			w.Header().Set(requestIDHeader, id)
			next.ServeHTTP(w, r)
		})
	}
}

// LoggingMiddleware logs every request at debug level, and at warn level
// when the response is a server error.
func LoggingMiddleware(logger *zap.SugaredLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			log := logger.Debugw
			if status >= http.StatusInternalServerError {
				log = logger.Warnw
			}
			log("http request",
				"request_id", r.Header.Get(requestIDHeader),
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware sets common HTTP security headers.
func SecurityHeadersMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer")
			w.Header().Set("Cache-Control", "no-store")
			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none';")
			}
			// only over TLS; 30 days
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RegisterRoutes mounts the health check and every API route under
// cfg.Prefix and wraps them with request id, logging and security headers.
func RegisterRoutes(cfg Config, logger *zap.SugaredLogger, h Handlers) http.Handler {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware(), LoggingMiddleware(logger), SecurityHeadersMiddleware())

	r.HandleFunc(cfg.Prefix+"/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	api := r
	if cfg.Prefix != "" {
		api = r.PathPrefix(cfg.Prefix).Subrouter()
	}

	if h.OTP != nil {
		api.HandleFunc("/users/{id}/otp", h.OTP.Status).Methods(http.MethodGet)
		api.HandleFunc("/users/{id}/otp/verify", h.OTP.Verify).Methods(http.MethodPost)
	}
	if h.Login != nil {
		api.HandleFunc("/login", h.Login.Login).Methods(http.MethodPost)
	}
	if h.User != nil {
		api.HandleFunc("/v0/user", h.User.List).Methods(http.MethodGet)
		api.HandleFunc("/v0/user", h.User.Create).Methods(http.MethodPost)
		api.HandleFunc("/v0/user/{userId}", h.User.Get).Methods(http.MethodGet)
		api.HandleFunc("/v0/user/{userId}", h.User.Update).Methods(http.MethodPut)
	}
	if h.Organization != nil {
		api.HandleFunc("/orgnmaster", h.Organization.List).Methods(http.MethodGet)
		api.HandleFunc("/orgnmaster", h.Organization.Create).Methods(http.MethodPost)
		api.HandleFunc("/orgnmaster/{orgCode}", h.Organization.Get).Methods(http.MethodGet)
		api.HandleFunc("/orgnmaster/{orgCode}", h.Organization.Update).Methods(http.MethodPut)
	}
	return r
}
