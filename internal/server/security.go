package server

import (
	"crypto/subtle"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/osse101/InventoryHUD_Go/internal/logger"
)

func isPublicPath(path string) bool {
	for _, p := range PublicPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// AuthMiddleware checks the API key on every non-public route. The key is read
// from the X-API-Key header, falling back to the ?key= query parameter. An
// empty apiKey disables the check.
func AuthMiddleware(apiKey string, trustedProxies []string, monitor *ActivityMonitor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			providedKey := r.Header.Get(HeaderAPIKey)
			if providedKey == "" {
				providedKey = r.URL.Query().Get(QueryParamAPIKey)
			}

			// constant time to avoid leaking the key through timing
			if subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				ip := extractIP(r, trustedProxies)
				monitor.RecordFailedAuth(ip)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"path", r.URL.Path,
					"has_key", providedKey != "",
					"ip", ip)

				http.Error(w, ErrMsgUnauthorized, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestSizeLimitMiddleware limits request body size
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// ActivityMonitor counts requests and failed logins per client IP over a
// fixed window.
type ActivityMonitor struct {
	mu               sync.Mutex
	clock            clockwork.Clock
	limit            int
	window           time.Duration
	failedAuthByIP   map[string]int
	requestCountByIP map[string]int
	windowStart      time.Time
}

// NewActivityMonitor allows limit requests per IP in each window
func NewActivityMonitor(clock clockwork.Clock, limit int, window time.Duration) *ActivityMonitor {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &ActivityMonitor{
		clock:            clock,
		limit:            limit,
		window:           window,
		failedAuthByIP:   make(map[string]int),
		requestCountByIP: make(map[string]int),
		windowStart:      clock.Now(),
	}
}

// RecordFailedAuth records a failed authentication attempt
func (m *ActivityMonitor) RecordFailedAuth(ip string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resetIfElapsed()
	m.failedAuthByIP[ip]++

	if m.failedAuthByIP[ip] >= failedAuthAlert {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", m.failedAuthByIP[ip])
	}
}

// RecordRequest counts a request and reports whether it is within the limit
func (m *ActivityMonitor) RecordRequest(ip string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.resetIfElapsed()
	m.requestCountByIP[ip]++

	if n := m.requestCountByIP[ip]; n > m.limit {
		if n%highRateLogEvery == 0 {
			slog.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", n, "window", m.window)
		}
		return false
	}
	return true
}

// Caller must hold the mutex
func (m *ActivityMonitor) resetIfElapsed() {
	now := m.clock.Now()
	if now.Sub(m.windowStart) > m.window {
		m.requestCountByIP = make(map[string]int)
		m.failedAuthByIP = make(map[string]int)
		m.windowStart = now
	}
}

// RateLimitMiddleware answers 429 once a client IP is over its limit
func RateLimitMiddleware(trustedProxies []string, monitor *ActivityMonitor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !monitor.RecordRequest(extractIP(r, trustedProxies)) {
				http.Error(w, ErrMsgTooManyRequests, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractIP gets the client IP address from request.
// It only trusts X-Forwarded-For if the request comes from a trusted proxy.
func extractIP(r *http.Request, trustedProxies []string) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	isTrusted := false
	for _, proxy := range trustedProxies {
		if proxy == remoteIP {
			isTrusted = true
			break
		}
	}

	if isTrusted {
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			// rightmost hop is the one our proxy saw
			ips := strings.Split(forwarded, ",")
			return strings.TrimSpace(ips[len(ips)-1])
		}
	}

	return remoteIP
}

// SecurityHeadersMiddleware adds security headers to responses
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(HeaderContentType, HeaderValueNoSniff)
			w.Header().Set(HeaderFrameOptions, HeaderValueSameOrigin)
			w.Header().Set(HeaderXSSProtection, HeaderValueXSSBlock)
			w.Header().Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)

			next.ServeHTTP(w, r)
		})
	}
}
