package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"taxease/internal/transport/http/api"
)

const maxKeyedBodyBytes = 64 * 1024

type RateLimitKeyFunc func(r *http.Request) string

type RateLimitOption func(*limiter)

func withKeyFunc(fn RateLimitKeyFunc) RateLimitOption {
	return func(l *limiter) {
		if fn != nil {
			l.key = fn
		}
	}
}

func WithScope(name string) RateLimitOption {
	return func(l *limiter) { l.scope = name }
}

// RatePolicy throttles the requests it matches. Every key function gets its
// own counter, and a request must fit under all of them.
type RatePolicy struct {
	Name  string
	Limit int
	Match func(r *http.Request) bool
	Keys  []RateLimitKeyFunc
}

// RateLimit is a fixed-window limit over every request, keyed by the signed
// in user or the client IP.
func RateLimit(limit int, period time.Duration, opts ...RateLimitOption) func(http.Handler) http.Handler {
	l := newLimiter("global", limit, period, actorOrIPKey)
	for _, opt := range opts {
		opt(l)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(w, r) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TaxRoutePolicies are the tighter budgets for credential checks, stored
// calculations and PDF rendering.
func TaxRoutePolicies(baseLimit int) []RatePolicy {
	return []RatePolicy{
		{
			Name:  "credentials",
			Limit: max(baseLimit/4, 1),
			Match: func(r *http.Request) bool {
				if r.Method != http.MethodPost {
					return false
				}
				path := normalizedAPIPath(r.URL.Path)
				return path == "/auth/login" || path == "/auth/register"
			},
			Keys: []RateLimitKeyFunc{clientIPKey, AuthEmailOrIPKey("email")},
		},
		{
			Name:  "calculations",
			Limit: max(baseLimit/2, 1),
			Match: func(r *http.Request) bool {
				path := normalizedAPIPath(r.URL.Path)
				if r.Method == http.MethodPost {
					return path == "/tax/calculate"
				}
				return r.Method == http.MethodGet && strings.HasPrefix(path, "/tax/report/")
			},
			Keys: []RateLimitKeyFunc{actorOrIPKey},
		},
	}
}

// PolicyRateLimit applies the first matching policy. Unmatched requests pass
// through.
func PolicyRateLimit(period time.Duration, policies ...RatePolicy) func(http.Handler) http.Handler {
	type compiled struct {
		match    func(r *http.Request) bool
		limiters []*limiter
	}
	rules := make([]compiled, 0, len(policies))
	for _, p := range policies {
		rule := compiled{match: p.Match}
		for _, key := range p.Keys {
			rule.limiters = append(rule.limiters, newLimiter(p.Name, p.Limit, period, key))
		}
		rules = append(rules, rule)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, rule := range rules {
				if rule.match == nil || !rule.match(r) {
					continue
				}
				for _, l := range rule.limiters {
					if !l.allow(w, r) {
						return
					}
				}
				break
			}
			next.ServeHTTP(w, r)
		})
	}
}

func SensitiveRateLimit(baseLimit int, period time.Duration) func(http.Handler) http.Handler {
	return PolicyRateLimit(period, TaxRoutePolicies(baseLimit)...)
}

type counter struct {
	hits  int
	reset time.Time
}

type limiter struct {
	mu        sync.Mutex
	scope     string
	limit     int
	period    time.Duration
	key       RateLimitKeyFunc
	counters  map[string]*counter
	nextSweep time.Time
	now       func() time.Time
}

func newLimiter(scope string, limit int, period time.Duration, key RateLimitKeyFunc) *limiter {
	if key == nil {
		key = actorOrIPKey
	}
	return &limiter{
		scope:    scope,
		limit:    limit,
		period:   period,
		key:      key,
		counters: map[string]*counter{},
		now:      time.Now,
	}
}

// take counts one hit for key and reports whether it is over the limit and
// how many seconds remain in the window.
func (l *limiter) take(key string) (remaining, resetIn int, over bool) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.After(l.nextSweep) {
		for k, c := range l.counters {
			if now.After(c.reset) {
				delete(l.counters, k)
			}
		}
		l.nextSweep = now.Add(l.period)
	}

	c, ok := l.counters[key]
	if !ok || now.After(c.reset) {
		c = &counter{reset: now.Add(l.period)}
		l.counters[key] = c
	}
	c.hits++
	return max(l.limit-c.hits, 0), ceilSeconds(c.reset.Sub(now)), c.hits > l.limit
}

func (l *limiter) allow(w http.ResponseWriter, r *http.Request) bool {
	if l.limit <= 0 {
		return true
	}

	key := l.key(r)
	if key == "" {
		key = clientIPKey(r)
	}
	remaining, resetIn, over := l.take(key)

	headers := w.Header()
	headers.Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
	headers.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	headers.Set("X-RateLimit-Reset", strconv.Itoa(resetIn))
	if !over {
		return true
	}

	headers.Set("Retry-After", strconv.Itoa(max(resetIn, 1)))
	slog.Warn("rate limit exceeded",
		"scope", l.scope,
		"key", key,
		"method", r.Method,
		"path", r.URL.Path,
		"limit", l.limit,
		"request_id", GetRequestID(r.Context()),
	)
	api.Fail(w, http.StatusTooManyRequests, api.CodeRateLimited, "too many requests", GetRequestID(r.Context()))
	return false
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// AuthEmailOrIPKey keys credential attempts by the submitted email so one
// account cannot be tried from many addresses.
func AuthEmailOrIPKey(field string) RateLimitKeyFunc {
	field = strings.TrimSpace(field)
	if field == "" {
		field = "email"
	}
	return func(r *http.Request) string {
		if email := peekJSONString(r, field); email != "" {
			return "email:" + strings.ToLower(email)
		}
		return clientIPKey(r)
	}
}

func actorOrIPKey(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok {
		return "user:" + user.UserID
	}
	return clientIPKey(r)
}

func clientIPKey(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil && host != "" {
		return host
	}
	return addr
}

// peekJSONString reads one string field from a JSON body and restores the
// body for the handler.
func peekJSONString(r *http.Request, field string) string {
	if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxKeyedBodyBytes))
	if err != nil {
		return ""
	}
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(raw), r.Body), r.Body}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	var value string
	if err := json.Unmarshal(payload[field], &value); err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

func normalizedAPIPath(path string) string {
	cleaned := strings.TrimPrefix(strings.TrimSpace(path), "/api")
	if !strings.HasPrefix(cleaned, "/") {
		cleaned = "/" + cleaned
	}
	return cleaned
}
