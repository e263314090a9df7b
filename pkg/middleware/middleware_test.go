package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/wardrobe/pkg/auth"
)

type stubAuthenticator struct {
	principal auth.Principal
	err       error
	calls     int
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (auth.Principal, error) {
	s.calls++
	if token != "good" {
		return auth.Principal{}, errors.New("bad token")
	}
	return s.principal, s.err
}

func TestAuthenticate(t *testing.T) {
	stub := &stubAuthenticator{principal: auth.Principal{UserID: 4, Username: "ana", Role: auth.RoleUser}}

	var seen auth.Principal
	reached := false
	h := Authenticate(stub)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		seen, _ = PrincipalFromCtx(r.Context())
	}))

	cases := []struct {
		name   string
		header string
		status int
		reach  bool
	}{
		{"missing", "", http.StatusUnauthorized, false},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, false},
		{"invalid", "Bearer nope", http.StatusUnauthorized, false},
		{"valid", "Bearer good", http.StatusOK, true},
		{"scheme is case-insensitive", "bearer good", http.StatusOK, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reached = false
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.reach, reached)
			if tc.reach {
				assert.Equal(t, uint(4), seen.UserID)
			}
		})
	}
}

func TestMemoryStoreWindow(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	for i := 1; i <= 3; i++ {
		count, _, err := store.Hit(context.Background(), "1.2.3.4", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}

	now = now.Add(61 * time.Second)
	count, resetAt, err := store.Hit(context.Background(), "1.2.3.4", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "a new window starts after reset")
	assert.Equal(t, now.Add(time.Minute), resetAt)
}

func TestRateLimit(t *testing.T) {
	h := RateLimit(NewMemoryStore(), 2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1").Code)
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1").Code)
	blocked := hit("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.2").Code, "limits are per client")
}

type failingStore struct{}

func (failingStore) Hit(context.Context, string, time.Duration) (int, time.Time, error) {
	return 0, time.Time{}, errors.New("redis down")
}

func TestRateLimitFailsOpen(t *testing.T) {
	h := RateLimit(failingStore{}, 1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCORS(t *testing.T) {
	h := CORS(DefaultCORSOptions("http://localhost:3000/"))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestBodyLimit(t *testing.T) {
	h := BodyLimit(4)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("too long")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", ClientIP(req))
}
