package ratelimit

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/auth"
	"github.com/SamarHayatDev/Novel-GraphQL-Project/internal/models"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestLimiter(limit int) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	l := New(limit, time.Minute)
	l.now = clock.now
	return l, clock
}

func TestLimiterWindow(t *testing.T) {
	l, clock := newTestLimiter(3)

	for i := 0; i < 3; i++ {
		require.True(t, l.Allow("k"))
	}
	require.False(t, l.Allow("k"))
	require.Equal(t, 0, l.Remaining("k"))

	// other keys are independent
	require.True(t, l.Allow("other"))
	require.Equal(t, 2, l.Remaining("other"))

	clock.t = clock.t.Add(time.Minute)
	require.True(t, l.Allow("k"))
	require.Equal(t, 2, l.Remaining("k"))
	require.Equal(t, clock.t.Add(time.Minute), l.ResetAt("k"))
}

func TestLimiterPrunesExpiredWindowsLazily(t *testing.T) {
	l, clock := newTestLimiter(1)

	require.True(t, l.Allow("a"))
	require.True(t, l.Allow("b"))
	require.Len(t, l.windows, 2)

	clock.t = clock.t.Add(2 * time.Minute)
	require.Len(t, l.windows, 2)

	require.Equal(t, 1, l.Remaining("a"))
	require.Len(t, l.windows, 1)
	require.Contains(t, l.windows, "b")
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	l, _ := newTestLimiter(1)
	mw := NewMiddleware(l, quietLogger())

	calls := 0
	h := mw.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
	require.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, 1, calls)

	var body struct {
		Data   any `json:"data"`
		Errors []struct {
			Message    string         `json:"message"`
			Extensions map[string]any `json:"extensions"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Nil(t, body.Data)
	require.Len(t, body.Errors, 1)
	require.Equal(t, "RATE_LIMIT_EXCEEDED", body.Errors[0].Extensions["code"])
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	require.Equal(t, "ip:10.0.0.1", clientKey(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	require.Equal(t, "ip:203.0.113.7", clientKey(req))

	id := &auth.Identity{SubjectID: "u1", Role: models.RoleReader, Active: true}
	req = req.WithContext(auth.WithIdentity(req.Context(), id))
	require.Equal(t, "user:u1", clientKey(req))
}
