package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRateLimitAuthBucketIsStricter(t *testing.T) {
	m := NewRateLimitMiddleware(1000, 2)
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	hit := func(path string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, hit("/api/v1/users/login"))
	require.Equal(t, http.StatusOK, hit("/api/v1/users/login"))
	require.Equal(t, http.StatusTooManyRequests, hit("/api/v1/users/login"))

	// The general bucket is unaffected.
	require.Equal(t, http.StatusOK, hit("/api/v1/tasks"))
}

func TestRateLimitSeparatesClients(t *testing.T) {
	m := NewRateLimitMiddleware(1000, 1)
	handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	hit := func(ip string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", nil)
		req.RemoteAddr = ip + ":1234"
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, hit("10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	require.Equal(t, http.StatusOK, hit("10.0.0.2"))
}
