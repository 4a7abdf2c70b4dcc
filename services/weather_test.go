package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWeatherRefreshStoresSnapshot(t *testing.T) {
	ctx := context.Background()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/forecast", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"current":{"temperature_2m":31.4}}`))
	}))
	defer server.Close()

	svc := NewWeatherService(NewMemoryKV())
	svc.baseURL = server.URL

	_, ok := svc.Cached(ctx)
	require.False(t, ok, "no snapshot before the first refresh")

	require.NoError(t, svc.Refresh(ctx))

	snapshot, ok := svc.Cached(ctx)
	require.True(t, ok)
	require.JSONEq(t, `{"current":{"temperature_2m":31.4}}`, string(snapshot))
}

func TestWeatherRefreshRejectsBadUpstream(t *testing.T) {
	ctx := context.Background()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewWeatherService(NewMemoryKV())
	svc.baseURL = server.URL

	require.Error(t, svc.Refresh(ctx))
	_, ok := svc.Cached(ctx)
	require.False(t, ok, "failed refresh must not poison the slot")
}

func TestWeatherRefreshRejectsInvalidJSON(t *testing.T) {
	ctx := context.Background()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer server.Close()

	svc := NewWeatherService(NewMemoryKV())
	svc.baseURL = server.URL

	require.Error(t, svc.Refresh(ctx))
}
