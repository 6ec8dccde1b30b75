package ephemeris

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jyotish-lab/internal/domain"
)

func rpcServer(t *testing.T, handle func(req rpcRequest) any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(handle(req))
	}))
}

func TestHTTPClient_Position(t *testing.T) {
	server := rpcServer(t, func(req rpcRequest) any {
		assert.Equal(t, MethodPosition, req.Method)
		assert.Len(t, req.Params, 3)
		assert.Equal(t, float64(domain.BodyIDMoon), req.Params[1])
		assert.Equal(t, "LAHIRI", req.Params[2])
		return map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  map[string]any{"longitude": 181.0, "speed": 13.2, "declination": -1.5},
		}
	})
	defer server.Close()

	client := NewHTTPClient(server.URL)
	pos, err := client.Position(context.Background(), 2451545.0, domain.BodyIDMoon, domain.AyanamsaLahiri)
	require.NoError(t, err)
	assert.Equal(t, 181.0, pos.Longitude)
	assert.Equal(t, 13.2, pos.Speed)
	assert.Equal(t, -1.5, pos.Declination)
}

func TestHTTPClient_Houses(t *testing.T) {
	server := rpcServer(t, func(req rpcRequest) any {
		assert.Equal(t, MethodHouses, req.Method)
		assert.Equal(t, "P", req.Params[3])
		cusps := make([]float64, 12)
		for i := range cusps {
			cusps[i] = float64(i * 30)
		}
		return map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  map[string]any{"ascendant": 15.0, "cusps": cusps},
		}
	})
	defer server.Close()

	h, err := NewHTTPClient(server.URL).Houses(context.Background(), 2451545.0, 28.6, 77.2, domain.HousePlacidus, domain.AyanamsaLahiri)
	require.NoError(t, err)
	assert.Equal(t, 15.0, h.Ascendant)
	assert.Equal(t, 330.0, h.Cusps[11])
}

func TestHTTPClient_ServiceErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := rpcServer(t, func(req rpcRequest) any {
		calls.Add(1)
		return map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"error":   map[string]any{"code": CodeBodyUnavailable, "message": "no data"},
		}
	})
	defer server.Close()

	_, err := NewHTTPClient(server.URL, WithRetryDelay(time.Millisecond)).
		Position(context.Background(), 0, domain.BodyIDRahu, domain.AyanamsaLahiri)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBodyUnavailable))
	var rpcErr *RPCError
	assert.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		var req rpcRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  map[string]any{"sunrise": 2451544.75, "sunset": 2451545.25},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithRetryDelay(time.Millisecond), WithMaxDelay(5*time.Millisecond))
	rs, err := client.RiseSet(context.Background(), 2451545.0, 0, 0)
	require.NoError(t, err)
	assert.True(t, rs.Valid())
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPClient_MaxRetriesExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, WithMaxRetries(1), WithRetryDelay(time.Millisecond))
	_, err := client.RiseSet(context.Background(), 0, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
}

func TestHouseSystemCode(t *testing.T) {
	assert.Equal(t, "W", HouseSystemCode(domain.HouseWholeSign))
	assert.Equal(t, "P", HouseSystemCode(domain.HousePlacidus))
	assert.Equal(t, "E", HouseSystemCode(domain.HouseEqual))
	assert.Equal(t, "O", HouseSystemCode(domain.HousePorphyry))
	assert.Equal(t, "W", HouseSystemCode("unknown"))
}

func TestRiseSet_Valid(t *testing.T) {
	assert.False(t, RiseSet{}.Valid())
	assert.False(t, RiseSet{Sunrise: 1}.Valid())
	assert.True(t, RiseSet{Sunrise: 1, Sunset: 2}.Valid())
}
