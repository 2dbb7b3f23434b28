package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newAuthServer returns a test server whose /api/orders endpoint requires a
// session cookie and whose refresh endpoint issues one. The barrier makes
// every protected request of a burst arrive before any 401 is written, so
// the 401s are genuinely concurrent.
func newAuthServer(t *testing.T, burst int, refreshCalls *int64, refreshFails bool) *httptest.Server {
	t.Helper()

	var barrier sync.WaitGroup
	barrier.Add(burst)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(refreshCalls, 1)
		if refreshFails {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"refresh token expired"}`))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "fresh", Path: "/"})
		w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("token"); err == nil && cookie.Value == "fresh" {
			w.Write([]byte(`{"orders":[]}`))
			return
		}
		barrier.Done()
		barrier.Wait()
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Unauthorized"}`))
	})
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Unauthorized"}`))
	})
	return httptest.NewServer(mux)
}

func TestConcurrent401sShareOneRefresh(t *testing.T) {
	const burst = 8
	var refreshCalls int64

	srv := newAuthServer(t, burst, &refreshCalls, false)
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, burst)
	for i := 0; i < burst; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var out map[string]interface{}
			errs[i] = client.Get(context.Background(), "/api/orders", &out)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "request %d", i)
	}
	assert.Equal(t, int64(1), atomic.LoadInt64(&refreshCalls))
}

func TestRefreshFailureRejectsAllWaitersAndFiresCallbackOnce(t *testing.T) {
	const burst = 6
	var refreshCalls, callbackCalls int64

	srv := newAuthServer(t, burst, &refreshCalls, true)
	defer srv.Close()

	client, err := New(srv.URL, WithAuthFailureHandler(func(error) {
		atomic.AddInt64(&callbackCalls, 1)
	}))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, burst)
	for i := 0; i < burst; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = client.Get(context.Background(), "/api/orders", nil)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.Error(t, err, "request %d", i)
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr), "request %d", i)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	}
	assert.Equal(t, int64(1), atomic.LoadInt64(&refreshCalls))
	assert.Equal(t, int64(1), atomic.LoadInt64(&callbackCalls))
}

func TestPublicRequestNeverTriggersRefresh(t *testing.T) {
	var refreshCalls int64
	srv := newAuthServer(t, 1, &refreshCalls, false)
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	err = client.Get(context.Background(), "/api/products", nil, Public())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Zero(t, atomic.LoadInt64(&refreshCalls))
}

func TestRetriedRequestIsNotRetriedAgain(t *testing.T) {
	var refreshCalls, protectedCalls int64

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&refreshCalls, 1)
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "fresh"})
		w.Write([]byte(`{}`))
	})
	// Always 401, even with a fresh session.
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&protectedCalls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Unauthorized"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	err = client.Get(context.Background(), "/api/orders", nil)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, int64(1), atomic.LoadInt64(&refreshCalls))
	assert.Equal(t, int64(2), atomic.LoadInt64(&protectedCalls))
}

func TestErrorMessageParsing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/coupons/validate", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Coupon has expired"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	err = client.Post(context.Background(), "/api/coupons/validate", map[string]string{"code": "OLD"}, nil, Public())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Coupon has expired", apiErr.Message)
}

func TestDecodeSuccess(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"products":[{"sku":"A"}],"total":1}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := New(srv.URL)
	require.NoError(t, err)

	var out struct {
		Products []struct {
			SKU string `json:"sku"`
		} `json:"products"`
		Total int `json:"total"`
	}
	require.NoError(t, client.Get(context.Background(), "/api/products", &out, Public()))
	assert.Equal(t, 1, out.Total)
	require.Len(t, out.Products, 1)
	assert.Equal(t, "A", out.Products[0].SKU)
}
