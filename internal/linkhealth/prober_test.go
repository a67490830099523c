package linkhealth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookmeup/bookmeup-server/internal/domain"
)

func testProber() *Prober {
	return NewProber(ProberConfig{UserAgent: "bookmeup-test"})
}

func TestCheckOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, "bookmeup-test", r.UserAgent())
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := testProber().Check(context.Background(), srv.URL)
	assert.Equal(t, domain.HealthOK, result.Status)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, srv.URL, result.FinalURL)
	assert.Empty(t, result.ErrorMessage)
	assert.GreaterOrEqual(t, result.ResponseTime, time.Duration(0))
}

func TestCheckRedirected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	result := testProber().Check(context.Background(), srv.URL+"/old")
	assert.Equal(t, domain.HealthRedirected, result.Status)
	assert.Equal(t, srv.URL+"/new", result.FinalURL)
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestCheckBrokenStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	result := testProber().Check(context.Background(), srv.URL)
	assert.Equal(t, domain.HealthBroken, result.Status)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.Equal(t, "HTTP 404", result.ErrorMessage)
}

func TestCheckBrokenTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	result := testProber().Check(context.Background(), srv.URL)
	assert.Equal(t, domain.HealthBroken, result.Status)
	assert.Zero(t, result.StatusCode)
	assert.NotEmpty(t, result.ErrorMessage)
}

func TestCheckFallsBackToGet(t *testing.T) {
	var sawGet bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		sawGet = true
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := testProber().Check(context.Background(), srv.URL)
	assert.True(t, sawGet)
	assert.Equal(t, domain.HealthOK, result.Status)
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestCheckRedirectCeiling(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/loop", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop", http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	prober := NewProber(ProberConfig{MaxRedirects: 3})
	result := prober.Check(context.Background(), srv.URL+"/loop")
	require.Equal(t, domain.HealthBroken, result.Status)
	assert.Equal(t, ErrTooManyRedirects.Error(), result.ErrorMessage)
}
