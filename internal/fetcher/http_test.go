package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload_SendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{UserAgent: "Mozilla/5.0 test"})
	body, err := f.Download(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), body)
	assert.Equal(t, "Mozilla/5.0 test", gotUA)
}

func TestDownload_NonOKStatusIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{})
	_, err := f.Download(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDownload_ConnectionErrorIsNotNotFound(t *testing.T) {
	f := NewHTTPFetcher(HTTPOptions{})
	_, err := f.Download(context.Background(), "http://127.0.0.1:1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestProbe_ReturnsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{})
	status, err := f.Probe(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestNewHTTPFetcher_Defaults(t *testing.T) {
	f := NewHTTPFetcher(HTTPOptions{})
	assert.Equal(t, "floodwatch/1.0", f.opts.UserAgent)
	assert.NotZero(t, f.opts.Timeout)
	assert.NotZero(t, f.opts.ProbeTimeout)
}
