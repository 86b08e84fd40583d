package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/sitemapinc/internal/errorwrapper"
)

func TestHTTPClientBuilder_RejectsNonPositiveTimeout(t *testing.T) {
	_, err := NewHTTPClientBuilder().WithTimeout(0).Build()
	assert.Error(t, err)
}

func TestGet_ReturnsStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent/1.0", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder().
		WithTimeout(5 * time.Second).
		WithUserAgent("test-agent/1.0").
		Build()
	require.NoError(t, err)

	result, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, []byte("hello"), result.Body)
	assert.Equal(t, server.URL, result.FinalURL)
}

func TestGet_Non200IsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder().WithTimeout(5 * time.Second).Build()
	require.NoError(t, err)

	result, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, result.StatusCode)
}

func TestGet_FollowsRedirectsAndReportsFinalURL(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/404", http.StatusFound)
	})
	mux.HandleFunc("/404", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("gone"))
	})

	client, err := NewHTTPClientBuilder().WithTimeout(5 * time.Second).WithRedirects(true).Build()
	require.NoError(t, err)

	result, err := client.Get(context.Background(), server.URL+"/start")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.Equal(t, server.URL+"/404", result.FinalURL)
}

func TestGet_SendsCustomHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret-token", r.Header.Get("X-Api-Key"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewHTTPClientBuilder().
		WithTimeout(5 * time.Second).
		WithCustomHeaders(map[string]string{"X-Api-Key": "secret-token"}).
		Build()
	require.NoError(t, err)

	result, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestGet_InsecureSkipVerify(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	strict, err := NewHTTPClientBuilder().WithTimeout(5 * time.Second).Build()
	require.NoError(t, err)
	_, err = strict.Get(context.Background(), server.URL)
	assert.Error(t, err, "self-signed certificate must fail verification")

	lenient, err := NewHTTPClientBuilder().
		WithTimeout(5 * time.Second).
		WithInsecureSkipVerify(true).
		Build()
	require.NoError(t, err)

	result, err := lenient.Get(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestGet_NetworkErrorIsTyped(t *testing.T) {
	client, err := NewHTTPClientBuilder().WithTimeout(2 * time.Second).Build()
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "http://127.0.0.1:1/unreachable")
	require.Error(t, err)

	var netErr *errorwrapper.NetworkError
	assert.ErrorAs(t, err, &netErr)
}
