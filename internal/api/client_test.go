package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nudgepay/internal/models"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestDo_SurfacesServerErrorVerbatim(t *testing.T) {
	statuses := []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusConflict, http.StatusInternalServerError}
	for _, status := range statuses {
		t.Run(http.StatusText(status), func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				_, _ = io.WriteString(w, `{"error":"email already registered"}`)
			})

			err := c.Do(context.Background(), Request{Path: "/api/clients"}, nil)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, status, apiErr.Status)
			assert.Equal(t, "email already registered", apiErr.Message)
			assert.Equal(t, "email already registered", err.Error())
		})
	}
}

func TestDo_FallbackMessage(t *testing.T) {
	bodies := map[string]string{
		"not json":      "<html>bad gateway</html>",
		"empty body":    "",
		"missing field": `{"message":"nope"}`,
		"empty field":   `{"error":""}`,
		"wrong type":    `{"error":42}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_, _ = io.WriteString(w, body)
			})

			err := c.Do(context.Background(), Request{Path: "/api/metrics"}, nil)

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusBadGateway, apiErr.Status)
			assert.Equal(t, FallbackMessage, apiErr.Message)
		})
	}
}

func TestDo_SendsHeadersAndBody(t *testing.T) {
	var got *http.Request
	var gotBody map[string]any
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = io.WriteString(w, `{"id":"c-1"}`)
	})

	var out models.Created
	err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/api/clients",
		Token:  "tok-123",
		Body:   map[string]string{"name": "Acme"},
		Header: http.Header{"X-Extra": {"yes"}},
	}, &out)
	require.NoError(t, err)

	assert.Equal(t, "c-1", out.ID)
	assert.Equal(t, http.MethodPost, got.Method)
	assert.Equal(t, "/api/clients", got.URL.Path)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "Bearer tok-123", got.Header.Get("Authorization"))
	assert.Equal(t, "yes", got.Header.Get("X-Extra"))
	assert.NotEmpty(t, got.Header.Get("X-Request-ID"))
	assert.Equal(t, "Acme", gotBody["name"])
}

func TestDo_DefaultsToGetWithoutAuthorization(t *testing.T) {
	var got *http.Request
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = io.WriteString(w, `{}`)
	})

	require.NoError(t, c.Do(context.Background(), Request{Path: "/health"}, nil))
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Empty(t, got.Header.Get("Authorization"))
}

func TestDo_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := New(url).Do(context.Background(), Request{Path: "/api/metrics"}, nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)
	assert.Equal(t, FallbackMessage, apiErr.Message)
	assert.NotNil(t, errors.Unwrap(err))
}

func TestDo_CancelledContext(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Do(ctx, Request{Path: "/api/metrics"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, FallbackMessage, Message(err, "other"))
}

func TestDo_UndecodableSuccessBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	})

	var out models.Metrics
	err := c.Do(context.Background(), Request{Path: "/api/metrics"}, &out)
	assert.Equal(t, FallbackMessage, Message(err, "other"))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "boom", Message(&Error{Message: "boom"}, "fallback"))
	assert.Equal(t, "fallback", Message(errors.New("plain"), "fallback"))
	assert.Equal(t, "fallback", Message(nil, "fallback"))
}

func TestNew_DefaultBaseURL(t *testing.T) {
	assert.Equal(t, DefaultBaseURL, New("").BaseURL())
	assert.Equal(t, "http://api.test", New("http://api.test/").BaseURL())
}
