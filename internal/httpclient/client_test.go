package httpclient_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bro-exchange/bro-exchange/internal/httpclient"
)

// newTestServer creates a new test server with keep-alives disabled.
// This prevents flaky tests when running in parallel, as closing a server
// with keep-alives enabled can affect other tests sharing the HTTP transport.
func newTestServer(handler http.Handler) *httptest.Server {
	server := httptest.NewServer(handler)
	server.Config.SetKeepAlivesEnabled(false)
	return server
}

func TestNewDefaultClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		timeout time.Duration
	}{
		{
			name:    "create client with custom timeout",
			timeout: 5 * time.Second,
		},
		{
			name:    "create client with zero timeout uses default",
			timeout: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := httpclient.NewDefaultClient(tt.timeout)

			require.NotNil(t, client, "client should not be nil")
		})
	}
}

func TestDefaultClient_Get_SuccessfulRequests(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		responseBody string
	}{
		{
			name:         "successful XML response",
			responseBody: `<dispatchDataResponse/>`,
		},
		{
			name:         "successful plain text response",
			responseBody: "plain text content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var receivedUserAgent string
			var receivedAccept string

			mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				receivedUserAgent = r.Header.Get("User-Agent")
				receivedAccept = r.Header.Get("Accept")

				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer mockServer.Close()

			client := httpclient.NewDefaultClient(30 * time.Second)

			data, err := client.Get(context.Background(), mockServer.URL)

			require.NoError(t, err)
			assert.Equal(t, []byte(tt.responseBody), data)
			assert.Equal(t, httpclient.UserAgent, receivedUserAgent)
			assert.Equal(t, "*/*", receivedAccept)
		})
	}
}

func TestDefaultClient_Do(t *testing.T) {
	t.Parallel()

	t.Run("sends body, headers, query and basic auth", func(t *testing.T) {
		t.Parallel()

		var (
			gotMethod      string
			gotBody        string
			gotContentType string
			gotAccept      string
			gotQuery       url.Values
			gotUser        string
			gotPass        string
			gotAuth        bool
		)
		mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotContentType = r.Header.Get("Content-Type")
			gotAccept = r.Header.Get("Accept")
			gotQuery = r.URL.Query()
			gotUser, gotPass, gotAuth = r.BasicAuth()
			b, _ := io.ReadAll(r.Body)
			gotBody = string(b)

			w.Header().Set("Location", "http://portal.test/api/uploads/42")
			w.WriteHeader(http.StatusCreated)
		}))
		defer mockServer.Close()

		client := httpclient.NewDefaultClient(0)
		resp, err := client.Do(context.Background(), &httpclient.Request{
			Method:      http.MethodPost,
			URL:         mockServer.URL,
			Query:       url.Values{"filename": []string{"req.xml"}},
			Body:        []byte("<a/>"),
			ContentType: "application/xml",
			Accept:      "application/json",
			Username:    "user",
			Password:    "secret",
		})

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "http://portal.test/api/uploads/42", resp.Location())
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "<a/>", gotBody)
		assert.Equal(t, "application/xml", gotContentType)
		assert.Equal(t, "application/json", gotAccept)
		assert.Equal(t, "req.xml", gotQuery.Get("filename"))
		assert.True(t, gotAuth)
		assert.Equal(t, "user", gotUser)
		assert.Equal(t, "secret", gotPass)
	})

	t.Run("omits basic auth without username", func(t *testing.T) {
		t.Parallel()

		var gotAuth bool
		mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _, gotAuth = r.BasicAuth()
			w.WriteHeader(http.StatusOK)
		}))
		defer mockServer.Close()

		client := httpclient.NewDefaultClient(0)
		_, err := client.Do(context.Background(), &httpclient.Request{URL: mockServer.URL})

		require.NoError(t, err)
		assert.False(t, gotAuth)
	})

	t.Run("nil response has empty location", func(t *testing.T) {
		t.Parallel()

		var resp *httpclient.Response
		assert.Empty(t, resp.Location())
	})
}

func TestDefaultClient_Get_HTTPErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		statusCode    int
		responseBody  string
		errorContains string
		temporary     bool
	}{
		{
			name:          "404 Not Found",
			statusCode:    http.StatusNotFound,
			responseBody:  "Not Found",
			errorContains: "HTTP 404",
		},
		{
			name:          "400 Bad Request keeps body",
			statusCode:    http.StatusBadRequest,
			responseBody:  `{"errors":["invalid upload"]}`,
			errorContains: "invalid upload",
		},
		{
			name:          "401 Unauthorized",
			statusCode:    http.StatusUnauthorized,
			responseBody:  "",
			errorContains: "401 Unauthorized",
		},
		{
			name:          "500 Internal Server Error",
			statusCode:    http.StatusInternalServerError,
			responseBody:  "Internal Server Error",
			errorContains: "HTTP 500",
			temporary:     true,
		},
		{
			name:          "503 Service Unavailable",
			statusCode:    http.StatusServiceUnavailable,
			responseBody:  "Service Unavailable",
			errorContains: "HTTP 503",
			temporary:     true,
		},
		{
			name:          "429 Too Many Requests",
			statusCode:    http.StatusTooManyRequests,
			responseBody:  "Too Many Requests",
			errorContains: "HTTP 429",
			temporary:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer mockServer.Close()

			client := httpclient.NewDefaultClient(30 * time.Second)

			_, err := client.Get(context.Background(), mockServer.URL)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
			assert.Equal(t, tt.statusCode, httpclient.StatusCode(err))

			var httpErr *httpclient.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.temporary, httpErr.Temporary())
		})
	}
}

func TestDefaultClient_Get_NetworkErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		url           string
		errorContains string
	}{
		{
			name:          "invalid URL scheme",
			url:           "://invalid-url",
			errorContains: "failed to create request",
		},
		{
			name:          "unreachable host",
			url:           "http://invalid-host-does-not-exist.local:9999",
			errorContains: "failed to execute request",
		},
		{
			name:          "empty URL",
			url:           "",
			errorContains: "failed to execute request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := httpclient.NewDefaultClient(30 * time.Second)

			_, err := client.Get(context.Background(), tt.url)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
			assert.Zero(t, httpclient.StatusCode(err))
		})
	}
}

func TestDefaultClient_Get_ContextCancellation(t *testing.T) {
	t.Parallel()

	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusOK)
	}))
	defer mockServer.Close()

	client := httpclient.NewDefaultClient(30 * time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, mockServer.URL)

	require.Error(t, err)
}

func TestDefaultClient_Get_SizeLimitExceeded(t *testing.T) {
	t.Parallel()

	mockServer := newTestServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", 101*1024*1024))
		w.WriteHeader(http.StatusOK)
	}))
	defer mockServer.Close()

	client := httpclient.NewDefaultClient(30 * time.Second)

	_, err := client.Get(context.Background(), mockServer.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum allowed size")
	assert.Contains(t, err.Error(), "100.00 MB")
}
