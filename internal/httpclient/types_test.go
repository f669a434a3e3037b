package httpclient_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bro-exchange/bro-exchange/internal/httpclient"
)

func TestNewHTTPError(t *testing.T) {
	t.Parallel()

	err := httpclient.NewHTTPError(500, "http://api.example.com/api/validatie", "Internal Server Error")
	assert.Equal(t, "HTTP 500 for URL http://api.example.com/api/validatie: Internal Server Error", err.Error())

	empty := httpclient.NewHTTPError(404, "http://example.com", "")
	assert.Equal(t, "HTTP 404 for URL http://example.com: ", empty.Error())
}

func TestStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "plain error", err: fmt.Errorf("boom"), want: 0},
		{name: "http error", err: httpclient.NewHTTPError(403, "u", "Forbidden"), want: 403},
		{name: "wrapped http error", err: fmt.Errorf("failed to upload: %w", httpclient.NewHTTPError(502, "u", "")), want: 502},
		{name: "nil", err: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, httpclient.StatusCode(tt.err))
		})
	}
}
