package http

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		timeout time.Duration
		want    time.Duration
	}{
		{name: "explicit timeout", timeout: 3 * time.Second, want: 3 * time.Second},
		{name: "zero uses default", timeout: 0, want: defaultClientTimeout},
		{name: "negative uses default", timeout: -time.Second, want: defaultClientTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewHTTPClient(tt.timeout)
			assert.Equal(t, tt.want, c.Timeout)

			lt, ok := c.Transport.(*loggingTransport)
			require.True(t, ok)
			tr, ok := lt.next.(*http.Transport)
			require.True(t, ok)
			assert.Equal(t, maxIdleConnsPerHost, tr.MaxIdleConnsPerHost)
			assert.NotNil(t, tr.Proxy)
		})
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// TestLoggingTransport はAPIキーを含むクエリがログに出ないことを検証します。
// slog のデフォルトを差し替えるため並列実行しません。
func TestLoggingTransport(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	c := NewHTTPClient(time.Second)
	res, err := c.Get(srv.URL + "/time_series?apikey=secret-key")
	require.NoError(t, err)
	_ = res.Body.Close()

	assert.Equal(t, http.StatusTeapot, res.StatusCode)
	assert.Contains(t, buf.String(), "path=/time_series")
	assert.Contains(t, buf.String(), "status=418")
	assert.NotContains(t, buf.String(), "secret-key")

	buf.Reset()
	boom := errors.New("connection reset")
	lt := &loggingTransport{next: roundTripFunc(func(*http.Request) (*http.Response, error) { return nil, boom })}
	req := httptest.NewRequest(http.MethodGet, "http://example.test/chart?apikey=secret-key", nil)
	_, err = lt.RoundTrip(req)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, buf.String(), "upstream request failed")
	assert.NotContains(t, buf.String(), "secret-key")
}
