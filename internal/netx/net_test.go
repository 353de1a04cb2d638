package netx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload(t *testing.T) {
	t.Run("200 returns body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "sig=abc", r.URL.RawQuery)
			_, _ = w.Write([]byte(`{"id":1}`))
		}))
		defer ts.Close()

		body, err := Download(context.Background(), ts.Client(), ts.URL+"/orders/1.json?sig=abc")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":1}`, string(body))
	})

	t.Run("non-200 includes status and body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("SignatureDoesNotMatch"))
		}))
		defer ts.Close()

		_, err := Download(context.Background(), nil, ts.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "403")
		assert.Contains(t, err.Error(), "SignatureDoesNotMatch")
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := Download(context.Background(), nil, "://nope")
		assert.Error(t, err)
	})

	t.Run("canceled context", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer ts.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Download(ctx, ts.Client(), ts.URL)
		assert.Error(t, err)
	})
}
