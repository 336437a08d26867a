package apiclient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrconnect/appkit/pkg/apiclient"
)

func TestQRClientCurrent(t *testing.T) {
	t.Parallel()

	t.Run("returns current artifact", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, "/api/qr/current", r.URL.Path)
			require.Equal(t, "Bearer some.jwt.token", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"qr_code": map[string]any{
					"id":           7,
					"user_id":      42,
					"qr_code":      "data:image/png;base64,aGk=",
					"created_at":   "2025-01-01T00:00:00Z",
					"last_updated": "2025-06-01T00:00:00Z",
				},
			})
		}))
		defer srv.Close()

		qr := apiclient.NewQRClient(apiclient.New(srv.URL))
		artifact, err := qr.Current(context.Background(), "some.jwt.token")
		require.NoError(t, err)
		assert.Equal(t, int64(7), artifact.ID)
		assert.Equal(t, int64(42), artifact.UserID)
		assert.Equal(t, "data:image/png;base64,aGk=", artifact.Code)
	})

	t.Run("404 means no artifact yet", func(t *testing.T) {
		t.Parallel()
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		qr := apiclient.NewQRClient(apiclient.New(srv.URL))
		_, err := qr.Current(context.Background(), "some.jwt.token")
		require.ErrorIs(t, err, apiclient.ErrArtifactNotFound)
		assert.EqualValues(t, 1, calls.Load(), "404 is not retried")
	})

	t.Run("http errors are not retried", func(t *testing.T) {
		t.Parallel()
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
		}))
		defer srv.Close()

		qr := apiclient.NewQRClient(apiclient.New(srv.URL))
		_, err := qr.Current(context.Background(), "some.jwt.token")

		var remote *apiclient.RemoteError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, http.StatusInternalServerError, remote.StatusCode)
		assert.EqualValues(t, 1, calls.Load())
	})

	t.Run("transport failures are retried", func(t *testing.T) {
		t.Parallel()
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				// Kill the connection mid-request to force a transport error.
				hj, ok := w.(http.Hijacker)
				require.True(t, ok)
				conn, _, err := hj.Hijack()
				require.NoError(t, err)
				_ = conn.Close()
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{
				"qr_code": map[string]any{"qr_code": "payload"},
			})
		}))
		defer srv.Close()

		qr := apiclient.NewQRClient(apiclient.New(srv.URL))
		artifact, err := qr.Current(context.Background(), "some.jwt.token")
		require.NoError(t, err)
		assert.Equal(t, "payload", artifact.Code)
		assert.EqualValues(t, 2, calls.Load())
	})
}

func TestQRClientRefresh(t *testing.T) {
	t.Parallel()

	t.Run("returns rotated code", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPut, r.Method)
			require.Equal(t, "/api/qr/refresh", r.URL.Path)
			require.Equal(t, "Bearer some.jwt.token", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"qr_code": "rotated-payload"})
		}))
		defer srv.Close()

		qr := apiclient.NewQRClient(apiclient.New(srv.URL))
		code, err := qr.Refresh(context.Background(), "some.jwt.token")
		require.NoError(t, err)
		assert.Equal(t, "rotated-payload", code)
	})

	t.Run("error status", func(t *testing.T) {
		t.Parallel()
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		qr := apiclient.NewQRClient(apiclient.New(srv.URL))
		_, err := qr.Refresh(context.Background(), "some.jwt.token")

		var remote *apiclient.RemoteError
		require.ErrorAs(t, err, &remote)
		assert.EqualValues(t, 1, calls.Load(), "mutating calls are never retried")
	})
}
