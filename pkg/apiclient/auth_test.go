package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrconnect/appkit/pkg/apiclient"
)

func TestAuthClientLogin(t *testing.T) {
	t.Parallel()

	t.Run("returns issued token", func(t *testing.T) {
		t.Parallel()
		var gotBody map[string]string
		var gotRequestID string

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/api/auth/login", r.URL.Path)
			gotRequestID = r.Header.Get("X-Request-ID")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"token": "issued.jwt.token"})
		}))
		defer srv.Close()

		auth := apiclient.NewAuthClient(apiclient.New(srv.URL))
		tok, err := auth.Login(context.Background(), "user@example.com", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, "issued.jwt.token", tok)
		assert.Equal(t, map[string]string{"email": "user@example.com", "password": "hunter2"}, gotBody)
		assert.NotEmpty(t, gotRequestID, "every call carries a request id")
	})

	t.Run("maps message field", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
		}))
		defer srv.Close()

		auth := apiclient.NewAuthClient(apiclient.New(srv.URL))
		_, err := auth.Login(context.Background(), "user@example.com", "wrong")

		var remote *apiclient.RemoteError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, http.StatusUnauthorized, remote.StatusCode)
		assert.Equal(t, "invalid credentials", remote.Message)
	})

	t.Run("maps error field", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "email taken"})
		}))
		defer srv.Close()

		auth := apiclient.NewAuthClient(apiclient.New(srv.URL))
		_, err := auth.Register(context.Background(), "user@example.com", "hunter2")

		var remote *apiclient.RemoteError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, "email taken", remote.Message)
	})

	t.Run("non-json error body", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}))
		defer srv.Close()

		auth := apiclient.NewAuthClient(apiclient.New(srv.URL))
		_, err := auth.Login(context.Background(), "user@example.com", "hunter2")

		var remote *apiclient.RemoteError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, http.StatusBadGateway, remote.StatusCode)
		assert.Empty(t, remote.Message)
	})

	t.Run("success without token", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(map[string]string{})
		}))
		defer srv.Close()

		auth := apiclient.NewAuthClient(apiclient.New(srv.URL))
		_, err := auth.Login(context.Background(), "user@example.com", "hunter2")
		require.ErrorIs(t, err, apiclient.ErrNoToken)
	})

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()
		auth := apiclient.NewAuthClient(apiclient.New("http://127.0.0.1:1"))
		_, err := auth.Login(context.Background(), "user@example.com", "hunter2")
		require.Error(t, err)

		var remote *apiclient.RemoteError
		assert.False(t, errors.As(err, &remote), "transport failures are not remote errors")
	})
}

func TestAuthClientForgotPassword(t *testing.T) {
	t.Parallel()

	t.Run("returns confirmation message", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/auth/forgot-password", r.URL.Path)
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, map[string]string{"email": "user@example.com"}, body)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Password reset email sent"})
		}))
		defer srv.Close()

		auth := apiclient.NewAuthClient(apiclient.New(srv.URL))
		msg, err := auth.ForgotPassword(context.Background(), "user@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Password reset email sent", msg)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Email not found"})
		}))
		defer srv.Close()

		auth := apiclient.NewAuthClient(apiclient.New(srv.URL))
		_, err := auth.ForgotPassword(context.Background(), "nobody@example.com")

		var remote *apiclient.RemoteError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, "Email not found", remote.Message)
	})
}
