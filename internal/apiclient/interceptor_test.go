package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohd-umair/repmeup-frontend/internal/model"
	"github.com/Mohd-umair/repmeup-frontend/internal/storage"
)

func newTestStore(t *testing.T) storage.Store {
	t.Helper()
	return storage.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
}

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) Interceptor {
		return func(next http.RoundTripper) http.RoundTripper {
			return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(req)
			})
		}
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer server.Close()

	transport := Chain(http.DefaultTransport, tag("outer"), tag("inner"))
	client := New(server.URL, 5*time.Second, transport)
	_, err := client.Get(context.Background(), "/x", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestAuthInterceptorAttachesBearer(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveSession("the-token", "refresh", &model.User{Id: "u-1"}))

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer server.Close()

	transport := Chain(http.DefaultTransport, AuthInterceptor(store, nil))
	client := New(server.URL, 5*time.Second, transport)
	_, err := client.Get(context.Background(), "/inbox", nil)
	require.NoError(t, err)

	assert.Equal(t, "Bearer the-token", gotAuth)
}

func TestAuthInterceptorNoTokenNoHeader(t *testing.T) {
	store := newTestStore(t)

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer server.Close()

	transport := Chain(http.DefaultTransport, AuthInterceptor(store, nil))
	client := New(server.URL, 5*time.Second, transport)
	_, err := client.Get(context.Background(), "/auth/login", nil)
	require.NoError(t, err)

	assert.Empty(t, gotAuth)
}

func TestAuthInterceptorHandles401(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveSession("expired", "refresh", &model.User{Id: "u-1"}))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"code":    401,
			"message": "Invalid token",
		})
	}))
	defer server.Close()

	hookFired := false
	transport := Chain(http.DefaultTransport, AuthInterceptor(store, func() { hookFired = true }))
	client := New(server.URL, 5*time.Second, transport)

	resp, err := client.Get(context.Background(), "/inbox", nil)

	// The response surfaces unchanged to the caller.
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "Invalid token", statusErr.Message)
	require.NotNil(t, resp)

	// Session is gone and the hook fired.
	assert.True(t, hookFired)
	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())
}
