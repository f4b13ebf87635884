package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, serverURL string, store TokenStore) *Client {
	t.Helper()
	if store == nil {
		store = NewMemoryTokenStore()
	}
	c, err := New(Options{BaseURL: serverURL + "/api", Store: store})
	require.NoError(t, err)
	return c
}

func TestBearerHeaderAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(User{ID: "u1"})
	}))
	defer srv.Close()

	store := NewMemoryTokenStore()
	require.NoError(t, store.Set(Credentials{AccessToken: "tok-abc"}))
	c := newTestClient(t, srv.URL, store)

	_, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
}

func TestNoBearerWhenUnauthenticated(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(TokenPair{Access: "a"})
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, nil)
	_, err := c.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestRefreshOnceOn401(t *testing.T) {
	var meCalls, refreshCalls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/me/":
			n := meCalls.Add(1)
			if n == 1 {
				// First attempt carries the stale token.
				assert.Equal(t, "Bearer stale", r.Header.Get("Authorization"))
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"detail":"Invalid or expired token"}`))
				return
			}
			assert.Equal(t, "Bearer fresh", r.Header.Get("Authorization"))
			_ = json.NewEncoder(w).Encode(User{ID: "u1", Email: "a@b.c"})
		case "/api/auth/refresh/":
			refreshCalls.Add(1)
			_ = json.NewEncoder(w).Encode(TokenPair{Access: "fresh", Refresh: "r2"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	store := NewMemoryTokenStore()
	require.NoError(t, store.Set(Credentials{AccessToken: "stale", RefreshToken: "r1"}))
	c := newTestClient(t, srv.URL, store)

	user, err := c.Me(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, int32(2), meCalls.Load())
	assert.Equal(t, int32(1), refreshCalls.Load())

	creds, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "fresh", creds.AccessToken)
	assert.Equal(t, "r2", creds.RefreshToken, "rotated refresh token is stored")
}

func TestSecond401ForcesLogoutWithoutLoop(t *testing.T) {
	var meCalls, refreshCalls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/me/":
			meCalls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Invalid or expired token"}`))
		case "/api/auth/refresh/":
			refreshCalls.Add(1)
			_ = json.NewEncoder(w).Encode(TokenPair{Access: "fresh"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	loggedOut := false
	store := NewMemoryTokenStore()
	require.NoError(t, store.Set(Credentials{AccessToken: "stale", RefreshToken: "r1"}))
	c, err := New(Options{
		BaseURL:  srv.URL + "/api",
		Store:    store,
		OnLogout: func() { loggedOut = true },
	})
	require.NoError(t, err)

	_, err = c.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))

	assert.Equal(t, int32(2), meCalls.Load(), "exactly one retry")
	assert.Equal(t, int32(1), refreshCalls.Load(), "exactly one refresh")
	assert.True(t, loggedOut)
	_, ok := store.Get()
	assert.False(t, ok, "credentials cleared")
}

func TestFailedRefreshForcesLogout(t *testing.T) {
	var meCalls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/me/":
			meCalls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Invalid or expired token"}`))
		case "/api/auth/refresh/":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Invalid or expired token"}`))
		}
	}))
	defer srv.Close()

	loggedOut := false
	store := NewMemoryTokenStore()
	require.NoError(t, store.Set(Credentials{AccessToken: "stale", RefreshToken: "dead"}))
	c, err := New(Options{
		BaseURL:  srv.URL + "/api",
		Store:    store,
		OnLogout: func() { loggedOut = true },
	})
	require.NoError(t, err)

	_, err = c.Me(context.Background())
	require.Error(t, err)

	assert.Equal(t, int32(1), meCalls.Load(), "original request is not retried")
	assert.True(t, loggedOut)
}

func TestNoRefreshForAuthEndpoints(t *testing.T) {
	var refreshCalls atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/token/":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Invalid email or password"}`))
		case "/api/auth/refresh/":
			refreshCalls.Add(1)
		}
	}))
	defer srv.Close()

	store := NewMemoryTokenStore()
	require.NoError(t, store.Set(Credentials{AccessToken: "tok"}))
	c := newTestClient(t, srv.URL, store)

	_, err := c.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Equal(t, int32(0), refreshCalls.Load(), "a 401 from login is terminal")

	// Failed login must not clear an existing session either.
	_, ok := store.Get()
	assert.True(t, ok)
}

func TestLoginStoresTokens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/token/", r.URL.Path)
		_ = json.NewEncoder(w).Encode(TokenPair{Access: "acc", Refresh: "ref"})
	}))
	defer srv.Close()

	store := NewMemoryTokenStore()
	c := newTestClient(t, srv.URL, store)

	pair, err := c.Login(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	assert.Equal(t, "acc", pair.Access)

	creds, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, "acc", creds.AccessToken)
	assert.Equal(t, "ref", creds.RefreshToken)
}

func TestLoginFailureStoresNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"INVALID_CREDENTIALS","message":"Invalid email or password"},"detail":"Invalid email or password"}`))
	}))
	defer srv.Close()

	store := NewMemoryTokenStore()
	c := newTestClient(t, srv.URL, store)

	_, err := c.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid email or password", apiErr.Detail)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)

	_, ok := store.Get()
	assert.False(t, ok, "no token stored after failed login")
}

func TestMeCachesShopName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(User{
			ID:   "u1",
			Shop: &Shop{ID: "s1", Name: "Gupta General Store"},
		})
	}))
	defer srv.Close()

	store := NewMemoryTokenStore()
	require.NoError(t, store.Set(Credentials{AccessToken: "tok"}))
	c := newTestClient(t, srv.URL, store)

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user.Shop)

	creds, _ := store.Get()
	assert.Equal(t, "Gupta General Store", creds.ShopName)
}

func TestContextCancellationAborts(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := newTestClient(t, srv.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Me(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
