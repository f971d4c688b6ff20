package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/histkeeper/internal/api"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestRegister(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req api.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Username)
		assert.Equal(t, []byte("salt"), req.Salt)
		assert.Equal(t, []byte("verifier"), req.Verifier)

		json.NewEncoder(w).Encode(api.RegisterResponse{Session: "tok"})
	})

	session, err := c.Register(context.Background(), "alice", []byte("salt"), []byte("verifier"))
	require.NoError(t, err)
	assert.Equal(t, "tok", session)
}

func TestRegister_EmptySession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.RegisterResponse{})
	})

	_, err := c.Register(context.Background(), "alice", []byte("s"), []byte("v"))
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestGetSalt_EscapesUsername(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/salt", r.URL.Path)
		assert.Equal(t, "a&b c", r.URL.Query().Get("username"))
		json.NewEncoder(w).Encode(api.SaltResponse{Salt: []byte("salt")})
	})

	salt, err := c.GetSalt(context.Background(), "a&b c")
	require.NoError(t, err)
	assert.Equal(t, []byte("salt"), salt)
}

func TestBearerHeaderSentWhenSessionSet(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(api.CountResponse{Count: 7})
	})
	c.SetSession("tok")

	count, err := c.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.Equal(t, "Bearer tok", got)
}

func TestNoBearerHeaderWithoutSession(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(api.SaltResponse{Salt: []byte("s")})
	})

	_, err := c.GetSalt(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestErrorResponse_Unauthorized(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(api.ErrorResponse{Reason: "session expired"})
	})

	_, err := c.Count(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "session expired")
}

func TestErrorResponse_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(api.ErrorResponse{Reason: "boom"})
	})

	err := c.AddHistory(context.Background(), nil)
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "boom")
}

func TestErrorResponse_NonJSONBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusBadGateway)
	})

	_, err := c.Count(context.Background())
	// falls back to the HTTP status line as the reason
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "502")
}

func TestConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(srv.URL, time.Second)

	_, err := c.Count(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestMalformedResponseBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	})

	_, err := c.Count(context.Background())
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestSyncHistory(t *testing.T) {
	syncTs := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)
	historyTs := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sync/history", r.URL.Path)

		var req api.SyncHistoryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.SyncTs.Equal(syncTs))
		assert.True(t, req.HistoryTs.Equal(historyTs))
		assert.Equal(t, "b0", req.HistoryId)
		assert.Equal(t, "laptop", req.Host)

		json.NewEncoder(w).Encode(api.SyncHistoryResponse{History: []api.HistoryBlob{
			{Id: "b1", Timestamp: historyTs, Hostname: "desktop", Ciphertext: []byte("c"), Nonce: []byte("n")},
		}})
	})
	c.SetSession("tok")

	blobs, err := c.SyncHistory(context.Background(), syncTs, historyTs, "b0", "laptop")
	require.NoError(t, err)
	require.Len(t, blobs, 1)
	assert.Equal(t, "b1", blobs[0].Id)
	assert.Equal(t, "desktop", blobs[0].Hostname)
}
