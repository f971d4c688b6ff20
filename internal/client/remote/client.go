// Package remote implements the HTTP JSON client for the histkeeper relay
// server. It is a thin transport boundary: one method per endpoint, bounded
// timeouts, no retries (retry of a whole sync run is the caller's concern).
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/histkeeper/internal/api"
	"github.com/dmitrijs2005/histkeeper/internal/common"
)

// API is the server surface the sync engine depends on. *Client implements
// it; tests substitute fakes.
type API interface {
	Register(ctx context.Context, username string, salt, verifier []byte) (string, error)
	GetSalt(ctx context.Context, username string) ([]byte, error)
	Login(ctx context.Context, username string, verifier []byte) (string, error)
	Count(ctx context.Context) (int64, error)
	AddHistory(ctx context.Context, blobs []api.HistoryBlob) error
	SyncHistory(ctx context.Context, syncTs, historyTs time.Time, historyId, host string) ([]api.HistoryBlob, error)
}

type Client struct {
	baseURL string
	http    *http.Client
	session string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetSession installs the token sent as a bearer credential on protected
// endpoints. The token is held in memory for the process lifetime.
func (c *Client) SetSession(session string) {
	c.session = session
}

// do sends a single JSON request and decodes a 2xx response body into out
// (when out is non-nil). Non-2xx responses carry a uniform {reason} body and
// are mapped onto the package sentinels.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != "" {
		req.Header.Set(common.SessionHeaderName, "Bearer "+c.session)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFromResponse(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode response: %v", ErrProtocol, err)
		}
	}
	return nil
}

func (c *Client) errorFromResponse(resp *http.Response) error {
	var er api.ErrorResponse
	reason := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Reason != "" {
		reason = er.Reason
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s: %w", reason, ErrUnauthorized)
	}
	return fmt.Errorf("server rejected request (status %d): %s: %w", resp.StatusCode, reason, ErrUnavailable)
}

func (c *Client) Register(ctx context.Context, username string, salt, verifier []byte) (string, error) {
	req := api.RegisterRequest{Username: username, Salt: salt, Verifier: verifier}
	var resp api.RegisterResponse
	if err := c.do(ctx, http.MethodPost, "/register", req, &resp); err != nil {
		return "", err
	}
	if resp.Session == "" {
		return "", fmt.Errorf("%w: empty session in register response", ErrProtocol)
	}
	return resp.Session, nil
}

func (c *Client) GetSalt(ctx context.Context, username string) ([]byte, error) {
	var resp api.SaltResponse
	path := "/salt?username=" + url.QueryEscape(username)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Salt, nil
}

func (c *Client) Login(ctx context.Context, username string, verifier []byte) (string, error) {
	req := api.LoginRequest{Username: username, Verifier: verifier}
	var resp api.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/login", req, &resp); err != nil {
		return "", err
	}
	if resp.Session == "" {
		return "", fmt.Errorf("%w: empty session in login response", ErrProtocol)
	}
	return resp.Session, nil
}

func (c *Client) Count(ctx context.Context) (int64, error) {
	var resp api.CountResponse
	if err := c.do(ctx, http.MethodGet, "/sync/count", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

func (c *Client) AddHistory(ctx context.Context, blobs []api.HistoryBlob) error {
	req := api.AddHistoryRequest{History: blobs}
	return c.do(ctx, http.MethodPost, "/history", req, nil)
}

func (c *Client) SyncHistory(ctx context.Context, syncTs, historyTs time.Time, historyId, host string) ([]api.HistoryBlob, error) {
	req := api.SyncHistoryRequest{SyncTs: syncTs, HistoryTs: historyTs, HistoryId: historyId, Host: host}
	var resp api.SyncHistoryResponse
	if err := c.do(ctx, http.MethodPost, "/sync/history", req, &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}
