package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client is a typed HTTP client for the pool API. All high-level methods
// are built on top of the call method; failures carry the server's stable
// reason code as an *APIError.
type Client struct {
	baseURL    string
	adminToken string
	client     *http.Client
}

// APIError is a rejection returned by the pool API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("rpc: %s (%s, HTTP %d)", e.Message, e.Code, e.Status)
}

// NewClient creates a client for the pool API at baseURL. adminToken may be
// empty if the owner endpoints are not used.
func NewClient(baseURL, adminToken string) *Client {
	return &Client{
		baseURL:    baseURL,
		adminToken: adminToken,
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

// call sends one API request. A nil body sends no payload; a nil result
// discards the response body. Transport failures return ErrConnectionFailed
// and API rejections return *APIError.
func (c *Client) call(ctx context.Context, method, path string, body, result any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("rpc: marshal request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("rpc: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.adminToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.adminToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrInvalidResponse, err)
	}

	if resp.StatusCode >= 400 {
		var body errorBody
		if err := json.Unmarshal(data, &body); err != nil || body.Code == "" {
			return fmt.Errorf("%w: HTTP %d: %s", ErrInvalidResponse, resp.StatusCode, data)
		}
		return &APIError{Status: resp.StatusCode, Code: body.Code, Message: body.Error}
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrInvalidResponse, err)
	}
	return nil
}

// Pool describes the pool totals and gates.
type Pool = poolResponse

// HolderInfo describes one holder's shares and redeemable balance.
type HolderInfo = holderResponse

// EventInfo describes one journal event.
type EventInfo = eventResponse

// Initialize performs the one-time bootstrap deposit.
func (c *Client) Initialize(ctx context.Context, caller string, value uint64) (Pool, error) {
	var out Pool
	err := c.call(ctx, http.MethodPost, "/v1/initialize", initializeRequest{Caller: caller, Value: value}, &out)
	return out, err
}

// Stake deposits value for caller with an optional referral.
func (c *Client) Stake(ctx context.Context, caller, referral string, value uint64) (HolderInfo, error) {
	var out HolderInfo
	err := c.call(ctx, http.MethodPost, "/v1/stake", stakeRequest{Caller: caller, Referral: referral, Value: value}, &out)
	return out, err
}

// Receive performs a bare value transfer: an implicit stake. payloadHex
// must be empty; a non-empty payload is rejected by the pool.
func (c *Client) Receive(ctx context.Context, caller string, value uint64, payloadHex string) (HolderInfo, error) {
	var out HolderInfo
	err := c.call(ctx, http.MethodPost, "/v1/receive", receiveRequest{Caller: caller, Value: value, Payload: payloadHex}, &out)
	return out, err
}

// Unstake redeems exactly shares for caller and returns the value paid.
func (c *Client) Unstake(ctx context.Context, caller string, shares uint64) (uint64, error) {
	var out unstakeResponse
	err := c.call(ctx, http.MethodPost, "/v1/unstake", unstakeRequest{Caller: caller, Shares: shares}, &out)
	return out.Value, err
}

// UnstakeAll redeems caller's entire share balance.
func (c *Client) UnstakeAll(ctx context.Context, caller string) (uint64, error) {
	var out unstakeResponse
	err := c.call(ctx, http.MethodPost, "/v1/unstake", unstakeRequest{Caller: caller, All: true}, &out)
	return out.Value, err
}

// DistributeReward injects value into the pool with no share mint.
func (c *Client) DistributeReward(ctx context.Context, caller string, value uint64) (Pool, error) {
	var out Pool
	err := c.call(ctx, http.MethodPost, "/v1/reward", rewardRequest{Caller: caller, Value: value}, &out)
	return out, err
}

// Transfer moves a value-denominated balance from caller to another holder.
func (c *Client) Transfer(ctx context.Context, caller, to string, value uint64) (HolderInfo, error) {
	var out HolderInfo
	err := c.call(ctx, http.MethodPost, "/v1/transfer", transferRequest{Caller: caller, To: to, Value: value}, &out)
	return out, err
}

// PauseStaking closes the staking gate. Owner only.
func (c *Client) PauseStaking(ctx context.Context, caller string) error {
	return c.call(ctx, http.MethodPost, "/v1/admin/pause-staking", adminRequest{Caller: caller}, nil)
}

// ResumeStaking reopens the staking gate. Owner only.
func (c *Client) ResumeStaking(ctx context.Context, caller string) error {
	return c.call(ctx, http.MethodPost, "/v1/admin/resume-staking", adminRequest{Caller: caller}, nil)
}

// Stop closes the transfer gate. Owner only.
func (c *Client) Stop(ctx context.Context, caller string) error {
	return c.call(ctx, http.MethodPost, "/v1/admin/stop", adminRequest{Caller: caller}, nil)
}

// Resume reopens the transfer gate. Owner only.
func (c *Client) Resume(ctx context.Context, caller string) error {
	return c.call(ctx, http.MethodPost, "/v1/admin/resume", adminRequest{Caller: caller}, nil)
}

// TransferOwnership hands the pool to a new owner. Owner only.
func (c *Client) TransferOwnership(ctx context.Context, caller, newOwner string) error {
	return c.call(ctx, http.MethodPost, "/v1/admin/transfer-ownership",
		transferOwnershipRequest{Caller: caller, NewOwner: newOwner}, nil)
}

// Pool returns the pool totals and gates.
func (c *Client) Pool(ctx context.Context) (Pool, error) {
	var out Pool
	err := c.call(ctx, http.MethodGet, "/v1/pool", nil, &out)
	return out, err
}

// Holder returns one holder's shares and redeemable balance.
func (c *Client) Holder(ctx context.Context, holder string) (HolderInfo, error) {
	var out HolderInfo
	err := c.call(ctx, http.MethodGet, "/v1/holders/"+url.PathEscape(holder), nil, &out)
	return out, err
}

// Events returns journal events with sequence >= since, up to limit
// (0 means no limit).
func (c *Client) Events(ctx context.Context, since uint64, limit int) ([]EventInfo, error) {
	q := url.Values{}
	if since > 0 {
		q.Set("since", fmt.Sprintf("%d", since))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprintf("%d", limit))
	}
	path := "/v1/events"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []EventInfo
	err := c.call(ctx, http.MethodGet, path, nil, &out)
	return out, err
}
