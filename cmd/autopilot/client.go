package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jpillora/backoff"
	"github.com/wricardo/road-fighter-retro/game/engine"
	"github.com/wricardo/road-fighter-retro/game/service"
)

// APIError is a non-2xx response from the game server
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// Client drives one session of the game server over its REST API and
// satisfies autopilot.Game
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client

	// Transport failures on repeatable requests are retried with backoff;
	// API errors are not
	retries int
	backoff backoff.Backoff
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		retries: 3,
		backoff: backoff.Backoff{
			Min:    100 * time.Millisecond,
			Max:    2 * time.Second,
			Factor: 2,
		},
	}
}

// SessionID returns the session the client is attached to
func (c *Client) SessionID() string {
	return c.sessionID
}

// CreateSession creates a manual session and attaches the client to it
func (c *Client) CreateSession(ctx context.Context, configID string, seed *int64) (*service.SessionInfo, error) {
	req := map[string]interface{}{"mode": service.ModeManual}
	if configID != "" {
		req["config_id"] = configID
	}
	if seed != nil {
		req["seed"] = *seed
	}

	var session service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", req, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.sessionID = session.ID
	return &session, nil
}

// Attach resumes an existing session. Only manual sessions can be driven.
func (c *Client) Attach(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	var session service.SessionInfo
	if err := c.do(ctx, http.MethodGet, "/api/sessions/"+url.PathEscape(sessionID), nil, &session); err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.Mode != service.ModeManual {
		return nil, fmt.Errorf("session %s is %s; only manual sessions can be driven", sessionID, session.Mode)
	}

	c.sessionID = session.ID
	return &session, nil
}

// State returns the current snapshot
func (c *Client) State(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, http.MethodGet, c.sessionPath("/state"), nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Move steers once
func (c *Client) Move(ctx context.Context, action engine.Action) (*engine.GameState, error) {
	var result service.MoveResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/move"), map[string]string{"action": string(action)}, &result); err != nil {
		return nil, err
	}
	return result.GameState, nil
}

// Tick advances the session by one tick
func (c *Client) Tick(ctx context.Context) (*engine.GameState, error) {
	var result service.TickResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/tick"), map[string]int{"count": 1}, &result); err != nil {
		return nil, err
	}
	return result.GameState, nil
}

// Reset restarts the session
func (c *Client) Reset(ctx context.Context) (*engine.GameState, error) {
	var resp struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/reset"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.State, nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = data
	}

	b := c.backoff
	for attempt := 0; ; attempt++ {
		err := c.roundTrip(ctx, method, path, payload, result)

		var apiErr *APIError
		if err == nil || errors.As(err, &apiErr) || !retryable(method, path) || attempt >= c.retries || ctx.Err() != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.Duration()):
		}
	}
}

// retryable reports whether repeating a request cannot change its outcome.
// A move or tick whose response was lost may already have been applied.
func retryable(method, path string) bool {
	return method == http.MethodGet || strings.HasSuffix(path, "/reset")
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, result interface{}) error {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		var errResp map[string]string
		msg := string(data)
		if json.Unmarshal(data, &errResp) == nil && errResp["error"] != "" {
			msg = errResp["error"]
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
