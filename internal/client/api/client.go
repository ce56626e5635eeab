// Package api implements the HTTP client for the chatvault server's JSON
// API. Errors are mapped to the shared sentinel errors so callers can branch
// with errors.Is.
package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sangpi/chatvault/internal/common"
)

// ErrUnavailable indicates the server could not be reached at all.
var ErrUnavailable = errors.New("server unavailable")

// Client talks to the chatvault HTTP API. It is not safe for concurrent use:
// SetAccessToken mutates the bearer credential between calls.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	accessToken string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 90 * time.Second},
	}
}

// SetAccessToken installs the bearer token used for authenticated calls.
func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

// TokenPair mirrors the server's token response.
type TokenPair struct {
	AccessToken string `json:"access_token"`
	ResumeToken string `json:"resume_token"`
}

// Session is one session-directory entry.
type Session struct {
	SessionID    string    `json:"session_id"`
	LastActivity time.Time `json:"last_activity"`
}

// Message is one turn of a thread.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// do runs one JSON round trip. A non-nil out gets the decoded success body.
func (c *Client) do(ctx context.Context, method, path string, body, out any, wantStatus int) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return statusError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func statusError(resp *http.Response) error {
	var body errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.Error
	if msg == "" {
		msg = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", common.ErrDuplicateUsername, msg)
	case http.StatusBadGateway:
		return fmt.Errorf("%w: %s", common.ErrGenerationUnavailable, msg)
	default:
		return fmt.Errorf("server said: %s (status %d)", msg, resp.StatusCode)
	}
}

// Ping checks server liveness.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, http.StatusOK)
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *Client) Register(ctx context.Context, username string, password []byte) error {
	return c.do(ctx, http.MethodPost, "/api/auth/register",
		credentials{Username: username, Password: string(password)}, nil, http.StatusCreated)
}

func (c *Client) Login(ctx context.Context, username string, password []byte) (*TokenPair, error) {
	var pair TokenPair
	err := c.do(ctx, http.MethodPost, "/api/auth/login",
		credentials{Username: username, Password: string(password)}, &pair, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

type resumeRequest struct {
	ResumeToken string `json:"resume_token"`
}

type resumeResponse struct {
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
	ResumeToken string `json:"resume_token"`
}

// Resume exchanges a stored resume token for a fresh token pair. The server
// burns the presented token, so the caller must persist the returned one.
func (c *Client) Resume(ctx context.Context, resumeToken string) (string, *TokenPair, error) {
	var resp resumeResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/resume",
		resumeRequest{ResumeToken: resumeToken}, &resp, http.StatusOK)
	if err != nil {
		return "", nil, err
	}
	return resp.Username, &TokenPair{AccessToken: resp.AccessToken, ResumeToken: resp.ResumeToken}, nil
}

func (c *Client) Logout(ctx context.Context, resumeToken string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout",
		resumeRequest{ResumeToken: resumeToken}, nil, http.StatusNoContent)
}

func (c *Client) NewSession(ctx context.Context) (string, error) {
	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/sessions", nil, &resp, http.StatusCreated); err != nil {
		return "", err
	}
	return resp.SessionID, nil
}

func (c *Client) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	path := "/api/sessions"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var resp struct {
		Sessions []Session `json:"sessions"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Sessions, nil
}

func (c *Client) Thread(ctx context.Context, sessionID string) ([]Message, error) {
	var resp struct {
		Messages []Message `json:"messages"`
	}
	path := "/api/sessions/" + sessionID + "/messages"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp, http.StatusOK); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

type attachmentPayload struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type sendTurnRequest struct {
	Text       string             `json:"text"`
	Attachment *attachmentPayload `json:"attachment,omitempty"`
}

// SendTurn submits one user message, optionally with a binary attachment,
// and returns the assistant's reply.
func (c *Client) SendTurn(ctx context.Context, sessionID, text, mimeType string, data []byte) (string, error) {
	req := sendTurnRequest{Text: text}
	if len(data) > 0 {
		req.Attachment = &attachmentPayload{
			MIMEType: mimeType,
			Data:     base64.StdEncoding.EncodeToString(data),
		}
	}

	var resp struct {
		Reply string `json:"reply"`
	}
	path := "/api/sessions/" + sessionID + "/messages"
	if err := c.do(ctx, http.MethodPost, path, req, &resp, http.StatusOK); err != nil {
		return "", err
	}
	return resp.Reply, nil
}

func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/api/sessions/"+sessionID, nil, nil, http.StatusNoContent)
}

func (c *Client) DeleteAllSessions(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/sessions", nil, nil, http.StatusNoContent)
}

func (c *Client) SendFeedback(ctx context.Context, message string) error {
	return c.do(ctx, http.MethodPost, "/api/feedback",
		map[string]string{"message": message}, nil, http.StatusCreated)
}
