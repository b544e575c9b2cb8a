// AngelaMos | 2026
// client.go

package chatprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gemfluence/backend/internal/config"
)

const defaultTimeout = 10 * time.Second

// Client mirrors users into the external chat service and drives the few
// calls the backend needs: identity creation, per-user auth tokens, token
// revocation, and sending a message on behalf of a user.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(cfg config.ChatConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
}

type createUserRequest struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
}

type authTokenResponse struct {
	Data struct {
		AuthToken string `json:"authToken"`
	} `json:"data"`
}

type sendMessageRequest struct {
	Receiver     string      `json:"receiver"`
	ReceiverType string      `json:"receiverType"`
	Category     string      `json:"category"`
	Type         string      `json:"type"`
	Data         messageData `json:"data"`
}

type messageData struct {
	Text string `json:"text"`
}

func (c *Client) CreateUser(ctx context.Context, uid, name string) error {
	body := createUserRequest{UID: uid, Name: name}
	return c.do(ctx, http.MethodPost, "/users", "", body, nil)
}

func (c *Client) CreateAuthToken(
	ctx context.Context,
	uid string,
) (string, error) {
	var resp authTokenResponse
	path := fmt.Sprintf("/users/%s/auth_tokens", uid)

	if err := c.do(ctx, http.MethodPost, path, "", nil, &resp); err != nil {
		return "", err
	}

	return resp.Data.AuthToken, nil
}

func (c *Client) RevokeAuthTokens(ctx context.Context, uid string) error {
	path := fmt.Sprintf("/users/%s/auth_tokens", uid)
	return c.do(ctx, http.MethodDelete, path, "", nil, nil)
}

// SendMessage delivers a text message from one mirrored user to another.
func (c *Client) SendMessage(ctx context.Context, from, to, text string) error {
	body := sendMessageRequest{
		Receiver:     to,
		ReceiverType: "user",
		Category:     "message",
		Type:         "text",
		Data:         messageData{Text: text},
	}
	return c.do(ctx, http.MethodPost, "/messages", from, body, nil)
}

func (c *Client) do(
	ctx context.Context,
	method, path, onBehalfOf string,
	body, out any,
) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("apiKey", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if onBehalfOf != "" {
		req.Header.Set("onBehalfOf", onBehalfOf)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("chat provider request: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read chat provider response: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf(
			"chat provider status %d: %s",
			res.StatusCode,
			string(raw),
		)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode chat provider response: %w", err)
		}
	}

	return nil
}
