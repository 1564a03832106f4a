package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrNetwork marks transport-level failures: the request never produced a
// decodable response.
var ErrNetwork = errors.New("network error")

const maxErrorBody = 1 << 16

// Result is the uniform outcome of a remote API call that reached the server.
type Result[T any] struct {
	Success bool
	Data    T
	Message string
}

// Client talks to the FoodShare REST API.
type Client struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

// New returns a client for the backend API rooted at baseURL. Each request
// is bounded by timeout.
func New(baseURL string, timeout time.Duration, log *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

type call struct {
	method    string
	path      string
	token     string
	body      any
	operation string // used in network error text, e.g. "login"
	fallback  string // message when the server gives none
}

type messageBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do executes c and decodes a 2xx body into out. A non-2xx response is not an
// error: it yields ok=false and the server's message.
func (cl *Client) do(ctx context.Context, c call, out any) (ok bool, message string, err error) {
	var reqBody io.Reader
	if c.body != nil {
		payload, err := json.Marshal(c.body)
		if err != nil {
			return false, "", fmt.Errorf("failed to marshal %s request: %w", c.operation, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, cl.baseURL+c.path, reqBody)
	if err != nil {
		return false, "", fmt.Errorf("failed to create %s request: %w", c.operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := cl.client.Do(req)
	if err != nil {
		cl.log.WithError(err).Warnf("%s %s failed", c.method, c.path)
		return false, "", fmt.Errorf("%w during %s: %v", ErrNetwork, c.operation, err)
	}
	defer resp.Body.Close()

	cl.log.Debugf("%s %s -> %d", c.method, c.path, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err != nil {
			return false, "", fmt.Errorf("%w during %s: %v", ErrNetwork, c.operation, err)
		}
		return false, rejectionMessage(raw, c.fallback), nil
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, "", fmt.Errorf("%w during %s: failed to decode response: %v", ErrNetwork, c.operation, err)
		}
	}
	return true, "", nil
}

// rejectionMessage extracts "message" (or "error") from a JSON error body.
// Some backend endpoints answer with a bare string; that is used as is.
func rejectionMessage(raw []byte, fallback string) string {
	var body messageBody
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
		return fallback
	}
	var quoted string
	if err := json.Unmarshal(raw, &quoted); err == nil && quoted != "" {
		return quoted
	}
	if text := strings.TrimSpace(string(raw)); text != "" && !strings.HasPrefix(text, "<") {
		return text
	}
	return fallback
}
