// Package storefront is the shopper-side client of the IntelliBazar API:
// session handling, cart and wishlist managers that reconcile with the
// server after every mutation, the static catalog pages and checkout.
package storefront

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

	"github.com/sony/gobreaker/v2"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
	Data    json.RawMessage
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0 for transport errors.
func StatusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type reply struct {
	status  int
	payload []byte
}

// Client talks to the REST API. Transport errors and 5xx answers count
// against a circuit breaker; once it opens, calls fail fast with
// gobreaker.ErrOpenState until the breaker half-opens again.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[reply]
}

func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
		breaker: gobreaker.NewCircuitBreaker[reply](gobreaker.Settings{
			Name:    "intellibazar-api",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			IsSuccessful: func(err error) bool {
				return err == nil || (StatusOf(err) > 0 && StatusOf(err) < 500)
			},
		}),
	}
}

type request struct {
	method      string
	path        string
	token       string
	body        []byte
	contentType string
	idemKey     string
}

func jsonRequest(method, path, token string, v any) (request, error) {
	r := request{method: method, path: path, token: token}
	if v == nil {
		return r, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return r, fmt.Errorf("encode %s %s: %w", method, path, err)
	}
	r.body = b
	r.contentType = "application/json"
	return r, nil
}

func (c *Client) send(ctx context.Context, r request) (reply, error) {
	return c.breaker.Execute(func() (reply, error) {
		var body io.Reader
		if r.body != nil {
			body = bytes.NewReader(r.body)
		}
		req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
		if err != nil {
			return reply{}, err
		}
		req.Header.Set("Accept", "application/json")
		if r.contentType != "" {
			req.Header.Set("Content-Type", r.contentType)
		}
		if r.token != "" {
			req.Header.Set("Authorization", "Bearer "+r.token)
		}
		if r.idemKey != "" {
			req.Header.Set("Idempotency-Key", r.idemKey)
		}

		res, err := c.http.Do(req)
		if err != nil {
			return reply{}, fmt.Errorf("%s %s: %w", r.method, r.path, err)
		}
		defer res.Body.Close()
		payload, err := io.ReadAll(res.Body)
		if err != nil {
			return reply{}, fmt.Errorf("read %s %s: %w", r.method, r.path, err)
		}
		rep := reply{status: res.StatusCode, payload: payload}
		if res.StatusCode >= 300 {
			return rep, apiError(rep)
		}
		return rep, nil
	})
}

func apiError(rep reply) *APIError {
	ae := &APIError{Status: rep.status, Message: http.StatusText(rep.status)}
	var env envelope
	if json.Unmarshal(rep.payload, &env) == nil {
		if env.Message != "" {
			ae.Message = env.Message
		}
		ae.Data = env.Data
	}
	return ae
}

// do sends r and decodes the envelope data into out when out is non-nil.
// It returns the envelope message.
func (c *Client) do(ctx context.Context, r request, out any) (string, error) {
	rep, err := c.send(ctx, r)
	if err != nil {
		return "", err
	}
	var env envelope
	if err := json.Unmarshal(rep.payload, &env); err != nil {
		return "", fmt.Errorf("decode %s %s: %w", r.method, r.path, err)
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return env.Message, fmt.Errorf("decode %s %s data: %w", r.method, r.path, err)
		}
	}
	return env.Message, nil
}

// raw sends r and returns the body undecoded, for file downloads.
func (c *Client) raw(ctx context.Context, r request) ([]byte, error) {
	rep, err := c.send(ctx, r)
	if err != nil {
		return nil, err
	}
	return rep.payload, nil
}
