// Package api is the client for the grant management REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/mlfs/internal/validation"
)

// Config holds connection settings for the client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client talks to the REST API. Every call is a single attempt; failures
// surface immediately.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewClient creates a Client. A nil observer discards call events.
func NewClient(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// request describes one call. body is either nil, a JSON-encodable value,
// or a prepared *multipartBody.
type request struct {
	method string
	path   string
	body   any
}

// do sends req and decodes a 2xx JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, req request, out any) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	requestID := uuid.NewString()
	status, err := c.send(ctx, req, requestID, out)

	c.observer.OnCallComplete(CallEvent{
		Method:     req.method,
		Path:       req.path,
		StatusCode: status,
		LatencyMs:  time.Since(start).Milliseconds(),
		RequestID:  requestID,
		Success:    err == nil,
		ErrorCode:  errorCode(err),
	})
	return err
}

func (c *Client) send(ctx context.Context, req request, requestID string, out any) (int, error) {
	var (
		reader      io.Reader
		contentType string
	)
	switch b := req.body.(type) {
	case nil:
	case *multipartBody:
		reader = b.buf
		contentType = b.contentType
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return 0, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.cfg.BaseURL+req.path, reader)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if c.cfg.Token != "" {
		httpReq.Header.Set("Authorization", "Token "+c.cfg.Token)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ErrTimeout
		}
		if isConnectionError(err) {
			return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return 0, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return httpResp.StatusCode, ErrTimeout
		}
		return httpResp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case httpResp.StatusCode == http.StatusBadRequest:
		body, derr := validation.DecodeServerErrors(respBody)
		if derr != nil {
			body.Other = append(body.Other, strings.TrimSpace(string(respBody)))
		}
		return httpResp.StatusCode, &ValidationError{Body: body, Raw: respBody}
	case httpResp.StatusCode < 200 || httpResp.StatusCode > 299:
		return httpResp.StatusCode, &StatusError{StatusCode: httpResp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return httpResp.StatusCode, nil
	}
	dec := json.NewDecoder(bytes.NewReader(respBody))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return httpResp.StatusCode, fmt.Errorf("decoding response: %w", err)
	}
	return httpResp.StatusCode, nil
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}
