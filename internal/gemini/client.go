// Package gemini submits prompts to the Gemini generateContent endpoint.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"google.golang.org/api/googleapi"
)

const (
	ReasonFailed  = "generation_failed"
	ReasonTimeout = "generation_timeout"
)

const (
	defaultEndpoint = "https://generativelanguage.googleapis.com"
	apiVersion      = "v1beta"
)

// Error reports a failed generation. Message is safe to show to the caller.
type Error struct {
	Reason     string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Reason, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
}

// NewClient builds a client for model. A non-empty endpoint overrides the
// public API base URL. httpClient may be nil.
func NewClient(apiKey, model, endpoint string, timeout time.Duration, httpClient *http.Client) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(endpoint, "/") + "/" + apiVersion,
		apiKey:     apiKey,
		model:      model,
		timeout:    timeout,
	}, nil
}

// Generate makes exactly one generateContent call and returns the text of the
// first candidate. Retrying is left to the caller.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	data, err := json.Marshal(generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", &Error{Reason: ReasonFailed, Message: "invalid request", Err: err}
	}

	apiURL := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(data))
	if err != nil {
		return "", &Error{Reason: ReasonFailed, Message: "invalid request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return "", classify(ctx, err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		slog.Info(err.Error())
		return "", classify(ctx, err)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Info(err.Error())
		return "", classify(ctx, err)
	}

	parts := gjson.GetBytes(body, "candidates.0.content.parts")
	if !parts.IsArray() {
		return "", &Error{Reason: ReasonFailed, Message: "no content"}
	}

	var text strings.Builder
	for _, p := range parts.Array() {
		text.WriteString(p.Get("text").String())
	}
	if text.Len() == 0 {
		return "", &Error{Reason: ReasonFailed, Message: "no content"}
	}
	return text.String(), nil
}

func classify(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return &Error{Reason: ReasonTimeout, Message: "generation timed out", Err: err}
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return &Error{
			Reason:     ReasonFailed,
			StatusCode: apiErr.Code,
			Message:    fmt.Sprintf("generative endpoint returned status %d", apiErr.Code),
			Err:        err,
		}
	}
	return &Error{Reason: ReasonFailed, Message: "generative endpoint unavailable", Err: err}
}

// Disabled stands in for a client when no API key is configured.
type Disabled struct{}

func (Disabled) Generate(ctx context.Context, prompt string) (string, error) {
	return "", &Error{Reason: ReasonFailed, Message: "generation is not configured"}
}
