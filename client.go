package prism

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultEndpoint is the analyzer URL used when none is configured.
const DefaultEndpoint = "http://localhost:8080/analyze"

// Analyzer submits source text for analysis. Client is the HTTP
// implementation; tests and front ends accept any Analyzer.
type Analyzer interface {
	Submit(ctx context.Context, source string) (*Result, error)
}

// Client talks to an analyzer service over HTTP.
type Client struct {
	endpoint  string
	http      *http.Client
	userAgent string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a Client for endpoint. An empty endpoint means
// DefaultEndpoint.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint:  endpoint,
		http:      http.DefaultClient,
		userAgent: "prism/" + Version,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the analyzer URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type analyzeRequest struct {
	Code string `json:"code"`
}

// Submit sends source in a single POST and decodes the response. It never
// retries. Failures are returned as *AnalysisError.
func (c *Client) Submit(ctx context.Context, source string) (*Result, error) {
	body, err := json.Marshal(analyzeRequest{Code: source})
	if err != nil {
		return nil, fmt.Errorf("prism: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &AnalysisError{Kind: Unreachable, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &AnalysisError{Kind: Unreachable, Err: err}
	}
	defer resp.Body.Close()

	// Any 2xx counts as accepted; a body-less 204 then fails as malformed.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &AnalysisError{
			Kind:       ServerRejected,
			Status:     resp.StatusCode,
			StatusText: statusText(resp),
			Err:        fmt.Errorf("status %s", resp.Status),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &AnalysisError{Kind: Unreachable, Err: fmt.Errorf("reading body: %w", err)}
	}

	result, err := Decode(data)
	if err != nil {
		return nil, &AnalysisError{Kind: MalformedResponse, Err: err}
	}
	return result, nil
}

// statusText returns the reason phrase of resp, e.g. "Internal Server Error".
func statusText(resp *http.Response) string {
	prefix := fmt.Sprintf("%d ", resp.StatusCode)
	if text := strings.TrimPrefix(resp.Status, prefix); text != resp.Status && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
