package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 5 * time.Minute

// Option configures the Client.
type Option interface {
	apply(*Client)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*Client)

func (f optionFunc) apply(c *Client) { f(c) }

// WithAPIKey sets the Bearer token sent with every request.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *Client) {
		c.apiKey = key
	})
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *Client) {
		c.httpClient = hc
	})
}

// Client is the coldreach API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client for a coldreach server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o.apply(c)
	}
	return c
}

// Job is one extracted job posting.
type Job struct {
	Role        string   `json:"role"`
	Experience  string   `json:"experience,omitempty"`
	Skills      []string `json:"skills"`
	Description string   `json:"description,omitempty"`
}

// Result is the outcome for one posting. Error is empty on success.
type Result struct {
	Job   Job      `json:"job"`
	Links []string `json:"links"`
	Email string   `json:"email,omitempty"`
	Error string   `json:"error,omitempty"`
}

// GenerateResponse is the full response for one page.
type GenerateResponse struct {
	Results   []Result `json:"results"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
}

type generateRequest struct {
	URL  string `json:"url,omitempty"`
	Text string `json:"text,omitempty"`
}

// GenerateFromURL generates emails for every posting on a careers page.
func (c *Client) GenerateFromURL(ctx context.Context, url string) (GenerateResponse, error) {
	return c.generate(ctx, generateRequest{URL: url})
}

// GenerateFromText generates emails from already-scraped page text.
func (c *Client) GenerateFromText(ctx context.Context, text string) (GenerateResponse, error) {
	return c.generate(ctx, generateRequest{Text: text})
}

func (c *Client) generate(ctx context.Context, req generateRequest) (GenerateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("coldreach: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/v1/emails", bytes.NewReader(body))
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("coldreach: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("coldreach: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GenerateResponse{}, errorFromResponse(resp)
	}

	var out GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return GenerateResponse{}, fmt.Errorf("coldreach: decode response: %w", err)
	}
	return out, nil
}

// Health reports whether the server and its cache store are healthy.
func (c *Client) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("coldreach: build request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("coldreach: do request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("coldreach: unhealthy (status %d)", resp.StatusCode)
	}
	return nil
}
