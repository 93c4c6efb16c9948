// Package transport issues authenticated JSON requests against the VoiSpark API.
package transport

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "io"
    "net/http"
    "net/url"
    "strings"
    "time"

    "voispark-mcp/internal/envelope"
)

const DefaultTimeout = 60 * time.Second

// Options is the immutable connection configuration resolved at startup.
type Options struct {
    BaseURL    string
    APIKey     string
    Timeout    time.Duration
    HTTPClient *http.Client // optional; overrides Timeout
}

// Client is safe for concurrent use; it holds no mutable state.
type Client struct {
    baseURL    string
    headers    http.Header
    httpClient *http.Client
}

func New(o Options) *Client {
    hc := o.HTTPClient
    if hc == nil {
        timeout := o.Timeout
        if timeout <= 0 {
            timeout = DefaultTimeout
        }
        hc = &http.Client{Timeout: timeout}
    }
    h := http.Header{}
    h.Set("Content-Type", "application/json")
    // an empty key is still sent; the API answers with UNAUTHORIZED
    h.Set("Authorization", "Bearer "+o.APIKey)
    return &Client{
        baseURL:    strings.TrimRight(o.BaseURL, "/"),
        headers:    h,
        httpClient: hc,
    }
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
    return c.do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
    return c.do(ctx, http.MethodPost, path, nil, body)
}

func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
    return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do returns the raw body whatever the HTTP status; error envelopes arrive on 4xx too.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
    var reqBody io.Reader
    if body != nil {
        var buf bytes.Buffer
        if err := json.NewEncoder(&buf).Encode(body); err != nil {
            return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
        }
        reqBody = &buf
    }

    target := c.baseURL + path
    if len(query) > 0 {
        target += "?" + query.Encode()
    }

    req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
    if err != nil {
        return nil, fmt.Errorf("build %s %s: %w", method, path, err)
    }
    for k, vs := range c.headers {
        req.Header[k] = append([]string(nil), vs...)
    }

    resp, err := c.httpClient.Do(req)
    if err != nil {
        return nil, fmt.Errorf("%w: %s %s: %v", envelope.ErrTransport, method, path, err)
    }
    defer resp.Body.Close()

    b, err := io.ReadAll(resp.Body)
    if err != nil {
        return nil, fmt.Errorf("%w: read %s %s: %v", envelope.ErrTransport, method, path, err)
    }
    return b, nil
}

// GetData issues a GET and unwraps the response envelope into T.
func GetData[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
    b, err := c.Get(ctx, path, query)
    if err != nil {
        return nil, err
    }
    return envelope.Parse[T](b)
}

// PostData issues a POST with body and unwraps the response envelope into T.
func PostData[T any](ctx context.Context, c *Client, path string, body any) (*T, error) {
    b, err := c.Post(ctx, path, body)
    if err != nil {
        return nil, err
    }
    return envelope.Parse[T](b)
}
