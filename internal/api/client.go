package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Client talks to the storefront backend. All endpoints answer with the
// {success, data, message} envelope. Session auth rides on cookies, so the
// client keeps a jar for the lifetime of the session.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(backendURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(backendURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Jar:     jar,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Do issues one request and decodes the envelope. A success:false envelope or
// a non-2xx status rejects with *RemoteError; transport failures are wrapped
// the same way with a generic message. One-shot: no retries, no caching.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RemoteError{Message: "network error: " + err.Error(), cause: err}
	}
	defer resp.Body.Close()

	var env envelope
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return &RemoteError{Message: fmt.Sprintf("request failed with status %d", resp.StatusCode), StatusCode: resp.StatusCode}
		}
		return &RemoteError{Message: "invalid response from server", cause: err}
	}

	if !env.Success || resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return &RemoteError{Message: msg, StatusCode: resp.StatusCode}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &RemoteError{Message: "invalid response from server", cause: err}
		}
	}
	return nil
}

// DoEnvelope is Do for endpoints that answer outside the data field
// (auth endpoints put the user at the envelope root). The whole body is
// decoded into out after the success check.
func (c *Client) DoEnvelope(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RemoteError{Message: "network error: " + err.Error(), cause: err}
	}
	defer resp.Body.Close()

	var probe struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return &RemoteError{Message: "network error: " + err.Error(), cause: err}
	}
	if err := json.Unmarshal(buf.Bytes(), &probe); err != nil {
		if resp.StatusCode >= 300 {
			return &RemoteError{Message: fmt.Sprintf("request failed with status %d", resp.StatusCode), StatusCode: resp.StatusCode}
		}
		return &RemoteError{Message: "invalid response from server", cause: err}
	}
	if !probe.Success || resp.StatusCode >= 300 {
		msg := probe.Message
		if msg == "" {
			msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return &RemoteError{Message: msg, StatusCode: resp.StatusCode}
	}
	if out != nil {
		if err := json.Unmarshal(buf.Bytes(), out); err != nil {
			return &RemoteError{Message: "invalid response from server", cause: err}
		}
	}
	return nil
}

// SessionCookie returns the named cookie the server set for the base URL.
func (c *Client) SessionCookie(name string) (string, bool) {
	u, err := url.Parse(c.baseURL)
	if err != nil || c.httpClient.Jar == nil {
		return "", false
	}
	for _, ck := range c.httpClient.Jar.Cookies(u) {
		if ck.Name == name {
			return ck.Value, true
		}
	}
	return "", false
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Query builds an encoded query string from filter params plus sortBy,
// matching the listing endpoint's expectations. Empty values are dropped.
func Query(filters map[string]string, sortBy string) string {
	vals := url.Values{}
	for k, v := range filters {
		if v != "" {
			vals.Set(k, v)
		}
	}
	if sortBy != "" {
		vals.Set("sortBy", sortBy)
	}
	if len(vals) == 0 {
		return ""
	}
	return "?" + vals.Encode()
}
