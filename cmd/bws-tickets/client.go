package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// apiClient talks to the bws REST API.
type apiClient struct {
	base  string
	token string
	http  *http.Client
}

func newAPIClient(server string) *apiClient {
	return &apiClient{
		base: strings.TrimRight(server, "/") + "/api/v1",
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *apiClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: decode response (HTTP %d): %w", method, path, resp.StatusCode, err)
	}
	if resp.StatusCode >= 400 || env.Code != 0 {
		return fmt.Errorf("%s %s: %s (code %d)", method, path, env.Message, env.Code)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

func (c *apiClient) login(ctx context.Context, username, password string) error {
	var result struct {
		AccessToken string `json:"access_token"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, &result)
	if err != nil {
		return err
	}
	c.token = result.AccessToken
	return nil
}

// listTickets loads a whole collection. Date bounds are applied server side
// so the local session only narrows further.
func listTickets[T any](ctx context.Context, c *apiClient, kind, from, to string) ([]T, error) {
	v := url.Values{}
	if from != "" {
		v.Set("date_from", from)
	}
	if to != "" {
		v.Set("date_to", to)
	}
	path := "/" + kind + "-tickets"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}

	var list struct {
		Items []T `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// searchDebounce reads the server's configured search window.
func (c *apiClient) searchDebounce(ctx context.Context) (time.Duration, error) {
	var settings struct {
		SearchDebounceMS int64 `json:"search_debounce_ms"`
	}
	if err := c.do(ctx, http.MethodGet, "/settings", nil, &settings); err != nil {
		return 0, err
	}
	return time.Duration(settings.SearchDebounceMS) * time.Millisecond, nil
}
