package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/golang/glog"
)

// Client wraps HTTP calls to an OData v4 web API.
type Client struct {
	baseURL     string
	apiVersion  string
	accessToken string
	httpClient  *http.Client
}

// NewClient creates a new API client for the organization at baseURL.
func NewClient(baseURL, accessToken string, timeout ...time.Duration) *Client {
	httpTimeout := 30 * time.Second
	if len(timeout) > 0 && timeout[0] > 0 {
		httpTimeout = timeout[0]
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiVersion:  DefaultAPIVersion,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: httpTimeout,
		},
	}
}

// SetAccessToken updates the bearer token used for subsequent requests.
func (c *Client) SetAccessToken(token string) {
	c.accessToken = token
}

// SetAPIVersion changes the web API version segment, e.g. "v9.2".
func (c *Client) SetAPIVersion(version string) {
	if version = strings.TrimSpace(version); version != "" {
		c.apiVersion = version
	}
}

// WithTimeout clones the client with a different HTTP timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	clone := NewClient(c.baseURL, c.accessToken, timeout)
	clone.apiVersion = c.apiVersion
	return clone
}

// DataURL returns the absolute URL of a path under the web API root.
func (c *Client) DataURL(path string) string {
	return c.baseURL + "/api/data/" + c.apiVersion + "/" + strings.TrimLeft(path, "/")
}

// do executes an HTTP request and returns the raw response body. Any status
// not in want, and any transport failure, is returned as *HTTPFailure.
// target may be a path under the web API root or an absolute URL.
func (c *Client) do(ctx context.Context, method, target string, body any, header http.Header, want ...int) ([]byte, int, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	endpoint := target
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		endpoint = c.DataURL(target)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("OData-MaxVersion", "4.0")
	req.Header.Set("OData-Version", "4.0")
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		glog.V(2).Infof("%s %s failed after %s: %v", method, endpoint, time.Since(start), err)
		return nil, 0, transportFailure(err)
	}
	defer resp.Body.Close()
	glog.V(2).Infof("%s %s -> %d (%s)", method, endpoint, resp.StatusCode, time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, transportFailure(fmt.Errorf("read response: %w", err))
	}

	if !statusIn(resp.StatusCode, want) {
		return nil, resp.StatusCode, statusFailure(resp.StatusCode, respBody)
	}

	return respBody, resp.StatusCode, nil
}

// get performs a GET request expecting 200.
func (c *Client) get(ctx context.Context, target string, header http.Header) ([]byte, error) {
	body, _, err := c.do(ctx, http.MethodGet, target, nil, header, http.StatusOK)
	return body, err
}

// post performs a POST request expecting no content.
func (c *Client) post(ctx context.Context, path string, body any) error {
	_, _, err := c.do(ctx, http.MethodPost, path, body, nil, noContentStatuses...)
	return err
}

// del performs a DELETE request expecting no content.
func (c *Client) del(ctx context.Context, path string) error {
	_, _, err := c.do(ctx, http.MethodDelete, path, nil, nil, noContentStatuses...)
	return err
}

// decodeOne decodes a single-entity response.
func decodeOne[T any](data []byte) (*T, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// decodeCollection decodes one page of a collection response.
func decodeCollection[T any](data []byte) (*collection[T], error) {
	var page collection[T]
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &page, nil
}

// buildQuery appends OData system query options to a path. Keys keep their
// leading "$" and spaces are encoded as %20.
func buildQuery(path string, params QueryParams) string {
	if len(params) == 0 {
		return path
	}
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return path
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+strings.ReplaceAll(url.QueryEscape(params[k]), "+", "%20"))
	}
	return path + "?" + strings.Join(parts, "&")
}

func extractAPIErrorBody(body []byte) (string, bool) {
	if len(body) == 0 {
		return "", false
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false
	}

	if msg, ok := parseErrorValue(payload["error"]); ok {
		return msg, true
	}
	if msg, ok := parseErrorValue(payload["Message"]); ok {
		return msg, true
	}
	return "", false
}

func parseErrorValue(raw any) (string, bool) {
	switch value := raw.(type) {
	case string:
		msg := strings.TrimSpace(value)
		if msg == "" {
			return "", false
		}
		return msg, true
	case map[string]any:
		if nested, ok := parseErrorValue(value["innererror"]); ok {
			if message, _ := value["message"].(string); strings.TrimSpace(message) == "" {
				return nested, true
			}
		}
		code, _ := value["code"].(string)
		message, _ := value["message"].(string)
		return formatAPIError(code, message)
	}
	return "", false
}

func formatAPIError(code, message string) (string, bool) {
	code = strings.TrimSpace(code)
	message = strings.TrimSpace(message)
	switch {
	case message != "":
		return message, true
	case code != "":
		return code, true
	default:
		return "", false
	}
}
