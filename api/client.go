package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gtkrshnaaa/cevia/envconfig"
	"github.com/gtkrshnaaa/cevia/version"
)

// Client talks to a cevia server.
type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient returns a client for the server at base.
func NewClient(base *url.URL, http *http.Client) *Client {
	return &Client{base: base, http: http}
}

// BaseHost returns the host:port the client targets.
func (c *Client) BaseHost() string {
	return c.base.Host
}

// ClientFromEnvironment builds a client from CEVIA_HOST.
func ClientFromEnvironment() (*Client, error) {
	return NewClient(&url.URL{Scheme: "http", Host: envconfig.Host}, http.DefaultClient), nil
}

func (c *Client) do(ctx context.Context, method, path string, reqData, respData any) error {
	var reqBody io.Reader
	if reqData != nil {
		data, err := json.Marshal(reqData)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), reqBody)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", fmt.Sprintf("cevia/%s", version.Version))

	response, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= http.StatusBadRequest {
		var errResp ErrorResponse
		_ = json.Unmarshal(body, &errResp)
		return newStatusError(response.StatusCode, errResp.Error)
	}

	if respData != nil {
		return json.Unmarshal(body, respData)
	}
	return nil
}

func (c *Client) stream(ctx context.Context, method, path string, reqData any, fn func([]byte) error) error {
	var reqBody io.Reader
	if reqData != nil {
		data, err := json.Marshal(reqData)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), reqBody)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/x-ndjson")

	response, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(response.Body)
		var errResp ErrorResponse
		_ = json.Unmarshal(body, &errResp)
		return newStatusError(response.StatusCode, errResp.Error)
	}

	scanner := bufio.NewScanner(response.Body)
	for scanner.Scan() {
		if len(bytes.TrimSpace(scanner.Bytes())) == 0 {
			continue
		}
		if err := fn(scanner.Bytes()); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// Predict returns next-token candidates for the request context.
func (c *Client) Predict(ctx context.Context, req *PredictRequest) (*PredictResponse, error) {
	var resp PredictResponse
	if err := c.do(ctx, http.MethodPost, "/api/predict", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateResponseFunc receives each line of the generate stream.
type GenerateResponseFunc func(GenerateResponse) error

// Generate streams a generated continuation of the request prompt.
func (c *Client) Generate(ctx context.Context, req *GenerateRequest, fn GenerateResponseFunc) error {
	return c.stream(ctx, http.MethodPost, "/api/generate", req, func(bts []byte) error {
		var resp GenerateResponse
		if err := json.Unmarshal(bts, &resp); err != nil {
			return err
		}
		return fn(resp)
	})
}

// Show describes the model loaded by the server.
func (c *Client) Show(ctx context.Context) (*ShowResponse, error) {
	var resp ShowResponse
	if err := c.do(ctx, http.MethodGet, "/api/show", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Version reports the server version.
func (c *Client) Version(ctx context.Context) (string, error) {
	var resp VersionResponse
	if err := c.do(ctx, http.MethodGet, "/api/version", nil, &resp); err != nil {
		return "", err
	}
	return resp.Version, nil
}

// Heartbeat checks that the server is reachable.
func (c *Client) Heartbeat(ctx context.Context) error {
	return c.do(ctx, http.MethodHead, "/", nil, nil)
}
