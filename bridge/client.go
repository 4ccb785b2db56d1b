package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/argus-network/argus/types"
)

const requestTimeout = 15 * time.Second

// Client talks to the bridging service that executes cross-chain orders.
type Client interface {
	InitiateOrder(ctx context.Context, params types.SwapParams) (*types.SwapOrder, error)
	GetOrderStatus(ctx context.Context, orderID string) (*types.SwapOrder, error)
	CancelOrder(ctx context.Context, orderID string) error
}

type HttpClient struct {
	baseUrl string
	client  *retryablehttp.Client
}

func NewHttpClient(baseUrl string) *HttpClient {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = requestTimeout
	client.Logger = nil

	return &HttpClient{
		baseUrl: baseUrl,
		client:  client,
	}
}

func (c *HttpClient) InitiateOrder(ctx context.Context, params types.SwapParams) (*types.SwapOrder, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, http.MethodPost, fmt.Sprintf("%s/orders", c.baseUrl), body)
	if err != nil {
		return nil, err
	}

	order := &types.SwapOrder{}
	if err := json.Unmarshal(data, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (c *HttpClient) GetOrderStatus(ctx context.Context, orderID string) (*types.SwapOrder, error) {
	data, err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/orders/%s", c.baseUrl, orderID), nil)
	if err != nil {
		return nil, err
	}

	order := &types.SwapOrder{}
	if err := json.Unmarshal(data, order); err != nil {
		return nil, err
	}

	return order, nil
}

func (c *HttpClient) CancelOrder(ctx context.Context, orderID string) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/orders/%s", c.baseUrl, orderID), nil)
	return err
}

func (c *HttpClient) do(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("bridge request %s %s failed with status %d: %s",
			method, url, resp.StatusCode, string(data))
	}

	return data, nil
}
