package bridge

import (
	"context"

	"github.com/argus-network/argus/types"
)

type MockClient struct {
	InitiateOrderFunc  func(ctx context.Context, params types.SwapParams) (*types.SwapOrder, error)
	GetOrderStatusFunc func(ctx context.Context, orderID string) (*types.SwapOrder, error)
	CancelOrderFunc    func(ctx context.Context, orderID string) error
}

func (m *MockClient) InitiateOrder(ctx context.Context, params types.SwapParams) (*types.SwapOrder, error) {
	if m.InitiateOrderFunc != nil {
		return m.InitiateOrderFunc(ctx, params)
	}

	return &types.SwapOrder{}, nil
}

func (m *MockClient) GetOrderStatus(ctx context.Context, orderID string) (*types.SwapOrder, error) {
	if m.GetOrderStatusFunc != nil {
		return m.GetOrderStatusFunc(ctx, orderID)
	}

	return &types.SwapOrder{}, nil
}

func (m *MockClient) CancelOrder(ctx context.Context, orderID string) error {
	if m.CancelOrderFunc != nil {
		return m.CancelOrderFunc(ctx, orderID)
	}

	return nil
}
