package chains

import (
	"context"

	"github.com/argus-network/argus/types"
)

type MockReceiptWaiter struct {
	WaitForReceiptFunc func(ctx context.Context, txRef string) (*types.ReceiptResult, error)
}

func (m *MockReceiptWaiter) WaitForReceipt(ctx context.Context, txRef string) (*types.ReceiptResult, error) {
	if m.WaitForReceiptFunc != nil {
		return m.WaitForReceiptFunc(ctx, txRef)
	}

	return nil, nil
}

type MockStatusPoller struct {
	GetTransactionStatusFunc func(ctx context.Context, txRef string) (*types.TxStatusResult, error)
}

func (m *MockStatusPoller) GetTransactionStatus(ctx context.Context, txRef string) (*types.TxStatusResult, error) {
	if m.GetTransactionStatusFunc != nil {
		return m.GetTransactionStatusFunc(ctx, txRef)
	}

	return &types.TxStatusResult{Status: types.RemoteStatusPending}, nil
}

type MockSwitcher struct {
	SwitchActiveChainFunc func(ctx context.Context, chain string) error
}

func (m *MockSwitcher) SwitchActiveChain(ctx context.Context, chain string) error {
	if m.SwitchActiveChainFunc != nil {
		return m.SwitchActiveChainFunc(ctx, chain)
	}

	return nil
}
