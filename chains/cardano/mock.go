package cardano

import (
	"context"

	"github.com/blockfrost/blockfrost-go"
)

type MockProvider struct {
	TransactionFunc func(ctx context.Context, hash string) (blockfrost.TransactionContent, error)
	BlockLatestFunc func(ctx context.Context) (blockfrost.Block, error)
}

func (m *MockProvider) Transaction(ctx context.Context, hash string) (blockfrost.TransactionContent, error) {
	if m.TransactionFunc != nil {
		return m.TransactionFunc(ctx, hash)
	}

	return blockfrost.TransactionContent{}, nil
}

func (m *MockProvider) BlockLatest(ctx context.Context) (blockfrost.Block, error) {
	if m.BlockLatestFunc != nil {
		return m.BlockLatestFunc(ctx)
	}

	return blockfrost.Block{}, nil
}
