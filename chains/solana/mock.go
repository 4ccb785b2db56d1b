package solana

import (
	"context"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

type MockSolanaClient struct {
	GetSignatureStatusesFunc func(ctx context.Context, searchTransactionHistory bool,
		transactionSignatures ...solanago.Signature) (*rpc.GetSignatureStatusesResult, error)
}

func (m *MockSolanaClient) GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool,
	transactionSignatures ...solanago.Signature) (*rpc.GetSignatureStatusesResult, error) {
	if m.GetSignatureStatusesFunc != nil {
		return m.GetSignatureStatusesFunc(ctx, searchTransactionHistory, transactionSignatures...)
	}

	return &rpc.GetSignatureStatusesResult{}, nil
}
