package solana

import (
	"context"
	"fmt"
	"testing"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/require"

	"github.com/argus-network/argus/config"
	"github.com/argus-network/argus/types"
)

func testProfile() config.ChainProfile {
	return config.ChainProfile{
		Chain:                 "solana",
		ChainType:             "slot_based",
		ConfirmationsRequired: 32,
		Timeouts:              config.TimeoutProfile{RpcTimeoutMs: 1000},
	}
}

func testSignature() string {
	return solanago.Signature{}.String()
}

func statusResult(status *rpc.SignatureStatusesResult) *rpc.GetSignatureStatusesResult {
	return &rpc.GetSignatureStatusesResult{
		Value: []*rpc.SignatureStatusesResult{status},
	}
}

func TestPoller_Finalized(t *testing.T) {
	client := &MockSolanaClient{
		GetSignatureStatusesFunc: func(ctx context.Context, searchTransactionHistory bool,
			transactionSignatures ...solanago.Signature) (*rpc.GetSignatureStatusesResult, error) {
			require.True(t, searchTransactionHistory)
			require.Len(t, transactionSignatures, 1)

			return statusResult(&rpc.SignatureStatusesResult{
				Slot:               5000,
				ConfirmationStatus: rpc.ConfirmationStatusFinalized,
			}), nil
		},
	}

	poller := NewPollerWithClient(testProfile(), client)

	result, err := poller.GetTransactionStatus(context.Background(), testSignature())
	require.Nil(t, err)
	require.Equal(t, types.RemoteStatusConfirmed, result.Status)
	require.Equal(t, 32, result.Confirmations)
	require.Equal(t, "5000", result.BlockRef)
}

func TestPoller_StillConfirming(t *testing.T) {
	confirmations := uint64(12)
	client := &MockSolanaClient{
		GetSignatureStatusesFunc: func(ctx context.Context, searchTransactionHistory bool,
			transactionSignatures ...solanago.Signature) (*rpc.GetSignatureStatusesResult, error) {
			return statusResult(&rpc.SignatureStatusesResult{
				Slot:               5000,
				Confirmations:      &confirmations,
				ConfirmationStatus: rpc.ConfirmationStatusConfirmed,
			}), nil
		},
	}

	poller := NewPollerWithClient(testProfile(), client)

	result, err := poller.GetTransactionStatus(context.Background(), testSignature())
	require.Nil(t, err)
	require.Equal(t, types.RemoteStatusPending, result.Status)
	require.Equal(t, 12, result.Confirmations)
}

func TestPoller_FailedOnChain(t *testing.T) {
	client := &MockSolanaClient{
		GetSignatureStatusesFunc: func(ctx context.Context, searchTransactionHistory bool,
			transactionSignatures ...solanago.Signature) (*rpc.GetSignatureStatusesResult, error) {
			return statusResult(&rpc.SignatureStatusesResult{
				Slot: 5000,
				Err:  map[string]interface{}{"InstructionError": []interface{}{0, "Custom"}},
			}), nil
		},
	}

	poller := NewPollerWithClient(testProfile(), client)

	result, err := poller.GetTransactionStatus(context.Background(), testSignature())
	require.Nil(t, err)
	require.Equal(t, types.RemoteStatusFailed, result.Status)
	require.Contains(t, result.Reason, "InstructionError")
}

func TestPoller_UnknownSignature(t *testing.T) {
	client := &MockSolanaClient{
		GetSignatureStatusesFunc: func(ctx context.Context, searchTransactionHistory bool,
			transactionSignatures ...solanago.Signature) (*rpc.GetSignatureStatusesResult, error) {
			return statusResult(nil), nil
		},
	}

	poller := NewPollerWithClient(testProfile(), client)

	result, err := poller.GetTransactionStatus(context.Background(), testSignature())
	require.Nil(t, err)
	require.Equal(t, types.RemoteStatusPending, result.Status)
	require.Equal(t, 0, result.Confirmations)
}

func TestPoller_BadSignature(t *testing.T) {
	poller := NewPollerWithClient(testProfile(), &MockSolanaClient{})

	_, err := poller.GetTransactionStatus(context.Background(), "not-base58-0OIl")
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "invalid base58")
}

func TestPoller_RpcError(t *testing.T) {
	client := &MockSolanaClient{
		GetSignatureStatusesFunc: func(ctx context.Context, searchTransactionHistory bool,
			transactionSignatures ...solanago.Signature) (*rpc.GetSignatureStatusesResult, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}

	poller := NewPollerWithClient(testProfile(), client)

	_, err := poller.GetTransactionStatus(context.Background(), testSignature())
	require.NotNil(t, err)
}
