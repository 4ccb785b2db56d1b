package cardano

import (
	"context"
	"fmt"
	"testing"

	"github.com/blockfrost/blockfrost-go"
	"github.com/stretchr/testify/require"

	"github.com/argus-network/argus/config"
	"github.com/argus-network/argus/types"
)

func testProfile() config.ChainProfile {
	return config.ChainProfile{
		Chain:                 "cardano",
		ChainType:             "utxo",
		BlockTimeSeconds:      20,
		ConfirmationsRequired: 15,
		Timeouts:              config.TimeoutProfile{RpcTimeoutMs: 1000},
	}
}

func minedTx(height int, valid bool) blockfrost.TransactionContent {
	return blockfrost.TransactionContent{
		Hash:          "c0ffee",
		Block:         "blockhash",
		BlockHeight:   height,
		ValidContract: valid,
	}
}

func TestPoller_Confirmed(t *testing.T) {
	provider := &MockProvider{
		TransactionFunc: func(ctx context.Context, hash string) (blockfrost.TransactionContent, error) {
			return minedTx(100, true), nil
		},
		BlockLatestFunc: func(ctx context.Context) (blockfrost.Block, error) {
			return blockfrost.Block{Height: 120}, nil
		},
	}

	poller := NewPollerWithProvider(testProfile(), provider)

	result, err := poller.GetTransactionStatus(context.Background(), "c0ffee")
	require.Nil(t, err)
	require.Equal(t, types.RemoteStatusConfirmed, result.Status)
	require.Equal(t, 21, result.Confirmations)
	require.Equal(t, "blockhash", result.BlockRef)
}

func TestPoller_StillConfirming(t *testing.T) {
	provider := &MockProvider{
		TransactionFunc: func(ctx context.Context, hash string) (blockfrost.TransactionContent, error) {
			return minedTx(100, true), nil
		},
		BlockLatestFunc: func(ctx context.Context) (blockfrost.Block, error) {
			return blockfrost.Block{Height: 104}, nil
		},
	}

	poller := NewPollerWithProvider(testProfile(), provider)

	result, err := poller.GetTransactionStatus(context.Background(), "c0ffee")
	require.Nil(t, err)
	require.Equal(t, types.RemoteStatusPending, result.Status)
	require.Equal(t, 5, result.Confirmations)
}

func TestPoller_NotInBlockYet(t *testing.T) {
	provider := &MockProvider{
		TransactionFunc: func(ctx context.Context, hash string) (blockfrost.TransactionContent, error) {
			return blockfrost.TransactionContent{}, &blockfrost.APIError{
				Response: blockfrost.NotFound{},
			}
		},
	}

	poller := NewPollerWithProvider(testProfile(), provider)

	result, err := poller.GetTransactionStatus(context.Background(), "c0ffee")
	require.Nil(t, err)
	require.Equal(t, types.RemoteStatusPending, result.Status)
	require.Equal(t, 0, result.Confirmations)
}

func TestPoller_ScriptValidationFailed(t *testing.T) {
	provider := &MockProvider{
		TransactionFunc: func(ctx context.Context, hash string) (blockfrost.TransactionContent, error) {
			return minedTx(100, false), nil
		},
	}

	poller := NewPollerWithProvider(testProfile(), provider)

	result, err := poller.GetTransactionStatus(context.Background(), "c0ffee")
	require.Nil(t, err)
	require.Equal(t, types.RemoteStatusFailed, result.Status)
	require.Contains(t, result.Reason, "script validation failed")
}

func TestPoller_ProviderError(t *testing.T) {
	provider := &MockProvider{
		TransactionFunc: func(ctx context.Context, hash string) (blockfrost.TransactionContent, error) {
			return blockfrost.TransactionContent{}, fmt.Errorf("project over quota")
		},
	}

	poller := NewPollerWithProvider(testProfile(), provider)

	_, err := poller.GetTransactionStatus(context.Background(), "c0ffee")
	require.NotNil(t, err)
}
