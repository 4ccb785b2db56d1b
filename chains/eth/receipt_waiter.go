package eth

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	etypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sisu-network/lib/log"

	"github.com/argus-network/argus/config"
	"github.com/argus-network/argus/types"
)

const (
	// MaxFetchRetry is the number of consecutive RPC failures tolerated while
	// waiting for a receipt before the wait is abandoned.
	MaxFetchRetry = 5

	minCheckInterval = time.Second
)

// ReceiptWaiter blocks until the node reports a receipt for a transaction.
// Account based chains push a receipt once the transaction is mined, so a
// single receipt is enough to settle the transaction.
type ReceiptWaiter struct {
	profile config.ChainProfile
	client  EthClient

	checkInterval time.Duration
}

func NewReceiptWaiter(profile config.ChainProfile, client EthClient) *ReceiptWaiter {
	interval := profile.BlockTime()
	if interval < minCheckInterval {
		interval = minCheckInterval
	}

	return &ReceiptWaiter{
		profile:       profile,
		client:        client,
		checkInterval: interval,
	}
}

// WaitForReceipt polls the node once per block time until a receipt shows up
// for txRef, then reports whether the transaction succeeded or reverted.
func (w *ReceiptWaiter) WaitForReceipt(ctx context.Context, txRef string) (*types.ReceiptResult, error) {
	hash := common.HexToHash(txRef)
	errCount := 0

	for {
		receipt, err := w.fetchReceipt(ctx, hash)
		switch {
		case err != nil:
			errCount++
			if errCount >= MaxFetchRetry {
				log.Errorf("Cannot get receipt for tx %s on chain %s: %v", txRef,
					w.profile.Chain, err)
				return nil, err
			}
		case receipt != nil:
			return w.buildResult(ctx, receipt)
		default:
			// Not mined yet.
			errCount = 0
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(w.checkInterval):
		}
	}
}

// fetchReceipt returns (nil, nil) when the transaction is not mined yet.
func (w *ReceiptWaiter) fetchReceipt(ctx context.Context, hash common.Hash) (*etypes.Receipt, error) {
	callCtx, cancel := context.WithTimeout(ctx, w.profile.RpcTimeout())
	defer cancel()

	receipt, err := w.client.TransactionReceipt(callCtx, hash)
	if err == ethereum.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return receipt, nil
}

func (w *ReceiptWaiter) buildResult(ctx context.Context, receipt *etypes.Receipt) (*types.ReceiptResult, error) {
	confirmations := 1

	callCtx, cancel := context.WithTimeout(ctx, w.profile.RpcTimeout())
	head, err := w.client.BlockNumber(callCtx)
	cancel()
	if err == nil && receipt.BlockNumber != nil {
		mined := receipt.BlockNumber.Uint64()
		if head >= mined {
			confirmations = int(head-mined) + 1
		}
	}

	result := &types.ReceiptResult{
		Success:       receipt.Status == etypes.ReceiptStatusSuccessful,
		Reverted:      receipt.Status == etypes.ReceiptStatusFailed,
		BlockRef:      receipt.BlockHash.Hex(),
		Confirmations: confirmations,
	}
	if result.Reverted {
		result.Reason = fmt.Sprintf("execution reverted in block %s", result.BlockRef)
	}

	return result, nil
}
