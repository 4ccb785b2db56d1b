package eth

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	etypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// A wrapper around ethclient.Client so that we can mock in receipt waiter
// tests.
type EthClient interface {
	BlockNumber(ctx context.Context) (uint64, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*etypes.Receipt, error)
}

func Dial(rpcUrl string) (EthClient, error) {
	client, err := ethclient.Dial(rpcUrl)
	if err != nil {
		return nil, err
	}

	return client, nil
}
