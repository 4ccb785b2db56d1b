package cardano

import (
	"context"

	"github.com/blockfrost/blockfrost-go"

	"github.com/argus-network/argus/config"
	"github.com/argus-network/argus/types"
)

// Provider is the slice of the blockfrost client the poller needs, extracted
// so tests can mock it.
type Provider interface {
	Transaction(ctx context.Context, hash string) (blockfrost.TransactionContent, error)
	BlockLatest(ctx context.Context) (blockfrost.Block, error)
}

// Poller reads transaction status from a utxo chain through a blockfrost
// compatible provider. A utxo transaction is settled once it is inside a block
// with enough depth; phase two script failure still lands on chain and is
// reported through the valid_contract flag.
type Poller struct {
	profile config.ChainProfile
	inner   Provider
}

func NewPoller(profile config.ChainProfile) *Poller {
	return &Poller{
		profile: profile,
		inner: blockfrost.NewAPIClient(blockfrost.APIClientOptions{
			ProjectID: profile.RpcSecret,
			Server:    profile.RpcUrl,
		}),
	}
}

func NewPollerWithProvider(profile config.ChainProfile, inner Provider) *Poller {
	return &Poller{
		profile: profile,
		inner:   inner,
	}
}

func (p *Poller) GetTransactionStatus(ctx context.Context, txRef string) (*types.TxStatusResult, error) {
	tx, err := p.inner.Transaction(ctx, txRef)
	if err != nil {
		if isNotFound(err) {
			// Not in a block yet.
			return &types.TxStatusResult{Status: types.RemoteStatusPending}, nil
		}

		return nil, err
	}

	blockRef := tx.Block

	if !tx.ValidContract {
		return &types.TxStatusResult{
			Status:   types.RemoteStatusFailed,
			BlockRef: blockRef,
			Reason:   "script validation failed, collateral consumed",
		}, nil
	}

	latest, err := p.inner.BlockLatest(ctx)
	if err != nil {
		return nil, err
	}

	confirmations := 1
	if latest.Height > tx.BlockHeight {
		confirmations = latest.Height - tx.BlockHeight + 1
	}

	result := &types.TxStatusResult{
		Status:        types.RemoteStatusPending,
		Confirmations: confirmations,
		BlockRef:      blockRef,
	}
	if confirmations >= p.profile.ConfirmationsRequired {
		result.Status = types.RemoteStatusConfirmed
	}

	return result, nil
}

func isNotFound(err error) bool {
	apiErr, ok := err.(*blockfrost.APIError)
	if !ok {
		return false
	}

	_, ok = apiErr.Response.(blockfrost.NotFound)
	return ok
}
