package solana

import (
	"context"
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/argus-network/argus/config"
	"github.com/argus-network/argus/types"
)

// SolanaClient is the slice of the rpc client the poller needs, extracted so
// tests can mock it.
type SolanaClient interface {
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool,
		transactionSignatures ...solanago.Signature) (*rpc.GetSignatureStatusesResult, error)
}

// Poller reads signature status from a slot based chain. Finality is reached
// when the cluster reports the finalized commitment, regardless of the
// confirmation count seen before that.
type Poller struct {
	profile config.ChainProfile
	client  SolanaClient
}

func NewPoller(profile config.ChainProfile) *Poller {
	return &Poller{
		profile: profile,
		client:  rpc.New(profile.RpcUrl),
	}
}

func NewPollerWithClient(profile config.ChainProfile, client SolanaClient) *Poller {
	return &Poller{
		profile: profile,
		client:  client,
	}
}

func (p *Poller) GetTransactionStatus(ctx context.Context, txRef string) (*types.TxStatusResult, error) {
	sig, err := solanago.SignatureFromBase58(txRef)
	if err != nil {
		return nil, fmt.Errorf("invalid base58 transaction signature %s: %w", txRef, err)
	}

	out, err := p.client.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return nil, err
	}

	if out == nil || len(out.Value) == 0 || out.Value[0] == nil {
		return &types.TxStatusResult{Status: types.RemoteStatusPending}, nil
	}

	status := out.Value[0]
	blockRef := fmt.Sprintf("%d", status.Slot)

	if status.Err != nil {
		return &types.TxStatusResult{
			Status:   types.RemoteStatusFailed,
			BlockRef: blockRef,
			Reason:   fmt.Sprintf("transaction failed on chain: %v", status.Err),
		}, nil
	}

	if status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
		confirmations := p.profile.ConfirmationsRequired
		if confirmations == 0 {
			confirmations = 1
		}

		return &types.TxStatusResult{
			Status:        types.RemoteStatusConfirmed,
			Confirmations: confirmations,
			BlockRef:      blockRef,
		}, nil
	}

	confirmations := 0
	if status.Confirmations != nil {
		confirmations = int(*status.Confirmations)
	}

	return &types.TxStatusResult{
		Status:        types.RemoteStatusPending,
		Confirmations: confirmations,
		BlockRef:      blockRef,
	}, nil
}
