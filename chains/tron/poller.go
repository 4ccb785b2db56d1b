package tron

import (
	"context"
	"fmt"

	"github.com/ybbus/jsonrpc/v3"

	"github.com/argus-network/argus/config"
	"github.com/argus-network/argus/types"
)

// txInfo mirrors the gettransactioninfobyid response of resource metered
// nodes. An empty id means the node has not seen the transaction yet.
type txInfo struct {
	ID          string `json:"id"`
	BlockNumber int64  `json:"blockNumber"`
	Receipt     struct {
		Result string `json:"result"`
	} `json:"receipt"`
	ResMessage string `json:"resMessage"`
}

type nowBlock struct {
	BlockHeader struct {
		RawData struct {
			Number int64 `json:"number"`
		} `json:"raw_data"`
	} `json:"block_header"`
}

// Poller reads transaction status from a resource metered chain. These chains
// have no push receipt, so the tracker polls this type on its block cadence.
type Poller struct {
	profile config.ChainProfile
	client  jsonrpc.RPCClient
}

func NewPoller(profile config.ChainProfile) *Poller {
	return &Poller{
		profile: profile,
		client:  jsonrpc.NewClient(profile.RpcUrl),
	}
}

func NewPollerWithClient(profile config.ChainProfile, client jsonrpc.RPCClient) *Poller {
	return &Poller{
		profile: profile,
		client:  client,
	}
}

func (p *Poller) GetTransactionStatus(ctx context.Context, txRef string) (*types.TxStatusResult, error) {
	info := &txInfo{}
	if err := p.client.CallFor(ctx, info, "gettransactioninfobyid", txRef); err != nil {
		return nil, err
	}

	if info.ID == "" {
		return &types.TxStatusResult{Status: types.RemoteStatusPending}, nil
	}

	if failed(info.Receipt.Result) {
		reason := info.Receipt.Result
		if info.ResMessage != "" {
			reason = fmt.Sprintf("%s: %s", info.Receipt.Result, info.ResMessage)
		}

		return &types.TxStatusResult{
			Status:   types.RemoteStatusFailed,
			BlockRef: fmt.Sprintf("%d", info.BlockNumber),
			Reason:   reason,
		}, nil
	}

	confirmations, err := p.confirmations(ctx, info.BlockNumber)
	if err != nil {
		return nil, err
	}

	result := &types.TxStatusResult{
		Status:        types.RemoteStatusPending,
		Confirmations: confirmations,
		BlockRef:      fmt.Sprintf("%d", info.BlockNumber),
	}
	if confirmations >= p.profile.ConfirmationsRequired {
		result.Status = types.RemoteStatusConfirmed
	}

	return result, nil
}

func (p *Poller) confirmations(ctx context.Context, minedBlock int64) (int, error) {
	head := &nowBlock{}
	if err := p.client.CallFor(ctx, head, "getnowblock"); err != nil {
		return 0, err
	}

	confirmations := 1
	if latest := head.BlockHeader.RawData.Number; latest > minedBlock {
		confirmations = int(latest-minedBlock) + 1
	}

	return confirmations, nil
}

// failed reports whether a receipt result marks the transaction as failed.
// Plain transfers carry no receipt result at all.
func failed(result string) bool {
	switch result {
	case "", "SUCCESS":
		return false
	default:
		return true
	}
}
