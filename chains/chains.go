package chains

import (
	"context"

	"github.com/argus-network/argus/types"
)

// ReceiptWaiter is the push-model collaborator for account-based chains. The
// call blocks until the chain notifies a receipt for the transaction or ctx
// is done; the receipt is authoritative for confirmation.
type ReceiptWaiter interface {
	WaitForReceipt(ctx context.Context, txRef string) (*types.ReceiptResult, error)
}

// StatusPoller is the pull-model collaborator for every other chain type.
// One call is one poll observation; it reports pending until the remote
// status is terminal.
type StatusPoller interface {
	GetTransactionStatus(ctx context.Context, txRef string) (*types.TxStatusResult, error)
}

// Switcher changes the active chain context, typically by prompting an
// external wallet.
type Switcher interface {
	SwitchActiveChain(ctx context.Context, chain string) error
}

// NopSwitcher acknowledges every switch locally. Used when no wallet is
// attached to the process.
type NopSwitcher struct{}

func (NopSwitcher) SwitchActiveChain(ctx context.Context, chain string) error {
	return nil
}
