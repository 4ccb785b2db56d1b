package types

import "time"

type TxStatus string

const (
	TxStatusPending    TxStatus = "pending"
	TxStatusConfirming TxStatus = "confirming"
	TxStatusConfirmed  TxStatus = "confirmed"
	TxStatusFailed     TxStatus = "failed"
	TxStatusTimedOut   TxStatus = "timed_out"
)

// IsTerminal reports whether no further transition can happen from this
// status without an explicit reset.
func (s TxStatus) IsTerminal() bool {
	return s == TxStatusConfirmed || s == TxStatusFailed || s == TxStatusTimedOut
}

// TrackedTransaction is a snapshot of one transfer's observed lifecycle.
type TrackedTransaction struct {
	Reference             string
	Chain                 string
	Status                TxStatus
	Confirmations         int
	RequiredConfirmations int
	ProgressPercent       int
	EstimatedTimeLeftMs   int64
	StartedAt             time.Time
	BlockRef              string
	LastError             *ClassifiedError
}

// ReceiptResult is what the receipt-wait collaborator pushes back for
// account-based chains.
type ReceiptResult struct {
	Success       bool
	Reverted      bool
	BlockRef      string
	Confirmations int
	Reason        string
}

// RemoteTxStatus is the terminal-or-not status reported by the status-poll
// collaborator on pull-model chains.
type RemoteTxStatus string

const (
	RemoteStatusPending   RemoteTxStatus = "pending"
	RemoteStatusConfirmed RemoteTxStatus = "confirmed"
	RemoteStatusFailed    RemoteTxStatus = "failed"
)

// TxStatusResult is one poll observation from the status-poll collaborator.
type TxStatusResult struct {
	Status        RemoteTxStatus
	Confirmations int
	BlockRef      string
	Reason        string
}
