package types

import "fmt"

// ErrorKind is the canonical, chain-agnostic category of any raw error
// encountered while submitting or observing a transaction.
type ErrorKind string

const (
	ErrKindNetwork             ErrorKind = "network_error"
	ErrKindTimeout             ErrorKind = "timeout"
	ErrKindRpc                 ErrorKind = "rpc_error"
	ErrKindRateLimited         ErrorKind = "rate_limited"
	ErrKindInsufficientBalance ErrorKind = "insufficient_balance"
	ErrKindUserRejected        ErrorKind = "user_rejected"
	ErrKindInvalidAddress      ErrorKind = "invalid_address"
	ErrKindExecutionReverted   ErrorKind = "execution_reverted"
	ErrKindNonceTooLow         ErrorKind = "nonce_too_low"
	ErrKindNonceTooHigh        ErrorKind = "nonce_too_high"
	ErrKindGasPriceTooLow      ErrorKind = "gas_price_too_low"
	ErrKindTxFailed            ErrorKind = "transaction_failed"
	ErrKindUnknown             ErrorKind = "unknown"
)

type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// ClassifiedError is the only error shape that crosses component boundaries.
// Raw errors from chain clients and the bridging service are converted into
// this type before they reach any caller.
type ClassifiedError struct {
	Kind           ErrorKind
	Severity       Severity
	Retryable      bool
	RecoveryAction string
	Chain          string

	// Message is the user-facing message derived from the kind. Raw carries
	// the remote reason text when one is available.
	Message string
	Raw     string
}

func (e *ClassifiedError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Raw)
	}

	return e.Message
}
