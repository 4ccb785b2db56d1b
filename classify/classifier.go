package classify

import (
	"fmt"
	"strings"

	"github.com/argus-network/argus/config"
	"github.com/argus-network/argus/types"
)

// Recovery actions surfaced to callers alongside a classified error.
const (
	ActionNone               = "none"
	ActionCheckConnection    = "check_connection"
	ActionWaitAndRetry       = "wait_and_retry"
	ActionTopUpBalance       = "top_up_balance"
	ActionVerifyAddress      = "verify_recipient_address"
	ActionIncreaseFee        = "increase_fee"
	ActionResubmit           = "resubmit_transaction"
	ActionInspectTransaction = "inspect_transaction"
	ActionRetrySwitch        = "retry_switch_manually"
	ActionAddChainToWallet   = "add_chain_to_wallet"
)

// coder is implemented by go-ethereum's JSON-RPC errors among others. When a
// raw error carries an explicit numeric code we trust it over text matching.
type coder interface {
	ErrorCode() int
}

// Classifier turns raw errors from any chain client into the canonical
// ClassifiedError shape. It is stateless and safe for concurrent use.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify never returns nil and never panics, whatever the raw error looks
// like.
func (c *Classifier) Classify(err error, profile config.ChainProfile) *types.ClassifiedError {
	if err == nil {
		return c.build(types.ErrKindUnknown, ActionNone, profile.Chain, "", false)
	}

	if ce, ok := err.(*types.ClassifiedError); ok {
		// Already classified upstream; keep it as is.
		return ce
	}

	raw := err.Error()
	chainType := profile.Type()

	if chainType == types.ChainTypeAccountBased {
		if coded, ok := err.(coder); ok {
			if kind, ok := accountCodeKinds[coded.ErrorCode()]; ok {
				action := actionForCode(coded.ErrorCode())
				return c.build(kind, action, profile.Chain, raw, true)
			}
		}
	}

	lower := strings.ToLower(raw)

	for _, r := range commonRules {
		if matches(lower, r.phrases) {
			return c.build(r.kind, r.action, profile.Chain, raw, false)
		}
	}

	for _, r := range chainRules[chainType] {
		if matches(lower, r.phrases) {
			return c.build(r.kind, r.action, profile.Chain, raw, false)
		}
	}

	return c.build(types.ErrKindUnknown, ActionNone, profile.Chain, raw, false)
}

// ForKind builds a classified error for an outcome whose kind is already
// known, e.g. a failed receipt or a terminal remote poll status. Severity and
// retryability are derived the same way as for matched raw errors.
func (c *Classifier) ForKind(kind types.ErrorKind, profile config.ChainProfile, raw string) *types.ClassifiedError {
	action := ActionNone
	for _, r := range append(commonRules, chainRules[profile.Type()]...) {
		if r.kind == kind {
			action = r.action
			break
		}
	}

	return c.build(kind, action, profile.Chain, raw, false)
}

// SwitchInProgress is the error returned when a context switch is requested
// while another one is still in flight for the same context. Low severity and
// not retryable by the engine: the caller waits for the pending switch to
// settle instead of stacking another prompt.
func (c *Classifier) SwitchInProgress(chain string) *types.ClassifiedError {
	return &types.ClassifiedError{
		Kind:           types.ErrKindRpc,
		Severity:       types.SeverityLow,
		Retryable:      false,
		RecoveryAction: ActionWaitAndRetry,
		Chain:          chain,
		Message:        "a network switch is already in progress",
	}
}

// Retryable is the default predicate handed to the retry engine.
func (c *Classifier) Retryable(err error, profile config.ChainProfile) bool {
	return c.Classify(err, profile).Retryable
}

func (c *Classifier) build(kind types.ErrorKind, action, chain, raw string, fromCode bool) *types.ClassifiedError {
	return &types.ClassifiedError{
		Kind:           kind,
		Severity:       severityFor(kind, fromCode),
		Retryable:      retryableFor(kind),
		RecoveryAction: action,
		Chain:          chain,
		Message:        messageFor(kind, chain),
		Raw:            raw,
	}
}

func matches(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}

	return false
}

// Severity is derived from the kind, never re-matched against the raw text.
func severityFor(kind types.ErrorKind, fromCode bool) types.Severity {
	switch kind {
	case types.ErrKindUserRejected, types.ErrKindInvalidAddress:
		return types.SeverityLow
	case types.ErrKindInsufficientBalance, types.ErrKindTimeout:
		return types.SeverityMedium
	case types.ErrKindNetwork, types.ErrKindRpc, types.ErrKindTxFailed:
		return types.SeverityHigh
	case types.ErrKindExecutionReverted:
		return types.SeverityCritical
	case types.ErrKindRateLimited:
		if fromCode {
			return types.SeverityCritical
		}
		return types.SeverityMedium
	default:
		return types.SeverityMedium
	}
}

func retryableFor(kind types.ErrorKind) bool {
	switch kind {
	case types.ErrKindNetwork, types.ErrKindTimeout, types.ErrKindRpc,
		types.ErrKindRateLimited, types.ErrKindNonceTooHigh:
		return true
	default:
		return false
	}
}

func actionForCode(code int) string {
	switch code {
	case 4001:
		return ActionRetrySwitch
	case 4902:
		return ActionAddChainToWallet
	case 429, -32005:
		return ActionWaitAndRetry
	default:
		return ActionNone
	}
}

func messageFor(kind types.ErrorKind, chain string) string {
	msg, ok := userMessages[kind]
	if !ok {
		msg = userMessages[types.ErrKindUnknown]
	}

	if chain == "" {
		return msg
	}

	return fmt.Sprintf("%s: %s", chain, msg)
}
