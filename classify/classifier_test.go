package classify

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/argus-network/argus/config"
	"github.com/argus-network/argus/types"
)

type codedError struct {
	code int
	msg  string
}

func (e *codedError) Error() string {
	return e.msg
}

func (e *codedError) ErrorCode() int {
	return e.code
}

func accountProfile() config.ChainProfile {
	return config.ChainProfile{Chain: "eth", ChainType: "account_based"}
}

func TestClassify_PriorityOrder(t *testing.T) {
	c := NewClassifier()

	// A message with both a rejection phrase and a network phrase must be
	// classified as a rejection, which sits first in the priority order.
	ce := c.Classify(fmt.Errorf("user rejected after network error"), accountProfile())
	require.Equal(t, types.ErrKindUserRejected, ce.Kind)
	require.False(t, ce.Retryable)

	ce = c.Classify(fmt.Errorf("insufficient funds after timeout"), accountProfile())
	require.Equal(t, types.ErrKindInsufficientBalance, ce.Kind)
}

func TestClassify_ChainSpecific(t *testing.T) {
	c := NewClassifier()

	ce := c.Classify(fmt.Errorf("execution reverted: ERC20 transfer amount exceeds balance"), accountProfile())
	require.Equal(t, types.ErrKindExecutionReverted, ce.Kind)
	require.Equal(t, types.SeverityCritical, ce.Severity)
	require.False(t, ce.Retryable)

	tron := config.ChainProfile{Chain: "tron", ChainType: "resource_metered"}
	ce = c.Classify(fmt.Errorf("CONTRACT VALIDATE ERROR: account does not exist"), tron)
	require.Equal(t, types.ErrKindExecutionReverted, ce.Kind)

	sol := config.ChainProfile{Chain: "solana", ChainType: "slot_based"}
	ce = c.Classify(fmt.Errorf("Transaction simulation failed: insufficient lamports 100"), sol)
	// Balance phrases outrank simulation failures for slot chains.
	require.Equal(t, types.ErrKindInsufficientBalance, ce.Kind)

	ada := config.ChainProfile{Chain: "cardano", ChainType: "utxo"}
	ce = c.Classify(fmt.Errorf("transaction submit error: BadInputsUTxO"), ada)
	require.Equal(t, types.ErrKindTxFailed, ce.Kind)
}

func TestClassify_AccountNumericCodes(t *testing.T) {
	c := NewClassifier()

	ce := c.Classify(&codedError{code: 4001, msg: "User rejected the request."}, accountProfile())
	require.Equal(t, types.ErrKindUserRejected, ce.Kind)
	require.Equal(t, ActionRetrySwitch, ce.RecoveryAction)

	ce = c.Classify(&codedError{code: 4902, msg: "Unrecognized chain ID"}, accountProfile())
	require.Equal(t, types.ErrKindRpc, ce.Kind)
	require.Equal(t, ActionAddChainToWallet, ce.RecoveryAction)

	// Rate limiting reported at code level is critical.
	ce = c.Classify(&codedError{code: -32005, msg: "limit exceeded"}, accountProfile())
	require.Equal(t, types.ErrKindRateLimited, ce.Kind)
	require.Equal(t, types.SeverityCritical, ce.Severity)

	// Codes do not apply to non account-based chains.
	sol := config.ChainProfile{Chain: "solana", ChainType: "slot_based"}
	ce = c.Classify(&codedError{code: 4001, msg: "some text"}, sol)
	require.Equal(t, types.ErrKindUnknown, ce.Kind)
}

func TestClassify_NeverRetryRejectionOrBadAddress(t *testing.T) {
	c := NewClassifier()

	for _, msg := range []string{
		"user denied transaction signature",
		"invalid address provided",
		"invalid checksum for address",
	} {
		ce := c.Classify(fmt.Errorf(msg), accountProfile())
		require.False(t, ce.Retryable, "message %q must not be retryable", msg)
		require.Equal(t, types.SeverityLow, ce.Severity)
	}
}

func TestClassify_UnknownAndNil(t *testing.T) {
	c := NewClassifier()

	ce := c.Classify(fmt.Errorf("something nobody has seen before"), accountProfile())
	require.Equal(t, types.ErrKindUnknown, ce.Kind)
	require.Equal(t, types.SeverityMedium, ce.Severity)

	ce = c.Classify(nil, accountProfile())
	require.NotNil(t, ce)
	require.Equal(t, types.ErrKindUnknown, ce.Kind)
}

func TestClassify_PassThrough(t *testing.T) {
	c := NewClassifier()

	orig := &types.ClassifiedError{Kind: types.ErrKindTimeout, Retryable: true}
	ce := c.Classify(orig, accountProfile())
	require.Equal(t, orig, ce)
}

func TestClassifier_SwitchInProgress(t *testing.T) {
	c := NewClassifier()

	ce := c.SwitchInProgress("polygon")
	require.Equal(t, types.ErrKindRpc, ce.Kind)
	require.Equal(t, types.SeverityLow, ce.Severity)
	require.False(t, ce.Retryable)
	require.Equal(t, ActionWaitAndRetry, ce.RecoveryAction)
	require.Equal(t, "polygon", ce.Chain)
}

func TestClassify_RawMessageKept(t *testing.T) {
	c := NewClassifier()

	ce := c.Classify(fmt.Errorf("connection refused by 10.0.0.1"), accountProfile())
	require.Equal(t, types.ErrKindNetwork, ce.Kind)
	require.True(t, ce.Retryable)
	require.Contains(t, ce.Error(), "connection refused by 10.0.0.1")
}
