package classify

import "github.com/argus-network/argus/types"

// A rule maps raw error text onto a canonical kind. First match wins, so the
// order of the slices below is the priority order of the whole classifier:
// rejection phrases, then balance, rate limit, network, timeout, and finally
// chain specific revert/validate phrases.
type rule struct {
	kind    types.ErrorKind
	action  string
	phrases []string
}

var commonRules = []rule{
	{
		kind:   types.ErrKindUserRejected,
		action: ActionNone,
		phrases: []string{
			"user rejected",
			"user denied",
			"rejected by user",
			"request rejected",
			"user cancelled",
		},
	},
	{
		kind:   types.ErrKindInsufficientBalance,
		action: ActionTopUpBalance,
		phrases: []string{
			"insufficient funds",
			"insufficient balance",
			"not enough balance",
			"balance smaller than minimum",
		},
	},
	{
		kind:   types.ErrKindRateLimited,
		action: ActionWaitAndRetry,
		phrases: []string{
			"rate limit",
			"too many requests",
			"429",
			"quota exceeded",
		},
	},
	{
		kind:   types.ErrKindNetwork,
		action: ActionCheckConnection,
		phrases: []string{
			"connection refused",
			"connection reset",
			"no such host",
			"network error",
			"dial tcp",
			"broken pipe",
			"unexpected eof",
		},
	},
	{
		kind:   types.ErrKindTimeout,
		action: ActionWaitAndRetry,
		phrases: []string{
			"timeout",
			"timed out",
			"deadline exceeded",
		},
	},
}

var chainRules = map[types.ChainType][]rule{
	types.ChainTypeAccountBased: {
		{kind: types.ErrKindExecutionReverted, action: ActionInspectTransaction, phrases: []string{
			"execution reverted",
			"transaction reverted",
		}},
		{kind: types.ErrKindNonceTooLow, action: ActionResubmit, phrases: []string{
			"nonce too low",
		}},
		{kind: types.ErrKindNonceTooHigh, action: ActionWaitAndRetry, phrases: []string{
			"nonce too high",
		}},
		{kind: types.ErrKindGasPriceTooLow, action: ActionIncreaseFee, phrases: []string{
			"replacement transaction underpriced",
			"transaction underpriced",
			"max fee per gas less than block base fee",
		}},
		{kind: types.ErrKindInvalidAddress, action: ActionVerifyAddress, phrases: []string{
			"invalid address",
			"invalid checksum",
		}},
		{kind: types.ErrKindRpc, action: ActionAddChainToWallet, phrases: []string{
			"chain not added",
			"unrecognized chain id",
		}},
	},
	types.ChainTypeResourceMetered: {
		{kind: types.ErrKindRateLimited, action: ActionWaitAndRetry, phrases: []string{
			"bandwidth exceeded",
			"out of energy",
			"account resource insufficient",
		}},
		{kind: types.ErrKindExecutionReverted, action: ActionInspectTransaction, phrases: []string{
			"contract validate error",
			"revert opcode",
		}},
		{kind: types.ErrKindInvalidAddress, action: ActionVerifyAddress, phrases: []string{
			"invalid address",
			"invalid base58",
		}},
	},
	types.ChainTypeSlotBased: {
		{kind: types.ErrKindInsufficientBalance, action: ActionTopUpBalance, phrases: []string{
			"insufficient lamports",
		}},
		{kind: types.ErrKindExecutionReverted, action: ActionInspectTransaction, phrases: []string{
			"transaction simulation failed",
			"custom program error",
		}},
		{kind: types.ErrKindTxFailed, action: ActionResubmit, phrases: []string{
			"blockhash not found",
			"block height exceeded",
		}},
		{kind: types.ErrKindInvalidAddress, action: ActionVerifyAddress, phrases: []string{
			"invalid base58",
			"invalid public key",
		}},
	},
	types.ChainTypeUtxo: {
		{kind: types.ErrKindTxFailed, action: ActionResubmit, phrases: []string{
			"badinputsutxo",
			"valuenotconserved",
			"outsidevalidityintervalutxo",
		}},
		{kind: types.ErrKindInsufficientBalance, action: ActionTopUpBalance, phrases: []string{
			"utxobalanceinsufficient",
		}},
		{kind: types.ErrKindInvalidAddress, action: ActionVerifyAddress, phrases: []string{
			"invalid bech32",
			"wrong network tag",
		}},
	},
}

// JSON-RPC and EIP-1193 style numeric codes used by account-based chains.
// These take precedence over text matching because the code is explicit.
var accountCodeKinds = map[int]types.ErrorKind{
	4001:   types.ErrKindUserRejected,
	4902:   types.ErrKindRpc, // chain has not been added to the wallet
	429:    types.ErrKindRateLimited,
	-32005: types.ErrKindRateLimited,
	-32000: types.ErrKindRpc,
	-32601: types.ErrKindRpc,
	-32602: types.ErrKindRpc,
	-32603: types.ErrKindRpc,
}

var userMessages = map[types.ErrorKind]string{
	types.ErrKindNetwork:             "network connection problem, please check your connection",
	types.ErrKindTimeout:             "the operation took too long to complete",
	types.ErrKindRpc:                 "the chain endpoint returned an error",
	types.ErrKindRateLimited:         "too many requests, slow down and try again",
	types.ErrKindInsufficientBalance: "balance is too low for this transfer",
	types.ErrKindUserRejected:        "the request was rejected in the wallet",
	types.ErrKindInvalidAddress:      "the recipient address is not valid for this chain",
	types.ErrKindExecutionReverted:   "the transaction was reverted by the chain",
	types.ErrKindNonceTooLow:         "the transaction nonce has already been used",
	types.ErrKindNonceTooHigh:        "a previous transaction is still pending",
	types.ErrKindGasPriceTooLow:      "the network fee is too low for current conditions",
	types.ErrKindTxFailed:            "the transaction failed on chain",
	types.ErrKindUnknown:             "an unexpected error occurred",
}
