package tron

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/argus-network/argus/config"
	"github.com/argus-network/argus/types"
)

func testProfile() config.ChainProfile {
	return config.ChainProfile{
		Chain:                 "tron",
		ChainType:             "resource_metered",
		BlockTimeSeconds:      3,
		ConfirmationsRequired: 19,
		Timeouts:              config.TimeoutProfile{RpcTimeoutMs: 1000},
	}
}

func rpcFixture(t *testing.T, txInfoJson string, headNumber int64) *MockRPCClient {
	t.Helper()

	return &MockRPCClient{
		CallForFunc: func(ctx context.Context, out interface{}, method string, params ...interface{}) error {
			switch method {
			case "gettransactioninfobyid":
				return json.Unmarshal([]byte(txInfoJson), out)
			case "getnowblock":
				head := fmt.Sprintf(`{"block_header":{"raw_data":{"number":%d}}}`, headNumber)
				return json.Unmarshal([]byte(head), out)
			default:
				return fmt.Errorf("unexpected method %s", method)
			}
		},
	}
}

func TestPoller_Confirmed(t *testing.T) {
	client := rpcFixture(t, `{"id":"a1","blockNumber":100,"receipt":{"result":"SUCCESS"}}`, 120)
	poller := NewPollerWithClient(testProfile(), client)

	result, err := poller.GetTransactionStatus(context.Background(), "a1")
	require.Nil(t, err)
	require.Equal(t, types.RemoteStatusConfirmed, result.Status)
	require.Equal(t, 21, result.Confirmations)
	require.Equal(t, "100", result.BlockRef)
}

func TestPoller_StillConfirming(t *testing.T) {
	client := rpcFixture(t, `{"id":"a1","blockNumber":100,"receipt":{"result":"SUCCESS"}}`, 105)
	poller := NewPollerWithClient(testProfile(), client)

	result, err := poller.GetTransactionStatus(context.Background(), "a1")
	require.Nil(t, err)
	require.Equal(t, types.RemoteStatusPending, result.Status)
	require.Equal(t, 6, result.Confirmations)
}

func TestPoller_NotSeenYet(t *testing.T) {
	client := rpcFixture(t, `{}`, 105)
	poller := NewPollerWithClient(testProfile(), client)

	result, err := poller.GetTransactionStatus(context.Background(), "a1")
	require.Nil(t, err)
	require.Equal(t, types.RemoteStatusPending, result.Status)
	require.Equal(t, 0, result.Confirmations)
}

func TestPoller_OutOfEnergy(t *testing.T) {
	client := rpcFixture(t,
		`{"id":"a1","blockNumber":100,"receipt":{"result":"OUT_OF_ENERGY"},"resMessage":"Not enough energy"}`, 120)
	poller := NewPollerWithClient(testProfile(), client)

	result, err := poller.GetTransactionStatus(context.Background(), "a1")
	require.Nil(t, err)
	require.Equal(t, types.RemoteStatusFailed, result.Status)
	require.Contains(t, result.Reason, "OUT_OF_ENERGY")
	require.Contains(t, result.Reason, "Not enough energy")
}

func TestPoller_PlainTransferHasNoReceiptResult(t *testing.T) {
	client := rpcFixture(t, `{"id":"a1","blockNumber":100,"receipt":{"result":""}}`, 200)
	poller := NewPollerWithClient(testProfile(), client)

	result, err := poller.GetTransactionStatus(context.Background(), "a1")
	require.Nil(t, err)
	require.Equal(t, types.RemoteStatusConfirmed, result.Status)
}

func TestPoller_RpcError(t *testing.T) {
	client := &MockRPCClient{
		CallForFunc: func(ctx context.Context, out interface{}, method string, params ...interface{}) error {
			return fmt.Errorf("connection refused")
		},
	}
	poller := NewPollerWithClient(testProfile(), client)

	_, err := poller.GetTransactionStatus(context.Background(), "a1")
	require.NotNil(t, err)
}
