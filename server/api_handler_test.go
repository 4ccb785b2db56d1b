package server

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/argus-network/argus/bridge"
	"github.com/argus-network/argus/chains"
	"github.com/argus-network/argus/config"
	"github.com/argus-network/argus/core"
	"github.com/argus-network/argus/database"
	"github.com/argus-network/argus/telemetry"
	"github.com/argus-network/argus/types"
)

func testApi() *ApiHandler {
	cfg := &config.Argus{
		Chains: map[string]config.ChainProfile{
			"eth": {Chain: "eth", ChainType: "account_based"},
		},
	}

	processor := core.NewProcessor(cfg, &database.MockDb{}, &chains.MockSwitcher{},
		&bridge.MockClient{}, telemetry.NopSink{})

	return NewApi(processor)
}

func TestApi_TrackUnknownChain(t *testing.T) {
	api := testApi()

	_, err := api.TrackTransaction("dogecoin", "0xabc", "")
	require.NotNil(t, err)

	ce, ok := err.(*types.ClassifiedError)
	require.True(t, ok)
	require.Equal(t, types.ErrKindRpc, ce.Kind)
}

func TestApi_GetSwitchStateStartsIdle(t *testing.T) {
	api := testApi()

	state := api.GetSwitchState()
	require.Equal(t, types.SwitchStateIdle, state.State)
}
