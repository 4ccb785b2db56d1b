package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/argus-network/argus/config"
	"github.com/argus-network/argus/types"
)

func TestLoadConfig(t *testing.T) {
	s := `db_host = "localhost"
db_port = 3306
server_port = 31001
bridge_url = "http://localhost:9000"

[chains]
	[chains.eth]
	chain_type = "account_based"
	block_time_seconds = 12
	confirmations_required = 3
	rpc_url = "http://localhost:8545"

	[chains.solana-devnet]
	chain_type = "slot_based"
	block_time_seconds = 1
	confirmations_required = 32
	rpc_url = "http://localhost:8899"

	[chains.solana-devnet.timeouts]
	transaction_timeout_ms = 60000
	retry_attempts = 5
`

	dir := t.TempDir()
	path := filepath.Join(dir, "argus.toml")
	require.Nil(t, os.WriteFile(path, []byte(s), 0600))

	cfg, err := config.Load(path)
	require.Nil(t, err)
	require.Equal(t, 2, len(cfg.Chains))

	eth := cfg.Chains["eth"]
	require.Equal(t, "eth", eth.Chain)
	require.Equal(t, types.ChainTypeAccountBased, eth.Type())
	require.Equal(t, 3, eth.ConfirmationsRequired)

	// Unset timeouts get defaults.
	require.Equal(t, int64(config.DefaultTransactionTimeoutMs), eth.Timeouts.TransactionTimeoutMs)
	require.Equal(t, config.DefaultRetryAttempts, eth.Timeouts.RetryAttempts)

	sol := cfg.Chains["solana-devnet"]
	require.Equal(t, int64(60000), sol.Timeouts.TransactionTimeoutMs)
	require.Equal(t, 5, sol.Timeouts.RetryAttempts)
	require.Equal(t, int64(config.DefaultRpcTimeoutMs), sol.Timeouts.RpcTimeoutMs)

	require.Equal(t, int64(config.DefaultSwapPollIntervalMs), cfg.SwapPollIntervalMs)
}

func TestLoadConfig_UnknownChainType(t *testing.T) {
	s := `[chains]
	[chains.mystery]
	chain_type = "sharded"
	block_time_seconds = 2
`

	dir := t.TempDir()
	path := filepath.Join(dir, "argus.toml")
	require.Nil(t, os.WriteFile(path, []byte(s), 0600))

	_, err := config.Load(path)
	require.NotNil(t, err)
}
