package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/argus-network/argus/types"
)

const (
	DefaultTransactionTimeoutMs = 300_000
	DefaultRpcTimeoutMs         = 10_000
	DefaultRetryAttempts        = 3
	DefaultRetryBaseDelayMs     = 1_000
	DefaultRetryMaxDelayMs      = 30_000
	DefaultSwapPollIntervalMs   = 5_000
	DefaultTelemetryCapacity    = 256
)

// TimeoutProfile bounds every waiting behavior for one chain. The retry
// engine and the transaction tracker are parameterized entirely from this
// struct.
type TimeoutProfile struct {
	TransactionTimeoutMs int64 `toml:"transaction_timeout_ms"`
	RpcTimeoutMs         int64 `toml:"rpc_timeout_ms"`
	RetryAttempts        int   `toml:"retry_attempts"`
	RetryBaseDelayMs     int64 `toml:"retry_base_delay_ms"`
	RetryMaxDelayMs      int64 `toml:"retry_max_delay_ms"`
}

// ChainProfile describes one supported chain. Profiles are immutable after
// Load; components receive them by value.
type ChainProfile struct {
	Chain                 string         `toml:"chain"`
	ChainType             string         `toml:"chain_type"`
	BlockTimeSeconds      int            `toml:"block_time_seconds"`
	ConfirmationsRequired int            `toml:"confirmations_required"`
	RpcUrl                string         `toml:"rpc_url"`
	RpcSecret             string         `toml:"rpc_secret"`
	Timeouts              TimeoutProfile `toml:"timeouts"`
}

func (p ChainProfile) Type() types.ChainType {
	return types.ParseChainType(p.ChainType)
}

func (p ChainProfile) BlockTime() time.Duration {
	return time.Duration(p.BlockTimeSeconds) * time.Second
}

func (p ChainProfile) TransactionTimeout() time.Duration {
	return time.Duration(p.Timeouts.TransactionTimeoutMs) * time.Millisecond
}

func (p ChainProfile) RpcTimeout() time.Duration {
	return time.Duration(p.Timeouts.RpcTimeoutMs) * time.Millisecond
}

type Argus struct {
	DbHost     string `toml:"db_host"`
	DbPort     int    `toml:"db_port"`
	DbUsername string `toml:"db_username"`
	DbPassword string `toml:"db_password"`
	DbSchema   string `toml:"db_schema"`
	InMemory   bool   `toml:"in_memory"`

	ServerPort int `toml:"server_port"`

	BridgeUrl          string `toml:"bridge_url"`
	SwapPollIntervalMs int64  `toml:"swap_poll_interval_ms"`

	TelemetryCapacity int `toml:"telemetry_capacity"`

	Chains map[string]ChainProfile `toml:"chains"`
}

// Load reads the service configuration from a toml file and fills in
// defaults for every timeout field left at zero.
func Load(path string) (Argus, error) {
	cfg := Argus{}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	if cfg.SwapPollIntervalMs == 0 {
		cfg.SwapPollIntervalMs = DefaultSwapPollIntervalMs
	}
	if cfg.TelemetryCapacity == 0 {
		cfg.TelemetryCapacity = DefaultTelemetryCapacity
	}

	for name, profile := range cfg.Chains {
		if profile.Chain == "" {
			profile.Chain = name
		}

		if profile.Type() == types.ChainTypeUnknown {
			return cfg, fmt.Errorf("chain %s has unknown chain type %s", name, profile.ChainType)
		}

		profile.Timeouts = withTimeoutDefaults(profile.Timeouts)
		cfg.Chains[name] = profile
	}

	return cfg, nil
}

func withTimeoutDefaults(t TimeoutProfile) TimeoutProfile {
	if t.TransactionTimeoutMs == 0 {
		t.TransactionTimeoutMs = DefaultTransactionTimeoutMs
	}
	if t.RpcTimeoutMs == 0 {
		t.RpcTimeoutMs = DefaultRpcTimeoutMs
	}
	if t.RetryAttempts == 0 {
		t.RetryAttempts = DefaultRetryAttempts
	}
	if t.RetryBaseDelayMs == 0 {
		t.RetryBaseDelayMs = DefaultRetryBaseDelayMs
	}
	if t.RetryMaxDelayMs == 0 {
		t.RetryMaxDelayMs = DefaultRetryMaxDelayMs
	}

	return t
}
