package utils

import (
	"fmt"

	"github.com/echovl/cardano-go"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"

	"github.com/argus-network/argus/types"
)

const (
	solanaAddressLen = 32

	tronAddressLen    = 25
	tronAddressPrefix = 0x41
)

// ValidateAddress checks that an address is well formed for its chain family.
// It is a local check only and never touches the network, so a transfer to a
// malformed recipient can be refused before anything is signed.
func ValidateAddress(chainType types.ChainType, address string) error {
	if address == "" {
		return fmt.Errorf("invalid address: empty recipient")
	}

	switch chainType {
	case types.ChainTypeAccountBased:
		if !common.IsHexAddress(address) {
			return fmt.Errorf("invalid address %s: not a hex account address", address)
		}
	case types.ChainTypeResourceMetered:
		decoded, err := base58.Decode(address)
		if err != nil {
			return fmt.Errorf("invalid base58 address %s: %w", address, err)
		}
		if len(decoded) != tronAddressLen || decoded[0] != tronAddressPrefix {
			return fmt.Errorf("invalid address %s: malformed base58check payload", address)
		}
	case types.ChainTypeSlotBased:
		decoded, err := base58.Decode(address)
		if err != nil {
			return fmt.Errorf("invalid base58 address %s: %w", address, err)
		}
		if len(decoded) != solanaAddressLen {
			return fmt.Errorf("invalid address %s: want %d byte public key, got %d",
				address, solanaAddressLen, len(decoded))
		}
	case types.ChainTypeUtxo:
		if _, err := cardano.NewAddress(address); err != nil {
			return fmt.Errorf("invalid bech32 address %s: %w", address, err)
		}
	default:
		return fmt.Errorf("unknown chain type %s", chainType)
	}

	return nil
}
