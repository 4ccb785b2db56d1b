package types

// ChainType is the ledger model category of a chain. It decides which
// observation model (push receipt vs pull polling) and which error pattern
// table apply to a chain.
type ChainType string

const (
	ChainTypeAccountBased    ChainType = "account_based"
	ChainTypeResourceMetered ChainType = "resource_metered"
	ChainTypeSlotBased       ChainType = "slot_based"
	ChainTypeUtxo            ChainType = "utxo"
	ChainTypeUnknown         ChainType = "unknown"
)

func (t ChainType) String() string {
	return string(t)
}

func ParseChainType(s string) ChainType {
	switch s {
	case ChainTypeAccountBased.String():
		return ChainTypeAccountBased
	case ChainTypeResourceMetered.String():
		return ChainTypeResourceMetered
	case ChainTypeSlotBased.String():
		return ChainTypeSlotBased
	case ChainTypeUtxo.String():
		return ChainTypeUtxo
	default:
		return ChainTypeUnknown
	}
}
