package types

type SwitchState string

const (
	SwitchStateIdle       SwitchState = "idle"
	SwitchStateSwitching  SwitchState = "switching"
	SwitchStateConfirming SwitchState = "confirming"
	SwitchStateSucceeded  SwitchState = "succeeded"
	SwitchStateFailed     SwitchState = "failed"
)

// NetworkSwitchRequest is a snapshot of one active-context switch attempt.
type NetworkSwitchRequest struct {
	CurrentChain  string
	RequiredChain string
	IsMismatch    bool
	State         SwitchState

	LastError *ClassifiedError
}
