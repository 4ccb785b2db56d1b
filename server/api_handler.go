package server

import (
	"context"

	"github.com/argus-network/argus/core"
	"github.com/argus-network/argus/types"
)

type ApiHandler struct {
	processor *core.Processor
}

func NewApi(processor *core.Processor) *ApiHandler {
	return &ApiHandler{
		processor: processor,
	}
}

// Empty function for checking health only.
func (api *ApiHandler) CheckHealth() {
}

// TrackTransaction begins observing a submitted transfer. recipient is
// optional; when present it is validated for the chain's address format.
func (api *ApiHandler) TrackTransaction(chain, txRef, recipient string) (types.TrackedTransaction, error) {
	return api.processor.TrackTransaction(chain, txRef, recipient)
}

func (api *ApiHandler) GetTransaction(chain, txRef string) (types.TrackedTransaction, error) {
	return api.processor.GetTransaction(chain, txRef)
}

func (api *ApiHandler) CancelTracking(chain, txRef string) error {
	return api.processor.CancelTracking(chain, txRef)
}

func (api *ApiHandler) ResetTracking(chain, txRef string) error {
	return api.processor.ResetTracking(chain, txRef)
}

// SetActiveChain records the chain the external signing context points at.
func (api *ApiHandler) SetActiveChain(chain string) {
	api.processor.SetActiveChain(chain)
}

func (api *ApiHandler) RequestSwitch(ctx context.Context, target string) (types.NetworkSwitchRequest, error) {
	return api.processor.RequestSwitch(ctx, target)
}

func (api *ApiHandler) GetSwitchState() types.NetworkSwitchRequest {
	return api.processor.SwitchState()
}

func (api *ApiHandler) ClearValidationError() {
	api.processor.ClearValidationError()
}

func (api *ApiHandler) InitiateSwap(ctx context.Context, params types.SwapParams) (types.SwapOrder, error) {
	return api.processor.InitiateSwap(ctx, params)
}

func (api *ApiHandler) GetSwapOrder(orderID string) (types.SwapOrder, error) {
	return api.processor.GetSwapOrder(orderID)
}

func (api *ApiHandler) CancelSwapOrder(ctx context.Context, orderID string) error {
	return api.processor.CancelSwapOrder(ctx, orderID)
}

func (api *ApiHandler) GetRecentErrors(limit int) ([]*types.ClassifiedError, error) {
	return api.processor.RecentErrors(limit)
}
