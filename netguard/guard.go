package netguard

import (
	"context"
	"fmt"
	"sync"

	"github.com/sisu-network/lib/log"

	"github.com/argus-network/argus/chains"
	"github.com/argus-network/argus/classify"
	"github.com/argus-network/argus/config"
	"github.com/argus-network/argus/telemetry"
	"github.com/argus-network/argus/types"
)

// IsMismatch reports whether the active context needs a switch before the
// required chain can be used.
func IsMismatch(current, required string) bool {
	return required != "" && current != required
}

// Guard mediates active-context/required-chain mismatches for one context.
// Switch attempts are serialized so an external wallet is never prompted
// twice for the same context. Validation errors (unsupported target, no
// active context) are sticky: they survive the mismatch disappearing and are
// only cleared by a successful switch or an explicit caller action.
type Guard struct {
	profiles   map[string]config.ChainProfile
	switcher   chains.Switcher
	classifier *classify.Classifier
	sink       telemetry.Sink

	lock          *sync.Mutex
	current       string
	req           types.NetworkSwitchRequest
	validationErr *types.ClassifiedError
}

func NewGuard(profiles map[string]config.ChainProfile, switcher chains.Switcher,
	classifier *classify.Classifier, sink telemetry.Sink) *Guard {
	return &Guard{
		profiles:   profiles,
		switcher:   switcher,
		classifier: classifier,
		sink:       sink,
		lock:       &sync.Mutex{},
		req:        types.NetworkSwitchRequest{State: types.SwitchStateIdle},
	}
}

// SetActiveChain records the chain the external context currently points at.
func (g *Guard) SetActiveChain(chain string) {
	g.lock.Lock()
	defer g.lock.Unlock()

	g.current = chain
}

func (g *Guard) ActiveChain() string {
	g.lock.Lock()
	defer g.lock.Unlock()

	return g.current
}

// Mismatch reports whether required differs from the active context chain.
func (g *Guard) Mismatch(required string) bool {
	g.lock.Lock()
	defer g.lock.Unlock()

	return IsMismatch(g.current, required)
}

// RequestSwitch asks the context-switch collaborator to move to target. The
// switch itself completes asynchronously; the returned snapshot reflects the
// state at return time. A second call while a switch is in flight returns the
// existing request without prompting the collaborator again.
func (g *Guard) RequestSwitch(ctx context.Context, target string) (types.NetworkSwitchRequest, error) {
	g.lock.Lock()

	if g.req.State == types.SwitchStateSwitching || g.req.State == types.SwitchStateConfirming {
		snapshot := g.req
		g.lock.Unlock()

		return snapshot, g.classifier.SwitchInProgress(target)
	}

	profile, known := g.profiles[target]
	if target == "" || !known {
		ce := g.classifier.Classify(fmt.Errorf("chain not added: unsupported target chain %q", target),
			config.ChainProfile{Chain: target, ChainType: types.ChainTypeAccountBased.String()})
		g.validationErr = ce
		g.req = types.NetworkSwitchRequest{
			CurrentChain:  g.current,
			RequiredChain: target,
			IsMismatch:    IsMismatch(g.current, target),
			State:         types.SwitchStateFailed,
			LastError:     ce,
		}
		snapshot := g.req
		g.lock.Unlock()

		g.sink.Record(ce, nil)
		return snapshot, ce
	}

	if g.current == "" {
		ce := g.classifier.ForKind(types.ErrKindUnknown, profile, "no active context to switch from")
		g.validationErr = ce
		snapshot := g.req
		g.lock.Unlock()

		g.sink.Record(ce, nil)
		return snapshot, ce
	}

	g.req = types.NetworkSwitchRequest{
		CurrentChain:  g.current,
		RequiredChain: target,
		IsMismatch:    IsMismatch(g.current, target),
		State:         types.SwitchStateSwitching,
	}
	snapshot := g.req
	g.lock.Unlock()

	go g.doSwitch(ctx, target, profile)

	return snapshot, nil
}

func (g *Guard) doSwitch(ctx context.Context, target string, profile config.ChainProfile) {
	callCtx, cancel := context.WithTimeout(ctx, profile.RpcTimeout())
	defer cancel()

	err := g.switcher.SwitchActiveChain(callCtx, target)

	g.lock.Lock()
	defer g.lock.Unlock()

	if err != nil {
		ce := g.classifier.Classify(err, profile)
		g.req.State = types.SwitchStateFailed
		g.req.LastError = ce
		g.sink.Record(ce, err)

		log.Warnf("Switching context to chain %s failed: %v", target, err)
		return
	}

	g.current = target
	g.req.State = types.SwitchStateSucceeded
	g.req.IsMismatch = false

	// An explicit successful switch clears the sticky validation error.
	g.validationErr = nil

	log.Verbosef("Active context switched to chain %s", target)
}

// Snapshot returns the most recent switch request state.
func (g *Guard) Snapshot() types.NetworkSwitchRequest {
	g.lock.Lock()
	defer g.lock.Unlock()

	return g.req
}

// ValidationError returns the sticky validation error, if any. It is not
// cleared by the mismatch disappearing.
func (g *Guard) ValidationError() *types.ClassifiedError {
	g.lock.Lock()
	defer g.lock.Unlock()

	return g.validationErr
}

// ClearValidationError is the explicit caller action that drops the sticky
// validation error.
func (g *Guard) ClearValidationError() {
	g.lock.Lock()
	defer g.lock.Unlock()

	g.validationErr = nil
}
