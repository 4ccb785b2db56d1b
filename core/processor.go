package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
	"github.com/sisu-network/lib/log"

	"github.com/argus-network/argus/bridge"
	"github.com/argus-network/argus/chains"
	"github.com/argus-network/argus/chains/cardano"
	"github.com/argus-network/argus/chains/eth"
	"github.com/argus-network/argus/chains/solana"
	"github.com/argus-network/argus/chains/tron"
	"github.com/argus-network/argus/classify"
	"github.com/argus-network/argus/config"
	"github.com/argus-network/argus/database"
	"github.com/argus-network/argus/netguard"
	"github.com/argus-network/argus/swap"
	"github.com/argus-network/argus/telemetry"
	"github.com/argus-network/argus/tracker"
	"github.com/argus-network/argus/types"
	"github.com/argus-network/argus/utils"
)

const finishedCacheSize = 1024

// Processor is the entry point of the resilience layer. It owns one tracker
// per in-flight transfer, the network guard and the swap poller, and persists
// every verdict through the database.
type Processor struct {
	cfg        config.Argus
	db         database.Database
	classifier *classify.Classifier
	sink       telemetry.Sink

	guard      *netguard.Guard
	swapPoller *swap.Poller

	receiptWaiters map[string]chains.ReceiptWaiter
	statusPollers  map[string]chains.StatusPoller

	lock     *sync.Mutex
	trackers map[string]*tracker.TxTracker
	// Terminal snapshots of recently finished transfers, so GetTransaction
	// stays cheap after the tracker is gone.
	finished *lru.Cache
}

func NewProcessor(
	cfg *config.Argus,
	db database.Database,
	switcher chains.Switcher,
	bridgeClient bridge.Client,
	sink telemetry.Sink,
) *Processor {
	classifier := classify.NewClassifier()

	profiles := make(map[string]config.ChainProfile)
	for name, profile := range cfg.Chains {
		profiles[name] = profile
	}

	return &Processor{
		cfg:        *cfg,
		db:         db,
		classifier: classifier,
		sink:       sink,
		guard:      netguard.NewGuard(profiles, switcher, classifier, sink),
		swapPoller: swap.NewPoller(bridgeClient, classifier, sink,
			time.Duration(cfg.SwapPollIntervalMs)*time.Millisecond),
		receiptWaiters: make(map[string]chains.ReceiptWaiter),
		statusPollers:  make(map[string]chains.StatusPoller),
		lock:           &sync.Mutex{},
		trackers:       make(map[string]*tracker.TxTracker),
		finished:       lru.New(finishedCacheSize),
	}
}

// Start builds one observation collaborator per configured chain.
func (p *Processor) Start() {
	log.Info("Starting transfer processor...")

	for name, profile := range p.cfg.Chains {
		log.Info("Supported chain and config: ", name, profile)

		switch profile.Type() {
		case types.ChainTypeAccountBased:
			client, err := eth.Dial(profile.RpcUrl)
			if err != nil {
				log.Errorf("Cannot dial rpc for chain %s: %v", name, err)
				continue
			}
			p.receiptWaiters[name] = eth.NewReceiptWaiter(profile, client)

		case types.ChainTypeResourceMetered:
			p.statusPollers[name] = tron.NewPoller(profile)

		case types.ChainTypeSlotBased:
			p.statusPollers[name] = solana.NewPoller(profile)

		case types.ChainTypeUtxo:
			p.statusPollers[name] = cardano.NewPoller(profile)
		}
	}
}

// Stop cancels every live tracker.
func (p *Processor) Stop() {
	p.lock.Lock()
	defer p.lock.Unlock()

	for _, t := range p.trackers {
		t.Cancel()
	}
	p.trackers = make(map[string]*tracker.TxTracker)
}

// TrackTransaction begins observing a submitted transfer. When recipient is
// not empty it is validated for the chain's address format first, so a
// malformed recipient is refused before any tracking starts.
func (p *Processor) TrackTransaction(chain, txRef, recipient string) (types.TrackedTransaction, error) {
	profile, ok := p.cfg.Chains[chain]
	if !ok {
		return types.TrackedTransaction{}, p.unknownChain(chain)
	}

	if recipient != "" {
		if err := utils.ValidateAddress(profile.Type(), recipient); err != nil {
			ce := p.classifier.Classify(err, profile)
			p.sink.Record(ce, err)
			return types.TrackedTransaction{}, ce
		}
	}

	waiter := p.receiptWaiters[chain]
	poller := p.statusPollers[chain]
	if waiter == nil && poller == nil {
		ce := p.classifier.ForKind(types.ErrKindNetwork, profile,
			fmt.Sprintf("no observation client available for chain %s", chain))
		return types.TrackedTransaction{}, ce
	}

	key := trackKey(chain, txRef)

	p.lock.Lock()
	if existing, ok := p.trackers[key]; ok {
		p.lock.Unlock()
		return existing.Snapshot(), nil
	}
	p.lock.Unlock()

	t := tracker.NewTxTracker(txRef, profile, p.classifier, p.sink, waiter, poller,
		tracker.Callbacks{
			OnConfirmed: p.onTerminal(key),
			OnFailed:    p.onTerminal(key),
			OnTimeout:   p.onTerminal(key),
		})

	p.lock.Lock()
	p.trackers[key] = t
	p.lock.Unlock()

	t.Start()

	return t.Snapshot(), nil
}

// GetTransaction returns the live snapshot of a tracked transfer, or its
// terminal verdict when tracking already finished.
func (p *Processor) GetTransaction(chain, txRef string) (types.TrackedTransaction, error) {
	key := trackKey(chain, txRef)

	p.lock.Lock()
	if t, ok := p.trackers[key]; ok {
		p.lock.Unlock()
		return t.Snapshot(), nil
	}
	if cached, ok := p.finished.Get(key); ok {
		p.lock.Unlock()
		return cached.(types.TrackedTransaction), nil
	}
	p.lock.Unlock()

	stored, err := p.db.LoadOutcome(chain, txRef)
	if err != nil {
		return types.TrackedTransaction{}, err
	}
	if stored != nil {
		return *stored, nil
	}

	return types.TrackedTransaction{}, fmt.Errorf("transaction %s on chain %s is not tracked", txRef, chain)
}

// CancelTracking stops observing a transfer without recording a verdict.
func (p *Processor) CancelTracking(chain, txRef string) error {
	key := trackKey(chain, txRef)

	p.lock.Lock()
	t, ok := p.trackers[key]
	delete(p.trackers, key)
	p.lock.Unlock()

	if !ok {
		return fmt.Errorf("transaction %s on chain %s is not tracked", txRef, chain)
	}

	t.Cancel()
	return nil
}

// ResetTracking restarts observation of a transfer from Pending, re-arming
// its timeout deadline.
func (p *Processor) ResetTracking(chain, txRef string) error {
	p.lock.Lock()
	t, ok := p.trackers[trackKey(chain, txRef)]
	p.lock.Unlock()

	if !ok {
		return fmt.Errorf("transaction %s on chain %s is not tracked", txRef, chain)
	}

	t.Reset()
	return nil
}

// SetActiveChain records the chain the external signing context points at.
func (p *Processor) SetActiveChain(chain string) {
	p.guard.SetActiveChain(chain)
}

// RequestSwitch asks the guard to move the active context to target.
func (p *Processor) RequestSwitch(ctx context.Context, target string) (types.NetworkSwitchRequest, error) {
	return p.guard.RequestSwitch(ctx, target)
}

// SwitchState returns the latest network switch request snapshot.
func (p *Processor) SwitchState() types.NetworkSwitchRequest {
	return p.guard.Snapshot()
}

// ValidationError exposes the guard's sticky validation error, if any.
func (p *Processor) ValidationError() *types.ClassifiedError {
	return p.guard.ValidationError()
}

func (p *Processor) ClearValidationError() {
	p.guard.ClearValidationError()
}

// InitiateSwap opens a cross-chain order. Both endpoints must be configured
// chains and the recipient must be valid for the destination chain.
func (p *Processor) InitiateSwap(ctx context.Context, params types.SwapParams) (types.SwapOrder, error) {
	if _, ok := p.cfg.Chains[params.SourceChain]; !ok {
		return types.SwapOrder{}, p.unknownChain(params.SourceChain)
	}
	dest, ok := p.cfg.Chains[params.DestChain]
	if !ok {
		return types.SwapOrder{}, p.unknownChain(params.DestChain)
	}

	if params.Recipient != "" {
		if err := utils.ValidateAddress(dest.Type(), params.Recipient); err != nil {
			ce := p.classifier.Classify(err, dest)
			p.sink.Record(ce, err)
			return types.SwapOrder{}, ce
		}
	}

	return p.swapPoller.Initiate(ctx, params)
}

// GetSwapOrder returns the tracked state of a cross-chain order.
func (p *Processor) GetSwapOrder(orderID string) (types.SwapOrder, error) {
	order, ok := p.swapPoller.Order(orderID)
	if !ok {
		return types.SwapOrder{}, fmt.Errorf("swap order %s is not tracked", orderID)
	}

	return order, nil
}

// CancelSwapOrder force-cancels an order locally whether or not the bridging
// service acknowledges the request.
func (p *Processor) CancelSwapOrder(ctx context.Context, orderID string) error {
	return p.swapPoller.Cancel(ctx, orderID)
}

// RecentErrors returns the most recently persisted classified errors.
func (p *Processor) RecentErrors(limit int) ([]*types.ClassifiedError, error) {
	return p.db.LoadRecentErrors(limit)
}

// onTerminal returns the callback recording a transfer verdict. The tracker
// guarantees it fires at most once per lifecycle.
func (p *Processor) onTerminal(key string) func(tx types.TrackedTransaction) {
	return func(tx types.TrackedTransaction) {
		p.db.SaveOutcome(&tx)

		p.lock.Lock()
		p.finished.Add(key, tx)
		delete(p.trackers, key)
		p.lock.Unlock()
	}
}

func (p *Processor) unknownChain(chain string) *types.ClassifiedError {
	ce := p.classifier.Classify(fmt.Errorf("chain not added: unsupported chain %q", chain),
		config.ChainProfile{Chain: chain, ChainType: types.ChainTypeAccountBased.String()})
	p.sink.Record(ce, nil)

	return ce
}

func trackKey(chain, txRef string) string {
	return chain + ":" + txRef
}
