package swap

import (
	"context"
	"sync"
	"time"

	"github.com/sisu-network/lib/log"

	"github.com/argus-network/argus/bridge"
	"github.com/argus-network/argus/classify"
	"github.com/argus-network/argus/config"
	"github.com/argus-network/argus/retry"
	"github.com/argus-network/argus/telemetry"
	"github.com/argus-network/argus/types"
)

const DefaultPollInterval = 5 * time.Second

// bridgeProfile is the synthetic profile used to classify bridging-service
// errors; the bridge is not a chain, so only the common pattern tables apply.
var bridgeProfile = config.ChainProfile{
	Chain: "bridge",
	Timeouts: config.TimeoutProfile{
		RpcTimeoutMs:     config.DefaultRpcTimeoutMs,
		RetryAttempts:    2,
		RetryBaseDelayMs: 500,
		RetryMaxDelayMs:  5_000,
	},
}

type orderState struct {
	order  types.SwapOrder
	stopCh chan struct{}
}

// Poller tracks cross-chain orders against the bridging service. Each order
// runs its own polling loop that stops as soon as the remote status turns
// terminal or the caller cancels.
type Poller struct {
	client     bridge.Client
	classifier *classify.Classifier
	engine     *retry.Engine
	sink       telemetry.Sink
	interval   time.Duration

	lock   *sync.Mutex
	orders map[string]*orderState
}

func NewPoller(client bridge.Client, classifier *classify.Classifier, sink telemetry.Sink,
	interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Poller{
		client:     client,
		classifier: classifier,
		engine:     retry.NewEngine(bridgeProfile, classifier),
		sink:       sink,
		interval:   interval,
		lock:       &sync.Mutex{},
		orders:     make(map[string]*orderState),
	}
}

// Initiate opens an order with the bridging service and starts polling its
// status.
func (p *Poller) Initiate(ctx context.Context, params types.SwapParams) (types.SwapOrder, error) {
	order, err := p.client.InitiateOrder(ctx, params)
	if err != nil {
		ce := p.classifier.Classify(err, bridgeProfile)
		p.sink.Record(ce, err)
		return types.SwapOrder{}, ce
	}

	if order.Status == "" {
		order.Status = types.SwapStatusPending
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}

	state := &orderState{
		order:  *order,
		stopCh: make(chan struct{}),
	}

	p.lock.Lock()
	p.orders[order.OrderID] = state
	p.lock.Unlock()

	go p.pollLoop(order.OrderID, state.stopCh, p.orderInterval(*order))

	log.Infof("Initiated swap order %s from chain %s to chain %s", order.OrderID,
		order.SourceChain, order.DestChain)

	return *order, nil
}

// Cancel stops tracking the order and force-sets its status to Cancelled,
// whether or not the bridging service acknowledges the cancel request.
func (p *Poller) Cancel(ctx context.Context, orderID string) error {
	p.lock.Lock()
	state, ok := p.orders[orderID]
	if ok && state.stopCh != nil {
		close(state.stopCh)
		state.stopCh = nil
	}
	if ok {
		state.order.Status = types.SwapStatusCancelled
	}
	p.lock.Unlock()

	if err := p.client.CancelOrder(ctx, orderID); err != nil {
		ce := p.classifier.Classify(err, bridgeProfile)
		p.sink.Record(ce, err)
		log.Warnf("Bridge did not acknowledge cancel for order %s: %v", orderID, err)
	}

	return nil
}

// Order returns a snapshot of a tracked order.
func (p *Poller) Order(orderID string) (types.SwapOrder, bool) {
	p.lock.Lock()
	defer p.lock.Unlock()

	state, ok := p.orders[orderID]
	if !ok {
		return types.SwapOrder{}, false
	}

	return state.order, true
}

func (p *Poller) orderInterval(order types.SwapOrder) time.Duration {
	if order.PollIntervalMs > 0 {
		return time.Duration(order.PollIntervalMs) * time.Millisecond
	}

	return p.interval
}

func (p *Poller) pollLoop(orderID string, stopCh chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if p.pollOnce(orderID) {
				return
			}
		}
	}
}

// pollOnce fetches the remote order status once (with bounded retries) and
// returns true when the loop should stop.
func (p *Poller) pollOnce(orderID string) bool {
	var remote *types.SwapOrder

	err := p.engine.Execute(context.Background(), retry.PolicyFromProfile(bridgeProfile),
		func(ctx context.Context) error {
			callCtx, cancel := context.WithTimeout(ctx, bridgeProfile.RpcTimeout())
			defer cancel()

			order, err := p.client.GetOrderStatus(callCtx, orderID)
			if err != nil {
				return err
			}

			remote = order
			return nil
		}, nil)

	p.lock.Lock()
	defer p.lock.Unlock()

	state, ok := p.orders[orderID]
	if !ok || state.order.Status.IsTerminal() {
		return true
	}

	if err != nil {
		ce := p.classifier.Classify(err, bridgeProfile)
		state.order.LastError = ce
		p.sink.Record(ce, err)

		log.Verbosef("Swap order %s status poll failed, will retry: %v", orderID, err)
		return false
	}

	state.order.Status = remote.Status
	if remote.SourceChain != "" {
		state.order.SourceChain = remote.SourceChain
	}
	if remote.DestChain != "" {
		state.order.DestChain = remote.DestChain
	}

	if state.order.Status.IsTerminal() {
		log.Infof("Swap order %s reached terminal status %s", orderID, state.order.Status)

		if state.stopCh != nil {
			close(state.stopCh)
			state.stopCh = nil
		}
		return true
	}

	return false
}
