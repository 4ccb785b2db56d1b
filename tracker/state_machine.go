package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/sisu-network/lib/log"

	"github.com/argus-network/argus/chains"
	"github.com/argus-network/argus/classify"
	"github.com/argus-network/argus/config"
	"github.com/argus-network/argus/retry"
	"github.com/argus-network/argus/telemetry"
	"github.com/argus-network/argus/types"
)

const MinPollInterval = 2 * time.Second

// Callbacks fire on terminal transitions. At most one of them fires, exactly
// once, per tracking lifecycle.
type Callbacks struct {
	OnConfirmed func(tx types.TrackedTransaction)
	OnFailed    func(tx types.TrackedTransaction)
	OnTimeout   func(tx types.TrackedTransaction)
}

// TxTracker drives one transfer from Pending to a terminal state. Account
// based chains are observed through a push receipt; every other chain type
// through a polling loop. The timeout deadline is armed independently of
// either mechanism so a stalled collaborator cannot extend the tracked
// lifetime.
type TxTracker struct {
	profile    config.ChainProfile
	classifier *classify.Classifier
	engine     *retry.Engine
	sink       telemetry.Sink
	receipts   chains.ReceiptWaiter
	poller     chains.StatusPoller
	callbacks  Callbacks

	// The tracked reference never changes for the lifetime of a tracker, so
	// observation goroutines read it without the lock.
	txRef string

	pollInterval time.Duration

	lock         *sync.Mutex
	tx           types.TrackedTransaction
	timeoutTimer *time.Timer
	stopCh       chan struct{}
	cancelWait   context.CancelFunc
	running      bool
	// gen identifies the current Start..stop lifecycle. Goroutines carry the
	// gen they were spawned with; a result from an older lifecycle is ignored.
	gen uint64
}

// NewTxTracker builds a tracker for txRef on the profile's chain. Exactly one
// of receipts/poller is consulted, depending on the chain type.
func NewTxTracker(txRef string, profile config.ChainProfile, classifier *classify.Classifier,
	sink telemetry.Sink, receipts chains.ReceiptWaiter, poller chains.StatusPoller,
	callbacks Callbacks) *TxTracker {
	interval := profile.BlockTime()
	if interval < MinPollInterval {
		interval = MinPollInterval
	}

	return &TxTracker{
		profile:      profile,
		classifier:   classifier,
		engine:       retry.NewEngine(profile, classifier),
		sink:         sink,
		receipts:     receipts,
		poller:       poller,
		callbacks:    callbacks,
		txRef:        txRef,
		pollInterval: interval,
		lock:         &sync.Mutex{},
		tx: types.TrackedTransaction{
			Reference:             txRef,
			Chain:                 profile.Chain,
			Status:                types.TxStatusPending,
			RequiredConfirmations: profile.ConfirmationsRequired,
		},
	}
}

// Start arms the timeout deadline and begins observation. Calling Start on a
// tracker that is already running is a no-op.
func (t *TxTracker) Start() {
	t.lock.Lock()
	if t.running {
		t.lock.Unlock()
		return
	}

	t.running = true
	t.gen++
	gen := t.gen
	t.tx.Status = types.TxStatusPending
	t.tx.StartedAt = time.Now()
	t.stopCh = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	t.cancelWait = cancel

	// One timeout timer per tracked transaction, disarmed on any terminal
	// transition.
	t.timeoutTimer = time.AfterFunc(t.profile.TransactionTimeout(), func() {
		t.onDeadline(gen)
	})
	t.lock.Unlock()

	log.Verbosef("Tracking tx %s on chain %s", t.txRef, t.profile.Chain)

	if t.profile.Type() == types.ChainTypeAccountBased {
		go t.waitForReceipt(ctx, gen)
	} else {
		go t.pollLoop(ctx, gen)
	}
}

// Cancel synchronously disarms the timers and stops the observation loops.
// No callback fires after Cancel returns.
func (t *TxTracker) Cancel() {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.stopLocked()
}

// Reset clears all derived fields and re-arms tracking from Pending. Only the
// caller uses this, typically after a terminal state to resubmit.
func (t *TxTracker) Reset() {
	t.lock.Lock()
	t.stopLocked()
	t.tx = types.TrackedTransaction{
		Reference:             t.txRef,
		Chain:                 t.profile.Chain,
		Status:                types.TxStatusPending,
		RequiredConfirmations: t.profile.ConfirmationsRequired,
	}
	t.lock.Unlock()

	t.Start()
}

// Snapshot returns the current view of the tracked transaction. On push-model
// chains the confirmation count of a non-terminal transfer is estimated from
// elapsed time for display only.
func (t *TxTracker) Snapshot() types.TrackedTransaction {
	t.lock.Lock()
	defer t.lock.Unlock()

	tx := t.tx
	if !tx.Status.IsTerminal() && t.profile.Type() == types.ChainTypeAccountBased && t.running {
		elapsed := time.Since(tx.StartedAt).Milliseconds()
		tx.Confirmations = EstimateConfirmations(t.profile, elapsed)
	}

	if !tx.Status.IsTerminal() {
		tx.ProgressPercent, tx.EstimatedTimeLeftMs = Progress(t.profile, tx.Confirmations)
	}

	return tx
}

func (t *TxTracker) stopLocked() {
	if t.timeoutTimer != nil {
		t.timeoutTimer.Stop()
		t.timeoutTimer = nil
	}
	if t.cancelWait != nil {
		t.cancelWait()
		t.cancelWait = nil
	}
	if t.stopCh != nil {
		close(t.stopCh)
		t.stopCh = nil
	}

	t.running = false
}

func (t *TxTracker) onDeadline(gen uint64) {
	ce := t.classifier.ForKind(types.ErrKindTimeout, t.profile, "transaction timeout deadline reached")
	t.transition(gen, types.TxStatusTimedOut, ce, -1, "")
}

// transition moves the machine to a terminal state. Returns false when the
// machine was already terminal, or when gen belongs to a lifecycle that was
// cancelled or reset in the meantime; this is what makes callbacks fire
// exactly once and never after Cancel has returned.
func (t *TxTracker) transition(gen uint64, status types.TxStatus, ce *types.ClassifiedError,
	confirmations int, blockRef string) bool {
	t.lock.Lock()
	if !t.running || gen != t.gen || t.tx.Status.IsTerminal() {
		t.lock.Unlock()
		return false
	}

	t.tx.Status = status
	t.tx.LastError = ce
	if blockRef != "" {
		t.tx.BlockRef = blockRef
	}
	if confirmations >= 0 {
		t.tx.Confirmations = confirmations
		if t.tx.Confirmations > t.tx.RequiredConfirmations {
			t.tx.Confirmations = t.tx.RequiredConfirmations
		}
	}

	if status == types.TxStatusConfirmed {
		t.tx.Confirmations = t.tx.RequiredConfirmations
		t.tx.ProgressPercent = 100
		t.tx.EstimatedTimeLeftMs = 0
	} else {
		t.tx.ProgressPercent, t.tx.EstimatedTimeLeftMs = Progress(t.profile, t.tx.Confirmations)
	}

	t.stopLocked()
	snapshot := t.tx

	var cb func(types.TrackedTransaction)
	switch status {
	case types.TxStatusConfirmed:
		cb = t.callbacks.OnConfirmed
	case types.TxStatusFailed:
		cb = t.callbacks.OnFailed
	case types.TxStatusTimedOut:
		cb = t.callbacks.OnTimeout
	}
	t.lock.Unlock()

	if ce != nil {
		t.sink.Record(ce, nil)
	}

	log.Infof("Tx %s on chain %s reached terminal status %s", snapshot.Reference,
		snapshot.Chain, snapshot.Status)

	if cb != nil {
		cb(snapshot)
	}

	return true
}

// waitForReceipt is the push observation model. The receipt is authoritative;
// transient collaborator errors are retried with backoff, everything else
// fails the transfer.
func (t *TxTracker) waitForReceipt(ctx context.Context, gen uint64) {
	var result *types.ReceiptResult

	err := t.engine.Execute(ctx, retry.PolicyFromProfile(t.profile), func(ctx context.Context) error {
		res, err := t.receipts.WaitForReceipt(ctx, t.txRef)
		if err != nil {
			return err
		}

		result = res
		return nil
	}, nil)

	if err != nil {
		ce := t.classifier.Classify(err, t.profile)
		t.sink.Record(ce, err)

		select {
		case <-ctx.Done():
			// Cancelled or reset; the terminal transition (if any) already
			// happened elsewhere.
			return
		default:
		}

		t.transition(gen, types.TxStatusFailed, ce, -1, "")
		return
	}

	if result.Success {
		t.transition(gen, types.TxStatusConfirmed, nil, result.Confirmations, result.BlockRef)
		return
	}

	kind := types.ErrKindTxFailed
	if result.Reverted {
		kind = types.ErrKindExecutionReverted
	}
	ce := t.classifier.ForKind(kind, t.profile, result.Reason)
	t.transition(gen, types.TxStatusFailed, ce, -1, result.BlockRef)
}

// pollLoop is the pull observation model. Retryable poll failures are
// absorbed and the poll is retried on the next tick; only critical errors or
// a terminal remote status end the transfer.
func (t *TxTracker) pollLoop(ctx context.Context, gen uint64) {
	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	t.lock.Lock()
	stopCh := t.stopCh
	t.lock.Unlock()
	if stopCh == nil {
		return
	}

	// First observation right away; the ticker paces the rest.
	if t.pollOnce(ctx, gen) {
		return
	}

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if t.pollOnce(ctx, gen) {
				return
			}
		}
	}
}

// pollOnce runs a single observation and returns true when the loop should
// stop.
func (t *TxTracker) pollOnce(ctx context.Context, gen uint64) bool {
	var result *types.TxStatusResult

	// A single attempt per tick; the engine supplies classification and the
	// per-call rpc timeout.
	err := t.engine.ExecuteWithTimeout(ctx, t.profile.RpcTimeout(),
		retry.Policy{MaxRetries: 0, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
		func(ctx context.Context) error {
			res, err := t.poller.GetTransactionStatus(ctx, t.txRef)
			if err != nil {
				return err
			}

			result = res
			return nil
		}, nil)

	if err != nil {
		ce := t.classifier.Classify(err, t.profile)
		t.sink.Record(ce, err)

		if ce.Severity == types.SeverityCritical {
			return t.transition(gen, types.TxStatusFailed, ce, -1, "")
		}

		log.Verbosef("Poll failed on chain %s for tx %s, will retry next tick: %v",
			t.profile.Chain, t.txRef, err)

		t.lock.Lock()
		if t.running && gen == t.gen && !t.tx.Status.IsTerminal() {
			t.tx.LastError = ce
		}
		t.lock.Unlock()

		return false
	}

	switch result.Status {
	case types.RemoteStatusConfirmed:
		return t.transition(gen, types.TxStatusConfirmed, nil, result.Confirmations, result.BlockRef)

	case types.RemoteStatusFailed:
		ce := t.classifier.ForKind(types.ErrKindTxFailed, t.profile, result.Reason)
		return t.transition(gen, types.TxStatusFailed, ce, result.Confirmations, result.BlockRef)

	default:
		t.lock.Lock()
		if t.running && gen == t.gen && !t.tx.Status.IsTerminal() {
			if result.Confirmations > 0 {
				t.tx.Status = types.TxStatusConfirming
				t.tx.Confirmations = result.Confirmations
				if t.tx.Confirmations > t.tx.RequiredConfirmations {
					t.tx.Confirmations = t.tx.RequiredConfirmations
				}
			}
			if result.BlockRef != "" {
				t.tx.BlockRef = result.BlockRef
			}
		}
		t.lock.Unlock()

		return false
	}
}
