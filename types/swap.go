package types

import "time"

type SwapStatus string

const (
	SwapStatusPending    SwapStatus = "pending"
	SwapStatusProcessing SwapStatus = "processing"
	SwapStatusCompleted  SwapStatus = "completed"
	SwapStatusFailed     SwapStatus = "failed"
	SwapStatusCancelled  SwapStatus = "cancelled"
)

func (s SwapStatus) IsTerminal() bool {
	return s == SwapStatusCompleted || s == SwapStatusFailed || s == SwapStatusCancelled
}

// SwapParams is the request sent to the bridging service to open a
// cross-chain order.
type SwapParams struct {
	SourceChain string `json:"source_chain"`
	DestChain   string `json:"dest_chain"`
	FromToken   string `json:"from_token"`
	ToToken     string `json:"to_token"`
	Amount      string `json:"amount"`
	Recipient   string `json:"recipient"`
}

// SwapOrder is a cross-chain order tracked against the bridging service.
type SwapOrder struct {
	OrderID        string     `json:"order_id"`
	SourceChain    string     `json:"source_chain"`
	DestChain      string     `json:"dest_chain"`
	Status         SwapStatus `json:"status"`
	PollIntervalMs int64      `json:"poll_interval_ms,omitempty"`
	CreatedAt      time.Time  `json:"created_at,omitempty"`

	LastError *ClassifiedError `json:"-"`
}
