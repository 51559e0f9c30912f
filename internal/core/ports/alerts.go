package ports

import (
	"context"
	"time"
)

const (
	BridgeDeliveryFailed Topic = "Bridge Delivery Failed"
	BridgeDeliveryStale  Topic = "Bridge Delivery Stale"
	CompensationFailed   Topic = "Compensation Failed"
)

type Topic string

type Alerts interface {
	Publish(ctx context.Context, topic Topic, message interface{}) error
}

type BridgeDeliveryAlert struct {
	MessageId          string
	BoxId              string
	SourceChainId      uint16
	DestinationChainId uint16
	Recipient          string
	Fee                uint64
	Status             string
	Age                time.Duration
}

// CompensationAlert reports an asset movement that could not be undone after
// the step following it failed. The books need a manual fix.
type CompensationAlert struct {
	BoxId   string
	Action  string
	Account string
	Asset   string
	Amount  uint64
	Error   string
}
