package ports

import "context"

// FeeCollector is the sink of protocol fees. Deposit pulls the given amount of
// native currency from the payer.
type FeeCollector interface {
	Deposit(ctx context.Context, payer string, amount uint64) error
	Withdraw(ctx context.Context, to string, amount uint64) error
	Balance(ctx context.Context) (uint64, error)
}
