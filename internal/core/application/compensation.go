package application

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/schrodinger-box/boxd/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

const maxCompensationRetries = 4

// compensationBackOff is the retry policy of undo steps.
var compensationBackOff = func() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxElapsedTime = 10 * time.Second
	return backoff.WithMaxRetries(b, maxCompensationRetries)
}

// compensate undoes a step whose follow-up failed. The undo is retried, and
// if it keeps failing an alert is raised with what has been left behind.
func (s *service) compensate(
	ctx context.Context, alert ports.CompensationAlert, undo func(ctx context.Context) error,
) {
	// The request may be canceled already, the undo must run anyway.
	ctx = context.WithoutCancel(ctx)
	err := backoff.Retry(func() error {
		return undo(ctx)
	}, backoff.WithContext(compensationBackOff(), ctx))
	if err == nil {
		return
	}

	alert.Error = err.Error()
	log.WithError(err).WithField("box_id", alert.BoxId).Errorf(
		"failed to %s: %d %s of %s left behind", alert.Action, alert.Amount, alert.Asset,
		alert.Account,
	)
	s.publishAlert(ports.CompensationFailed, alert)
}
