package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/schrodinger-box/boxd/internal/core/ports"
	"github.com/schrodinger-box/boxd/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type service struct {
	// services
	repoManager  ports.RepoManager
	liveStore    ports.LiveStore
	assets       ports.AssetResolver
	relay        ports.RelayNetwork
	feeCollector ports.FeeCollector
	scheduler    ports.SchedulerService
	alerts       ports.Alerts

	// config
	chainId               domain.ChainId
	localPeer             domain.PeerId
	custodyAccount        string
	mintingFee            uint64
	deliveryCheckInterval time.Duration
	staleBridgeThreshold  time.Duration

	// channels
	eventsCh chan []domain.Event

	stopOnce *sync.Once
}

func NewService(
	repoManager ports.RepoManager,
	liveStore ports.LiveStore,
	assets ports.AssetResolver,
	relay ports.RelayNetwork,
	feeCollector ports.FeeCollector,
	scheduler ports.SchedulerService,
	alerts ports.Alerts,
	chainId domain.ChainId,
	localPeer domain.PeerId,
	custodyAccount string,
	mintingFee uint64,
	deliveryCheckInterval, staleBridgeThreshold time.Duration,
) (Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if liveStore == nil {
		return nil, fmt.Errorf("missing live store")
	}
	if assets == nil {
		return nil, fmt.Errorf("missing asset resolver")
	}
	if relay == nil {
		return nil, fmt.Errorf("missing relay network")
	}
	if feeCollector == nil {
		return nil, fmt.Errorf("missing fee collector")
	}
	if chainId == 0 {
		return nil, fmt.Errorf("missing chain id")
	}
	if localPeer.IsZero() {
		return nil, fmt.Errorf("missing local peer id")
	}
	if custodyAccount == "" {
		return nil, fmt.Errorf("missing custody account")
	}

	svc := &service{
		repoManager:           repoManager,
		liveStore:             liveStore,
		assets:                assets,
		relay:                 relay,
		feeCollector:          feeCollector,
		scheduler:             scheduler,
		alerts:                alerts,
		chainId:               chainId,
		localPeer:             localPeer,
		custodyAccount:        custodyAccount,
		mintingFee:            mintingFee,
		deliveryCheckInterval: deliveryCheckInterval,
		staleBridgeThreshold:  staleBridgeThreshold,
		eventsCh:              make(chan []domain.Event, 64),
		stopOnce:              &sync.Once{},
	}

	repoManager.Events().RegisterEventsHandler(
		domain.BoxTopic, func(events []domain.Event) {
			svc.propagateEvents(events)
		},
	)

	return svc, nil
}

func (s *service) Start() error {
	log.Debug("starting relay listener...")
	if err := s.relay.Start(s.handleInboundMessage); err != nil {
		return fmt.Errorf("failed to start relay listener: %w", err)
	}

	if s.scheduler != nil && s.deliveryCheckInterval > 0 {
		log.Debug("starting delivery monitor...")
		s.scheduler.Start()
		if err := s.scheduler.ScheduleEvery(
			s.deliveryCheckInterval, s.checkDeliveries,
		); err != nil {
			return fmt.Errorf("failed to schedule delivery monitor: %w", err)
		}
	}
	return nil
}

func (s *service) Stop() {
	s.stopOnce.Do(func() {
		if s.scheduler != nil {
			s.scheduler.Stop()
			log.Debug("stopped delivery monitor")
		}
		s.relay.Close()
		log.Debug("closed relay listener")
		s.repoManager.Events().ClearRegisteredHandlers(domain.BoxTopic)
		s.repoManager.Close()
		log.Debug("closed connection to db")
		s.liveStore.Close()
		log.Debug("closed live store")
		close(s.eventsCh)
	})
}

func (s *service) ChainId() domain.ChainId {
	return s.chainId
}

func (s *service) GetEventsChannel(_ context.Context) <-chan []domain.Event {
	return s.eventsCh
}

// handleInboundMessage is the callback registered with the relay. Only
// transient failures are reported back, anything else would be redelivered
// forever.
func (s *service) handleInboundMessage(ctx context.Context, msg domain.BridgeMessage) error {
	err := s.Receive(ctx, msg)
	if err == nil {
		return nil
	}
	if err.Code() == errors.INTERNAL_ERROR.Code {
		return err
	}
	err.Log().WithField("message_id", msg.Id.String()).Warn("rejected inbound bridge message")
	return fmt.Errorf("%w: %s", ports.ErrMessageRejected, err)
}

func (s *service) propagateEvents(events []domain.Event) {
	select {
	case s.eventsCh <- events:
	default:
		log.Warnf("events channel full, dropped %d events", len(events))
	}
}

func (s *service) saveEvents(ctx context.Context, boxId domain.BoxId, events ...domain.Event) {
	if len(events) <= 0 {
		return
	}
	if err := s.repoManager.Events().Save(
		ctx, domain.BoxTopic, boxId.String(), events,
	); err != nil {
		log.WithError(err).WithField("box_id", boxId.String()).Warn("failed to save events")
	}
}

// lockBox serializes every mutation of the given box.
func (s *service) lockBox(ctx context.Context, boxId domain.BoxId) (func(), errors.Error) {
	release, err := s.liveStore.Mutexes().Acquire(ctx, boxMutexKey(boxId))
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(
			fmt.Errorf("failed to acquire lock for box %s: %w", boxId, err),
		)
	}
	return release, nil
}

func (s *service) getBox(ctx context.Context, boxId domain.BoxId) (*domain.Box, errors.Error) {
	box, err := s.repoManager.Boxes().Get(ctx, boxId)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.BOX_NOT_FOUND.New("box %s not found", boxId).
				WithMetadata(errors.BoxMetadata{BoxId: boxId.String()})
		}
		return nil, errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to get box %s: %w", boxId, err))
	}
	return box, nil
}

// getMutableBox fetches the box and checks the caller may change it.
func (s *service) getMutableBox(
	ctx context.Context, boxId domain.BoxId, caller string,
) (*domain.Box, errors.Error) {
	box, err := s.getBox(ctx, boxId)
	if err != nil {
		return nil, err
	}
	if !box.IsOwnedBy(caller) {
		return nil, errors.NOT_OWNER.New("caller %s is not the owner of box %s", caller, boxId).
			WithMetadata(errors.OwnershipMetadata{
				BoxId: boxId.String(), Caller: caller, Owner: box.Owner,
			})
	}
	if box.Locked {
		return nil, errors.BOX_LOCKED.New("box %s is locked", boxId).
			WithMetadata(errors.BoxMetadata{BoxId: boxId.String()})
	}
	return box, nil
}

func (s *service) getContents(
	ctx context.Context, boxId domain.BoxId,
) (*domain.Contents, errors.Error) {
	contents, err := s.repoManager.Vault().Get(ctx, boxId)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(
			fmt.Errorf("failed to get contents of box %s: %w", boxId, err),
		)
	}
	return contents, nil
}
