package watermilldb

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/schrodinger-box/boxd/internal/core/domain"
	log "github.com/sirupsen/logrus"
)

const eventIdMetadataKey = "event_id"

type eventRepository struct {
	publisher  message.Publisher
	subscriber message.Subscriber

	ctx    context.Context
	cancel context.CancelFunc

	handlers    map[string][]func(events []domain.Event) // topic -> handlers
	subscribed  map[string]bool
	handlerLock *sync.Mutex
	wg          *sync.WaitGroup
}

// NewEventRepository publishes the events of every Save call as a single
// watermill message and dispatches them to the handlers registered for the
// topic.
func NewEventRepository(
	publisher message.Publisher, subscriber message.Subscriber,
) domain.EventRepository {
	ctx, cancel := context.WithCancel(context.Background())
	return &eventRepository{
		publisher:   publisher,
		subscriber:  subscriber,
		ctx:         ctx,
		cancel:      cancel,
		handlers:    make(map[string][]func(events []domain.Event)),
		subscribed:  make(map[string]bool),
		handlerLock: &sync.Mutex{},
		wg:          &sync.WaitGroup{},
	}
}

func (e *eventRepository) ClearRegisteredHandlers(topics ...string) {
	e.handlerLock.Lock()
	defer e.handlerLock.Unlock()

	if len(topics) == 0 {
		e.handlers = make(map[string][]func(events []domain.Event))
		return
	}

	for _, topic := range topics {
		delete(e.handlers, topic)
	}
}

func (e *eventRepository) Close() {
	e.cancel()
	//nolint:errcheck
	e.publisher.Close()
	//nolint:errcheck
	e.subscriber.Close()
	e.wg.Wait()
}

func (e *eventRepository) RegisterEventsHandler(
	topic string, handler func(events []domain.Event),
) {
	e.handlerLock.Lock()
	defer e.handlerLock.Unlock()

	e.handlers[topic] = append(e.handlers[topic], handler)
	if e.subscribed[topic] {
		return
	}

	msgs, err := e.subscriber.Subscribe(e.ctx, topic)
	if err != nil {
		log.WithError(err).Errorf("failed to subscribe to topic %s", topic)
		return
	}
	e.subscribed[topic] = true

	e.wg.Add(1)
	go e.listen(topic, msgs)
}

func (e *eventRepository) Save(
	ctx context.Context, topic string, id string, events []domain.Event,
) error {
	if len(events) == 0 {
		return nil
	}

	msg, err := toWatermillMessage(id, events)
	if err != nil {
		return err
	}
	msg.SetContext(ctx)

	if err := e.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish events of %s: %w", id, err)
	}
	return nil
}

func (e *eventRepository) listen(topic string, msgs <-chan *message.Message) {
	defer e.wg.Done()

	for msg := range msgs {
		events, err := deserializeEvents(msg.Payload)
		if err != nil {
			log.WithError(err).Warnf(
				"failed to deserialize events %s", msg.Metadata.Get(eventIdMetadataKey),
			)
			msg.Ack()
			continue
		}

		e.handlerLock.Lock()
		handlers := append([]func(events []domain.Event){}, e.handlers[topic]...)
		e.handlerLock.Unlock()

		for _, handler := range handlers {
			handler(events)
		}
		msg.Ack()
	}
}

func toWatermillMessage(id string, events []domain.Event) (*message.Message, error) {
	payload, err := json.Marshal(events)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize events of %s: %w", id, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(eventIdMetadataKey, id)
	return msg, nil
}

func deserializeEvents(buf []byte) ([]domain.Event, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(buf, &records); err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(records))
	for _, record := range records {
		event, err := deserializeEvent(record)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func deserializeEvent(buf []byte) (domain.Event, error) {
	var eventType struct {
		Type domain.EventType
	}

	if err := json.Unmarshal(buf, &eventType); err != nil {
		return nil, err
	}

	switch eventType.Type {
	case domain.EventTypeBoxMinted:
		var event = domain.BoxMinted{}
		if err := json.Unmarshal(buf, &event); err == nil {
			return event, nil
		}
	case domain.EventTypeFungibleDeposited:
		var event = domain.FungibleDeposited{}
		if err := json.Unmarshal(buf, &event); err == nil {
			return event, nil
		}
	case domain.EventTypeFungibleWithdrawn:
		var event = domain.FungibleWithdrawn{}
		if err := json.Unmarshal(buf, &event); err == nil {
			return event, nil
		}
	case domain.EventTypeNftDeposited:
		var event = domain.NftDeposited{}
		if err := json.Unmarshal(buf, &event); err == nil {
			return event, nil
		}
	case domain.EventTypeNftWithdrawn:
		var event = domain.NftWithdrawn{}
		if err := json.Unmarshal(buf, &event); err == nil {
			return event, nil
		}
	case domain.EventTypeBoxTransferred:
		var event = domain.BoxTransferred{}
		if err := json.Unmarshal(buf, &event); err == nil {
			return event, nil
		}
	case domain.EventTypeBoxBridged:
		var event = domain.BoxBridged{}
		if err := json.Unmarshal(buf, &event); err == nil {
			return event, nil
		}
	case domain.EventTypeBoxReceived:
		var event = domain.BoxReceived{}
		if err := json.Unmarshal(buf, &event); err == nil {
			return event, nil
		}
	}

	return nil, fmt.Errorf("unknown event type %d", eventType.Type)
}
