package watermilldb

import (
	"database/sql"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// NewInMemoryPubSub returns a process local pubsub, the same instance is both
// publisher and subscriber.
func NewInMemoryPubSub(logger watermill.LoggerAdapter) *gochannel.GoChannel {
	return gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 1024,
	}, logger)
}

// NewPostgresPubSub returns a publisher and a subscriber backed by watermill
// tables in the given postgres db. Subscribers sharing the consumer group
// share the offsets of every topic.
func NewPostgresPubSub(
	db *sql.DB, consumerGroup string, logger watermill.LoggerAdapter,
) (message.Publisher, message.Subscriber, error) {
	var beginner watermillsql.Beginner = db

	publisher, err := watermillsql.NewPublisher(beginner, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultPostgreSQLSchema{},
		AutoInitializeSchema: true,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create postgres publisher: %w", err)
	}

	subscriber, err := watermillsql.NewSubscriber(beginner, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    consumerGroup,
	}, logger)
	if err != nil {
		// nolint:errcheck
		publisher.Close()
		return nil, nil, fmt.Errorf("failed to create postgres subscriber: %w", err)
	}

	return publisher, subscriber, nil
}
