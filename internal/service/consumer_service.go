package service

import (
	"context"
	"encoding/json"

	"accio-playground-be/internal/pkg/logger"
	"accio-playground-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// UserNotifier pushes a frame to every live connection of one user.
type UserNotifier interface {
	SendToUser(userId uuid.UUID, frame []byte)
}

// EventSink forwards events outside the process (NATS JetStream).
type EventSink interface {
	Publish(ctx context.Context, event events.Event) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	notifier   UserNotifier
	sink       EventSink
	logger     logger.ILogger
}

// NewConsumerService fans session events out to websocket clients and the external
// stream. notifier and sink may be nil.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	notifier UserNotifier,
	sink EventSink,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		notifier:   notifier,
		sink:       sink,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	// Delivery is best-effort: every message is acked, failures are only logged.
	defer msg.Ack()

	evt, err := events.Unmarshal(msg.Payload)
	if err != nil {
		cs.logger.Error("CONSUMER", "Dropping undecodable event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	if cs.notifier != nil {
		if userId, ok := events.UserIdOf(evt); ok {
			frame, err := json.Marshal(map[string]interface{}{
				"type": "session_event",
				"data": json.RawMessage(msg.Payload),
			})
			if err == nil {
				cs.notifier.SendToUser(userId, frame)
			}
		}
	}

	if cs.sink != nil {
		if err := cs.sink.Publish(ctx, evt); err != nil {
			cs.logger.Warn("CONSUMER", "Failed to forward event to stream", map[string]interface{}{
				"type":  evt.EventType(),
				"error": err.Error(),
			})
			return
		}
	}

	cs.logger.Debug("CONSUMER", "Event delivered", map[string]interface{}{
		"type": evt.EventType(),
	})
}
