package service

import (
	"context"

	"accio-playground-be/internal/pkg/logger"
	"accio-playground-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type IPublisherService interface {
	Publish(ctx context.Context, payload []byte) error
}

type publisherService struct {
	publisher message.Publisher
	topicName string
}

func NewPublisherService(publisher message.Publisher, topicName string) IPublisherService {
	return &publisherService{
		publisher: publisher,
		topicName: topicName,
	}
}

func (p *publisherService) Publish(ctx context.Context, payload []byte) error {
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return p.publisher.Publish(p.topicName, msg)
}

// publishEvent hands a session event to the bus. Failures are logged and never reach
// the caller: the database commit already happened.
func publishEvent(ctx context.Context, publisher IPublisherService, log logger.ILogger, evt events.Event) {
	if publisher == nil {
		return
	}
	payload, err := events.Marshal(evt)
	if err == nil {
		err = publisher.Publish(context.WithoutCancel(ctx), payload)
	}
	if err != nil {
		log.Warn("EVENTS", "Failed to publish session event", map[string]interface{}{
			"type":  evt.EventType(),
			"error": err.Error(),
		})
	}
}
