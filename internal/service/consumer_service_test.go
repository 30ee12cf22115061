package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"accio-playground-be/internal/pkg/logger"
	"accio-playground-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "session.events"

type sentFrame struct {
	userId uuid.UUID
	frame  []byte
}

type chanNotifier struct {
	frames chan sentFrame
}

func (n *chanNotifier) SendToUser(userId uuid.UUID, frame []byte) {
	n.frames <- sentFrame{userId: userId, frame: frame}
}

type chanSink struct {
	events chan events.Event
	err    error
}

func (s *chanSink) Publish(ctx context.Context, event events.Event) error {
	s.events <- event
	return s.err
}

func newTestBus(t *testing.T) *gochannel.GoChannel {
	t.Helper()
	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { bus.Close() })
	return bus
}

func TestConsumerService_FansOutSessionEvents(t *testing.T) {
	bus := newTestBus(t)
	notifier := &chanNotifier{frames: make(chan sentFrame, 1)}
	sink := &chanSink{events: make(chan events.Event, 1)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	consumer := NewConsumerService(bus, testTopic, notifier, sink, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	owner, sessionId := uuid.New(), uuid.New()
	publisher := NewPublisherService(bus, testTopic)
	publishEvent(ctx, publisher, logger.NewNopLogger(), events.NewSessionEvent(
		events.SessionTurnCommitted, owner, sessionId, map[string]interface{}{"markup": "<div/>"},
	))

	select {
	case got := <-notifier.frames:
		assert.Equal(t, owner, got.userId)

		var frame struct {
			Type string          `json:"type"`
			Data events.Envelope `json:"data"`
		}
		require.NoError(t, json.Unmarshal(got.frame, &frame))
		assert.Equal(t, "session_event", frame.Type)
		assert.Equal(t, events.SessionTurnCommitted, frame.Data.Type)
		assert.Equal(t, sessionId.String(), frame.Data.Payload["session_id"])
		assert.Equal(t, "<div/>", frame.Data.Payload["markup"])
	case <-time.After(2 * time.Second):
		t.Fatal("notifier did not receive the event")
	}

	select {
	case evt := <-sink.events:
		assert.Equal(t, events.SessionTurnCommitted, evt.EventType())
	case <-time.After(2 * time.Second):
		t.Fatal("sink did not receive the event")
	}
}

func TestConsumerService_SurvivesBadPayloadsAndSinkErrors(t *testing.T) {
	bus := newTestBus(t)
	sink := &chanSink{events: make(chan events.Event, 2), err: errors.New("nats: no responders")}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, NewConsumerService(bus, testTopic, nil, sink, logger.NewNopLogger()).Consume(ctx))

	require.NoError(t, bus.Publish(testTopic, message.NewMessage(watermill.NewUUID(), []byte("not json"))))

	publisher := NewPublisherService(bus, testTopic)
	for i := 0; i < 2; i++ {
		publishEvent(ctx, publisher, logger.NewNopLogger(), events.NewSessionEvent(events.SessionCreated, uuid.New(), uuid.New(), nil))
	}

	for i := 0; i < 2; i++ {
		select {
		case evt := <-sink.events:
			assert.Equal(t, events.SessionCreated, evt.EventType())
		case <-time.After(2 * time.Second):
			t.Fatalf("event %d was not forwarded", i)
		}
	}
}
