package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/Mohd-umair/repmeup-frontend/internal/model"
	"github.com/Mohd-umair/repmeup-frontend/internal/pkg/logger"
	"github.com/Mohd-umair/repmeup-frontend/internal/pkg/observable"
	"github.com/Mohd-umair/repmeup-frontend/internal/realtime"
)

// In-process topics fed by the realtime channel.
const (
	TopicNewInteraction     = "realtime.new_interaction"
	TopicInteractionUpdated = "realtime.interaction_updated"
	TopicNotification       = "realtime.notification"
)

type IConsumerService interface {
	// Start bridges realtime server events onto the in-process bus and
	// consumes them: interaction events trigger a working-set refresh,
	// notifications are republished to subscribers. Returns after wiring;
	// processing runs until ctx is done.
	Start(ctx context.Context) error
	SubscribeNotifications() *observable.Subscription[*model.Notification]
}

type consumerService struct {
	pubSub        *gochannel.GoChannel
	channel       *realtime.Client
	inbox         IInboxService
	log           logger.ILogger
	notifications *observable.State[*model.Notification]
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	channel *realtime.Client,
	inbox IInboxService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:        pubSub,
		channel:       channel,
		inbox:         inbox,
		log:           log,
		notifications: observable.NewSubject[*model.Notification](),
	}
}

func (cs *consumerService) Start(ctx context.Context) error {
	cs.bridge(ctx, cs.channel.OnNewInteraction(), TopicNewInteraction)
	cs.bridge(ctx, cs.channel.OnInteractionUpdated(), TopicInteractionUpdated)
	cs.bridge(ctx, cs.channel.OnNotification(), TopicNotification)

	for _, topic := range []string{TopicNewInteraction, TopicInteractionUpdated} {
		messages, err := cs.pubSub.Subscribe(ctx, topic)
		if err != nil {
			return err
		}
		go func() {
			for msg := range messages {
				cs.processInteractionEvent(ctx, msg)
			}
		}()
	}

	messages, err := cs.pubSub.Subscribe(ctx, TopicNotification)
	if err != nil {
		return err
	}
	go func() {
		for msg := range messages {
			cs.processNotification(msg)
		}
	}()

	return nil
}

// bridge forwards one realtime subscription onto a bus topic until ctx ends.
func (cs *consumerService) bridge(ctx context.Context, sub *realtime.Subscription, topic string) {
	go func() {
		defer sub.Unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case data, ok := <-sub.C():
				if !ok {
					return
				}
				msg := message.NewMessage(watermill.NewUUID(), []byte(data))
				if err := cs.pubSub.Publish(topic, msg); err != nil {
					cs.log.Error("Consumer", "Failed to publish realtime event", map[string]interface{}{
						"topic": topic,
						"error": err.Error(),
					})
				}
			}
		}
	}()
}

// processInteractionEvent refreshes the working set so the inbox reflects
// the server push. The event itself is not merged locally; the refreshed
// fetch is the source of truth.
func (cs *consumerService) processInteractionEvent(ctx context.Context, msg *message.Message) {
	var interaction model.Interaction
	if err := json.Unmarshal(msg.Payload, &interaction); err != nil {
		cs.log.Warn("Consumer", "Dropping malformed interaction event", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	cs.log.Info("Consumer", "Interaction event received", map[string]interface{}{
		"interaction_id": interaction.Id,
		"platform":       interaction.Platform,
	})

	if err := cs.inbox.Refresh(ctx); err != nil {
		cs.log.Error("Consumer", "Inbox refresh after event failed", map[string]interface{}{"error": err.Error()})
		// The event is consumed either way; the next fetch reconciles.
	}
	msg.Ack()
}

func (cs *consumerService) processNotification(msg *message.Message) {
	var notification model.Notification
	if err := json.Unmarshal(msg.Payload, &notification); err != nil {
		cs.log.Warn("Consumer", "Dropping malformed notification", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	cs.log.Info("Consumer", "Notification received", map[string]interface{}{
		"type":  notification.Type,
		"title": notification.Title,
	})
	cs.notifications.Set(&notification)
	msg.Ack()
}

func (cs *consumerService) SubscribeNotifications() *observable.Subscription[*model.Notification] {
	return cs.notifications.Subscribe()
}
