package service

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohd-umair/repmeup-frontend/internal/model"
	"github.com/Mohd-umair/repmeup-frontend/internal/realtime"
)

func newConsumerEnv(t *testing.T) (*testEnv, IInboxService, IConsumerService) {
	env := newEnv(t)
	env.signIn(t)

	inbox := NewInboxService(env.api, env.log)

	channel := env.newRealtime(t)
	channel.Connect()
	require.True(t, env.backend.WaitForConnection(2*time.Second))

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	consumer := NewConsumerService(pubSub, channel, inbox, env.log)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, consumer.Start(ctx))

	return env, inbox, consumer
}

func TestNewInteractionEventRefreshesInbox(t *testing.T) {
	env, inbox, _ := newConsumerEnv(t)

	// Establish a working set first so the refresh has filters to reuse.
	_, err := inbox.GetInteractions(context.Background(), model.NewInboxFilters())
	require.NoError(t, err)
	assert.Empty(t, inbox.InteractionsValue())

	sub := inbox.SubscribeInteractions()
	defer sub.Unsubscribe()
	<-sub.C() // replayed empty set

	pushed := seedInteraction(env.backend, "i-1", model.PlatformInstagram, model.InteractionStatusUnread)
	require.NoError(t, env.backend.Push(realtime.EventNewInteraction, pushed))

	select {
	case interactions := <-sub.C():
		require.Len(t, interactions, 1)
		assert.Equal(t, "i-1", interactions[0].Id)
	case <-time.After(3 * time.Second):
		t.Fatal("working set not refreshed after server push")
	}
}

func TestInteractionUpdatedEventRefreshesInbox(t *testing.T) {
	env, inbox, _ := newConsumerEnv(t)
	interaction := seedInteraction(env.backend, "i-1", model.PlatformFacebook, model.InteractionStatusUnread)

	_, err := inbox.GetInteractions(context.Background(), model.NewInboxFilters())
	require.NoError(t, err)
	require.Len(t, inbox.InteractionsValue(), 1)

	sub := inbox.SubscribeInteractions()
	defer sub.Unsubscribe()
	<-sub.C()

	interaction.Status = model.InteractionStatusResolved
	env.backend.SeedInteraction(interaction)
	require.NoError(t, env.backend.Push(realtime.EventInteractionUpdated, interaction))

	deadline := time.After(3 * time.Second)
	for {
		select {
		case interactions := <-sub.C():
			require.Len(t, interactions, 1)
			if interactions[0].Status == model.InteractionStatusResolved {
				return
			}
		case <-deadline:
			t.Fatal("update not reflected after server push")
		}
	}
}

func TestNotificationsRepublished(t *testing.T) {
	env, _, consumer := newConsumerEnv(t)

	sub := consumer.SubscribeNotifications()
	defer sub.Unsubscribe()

	require.NoError(t, env.backend.Push(realtime.EventNotification, model.Notification{
		Type:    "assignment",
		Title:   "New assignment",
		Message: "You were assigned i-1",
	}))

	select {
	case notification := <-sub.C():
		require.NotNil(t, notification)
		assert.Equal(t, "assignment", notification.Type)
		assert.Equal(t, "New assignment", notification.Title)
	case <-time.After(3 * time.Second):
		t.Fatal("notification not republished")
	}
}

func TestMalformedEventIsDropped(t *testing.T) {
	env, inbox, consumer := newConsumerEnv(t)

	require.NoError(t, env.backend.Push(realtime.EventNotification, "not an object"))
	require.NoError(t, env.backend.Push(realtime.EventNewInteraction, []int{1, 2, 3}))

	sub := consumer.SubscribeNotifications()
	defer sub.Unsubscribe()
	select {
	case notification := <-sub.C():
		t.Fatalf("malformed notification delivered: %+v", notification)
	case <-time.After(300 * time.Millisecond):
	}
	assert.Empty(t, inbox.InteractionsValue())
}
