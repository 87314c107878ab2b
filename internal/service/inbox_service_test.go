package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohd-umair/repmeup-frontend/internal/dto"
	"github.com/Mohd-umair/repmeup-frontend/internal/model"
)

func newInboxEnv(t *testing.T) (*testEnv, IInboxService) {
	env := newEnv(t)
	env.signIn(t)
	return env, NewInboxService(env.api, env.log)
}

func TestGetInteractionsPublishesWorkingSet(t *testing.T) {
	env, inbox := newInboxEnv(t)
	seedInteraction(env.backend, "i-1", model.PlatformInstagram, model.InteractionStatusUnread)
	seedInteraction(env.backend, "i-2", model.PlatformFacebook, model.InteractionStatusReplied)

	sub := inbox.SubscribeInteractions()
	defer sub.Unsubscribe()
	replayed := <-sub.C()
	assert.Empty(t, replayed)

	interactions, err := inbox.GetInteractions(context.Background(), model.NewInboxFilters())
	require.NoError(t, err)
	assert.Len(t, interactions, 2)

	select {
	case published := <-sub.C():
		assert.Len(t, published, 2)
	case <-time.After(time.Second):
		t.Fatal("working set not published")
	}
	assert.Len(t, inbox.InteractionsValue(), 2)
}

func TestGetInteractionsAppliesFilters(t *testing.T) {
	env, inbox := newInboxEnv(t)
	seedInteraction(env.backend, "i-1", model.PlatformInstagram, model.InteractionStatusUnread)
	seedInteraction(env.backend, "i-2", model.PlatformFacebook, model.InteractionStatusReplied)
	seedInteraction(env.backend, "i-3", model.PlatformInstagram, model.InteractionStatusReplied)

	filters := model.NewInboxFilters()
	filters.Toggle(model.FilterPlatform, string(model.PlatformInstagram))
	filters.Toggle(model.FilterStatus, string(model.InteractionStatusReplied))

	interactions, err := inbox.GetInteractions(context.Background(), filters)
	require.NoError(t, err)
	require.Len(t, interactions, 1)
	assert.Equal(t, "i-3", interactions[0].Id)

	// The issued filter set is retained for Refresh.
	last := inbox.LastFilters()
	assert.True(t, last.IsActive(model.FilterPlatform, string(model.PlatformInstagram)))
	assert.True(t, last.IsActive(model.FilterStatus, string(model.InteractionStatusReplied)))
}

func TestStaleResponseNeverOverwritesNewer(t *testing.T) {
	env, inbox := newInboxEnv(t)
	seedInteraction(env.backend, "i-1", model.PlatformInstagram, model.InteractionStatusUnread)
	seedInteraction(env.backend, "i-2", model.PlatformFacebook, model.InteractionStatusReplied)

	// The filtered request is held back so the later unfiltered one finishes
	// first.
	env.backend.InboxDelay = func(status string) time.Duration {
		if status == string(model.InteractionStatusUnread) {
			return 400 * time.Millisecond
		}
		return 0
	}

	slow := model.NewInboxFilters()
	slow.Toggle(model.FilterStatus, string(model.InteractionStatusUnread))

	var wg sync.WaitGroup
	wg.Add(1)
	var slowResult []model.Interaction
	go func() {
		defer wg.Done()
		result, err := inbox.GetInteractions(context.Background(), slow)
		assert.NoError(t, err)
		slowResult = result
	}()

	time.Sleep(100 * time.Millisecond)
	fast, err := inbox.GetInteractions(context.Background(), model.NewInboxFilters())
	require.NoError(t, err)
	require.Len(t, fast, 2)

	wg.Wait()

	// The slow caller still got its answer.
	require.Len(t, slowResult, 1)
	assert.Equal(t, "i-1", slowResult[0].Id)

	// But the published working set reflects the newest request only.
	assert.Len(t, inbox.InteractionsValue(), 2)
	// As does the retained filter set.
	assert.Empty(t, inbox.LastFilters())
}

func TestSelectionClearedWhenRemovedFromWorkingSet(t *testing.T) {
	env, inbox := newInboxEnv(t)
	unread := seedInteraction(env.backend, "i-1", model.PlatformInstagram, model.InteractionStatusUnread)
	seedInteraction(env.backend, "i-2", model.PlatformFacebook, model.InteractionStatusReplied)

	inbox.SetSelectedInteraction(&unread)
	require.NotNil(t, inbox.SelectedValue())

	// A reload whose result still contains the selection keeps it.
	_, err := inbox.GetInteractions(context.Background(), model.NewInboxFilters())
	require.NoError(t, err)
	require.NotNil(t, inbox.SelectedValue())
	assert.Equal(t, "i-1", inbox.SelectedValue().Id)

	// A reload that filters it out clears it.
	filters := model.NewInboxFilters()
	filters.Toggle(model.FilterStatus, string(model.InteractionStatusReplied))
	_, err = inbox.GetInteractions(context.Background(), filters)
	require.NoError(t, err)
	assert.Nil(t, inbox.SelectedValue())
}

func TestGetInteractionSelects(t *testing.T) {
	env, inbox := newInboxEnv(t)
	seedInteraction(env.backend, "i-1", model.PlatformYouTube, model.InteractionStatusUnread)

	sub := inbox.SubscribeSelected()
	defer sub.Unsubscribe()
	<-sub.C() // replayed nil

	interaction, err := inbox.GetInteraction(context.Background(), "i-1")
	require.NoError(t, err)
	assert.Equal(t, "i-1", interaction.Id)

	select {
	case selected := <-sub.C():
		require.NotNil(t, selected)
		assert.Equal(t, "i-1", selected.Id)
	case <-time.After(time.Second):
		t.Fatal("selection not published")
	}

	_, err = inbox.GetInteraction(context.Background(), "missing")
	require.Error(t, err)
}

func TestGetStats(t *testing.T) {
	env, inbox := newInboxEnv(t)
	seedInteraction(env.backend, "i-1", model.PlatformInstagram, model.InteractionStatusUnread)
	seedInteraction(env.backend, "i-2", model.PlatformInstagram, model.InteractionStatusReplied)
	seedInteraction(env.backend, "i-3", model.PlatformGoogle, model.InteractionStatusResolved)

	stats, err := inbox.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Unread)
	assert.Equal(t, 1, stats.Replied)
	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 2, stats.ByPlatform[model.PlatformInstagram])

	require.NotNil(t, inbox.StatsValue())
	assert.Equal(t, 3, inbox.StatsValue().Total)
}

func TestReplyMarksReplied(t *testing.T) {
	env, inbox := newInboxEnv(t)
	seedInteraction(env.backend, "i-1", model.PlatformWhatsApp, model.InteractionStatusUnread)

	err := inbox.ReplyToInteraction(context.Background(), "i-1", &dto.ReplyRequest{Content: "thanks!"})
	require.NoError(t, err)

	// The local set is untouched until a re-fetch.
	assert.Empty(t, inbox.InteractionsValue())

	interaction, err := inbox.GetInteraction(context.Background(), "i-1")
	require.NoError(t, err)
	assert.Equal(t, model.InteractionStatusReplied, interaction.Status)
}

func TestReplyValidationSkipsRemoteCall(t *testing.T) {
	env, inbox := newInboxEnv(t)
	seedInteraction(env.backend, "i-1", model.PlatformWhatsApp, model.InteractionStatusUnread)

	err := inbox.ReplyToInteraction(context.Background(), "i-1", &dto.ReplyRequest{Content: ""})
	require.Error(t, err)
	assert.Zero(t, env.backend.RequestCount("POST", "/api/inbox/i-1/reply"))
}

func TestAssignLabelNoteStatus(t *testing.T) {
	env, inbox := newInboxEnv(t)
	seedInteraction(env.backend, "i-1", model.PlatformFacebook, model.InteractionStatusUnread)

	require.NoError(t, inbox.AssignInteraction(context.Background(), "i-1", &dto.AssignRequest{UserId: "u-9"}))
	require.NoError(t, inbox.AddLabel(context.Background(), "i-1", "label-1"))
	require.NoError(t, inbox.AddNote(context.Background(), "i-1", "follow up tomorrow", true))
	require.NoError(t, inbox.UpdateStatus(context.Background(), "i-1", model.InteractionStatusResolved))

	interaction, err := inbox.GetInteraction(context.Background(), "i-1")
	require.NoError(t, err)
	assert.Equal(t, "u-9", interaction.AssignedTo)
	assert.Contains(t, interaction.Labels, "label-1")
	assert.Equal(t, model.InteractionStatusResolved, interaction.Status)

	// Unknown target surfaces the server error.
	err = inbox.AssignInteraction(context.Background(), "missing", &dto.AssignRequest{UserId: "u-9"})
	require.Error(t, err)

	// Invalid status is rejected before any request is made.
	err = inbox.UpdateStatus(context.Background(), "i-1", model.InteractionStatus("bogus"))
	require.Error(t, err)
	assert.Zero(t, env.backend.RequestCount("PUT", "/api/inbox/i-1/status"))
}

func TestRefreshReusesLastFilters(t *testing.T) {
	env, inbox := newInboxEnv(t)
	seedInteraction(env.backend, "i-1", model.PlatformInstagram, model.InteractionStatusUnread)

	filters := model.NewInboxFilters()
	filters.Toggle(model.FilterStatus, string(model.InteractionStatusUnread))
	_, err := inbox.GetInteractions(context.Background(), filters)
	require.NoError(t, err)

	// The seeded record flips to replied; a filtered refresh drops it.
	require.NoError(t, inbox.UpdateStatus(context.Background(), "i-1", model.InteractionStatusReplied))
	require.NoError(t, inbox.Refresh(context.Background()))
	assert.Empty(t, inbox.InteractionsValue())
}
