package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/Mohd-umair/repmeup-frontend/internal/apiclient"
	"github.com/Mohd-umair/repmeup-frontend/internal/dto"
	"github.com/Mohd-umair/repmeup-frontend/internal/model"
	"github.com/Mohd-umair/repmeup-frontend/internal/pkg/logger"
	"github.com/Mohd-umair/repmeup-frontend/internal/pkg/observable"
)

type IInboxService interface {
	GetInteractions(ctx context.Context, filters model.InboxFilters) ([]model.Interaction, error)
	GetInteraction(ctx context.Context, id string) (*model.Interaction, error)
	GetStats(ctx context.Context) (*model.InboxStats, error)
	ReplyToInteraction(ctx context.Context, id string, req *dto.ReplyRequest) error
	AssignInteraction(ctx context.Context, id string, req *dto.AssignRequest) error
	AddLabel(ctx context.Context, id, labelId string) error
	AddNote(ctx context.Context, id, note string, isPrivate bool) error
	UpdateStatus(ctx context.Context, id string, status model.InteractionStatus) error
	SetSelectedInteraction(interaction *model.Interaction)
	Refresh(ctx context.Context) error
	LastFilters() model.InboxFilters
	InteractionsValue() []model.Interaction
	StatsValue() *model.InboxStats
	SelectedValue() *model.Interaction
	SubscribeInteractions() *observable.Subscription[[]model.Interaction]
	SubscribeStats() *observable.Subscription[*model.InboxStats]
	SubscribeSelected() *observable.Subscription[*model.Interaction]
}

type inboxService struct {
	api      *apiclient.Client
	log      logger.ILogger
	validate *validator.Validate

	interactions *observable.State[[]model.Interaction]
	stats        *observable.State[*model.InboxStats]
	selected     *observable.State[*model.Interaction]

	// Fetch sequencing: concurrent GetInteractions calls are allowed, but a
	// response may only publish if no newer request was issued meanwhile.
	// Stale responses are returned to their caller and otherwise discarded.
	seqMu       sync.Mutex
	fetchSeq    uint64
	lastFilters model.InboxFilters
}

func NewInboxService(api *apiclient.Client, log logger.ILogger) IInboxService {
	return &inboxService{
		api:          api,
		log:          log,
		validate:     validator.New(),
		interactions: observable.NewState([]model.Interaction{}),
		stats:        observable.NewState[*model.InboxStats](nil),
		selected:     observable.NewState[*model.Interaction](nil),
	}
}

func (s *inboxService) GetInteractions(ctx context.Context, filters model.InboxFilters) ([]model.Interaction, error) {
	s.seqMu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.lastFilters = filters.Clone()
	s.seqMu.Unlock()

	resp, err := s.api.Get(ctx, "/inbox", filters.Query())
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var data dto.InteractionListData
	if err := resp.Decode(&data); err != nil {
		return nil, err
	}
	if data.Interactions == nil {
		data.Interactions = []model.Interaction{}
	}

	s.publishWorkingSet(seq, data.Interactions)
	return data.Interactions, nil
}

// publishWorkingSet replaces the working set wholesale if seq is still the
// newest issued fetch, then reconciles the selection: a selected interaction
// whose record left the set becomes absent.
func (s *inboxService) publishWorkingSet(seq uint64, interactions []model.Interaction) {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()

	if seq != s.fetchSeq {
		s.log.Debug("Inbox", "Discarding stale fetch result", map[string]interface{}{
			"seq":    seq,
			"newest": s.fetchSeq,
		})
		return
	}

	s.interactions.Set(interactions)

	if selected := s.selected.Get(); selected != nil {
		found := false
		for i := range interactions {
			if interactions[i].Id == selected.Id {
				found = true
				break
			}
		}
		if !found {
			s.selected.Set(nil)
		}
	}
}

func (s *inboxService) GetInteraction(ctx context.Context, id string) (*model.Interaction, error) {
	resp, err := s.api.Get(ctx, "/inbox/"+id, nil)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var interaction model.Interaction
	if err := resp.Decode(&interaction); err != nil {
		return nil, err
	}
	s.selected.Set(&interaction)
	return &interaction, nil
}

func (s *inboxService) GetStats(ctx context.Context) (*model.InboxStats, error) {
	resp, err := s.api.Get(ctx, "/inbox/stats", nil)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var stats model.InboxStats
	if err := resp.Decode(&stats); err != nil {
		return nil, err
	}
	s.stats.Set(&stats)
	return &stats, nil
}

// Mutating operations never touch local state; callers re-fetch to observe
// the effect, so the client never diverges from server-reported state.

func (s *inboxService) ReplyToInteraction(ctx context.Context, id string, req *dto.ReplyRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}
	resp, err := s.api.Post(ctx, fmt.Sprintf("/inbox/%s/reply", id), req)
	if err != nil {
		return err
	}
	return resp.Err()
}

func (s *inboxService) AssignInteraction(ctx context.Context, id string, req *dto.AssignRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}
	resp, err := s.api.Put(ctx, fmt.Sprintf("/inbox/%s/assign", id), req)
	if err != nil {
		return err
	}
	return resp.Err()
}

func (s *inboxService) AddLabel(ctx context.Context, id, labelId string) error {
	req := &dto.AddLabelRequest{LabelId: labelId}
	if err := s.validate.Struct(req); err != nil {
		return err
	}
	resp, err := s.api.Put(ctx, fmt.Sprintf("/inbox/%s/labels", id), req)
	if err != nil {
		return err
	}
	return resp.Err()
}

func (s *inboxService) AddNote(ctx context.Context, id, note string, isPrivate bool) error {
	req := &dto.AddNoteRequest{Note: note, IsPrivate: isPrivate}
	if err := s.validate.Struct(req); err != nil {
		return err
	}
	resp, err := s.api.Post(ctx, fmt.Sprintf("/inbox/%s/notes", id), req)
	if err != nil {
		return err
	}
	return resp.Err()
}

func (s *inboxService) UpdateStatus(ctx context.Context, id string, status model.InteractionStatus) error {
	req := &dto.UpdateStatusRequest{Status: status}
	if err := s.validate.Struct(req); err != nil {
		return err
	}
	resp, err := s.api.Put(ctx, fmt.Sprintf("/inbox/%s/status", id), req)
	if err != nil {
		return err
	}
	return resp.Err()
}

// SetSelectedInteraction is a pure local state transition.
func (s *inboxService) SetSelectedInteraction(interaction *model.Interaction) {
	s.selected.Set(interaction)
}

// Refresh re-fetches the working set with the last used filter set.
func (s *inboxService) Refresh(ctx context.Context) error {
	_, err := s.GetInteractions(ctx, s.LastFilters())
	return err
}

func (s *inboxService) LastFilters() model.InboxFilters {
	s.seqMu.Lock()
	defer s.seqMu.Unlock()
	if s.lastFilters == nil {
		return model.NewInboxFilters()
	}
	return s.lastFilters.Clone()
}

func (s *inboxService) InteractionsValue() []model.Interaction {
	return s.interactions.Get()
}

func (s *inboxService) StatsValue() *model.InboxStats {
	return s.stats.Get()
}

func (s *inboxService) SelectedValue() *model.Interaction {
	return s.selected.Get()
}

func (s *inboxService) SubscribeInteractions() *observable.Subscription[[]model.Interaction] {
	return s.interactions.Subscribe()
}

func (s *inboxService) SubscribeStats() *observable.Subscription[*model.InboxStats] {
	return s.stats.Subscribe()
}

func (s *inboxService) SubscribeSelected() *observable.Subscription[*model.Interaction] {
	return s.selected.Subscribe()
}
