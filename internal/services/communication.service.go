package services

import (
	"context"
	"strings"
	"time"

	"github.com/recordar/contact-gateway/internal/dispatch"
	"github.com/recordar/contact-gateway/internal/model"
)

type CommunicationRepository interface {
	Create(ctx context.Context, c *model.Communication, targets []*model.RecipientTarget) (*model.Communication, error)
	Get(ctx context.Context, id string) (*model.Communication, error)
	List(ctx context.Context, f model.CommunicationFilter) ([]*model.Communication, int64, error)
	Update(ctx context.Context, c *model.Communication) (*model.Communication, error)
	Delete(ctx context.Context, id string) error
	Schedule(ctx context.Context, id string, date, timeOfDay string) error
	ListTargets(ctx context.Context, communicationID string) ([]*model.RecipientTarget, error)
}

type DeliveryLogRepository interface {
	List(ctx context.Context, f model.DeliveryLogFilter) ([]*model.DeliveryLog, int64, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, communicationID string) (*dispatch.Stats, error)
}

type Previewer interface {
	PreviewRender(ctx context.Context, comm *model.Communication, targets []*model.RecipientTarget, maxContacts int) (*dispatch.Preview, error)
}

type CommunicationService struct {
	repo      CommunicationRepository
	logs      DeliveryLogRepository
	engine    Dispatcher
	previewer Previewer
	now       func() time.Time
}

func NewCommunicationService(repo CommunicationRepository, logs DeliveryLogRepository, engine Dispatcher, previewer Previewer) *CommunicationService {
	return &CommunicationService{
		repo:      repo,
		logs:      logs,
		engine:    engine,
		previewer: previewer,
		now:       time.Now,
	}
}

func (s *CommunicationService) WithClock(now func() time.Time) *CommunicationService {
	s.now = now
	return s
}

func (s *CommunicationService) Create(ctx context.Context, p model.CommunicationCreateRequest) (*model.Communication, error) {
	p.Title = strings.TrimSpace(p.Title)
	if err := p.Validate(); err != nil {
		return nil, err
	}

	targets := make([]*model.RecipientTarget, 0, len(p.ContactIDs)+len(p.GroupIDs))
	for _, id := range p.ContactIDs {
		targets = append(targets, &model.RecipientTarget{ContactID: id})
	}
	for _, id := range p.GroupIDs {
		targets = append(targets, &model.RecipientTarget{GroupID: id})
	}
	for _, t := range targets {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}

	return s.repo.Create(ctx, &model.Communication{
		Title:     p.Title,
		Channel:   p.Channel,
		Content:   p.Content,
		CreatedBy: p.CreatedBy,
	}, targets)
}

func (s *CommunicationService) Get(ctx context.Context, id string) (*model.Communication, error) {
	return s.repo.Get(ctx, id)
}

func (s *CommunicationService) List(ctx context.Context, f model.CommunicationFilter) ([]*model.Communication, int64, error) {
	return s.repo.List(ctx, f)
}

// Update edits title, channel or content. Only drafts are editable.
func (s *CommunicationService) Update(ctx context.Context, id string, p model.CommunicationUpdateRequest) (*model.Communication, error) {
	comm, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if comm.Status != model.CommunicationStatusDraft {
		return nil, ErrInvalidState
	}

	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return nil, ErrValidation
		}
		comm.Title = title
	}
	if p.Channel != nil {
		if !p.Channel.Valid() {
			return nil, ErrValidation
		}
		comm.Channel = *p.Channel
	}
	if p.Content != nil {
		if *p.Content == "" {
			return nil, ErrValidation
		}
		comm.Content = *p.Content
	}

	return s.repo.Update(ctx, comm)
}

// Delete removes a communication. Only drafts may be deleted.
func (s *CommunicationService) Delete(ctx context.Context, id string) error {
	comm, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if comm.Status != model.CommunicationStatusDraft {
		return ErrInvalidState
	}
	return s.repo.Delete(ctx, id)
}

// Schedule stamps a strictly-future date and time on a draft or an
// already-scheduled communication.
func (s *CommunicationService) Schedule(ctx context.Context, id string, date, timeOfDay string) (*model.Communication, error) {
	comm, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if comm.Status != model.CommunicationStatusDraft && comm.Status != model.CommunicationStatusScheduled {
		return nil, ErrInvalidState
	}

	when, err := time.ParseInLocation(model.DateLayout+" "+model.TimeLayout, date+" "+timeOfDay, time.Local)
	if err != nil {
		return nil, ErrValidation
	}
	if !when.After(s.now()) {
		return nil, ErrScheduleNotFuture
	}

	if err := s.repo.Schedule(ctx, id, date, timeOfDay); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// SendNow runs a dispatch pass immediately. Communications already marked
// sent are rejected.
func (s *CommunicationService) SendNow(ctx context.Context, id string) (*dispatch.Stats, error) {
	comm, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if comm.Status == model.CommunicationStatusSent {
		return nil, ErrInvalidState
	}

	return s.engine.Dispatch(ctx, id)
}

// Preview renders the body for a handful of resolved recipients without
// sending anything.
func (s *CommunicationService) Preview(ctx context.Context, id string, maxContacts int) (*dispatch.Preview, error) {
	comm, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	targets, err := s.repo.ListTargets(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.previewer.PreviewRender(ctx, comm, targets, maxContacts)
}

func (s *CommunicationService) TargetStatus(ctx context.Context, id string) ([]*model.RecipientTarget, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListTargets(ctx, id)
}

func (s *CommunicationService) Logs(ctx context.Context, id string, limit, offset int) ([]*model.DeliveryLog, int64, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, 0, err
	}
	return s.logs.List(ctx, model.DeliveryLogFilter{
		CommunicationID: &id,
		Limit:           limit,
		Offset:          offset,
	})
}

// Stats rolls the per-target delivery states up into counts and a
// success percentage.
func (s *CommunicationService) Stats(ctx context.Context, id string) (*model.CommunicationStats, error) {
	comm, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	targets, err := s.repo.ListTargets(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := &model.CommunicationStats{
		CommunicationID: id,
		Title:           comm.Title,
		TotalTargets:    len(targets),
	}
	for _, t := range targets {
		switch t.DeliveryStatus {
		case model.DeliveryStatusSent:
			stats.Sent++
		case model.DeliveryStatusFailed:
			stats.Failed++
		case model.DeliveryStatusRetrying:
			stats.Retrying++
		default:
			stats.Pending++
		}
	}
	if stats.TotalTargets > 0 {
		stats.SuccessRate = float64(stats.Sent) / float64(stats.TotalTargets) * 100
	}

	return stats, nil
}
