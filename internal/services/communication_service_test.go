package services

import (
	"context"
	"testing"
	"time"

	"github.com/recordar/contact-gateway/internal/dispatch"
	"github.com/recordar/contact-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCommunicationRepository struct {
	mock.Mock
}

func (m *MockCommunicationRepository) Create(ctx context.Context, c *model.Communication, targets []*model.RecipientTarget) (*model.Communication, error) {
	args := m.Called(ctx, c, targets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Communication), args.Error(1)
}

func (m *MockCommunicationRepository) Get(ctx context.Context, id string) (*model.Communication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Communication), args.Error(1)
}

func (m *MockCommunicationRepository) List(ctx context.Context, f model.CommunicationFilter) ([]*model.Communication, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]*model.Communication), args.Get(1).(int64), args.Error(2)
}

func (m *MockCommunicationRepository) Update(ctx context.Context, c *model.Communication) (*model.Communication, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Communication), args.Error(1)
}

func (m *MockCommunicationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCommunicationRepository) Schedule(ctx context.Context, id string, date, timeOfDay string) error {
	args := m.Called(ctx, id, date, timeOfDay)
	return args.Error(0)
}

func (m *MockCommunicationRepository) ListTargets(ctx context.Context, communicationID string) ([]*model.RecipientTarget, error) {
	args := m.Called(ctx, communicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RecipientTarget), args.Error(1)
}

type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, communicationID string) (*dispatch.Stats, error) {
	args := m.Called(ctx, communicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dispatch.Stats), args.Error(1)
}

func fixedTime(value string) func() time.Time {
	parsed, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return parsed }
}

func draft(id string) *model.Communication {
	return &model.Communication{
		ID:      id,
		Title:   "Aviso",
		Channel: model.ChannelEmail,
		Content: "Hola {{name}}",
		Status:  model.CommunicationStatusDraft,
	}
}

func TestCommunicationService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("builds contact and group targets", func(t *testing.T) {
		repo := new(MockCommunicationRepository)
		svc := NewCommunicationService(repo, nil, nil, nil)

		repo.On("Create", ctx, mock.AnythingOfType("*model.Communication"), mock.MatchedBy(func(targets []*model.RecipientTarget) bool {
			return len(targets) == 2 && targets[0].ContactID == "c1" && targets[1].GroupID == "g1"
		})).Return(draft("comm-1"), nil)

		created, err := svc.Create(ctx, model.CommunicationCreateRequest{
			Title:      "Aviso",
			Channel:    model.ChannelEmail,
			Content:    "Hola",
			ContactIDs: []string{"c1"},
			GroupIDs:   []string{"g1"},
		})
		require.NoError(t, err)
		assert.Equal(t, "comm-1", created.ID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects missing title", func(t *testing.T) {
		svc := NewCommunicationService(new(MockCommunicationRepository), nil, nil, nil)

		_, err := svc.Create(ctx, model.CommunicationCreateRequest{
			Channel: model.ChannelEmail,
			Content: "Hola",
		})
		assert.Error(t, err)
	})

	t.Run("rejects invalid channel", func(t *testing.T) {
		svc := NewCommunicationService(new(MockCommunicationRepository), nil, nil, nil)

		_, err := svc.Create(ctx, model.CommunicationCreateRequest{
			Title:   "Aviso",
			Channel: "pigeon",
			Content: "Hola",
		})
		assert.Error(t, err)
	})
}

func TestCommunicationService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("draft is editable", func(t *testing.T) {
		repo := new(MockCommunicationRepository)
		svc := NewCommunicationService(repo, nil, nil, nil)

		comm := draft("comm-1")
		repo.On("Get", ctx, "comm-1").Return(comm, nil)
		repo.On("Update", ctx, mock.AnythingOfType("*model.Communication")).Return(comm, nil)

		title := "Aviso corregido"
		_, err := svc.Update(ctx, "comm-1", model.CommunicationUpdateRequest{Title: &title})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("sent communication is frozen", func(t *testing.T) {
		repo := new(MockCommunicationRepository)
		svc := NewCommunicationService(repo, nil, nil, nil)

		sent := draft("comm-1")
		sent.Status = model.CommunicationStatusSent
		repo.On("Get", ctx, "comm-1").Return(sent, nil)

		title := "Tarde"
		_, err := svc.Update(ctx, "comm-1", model.CommunicationUpdateRequest{Title: &title})
		assert.ErrorIs(t, err, ErrInvalidState)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("scheduled communication is frozen", func(t *testing.T) {
		repo := new(MockCommunicationRepository)
		svc := NewCommunicationService(repo, nil, nil, nil)

		scheduled := draft("comm-1")
		scheduled.Status = model.CommunicationStatusScheduled
		repo.On("Get", ctx, "comm-1").Return(scheduled, nil)

		title := "Tarde"
		_, err := svc.Update(ctx, "comm-1", model.CommunicationUpdateRequest{Title: &title})
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestCommunicationService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("draft deletable", func(t *testing.T) {
		repo := new(MockCommunicationRepository)
		svc := NewCommunicationService(repo, nil, nil, nil)

		repo.On("Get", ctx, "comm-1").Return(draft("comm-1"), nil)
		repo.On("Delete", ctx, "comm-1").Return(nil)

		require.NoError(t, svc.Delete(ctx, "comm-1"))
		repo.AssertExpectations(t)
	})

	t.Run("non-draft rejected", func(t *testing.T) {
		repo := new(MockCommunicationRepository)
		svc := NewCommunicationService(repo, nil, nil, nil)

		sent := draft("comm-1")
		sent.Status = model.CommunicationStatusPartiallySent
		repo.On("Get", ctx, "comm-1").Return(sent, nil)

		assert.ErrorIs(t, svc.Delete(ctx, "comm-1"), ErrInvalidState)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestCommunicationService_Schedule(t *testing.T) {
	ctx := context.Background()

	t.Run("future datetime accepted", func(t *testing.T) {
		repo := new(MockCommunicationRepository)
		svc := NewCommunicationService(repo, nil, nil, nil).WithClock(fixedTime("2026-09-15 09:00"))

		comm := draft("comm-1")
		repo.On("Get", ctx, "comm-1").Return(comm, nil)
		repo.On("Schedule", ctx, "comm-1", "2026-09-16", "10:00").Return(nil)

		_, err := svc.Schedule(ctx, "comm-1", "2026-09-16", "10:00")
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("past datetime rejected", func(t *testing.T) {
		repo := new(MockCommunicationRepository)
		svc := NewCommunicationService(repo, nil, nil, nil).WithClock(fixedTime("2026-09-15 09:00"))

		repo.On("Get", ctx, "comm-1").Return(draft("comm-1"), nil)

		_, err := svc.Schedule(ctx, "comm-1", "2026-09-15", "08:00")
		assert.ErrorIs(t, err, ErrScheduleNotFuture)
	})

	t.Run("present moment rejected", func(t *testing.T) {
		repo := new(MockCommunicationRepository)
		svc := NewCommunicationService(repo, nil, nil, nil).WithClock(fixedTime("2026-09-15 09:00"))

		repo.On("Get", ctx, "comm-1").Return(draft("comm-1"), nil)

		_, err := svc.Schedule(ctx, "comm-1", "2026-09-15", "09:00")
		assert.ErrorIs(t, err, ErrScheduleNotFuture)
	})

	t.Run("rescheduling a scheduled communication allowed", func(t *testing.T) {
		repo := new(MockCommunicationRepository)
		svc := NewCommunicationService(repo, nil, nil, nil).WithClock(fixedTime("2026-09-15 09:00"))

		scheduled := draft("comm-1")
		scheduled.Status = model.CommunicationStatusScheduled
		repo.On("Get", ctx, "comm-1").Return(scheduled, nil)
		repo.On("Schedule", ctx, "comm-1", "2026-09-20", "10:00").Return(nil)

		_, err := svc.Schedule(ctx, "comm-1", "2026-09-20", "10:00")
		require.NoError(t, err)
	})

	t.Run("sent communication rejected", func(t *testing.T) {
		repo := new(MockCommunicationRepository)
		svc := NewCommunicationService(repo, nil, nil, nil).WithClock(fixedTime("2026-09-15 09:00"))

		sent := draft("comm-1")
		sent.Status = model.CommunicationStatusSent
		repo.On("Get", ctx, "comm-1").Return(sent, nil)

		_, err := svc.Schedule(ctx, "comm-1", "2026-09-20", "10:00")
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("malformed datetime rejected", func(t *testing.T) {
		repo := new(MockCommunicationRepository)
		svc := NewCommunicationService(repo, nil, nil, nil).WithClock(fixedTime("2026-09-15 09:00"))

		repo.On("Get", ctx, "comm-1").Return(draft("comm-1"), nil)

		_, err := svc.Schedule(ctx, "comm-1", "15/09/2026", "10:00")
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestCommunicationService_SendNow(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches drafts", func(t *testing.T) {
		repo := new(MockCommunicationRepository)
		engine := new(MockDispatcher)
		svc := NewCommunicationService(repo, nil, engine, nil)

		repo.On("Get", ctx, "comm-1").Return(draft("comm-1"), nil)
		engine.On("Dispatch", ctx, "comm-1").Return(&dispatch.Stats{
			CommunicationID: "comm-1",
			Status:          model.CommunicationStatusSent,
		}, nil)

		stats, err := svc.SendNow(ctx, "comm-1")
		require.NoError(t, err)
		assert.Equal(t, model.CommunicationStatusSent, stats.Status)
		engine.AssertExpectations(t)
	})

	t.Run("rejects already sent", func(t *testing.T) {
		repo := new(MockCommunicationRepository)
		engine := new(MockDispatcher)
		svc := NewCommunicationService(repo, nil, engine, nil)

		sent := draft("comm-1")
		sent.Status = model.CommunicationStatusSent
		repo.On("Get", ctx, "comm-1").Return(sent, nil)

		_, err := svc.SendNow(ctx, "comm-1")
		assert.ErrorIs(t, err, ErrInvalidState)
		engine.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	})
}

func TestCommunicationService_Stats(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCommunicationRepository)
	svc := NewCommunicationService(repo, nil, nil, nil)

	repo.On("Get", ctx, "comm-1").Return(draft("comm-1"), nil)
	repo.On("ListTargets", ctx, "comm-1").Return([]*model.RecipientTarget{
		{DeliveryStatus: model.DeliveryStatusSent},
		{DeliveryStatus: model.DeliveryStatusSent},
		{DeliveryStatus: model.DeliveryStatusFailed},
		{DeliveryStatus: model.DeliveryStatusRetrying},
	}, nil)

	stats, err := svc.Stats(ctx, "comm-1")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalTargets)
	assert.Equal(t, 2, stats.Sent)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Retrying)
	assert.InDelta(t, 50.0, stats.SuccessRate, 0.01)
}
