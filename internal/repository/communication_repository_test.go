package repository

import (
	"context"
	"testing"
	"time"

	"github.com/recordar/contact-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommunicationRepository_Create(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewCommunicationRepository(db)
	ctx := context.Background()

	t.Run("create with targets", func(t *testing.T) {
		comm := &model.Communication{
			Title:   "Aviso general",
			Channel: model.ChannelBoth,
			Content: "Hola {{name}}",
		}
		targets := []*model.RecipientTarget{
			{ContactID: "contact-1"},
			{GroupID: "group-1"},
		}

		created, err := repo.Create(ctx, comm, targets)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, model.CommunicationStatusDraft, created.Status)
		assert.Equal(t, model.DefaultVariables, created.Variables)

		stored, err := repo.ListTargets(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, stored, 2)
		for _, tg := range stored {
			assert.NotEmpty(t, tg.ID)
			assert.Equal(t, created.ID, tg.CommunicationID)
			assert.Equal(t, model.DeliveryStatusPending, tg.DeliveryStatus)
			assert.Zero(t, tg.FailedAttempts)
		}
	})

	t.Run("targets keep declaration order", func(t *testing.T) {
		comm := &model.Communication{
			Title:   "Orden de destinatarios",
			Channel: model.ChannelEmail,
			Content: "Hola",
		}
		targets := []*model.RecipientTarget{
			{ContactID: "contact-3"},
			{GroupID: "group-2"},
			{ContactID: "contact-1"},
			{ContactID: "contact-2"},
			{GroupID: "group-1"},
		}

		created, err := repo.Create(ctx, comm, targets)
		require.NoError(t, err)

		stored, err := repo.ListTargets(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, stored, 5)
		for i, tg := range stored {
			assert.Equal(t, i, tg.Position)
			assert.Equal(t, targets[i].ContactID, tg.ContactID)
			assert.Equal(t, targets[i].GroupID, tg.GroupID)
		}
	})

	t.Run("create without targets", func(t *testing.T) {
		comm := &model.Communication{
			Title:   "Sin destinatarios",
			Channel: model.ChannelEmail,
			Content: "Hola",
		}

		created, err := repo.Create(ctx, comm, nil)
		require.NoError(t, err)

		stored, err := repo.ListTargets(ctx, created.ID)
		require.NoError(t, err)
		assert.Empty(t, stored)
	})
}

func TestCommunicationRepository_Get(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewCommunicationRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Communication{
		Title:   "Aviso",
		Channel: model.ChannelEmail,
		Content: "Hola",
	}, nil)
	require.NoError(t, err)

	t.Run("get existing", func(t *testing.T) {
		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Aviso", got.Title)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := repo.Get(ctx, "missing-id")
		assert.ErrorIs(t, err, ErrCommunicationNotFound)
	})
}

func TestCommunicationRepository_List(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewCommunicationRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, &model.Communication{
			Title:   "Aviso",
			Channel: model.ChannelEmail,
			Content: "Hola",
		}, nil)
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, &model.Communication{
		Title:   "Recordatorio",
		Channel: model.ChannelWhatsapp,
		Content: "Hola",
	}, nil)
	require.NoError(t, err)

	t.Run("list all", func(t *testing.T) {
		comms, total, err := repo.List(ctx, model.CommunicationFilter{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, comms, 4)
	})

	t.Run("filter by channel", func(t *testing.T) {
		channel := model.ChannelWhatsapp
		comms, total, err := repo.List(ctx, model.CommunicationFilter{Channel: &channel, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, comms, 1)
	})

	t.Run("filter by status", func(t *testing.T) {
		status := model.CommunicationStatusDraft
		comms, total, err := repo.List(ctx, model.CommunicationFilter{Status: &status, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, comms, 4)
	})
}

func TestCommunicationRepository_StatusTransitions(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewCommunicationRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Communication{
		Title:   "Aviso",
		Channel: model.ChannelEmail,
		Content: "Hola",
	}, nil)
	require.NoError(t, err)

	t.Run("schedule", func(t *testing.T) {
		require.NoError(t, repo.Schedule(ctx, created.ID, "2026-09-15", "10:30"))

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, model.CommunicationStatusScheduled, got.Status)
		assert.Equal(t, "2026-09-15", got.ScheduledDate)
		assert.Equal(t, "10:30", got.ScheduledTime)
	})

	t.Run("mark sent with timestamp", func(t *testing.T) {
		now := time.Now()
		require.NoError(t, repo.UpdateStatus(ctx, created.ID, model.CommunicationStatusSent, &now))

		got, err := repo.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, model.CommunicationStatusSent, got.Status)
		require.NotNil(t, got.SentAt)
		assert.WithinDuration(t, now, *got.SentAt, time.Second)
	})

	t.Run("update status of missing communication", func(t *testing.T) {
		err := repo.UpdateStatus(ctx, "missing-id", model.CommunicationStatusFailed, nil)
		assert.ErrorIs(t, err, ErrCommunicationNotFound)
	})
}

func TestCommunicationRepository_ListScheduledFor(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewCommunicationRepository(db)
	ctx := context.Background()

	due, err := repo.Create(ctx, &model.Communication{
		Title:   "Hoy",
		Channel: model.ChannelEmail,
		Content: "Hola",
	}, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Schedule(ctx, due.ID, "2026-09-15", "08:00"))

	later, err := repo.Create(ctx, &model.Communication{
		Title:   "Otro dia",
		Channel: model.ChannelEmail,
		Content: "Hola",
	}, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Schedule(ctx, later.ID, "2026-09-16", "08:00"))

	// Drafts never show up regardless of date.
	_, err = repo.Create(ctx, &model.Communication{
		Title:   "Borrador",
		Channel: model.ChannelEmail,
		Content: "Hola",
	}, nil)
	require.NoError(t, err)

	comms, err := repo.ListScheduledFor(ctx, "2026-09-15")
	require.NoError(t, err)
	require.Len(t, comms, 1)
	assert.Equal(t, due.ID, comms[0].ID)
}

func TestCommunicationRepository_UpdateTarget(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewCommunicationRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Communication{
		Title:   "Aviso",
		Channel: model.ChannelEmail,
		Content: "Hola",
	}, []*model.RecipientTarget{{ContactID: "contact-1"}})
	require.NoError(t, err)

	targets, err := repo.ListTargets(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, targets, 1)

	t.Run("record failure bookkeeping", func(t *testing.T) {
		target := targets[0]
		target.DeliveryStatus = model.DeliveryStatusRetrying
		target.FailedAttempts = 1
		target.LastError = "smtp timeout"

		require.NoError(t, repo.UpdateTarget(ctx, target))

		stored, err := repo.ListTargets(ctx, created.ID)
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, model.DeliveryStatusRetrying, stored[0].DeliveryStatus)
		assert.Equal(t, 1, stored[0].FailedAttempts)
		assert.Equal(t, "smtp timeout", stored[0].LastError)
	})

	t.Run("record success bookkeeping", func(t *testing.T) {
		now := time.Now()
		target := targets[0]
		target.DeliveryStatus = model.DeliveryStatusSent
		target.LastError = ""
		target.LastSentAt = &now

		require.NoError(t, repo.UpdateTarget(ctx, target))

		stored, err := repo.ListTargets(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, model.DeliveryStatusSent, stored[0].DeliveryStatus)
		require.NotNil(t, stored[0].LastSentAt)
	})

	t.Run("update missing target", func(t *testing.T) {
		err := repo.UpdateTarget(ctx, &model.RecipientTarget{ID: "missing-id"})
		assert.ErrorIs(t, err, ErrTargetNotFound)
	})
}

func TestCommunicationRepository_Delete(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewCommunicationRepository(db)
	logs := NewDeliveryLogRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.Communication{
		Title:   "Aviso",
		Channel: model.ChannelEmail,
		Content: "Hola",
	}, []*model.RecipientTarget{{ContactID: "contact-1"}})
	require.NoError(t, err)

	_, err = logs.Create(ctx, &model.DeliveryLog{
		CommunicationID: created.ID,
		ContactID:       "contact-1",
		Channel:         model.ChannelEmail,
		Outcome:         model.DeliveryOutcomeSuccess,
	})
	require.NoError(t, err)

	t.Run("delete cascades targets and logs", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, created.ID))

		_, err := repo.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrCommunicationNotFound)

		targets, err := repo.ListTargets(ctx, created.ID)
		require.NoError(t, err)
		assert.Empty(t, targets)

		stored, total, err := logs.List(ctx, model.DeliveryLogFilter{CommunicationID: &created.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, stored)
	})

	t.Run("delete missing communication", func(t *testing.T) {
		err := repo.Delete(ctx, "missing-id")
		assert.ErrorIs(t, err, ErrCommunicationNotFound)
	})
}
