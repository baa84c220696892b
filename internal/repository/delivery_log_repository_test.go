package repository

import (
	"context"
	"testing"
	"time"

	"github.com/recordar/contact-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryLogRepository_Create(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewDeliveryLogRepository(db)
	ctx := context.Background()

	t.Run("create log with defaults", func(t *testing.T) {
		log := &model.DeliveryLog{
			CommunicationID: "comm-1",
			ContactID:       "contact-1",
			Channel:         model.ChannelEmail,
			Content:         "Hola Ana",
			Outcome:         model.DeliveryOutcomeSuccess,
		}

		created, err := repo.Create(ctx, log)
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, 1, created.Attempt)
		assert.NotZero(t, created.CreatedAt)
	})

	t.Run("create failure log with attempt number", func(t *testing.T) {
		log := &model.DeliveryLog{
			CommunicationID: "comm-1",
			ContactID:       "contact-1",
			Channel:         model.ChannelWhatsapp,
			Content:         "Hola Ana",
			Outcome:         model.DeliveryOutcomeFailure,
			ErrorDetail:     "gateway unreachable",
			Attempt:         2,
		}

		created, err := repo.Create(ctx, log)
		require.NoError(t, err)
		assert.Equal(t, 2, created.Attempt)
		assert.Equal(t, "gateway unreachable", created.ErrorDetail)
	})
}

func TestDeliveryLogRepository_List(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewDeliveryLogRepository(db)
	ctx := context.Background()

	commID := "comm-1"
	for i := 0; i < 3; i++ {
		_, err := repo.Create(ctx, &model.DeliveryLog{
			CommunicationID: commID,
			ContactID:       "contact-1",
			Channel:         model.ChannelEmail,
			Outcome:         model.DeliveryOutcomeSuccess,
		})
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
	}
	_, err := repo.Create(ctx, &model.DeliveryLog{
		CommunicationID: "comm-2",
		ContactID:       "contact-2",
		Channel:         model.ChannelEmail,
		Outcome:         model.DeliveryOutcomeFailure,
	})
	require.NoError(t, err)

	t.Run("filter by communication", func(t *testing.T) {
		logs, total, err := repo.List(ctx, model.DeliveryLogFilter{CommunicationID: &commID, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, logs, 3)
	})

	t.Run("filter by contact", func(t *testing.T) {
		contactID := "contact-2"
		logs, total, err := repo.List(ctx, model.DeliveryLogFilter{ContactID: &contactID, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, logs, 1)
	})

	t.Run("newest first", func(t *testing.T) {
		logs, _, err := repo.List(ctx, model.DeliveryLogFilter{CommunicationID: &commID, Limit: 10})
		require.NoError(t, err)
		for i := 0; i < len(logs)-1; i++ {
			assert.True(t, !logs[i].CreatedAt.Before(logs[i+1].CreatedAt))
		}
	})

	t.Run("filter by time range", func(t *testing.T) {
		from := time.Now().Add(-time.Hour)
		to := time.Now().Add(time.Hour)
		logs, total, err := repo.List(ctx, model.DeliveryLogFilter{From: &from, To: &to, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, logs, 4)
	})
}

func TestDeliveryLogRepository_CountByOutcome(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewDeliveryLogRepository(db)
	ctx := context.Background()

	commID := "comm-1"
	outcomes := []model.DeliveryOutcome{
		model.DeliveryOutcomeSuccess,
		model.DeliveryOutcomeSuccess,
		model.DeliveryOutcomeFailure,
	}
	for _, o := range outcomes {
		_, err := repo.Create(ctx, &model.DeliveryLog{
			CommunicationID: commID,
			ContactID:       "contact-1",
			Channel:         model.ChannelEmail,
			Outcome:         o,
		})
		require.NoError(t, err)
	}

	counts, err := repo.CountByOutcome(ctx, commID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[model.DeliveryOutcomeSuccess])
	assert.Equal(t, int64(1), counts[model.DeliveryOutcomeFailure])
}
