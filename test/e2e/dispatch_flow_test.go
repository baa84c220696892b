package e2e

import (
	"context"
	"testing"
	"time"

	"github.com/recordar/contact-gateway/internal/dispatch"
	"github.com/recordar/contact-gateway/internal/model"
	"github.com/recordar/contact-gateway/internal/providers"
	"github.com/recordar/contact-gateway/internal/repository"
	"github.com/recordar/contact-gateway/internal/services"
	"github.com/recordar/contact-gateway/test/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestEnvironment struct {
	ContactRepo *repository.ContactRepository
	GroupRepo   *repository.GroupRepository
	CommRepo    *repository.CommunicationRepository
	LogRepo     *repository.DeliveryLogRepository
	Email       *providers.SimulatedEmail
	Messaging   *providers.SimulatedMessaging
	Engine      *dispatch.Engine
	Service     *services.CommunicationService
}

func setupE2EEnvironment(t *testing.T) *TestEnvironment {
	db := helpers.SetupTestDB(t)
	_, redisAdapter := helpers.SetupTestRedis(t)

	contactRepo := repository.NewContactRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	commRepo := repository.NewCommunicationRepository(db)
	logRepo := repository.NewDeliveryLogRepository(db)

	email := providers.NewSimulatedEmail()
	messaging := providers.NewSimulatedMessaging()

	resolver := dispatch.NewResolver(contactRepo, groupRepo)
	locker := dispatch.NewLocker(redisAdapter, time.Minute)
	engine := dispatch.NewEngine(commRepo, logRepo, resolver, email, messaging, locker, dispatch.Config{
		EmailEnabled:    true,
		WhatsappEnabled: true,
		Workers:         2,
	})

	service := services.NewCommunicationService(commRepo, logRepo, engine, resolver)

	return &TestEnvironment{
		ContactRepo: contactRepo,
		GroupRepo:   groupRepo,
		CommRepo:    commRepo,
		LogRepo:     logRepo,
		Email:       email,
		Messaging:   messaging,
		Engine:      engine,
		Service:     service,
	}
}

func TestSendNowFlow(t *testing.T) {
	ctx := context.Background()
	env := setupE2EEnvironment(t)

	ana, err := env.ContactRepo.Create(ctx, &model.Contact{
		Name:     "Ana Garcia",
		Email:    "ana@example.com",
		Whatsapp: "+5491122334455",
	})
	require.NoError(t, err)
	bruno, err := env.ContactRepo.Create(ctx, &model.Contact{
		Name:  "Bruno Diaz",
		Email: "bruno@example.com",
	})
	require.NoError(t, err)

	group, err := env.GroupRepo.Create(ctx, &model.Group{Name: "Comision", Channel: model.ChannelEmail})
	require.NoError(t, err)
	require.NoError(t, env.GroupRepo.AddMember(ctx, group.ID, bruno.ID))

	comm, err := env.Service.Create(ctx, model.CommunicationCreateRequest{
		Title:      "Reunion mensual",
		Channel:    model.ChannelEmail,
		Content:    "Hola {{name}}, nos vemos el viernes.",
		ContactIDs: []string{ana.ID},
		GroupIDs:   []string{group.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, model.CommunicationStatusDraft, comm.Status)

	stats, err := env.Service.SendNow(ctx, comm.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CommunicationStatusSent, stats.Status)
	assert.Equal(t, 2, stats.Succeeded)
	assert.Equal(t, 0, stats.Failed)

	sent := env.Email.Sent()
	require.Len(t, sent, 2)
	bodies := map[string]string{}
	for _, s := range sent {
		bodies[s.To] = s.Body
	}
	assert.Equal(t, "Hola Ana Garcia, nos vemos el viernes.", bodies["ana@example.com"])
	assert.Equal(t, "Hola Bruno Diaz, nos vemos el viernes.", bodies["bruno@example.com"])

	updated, err := env.Service.Get(ctx, comm.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CommunicationStatusSent, updated.Status)
	require.NotNil(t, updated.SentAt)

	logs, total, err := env.Service.Logs(ctx, comm.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, entry := range logs {
		assert.Equal(t, model.DeliveryOutcomeSuccess, entry.Outcome)
		assert.Equal(t, 1, entry.Attempt)
	}

	rollup, err := env.Service.Stats(ctx, comm.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, rollup.Sent)
	assert.InDelta(t, 100.0, rollup.SuccessRate, 0.01)
}

func TestRetryUntilFailedFlow(t *testing.T) {
	ctx := context.Background()
	env := setupE2EEnvironment(t)

	ana, err := env.ContactRepo.Create(ctx, &model.Contact{
		Name:  "Ana Garcia",
		Email: "ana@example.com",
	})
	require.NoError(t, err)
	env.Email.FailFor["ana@example.com"] = "mailbox unavailable"

	comm, err := env.Service.Create(ctx, model.CommunicationCreateRequest{
		Title:      "Aviso de corte",
		Channel:    model.ChannelEmail,
		Content:    "Hola {{name}}",
		ContactIDs: []string{ana.ID},
	})
	require.NoError(t, err)

	for attempt := 1; attempt < model.MaxFailedAttempts; attempt++ {
		stats, err := env.Service.SendNow(ctx, comm.ID)
		require.NoError(t, err)
		assert.Equal(t, model.CommunicationStatusFailed, stats.Status)

		targets, err := env.Service.TargetStatus(ctx, comm.ID)
		require.NoError(t, err)
		require.Len(t, targets, 1)
		assert.Equal(t, model.DeliveryStatusRetrying, targets[0].DeliveryStatus)
		assert.Equal(t, attempt, targets[0].FailedAttempts)
		assert.Equal(t, "mailbox unavailable", targets[0].LastError)
	}

	_, err = env.Service.SendNow(ctx, comm.ID)
	require.NoError(t, err)

	targets, err := env.Service.TargetStatus(ctx, comm.ID)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, model.DeliveryStatusFailed, targets[0].DeliveryStatus)
	assert.Equal(t, model.MaxFailedAttempts, targets[0].FailedAttempts)

	logs, total, err := env.Service.Logs(ctx, comm.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	attempts := map[int]bool{}
	for _, entry := range logs {
		assert.Equal(t, model.DeliveryOutcomeFailure, entry.Outcome)
		attempts[entry.Attempt] = true
	}
	assert.Equal(t, map[int]bool{1: true, 2: true, 3: true}, attempts)
}

func TestRecoveryAfterFailureFlow(t *testing.T) {
	ctx := context.Background()
	env := setupE2EEnvironment(t)

	ana, err := env.ContactRepo.Create(ctx, &model.Contact{
		Name:  "Ana Garcia",
		Email: "ana@example.com",
	})
	require.NoError(t, err)
	env.Email.FailFor["ana@example.com"] = "temporary failure"

	comm, err := env.Service.Create(ctx, model.CommunicationCreateRequest{
		Title:      "Invitacion",
		Channel:    model.ChannelEmail,
		Content:    "Hola {{name}}",
		ContactIDs: []string{ana.ID},
	})
	require.NoError(t, err)

	_, err = env.Service.SendNow(ctx, comm.ID)
	require.NoError(t, err)

	delete(env.Email.FailFor, "ana@example.com")

	stats, err := env.Service.SendNow(ctx, comm.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CommunicationStatusSent, stats.Status)

	targets, err := env.Service.TargetStatus(ctx, comm.ID)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, model.DeliveryStatusSent, targets[0].DeliveryStatus)
	require.NotNil(t, targets[0].LastSentAt)
	assert.Empty(t, targets[0].LastError)
}

func TestScheduledDispatchFlow(t *testing.T) {
	ctx := context.Background()
	env := setupE2EEnvironment(t)

	ana, err := env.ContactRepo.Create(ctx, &model.Contact{
		Name:  "Ana Garcia",
		Email: "ana@example.com",
	})
	require.NoError(t, err)

	svc := env.Service.WithClock(func() time.Time {
		return time.Date(2026, 9, 15, 9, 0, 0, 0, time.Local)
	})

	comm, err := svc.Create(ctx, model.CommunicationCreateRequest{
		Title:      "Recordatorio",
		Channel:    model.ChannelEmail,
		Content:    "Hola {{name}}",
		ContactIDs: []string{ana.ID},
	})
	require.NoError(t, err)

	scheduled, err := svc.Schedule(ctx, comm.ID, "2026-09-16", "08:00")
	require.NoError(t, err)
	assert.Equal(t, model.CommunicationStatusScheduled, scheduled.Status)

	scheduler := dispatch.NewScheduler(env.Engine, env.CommRepo, time.Minute).
		WithClock(func() time.Time {
			return time.Date(2026, 9, 16, 8, 30, 0, 0, time.Local)
		})
	scheduler.ProcessDue(ctx)

	sent, err := svc.Get(ctx, comm.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CommunicationStatusSent, sent.Status)
	require.Len(t, env.Email.Sent(), 1)
}
