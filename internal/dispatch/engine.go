package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/recordar/contact-gateway/internal/model"
	"github.com/recordar/contact-gateway/internal/providers"
	"github.com/recordar/contact-gateway/internal/template"
	"github.com/recordar/contact-gateway/pkg/logger"
	"github.com/recordar/contact-gateway/pkg/worker"
	"golang.org/x/time/rate"
)

var (
	// ErrDispatchInProgress means another pass currently holds the
	// communication's lock.
	ErrDispatchInProgress = errors.New("dispatch already in progress")

	ErrChannelDisabled = errors.New("channel is disabled")
	ErrMissingAddress  = errors.New("contact has no address for channel")
)

type CommunicationStore interface {
	Get(ctx context.Context, id string) (*model.Communication, error)
	ListTargets(ctx context.Context, communicationID string) ([]*model.RecipientTarget, error)
	UpdateTarget(ctx context.Context, t *model.RecipientTarget) error
	UpdateStatus(ctx context.Context, id string, status model.CommunicationStatus, sentAt *time.Time) error
}

type DeliveryLogWriter interface {
	Create(ctx context.Context, log *model.DeliveryLog) (*model.DeliveryLog, error)
}

type Config struct {
	EmailEnabled    bool
	WhatsappEnabled bool
	Workers         int
	RateLimit       int // provider calls per second, 0 = unlimited
	Timeout         time.Duration
}

type ChannelStats struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Stats summarizes one dispatch pass. Succeeded and Failed count
// (contact, channel) sends, not targets.
type Stats struct {
	CommunicationID string                          `json:"communication_id"`
	Status          model.CommunicationStatus       `json:"status"`
	Targets         int                             `json:"targets"`
	Recipients      int                             `json:"recipients"`
	Succeeded       int                             `json:"succeeded"`
	Failed          int                             `json:"failed"`
	ByChannel       map[model.Channel]*ChannelStats `json:"by_channel"`
}

// Engine executes dispatch passes: it resolves recipients, renders the
// body per contact, fans out over the communication's channels and keeps
// per-target retry bookkeeping plus an append-only delivery log.
type Engine struct {
	comms     CommunicationStore
	logs      DeliveryLogWriter
	resolver  *Resolver
	email     providers.EmailProvider
	messaging providers.MessagingProvider
	locker    *Locker
	limiter   *rate.Limiter
	cfg       Config
}

func NewEngine(
	comms CommunicationStore,
	logs DeliveryLogWriter,
	resolver *Resolver,
	email providers.EmailProvider,
	messaging providers.MessagingProvider,
	locker *Locker,
	cfg Config,
) *Engine {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimit)
	}

	return &Engine{
		comms:     comms,
		logs:      logs,
		resolver:  resolver,
		email:     email,
		messaging: messaging,
		locker:    locker,
		limiter:   limiter,
		cfg:       cfg,
	}
}

// Dispatch runs one full pass for a communication. Per-recipient failures
// are recorded and absorbed; only structural errors (missing
// communication, storage failures, held lock) propagate.
func (e *Engine) Dispatch(ctx context.Context, communicationID string) (*Stats, error) {
	acquired, err := e.locker.Acquire(communicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire dispatch lock: %w", err)
	}
	if !acquired {
		return nil, ErrDispatchInProgress
	}
	defer func() {
		if err := e.locker.Release(communicationID); err != nil {
			logger.Warn("failed to release dispatch lock", "communication_id", communicationID, "error", err)
		}
	}()

	started := time.Now()

	comm, err := e.comms.Get(ctx, communicationID)
	if err != nil {
		return nil, err
	}

	targets, err := e.comms.ListTargets(ctx, communicationID)
	if err != nil {
		return nil, err
	}

	resolved, err := e.resolver.Resolve(ctx, targets)
	if err != nil {
		return nil, err
	}

	channels := comm.Channel.Expand()

	stats := &Stats{
		CommunicationID: communicationID,
		Targets:         len(targets),
		ByChannel:       make(map[model.Channel]*ChannelStats),
	}
	for _, ch := range channels {
		stats.ByChannel[ch] = &ChannelStats{}
	}

	var mu sync.Mutex

	pool := worker.NewWorkerManager(len(resolved), e.cfg.Workers)
	pool.SetWorker(func(workerIndex int, job interface{}) {
		entry := job.(*Resolved)

		defer func() {
			if r := recover(); r != nil {
				logger.Error("dispatch worker panic",
					"communication_id", communicationID,
					"target_id", entry.Target.ID,
					"panic", r)
			}
		}()

		outcome := e.processTarget(ctx, comm, channels, entry)

		mu.Lock()
		stats.Recipients += len(entry.Contacts)
		stats.Succeeded += outcome.succeeded
		stats.Failed += outcome.failed
		for ch, c := range outcome.byChannel {
			if s, ok := stats.ByChannel[ch]; ok {
				s.Succeeded += c.Succeeded
				s.Failed += c.Failed
			}
		}
		mu.Unlock()
	})
	pool.Start()
	for _, entry := range resolved {
		pool.Enqueue(entry)
	}
	pool.Close()
	pool.Wait()

	// The communication status follows individual sends, not whole
	// targets: a group with one bounced member is still partially sent.
	now := time.Now()
	switch {
	case stats.Failed == 0:
		stats.Status = model.CommunicationStatusSent
	case stats.Succeeded == 0:
		stats.Status = model.CommunicationStatusFailed
	default:
		stats.Status = model.CommunicationStatusPartiallySent
	}

	if err := e.comms.UpdateStatus(ctx, communicationID, stats.Status, &now); err != nil {
		return nil, err
	}

	observeDispatch(string(stats.Status), time.Since(started).Seconds())

	logger.Info("dispatch pass finished",
		"communication_id", communicationID,
		"status", string(stats.Status),
		"recipients", stats.Recipients,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"duration_ms", time.Since(started).Milliseconds())

	return stats, nil
}

type targetOutcome struct {
	succeeded int
	failed    int
	byChannel map[model.Channel]*ChannelStats
}

// processTarget sends to every (contact, channel) pair of one target and
// persists the target's bookkeeping. The failed-attempt counter grows by
// one per failing send, so a group with several bounced members can cross
// the retry bound within a single pass. A target that resolves to no
// contacts is left untouched.
func (e *Engine) processTarget(ctx context.Context, comm *model.Communication, channels []model.Channel, entry *Resolved) *targetOutcome {
	outcome := &targetOutcome{byChannel: make(map[model.Channel]*ChannelStats)}
	for _, ch := range channels {
		outcome.byChannel[ch] = &ChannelStats{}
	}
	if len(entry.Contacts) == 0 {
		return outcome
	}

	target := entry.Target
	attempt := target.FailedAttempts + 1

	var lastFailure string
	for _, contact := range entry.Contacts {
		content := template.Render(comm.Content, contact)

		for _, ch := range channels {
			detail := e.sendOne(ctx, comm, contact, ch, content)

			logRow := &model.DeliveryLog{
				CommunicationID: comm.ID,
				ContactID:       contact.ID,
				Channel:         ch,
				Content:         content,
				Attempt:         attempt,
			}

			if detail == "" {
				logRow.Outcome = model.DeliveryOutcomeSuccess
				outcome.succeeded++
				outcome.byChannel[ch].Succeeded++
			} else {
				logRow.Outcome = model.DeliveryOutcomeFailure
				logRow.ErrorDetail = detail
				outcome.failed++
				outcome.byChannel[ch].Failed++
				lastFailure = detail
			}
			observeAttempt(string(ch), string(logRow.Outcome))

			if _, err := e.logs.Create(ctx, logRow); err != nil {
				logger.Error("failed to write delivery log",
					"communication_id", comm.ID,
					"contact_id", contact.ID,
					"error", err)
			}
		}
	}

	now := time.Now()
	if lastFailure == "" {
		target.DeliveryStatus = model.DeliveryStatusSent
		target.LastError = ""
		target.LastSentAt = &now
	} else {
		target.FailedAttempts += outcome.failed
		target.LastError = lastFailure
		if target.FailedAttempts >= model.MaxFailedAttempts {
			target.DeliveryStatus = model.DeliveryStatusFailed
		} else {
			target.DeliveryStatus = model.DeliveryStatusRetrying
		}
	}

	if err := e.comms.UpdateTarget(ctx, target); err != nil {
		logger.Error("failed to update target bookkeeping",
			"communication_id", comm.ID,
			"target_id", target.ID,
			"error", err)
	}

	return outcome
}

// sendOne performs one provider call. An empty return means success; a
// non-empty return is the recorded failure detail.
func (e *Engine) sendOne(ctx context.Context, comm *model.Communication, contact *model.Contact, ch model.Channel, content string) string {
	switch ch {
	case model.ChannelEmail:
		if !e.cfg.EmailEnabled {
			return ErrChannelDisabled.Error() + ": email"
		}
		if contact.Email == "" {
			return ErrMissingAddress.Error() + ": email"
		}
	case model.ChannelWhatsapp:
		if !e.cfg.WhatsappEnabled {
			return ErrChannelDisabled.Error() + ": whatsapp"
		}
		if contact.Whatsapp == "" {
			return ErrMissingAddress.Error() + ": whatsapp"
		}
	default:
		return "unknown channel: " + string(ch)
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return err.Error()
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	var (
		result *providers.Outcome
		err    error
	)
	if ch == model.ChannelEmail {
		result, err = e.email.SendEmail(callCtx, contact.Email, comm.Title, content)
	} else {
		result, err = e.messaging.SendMessage(callCtx, contact.Whatsapp, content)
	}

	if err != nil {
		return err.Error()
	}
	if !result.OK() {
		if result.Detail != "" {
			return result.Detail
		}
		return "provider rejected message"
	}
	return ""
}
