package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	journeysvc "dealer_portal_backend/internal/journey/service"
	"dealer_portal_backend/platform/config"
	"dealer_portal_backend/platform/logger"
)

const defaultStaleSweepHours = 24

// StaleLeadLister finds journeys whose insights have not been refreshed
// recently. Implemented by the journey repository.
type StaleLeadLister interface {
	ListStaleLeadIDs(ctx context.Context, olderThan time.Time) ([]uuid.UUID, error)
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	svc    *journeysvc.Service
	stale  StaleLeadLister
	client RecomputeScheduler
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, svc *journeysvc.Service, stale StaleLeadLister, client RecomputeScheduler, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		svc:    svc,
		stale:  stale,
		client: client,
		log:    log,
	}

	mux.HandleFunc(TaskJourneyRecompute, w.handleJourneyRecompute)
	mux.HandleFunc(TaskJourneyStaleSweep, w.handleStaleSweep)

	return w, nil
}

func (w *Worker) handleJourneyRecompute(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseJourneyRecomputePayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	result := w.svc.Recompute(ctx, leadID)
	if !result.Persisted {
		return fmt.Errorf("journey recompute for %s not persisted", leadID)
	}
	return nil
}

// handleStaleSweep fans the sweep out into one recompute task per stale
// lead so failures retry per lead, not per sweep.
func (w *Worker) handleStaleSweep(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseJourneyStaleSweepPayload(task)
	if err != nil {
		return err
	}
	hours := payload.OlderThanHours
	if hours <= 0 {
		hours = defaultStaleSweepHours
	}

	leadIDs, err := w.stale.ListStaleLeadIDs(ctx, time.Now().Add(-time.Duration(hours)*time.Hour))
	if err != nil {
		return err
	}

	var failed int
	for _, leadID := range leadIDs {
		if err := w.client.EnqueueJourneyRecompute(ctx, leadID); err != nil {
			w.log.Warn("failed to enqueue stale recompute", "leadId", leadID, "error", err)
			failed++
		}
	}
	w.log.Info("stale journey sweep enqueued", "leads", len(leadIDs), "failed", failed)

	if failed > 0 {
		return fmt.Errorf("stale sweep: %d of %d enqueues failed", failed, len(leadIDs))
	}
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
