package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"dealer_portal_backend/platform/config"
)

type Client struct {
	client *asynq.Client
	queue  string
}

// RecomputeScheduler enqueues journey recomputes for other modules.
type RecomputeScheduler interface {
	EnqueueJourneyRecompute(ctx context.Context, leadID uuid.UUID) error
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

func (c *Client) EnqueueJourneyRecompute(ctx context.Context, leadID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewJourneyRecomputeTask(JourneyRecomputePayload{LeadID: leadID.String()})
	if err != nil {
		return err
	}

	// TaskID keyed on the lead collapses duplicate recomputes already queued.
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue), asynq.TaskID("journey-recompute-"+leadID.String()))
	if err != nil && err != asynq.ErrTaskIDConflict {
		return err
	}
	return nil
}

func (c *Client) EnqueueStaleSweep(ctx context.Context, olderThanHours int) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewJourneyStaleSweepTask(JourneyStaleSweepPayload{OlderThanHours: olderThanHours})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}

var _ RecomputeScheduler = (*Client)(nil)
