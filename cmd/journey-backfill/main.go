// Command journey-backfill recomputes stored journey insights for every
// lead. Run it after a scoring change so existing journeys pick up the new
// stage, probability and recommendation without waiting for traffic.
package main

import (
	"context"
	"flag"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"dealer_portal_backend/internal/events"
	"dealer_portal_backend/internal/journey/domain"
	journeyrepo "dealer_portal_backend/internal/journey/repository"
	journeysvc "dealer_portal_backend/internal/journey/service"
	"dealer_portal_backend/platform/config"
	"dealer_portal_backend/platform/db"
	"dealer_portal_backend/platform/logger"
)

func main() {
	var (
		batchSize = flag.Int("batch", 200, "leads fetched per page")
		workers   = flag.Int("workers", 8, "concurrent recomputes")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting journey backfill", "batch", *batchSize, "workers", *workers)

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	repo := journeyrepo.New(pool, log)
	svc := journeysvc.New(repo, domain.NewFactory(nil, nil), eventBus, log, nil)

	var processed, failed atomic.Int64

	cursor := uuid.Nil
	for {
		leadIDs, err := repo.ListLeadIDs(ctx, *batchSize, cursor)
		if err != nil {
			log.Error("failed to list journeys", "error", err)
			break
		}
		if len(leadIDs) == 0 {
			break
		}
		cursor = leadIDs[len(leadIDs)-1]

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(*workers)
		for _, leadID := range leadIDs {
			g.Go(func() error {
				processed.Add(1)
				if result := svc.Recompute(gctx, leadID); !result.Persisted {
					failed.Add(1)
				}
				return nil
			})
		}
		// Workers only count failures, so Wait cannot return an error here.
		_ = g.Wait()
	}

	log.Info("journey backfill completed", "processed", processed.Load(), "failed", failed.Load())
}
