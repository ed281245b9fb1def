package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnscout/learnscout/internal/config"
	"github.com/learnscout/learnscout/internal/history"
	"github.com/learnscout/learnscout/internal/jobs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL required for worker")
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal("unable to connect to database:", err)
	}
	defer pool.Close()
	store := history.NewStore(pool)

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, asynq.Config{
		Concurrency: 8,
		Queues: map[string]int{
			"history": 10,
			"default": 5,
		},
	})
	mux := asynq.NewServeMux()

	mux.HandleFunc(jobs.TaskRecordSearch, func(ctx context.Context, t *asynq.Task) error {
		var p jobs.RecordSearchPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			log.Printf("[history] bad payload: %v", err)
			return nil // not retryable
		}
		err := store.Record(ctx, history.Entry{
			UserID:      p.UserID,
			Query:       p.Query,
			Filters:     p.Filters,
			ResultCount: p.ResultCount,
		})
		if err != nil {
			log.Printf("[history] record failed user=%s: %v", p.UserID, err)
			return err // retry on DB trouble
		}
		return nil
	})

	log.Println("Worker running...")
	log.Fatal(srv.Run(mux))
}
