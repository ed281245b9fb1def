// cmd/api/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	scs "github.com/alexedwards/scs/v2"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/learnscout/learnscout/internal/auth"
	"github.com/learnscout/learnscout/internal/cache"
	"github.com/learnscout/learnscout/internal/config"
	"github.com/learnscout/learnscout/internal/history"
	appmw "github.com/learnscout/learnscout/internal/http/middleware"
	"github.com/learnscout/learnscout/internal/http/routes"
	"github.com/learnscout/learnscout/internal/quota"
	"github.com/learnscout/learnscout/internal/recommend"
	"github.com/learnscout/learnscout/internal/search"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	log.Printf("starting app on :%s", cfg.Port)

	// Redis (quota counters + result cache)
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close() //nolint:errcheck

	// Sessions: guests that do not bring their own session id get a stable
	// one from the session cookie.
	sess := scs.New()
	sess.Lifetime = 24 * time.Hour
	sess.Cookie.HttpOnly = true
	sess.Cookie.SameSite = http.SameSiteLaxMode
	sess.Cookie.Secure = false

	// Quota + cache over the shared Redis client
	quotaStore := quota.NewStore(rdb, cfg.Search.StoreTimeout, logger)
	limiter := quota.NewLimiter(quotaStore, cfg.Search.FreeLimit)
	results := cache.NewResultCache(rdb, cfg.Search.CacheTTL(), cfg.Search.StoreTimeout, logger)

	// Recommender: OpenAI if configured, fallback-only otherwise
	var rec search.Recommender
	if cfg.HasOpenAI() {
		client, err := recommend.NewClient(cfg.OpenAI.APIKey,
			recommend.WithBaseURL(cfg.OpenAI.BaseURL),
			recommend.WithModel(cfg.OpenAI.Model),
		)
		if err != nil {
			log.Fatalf("recommender error: %v", err)
		}
		rec = client
	} else {
		logger.Warn().Msg("OPENAI_API_KEY not set, serving fallback results only")
		rec = fallbackOnly{}
	}

	gateway := search.NewGateway(limiter, results, rec, logger)

	// History store + job queue (optional; API runs without Postgres)
	var hist routes.HistoryLister
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db error: %v", err)
		}
		defer pool.Close()
		hist = history.NewStore(pool)
	}

	jobsClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer jobsClient.Close() //nolint:errcheck

	// Per-IP burst throttle in front of the quota check
	throttle := appmw.NewThrottleStore(5, 10)
	throttle.StartJanitor(context.Background())

	s := routes.New(routes.ServerOptions{
		Sess:     sess,
		Gateway:  gateway,
		Quota:    quotaStore,
		History:  hist,
		Jobs:     jobsClient,
		Verifier: auth.Token{Secret: []byte(cfg.AuthSecret)},
		Throttle: throttle,
		Log:      logger,
	})
	h := hlog.NewHandler(logger)(s.Router)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: sess.LoadAndSave(h)}
	log.Fatal(srv.ListenAndServe())
}

// fallbackOnly stands in for the AI recommender when no key is configured.
// Returning an empty list makes the gateway use the built-in catalogue.
type fallbackOnly struct{}

func (fallbackOnly) Recommend(context.Context, string, recommend.Filters) ([]recommend.Candidate, error) {
	return nil, nil
}
