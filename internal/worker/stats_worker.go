package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/quizshare/quizshare-backend/internal/config"
	"github.com/quizshare/quizshare-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	StatsBatchSize    = 50
	StatsBatchTimeout = 2 * time.Second
	StatsPollTimeout  = 1 * time.Second
)

// StatsWorker consumes submission events from the Redis queue and
// maintains per-test counters (submission count, last submission time).
// Counters are convenience data for owner listings; losing them is
// acceptable since results live in Postgres.
type StatsWorker struct {
	rdb *redis.Client
	log zerolog.Logger
}

func NewStatsWorker(rdb *redis.Client, log zerolog.Logger) *StatsWorker {
	return &StatsWorker{
		rdb: rdb,
		log: log.With().Str("component", "stats_worker").Logger(),
	}
}

// Start runs the consume loop until ctx is cancelled, flushing batches
// when full or after the batch timeout. The remaining batch is flushed
// on shutdown.
func (w *StatsWorker) Start(ctx context.Context) {
	w.log.Info().Msg("StatsWorker started")

	batch := make([]*model.SubmissionEvent, 0, StatsBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= StatsBatchSize || time.Since(lastFlush) >= StatsBatchTimeout) {

			w.flush(context.Background(), batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flush(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, StatsPollTimeout, config.WorkerKey.SubmissionEventsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var ev model.SubmissionEvent
			if err := json.Unmarshal([]byte(item[1]), &ev); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &ev)
		}
	}
}

// flush aggregates the batch per test and applies it in one pipeline.
func (w *StatsWorker) flush(ctx context.Context, batch []*model.SubmissionEvent) {
	if len(batch) == 0 {
		return
	}

	counts := make(map[string]int64)
	lastAt := make(map[string]int64)
	for _, ev := range batch {
		counts[ev.TestID]++
		if ev.SubmittedAt > lastAt[ev.TestID] {
			lastAt[ev.TestID] = ev.SubmittedAt
		}
	}

	pipe := w.rdb.Pipeline()
	for testID, n := range counts {
		key := config.CacheKey.TestStatsKey(testID)
		pipe.HIncrBy(ctx, key, "submissions", n)
		pipe.HSet(ctx, key, "last_submitted_at", lastAt[testID])
	}

	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Error().Err(err).Int("batch", len(batch)).Msg("stats flush failed")
	}
}
