// cmd/historian/main.go

// The historian is a standalone worker that drains accepted game actions
// from the Redis queue and archives them in Postgres in batches. It is the
// only consumer of the queue the game service publishes to.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/signal"
	"sync"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/wizard-cards/wizard-service/internal/cache"
	"github.com/wizard-cards/wizard-service/internal/database"
)

type historian struct {
	logger     *logrus.Logger
	rdb        *redis.Client
	queue      string
	batchSize  int
	flushDelay time.Duration

	mu    sync.Mutex
	batch []cache.GameActionRecord
}

func main() {
	logger := logrus.New()

	if err := database.ConnectDB(); err != nil {
		logger.Fatalf("connect database: %v", err)
	}

	h := &historian{
		logger: logger,
		rdb: redis.NewClient(&redis.Options{
			Addr: cache.GetEnv("REDIS_ADDR", "localhost:6379"),
			DB:   cache.GetEnvInt("REDIS_DB", 0),
		}),
		queue:      cache.GetEnv("HISTORIAN_QUEUE_NAME", cache.DefaultQueueName),
		batchSize:  cache.GetEnvInt("HISTORIAN_BATCH_SIZE", 20),
		flushDelay: time.Duration(cache.GetEnvInt("HISTORIAN_FLUSH_MS", 500)) * time.Millisecond,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go h.flushLoop(ctx)
	logger.Info("wizard-historian started")
	h.readLoop(ctx)

	// Drain whatever is buffered before exit.
	h.flush(context.Background())
	logger.Info("wizard-historian stopped")
}

// readLoop blocks on the queue and appends records to the batch, flushing
// whenever it reaches the configured size.
func (h *historian) readLoop(ctx context.Context) {
	for {
		res, err := h.rdb.BLPop(ctx, 3*time.Second, h.queue).Result()
		if errors.Is(err, context.Canceled) {
			return
		}
		if err != nil && !errors.Is(err, redis.Nil) {
			h.logger.Warnf("blpop: %v", err)
			continue
		}
		if len(res) < 2 {
			continue
		}

		var rec cache.GameActionRecord
		if err := json.Unmarshal([]byte(res[1]), &rec); err != nil {
			h.logger.Warnf("skipping malformed record: %v", err)
			continue
		}

		h.mu.Lock()
		h.batch = append(h.batch, rec)
		full := len(h.batch) >= h.batchSize
		h.mu.Unlock()
		if full {
			h.flush(ctx)
		}
	}
}

// flushLoop flushes partial batches on a timer so records never sit in
// memory for long on a quiet table.
func (h *historian) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(h.flushDelay)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.flush(ctx)
		}
	}
}

func (h *historian) flush(ctx context.Context) {
	h.mu.Lock()
	batch := h.batch
	h.batch = nil
	h.mu.Unlock()
	if len(batch) == 0 {
		return
	}

	rows := make([][]interface{}, 0, len(batch))
	for _, rec := range batch {
		payload, err := json.Marshal(rec.ActionPayload)
		if err != nil {
			payload = []byte("{}")
		}
		rows = append(rows, []interface{}{
			rec.GameID,
			rec.ActionIndex,
			rec.ActorPlayerID,
			rec.ActionType,
			payload,
			time.UnixMilli(rec.Timestamp),
		})
	}

	insertCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := database.InsertGameActions(insertCtx, rows); err != nil {
		h.logger.Errorf("flush %d action(s): %v", len(rows), err)
		return
	}
	h.logger.Debugf("archived %d action(s)", len(rows))
}
