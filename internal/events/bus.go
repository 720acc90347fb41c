package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/verdantstack/farmops-backend/internal/platform/envutil"
	"github.com/verdantstack/farmops-backend/internal/platform/logger"
)

const (
	TypeOccupantProvisioned = "occupant.provisioned"
	TypeOccupantMoved       = "occupant.moved"
	TypeOccupantReleased    = "occupant.released"
	TypeOccupantDisposed    = "occupant.disposed"
	TypeSnapshotRecorded    = "snapshot.recorded"
	TypeRecipeApplied       = "recipe.applied"
)

// Event is the payload pushed to dashboard consumers when inventory or
// recipe state changes. Published after the owning transaction commits;
// delivery is best-effort.
type Event struct {
	Type        string                 `json:"type"`
	ContainerID uuid.UUID              `json:"container_id"`
	SubjectID   uuid.UUID              `json:"subject_id"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	At          time.Time              `json:"at"`
}

type Bus interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type redisBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// NewRedisBus connects to REDIS_ADDR (logical database REDIS_DB) and
// publishes on REDIS_CHANNEL (default "farmops.events"). Callers treat a
// nil bus as "events off".
func NewRedisBus(log *logger.Logger) (Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(envutil.GetEnv("REDIS_ADDR", "", log))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	channel := envutil.GetEnv("REDIS_CHANNEL", "farmops.events", log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DB:          envutil.GetEnvAsInt("REDIS_DB", 0, log),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisBus{
		log:     log.With("service", "RedisEventBus"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (b *redisBus) Publish(ctx context.Context, event Event) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("event bus not initialized")
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *redisBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
