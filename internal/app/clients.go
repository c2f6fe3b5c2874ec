package app

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/coursehub-backend/internal/clients/midtrans"
	"github.com/yungbote/coursehub-backend/internal/clients/redis"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/realtime/bus"
)

type Clients struct {
	// Redis is nil when REDIS_ADDR is unset.
	Redis *goredis.Client
	// Gateway is nil when MIDTRANS_SERVER_KEY is unset.
	Gateway midtrans.Gateway
	Bus     bus.Bus
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	rdb, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return out, fmt.Errorf("init redis: %w", err)
	}
	if rdb != nil {
		out.Redis = rdb
		b, err := bus.NewRedisBus(log, rdb, cfg.RedisChannel)
		if err != nil {
			_ = rdb.Close()
			return out, fmt.Errorf("init event bus: %w", err)
		}
		out.Bus = b
		log.Info("redis connected", "addr", cfg.Redis.Addr, "channel", cfg.RedisChannel)
	} else {
		out.Bus = bus.NewMemoryBus(false)
		log.Warn("REDIS_ADDR not set; using in-process cache and event bus")
	}

	if cfg.Midtrans.ServerKey != "" {
		gw, err := midtrans.NewGateway(cfg.Midtrans)
		if err != nil {
			return out, fmt.Errorf("init midtrans: %w", err)
		}
		out.Gateway = gw
	} else {
		log.Warn("MIDTRANS_SERVER_KEY not set; paid checkout disabled")
	}
	return out, nil
}

// redisOrNil keeps a nil *goredis.Client from becoming a non-nil interface.
func (c Clients) redisOrNil() goredis.UniversalClient {
	if c.Redis == nil {
		return nil
	}
	return c.Redis
}

func (c Clients) Close() {
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
