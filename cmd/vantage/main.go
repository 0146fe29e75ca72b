package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/fortuna/vantage/internal/adapter"
	"github.com/fortuna/vantage/internal/adapter/basketball"
	"github.com/fortuna/vantage/internal/adapter/mma"
	"github.com/fortuna/vantage/internal/adapter/soccer"
	"github.com/fortuna/vantage/internal/api/rest"
	"github.com/fortuna/vantage/internal/api/stream"
	"github.com/fortuna/vantage/internal/cache"
	"github.com/fortuna/vantage/internal/datalayer"
	"github.com/fortuna/vantage/internal/edge"
	"github.com/fortuna/vantage/internal/metrics"
	"github.com/fortuna/vantage/internal/provider/fightapi"
	"github.com/fortuna/vantage/internal/provider/injurywire"
	"github.com/fortuna/vantage/internal/provider/oddsfeed"
	"github.com/fortuna/vantage/internal/provider/statsapi"
	"github.com/fortuna/vantage/internal/publisher"
	"github.com/fortuna/vantage/internal/snapshot"
)

const (
	serviceName    = "vantage"
	serviceVersion = "1.0.0"
)

func main() {
	log.Printf("Starting %s v%s - Sports Data & Value Detection Service", serviceName, serviceVersion)

	config := loadConfig()

	// Cache: Redis when reachable, in-process otherwise. A cache fault is
	// never fatal anywhere downstream, so neither is a missing Redis.
	var store cache.Store
	var redisCache *cache.Redis
	if config.RedisURL != "" {
		var err error
		maxRetries := 10
		retryDelay := 2 * time.Second

		log.Println("Connecting to Redis...")
		for i := 0; i < maxRetries; i++ {
			redisCache, err = cache.NewRedis(config.RedisURL)
			if err == nil {
				break
			}
			if i < maxRetries-1 {
				log.Printf("Redis connection attempt %d/%d failed: %v (retrying in %v)", i+1, maxRetries, err, retryDelay)
				time.Sleep(retryDelay)
			}
		}
		if redisCache != nil {
			defer redisCache.Close()
			store = redisCache
			log.Println("✓ Connected to Redis")
		} else {
			log.Printf("⚠️  Redis unavailable after %d attempts, using in-memory cache", maxRetries)
		}
	}
	if store == nil {
		store = cache.NewMemory()
		log.Println("✓ Using in-memory cache")
	}

	// Snapshot store is best effort: without it the service runs, it just
	// keeps no odds or signal history.
	var snaps *snapshot.Store
	if config.SnapshotDSN != "" {
		var err error
		snaps, err = snapshot.New(config.SnapshotDSN)
		if err != nil {
			log.Printf("⚠️  Snapshot store unavailable: %v (continuing without history)", err)
			snaps = nil
		} else {
			defer snaps.Close()
			log.Println("✓ Connected to snapshot store")
		}
	}

	// Provider clients
	statsClient := statsapi.NewClient(config.StatsAPIKey)
	fightClient := fightapi.NewClient(config.FightAPIKey)
	injuryClient := injurywire.NewClient()
	oddsClient := oddsfeed.NewClient(config.OddsAPIKey)

	adapters := []adapter.SportAdapter{
		basketball.New(statsClient, injuryClient, store),
		soccer.New(statsClient, injuryClient, store),
		mma.New(fightClient, store),
	}
	for _, a := range adapters {
		if a.IsAvailable() {
			log.Printf("✓ %s adapter configured", a.Sport())
		} else {
			log.Printf("⚠️  %s adapter not configured (missing credential)", a.Sport())
		}
	}

	m := metrics.Default()

	engine := edge.New(&edge.Config{MinEdge: config.MinEdge})

	facadeOpts := []datalayer.Option{
		datalayer.WithOddsSource(oddsClient),
		datalayer.WithEngine(engine),
		datalayer.WithMetrics(m),
	}
	if snaps != nil {
		facadeOpts = append(facadeOpts, datalayer.WithSnapshots(snaps))
	}
	facade := datalayer.New(adapters, facadeOpts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Signal stream
	hub := stream.NewHub()
	go hub.Run(ctx)
	log.Println("✓ Signal stream started")

	// Signal publisher reuses the cache Redis; without Redis signals still
	// reach WebSocket clients.
	var pub *publisher.RedisPublisher
	if redisCache != nil {
		var err error
		pub, err = publisher.NewRedisPublisher(config.RedisURL)
		if err != nil {
			log.Printf("⚠️  Signal publisher unavailable: %v (WebSocket only)", err)
			pub = nil
		} else {
			defer pub.Close()
			log.Println("✓ Signal publisher connected")
		}
	}

	facade.OnSignal(func(sig datalayer.Signal) {
		hub.Broadcast(sig)
		if pub != nil {
			pub.Publish(sig)
		}
	})

	// Health probes for /health
	checkers := map[string]func() error{}
	if redisCache != nil {
		checkers["redis"] = func() error {
			probeCtx, probeCancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer probeCancel()
			return redisCache.HealthCheck(probeCtx)
		}
	}
	if snaps != nil {
		checkers["snapshots"] = snaps.HealthCheck
	}

	restServer := rest.NewServer(config.RESTPort, facade, hub, m, checkers)
	go func() {
		log.Printf("Starting REST API server on port %s", config.RESTPort)
		if err := restServer.Start(); err != nil {
			log.Printf("REST server error: %v", err)
		}
	}()

	log.Printf("✓ %s v%s started successfully", serviceName, serviceVersion)
	log.Printf("  REST API: http://0.0.0.0:%s", config.RESTPort)
	log.Printf("  Signals:  ws://0.0.0.0:%s/ws/signals", config.RESTPort)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("REST API server shutdown error: %v", err)
	}

	log.Printf("%s stopped", serviceName)
}

type Config struct {
	RedisURL    string
	SnapshotDSN string
	RESTPort    string
	StatsAPIKey string
	FightAPIKey string
	OddsAPIKey  string
	MinEdge     float64
}

func loadConfig() Config {
	return Config{
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		SnapshotDSN: getEnv("SNAPSHOT_DSN", ""),
		RESTPort:    getEnv("REST_PORT", "8080"),
		StatsAPIKey: getEnv("STATS_API_KEY", ""),
		FightAPIKey: getEnv("FIGHT_API_KEY", ""),
		OddsAPIKey:  getEnv("ODDS_API_KEY", ""),
		MinEdge:     getEnvFloat("MIN_EDGE_PERCENT", 3.0),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
