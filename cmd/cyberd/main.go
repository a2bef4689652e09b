package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/BitBrain19/Cyber/config"
	"github.com/BitBrain19/Cyber/internal/engine"
	"github.com/BitBrain19/Cyber/internal/fusion"
	"github.com/BitBrain19/Cyber/internal/graph"
	inputredis "github.com/BitBrain19/Cyber/internal/input/redis"
	"github.com/BitBrain19/Cyber/internal/logger"
	"github.com/BitBrain19/Cyber/internal/metrics"
	"github.com/BitBrain19/Cyber/internal/output/verdictch"
	"github.com/BitBrain19/Cyber/internal/output/verdicthttp"
	"github.com/BitBrain19/Cyber/internal/output/verdictjson"
	"github.com/BitBrain19/Cyber/internal/pipeline"
	"github.com/BitBrain19/Cyber/internal/rules"
	"github.com/BitBrain19/Cyber/internal/scorecache"
)

func findConfigFile(configArg string) string {
	if configArg != "" {
		path := configArg
		if _, err := os.Stat(path); err == nil {
			return path
		}
		log.Printf("Warning: config file not found at %s, trying default locations", path)
	}

	if _, err := os.Stat("cyber.yml"); err == nil {
		return "cyber.yml"
	}

	exePath, err := os.Executable()
	if err == nil {
		exeDir := filepath.Dir(exePath)
		path := filepath.Join(exeDir, "cyber.yml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return "cyber.yml"
}

func applyDefaults(cfg *config.Config) {
	if cfg.Cyber.Input.Redis.Addr == "" {
		cfg.Cyber.Input.Redis.Addr = "127.0.0.1:6379"
	}
	if cfg.Cyber.Input.Redis.Key == "" {
		cfg.Cyber.Input.Redis.Key = "security_events"
	}
	if cfg.Cyber.Input.Redis.BlockTimeout == 0 {
		cfg.Cyber.Input.Redis.BlockTimeout = 5 * time.Second
	}

	if cfg.Cyber.Pipeline.Workers <= 0 {
		cfg.Cyber.Pipeline.Workers = 8
	}
	if cfg.Cyber.Pipeline.BatchSize <= 0 {
		cfg.Cyber.Pipeline.BatchSize = 1000
	}
	if cfg.Cyber.Pipeline.FlushInterval <= 0 {
		cfg.Cyber.Pipeline.FlushInterval = 2 * time.Second
	}

	if cfg.Cyber.Provider.Mode == "" {
		cfg.Cyber.Provider.Mode = "baseline"
	}
	if cfg.Cyber.Provider.Timeout <= 0 {
		cfg.Cyber.Provider.Timeout = 2 * time.Second
	}

	if cfg.Cyber.Cache.Mode == "" {
		cfg.Cyber.Cache.Mode = "memory"
	}
	if cfg.Cyber.Cache.TTL <= 0 {
		cfg.Cyber.Cache.TTL = 5 * time.Minute
	}

	if cfg.Cyber.Discover.DefaultThreshold <= 0 {
		cfg.Cyber.Discover.DefaultThreshold = 0.5
	}

	if cfg.Cyber.Output.Mode == "" {
		cfg.Cyber.Output.Mode = "file"
	}
	if cfg.Cyber.Output.File.Path == "" {
		cfg.Cyber.Output.File.Path = "output/verdicts.jsonl"
	}
	if cfg.Cyber.Output.ClickHouse.Database == "" {
		cfg.Cyber.Output.ClickHouse.Database = "cyber"
	}
	if cfg.Cyber.Output.ClickHouse.Table == "" {
		cfg.Cyber.Output.ClickHouse.Table = "verdicts"
	}

	if cfg.Cyber.Metrics.Addr == "" {
		cfg.Cyber.Metrics.Addr = ":9135"
	}

	if cfg.Cyber.Logging.Level == "" {
		cfg.Cyber.Logging.Level = "info"
	}
}

func main() {
	configArg := ""
	if len(os.Args) > 1 {
		configArg = os.Args[1]
	}

	configPath := findConfigFile(configArg)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyDefaults(cfg)

	if err := logger.Init(cfg.Cyber.Logging.Enabled, cfg.Cyber.Logging.Level, cfg.Cyber.Logging.File, cfg.Cyber.Logging.Console); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Infof("Cyber starting")
	logger.Infof("Config loaded from: %s", configPath)

	consumer, err := inputredis.NewConsumer(inputredis.Config{
		Addr:         cfg.Cyber.Input.Redis.Addr,
		Password:     cfg.Cyber.Input.Redis.Password,
		DB:           cfg.Cyber.Input.Redis.DB,
		Key:          cfg.Cyber.Input.Redis.Key,
		BlockTimeout: cfg.Cyber.Input.Redis.BlockTimeout,
	})
	if err != nil {
		logger.Errorf("Failed to create Redis consumer: %v", err)
		log.Fatalf("Failed to create Redis consumer: %v", err)
	}

	assetGraph := graph.New()
	if path := strings.TrimSpace(cfg.Cyber.Inventory.Path); path != "" {
		loaded, err := engine.LoadInventory(assetGraph, path)
		if err != nil {
			logger.Errorf("Failed to load inventory: %v", err)
			log.Fatalf("Failed to load inventory: %v", err)
		}
		logger.Infof("Inventory loaded: %d assets from %s", loaded, path)
	}

	var ruleEngine rules.Engine
	if cfg.Cyber.Rules.Enabled {
		if strings.TrimSpace(cfg.Cyber.Rules.Path) == "" {
			logger.Warnf("Rules enabled but rules.path is empty; IOA tagging disabled")
		} else {
			sigmaEngine, stats, err := rules.NewSigmaEngine(cfg.Cyber.Rules.Path)
			if err != nil {
				logger.Errorf("Failed to load Sigma rules from %s: %v", cfg.Cyber.Rules.Path, err)
				log.Fatalf("Failed to load Sigma rules: %v", err)
			}
			ruleEngine = sigmaEngine
			logger.Infof("Sigma rules loaded: loaded=%d skipped_complex=%d skipped_invalid=%d files=%d",
				stats.Loaded,
				stats.SkippedComplex,
				stats.SkippedInvalid,
				stats.TotalFiles,
			)
			if stats.Loaded == 0 {
				logger.Warnf("No compatible Sigma rules loaded; IOA tagging is effectively disabled")
			}
		}
	}

	var provider fusion.ScoreProvider
	switch cfg.Cyber.Provider.Mode {
	case "baseline":
		provider = fusion.NewBaselineProvider()
		logger.Infof("Score provider: baseline heuristic")
	case "none":
		logger.Warnf("Score provider disabled; all verdicts will be degraded")
	default:
		log.Fatalf("Unknown provider mode: %s", cfg.Cyber.Provider.Mode)
	}

	var cacheStore scorecache.Store
	var redisStore *scorecache.RedisStore
	switch cfg.Cyber.Cache.Mode {
	case "memory":
		cacheStore = scorecache.NewMemoryStore()
		logger.Infof("Score cache: memory (ttl=%s)", cfg.Cyber.Cache.TTL)
	case "redis":
		redisStore, err = scorecache.NewRedisStore(scorecache.RedisConfig{
			Addr:      cfg.Cyber.Cache.Redis.Addr,
			Password:  cfg.Cyber.Cache.Redis.Password,
			DB:        cfg.Cyber.Cache.Redis.DB,
			KeyPrefix: cfg.Cyber.Cache.Redis.KeyPrefix,
		})
		if err != nil {
			logger.Errorf("Failed to create Redis cache store: %v", err)
			log.Fatalf("Failed to create Redis cache store: %v", err)
		}
		cacheStore = redisStore
		logger.Infof("Score cache: redis (%s, ttl=%s)", cfg.Cyber.Cache.Redis.Addr, cfg.Cyber.Cache.TTL)
	case "none":
		logger.Infof("Score cache disabled")
	default:
		log.Fatalf("Unknown cache mode: %s", cfg.Cyber.Cache.Mode)
	}

	var cache *scorecache.Cache
	if cacheStore != nil {
		cache = scorecache.New(cacheStore, assetGraph, cfg.Cyber.Cache.TTL)
	}

	eng := engine.New(assetGraph, engine.Options{
		Provider:        provider,
		ProviderTimeout: cfg.Cyber.Provider.Timeout,
		Cache:           cache,
		NarrowAfter:     cfg.Cyber.Discover.NarrowAfter,
	})

	var verdictWriter pipeline.VerdictWriter
	switch cfg.Cyber.Output.Mode {
	case "file":
		w, err := verdictjson.NewWriter(cfg.Cyber.Output.File.Path)
		if err != nil {
			logger.Errorf("Failed to create verdict file writer: %v", err)
			log.Fatalf("Failed to create verdict file writer: %v", err)
		}
		verdictWriter = w
		logger.Infof("Output mode: file (%s)", cfg.Cyber.Output.File.Path)
	case "http":
		w, err := verdicthttp.NewWriter(verdicthttp.Config{
			URL:     cfg.Cyber.Output.HTTP.URL,
			Timeout: cfg.Cyber.Output.HTTP.Timeout,
			Headers: cfg.Cyber.Output.HTTP.Headers,
		})
		if err != nil {
			logger.Errorf("Failed to create verdict HTTP writer: %v", err)
			log.Fatalf("Failed to create verdict HTTP writer: %v", err)
		}
		verdictWriter = w
		logger.Infof("Output mode: http (%s)", cfg.Cyber.Output.HTTP.URL)
	case "clickhouse":
		w, err := verdictch.NewWriter(verdictch.Config{
			URL:      cfg.Cyber.Output.ClickHouse.URL,
			Database: cfg.Cyber.Output.ClickHouse.Database,
			Table:    cfg.Cyber.Output.ClickHouse.Table,
			Username: cfg.Cyber.Output.ClickHouse.Username,
			Password: cfg.Cyber.Output.ClickHouse.Password,
			Timeout:  cfg.Cyber.Output.ClickHouse.Timeout,
			Headers:  cfg.Cyber.Output.ClickHouse.Headers,
		})
		if err != nil {
			logger.Errorf("Failed to create verdict ClickHouse writer: %v", err)
			log.Fatalf("Failed to create verdict ClickHouse writer: %v", err)
		}
		verdictWriter = w
		logger.Infof("Output mode: clickhouse (%s/%s.%s)", cfg.Cyber.Output.ClickHouse.URL, cfg.Cyber.Output.ClickHouse.Database, cfg.Cyber.Output.ClickHouse.Table)
	default:
		log.Fatalf("Unknown output mode: %s", cfg.Cyber.Output.Mode)
	}

	pipe := pipeline.NewIngestPipeline(
		consumer,
		ruleEngine,
		eng,
		verdictWriter,
		cfg.Cyber.Pipeline.Workers,
		cfg.Cyber.Pipeline.BatchSize,
		cfg.Cyber.Pipeline.FlushInterval,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(eng.Stats()); err != nil {
			logger.Warnf("Failed to write health response: %v", err)
		}
	})
	metricsServer := &http.Server{Addr: cfg.Cyber.Metrics.Addr, Handler: mux}
	go func() {
		logger.Infof("Metrics listening on %s", cfg.Cyber.Metrics.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("Metrics server error: %v", err)
		}
	}()

	go func() {
		if err := pipe.Run(ctx); err != nil && err != context.Canceled {
			logger.Errorf("Pipeline error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Infof("Shutting down")
	cancel()
	time.Sleep(1 * time.Second)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer shutdownCancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error closing metrics server: %v", err)
	}

	if err := pipe.Close(); err != nil {
		logger.Errorf("Error closing pipeline: %v", err)
	}
	if redisStore != nil {
		if err := redisStore.Close(); err != nil {
			logger.Errorf("Error closing cache store: %v", err)
		}
	}

	logger.Infof("Cyber stopped")
}
