// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"matchwise-workers/internal/common/aws"
	"matchwise-workers/internal/common/camunda"
	"matchwise-workers/internal/common/config"
	"matchwise-workers/internal/common/database"
	"matchwise-workers/internal/common/logger"
	"matchwise-workers/internal/common/observability"
	"matchwise-workers/internal/groq"
	"matchwise-workers/internal/matching"

	nmr "matchwise-workers/internal/workers/matching/notify-match-results"
	ram "matchwise-workers/internal/workers/matching/run-ai-matching"
	sc "matchwise-workers/internal/workers/matching/score-consultant"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
			RequestTimeout:         time.Duration(cfg.Camunda.Timeout) * time.Millisecond,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Shared Domain Services ---
	engine := matching.NewEngine(log)

	groqClient := groq.NewClient(cfg.APIs.Groq, log)
	if groqClient.Enabled() {
		zapLog.Info("GROQ remote scoring enabled", zap.String("model", cfg.APIs.Groq.Model))
	} else {
		zapLog.Info("GROQ remote scoring disabled, matching runs locally only")
	}

	var sesClient *aws.SESClient
	if cfg.Notifications.Email.Enabled {
		sesClient, err = aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
		zapLog.Info("SES client initialized", zap.String("region", cfg.Notifications.AWS.Region))
	}

	// --- Register Workers ---

	var workers []*camunda.CamundaWorker

	if cfg.Workers[ram.TaskType].Enabled {
		ramCfg := ram.LoadConfig()
		ramCfg.Timeout = time.Duration(cfg.Workers[ram.TaskType].Timeout) * time.Millisecond
		ramCfg.RemoteTimeout = time.Duration(cfg.APIs.Groq.Timeout) * time.Millisecond
		if cfg.Matching.RemoteMinScore > 0 {
			ramCfg.RemoteMinScore = cfg.Matching.RemoteMinScore
		}
		if cfg.Matching.LocalMinScore > 0 {
			ramCfg.LocalMinScore = cfg.Matching.LocalMinScore
		}
		if cfg.Matching.MaxResults > 0 {
			ramCfg.MaxResults = cfg.Matching.MaxResults
		}
		if cfg.Matching.CacheTTL > 0 {
			ramCfg.CacheTTL = time.Duration(cfg.Matching.CacheTTL) * time.Second
		}

		store := ram.NewStore(pg.DB, redis.Client, ramCfg)
		local := ram.NewLocalScorer(engine, ramCfg.LocalMinScore, ramCfg.MaxResults)

		var remote ram.MatchScorer
		if groqClient.Enabled() {
			remote = ram.NewRemoteScorer(groqClient, ramCfg.RemoteMinScore, ramCfg.MaxResults, log)
		}

		handler := ram.NewHandler(ramCfg, store, remote, local, obs, log)
		workers = append(workers, startWorker(camundaClient, ram.TaskType, cfg.Workers[ram.TaskType], handler, zapLog))
	}

	if cfg.Workers[sc.TaskType].Enabled {
		scCfg := &sc.Config{
			Timeout:  time.Duration(cfg.Workers[sc.TaskType].Timeout) * time.Millisecond,
			CacheTTL: 10 * time.Minute,
		}
		if cfg.Matching.CacheTTL > 0 {
			scCfg.CacheTTL = time.Duration(cfg.Matching.CacheTTL) * time.Second
		}

		handler := sc.NewHandler(scCfg, pg.DB, redis.Client, engine, log)
		workers = append(workers, startWorker(camundaClient, sc.TaskType, cfg.Workers[sc.TaskType], handler, zapLog))
	}

	if cfg.Workers[nmr.TaskType].Enabled {
		nmrCfg := &nmr.Config{
			Timeout:   time.Duration(cfg.Workers[nmr.TaskType].Timeout) * time.Millisecond,
			Enabled:   cfg.Notifications.Email.Enabled,
			FromEmail: cfg.Notifications.Email.FromEmail,
		}

		var sender nmr.EmailSender
		if sesClient != nil {
			sender = sesClient
		}

		handler := nmr.NewHandler(nmrCfg, pg.DB, sender, log)
		workers = append(workers, startWorker(camundaClient, nmr.TaskType, cfg.Workers[nmr.TaskType], handler, zapLog))
	}

	zapLog.Info("All workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		if w != nil {
			w.Stop(shutdownCtx)
		}
	}

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client *camunda.Client, taskType string, wcfg config.WorkerConfig, handler camunda.JobHandler, log *zap.Logger) *camunda.CamundaWorker {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return nil
	}

	w := camunda.NewWorker(
		client.GetClient(),
		taskType,
		wcfg.MaxJobsActive,
		time.Duration(wcfg.Timeout)*time.Millisecond,
		handler,
		log,
	)

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)

	return w
}
