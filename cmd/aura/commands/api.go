package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/aura/backend/internal/api"
	"github.com/wonny/aura/backend/internal/api/handlers"
	"github.com/wonny/aura/backend/internal/store"
	"github.com/wonny/aura/backend/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `재무 데이터 API 서버를 시작합니다.

이 명령어는:
- 시작 시 데이터셋을 한 번 생성 (Redis 사용 시 레플리카 간 공유)
- /finance_data 엔드포인트 제공
- REGENERATE_SCHEDULE 설정 시 주기적으로 재생성

Endpoints:
  GET  /ping                 - Liveness
  GET  /health               - Dataset / Redis / DB 상태
  GET  /finance_data         - company, sheet, periods 조회
  GET  /api/companies        - 회사 목록
  GET  /api/periods          - 기간 목록
  GET  /api/dataset          - 현재 데이터셋 메타데이터
  GET  /ws/updates           - 재생성 이벤트 (WebSocket)

Example:
  go run ./cmd/aura api
  go run ./cmd/aura api --port 8080 --seed 42`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== AURA Finance API Server ===")

	// 1. Config, logger, profiles, generator
	d, err := initDeps()
	if err != nil {
		return err
	}
	cfg, log := d.cfg, d.log

	if apiPort != "" {
		cfg.Port = apiPort
	}

	log.WithFields(map[string]interface{}{
		"port":     cfg.Port,
		"env":      cfg.Env,
		"profiles": d.table.IDs(),
	}).Info("Initializing API server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Redis (optional)
	rc, err := redis.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer rc.Close()
	if rc.Enabled() {
		log.Info("Connected to redis")
	}

	// 3. Initial dataset
	loader := store.NewLoader(d.gen, redis.NewCache(rc, "aura"), cfg.Redis.TTL, log)
	ds, err := loader.Load(ctx, d.seed)
	if err != nil {
		return fmt.Errorf("generate initial dataset: %w", err)
	}
	st := store.New(d.table, ds)

	// 4. Database (optional, snapshot archive)
	db, archiver, err := openArchive(ctx, d)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	// 5. Handlers and router
	hub := handlers.NewHub(log)
	defer hub.Close()

	routes := api.Routes{
		Finance: handlers.NewFinanceHandler(st, log),
		Health:  handlers.NewHealthHandler(st, rc, db),
		Hub:     hub,
	}
	if cfg.RateLimit.Enabled {
		routes.Limiter = newLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, rc)
	}
	router := api.NewRouter(routes, log)

	// 6. Scheduler (optional periodic regeneration)
	if cfg.Generator.RegenerateSchedule != "" {
		sched, err := newScheduler(cfg.Generator.RegenerateSchedule, loader, st, hub, rc, archiver, log)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	// 7. Follow datasets regenerated by other replicas
	go func() {
		if err := store.Follow(ctx, rc, st, loader, hub.Broadcast, log); err != nil {
			log.WithError(err).Error("Dataset follower stopped")
		}
	}()

	// 8. Start server with graceful shutdown
	server := api.New(cfg, log, router)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	log.WithFields(map[string]interface{}{
		"dataset_id": ds.ID,
		"seed":       ds.Seed,
	}).Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /ping")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /finance_data?company=aura&sheet=合并-bs&periods=2024,2025_Q1")
	fmt.Println("  GET  /api/companies")
	fmt.Println("  GET  /api/periods")
	fmt.Println("  GET  /ws/updates")
	fmt.Println("\nPress Ctrl+C to stop")

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// newLimiter picks the shared Redis window when available, otherwise a per-process bucket
func newLimiter(rps float64, burst int, rc *redis.Client) api.Limiter {
	if rc.Enabled() {
		// burst 요청을 burst/rps 초 창에 허용
		window := time.Duration(float64(burst) / rps * float64(time.Second))
		if window < time.Second {
			window = time.Second
		}
		return redis.NewRateLimiter(rc, "aura", burst, window)
	}
	return api.NewLocalLimiter(rps, burst)
}
