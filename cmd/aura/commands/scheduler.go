package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/aura/backend/internal/api/handlers"
	"github.com/wonny/aura/backend/internal/archive"
	"github.com/wonny/aura/backend/internal/scheduler"
	"github.com/wonny/aura/backend/internal/scheduler/jobs"
	"github.com/wonny/aura/backend/internal/store"
	"github.com/wonny/aura/backend/pkg/database"
	"github.com/wonny/aura/backend/pkg/logger"
	"github.com/wonny/aura/backend/pkg/redis"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄 작업 관리",
	Long: `데이터셋 재생성 작업을 조회하거나 즉시 실행합니다.

Subcommands:
  list    - 등록된 작업과 스케줄
  run     - 작업 즉시 실행 (Redis 사용 시 다른 레플리카도 새 데이터셋으로 교체)

REGENERATE_SCHEDULE 미설정 시 매시 정각 스케줄로 등록합니다.
API 서버는 REGENERATE_SCHEDULE 이 있을 때만 작업을 등록합니다.

Example:
  go run ./cmd/aura scheduler list
  go run ./cmd/aura scheduler run regenerate_dataset`,
}

var (
	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  runSchedulerList,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchedulerJob,
	}
)

// defaultRegenerateSchedule CLI 전용 기본값 (매시 정각)
const defaultRegenerateSchedule = "0 0 * * * *"

// historyShown 실행 후 출력할 최근 결과 수
const historyShown = 5

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

// newScheduler registers the regenerate job under schedule
// ⭐ SSOT: 작업 등록은 여기서만 (api / scheduler 명령 공용)
func newScheduler(
	schedule string,
	loader *store.Loader,
	st *store.Store,
	hub jobs.Broadcaster,
	rc *redis.Client,
	archiver jobs.Archiver,
	log *logger.Logger,
) (*scheduler.Scheduler, error) {
	sched := scheduler.New(log, scheduler.DefaultOptions)
	job := jobs.NewRegenerateJob(schedule, loader, st, hub, rc, archiver, log)
	if err := sched.AddJob(job); err != nil {
		return nil, fmt.Errorf("register regenerate job: %w", err)
	}
	return sched, nil
}

// openArchive connects to the database when DATABASE_URL is set.
// Returns nil, nil, nil when it is not.
func openArchive(ctx context.Context, d *deps) (*database.DB, jobs.Archiver, error) {
	db, err := database.New(ctx, d.cfg)
	if errors.Is(err, database.ErrNotConfigured) {
		d.log.Debug("DATABASE_URL not set, snapshot archive disabled")
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	repo := archive.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ensure archive schema: %w", err)
	}
	d.log.Info("Connected to database")
	return db, repo, nil
}

func regenerateSchedule(d *deps) string {
	if s := d.cfg.Generator.RegenerateSchedule; s != "" {
		return s
	}
	return defaultRegenerateSchedule
}

func runSchedulerList(cmd *cobra.Command, args []string) error {
	d, err := initDeps()
	if err != nil {
		return err
	}

	// 목록 조회만 → 데이터셋/외부 연결 없이 등록
	sched, err := newScheduler(regenerateSchedule(d), nil, nil, nil, redis.Disabled(), nil, d.log)
	if err != nil {
		return err
	}
	stats := sched.Stats()

	fmt.Println("Registered jobs:")
	for _, name := range sched.Jobs() {
		fmt.Printf("  - %s  [%s]\n", name, stats[name].Schedule)
	}
	if d.cfg.Generator.RegenerateSchedule == "" {
		PrintInfo("REGENERATE_SCHEDULE not set: API server runs without scheduled jobs")
	}
	return nil
}

func runSchedulerJob(cmd *cobra.Command, args []string) error {
	name := args[0]

	d, err := initDeps()
	if err != nil {
		return err
	}
	log := d.log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rc, err := redis.New(ctx, d.cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer rc.Close()

	db, archiver, err := openArchive(ctx, d)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	loader := store.NewLoader(d.gen, redis.NewCache(rc, "aura"), d.cfg.Redis.TTL, log)
	ds, err := loader.Load(ctx, d.seed)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	st := store.New(d.table, ds)

	hub := handlers.NewHub(log)
	defer hub.Close()

	sched, err := newScheduler(regenerateSchedule(d), loader, st, hub, rc, archiver, log)
	if err != nil {
		return err
	}

	fmt.Printf("Running job: %s\n", name)
	result, err := sched.RunNow(ctx, name)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	history, err := sched.History(name)
	if err != nil {
		return err
	}

	PrintSeparator()
	for _, r := range history.Latest(historyShown) {
		status := "ok"
		if !r.Success {
			status = "FAILED: " + r.Error
		}
		fmt.Printf("  %s  attempts=%d  duration=%s  %s\n",
			r.StartTime.Format("2006-01-02 15:04:05"), r.Attempts, r.Duration.Round(time.Millisecond), status)
	}
	PrintSeparator()

	if !result.Success {
		log.Warnf("Job %s failed after %d attempts", name, result.Attempts)
		return fmt.Errorf("job %s failed: %s", name, result.Error)
	}

	if cur := st.Current(); cur != nil {
		PrintSuccess(fmt.Sprintf("Dataset %s → %s (seed %d)", ds.ID, cur.ID, cur.Seed))
	}
	return nil
}
