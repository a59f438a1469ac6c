package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/aura/backend/internal/archive"
	"github.com/wonny/aura/backend/pkg/database"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "데이터셋 스냅샷 보관 (PostgreSQL)",
	Long: `생성된 데이터셋을 PostgreSQL 에 보관하고 조회합니다.
DATABASE_URL 이 필요합니다.

명령어:
  save   데이터셋을 생성해 보관
  list   최근 스냅샷 목록
  show   스냅샷 하나의 회사/기간 요약`,
}

var (
	snapshotLimit int
)

var snapshotSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "데이터셋 생성 후 보관",
	Long: `Example:
  go run ./cmd/aura snapshot save --seed 42`,
	RunE: runSnapshotSave,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "최근 스냅샷 목록",
	RunE:  runSnapshotList,
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show [snapshot_id]",
	Short: "스냅샷 요약",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotShow,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)

	snapshotListCmd.Flags().IntVar(&snapshotLimit, "limit", 20, "최대 개수")
}

// initArchive connects to the database and prepares the archive schema
func initArchive(ctx context.Context) (*deps, *database.DB, *archive.Repository, error) {
	d, err := initDeps()
	if err != nil {
		return nil, nil, nil, err
	}

	db, err := database.New(ctx, d.cfg)
	if errors.Is(err, database.ErrNotConfigured) {
		return nil, nil, nil, fmt.Errorf("snapshot commands require DATABASE_URL")
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	repo := archive.NewRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("ensure archive schema: %w", err)
	}
	return d, db, repo, nil
}

func runSnapshotSave(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	d, db, repo, err := initArchive(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	start := time.Now()
	ds, err := d.gen.Generate(d.seed)
	if err != nil {
		return fmt.Errorf("generate dataset: %w", err)
	}

	n, err := repo.Save(ctx, ds)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	d.log.WithFields(map[string]interface{}{
		"dataset_id": ds.ID,
		"seed":       ds.Seed,
		"cells":      n,
	}).Info("Snapshot saved")

	PrintSuccess(fmt.Sprintf("Snapshot %s saved (seed %d, %d cells) in %.2fs",
		ds.ID, ds.Seed, n, time.Since(start).Seconds()))
	return nil
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	_, db, repo, err := initArchive(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	snapshots, err := repo.List(ctx, snapshotLimit)
	if err != nil {
		return err
	}
	if len(snapshots) == 0 {
		PrintInfo("No snapshots archived yet")
		return nil
	}

	columns := []string{"ID", "Seed", "Generated", "Companies", "Cells"}
	widths := []int{36, 20, 20, 20, 6}
	PrintTableHeader(columns, widths)
	for _, s := range snapshots {
		PrintTableRow([]string{
			s.ID,
			fmt.Sprintf("%d", s.Seed),
			s.GeneratedAt.Format("2006-01-02 15:04:05"),
			strings.Join(s.Companies, ","),
			fmt.Sprintf("%d", s.Rows),
		}, widths)
	}
	return nil
}

func runSnapshotShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	_, db, repo, err := initArchive(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	ds, err := repo.Get(ctx, args[0])
	if errors.Is(err, archive.ErrSnapshotNotFound) {
		PrintWarning(err.Error())
		return err
	}
	if err != nil {
		return err
	}

	PrintDoubleSeparator()
	fmt.Printf("  Snapshot  : %s\n", ds.ID)
	fmt.Printf("  Seed      : %d\n", ds.Seed)
	fmt.Printf("  Generated : %s\n", ds.GeneratedAt.Format(time.RFC3339))
	fmt.Printf("  Periods   : %s\n", joinPeriods(ds.Periods))
	PrintSeparator()
	for _, id := range ds.CompanyIDs {
		c, ok := ds.Company(id)
		if !ok {
			continue
		}
		fmt.Printf("  %-8s %s (%d sheets)\n", c.ID, c.Name, len(c.Sheets))
	}
	PrintDoubleSeparator()
	return nil
}
