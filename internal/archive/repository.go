package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/aura/backend/internal/contracts"
)

// ErrSnapshotNotFound is returned by Get for an unknown snapshot id
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotInfo is one archived dataset without its payload
type SnapshotInfo struct {
	ID          string    `json:"id"`
	Seed        int64     `json:"seed"`
	GeneratedAt time.Time `json:"generated_at"`
	Companies   []string  `json:"companies"`
	Rows        int       `json:"rows"`
	ArchivedAt  time.Time `json:"archived_at"`
}

// Repository archives generated datasets to PostgreSQL
// ⭐ SSOT: 스냅샷 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new snapshot repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const schemaDDL = `
	CREATE SCHEMA IF NOT EXISTS aura;

	CREATE TABLE IF NOT EXISTS aura.dataset_snapshots (
		id           UUID PRIMARY KEY,
		seed         BIGINT NOT NULL,
		generated_at TIMESTAMPTZ NOT NULL,
		company_ids  TEXT[] NOT NULL,
		periods      TEXT[] NOT NULL,
		payload      JSONB NOT NULL,
		archived_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS aura.statement_values (
		snapshot_id UUID NOT NULL REFERENCES aura.dataset_snapshots(id) ON DELETE CASCADE,
		company_id  TEXT NOT NULL,
		sheet       TEXT NOT NULL,
		row_no      INT NOT NULL,
		item        TEXT NOT NULL,
		period      TEXT NOT NULL,
		value       NUMERIC(24, 4),
		PRIMARY KEY (snapshot_id, company_id, sheet, row_no, period)
	);
`

// EnsureSchema creates the archive tables if they do not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to ensure archive schema: %w", err)
	}
	return nil
}

// Save stores the dataset payload and its flattened statement cells in one transaction.
// Returns the number of cells written.
func (r *Repository) Save(ctx context.Context, ds *contracts.Dataset) (int, error) {
	id, err := uuid.Parse(ds.ID)
	if err != nil {
		return 0, fmt.Errorf("invalid dataset id %q: %w", ds.ID, err)
	}

	payload, err := json.Marshal(ds)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal dataset: %w", err)
	}

	periods := make([]string, len(ds.Periods))
	for i, p := range ds.Periods {
		periods[i] = string(p)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `
		INSERT INTO aura.dataset_snapshots (id, seed, generated_at, company_ids, periods, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, ds.Seed, ds.GeneratedAt, ds.CompanyIDs, periods, payload)
	if err != nil {
		return 0, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	rows := cellRows(id, ds)
	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"aura", "statement_values"},
		[]string{"snapshot_id", "company_id", "sheet", "row_no", "item", "period", "value"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy statement values: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return int(n), nil
}

// List returns the most recent snapshots first
func (r *Repository) List(ctx context.Context, limit int) ([]SnapshotInfo, error) {
	query := `
		SELECT s.id::text, s.seed, s.generated_at, s.company_ids, s.archived_at,
		       (SELECT count(*) FROM aura.statement_values v WHERE v.snapshot_id = s.id)
		FROM aura.dataset_snapshots s
		ORDER BY s.archived_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotInfo
	for rows.Next() {
		var s SnapshotInfo
		var count int64
		if err := rows.Scan(&s.ID, &s.Seed, &s.GeneratedAt, &s.Companies, &s.ArchivedAt, &count); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		s.Rows = int(count)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	return out, nil
}

// Get restores an archived dataset
func (r *Repository) Get(ctx context.Context, id string) (*contracts.Dataset, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}

	var payload []byte
	err = r.pool.QueryRow(ctx, `SELECT payload FROM aura.dataset_snapshots WHERE id = $1`, uid).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var ds contracts.Dataset
	if err := json.Unmarshal(payload, &ds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &ds, nil
}

// cellRows flattens every statement and ratio cell of ds into COPY rows
func cellRows(id uuid.UUID, ds *contracts.Dataset) [][]any {
	var rows [][]any
	for _, companyID := range ds.CompanyIDs {
		company, ok := ds.Company(companyID)
		if !ok {
			continue
		}

		for _, sheet := range []contracts.SheetType{
			contracts.SheetBalanceSheet, contracts.SheetIncomeStatement, contracts.SheetCashFlow,
		} {
			table, ok := company.Sheets[sheet]
			if !ok {
				continue
			}
			for rowNo, row := range table.Rows {
				for i, period := range table.Periods {
					var value any
					if i < len(row.Values) && row.Values[i] != nil {
						value = *row.Values[i]
					}
					rows = append(rows, []any{id, companyID, string(sheet), rowNo, row.Item, string(period), value})
				}
			}
		}

		// 비율: 기간 순서, 이름 정렬
		for _, period := range ds.Periods {
			byName := company.Ratios[period]
			for rowNo, name := range slices.Sorted(maps.Keys(byName)) {
				var value any
				if v := byName[name]; v != nil {
					value = *v
				}
				rows = append(rows, []any{id, companyID, string(contracts.SheetRatios), rowNo, name, string(period), value})
			}
		}
	}
	return rows
}
