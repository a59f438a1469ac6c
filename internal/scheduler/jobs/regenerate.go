package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/aura/backend/internal/contracts"
	"github.com/wonny/aura/backend/internal/store"
	"github.com/wonny/aura/backend/pkg/logger"
	"github.com/wonny/aura/backend/pkg/redis"
)

// Broadcaster pushes dataset events to live subscribers (websocket hub)
type Broadcaster interface {
	Broadcast(event contracts.DatasetEvent)
}

// Publisher fans events out to other replicas
type Publisher interface {
	Publish(ctx context.Context, channel string, msg interface{}) error
}

// Archiver persists generated datasets
type Archiver interface {
	Save(ctx context.Context, ds *contracts.Dataset) (int, error)
}

// RegenerateJob builds a fresh dataset and swaps it into the store.
// 순서: 생성 → 공유 캐시 → 스토어 교체 → 이벤트 발행 → (선택) 스냅샷 보관
type RegenerateJob struct {
	schedule  string
	loader    *store.Loader
	store     *store.Store
	hub       Broadcaster
	publisher Publisher
	archiver  Archiver // nil = no archive
	logger    *logger.Logger
}

// NewRegenerateJob creates a new regenerate job; archiver may be nil
func NewRegenerateJob(
	schedule string,
	loader *store.Loader,
	s *store.Store,
	hub Broadcaster,
	publisher Publisher,
	archiver Archiver,
	log *logger.Logger,
) *RegenerateJob {
	return &RegenerateJob{
		schedule:  schedule,
		loader:    loader,
		store:     s,
		hub:       hub,
		publisher: publisher,
		archiver:  archiver,
		logger:    log,
	}
}

// Name returns the job name
func (j *RegenerateJob) Name() string {
	return "regenerate_dataset"
}

// Schedule returns the cron schedule
func (j *RegenerateJob) Schedule() string {
	return j.schedule
}

// Run executes one regeneration with a fresh time based seed
func (j *RegenerateJob) Run(ctx context.Context) error {
	ds, err := j.loader.Regenerate(ctx, 0)
	if err != nil {
		return fmt.Errorf("regenerate: %w", err)
	}

	prev := j.store.Replace(ds)

	event := contracts.DatasetEvent{
		Type:        contracts.EventDatasetRegenerated,
		DatasetID:   ds.ID,
		Seed:        ds.Seed,
		GeneratedAt: ds.GeneratedAt,
	}
	j.hub.Broadcast(event)

	if err := j.publisher.Publish(ctx, redis.DatasetChannel, event); err != nil {
		j.logger.WithError(err).Warn("Failed to publish dataset event")
	}

	fields := map[string]interface{}{
		"dataset_id": ds.ID,
		"seed":       ds.Seed,
	}
	if prev != nil {
		fields["previous_id"] = prev.ID
	}

	if j.archiver != nil {
		n, err := j.archiver.Save(ctx, ds)
		if err != nil {
			// 서비스 중인 데이터는 이미 교체됨, 보관 실패만 기록
			j.logger.WithError(err).WithFields(fields).Error("Failed to archive dataset")
		} else {
			fields["archived_cells"] = n
		}
	}

	j.logger.WithFields(fields).Info("Dataset regenerated")
	return nil
}
