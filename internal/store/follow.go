package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/wonny/aura/backend/internal/contracts"
	"github.com/wonny/aura/backend/pkg/logger"
	"github.com/wonny/aura/backend/pkg/redis"
)

// Follow keeps s in sync with datasets regenerated by other replicas.
// Each dataset event triggers a fetch of the shared copy; notify runs after a swap.
// Blocks until ctx is done; returns nil immediately when Redis is disabled.
func Follow(ctx context.Context, rc *redis.Client, s *Store, l *Loader, notify func(contracts.DatasetEvent), log *logger.Logger) error {
	err := rc.Subscribe(ctx, redis.DatasetChannel, func(payload []byte) {
		var event contracts.DatasetEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			log.WithError(err).Warn("Ignoring malformed dataset event")
			return
		}

		// 자기 자신이 발행한 이벤트
		if cur := s.Current(); cur != nil && cur.ID == event.DatasetID {
			return
		}

		ds, found, err := l.Fetch(ctx)
		if err != nil || !found {
			log.WithError(err).WithField("dataset_id", event.DatasetID).Warn("Shared dataset unavailable")
			return
		}

		s.Replace(ds)
		log.WithField("dataset_id", ds.ID).Info("Adopted dataset from another replica")
		if notify != nil {
			notify(event)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
