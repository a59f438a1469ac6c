package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/aura/backend/internal/contracts"
	"github.com/wonny/aura/backend/internal/profile"
	"github.com/wonny/aura/backend/internal/statements"
	"github.com/wonny/aura/backend/internal/store"
	"github.com/wonny/aura/backend/pkg/logger"
	"github.com/wonny/aura/backend/pkg/redis"
)

type recorder struct {
	mu        sync.Mutex
	events    []contracts.DatasetEvent
	published []string
	saved     []string
	saveErr   error
}

func (r *recorder) Broadcast(event contracts.DatasetEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) Publish(ctx context.Context, channel string, msg interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, channel)
	return nil
}

func (r *recorder) Save(ctx context.Context, ds *contracts.Dataset) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return 0, r.saveErr
	}
	r.saved = append(r.saved, ds.ID)
	return 42, nil
}

func newFixture(t *testing.T) (*store.Loader, *store.Store) {
	t.Helper()
	table, err := profile.Default()
	require.NoError(t, err)
	gen, err := statements.NewGenerator(table, statements.DefaultPeriods)
	require.NoError(t, err)

	loader := store.NewLoader(gen, redis.NewCache(redis.Disabled(), "test"), time.Hour, logger.Nop())
	ds, err := loader.Load(context.Background(), 7)
	require.NoError(t, err)
	return loader, store.New(table, ds)
}

func TestRegenerateJobSwapsDataset(t *testing.T) {
	loader, s := newFixture(t)
	first := s.Current()
	rec := &recorder{}

	job := NewRegenerateJob("0 0 * * * *", loader, s, rec, rec, rec, logger.Nop())
	assert.Equal(t, "regenerate_dataset", job.Name())
	assert.Equal(t, "0 0 * * * *", job.Schedule())

	require.NoError(t, job.Run(context.Background()))

	cur := s.Current()
	assert.NotEqual(t, first.ID, cur.ID)
	assert.Equal(t, first.CompanyIDs, cur.CompanyIDs)

	require.Len(t, rec.events, 1)
	assert.Equal(t, contracts.EventDatasetRegenerated, rec.events[0].Type)
	assert.Equal(t, cur.ID, rec.events[0].DatasetID)
	assert.Equal(t, cur.Seed, rec.events[0].Seed)
	assert.Equal(t, []string{redis.DatasetChannel}, rec.published)
	assert.Equal(t, []string{cur.ID}, rec.saved)
}

func TestRegenerateJobWithoutArchive(t *testing.T) {
	loader, s := newFixture(t)
	rec := &recorder{}

	job := NewRegenerateJob("@hourly", loader, s, rec, redis.Disabled(), nil, logger.Nop())
	require.NoError(t, job.Run(context.Background()))
	assert.Len(t, rec.events, 1)
}

func TestRegenerateJobArchiveFailureKeepsDataset(t *testing.T) {
	loader, s := newFixture(t)
	first := s.Current()
	rec := &recorder{saveErr: errors.New("db down")}

	job := NewRegenerateJob("@hourly", loader, s, rec, rec, rec, logger.Nop())
	require.NoError(t, job.Run(context.Background()))
	assert.NotEqual(t, first.ID, s.Current().ID)
	assert.Empty(t, rec.saved)
}
