package store

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/aura/backend/internal/contracts"
	"github.com/wonny/aura/backend/internal/statements"
	"github.com/wonny/aura/backend/pkg/logger"
	"github.com/wonny/aura/backend/pkg/redis"
)

// Loader produces datasets for the store.
// Redis가 켜져 있으면 레플리카들이 같은 데이터셋을 공유함 (없으면 프로세스 로컬 생성)
type Loader struct {
	gen   *statements.Generator
	cache *redis.Cache
	ttl   time.Duration
	log   *logger.Logger
}

// NewLoader creates a loader; cache may wrap a disabled client
func NewLoader(gen *statements.Generator, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *Loader {
	return &Loader{gen: gen, cache: cache, ttl: ttl, log: log}
}

// Load returns the shared dataset if one is cached, otherwise generates and publishes one.
// When two replicas race, the first SETNX wins and the loser adopts the winner's dataset.
func (l *Loader) Load(ctx context.Context, seed int64) (*contracts.Dataset, error) {
	var cached contracts.Dataset
	found, err := l.cache.Get(ctx, redis.DatasetKey, &cached)
	if err != nil {
		l.log.WithError(err).Warn("Dataset cache read failed, generating locally")
	} else if found {
		l.log.WithFields(map[string]interface{}{
			"dataset_id": cached.ID,
			"seed":       cached.Seed,
		}).Info("Loaded dataset from cache")
		return &cached, nil
	}

	ds, err := l.gen.Generate(seed)
	if err != nil {
		return nil, fmt.Errorf("generate dataset: %w", err)
	}

	won, err := l.cache.SetIfAbsent(ctx, redis.DatasetKey, ds, l.ttl)
	if err != nil {
		l.log.WithError(err).Warn("Dataset cache write failed")
		return ds, nil
	}
	if !won {
		if found, err := l.cache.Get(ctx, redis.DatasetKey, &cached); err == nil && found {
			return &cached, nil
		}
	}

	l.log.WithFields(map[string]interface{}{
		"dataset_id": ds.ID,
		"seed":       ds.Seed,
		"companies":  len(ds.CompanyIDs),
	}).Info("Generated dataset")
	return ds, nil
}

// Regenerate always builds a new dataset and overwrites the shared copy
func (l *Loader) Regenerate(ctx context.Context, seed int64) (*contracts.Dataset, error) {
	ds, err := l.gen.Generate(seed)
	if err != nil {
		return nil, fmt.Errorf("generate dataset: %w", err)
	}

	if err := l.cache.Set(ctx, redis.DatasetKey, ds, l.ttl); err != nil {
		l.log.WithError(err).Warn("Dataset cache write failed")
	}
	return ds, nil
}

// Fetch reads the shared dataset (found=false when Redis is disabled or empty)
func (l *Loader) Fetch(ctx context.Context) (*contracts.Dataset, bool, error) {
	var ds contracts.Dataset
	found, err := l.cache.Get(ctx, redis.DatasetKey, &ds)
	if err != nil || !found {
		return nil, false, err
	}
	return &ds, true, nil
}
