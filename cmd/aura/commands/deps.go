package commands

import (
	"fmt"

	"github.com/wonny/aura/backend/internal/profile"
	"github.com/wonny/aura/backend/internal/statements"
	"github.com/wonny/aura/backend/pkg/config"
	"github.com/wonny/aura/backend/pkg/logger"
)

// deps is what every command needs before doing real work
type deps struct {
	cfg   *config.Config
	log   *logger.Logger
	table *profile.Table
	gen   *statements.Generator
	seed  int64
}

// initDeps loads config and the profile table, applying global flag overrides
func initDeps() (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	if profilesFlag != "" {
		cfg.Generator.ProfilesPath = profilesFlag
	}
	if seedFlag != 0 {
		cfg.Generator.Seed = seedFlag
	}

	log := logger.New(cfg)

	table, err := profile.Load(cfg.Generator.ProfilesPath)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	gen, err := statements.NewGenerator(table, statements.DefaultPeriods)
	if err != nil {
		return nil, fmt.Errorf("create generator: %w", err)
	}

	return &deps{
		cfg:   cfg,
		log:   log,
		table: table,
		gen:   gen,
		seed:  cfg.Generator.Seed,
	}, nil
}
