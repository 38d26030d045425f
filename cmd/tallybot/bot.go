package main

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/joestump/tallybot/internal/command"
	"github.com/joestump/tallybot/internal/config"
	"github.com/joestump/tallybot/internal/kv"
	"github.com/joestump/tallybot/internal/ratelimit"
	"github.com/joestump/tallybot/internal/store"
)

// newDispatcher opens both record stores under the data directory and
// wires them into a dispatcher. Any failure here is fatal to startup.
func newDispatcher(cfg *config.Config, logger *zap.Logger) (*command.Dispatcher, error) {
	if err := checkStoreDirs(cfg); err != nil {
		return nil, err
	}

	counterFile, err := kv.OpenJSONFile[store.Namespace[store.Counter]](cfg.CountersPath(), kv.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("opening counters: %w", err)
	}
	tagFile, err := kv.OpenJSONFile[store.Namespace[store.Tag]](cfg.TagsPath(), kv.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("opening tags: %w", err)
	}

	counters := store.NewCounters(counterFile, logger)
	tags := store.NewTags(tagFile, logger)
	logger.Info("stores opened",
		zap.String("counters", counterFile.Path()),
		zap.String("tags", tagFile.Path()),
	)

	return command.New(command.Deps{
		Prefix:    cfg.CommandPrefix,
		BotName:   cfg.BotName,
		SourceURL: cfg.SourceURL,
		Counters:  counters,
		Tags:      tags,
		Policy:    store.NewPolicy(cfg.Owners...),
		Limiter:   ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		Logger:    logger,
	}), nil
}

// checkStoreDirs proves every directory a store file lives in is writable.
// Store files may be absolute paths outside DataDir.
func checkStoreDirs(cfg *config.Config) error {
	dirs := []string{cfg.DataDir, filepath.Dir(cfg.CountersPath()), filepath.Dir(cfg.TagsPath())}
	seen := make(map[string]bool, len(dirs))
	for _, dir := range dirs {
		dir = filepath.Clean(dir)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		if err := kv.EnsureWritableDir(dir); err != nil {
			return fmt.Errorf("store dir %s: %w", dir, err)
		}
	}
	return nil
}
