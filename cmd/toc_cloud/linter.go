package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/toc-cloud/toc-cloud/internal/assist"
	"github.com/toc-cloud/toc-cloud/internal/config"
	"github.com/toc-cloud/toc-cloud/internal/llm"
)

// newLinter builds the structure checker from cfg. The returned cleanup closes
// the completion client and the cache.
func newLinter(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (*assist.Linter, func(), error) {
	apiKey, err := cfg.APIKey()
	if err != nil {
		return nil, nil, err
	}
	llmConfig, err := cfg.LLMClientConfig()
	if err != nil {
		return nil, nil, err
	}

	client, err := llm.NewClient(ctx, llmConfig, apiKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create llm client: %w", err)
	}
	closers := []func() error{client.Close}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn("cleanup failed", zap.Error(err))
			}
		}
	}

	var cache assist.Cache
	if path := cfg.Assist.CachePath; path != "" {
		sqliteCache, err := assist.OpenSQLiteCache(ctx, path, cfg.Assist.CacheTTL.Std())
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, sqliteCache.Close)
		cache = sqliteCache
	} else {
		cache = assist.NewMemoryCache(cfg.Assist.CacheTTL.Std(), cfg.Assist.CacheSize)
	}

	linter, err := assist.NewLinter(assist.LinterConfig{
		Completer:   &assist.LLMCompleter{Client: client, Tier: llm.TierStandard},
		Cache:       cache,
		Logger:      log.Named("assist"),
		CallTimeout: cfg.Assist.Timeout.Std(),
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	log.Info("structure check enabled",
		zap.String("provider", string(llmConfig.Provider)),
		zap.String("model", client.GetModel(llm.TierStandard)),
		zap.Bool("persistent_cache", cfg.Assist.CachePath != ""),
	)
	return linter, cleanup, nil
}
