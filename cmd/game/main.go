package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/tatianab/xjtu-sim/internal/catalog"
	"github.com/tatianab/xjtu-sim/internal/config"
	"github.com/tatianab/xjtu-sim/internal/flavor"
	"github.com/tatianab/xjtu-sim/internal/progression"
	"github.com/tatianab/xjtu-sim/internal/random"
	"github.com/tatianab/xjtu-sim/internal/store"
	"github.com/tatianab/xjtu-sim/internal/tui"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// The alternate screen owns stdout, so logs go to a file.
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cat, err := loadCatalog(cfg)
	if err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	kv, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.Store, err)
	}
	defer kv.Close()
	repo := store.NewRepository(kv, cfg.Slot, logger)

	var provider flavor.Provider
	if cfg.FlavorEnabled() {
		ids := make([]string, len(cat.Achievements))
		for i, a := range cat.Achievements {
			ids[i] = a.ID
		}
		g, err := flavor.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, ids)
		if err != nil {
			return fmt.Errorf("creating flavor provider: %w", err)
		}
		defer g.Close()
		provider = g
	}

	seed := cfg.Seed
	if seed == 0 {
		if seed, err = random.NewSeed(); err != nil {
			return err
		}
	}
	logger.Info("starting", "store", cfg.Store, "slot", cfg.Slot, "seed", seed, "flavor", provider != nil)

	inbox := tui.NewInbox(logger)
	eng, err := progression.New(ctx, progression.Options{
		Catalog:       cat,
		Store:         repo,
		Flavor:        provider,
		FlavorChance:  cfg.FlavorChance,
		FlavorTimeout: cfg.FlavorTimeout,
		Random:        random.New(seed),
		Notifier:      inbox,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	return tui.Run(eng, inbox)
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.ContentDir == "" {
		return catalog.Default()
	}
	return catalog.Load(os.DirFS(cfg.ContentDir))
}
