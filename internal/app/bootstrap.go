package app

import (
	"fmt"

	"go.uber.org/zap"

	"nexus/internal/catalog"
	"nexus/internal/config"
	"nexus/internal/generation"
	"nexus/internal/logging"
	"nexus/internal/storage"
)

// Bootstrap wires a controller from configuration.
func Bootstrap(cfg *config.Config, logger *logging.Logger) (*Controller, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	boot := logger.Get(logging.CategoryBoot)

	store, err := storage.Open(cfg.Storage.Driver, cfg.GetStoragePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	cat, err := catalog.Load()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load tool catalog: %w", err)
	}
	logger.Get(logging.CategoryCatalog).Debug("Catalog loaded",
		zap.Int("tools", cat.Len()), zap.Int("categories", len(cat.Categories())))

	// The generator reads the credential from the controller, which is
	// built below.
	var ctrl *Controller
	gen, err := generation.New(generation.Options{
		Backend: cfg.Generation.Backend,
		Model:   cfg.Generation.Model,
		Delay:   cfg.GetReplyDelay(),
		APIKey: func() string {
			if ctrl == nil {
				return ""
			}
			return ctrl.Preferences().APIKey
		},
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	ctrl, err = New(Deps{
		Storage:      store,
		Catalog:      cat,
		Generator:    gen,
		Logger:       logger,
		ReplyTimeout: cfg.GetReplyTimeout(),
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	boot.Info("Workspace ready",
		zap.String("storage", cfg.Storage.Driver),
		zap.String("backend", cfg.Generation.Backend),
		zap.Int("projects", len(ctrl.Projects())),
		zap.Int("messages", len(ctrl.Messages())))
	return ctrl, nil
}
