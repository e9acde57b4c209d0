package root

import (
	"context"

	"github.com/sandeepkv93/lifeboard/internal/app"
	"github.com/sandeepkv93/lifeboard/internal/config"
)

func openApp(ctx context.Context) (*app.App, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, logCloser, err := app.OpenLogger(cfg.LogPath)
	if err != nil {
		return nil, nil, err
	}
	a, err := app.Open(ctx, cfg, app.Options{Logger: logger})
	if err != nil {
		_ = logCloser.Close()
		return nil, nil, err
	}
	cleanup := func() {
		if err := a.Close(); err != nil {
			logger.Printf("close: %v", err)
		}
		_ = logCloser.Close()
	}
	return a, cleanup, nil
}
