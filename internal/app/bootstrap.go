package app

import (
	"context"
	"errors"
	"time"

	"github.com/trackswift/internal/config"
	"github.com/trackswift/internal/provider"
	"github.com/trackswift/internal/router"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, container *provider.Container) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if container == nil {
		return nil, errors.New("container is nil")
	}

	engine, err := router.SetupRouter(cfg, container)
	if err != nil {
		return nil, err
	}
	httpService := NewHTTPService(cfg.Server.Addr(), engine)
	return NewRunner(httpService), nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	container, err := provider.NewContainer(context.Background(), opts.Config)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := container.Close(closeCtx); err != nil {
			opts.Logger.Warnw("app_close_failed", "error", err)
		}
	}()

	runner, err := BuildRunner(opts.Config, container)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start",
		"addr", opts.Config.Server.Addr(),
		"storage_driver", container.Store.Driver,
	)
	return RunWithOptions(runner, opts)
}
