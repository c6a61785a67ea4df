package provider

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/trackswift/internal/cache"
	"github.com/trackswift/internal/config"
	"github.com/trackswift/internal/logger"
	"github.com/trackswift/internal/models"
	"github.com/trackswift/internal/repository"
	"github.com/trackswift/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config *config.Config
	Store  *repository.Store

	// Repositories
	ParcelRepo        repository.ParcelRepository
	ChangeRequestRepo repository.ChangeRequestRepository

	// Services
	ParcelService        *service.ParcelService
	ChangeRequestService *service.ChangeRequestService
	TrackingService      *service.TrackingService
	ChatService          *service.ChatService
	AuthService          *service.AuthService
	UploadService        *service.UploadService

	// 包裹与变更申请的读改写流程共用一把锁
	writeMu sync.Mutex
}

// NewContainer 初始化容器
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	// 初始化缓存，失败时降级为无缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	} else if err := cache.Ping(ctx); err != nil {
		logger.Warnw("provider_ping_redis_failed", "error", err)
	}

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewContainerWithStore(cfg, store)
}

// NewContainerWithStore 使用已打开的存储初始化容器
func NewContainerWithStore(cfg *config.Config, store *repository.Store) (*Container, error) {
	if store == nil {
		return nil, errors.New("store is nil")
	}
	c := &Container{
		Config:            cfg,
		Store:             store,
		ParcelRepo:        store.Parcels,
		ChangeRequestRepo: store.ChangeRequests,
	}
	if err := c.initServices(); err != nil {
		return nil, err
	}
	return c, nil
}

// OpenStore 按配置打开存储
func OpenStore(ctx context.Context, cfg *config.Config) (*repository.Store, error) {
	storage := cfg.Storage
	store, err := repository.OpenStore(ctx, repository.StoreOptions{
		Driver:  storage.Driver,
		DataDir: storage.DataDir,
		DSN:     storage.DSN,
		Pool: models.DBPoolConfig{
			MaxOpenConns:           storage.Pool.MaxOpenConns,
			MaxIdleConns:           storage.Pool.MaxIdleConns,
			ConnMaxLifetimeSeconds: storage.Pool.ConnMaxLifetimeSeconds,
			ConnMaxIdleTimeSeconds: storage.Pool.ConnMaxIdleTimeSeconds,
		},
		GormLogLevel: storage.LogLevel,
		MongoURI:     storage.Mongo.URI,
		MongoDB:      storage.Mongo.Database,
		MongoTimeout: time.Duration(storage.Mongo.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		logger.Errorw("provider_open_store_failed", "driver", storage.Driver, "error", err)
		return nil, fmt.Errorf("open store failed: %w", err)
	}
	return store, nil
}

func (c *Container) initServices() error {
	authService, err := service.NewAuthService(c.Config)
	if err != nil {
		logger.Errorw("provider_init_auth_failed", "error", err)
		return err
	}
	c.AuthService = authService
	c.ParcelService = service.NewParcelService(c.ParcelRepo, c.ChangeRequestRepo, &c.writeMu)
	c.ChangeRequestService = service.NewChangeRequestService(c.ParcelRepo, c.ChangeRequestRepo, &c.writeMu)
	c.TrackingService = service.NewTrackingService(c.ParcelRepo)
	c.ChatService = service.NewChatService(c.ParcelRepo)
	c.UploadService = service.NewUploadService(c.Config)
	return nil
}

// Close 释放存储与缓存连接
func (c *Container) Close(ctx context.Context) error {
	if c == nil {
		return nil
	}
	var errs []error
	if err := c.Store.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := cache.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
