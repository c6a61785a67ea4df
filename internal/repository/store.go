package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/trackswift/internal/logger"
	"github.com/trackswift/internal/models"
)

const (
	DriverJSON     = "json"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// StoreOptions 存储初始化参数
type StoreOptions struct {
	Driver       string
	DataDir      string
	DSN          string
	Pool         models.DBPoolConfig
	GormLogLevel string
	MongoURI     string
	MongoDB      string
	MongoTimeout time.Duration
}

// Store 包裹与变更申请两个集合的存储句柄
type Store struct {
	Driver         string
	Parcels        ParcelRepository
	ChangeRequests ChangeRequestRepository
	closeFn        func(ctx context.Context) error
}

// Close 释放底层连接
func (s *Store) Close(ctx context.Context) error {
	if s == nil || s.closeFn == nil {
		return nil
	}
	return s.closeFn(ctx)
}

// OpenStore 根据驱动打开存储；打开时执行一次结构迁移
func OpenStore(ctx context.Context, opts StoreOptions) (*Store, error) {
	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	switch driver {
	case "", DriverJSON:
		js, err := OpenJSONStore(opts.DataDir)
		if err != nil {
			return nil, err
		}
		logger.Infow("store_opened", "driver", DriverJSON, "dir", js.Dir())
		return &Store{
			Driver:         DriverJSON,
			Parcels:        NewJSONParcelRepository(js),
			ChangeRequests: NewJSONChangeRequestRepository(js),
		}, nil
	case DriverSQLite, DriverPostgres, "postgresql":
		db, err := models.InitDB(driver, opts.DSN, opts.Pool, opts.GormLogLevel)
		if err != nil {
			return nil, fmt.Errorf("init database failed: %w", err)
		}
		if err := models.AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrate database failed: %w", err)
		}
		parcels := NewParcelRepository(db)
		if err := normalizeStoredParcels(ctx, parcels); err != nil {
			return nil, err
		}
		logger.Infow("store_opened", "driver", driver)
		return &Store{
			Driver:         driver,
			Parcels:        parcels,
			ChangeRequests: NewChangeRequestRepository(db),
			closeFn: func(context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		}, nil
	case DriverMongo, "mongodb":
		client, db, err := OpenMongo(ctx, opts.MongoURI, opts.MongoDB, opts.MongoTimeout)
		if err != nil {
			return nil, err
		}
		parcels := NewMongoParcelRepository(db)
		if err := normalizeStoredParcels(ctx, parcels); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		logger.Infow("store_opened", "driver", DriverMongo, "database", opts.MongoDB)
		return &Store{
			Driver:         DriverMongo,
			Parcels:        parcels,
			ChangeRequests: NewMongoChangeRequestRepository(db),
			closeFn:        client.Disconnect,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", opts.Driver)
	}
}

// schemaMigrator 支持就地升级旧版本记录的仓库
type schemaMigrator interface {
	MigrateSchema(ctx context.Context) (int, error)
}

// normalizeStoredParcels 将低版本记录补齐后回写
func normalizeStoredParcels(ctx context.Context, repo ParcelRepository) error {
	migrator, ok := repo.(schemaMigrator)
	if !ok {
		return nil
	}
	upgraded, err := migrator.MigrateSchema(ctx)
	if err != nil {
		return fmt.Errorf("migrate parcels failed: %w", err)
	}
	if upgraded > 0 {
		logger.Infow("parcel_store_migrated", "records", upgraded, "schema_version", models.ParcelSchemaVersion)
	}
	return nil
}
