//go:build integration
// +build integration

package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/trackswift/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}
	cleanupModels := []interface{}{&models.Parcel{}, &models.ChangeRequest{}}
	_ = db.Migrator().DropTable(cleanupModels...)
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestPostgresParcelRepositoryDuplicateKey(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewParcelRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, &models.Parcel{ID: "TRK1", SchemaVersion: models.ParcelSchemaVersion}); err != nil {
		t.Fatalf("create parcel failed: %v", err)
	}
	if err := repo.Create(ctx, &models.Parcel{ID: "TRK1"}); err != ErrDuplicateKey {
		t.Fatalf("duplicate create want ErrDuplicateKey got %v", err)
	}
	got, err := repo.GetByID(ctx, "TRK1")
	if err != nil || got == nil {
		t.Fatalf("get parcel failed: %v", err)
	}
	if got.TrackingHistory == nil {
		t.Fatalf("tracking history should be an empty list")
	}
}

func TestPostgresParcelRepositorySearch(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewParcelRepository(db)
	ctx := context.Background()
	base := time.Now()

	for i, p := range []models.Parcel{
		{ID: "TRK1", SenderName: "Store", ReceiverName: "ÉMILE ZOLA"},
		{ID: "TRK2", SenderName: "Émile Rao", ReceiverName: "50%_off"},
	} {
		p.CreatedAt = base.Add(time.Duration(i) * time.Second)
		p.SchemaVersion = models.ParcelSchemaVersion
		if err := repo.Create(ctx, &p); err != nil {
			t.Fatalf("create parcel failed: %v", err)
		}
	}
	got, err := repo.Search(ctx, "émile")
	if err != nil || got == nil || got.ID != "TRK1" {
		t.Fatalf("unicode name search want TRK1 got %+v err=%v", got, err)
	}
	got, err = repo.Search(ctx, "trk2")
	if err != nil || got == nil || got.ID != "TRK2" {
		t.Fatalf("id search want TRK2 got %+v err=%v", got, err)
	}
	got, err = repo.Search(ctx, "0_o")
	if err != nil || got != nil {
		t.Fatalf("underscore must not act as a wildcard, got %+v err=%v", got, err)
	}
}

func TestMongoParcelRepository(t *testing.T) {
	uri := strings.TrimSpace(os.Getenv("TEST_MONGO_URI"))
	if uri == "" {
		t.Skip("skip mongo integration test: TEST_MONGO_URI is empty")
	}
	ctx := context.Background()
	dbName := fmt.Sprintf("trackswift_test_%d", time.Now().UnixNano())
	client, db, err := OpenMongo(ctx, uri, dbName, 5*time.Second)
	if err != nil {
		t.Fatalf("open mongo failed: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	parcels := NewMongoParcelRepository(db)
	if err := parcels.Create(ctx, &models.Parcel{ID: "TRK1", ReceiverName: "Asha", SchemaVersion: models.ParcelSchemaVersion}); err != nil {
		t.Fatalf("create parcel failed: %v", err)
	}
	if err := parcels.Create(ctx, &models.Parcel{ID: "TRK1"}); err != ErrDuplicateKey {
		t.Fatalf("duplicate create want ErrDuplicateKey got %v", err)
	}

	if _, err := db.Collection(mongoParcelCollection).InsertOne(ctx, bson.M{"_id": "TRK2", "name": "Riya", "address": "Pune", "created_at": time.Now()}); err != nil {
		t.Fatalf("insert legacy parcel failed: %v", err)
	}
	upgraded, err := parcels.MigrateSchema(ctx)
	if err != nil {
		t.Fatalf("migrate schema failed: %v", err)
	}
	if upgraded != 1 {
		t.Fatalf("upgraded want 1 got %d", upgraded)
	}
	legacy, err := parcels.GetByID(ctx, "TRK2")
	if err != nil || legacy == nil {
		t.Fatalf("get legacy parcel failed: %v", err)
	}
	if legacy.ReceiverName != "Riya" || legacy.EndAddress != "Pune" || legacy.SenderName != models.DefaultSenderName {
		t.Fatalf("legacy parcel not back-filled: %+v", legacy)
	}

	list, err := parcels.List(ctx)
	if err != nil {
		t.Fatalf("list parcels failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != "TRK1" {
		t.Fatalf("unexpected list order: %+v", list)
	}

	if err := parcels.ReplaceAll(ctx, []models.Parcel{{ID: "TRK9"}, {ID: "TRK9"}}); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("duplicate replace want ErrDuplicateKey got %v", err)
	}
	if list, err = parcels.List(ctx); err != nil || len(list) != 2 {
		t.Fatalf("rejected replace must keep existing parcels, got %d err=%v", len(list), err)
	}

	reqs := NewMongoChangeRequestRepository(db)
	if err := reqs.Create(ctx, &models.ChangeRequest{ParcelID: "TRK1", NewPhone: "9"}); err != nil {
		t.Fatalf("create change request failed: %v", err)
	}
	removed, err := reqs.DeleteByParcelID(ctx, "TRK1")
	if err != nil || removed != 1 {
		t.Fatalf("delete by parcel want 1 got %d err=%v", removed, err)
	}
}
