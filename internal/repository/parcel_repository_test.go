package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/trackswift/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupParcelRepositoryTest(t *testing.T) (*GormParcelRepository, *GormChangeRequestRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:parcel_repo_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate parcel models failed: %v", err)
	}
	return NewParcelRepository(db), NewChangeRequestRepository(db), db
}

func TestGormParcelRepositoryCreateAndList(t *testing.T) {
	repo, _, _ := setupParcelRepositoryTest(t)
	ctx := context.Background()

	first := &models.Parcel{
		ID:              "TRK1",
		ReceiverName:    "Asha",
		TrackingHistory: models.TrackingHistory{{Status: "Picked Up", Location: "Okhla", Timestamp: "t"}},
		SchemaVersion:   models.ParcelSchemaVersion,
	}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("create parcel failed: %v", err)
	}
	if err := repo.Create(ctx, &models.Parcel{ID: "TRK0", ReceiverName: "Kabir", SchemaVersion: models.ParcelSchemaVersion}); err != nil {
		t.Fatalf("create parcel failed: %v", err)
	}
	if err := repo.Create(ctx, &models.Parcel{ID: "TRK1"}); err != ErrDuplicateKey {
		t.Fatalf("duplicate create want ErrDuplicateKey got %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list parcels failed: %v", err)
	}
	if len(list) != 2 || list[0].ID != "TRK1" || list[1].ID != "TRK0" {
		t.Fatalf("list should keep insertion order, got %+v", list)
	}
	if list[0].Name != "Asha" {
		t.Fatalf("name should mirror receiver, got %q", list[0].Name)
	}
	if len(list[0].TrackingHistory) != 1 || list[0].TrackingHistory[0].Location != "Okhla" {
		t.Fatalf("tracking history not persisted: %+v", list[0].TrackingHistory)
	}
}

func TestGormParcelRepositoryUpdateKeepsOrder(t *testing.T) {
	repo, _, _ := setupParcelRepositoryTest(t)
	ctx := context.Background()
	for _, id := range []string{"TRK1", "TRK2"} {
		if err := repo.Create(ctx, &models.Parcel{ID: id, SchemaVersion: models.ParcelSchemaVersion}); err != nil {
			t.Fatalf("create parcel failed: %v", err)
		}
	}

	got, err := repo.GetByID(ctx, "TRK1")
	if err != nil || got == nil {
		t.Fatalf("get parcel failed: %v", err)
	}
	got.Status = "Delivered"
	got.TrackingHistory = append(got.TrackingHistory, models.TrackingEvent{Status: "Delivered"})
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("update parcel failed: %v", err)
	}
	if err := repo.Update(ctx, &models.Parcel{ID: "TRK9"}); err != ErrNotFound {
		t.Fatalf("update missing want ErrNotFound got %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list parcels failed: %v", err)
	}
	if list[0].ID != "TRK1" || list[0].Status != "Delivered" || len(list[0].TrackingHistory) != 1 {
		t.Fatalf("unexpected first parcel after update: %+v", list[0])
	}
}

func TestGormParcelRepositoryGetByIDIsCaseSensitive(t *testing.T) {
	repo, _, _ := setupParcelRepositoryTest(t)
	ctx := context.Background()
	if err := repo.Create(ctx, &models.Parcel{ID: "TRK5", SchemaVersion: models.ParcelSchemaVersion}); err != nil {
		t.Fatalf("create parcel failed: %v", err)
	}
	got, err := repo.GetByID(ctx, "trk5")
	if err != nil {
		t.Fatalf("get parcel failed: %v", err)
	}
	if got != nil {
		t.Fatalf("lower-case id should not match, got %+v", got)
	}
}

func TestGormParcelRepositorySearch(t *testing.T) {
	repo, _, _ := setupParcelRepositoryTest(t)
	ctx := context.Background()
	base := time.Now()
	seed := []models.Parcel{
		{ID: "TRK100", SenderName: "Asha Verma", ReceiverName: "Kabir Singh", CreatedAt: base},
		{ID: "TRK200", SenderName: "Kabir Rao", ReceiverName: "Meera 50%_off", CreatedAt: base.Add(time.Second)},
		{ID: "TRKÉ300", SenderName: "Café Lumière", ReceiverName: "ÉMILE ZOLA", CreatedAt: base.Add(2 * time.Second)},
	}
	for i := range seed {
		seed[i].SchemaVersion = models.ParcelSchemaVersion
		if err := repo.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("create parcel failed: %v", err)
		}
	}

	cases := []struct {
		query string
		want  string
	}{
		{query: " trk200 ", want: "TRK200"},
		{query: "KABIR", want: "TRK100"},
		{query: "rao", want: "TRK200"},
		{query: "50%_", want: "TRK200"},
		{query: "a_h", want: ""},
		{query: "émile", want: "TRKÉ300"},
		{query: "trké300", want: "TRKÉ300"},
		{query: "LUMIÈRE", want: "TRKÉ300"},
		{query: "   ", want: ""},
		{query: "nobody", want: ""},
	}
	for _, tc := range cases {
		got, err := repo.Search(ctx, tc.query)
		if err != nil {
			t.Fatalf("search %q failed: %v", tc.query, err)
		}
		if tc.want == "" {
			if got != nil {
				t.Fatalf("search %q want no match got %s", tc.query, got.ID)
			}
			continue
		}
		if got == nil || got.ID != tc.want {
			t.Fatalf("search %q want %s got %+v", tc.query, tc.want, got)
		}
	}
}

func TestGormParcelRepositoryMigrateSchema(t *testing.T) {
	repo, _, db := setupParcelRepositoryTest(t)
	ctx := context.Background()
	legacy := &models.Parcel{ID: "TRK1", Name: "Riya", Address: "Pune"}
	if err := db.Create(legacy).Error; err != nil {
		t.Fatalf("insert legacy parcel failed: %v", err)
	}

	upgraded, err := repo.MigrateSchema(ctx)
	if err != nil {
		t.Fatalf("migrate schema failed: %v", err)
	}
	if upgraded != 1 {
		t.Fatalf("upgraded want 1 got %d", upgraded)
	}
	var stored models.Parcel
	if err := db.Where("id = ?", "TRK1").First(&stored).Error; err != nil {
		t.Fatalf("reload parcel failed: %v", err)
	}
	if stored.SchemaVersion != models.ParcelSchemaVersion || stored.SenderName != models.DefaultSenderName {
		t.Fatalf("legacy parcel not upgraded: %+v", stored)
	}
	if stored.ReceiverName != "Riya" || stored.EndAddress != "Pune" || stored.CurrentLocation != "Pune" {
		t.Fatalf("legacy parcel not back-filled: %+v", stored)
	}

	again, err := repo.MigrateSchema(ctx)
	if err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
	if again != 0 {
		t.Fatalf("second migrate should be a no-op, upgraded %d", again)
	}
}

func TestGormParcelRepositoryReplaceAll(t *testing.T) {
	repo, _, _ := setupParcelRepositoryTest(t)
	ctx := context.Background()
	if err := repo.Create(ctx, &models.Parcel{ID: "OLD", SchemaVersion: models.ParcelSchemaVersion}); err != nil {
		t.Fatalf("create parcel failed: %v", err)
	}
	seed := []models.Parcel{{ID: "TRK3", Name: "C"}, {ID: "TRK1", Name: "A"}, {ID: "TRK2", Name: "B"}}
	if err := repo.ReplaceAll(ctx, seed); err != nil {
		t.Fatalf("replace all failed: %v", err)
	}
	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list parcels failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("want 3 parcels got %d", len(list))
	}
	for i, want := range []string{"TRK3", "TRK1", "TRK2"} {
		if list[i].ID != want {
			t.Fatalf("position %d want %s got %s", i, want, list[i].ID)
		}
	}
	if list[0].ReceiverName != "C" || list[0].SenderName != models.DefaultSenderName {
		t.Fatalf("seeded parcel not back-filled: %+v", list[0])
	}
}

func TestGormChangeRequestRepository(t *testing.T) {
	_, repo, _ := setupParcelRepositoryTest(t)
	ctx := context.Background()
	for _, req := range []models.ChangeRequest{
		{ParcelID: "TRK1", NewAddress: "A"},
		{ParcelID: "TRK2", NewPhone: "9"},
		{ParcelID: "TRK1", NewRegion: "R"},
	} {
		req := req
		if err := repo.Create(ctx, &req); err != nil {
			t.Fatalf("create change request failed: %v", err)
		}
	}

	matched, err := repo.ListByParcelID(ctx, "TRK1")
	if err != nil {
		t.Fatalf("list by parcel failed: %v", err)
	}
	if len(matched) != 2 || matched[0].NewAddress != "A" || matched[1].NewRegion != "R" {
		t.Fatalf("unexpected matched requests: %+v", matched)
	}
	removed, err := repo.DeleteByParcelID(ctx, "TRK1")
	if err != nil {
		t.Fatalf("delete by parcel failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed want 2 got %d", removed)
	}
	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("count want 1 got %d", count)
	}
	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("delete all failed: %v", err)
	}
	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("want empty list got %d", len(all))
	}
}
