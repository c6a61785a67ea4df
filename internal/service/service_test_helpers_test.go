package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/trackswift/internal/models"
	"github.com/trackswift/internal/repository"
)

type testServices struct {
	parcels  repository.ParcelRepository
	requests repository.ChangeRequestRepository
	parcel   *ParcelService
	change   *ChangeRequestService
	tracking *TrackingService
	chat     *ChatService
}

var fixedNow = time.Date(2026, time.January, 30, 18, 20, 0, 0, time.UTC)

func setupServices(t *testing.T) *testServices {
	t.Helper()
	store, err := repository.OpenJSONStore(t.TempDir())
	if err != nil {
		t.Fatalf("open json store failed: %v", err)
	}
	parcels := repository.NewJSONParcelRepository(store)
	requests := repository.NewJSONChangeRequestRepository(store)
	mu := &sync.Mutex{}
	ps := NewParcelService(parcels, requests, mu)
	ps.now = func() time.Time { return fixedNow }
	return &testServices{
		parcels:  parcels,
		requests: requests,
		parcel:   ps,
		change:   NewChangeRequestService(parcels, requests, mu),
		tracking: NewTrackingService(parcels),
		chat:     NewChatService(parcels),
	}
}

func (s *testServices) insert(t *testing.T, parcels ...models.Parcel) {
	t.Helper()
	for i := range parcels {
		p := parcels[i]
		if p.SchemaVersion == 0 {
			p.SchemaVersion = models.ParcelSchemaVersion
		}
		if err := s.parcels.Create(context.Background(), &p); err != nil {
			t.Fatalf("insert parcel %s failed: %v", p.ID, err)
		}
	}
}

func strPtr(v string) *string {
	return &v
}
