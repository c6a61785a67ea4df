package service

import (
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/trackswift/internal/models"
)

func TestGenerateDemoParcels(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	parcels := GenerateDemoParcels(rng, 25)
	if len(parcels) != 25 {
		t.Fatalf("want 25 parcels got %d", len(parcels))
	}
	seen := map[string]bool{}
	for _, p := range parcels {
		if seen[p.ID] {
			t.Fatalf("duplicate id %s", p.ID)
		}
		seen[p.ID] = true
		if !strings.HasPrefix(p.ID, "TRK2026") || len(p.ID) != 12 {
			t.Fatalf("unexpected id %s", p.ID)
		}
		if len(p.TrackingHistory) != 6 || p.TrackingHistory[5].Status != "Delivered" {
			t.Fatalf("unexpected history for %s: %+v", p.ID, p.TrackingHistory)
		}
		if p.ReceiverName != "" || p.SenderName != "" || p.SchemaVersion != 0 {
			t.Fatalf("seed parcels should rely on migration for names: %+v", p)
		}
	}
}

func TestReplaceAllBackfillsSeededParcels(t *testing.T) {
	s := setupServices(t)
	ctx := context.Background()
	if err := s.change.Submit(ctx, ChangeRequestInput{ParcelID: "X"}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	parcels := GenerateDemoParcels(rand.New(rand.NewPCG(7, 7)), 3)
	name := parcels[0].Name
	if err := s.parcel.ReplaceAll(ctx, parcels); err != nil {
		t.Fatalf("replace all failed: %v", err)
	}
	view, err := s.parcel.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard failed: %v", err)
	}
	if view.RequestsCount != 0 || len(view.Parcels) != 3 {
		t.Fatalf("unexpected dashboard after seed: count=%d parcels=%d", view.RequestsCount, len(view.Parcels))
	}
	first := view.Parcels[0]
	if first.ReceiverName != name || first.SenderName != models.DefaultSenderName || first.SchemaVersion != models.ParcelSchemaVersion {
		t.Fatalf("seeded parcel not back-filled: %+v", first)
	}
}
