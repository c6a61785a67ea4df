package models

import (
	"encoding/json"
	"testing"
)

func TestDecodeParcelsBackfillsLegacyRecord(t *testing.T) {
	raw := []byte(`[{"id":"TRK1","name":"Riya Shah","status":"Delivered","address":"Flat 2, Pune"}]`)

	parcels, upgraded, err := DecodeParcels(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !upgraded {
		t.Fatalf("legacy record should be reported as upgraded")
	}
	if len(parcels) != 1 {
		t.Fatalf("want 1 parcel got %d", len(parcels))
	}
	p := parcels[0]
	if p.SenderName != DefaultSenderName {
		t.Fatalf("sender want %q got %q", DefaultSenderName, p.SenderName)
	}
	if p.ReceiverName != "Riya Shah" || p.Name != "Riya Shah" {
		t.Fatalf("receiver/name mirror broken: receiver=%q name=%q", p.ReceiverName, p.Name)
	}
	if p.EndAddress != "Flat 2, Pune" || p.CurrentLocation != "Flat 2, Pune" {
		t.Fatalf("address back-fill failed: end=%q current=%q", p.EndAddress, p.CurrentLocation)
	}
	if p.StartAddress != "" || p.Image != "" {
		t.Fatalf("expected empty start_address and image")
	}
	if p.TrackingHistory == nil || len(p.TrackingHistory) != 0 {
		t.Fatalf("tracking history should be an empty list")
	}
	if p.SchemaVersion != ParcelSchemaVersion {
		t.Fatalf("schema version want %d got %d", ParcelSchemaVersion, p.SchemaVersion)
	}
}

func TestDecodeParcelsKeepsPresentEmptyFields(t *testing.T) {
	raw := []byte(`[{"id":"TRK2","sender_name":"A","receiver_name":"B","address":"X","end_address":"","current_location":""}]`)

	parcels, _, err := DecodeParcels(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if parcels[0].EndAddress != "" || parcels[0].CurrentLocation != "" {
		t.Fatalf("present empty fields must not be back-filled")
	}
}

func TestDecodeParcelsMissingReceiverWithoutName(t *testing.T) {
	parcels, _, err := DecodeParcels([]byte(`[{"id":"TRK3"}]`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if parcels[0].ReceiverName != DefaultReceiverName || parcels[0].Name != DefaultReceiverName {
		t.Fatalf("receiver default not applied: %+v", parcels[0])
	}
}

func TestDecodeParcelsIdempotent(t *testing.T) {
	raw := []byte(`[{"id":"TRK4","name":"Old","status":"In Transit","address":"Delhi","tracking_history":[{"status":"Picked Up","location":"Okhla","timestamp":"t"}]}]`)

	first, _, err := DecodeParcels(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	encoded, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	second, upgraded, err := DecodeParcels(encoded)
	if err != nil {
		t.Fatalf("second decode failed: %v", err)
	}
	if upgraded {
		t.Fatalf("current-version records must not be upgraded again")
	}
	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Fatalf("back-fill not idempotent:\nfirst=%s\nsecond=%s", a, b)
	}
}

func TestNormalizeParcelSyncsName(t *testing.T) {
	p := &Parcel{ID: "TRK5", ReceiverName: "Neha", Name: "Stale", SchemaVersion: ParcelSchemaVersion, TrackingHistory: TrackingHistory{}}
	if !NormalizeParcel(p) {
		t.Fatalf("expected change when name drifts from receiver")
	}
	if p.Name != "Neha" {
		t.Fatalf("name want Neha got %s", p.Name)
	}
	if NormalizeParcel(p) {
		t.Fatalf("second normalize should be a no-op")
	}
}

func TestTrackingHistoryScan(t *testing.T) {
	var h TrackingHistory
	if err := h.Scan(`[{"status":"Order Placed","location":"Online","timestamp":"2026-01-30 18:20"}]`); err != nil {
		t.Fatalf("scan string failed: %v", err)
	}
	if len(h) != 1 || h[0].Status != "Order Placed" {
		t.Fatalf("unexpected history: %+v", h)
	}
	if err := h.Scan(nil); err != nil || len(h) != 0 {
		t.Fatalf("scan nil should reset history, err=%v len=%d", err, len(h))
	}
}

func TestTrackingEventAlwaysWritesAllKeys(t *testing.T) {
	payload, err := json.Marshal(TrackingEvent{Status: "Picked Up", Location: "Okhla", Timestamp: "t"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	want := `{"status":"Picked Up","subtext":"","description":"","location":"Okhla","timestamp":"t"}`
	if string(payload) != want {
		t.Fatalf("event shape mismatch:\nwant %s\ngot  %s", want, payload)
	}
}

func TestMatchParcelFoldsUnicode(t *testing.T) {
	parcels := []Parcel{
		{ID: "TRK1", ReceiverName: "Asha"},
		{ID: "TRKÉ2", ReceiverName: "ÉMILE ZOLA"},
	}
	if got := MatchParcel(parcels, "émile"); got == nil || got.ID != "TRKÉ2" {
		t.Fatalf("unicode name match failed, got %+v", got)
	}
	if got := MatchParcel(parcels, " trké2 "); got == nil || got.ID != "TRKÉ2" {
		t.Fatalf("unicode id match failed, got %+v", got)
	}
}
