package storage

import (
	"context"
	"testing"
	"time"

	"github.com/example/rider-gps/internal/models"
)

func rec(riderID string, lat, lon float64, status string, t time.Time) models.RiderLocation {
	return models.RiderLocation{RiderID: riderID, Latitude: &lat, Longitude: &lon, Status: &status, LastUpdated: t}
}

func TestMemoryStoreUpsertKeepsOneRecord(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	t0 := time.Now().UTC()

	if err := m.Upsert(ctx, rec("R1", 12.9, 77.6, "Available", t0)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := m.Upsert(ctx, rec("R1", 13.0, 77.7, "Busy", t0.Add(time.Second))); err != nil {
		t.Fatalf("update: %v", err)
	}
	if m.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", m.Len())
	}

	got, err := m.Get(ctx, "R1")
	if err != nil || got == nil {
		t.Fatalf("get: %v %v", got, err)
	}
	if *got.Latitude != 13.0 || *got.Longitude != 77.7 || *got.Status != "Busy" {
		t.Fatalf("latest write not reflected: %+v", got)
	}
	if got.LastUpdated.Before(t0) {
		t.Fatalf("last_updated went backwards: %v < %v", got.LastUpdated, t0)
	}
}

func TestMemoryStoreGetAbsent(t *testing.T) {
	m := NewMemoryStore()
	got, err := m.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for absent rider, got %+v", got)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	if err := m.Upsert(ctx, rec("R1", 1, 2, "Available", time.Now())); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, _ := m.Get(ctx, "R1")
	*got.Status = "mutated"
	again, _ := m.Get(ctx, "R1")
	if *again.Status != "Available" {
		t.Fatal("caller mutation leaked into the store")
	}
}
