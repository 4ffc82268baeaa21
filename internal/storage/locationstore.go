package storage

import (
	"context"
	"sync"

	"github.com/example/rider-gps/internal/models"
)

// LocationStore defines persistence for the single latest-known-location
// record kept per rider. Get returns (nil, nil) when no record exists.
type LocationStore interface {
	Get(ctx context.Context, riderID string) (*models.RiderLocation, error)
	Upsert(ctx context.Context, rec models.RiderLocation) error
}

// MemoryStore keeps records in a map; used in tests and for DSN-less
// local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*models.RiderLocation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*models.RiderLocation)}
}

func (m *MemoryStore) Get(ctx context.Context, riderID string) (*models.RiderLocation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[riderID]
	if !ok {
		return nil, nil
	}
	cp := clone(*rec)
	return &cp, nil
}

func (m *MemoryStore) Upsert(ctx context.Context, rec models.RiderLocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := clone(rec)
	if existing, ok := m.records[rec.RiderID]; ok {
		existing.Latitude = cp.Latitude
		existing.Longitude = cp.Longitude
		existing.Status = cp.Status
		existing.LastUpdated = cp.LastUpdated
		return nil
	}
	m.records[rec.RiderID] = &cp
	return nil
}

// clone copies the record including its nullable fields, so stored rows
// and returned rows never alias caller memory.
func clone(rec models.RiderLocation) models.RiderLocation {
	if rec.Latitude != nil {
		v := *rec.Latitude
		rec.Latitude = &v
	}
	if rec.Longitude != nil {
		v := *rec.Longitude
		rec.Longitude = &v
	}
	if rec.Status != nil {
		v := *rec.Status
		rec.Status = &v
	}
	return rec
}

// Len reports the number of stored records; handy in tests asserting
// one row per rider.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
