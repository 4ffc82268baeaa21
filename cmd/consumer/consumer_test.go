package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/rider-gps/internal/models"
)

// fakeMirror implements LocationMirror for tests
type fakeMirror struct {
	failLoc  int // number of times to fail SetLocation before succeeding
	failMeta int // number of times to fail SetMeta before succeeding
	locCalls int
	metaCall int
}

func (f *fakeMirror) SetLocation(ctx context.Context, key string, payload []byte) error {
	f.locCalls++
	if f.locCalls <= f.failLoc {
		return errors.New("set fail")
	}
	return nil
}

func (f *fakeMirror) SetMeta(ctx context.Context, key string, values map[string]interface{}) error {
	f.metaCall++
	if f.metaCall <= f.failMeta {
		return errors.New("hset fail")
	}
	return nil
}

func testRecord() *models.RiderLocation {
	lat, lon, status := 12.9, 77.6, "Available"
	return &models.RiderLocation{RiderID: "R1", Latitude: &lat, Longitude: &lon, Status: &status, LastUpdated: time.Now()}
}

func TestMirrorWithRetry_SucceedsAfterRetries(t *testing.T) {
	f := &fakeMirror{failLoc: 1, failMeta: 1}
	ctx := context.Background()
	start := time.Now()
	if err := mirrorWithRetry(ctx, f, testRecord(), 3, 10*time.Millisecond); err != nil {
		t.Fatalf("expected success, got err=%v", err)
	}
	if f.locCalls < 2 || f.metaCall < 2 {
		t.Fatalf("expected retries, got loc=%d meta=%d", f.locCalls, f.metaCall)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Fatalf("expected at least one backoff")
	}
}

func TestMirrorWithRetry_FailsWhenExhausted(t *testing.T) {
	f := &fakeMirror{failLoc: 5}
	ctx := context.Background()
	if err := mirrorWithRetry(ctx, f, testRecord(), 3, 5*time.Millisecond); err == nil {
		t.Fatalf("expected error after retries")
	}
}
