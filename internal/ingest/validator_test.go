package ingest

import (
	"errors"
	"testing"
)

func TestParseDefaultsStatus(t *testing.T) {
	upd, err := ParseLocationUpdate([]byte(`{"rider_id":"R1","current_latitude":12.9,"current_longitude":77.6}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.RiderID != "R1" || *upd.Latitude != 12.9 || *upd.Longitude != 77.6 {
		t.Fatalf("fields not decoded: %+v", upd)
	}
	if upd.Status == nil || *upd.Status != "Available" {
		t.Fatalf("expected default status, got %v", upd.Status)
	}
}

func TestParseKeepsExplicitStatus(t *testing.T) {
	upd, err := ParseLocationUpdate([]byte(`{"rider_id":"R1","current_latitude":1,"current_longitude":2,"status":"Busy"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.Status == nil || *upd.Status != "Busy" {
		t.Fatalf("expected Busy, got %v", upd.Status)
	}
}

func TestParseKeepsEmptyStatus(t *testing.T) {
	// only an absent key gets the default; an empty string is client data
	upd, err := ParseLocationUpdate([]byte(`{"rider_id":"R1","current_latitude":1,"current_longitude":2,"status":""}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.Status == nil || *upd.Status != "" {
		t.Fatalf("expected empty status preserved, got %v", upd.Status)
	}
}

func TestParseMissingRiderID(t *testing.T) {
	_, err := ParseLocationUpdate([]byte(`{"current_latitude":1,"current_longitude":2}`))
	assertValidationField(t, err, "rider_id")
}

func TestParseMissingCoordinates(t *testing.T) {
	_, err := ParseLocationUpdate([]byte(`{"rider_id":"R1"}`))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("expected both coordinates flagged, got %v", verr.Fields)
	}
}

func TestParseNonNumericLatitude(t *testing.T) {
	_, err := ParseLocationUpdate([]byte(`{"rider_id":"R1","current_latitude":"bad"}`))
	assertValidationField(t, err, "current_latitude")
}

func TestParseMalformedPayload(t *testing.T) {
	_, err := ParseLocationUpdate([]byte(`{`))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func assertValidationField(t *testing.T, err error, field string) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, f := range verr.Fields {
		if f == field {
			return
		}
	}
	t.Fatalf("expected %s flagged, got %v", field, verr.Fields)
}
