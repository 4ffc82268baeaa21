package models

import "time"

// Wire messages sent to the client over the location stream.
const (
	MsgConnected = "RIDER_GPS_CONNECTION"
	MsgReceived  = "RIDER_GPS_RECEIVED"
	MsgFailed    = "GPS_FAILED_UPDATION"
)

// StatusAvailable is the status recorded when the client omits one.
const StatusAvailable = "Available"

// Ack is the single-field reply sent after the connect handshake and
// after each inbound update.
type Ack struct {
	Message string `json:"message"`
}

// LocationUpdate is one inbound GPS message as sent by a rider device.
// Pointer fields distinguish a missing key from a zero coordinate or an
// explicitly empty status.
type LocationUpdate struct {
	RiderID   string   `json:"rider_id" validate:"required"`
	Latitude  *float64 `json:"current_latitude" validate:"required"`
	Longitude *float64 `json:"current_longitude" validate:"required"`
	Status    *string  `json:"status"`
}

// RiderLocation is the durable latest-known-location row, one per rider.
// Coordinate and status columns are nullable in the table, hence pointers.
type RiderLocation struct {
	RiderID     string    `json:"rider_id"`
	Latitude    *float64  `json:"current_latitude"`
	Longitude   *float64  `json:"current_longitude"`
	Status      *string   `json:"status"`
	LastUpdated time.Time `json:"last_updated"`
}

// Record copies the update's fields into a storable row stamped at t.
func (u LocationUpdate) Record(t time.Time) RiderLocation {
	rec := RiderLocation{
		RiderID:     u.RiderID,
		Latitude:    u.Latitude,
		Longitude:   u.Longitude,
		LastUpdated: t,
	}
	if u.Status != nil {
		status := *u.Status
		rec.Status = &status
	}
	return rec
}
