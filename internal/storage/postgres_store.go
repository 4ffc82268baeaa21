package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/example/rider-gps/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	// quick ping
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) Get(ctx context.Context, riderID string) (*models.RiderLocation, error) {
	var rec models.RiderLocation
	err := p.db.QueryRowContext(ctx,
		`SELECT rider_id, current_latitude, current_longitude, status, last_updated FROM rider_gps_location WHERE rider_id = $1`,
		riderID,
	).Scan(&rec.RiderID, &rec.Latitude, &rec.Longitude, &rec.Status, &rec.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get rider location: %w", err)
	}
	return &rec, nil
}

// Upsert reads the row for the rider under a row lock and either mutates
// it in place or inserts a fresh one, all inside one transaction. The
// lock serializes concurrent writers on the same rider only; different
// riders proceed in parallel. A lost first-insert race surfaces as a
// unique-violation commit error.
func (p *PostgresStore) Upsert(ctx context.Context, rec models.RiderLocation) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRowContext(ctx,
		`SELECT rider_id FROM rider_gps_location WHERE rider_id = $1 FOR UPDATE`,
		rec.RiderID,
	).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = tx.ExecContext(ctx,
			`INSERT INTO rider_gps_location(rider_id, current_latitude, current_longitude, status, last_updated) VALUES($1,$2,$3,$4,$5)`,
			rec.RiderID, rec.Latitude, rec.Longitude, rec.Status, rec.LastUpdated)
	case err == nil:
		_, err = tx.ExecContext(ctx,
			`UPDATE rider_gps_location SET current_latitude=$1, current_longitude=$2, status=$3, last_updated=$4 WHERE rider_id=$5`,
			rec.Latitude, rec.Longitude, rec.Status, rec.LastUpdated, rec.RiderID)
	default:
		return fmt.Errorf("read rider location: %w", err)
	}
	if err != nil {
		return fmt.Errorf("write rider location: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit rider location: %w", err)
	}
	return nil
}
