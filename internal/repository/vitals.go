package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/atinyakov/VitalsKeeper/internal/models"
	"github.com/google/uuid"
)

// PostgresVitalsRepository implements the append-only vitals store against a PostgreSQL database.
type PostgresVitalsRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
	// Now returns the current time; used to stamp new readings.
	Now func() time.Time
}

// NewPostgresVitalsRepository creates a new PostgresVitalsRepository using the provided *sql.DB.
func NewPostgresVitalsRepository(db *sql.DB) *PostgresVitalsRepository {
	return &PostgresVitalsRepository{DB: db, Now: time.Now}
}

// Insert appends a reading for ownerID, assigning its id and creation time.
// CreatedAt is truncated to the microsecond precision of TIMESTAMPTZ, so the
// returned reading matches what ListByOwner later scans.
//
//	ctx:     context for cancellation and deadlines
//	ownerID: identifier of the owning user
//	fields:  measured values; nil fields are stored as NULL
func (r *PostgresVitalsRepository) Insert(ctx context.Context, ownerID string, fields models.VitalFields) (*models.Reading, error) {
	reading := &models.Reading{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		VitalFields: fields,
		CreatedAt:   r.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO readings (id, owner_id, heart_rate, systolic, diastolic, oxygen, temperature, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		reading.ID, ownerID,
		nullFloat(fields.HeartRate), nullFloat(fields.Systolic), nullFloat(fields.Diastolic),
		nullFloat(fields.Oxygen), nullFloat(fields.Temperature),
		reading.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reading: %w", err)
	}
	return reading, nil
}

// ListByOwner returns every reading owned by ownerID in ascending creation
// order. Readings stamped with the same instant keep their insertion order.
func (r *PostgresVitalsRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Reading, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, owner_id, heart_rate, systolic, diastolic, oxygen, temperature, created_at
		FROM readings WHERE owner_id = $1 ORDER BY created_at ASC, seq ASC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("ListByOwner: %w", err)
	}
	defer rows.Close()

	readings := make([]models.Reading, 0)
	for rows.Next() {
		var rd models.Reading
		var hr, sys, dia, oxygen, temperature sql.NullFloat64
		if err := rows.Scan(&rd.ID, &rd.OwnerID, &hr, &sys, &dia, &oxygen, &temperature, &rd.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rd.HeartRate = floatPtr(hr)
		rd.Systolic = floatPtr(sys)
		rd.Diastolic = floatPtr(dia)
		rd.Oxygen = floatPtr(oxygen)
		rd.Temperature = floatPtr(temperature)
		readings = append(readings, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return readings, nil
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
