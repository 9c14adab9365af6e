package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Record is one processed bill or amendment's derived status row.
type Record struct {
	RecordID    string
	RecordType  string
	Congress    string
	Number      string
	Status      string
	StatusAt    string
	UpdatedAt   string
	ProcessedAt time.Time
}

// RecordStore handles database operations for processed records.
type RecordStore struct {
	db *sql.DB
}

// NewRecordStore creates a new RecordStore.
func NewRecordStore(db *sql.DB) *RecordStore {
	return &RecordStore{db: db}
}

// Upsert inserts or updates one record's derived status.
func (s *RecordStore) Upsert(ctx context.Context, r *Record) error {
	query := `
		INSERT INTO records (record_id, record_type, congress, number, status, status_at, updated_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (record_id) DO UPDATE SET
			record_type  = EXCLUDED.record_type,
			congress     = EXCLUDED.congress,
			number       = EXCLUDED.number,
			status       = EXCLUDED.status,
			status_at    = EXCLUDED.status_at,
			updated_at   = EXCLUDED.updated_at,
			processed_at = now()
	`
	_, err := s.db.ExecContext(ctx, query,
		r.RecordID, r.RecordType, r.Congress, r.Number, r.Status, r.StatusAt, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert record %s: %w", r.RecordID, err)
	}
	return nil
}

// GetByID retrieves one record, or nil when it has not been processed.
func (s *RecordStore) GetByID(ctx context.Context, recordID string) (*Record, error) {
	query := `
		SELECT record_id, record_type, congress, number, status, status_at, updated_at, processed_at
		FROM records
		WHERE record_id = $1
	`
	var r Record
	err := s.db.QueryRowContext(ctx, query, recordID).Scan(
		&r.RecordID, &r.RecordType, &r.Congress, &r.Number,
		&r.Status, &r.StatusAt, &r.UpdatedAt, &r.ProcessedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record %s: %w", recordID, err)
	}
	return &r, nil
}

// List retrieves records, optionally filtered by congress and record
// type, ordered by congress, type, and number.
func (s *RecordStore) List(ctx context.Context, congress, recordType string, limit int) ([]Record, error) {
	query := `
		SELECT record_id, record_type, congress, number, status, status_at, updated_at, processed_at
		FROM records
		WHERE ($1 = '' OR congress = $1)
		  AND ($2 = '' OR record_type = $2)
		ORDER BY congress, record_type, number::int
		LIMIT $3
	`
	rows, err := s.db.QueryContext(ctx, query, congress, recordType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(
			&r.RecordID, &r.RecordType, &r.Congress, &r.Number,
			&r.Status, &r.StatusAt, &r.UpdatedAt, &r.ProcessedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// StatusCount is one (status, count) pair for a congress.
type StatusCount struct {
	Status string
	Count  int
}

// StatusCounts aggregates how many records sit in each derived status
// for one congress.
func (s *RecordStore) StatusCounts(ctx context.Context, congress string) ([]StatusCount, error) {
	query := `
		SELECT status, COUNT(*)
		FROM records
		WHERE congress = $1
		GROUP BY status
		ORDER BY COUNT(*) DESC, status
	`
	rows, err := s.db.QueryContext(ctx, query, congress)
	if err != nil {
		return nil, fmt.Errorf("failed to count statuses: %w", err)
	}
	defer rows.Close()

	var counts []StatusCount
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
