package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/license-atlas/pkg/models/domain"
	"github.com/de-tools/license-atlas/pkg/models/store"
)

// Store persists generated audit reports. One report exists per completed
// session; GetBySession serves the reportUrl lookup path.
type Store interface {
	Add(ctx context.Context, record store.ReportRecord) error
	Get(ctx context.Context, id string) (store.ReportRecord, error)
	GetBySession(ctx context.Context, sessionID string) (store.ReportRecord, error)
}

type Settings struct {
	// Expiry is how long a stored report stays retrievable after generation.
	// Zero keeps reports forever.
	Expiry time.Duration
}

type reportStore struct {
	db       *sql.DB
	settings Settings
	now      func() time.Time
}

func NewStore(db *sql.DB, settings Settings) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &reportStore{db: db, settings: settings, now: time.Now}, nil
}

func (s *reportStore) Add(ctx context.Context, record store.ReportRecord) error {
	query := `
		INSERT INTO audit_reports (id, session_id, domain, generated_at, payload)
		VALUES (?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		record.ID,
		record.SessionID,
		record.Domain,
		record.GeneratedAt,
		record.Payload,
	)
	if err != nil {
		return fmt.Errorf("insert report %s: %w", record.ID, err)
	}
	return nil
}

func (s *reportStore) Get(ctx context.Context, id string) (store.ReportRecord, error) {
	query := `
		SELECT id, session_id, domain, generated_at, payload
		FROM audit_reports
		WHERE id = ?`
	return s.scanOne(s.db.QueryRowContext(ctx, query, id), "report", id)
}

func (s *reportStore) GetBySession(ctx context.Context, sessionID string) (store.ReportRecord, error) {
	query := `
		SELECT id, session_id, domain, generated_at, payload
		FROM audit_reports
		WHERE session_id = ?
		ORDER BY generated_at DESC
		LIMIT 1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, sessionID), "report for session", sessionID)
}

func (s *reportStore) scanOne(row *sql.Row, kind, id string) (store.ReportRecord, error) {
	var record store.ReportRecord
	err := row.Scan(
		&record.ID,
		&record.SessionID,
		&record.Domain,
		&record.GeneratedAt,
		&record.Payload,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ReportRecord{}, &domain.NotFoundError{Kind: kind, ID: id}
	}
	if err != nil {
		return store.ReportRecord{}, fmt.Errorf("scan report row: %w", err)
	}
	if s.settings.Expiry > 0 {
		expiresAt := record.GeneratedAt.Add(s.settings.Expiry)
		if s.now().After(expiresAt) {
			return store.ReportRecord{}, &domain.ExpiredError{SessionID: record.SessionID, ExpiredAt: expiresAt}
		}
	}
	return record, nil
}
