package store

import "time"

// ReportRecord is the persisted form of an audit report. The report body is
// stored as a JSON payload; the indexed columns cover the lookup paths the
// API serves (by report id, by session id).
type ReportRecord struct {
	ID          string
	SessionID   string
	Domain      string
	GeneratedAt time.Time
	Payload     []byte
}
