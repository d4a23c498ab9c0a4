package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const reportsSchema = `
	CREATE TABLE IF NOT EXISTS audit_reports (
		id VARCHAR NOT NULL,
		session_id VARCHAR NOT NULL,
		domain VARCHAR NOT NULL,
		generated_at TIMESTAMP NOT NULL,
		payload JSON NOT NULL,
		PRIMARY KEY (id)
	);
`

var bootQueries = []string{
	reportsSchema,
}

type Settings struct {
	DbPath string
}

// NewDB opens the embedded report database and applies the boot schema.
func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
