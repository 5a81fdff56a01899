package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/pressly/goose/v3"

	"github.com/bnema/panectl/internal/logging"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// SchemaStatus describes the document schema of a database.
type SchemaStatus struct {
	Version int64 // last applied migration
	Latest  int64 // last migration shipped with this binary
	Pending int
}

// UpToDate reports whether every shipped migration is applied.
func (s SchemaStatus) UpToDate() bool {
	return s.Pending == 0
}

// newProvider returns a goose provider over the embedded migrations.
// The provider must not be closed: that would close db.
func newProvider(db *sql.DB) (*goose.Provider, error) {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return nil, err
	}
	p, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("migration provider: %w", err)
	}
	return p, nil
}

// RunMigrations brings the document schema up to date.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	log := logging.FromContext(ctx)

	p, err := newProvider(db)
	if err != nil {
		return err
	}
	results, err := p.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	if len(results) == 0 {
		log.Debug().Msg("document schema up to date")
		return nil
	}
	for _, r := range results {
		log.Info().
			Int64("version", r.Source.Version).
			Str("migration", filepath.Base(r.Source.Path)).
			Dur("took", r.Duration).
			Msg("document schema migrated")
	}
	return nil
}

// MigrationStatus reports how far the schema of db is migrated.
func MigrationStatus(ctx context.Context, db *sql.DB) (SchemaStatus, error) {
	p, err := newProvider(db)
	if err != nil {
		return SchemaStatus{}, err
	}
	statuses, err := p.Status(ctx)
	if err != nil {
		return SchemaStatus{}, fmt.Errorf("migration status: %w", err)
	}

	var st SchemaStatus
	for _, s := range statuses {
		st.Latest = max(st.Latest, s.Source.Version)
		switch s.State {
		case goose.StateApplied:
			st.Version = max(st.Version, s.Source.Version)
		case goose.StatePending:
			st.Pending++
		}
	}
	return st, nil
}
