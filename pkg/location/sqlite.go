package location

import (
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/chrissnell/noaaclock/pkg/dst"
	"github.com/chrissnell/noaaclock/pkg/migrate"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// SchemaMigrations returns the migrations that create and evolve the locations table
func SchemaMigrations() *migrate.FSProvider {
	return migrate.NewFSProvider(migrations, "migrations", "schema_migrations")
}

// SQLiteProvider resolves names against a `locations` table in a SQLite database.
// Rows are scanned in insertion order so the first case-insensitive match wins,
// exactly as with the text dataset.
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
	logger *zap.SugaredLogger
}

// NewSQLiteProvider opens (creating if needed) the database at dbPath
func NewSQLiteProvider(dbPath string, logger *zap.SugaredLogger) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	migrator := migrate.NewMigrator(db, SchemaMigrations(), logger)
	if err := migrator.MigrateUp(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate location database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
		logger: logger,
	}, nil
}

// Name implements Provider
func (s *SQLiteProvider) Name() string {
	return "sqlite:" + s.dbPath
}

// Resolve implements Provider
func (s *SQLiteProvider) Resolve(name string) (Location, bool, error) {
	var found Location
	ok := false
	err := s.scan(func(l Location) bool {
		if strings.EqualFold(l.Name, name) {
			found, ok = l, true
			return false
		}
		return true
	})
	if err != nil || !ok {
		return Location{}, false, err
	}
	found.Source = s.Name()
	return found, true, nil
}

// Names implements Provider
func (s *SQLiteProvider) Names() ([]string, error) {
	var names []string
	err := s.scan(func(l Location) bool {
		names = append(names, l.Name)
		return true
	})
	return names, err
}

func (s *SQLiteProvider) scan(fn func(Location) bool) error {
	rows, err := s.db.Query(`SELECT name, latitude, longitude, timezone, dst FROM locations ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l Location
		var tag string
		if err := rows.Scan(&l.Name, &l.Latitude, &l.Longitude, &l.TZ, &tag); err != nil {
			return fmt.Errorf("failed to scan location row: %w", err)
		}
		l.DST = dst.ParseRule(tag)
		if err := l.Validate(); err != nil {
			s.logger.Warnf("skipping location row: %v", err)
			continue
		}
		if !fn(l) {
			return nil
		}
	}
	return rows.Err()
}

// Import replaces the contents of the locations table with locs, keeping their order
func (s *SQLiteProvider) Import(locs []Location) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM locations`); err != nil {
		return fmt.Errorf("failed to clear locations: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO locations (name, latitude, longitude, timezone, dst) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range locs {
		if err := l.Validate(); err != nil {
			return err
		}
		if _, err := stmt.Exec(l.Name, l.Latitude, l.Longitude, l.TZ, l.DST.Tag()); err != nil {
			return fmt.Errorf("failed to insert location %q: %w", l.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit locations: %w", err)
	}
	return nil
}

// Close closes the database
func (s *SQLiteProvider) Close() error {
	return s.db.Close()
}
