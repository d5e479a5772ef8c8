package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	apperrors "github.com/julianstephens/careagent/internal/errors"
	"github.com/julianstephens/careagent/internal/logger"
	"github.com/julianstephens/careagent/internal/migration"
	"github.com/julianstephens/careagent/internal/models"
	"github.com/julianstephens/careagent/internal/storage"
	"github.com/julianstephens/careagent/migrations"
)

// optionalColumns may be absent from databases created by earlier releases.
var optionalColumns = []migration.Column{
	{Table: "logs", Name: "author", Definition: "TEXT"},
	{Table: "logs", Name: "category", Definition: "TEXT"},
	{Table: "logs", Name: "severity", Definition: "TEXT"},
	{Table: "medications", Name: "time", Definition: "TEXT"},
	{Table: "medications", Name: "purpose", Definition: "TEXT"},
}

// builder renders queries with the driver's "?" placeholders.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

// Init prepares the database for use and is safe to call on every start:
// it creates missing tables, adds missing optional columns and ensures the
// patient profile row exists.
func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return apperrors.Storage("init", fmt.Errorf("failed to create config directory: %w", err))
	}

	if s.db == nil {
		db, err := open(s.path)
		if err != nil {
			return apperrors.Storage("init", err)
		}
		s.db = db
	}

	return s.prepare("init")
}

// prepare brings an open database up to date: pending migrations, missing
// optional columns and the profile row.
func (s *Store) prepare(op string) error {
	if err := s.runMigrations(); err != nil {
		return apperrors.Storage(op, fmt.Errorf("failed to run migrations: %w", err))
	}

	runner := migration.NewRunner(s.db, nil)
	added, err := runner.EnsureColumns(optionalColumns, func(msg string) {
		logger.Info(msg)
	})
	if err != nil {
		return apperrors.Storage(op, err)
	}
	if added > 0 {
		logger.Info("Evolved legacy schema", "columns_added", added)
	}

	if err := s.ensureProfile(); err != nil {
		return apperrors.Storage(op, fmt.Errorf("failed to create default profile: %w", err))
	}

	return nil
}

// Load opens an existing database, rejects one written by a newer release
// and applies the same idempotent preparation as Init.
func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return apperrors.Storage("load", fmt.Errorf("storage not initialized, run 'careagent init' first"))
	}

	db, err := open(s.path)
	if err != nil {
		return apperrors.Storage("load", err)
	}
	s.db = db

	if err := s.validateSchemaVersion(); err != nil {
		s.db.Close()
		s.db = nil
		return apperrors.Storage("load", err)
	}

	if err := s.prepare("load"); err != nil {
		s.db.Close()
		s.db = nil
		return err
	}

	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func open(path string) (*sql.DB, error) {
	// Immediate transactions serialize day seeding across processes.
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// tableExists checks if a table exists in the SQLite database.
// The check is case-insensitive to match SQLite's behavior.
func (s *Store) tableExists(tableName string) (bool, error) {
	var count int
	row := s.db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name COLLATE NOCASE = ?", tableName)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) migrationsFS() (fs.FS, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return subFS, nil
}

func (s *Store) runMigrations() error {
	subFS, err := s.migrationsFS()
	if err != nil {
		return err
	}

	runner := migration.NewRunner(s.db, subFS)
	_, err = runner.ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}

func (s *Store) validateSchemaVersion() error {
	subFS, err := s.migrationsFS()
	if err != nil {
		return err
	}

	runner := migration.NewRunner(s.db, subFS)
	return runner.ValidateVersion()
}

// SchemaStatus reports the applied and latest known schema versions.
func (s *Store) SchemaStatus() (current, latest int, err error) {
	subFS, err := s.migrationsFS()
	if err != nil {
		return 0, 0, err
	}
	runner := migration.NewRunner(s.db, subFS)
	if current, err = runner.GetCurrentVersion(); err != nil {
		return 0, 0, err
	}
	if latest, err = runner.GetLatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

func (s *Store) ensureProfile() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow("SELECT count(*) FROM patient_profile").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		def := models.DefaultProfile()
		if _, err := tx.Exec("INSERT INTO patient_profile (age, conditions) VALUES (?, ?)", def.Age, def.Conditions); err != nil {
			return err
		}
		logger.Info("Created default patient profile")
	}

	return tx.Commit()
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection.
// Returns nil if the database has not been initialized or loaded.
func (s *Store) GetDB() *sql.DB {
	return s.db
}

// checkAffected maps a zero-row update or delete to ErrNotFound.
func checkAffected(result sql.Result, what string, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s %d: %w", what, id, storage.ErrNotFound)
	}
	return nil
}

func nullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
