// Package database provides database connectivity, models, and typed record
// stores for the ExamPulse platform. The risk engine never talks to the
// database directly; these stores are the persistence collaborator it reads
// and writes through.
package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors surfaced by the stores. Handlers map these to HTTP
// status codes instead of inspecting driver errors.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record conflict")
)

// Database represents the main database interface for the application
type Database struct {
	conn     *Connection
	migrator *Migrator
	config   *Config
}

// New creates a new database instance with all components
func New(config *Config) (*Database, error) {
	conn, err := NewConnection(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	migrator, err := NewMigrator(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return &Database{
		conn:     conn,
		migrator: migrator,
		config:   config,
	}, nil
}

// Connect establishes database connection and runs initial setup
func (db *Database) Connect(ctx context.Context) error {
	if err := db.conn.Ping(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	if db.config.AutoMigrate {
		if err := db.migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// Close closes all database connections
func (db *Database) Close() error {
	if err := db.conn.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}

	if err := db.migrator.Close(); err != nil {
		return fmt.Errorf("failed to close migrator: %w", err)
	}

	return nil
}

// DB returns the underlying GORM database instance
func (db *Database) DB() *gorm.DB {
	return db.conn.DB()
}

// Connection returns the database connection
func (db *Database) Connection() *Connection {
	return db.conn
}

// Config returns the database configuration
func (db *Database) Config() *Config {
	return db.config
}

// Users returns a user store
func (db *Database) Users() *UserStore {
	return &UserStore{db: db.conn.DB()}
}

// Exams returns an exam store
func (db *Database) Exams() *ExamStore {
	return &ExamStore{db: db.conn.DB()}
}

// Sessions returns an exam session store
func (db *Database) Sessions() *SessionStore {
	return &SessionStore{db: db.conn.DB()}
}

// Events returns an event store
func (db *Database) Events() *EventStore {
	return &EventStore{db: db.conn.DB()}
}

// Alerts returns an alert store
func (db *Database) Alerts() *AlertStore {
	return &AlertStore{db: db.conn.DB()}
}

// Baselines returns a baseline store
func (db *Database) Baselines() *BaselineStore {
	return &BaselineStore{db: db.conn.DB()}
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}
