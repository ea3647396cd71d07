// Package storage projects analysis results into a normalized SQLite
// schema for downstream impact queries.
package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/ludo-technologies/jstrace/domain"
)

// DB wraps the SQLite connection. The pipeline uses it under a
// single-writer discipline.
type DB struct {
	conn *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrIO, fmt.Sprintf("open database %s", path), err)
	}
	if err := conn.Ping(); err != nil {
		return nil, domain.NewDomainError(domain.ErrIO, fmt.Sprintf("ping database %s", path), err)
	}
	return &DB{conn: conn}, nil
}

// Conn exposes the raw connection to the models.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Close closes the connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS project (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		root_path TEXT NOT NULL,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS module (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL REFERENCES project(id),
		canonical_path TEXT NOT NULL,
		UNIQUE(project_id, canonical_path)
	)`,
	`CREATE TABLE IF NOT EXISTS symbol (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		module_id INTEGER NOT NULL REFERENCES module(id),
		variant TEXT NOT NULL,
		name TEXT NOT NULL,
		UNIQUE(module_id, variant, name)
	)`,
	`CREATE TABLE IF NOT EXISTS symbol_dependency (
		src_symbol_id INTEGER NOT NULL REFERENCES symbol(id),
		dst_symbol_id INTEGER NOT NULL REFERENCES symbol(id),
		UNIQUE(src_symbol_id, dst_symbol_id)
	)`,
	`CREATE TABLE IF NOT EXISTS translation (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL REFERENCES project(id),
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		UNIQUE(project_id, key)
	)`,
	`CREATE TABLE IF NOT EXISTS translation_usage (
		translation_id INTEGER NOT NULL REFERENCES translation(id),
		symbol_id INTEGER NOT NULL REFERENCES symbol(id),
		UNIQUE(translation_id, symbol_id)
	)`,
	`CREATE TABLE IF NOT EXISTS route (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER NOT NULL REFERENCES project(id),
		path TEXT NOT NULL,
		UNIQUE(project_id, path)
	)`,
	`CREATE TABLE IF NOT EXISTS route_usage (
		route_id INTEGER NOT NULL REFERENCES route(id),
		symbol_id INTEGER NOT NULL REFERENCES symbol(id),
		UNIQUE(route_id, symbol_id)
	)`,
}

// CreateTables creates the schema if it does not exist yet.
func (db *DB) CreateTables() error {
	for _, ddl := range tables {
		if _, err := db.conn.Exec(ddl); err != nil {
			return domain.NewDomainError(domain.ErrIO, "create tables", err)
		}
	}
	return nil
}
