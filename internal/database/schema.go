package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// The reservations table carries the booking invariant: the composite
// unique key on (room_number, reservation_date) is the authoritative guard
// against double booking.  Room numbers and levels use a binary collation so
// listings sort byte-wise, exactly as stored.
var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(50) NOT NULL DEFAULT 'student',
		created_at DATETIME(3) NOT NULL,
		UNIQUE KEY uq_users_username (username)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS rooms (
		room_number VARCHAR(50) COLLATE utf8mb4_bin NOT NULL PRIMARY KEY,
		name VARCHAR(255) NULL,
		level VARCHAR(50) COLLATE utf8mb4_bin NOT NULL DEFAULT '1',
		created_at DATETIME(3) NOT NULL
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		student_name VARCHAR(255) NOT NULL,
		room_number VARCHAR(50) COLLATE utf8mb4_bin NOT NULL,
		reservation_date DATE NOT NULL,
		created_at DATETIME(3) NOT NULL,
		UNIQUE KEY uq_reservations_room_date (room_number, reservation_date),
		KEY idx_reservations_created_at (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS sessions (
		sid VARCHAR(64) NOT NULL PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		expires_at BIGINT NOT NULL,
		created_at DATETIME(3) NOT NULL,
		KEY idx_sessions_expires_at (expires_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'student',
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS rooms (
		room_number TEXT NOT NULL PRIMARY KEY,
		name TEXT NULL,
		level TEXT NOT NULL DEFAULT '1',
		created_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reservations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		student_name TEXT NOT NULL,
		room_number TEXT NOT NULL,
		reservation_date TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		UNIQUE (room_number, reservation_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reservations_created_at ON reservations (created_at)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		sid TEXT NOT NULL PRIMARY KEY,
		user_id INTEGER NOT NULL,
		expires_at INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions (expires_at)`,
}

// Migrate creates the tables for the given driver when they are missing.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var stmts []string
	switch driver {
	case DriverMySQL:
		stmts = mysqlSchema
	case DriverSQLite:
		stmts = sqliteSchema
	default:
		return fmt.Errorf("migrate: unsupported driver %q", driver)
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// DefaultRooms are seeded into an empty directory.
var DefaultRooms = []string{"101", "102", "103", "201", "202"}

// SeedRooms inserts DefaultRooms on level "1" when the rooms table is empty
// and reports how many rows it wrote.
func SeedRooms(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rooms").Scan(&n); err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	for _, room := range DefaultRooms {
		if _, err := db.ExecContext(ctx,
			"INSERT INTO rooms (room_number, level, created_at) VALUES (?, '1', ?)", room, now); err != nil {
			return 0, fmt.Errorf("seed room %s: %w", room, err)
		}
	}
	return len(DefaultRooms), nil
}
