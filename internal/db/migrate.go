package db

import (
	"database/sql"
	"fmt"
)

// The schema sticks to types both SQLite and Postgres accept so snapshot
// files and the shared database read the same way.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS nodes (
		id INTEGER PRIMARY KEY,
		operating_point TEXT NOT NULL,
		full_name TEXT,
		position_x DOUBLE PRECISION NOT NULL DEFAULT 0,
		position_y DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS trainruns (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS trainrun_sections (
		id INTEGER PRIMARY KEY,
		trainrun_id INTEGER NOT NULL REFERENCES trainruns(id),
		source_node_id INTEGER NOT NULL REFERENCES nodes(id),
		target_node_id INTEGER NOT NULL REFERENCES nodes(id),
		source_departure DOUBLE PRECISION NOT NULL DEFAULT 0,
		source_arrival DOUBLE PRECISION NOT NULL DEFAULT 0,
		target_departure DOUBLE PRECISION NOT NULL DEFAULT 0,
		target_arrival DOUBLE PRECISION NOT NULL DEFAULT 0,
		travel_time DOUBLE PRECISION NOT NULL DEFAULT 1,
		source_departure_lock BOOLEAN NOT NULL DEFAULT FALSE,
		source_arrival_lock BOOLEAN NOT NULL DEFAULT FALSE,
		target_departure_lock BOOLEAN NOT NULL DEFAULT FALSE,
		target_arrival_lock BOOLEAN NOT NULL DEFAULT FALSE,
		travel_time_lock BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS transitions (
		node_id INTEGER NOT NULL REFERENCES nodes(id),
		section_a_id INTEGER NOT NULL REFERENCES trainrun_sections(id),
		section_b_id INTEGER NOT NULL REFERENCES trainrun_sections(id),
		non_stop BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (node_id, section_a_id, section_b_id)
	)`,
}

// Migrate creates the network tables if they do not exist.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
