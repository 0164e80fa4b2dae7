package testutil

import (
	"database/sql"
	"testing"
)

// SeedChainNetwork inserts the rows of ChainNetwork into a migrated database.
func SeedChainNetwork(t *testing.T, db *sql.DB) {
	t.Helper()
	stmts := []string{
		`INSERT INTO nodes (id, operating_point, full_name, position_x, position_y) VALUES
			(1, 'ZUE', 'Zuerich HB', 0, 0),
			(2, 'N2', 'Node 2', 100, 0),
			(3, 'N3', 'Node 3', 200, 0),
			(4, 'BN', 'Bern', 300, 0),
			(5, 'OL', 'Olten', 300, 200),
			(6, 'AA', 'Aarau', 0, 200)`,
		`INSERT INTO trainruns (id, name, category) VALUES (1, 'IC 1', 'IC'), (2, 'IC 2', 'IC')`,
		`INSERT INTO trainrun_sections (id, trainrun_id, source_node_id, target_node_id,
			source_departure, source_arrival, target_departure, target_arrival, travel_time,
			source_departure_lock, source_arrival_lock, target_departure_lock, target_arrival_lock, travel_time_lock) VALUES
			(10, 1, 1, 2, 2, 58, 48, 12, 10, TRUE, FALSE, FALSE, FALSE, FALSE),
			(11, 1, 2, 3, 12, 48, 33, 27, 15, FALSE, FALSE, FALSE, FALSE, FALSE),
			(12, 1, 3, 4, 27, 33, 13, 47, 20, FALSE, FALSE, FALSE, TRUE, TRUE),
			(20, 2, 5, 6, 50, 10, 45, 15, 25, FALSE, TRUE, FALSE, FALSE, FALSE)`,
		`INSERT INTO transitions (node_id, section_a_id, section_b_id, non_stop) VALUES
			(2, 10, 11, TRUE),
			(3, 11, 12, TRUE)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seeding network: %v", err)
		}
	}
}
