package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"sectionview/internal/netz"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Open connects to a network database. postgres:// and postgresql:// DSNs
// (and libpq keyword strings) go through pgx; anything else is a SQLite path,
// ":memory:" included.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty DSN")
	}
	if IsPostgres(dsn) {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, err
		}
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(30 * time.Minute)
		return db, nil
	}

	db, err := sql.Open("sqlite", strings.TrimPrefix(dsn, "sqlite://"))
	if err != nil {
		return nil, err
	}
	// every connection to ":memory:" is a separate database
	db.SetMaxOpenConns(1)
	return db, nil
}

func IsPostgres(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") ||
		strings.HasPrefix(dsn, "postgresql://") ||
		strings.Contains(dsn, "host=")
}

func Ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

// FetchNetwork loads nodes, trainruns, sections and transitions and returns a
// validated snapshot.
func FetchNetwork(ctx context.Context, db *sql.DB) (*netz.Network, error) {
	nodes, byID, err := fetchNodes(ctx, db)
	if err != nil {
		return nil, err
	}
	trainruns, err := fetchTrainruns(ctx, db)
	if err != nil {
		return nil, err
	}
	sections, err := fetchSections(ctx, db, byID)
	if err != nil {
		return nil, err
	}
	if err := fetchTransitions(ctx, db, byID); err != nil {
		return nil, err
	}
	net, err := netz.NewNetwork(nodes, sections, trainruns)
	if err != nil {
		return nil, fmt.Errorf("build network: %w", err)
	}
	return net, nil
}

func fetchNodes(ctx context.Context, db *sql.DB) ([]*netz.Node, map[int]*netz.Node, error) {
	q := `SELECT id, operating_point, COALESCE(full_name, ''), position_x, position_y
FROM nodes ORDER BY id`
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, nil, fmt.Errorf("query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []*netz.Node
	byID := make(map[int]*netz.Node)
	for rows.Next() {
		n := &netz.Node{}
		if err := rows.Scan(&n.ID, &n.OperatingPoint, &n.FullName, &n.PositionX, &n.PositionY); err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, n)
		byID[n.ID] = n
	}
	return nodes, byID, rows.Err()
}

func fetchTrainruns(ctx context.Context, db *sql.DB) ([]*netz.Trainrun, error) {
	q := `SELECT id, name, COALESCE(category, '') FROM trainruns ORDER BY id`
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query trainruns: %w", err)
	}
	defer rows.Close()

	var runs []*netz.Trainrun
	for rows.Next() {
		tr := &netz.Trainrun{}
		if err := rows.Scan(&tr.ID, &tr.Name, &tr.Category); err != nil {
			return nil, err
		}
		runs = append(runs, tr)
	}
	return runs, rows.Err()
}

func fetchSections(ctx context.Context, db *sql.DB, nodes map[int]*netz.Node) ([]*netz.Section, error) {
	q := `
SELECT id, trainrun_id, source_node_id, target_node_id,
       source_departure, source_arrival, target_departure, target_arrival, travel_time,
       source_departure_lock, source_arrival_lock, target_departure_lock, target_arrival_lock, travel_time_lock
FROM trainrun_sections ORDER BY id`
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query trainrun_sections: %w", err)
	}
	defer rows.Close()

	var sections []*netz.Section
	for rows.Next() {
		s := &netz.Section{}
		var sourceID, targetID int
		if err := rows.Scan(
			&s.ID, &s.TrainrunID, &sourceID, &targetID,
			&s.SourceDeparture, &s.SourceArrival, &s.TargetDeparture, &s.TargetArrival, &s.TravelTime,
			&s.SourceDepartureLock, &s.SourceArrivalLock, &s.TargetDepartureLock, &s.TargetArrivalLock, &s.TravelTimeLock,
		); err != nil {
			return nil, err
		}
		s.Source, s.Target = nodes[sourceID], nodes[targetID]
		if s.Source == nil || s.Target == nil {
			return nil, fmt.Errorf("section %d: endpoints %d/%d: %w", s.ID, sourceID, targetID, netz.ErrUnknownReference)
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

func fetchTransitions(ctx context.Context, db *sql.DB, nodes map[int]*netz.Node) error {
	q := `SELECT node_id, section_a_id, section_b_id, non_stop FROM transitions ORDER BY node_id, section_a_id`
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return fmt.Errorf("query transitions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var nodeID int
		var t netz.Transition
		if err := rows.Scan(&nodeID, &t.SectionA, &t.SectionB, &t.NonStop); err != nil {
			return err
		}
		n := nodes[nodeID]
		if n == nil {
			return fmt.Errorf("transition at node %d: %w", nodeID, netz.ErrUnknownReference)
		}
		n.Transitions = append(n.Transitions, t)
	}
	return rows.Err()
}
