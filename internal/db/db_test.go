package db

import (
	"context"
	"database/sql"
	"testing"

	"sectionview/internal/netz"
	"sectionview/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, Migrate(database))
	return database
}

func TestFetchNetwork_MatchesFixture(t *testing.T) {
	database := newTestDB(t)
	testutil.SeedChainNetwork(t, database)

	net, err := FetchNetwork(context.Background(), database)
	require.NoError(t, err)

	want := testutil.ChainNetwork(t)
	assert.Equal(t, want.Sections(), net.Sections())
	assert.Equal(t, 6, net.NodeCount())
	assert.Equal(t, "IC 2", net.Trainrun(2).Name)
	assert.True(t, net.Node(2).IsNonStop(net.Section(10)))
}

func TestFetchNetwork_Empty(t *testing.T) {
	database := newTestDB(t)

	net, err := FetchNetwork(context.Background(), database)
	require.NoError(t, err)
	assert.Equal(t, 0, net.SectionCount())
}

func TestFetchNetwork_UnknownEndpoint(t *testing.T) {
	database := newTestDB(t)
	_, err := database.Exec(`INSERT INTO nodes (id, operating_point) VALUES (1, 'A')`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO trainrun_sections (id, trainrun_id, source_node_id, target_node_id) VALUES (10, 1, 1, 99)`)
	require.NoError(t, err)

	_, err = FetchNetwork(context.Background(), database)
	assert.ErrorIs(t, err, netz.ErrUnknownReference)
}

func TestFetchNetwork_RejectsSelfLoop(t *testing.T) {
	database := newTestDB(t)
	_, err := database.Exec(`INSERT INTO nodes (id, operating_point) VALUES (1, 'A')`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO trainrun_sections (id, trainrun_id, source_node_id, target_node_id) VALUES (10, 1, 1, 1)`)
	require.NoError(t, err)

	_, err = FetchNetwork(context.Background(), database)
	assert.ErrorIs(t, err, netz.ErrSelfLoop)
}

func TestMigrate_Idempotent(t *testing.T) {
	database := newTestDB(t)
	assert.NoError(t, Migrate(database))
}

func TestPing(t *testing.T) {
	database := newTestDB(t)
	assert.NoError(t, Ping(context.Background(), database))
}

func TestOpen_Empty(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgres://u@localhost:5432/db"))
	assert.True(t, IsPostgres("postgresql://localhost/db"))
	assert.True(t, IsPostgres("host=localhost user=postgres dbname=x"))
	assert.False(t, IsPostgres("./data/network.db"))
	assert.False(t, IsPostgres(":memory:"))
}
