package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"sectionview/internal/db"
	"sectionview/internal/editor"
	"sectionview/internal/orientation"
	"sectionview/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seededDB creates a SQLite file through "init" and fills it with the chain fixture.
func seededDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "network.db")
	_, err := executeCmd(t, "init", "--db", path)
	require.NoError(t, err)

	database, err := db.Open(path)
	require.NoError(t, err)
	defer database.Close()
	testutil.SeedChainNetwork(t, database)
	return path
}

// executeCmd runs the root command and captures its output. A bytes.Buffer
// is never a terminal, so output defaults to JSON.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(&App{})
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func decodeOutput[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func TestInit_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network.db")
	for i := 0; i < 2; i++ {
		out, err := executeCmd(t, "init", "--db", path)
		require.NoError(t, err)
		assert.Equal(t, initOutput{Database: path, Status: "ok"}, decodeOutput[initOutput](t, out))
	}
}

func TestShow_JSON(t *testing.T) {
	path := seededDB(t)

	out, err := executeCmd(t, "show", "20", "--db", path, "--order", "5,6")
	require.NoError(t, err)

	p := decodeOutput[editor.Presentation](t, out)
	assert.Equal(t, 5, p.LeftNodeID)
	assert.Equal(t, [2]string{"OL", "(Olten)"}, p.LeftLabel)
	assert.Equal(t, 50.0, p.Times.LeftDepartureTime)
}

func TestShow_Text(t *testing.T) {
	path := seededDB(t)

	out, err := executeCmd(t, "show", "11", "--db", path, "--format", "text", "--left-departure", "20")
	require.NoError(t, err)
	assert.Contains(t, out, "SECTION 11 · IC 1")
	assert.Contains(t, out, "ZUE")
	assert.Contains(t, out, "travel time 45 min")
	assert.Contains(t, out, "preview")
}

func TestLocks(t *testing.T) {
	path := seededDB(t)

	out, err := executeCmd(t, "locks", "20", "--db", path)
	require.NoError(t, err)
	assert.Equal(t, locksOutput{
		SectionID:  20,
		LeftNodeID: 6,
		Locks:      orientation.LockStructure{RightLock: true},
		SourceLock: true,
	}, decodeOutput[locksOutput](t, out))
}

func TestSelect_FlipsWithOrder(t *testing.T) {
	path := seededDB(t)

	out, err := executeCmd(t, "select", "20", "source-departure", "--db", path, "--order", "6", "--order", "5")
	require.NoError(t, err)
	got := decodeOutput[selectOutput](t, out)
	require.NotNil(t, got.Element)
	assert.Equal(t, orientation.RightDeparture, *got.Element)

	out, err = executeCmd(t, "select", "20", "source-departure", "--db", path, "--order", "5,6")
	require.NoError(t, err)
	got = decodeOutput[selectOutput](t, out)
	require.NotNil(t, got.Element)
	assert.Equal(t, orientation.LeftDeparture, *got.Element)
}

func TestDistribute(t *testing.T) {
	path := seededDB(t)

	out, err := executeCmd(t, "distribute", "12", "90", "--db", path)
	require.NoError(t, err)
	got := decodeOutput[distributeOutput](t, out)
	assert.Equal(t, []orientation.LegTravelTime{
		{SectionID: 10, TravelTime: 20},
		{SectionID: 11, TravelTime: 30},
		{SectionID: 12, TravelTime: 40},
	}, got.Legs)
}

func TestCommandErrors(t *testing.T) {
	path := seededDB(t)
	cases := [][]string{
		{"show", "abc", "--db", path},
		{"show", "99", "--db", path},
		{"show", "20", "--db", path, "--order", "5,x"},
		{"select", "20", "platform", "--db", path},
		{"distribute", "12", "soon", "--db", path},
		{"show", "20", "--db", path, "--format", "yaml"},
	}
	for _, args := range cases {
		_, err := executeCmd(t, args...)
		assert.Error(t, err, "%v", args)
	}
}

func TestShow_UnknownSectionWrapsError(t *testing.T) {
	path := seededDB(t)
	_, err := executeCmd(t, "show", "99", "--db", path)
	assert.ErrorIs(t, err, editor.ErrUnknownSection)
}

func TestMissingDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PG_DSN", "")
	t.Setenv("SQLITE_DATABASE", "")

	_, err := executeCmd(t, "show", "1")
	assert.ErrorContains(t, err, "no database")
}

func TestAutoFormatFollowsTerminal(t *testing.T) {
	path := seededDB(t)
	root := NewRootCmd(&App{IsTerminal: func(io.Writer) bool { return true }})
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetArgs([]string{"locks", "20", "--db", path})
	require.NoError(t, root.Execute())

	assert.Contains(t, buf.String(), "source locked, target free")
}
