package migrations

import (
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedFiles(t *testing.T) {
	pg, err := Files(PostgresFS, "postgres")
	require.NoError(t, err)
	assert.Equal(t, []string{"001_charts.sql", "002_planet_strength.sql"}, pg)

	ch, err := Files(ClickhouseFS, "clickhouse")
	require.NoError(t, err)
	assert.Equal(t, []string{"001_dasha_periods.sql"}, ch)
}

func TestEmbeddedClickhouseFilesSplitCleanly(t *testing.T) {
	files, err := Files(ClickhouseFS, "clickhouse")
	require.NoError(t, err)
	for _, f := range files {
		data, err := fs.ReadFile(ClickhouseFS, "clickhouse/"+f)
		require.NoError(t, err)
		require.NoError(t, checkStatements(string(data)), f)

		stmts := splitStatements(string(data))
		require.Len(t, stmts, 1, f)
		assert.True(t, strings.HasPrefix(stmts[0], "CREATE TABLE IF NOT EXISTS dasha_periods"))
	}
}

func TestFiles_SortsAndFilters(t *testing.T) {
	fsys := fstest.MapFS{
		"m/002_b.sql":   {Data: []byte("b")},
		"m/001_a.sql":   {Data: []byte("a")},
		"m/README.md":   {Data: []byte("x")},
		"m/sub/003.sql": {Data: []byte("c")},
	}
	files, err := Files(fsys, "m")
	require.NoError(t, err)
	assert.Equal(t, []string{"001_a.sql", "002_b.sql"}, files)

	_, err = Files(fsys, "missing")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	assert.Equal(t, "001_charts", Version("001_charts.sql"))
	assert.Equal(t, "002_x", Version("postgres/002_x.sql"))
}

func TestSplitStatements(t *testing.T) {
	sql := `
-- leading comment
CREATE TABLE a (x UInt8);

  -- indented comment
CREATE TABLE b (y UInt8)
ENGINE = Memory;
`
	stmts := splitStatements(sql)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (x UInt8)", stmts[0])
	assert.Equal(t, "CREATE TABLE b (y UInt8)\nENGINE = Memory", stmts[1])
}

func TestCheckStatements(t *testing.T) {
	assert.NoError(t, checkStatements(`SELECT 'a''b'; SELECT 1;`))
	assert.Error(t, checkStatements(`SELECT 'a;b';`))
	assert.Error(t, checkStatements(`SELECT 'it''s;here';`))
}

func TestDatabaseFromDSN(t *testing.T) {
	db, err := databaseFromDSN("clickhouse://user:pw@localhost:9000/charts")
	require.NoError(t, err)
	assert.Equal(t, "charts", db)

	_, err = databaseFromDSN("clickhouse://localhost:9000")
	assert.Error(t, err)
}
