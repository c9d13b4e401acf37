package database

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/twistle/assets"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "nested", "twistle.db"))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db, assets.Migrations()))
	require.NoError(t, Migrate(db, assets.Migrations()))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)

	_, err = db.Exec(`INSERT INTO scores(namespace, key, value, updated_at) VALUES ('a','b',1,'now')`)
	assert.NoError(t, err)
}

func TestMigrateRollsBackBrokenFile(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "twistle.db"))
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"001_ok.sql":  {Data: []byte(`CREATE TABLE ok (id INTEGER);`)},
		"002_bad.sql": {Data: []byte(`CREATE TABLE nope (;`)},
	}
	err = Migrate(db, fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "002_bad.sql")

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestMigrateRunsSelfManagedFileAsIs(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "twistle.db"))
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"001_init.sql": {Data: []byte(`CREATE TABLE scores (namespace TEXT, value INTEGER);
INSERT INTO scores VALUES ('p1', 3);`)},
		"002_rebuild.sql": {Data: []byte(`PRAGMA foreign_keys=OFF;
BEGIN TRANSACTION;
CREATE TABLE scores_new (namespace TEXT PRIMARY KEY, value INTEGER NOT NULL DEFAULT 0);
INSERT INTO scores_new SELECT namespace, value FROM scores;
DROP TABLE scores;
ALTER TABLE scores_new RENAME TO scores;
COMMIT;
PRAGMA foreign_keys=ON;`)},
	}
	require.NoError(t, Migrate(db, fsys))
	require.NoError(t, Migrate(db, fsys))

	var v int
	require.NoError(t, db.QueryRow(`SELECT value FROM scores WHERE namespace='p1'`).Scan(&v))
	assert.Equal(t, 3, v)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&n))
	assert.Equal(t, 2, n)

	_, err = db.Exec(`INSERT INTO scores(namespace) VALUES ('p1')`)
	assert.Error(t, err, "primary key from the rebuilt table")
}
