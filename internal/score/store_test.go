package score

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/twistle/assets"
	"github.com/robalobadob/twistle/internal/database"
)

func providers(t *testing.T) map[string]Provider {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db, assets.Migrations()))
	return map[string]Provider{
		"sqlite": NewSQL(db),
		"memory": NewMemory(),
	}
}

func TestStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	for name, p := range providers(t) {
		t.Run(name, func(t *testing.T) {
			st := p.For("player-1")

			n, err := st.ReadLastScore(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, n, "absent record reads as 0")

			require.NoError(t, st.RecordScore(ctx, 3))
			n, err = st.ReadLastScore(ctx)
			require.NoError(t, err)
			assert.Equal(t, 3, n)

			require.NoError(t, st.RecordScore(ctx, 1))
			n, err = st.ReadLastScore(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, n, "next session overwrites")

			other, err := p.For("player-2").ReadLastScore(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, other)
		})
	}
}
