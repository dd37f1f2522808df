package persist_test

import (
	"context"
	"os"
	"testing"

	"github.com/plus3/interstellar/config"
	"github.com/plus3/interstellar/ident"
	"github.com/plus3/interstellar/persist"
	"github.com/plus3/interstellar/stargen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// testDB connects to the database named by INTERSTELLAR_TEST_DSN and skips
// the test when it is unset.
func testDB(t *testing.T) *persist.DB {
	t.Helper()
	dsn := os.Getenv("INTERSTELLAR_TEST_DSN")
	if dsn == "" {
		t.Skip("INTERSTELLAR_TEST_DSN not set")
	}
	ctx := context.Background()
	db, err := persist.NewDB(ctx, config.DatabaseConfig{DSN: dsn, MaxOpenConns: 2}, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, persist.RunMigrations(ctx, db.Pool))
	return db
}

func TestStarRepoRoundTrip(t *testing.T) {
	db := testDB(t)
	repo := persist.NewStarRepo(db)
	ctx := context.Background()

	gen := stargen.NewSeeded(3, stargen.NewIMF(stargen.DefaultExponent), stargen.Classic)
	var stars []stargen.Star
	for i := 0; i < 3; i++ {
		s, err := gen.Generate()
		require.NoError(t, err)
		stars = append(stars, s)
	}

	sys := ident.NewPacked(ident.KindSolarSystem, 0xfff000)
	require.NoError(t, repo.Save(ctx, sys, stars))
	require.NoError(t, repo.Save(ctx, sys, stars), "save replaces")

	loaded, err := repo.LoadSystem(ctx, sys)
	require.NoError(t, err)
	assert.Equal(t, stars, loaded)

	all, err := repo.Load(ctx)
	require.NoError(t, err)
	found := 0
	for _, row := range all {
		if row.SystemID == sys {
			found++
		}
	}
	assert.Equal(t, 3, found)

	require.NoError(t, repo.Save(ctx, sys, nil))
	loaded, err = repo.LoadSystem(ctx, sys)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestStarRepoWrapsQueryErrors(t *testing.T) {
	db := testDB(t)
	repo := persist.NewStarRepo(db)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Load(ctx)
	assert.ErrorContains(t, err, "load stars")

	_, err = repo.LoadSystem(ctx, ident.NewPacked(ident.KindSolarSystem, 1))
	assert.ErrorContains(t, err, "load stars of")

	_, err = repo.Count(ctx)
	assert.ErrorContains(t, err, "count stars")
}
