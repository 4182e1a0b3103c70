package seeder

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Rana718/gridbase/internal/database/sqlite"
	"github.com/Rana718/gridbase/internal/query"
	"github.com/Rana718/gridbase/internal/types"
	"github.com/stretchr/testify/require"
)

var testColumns = []types.Column{
	{ID: 1, Name: "Title", Type: types.ColumnText},
	{ID: 2, Name: "Score", Type: types.ColumnNumber},
}

func TestSeededGeneratorIsRepeatable(t *testing.T) {
	a := NewSeededGenerator(7).Row(testColumns)
	b := NewSeededGenerator(7).Row(testColumns)
	require.Equal(t, a, b)

	title, ok := a["Title"].(string)
	require.True(t, ok)
	require.NotEmpty(t, title)
	require.Equal(t, byte('.'), title[len(title)-1])

	score, ok := a["Score"].(int)
	require.True(t, ok)
	require.GreaterOrEqual(t, score, 0)
	require.LessOrEqual(t, score, maxFakeNumber)
}

func TestSeedInsertsInBatches(t *testing.T) {
	ctx := context.Background()
	store := sqlite.New(1)
	require.NoError(t, store.Connect(ctx, filepath.Join(t.TempDir(), "seed.db")))
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Init(ctx))

	base, err := store.CreateBase(ctx, "Seeding")
	require.NoError(t, err)
	table, err := store.CreateTable(ctx, types.NewTable{
		BaseID:  base.ID,
		Name:    "Fake",
		Columns: []types.ColumnDef{{Name: "Title", Type: types.ColumnText}, {Name: "Score", Type: types.ColumnNumber}},
	})
	require.NoError(t, err)

	s := NewSeeder(store, NewSeededGenerator(1))
	n, err := s.Seed(ctx, table.ID, table.Columns, SeedConfig{Count: 25, Batch: 10, Quiet: true})
	require.NoError(t, err)
	require.Equal(t, 25, n)

	rows, err := store.QueryRows(ctx, query.RowQuery{TableID: table.ID})
	require.NoError(t, err)
	require.Len(t, rows, 25)
}

func TestSeedStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSeeder(nil, nil)
	n, err := s.Seed(ctx, 1, testColumns, SeedConfig{Count: 10, Quiet: true})
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, n)
}
