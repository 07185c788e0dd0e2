package sales_test

import (
	"context"
	"strings"
	"testing"

	"github.com/leapstack-labs/booksales/internal/engine"
	"github.com/leapstack-labs/booksales/internal/fixture"
	"github.com/leapstack-labs/booksales/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedEngine(t *testing.T, fixtureJSON string) *engine.Engine {
	t.Helper()
	ctx := context.Background()
	eng := engine.NewWithAdapter(testutil.OpenSQLite(t), testutil.NewTestLogger(t))
	require.NoError(t, eng.CreateSchema(ctx))

	records, err := fixture.Decode(strings.NewReader(fixtureJSON))
	require.NoError(t, err)
	_, err = eng.Load(ctx, records)
	require.NoError(t, err)
	return eng
}

func TestLookup_EndToEnd(t *testing.T) {
	eng := loadedEngine(t, testutil.MinimalFixture)

	rows, err := eng.Lookup(context.Background(), "O'Reilly")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, "Learning Python", rows[0].BookTitle)
	assert.Equal(t, "Labirint", rows[0].ShopName)
	assert.Equal(t, "16.00", rows[0].Price.StringFixed(2))
	assert.Equal(t, "2020-05-17", rows[0].SaleDate.String())
}

func TestLookup_PriceStoredAtCents(t *testing.T) {
	eng := loadedEngine(t, strings.Replace(testutil.MinimalFixture, `"price": "16.00"`, `"price": "9.999"`, 1))

	rows, err := eng.Lookup(context.Background(), "1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, decimal.RequireFromString("10.00").Equal(rows[0].Price), "price %s", rows[0].Price)
}

func TestLookup_IDAndNameAgree(t *testing.T) {
	eng := loadedEngine(t, testutil.MinimalFixture)

	byID, err := eng.Lookup(context.Background(), "1")
	require.NoError(t, err)
	byName, err := eng.Lookup(context.Background(), "O'Reilly")
	require.NoError(t, err)
	padded, err := eng.Lookup(context.Background(), "  O'Reilly ")
	require.NoError(t, err)
	paddedID, err := eng.Lookup(context.Background(), " 1 ")
	require.NoError(t, err)

	assert.NotEmpty(t, byID)
	assert.Equal(t, byName, byID)
	assert.Equal(t, byName, padded)
	assert.Equal(t, byID, paddedID)
}

func TestLookup_NoMatch(t *testing.T) {
	eng := loadedEngine(t, testutil.MinimalFixture)

	for _, input := range []string{"Nonexistent Press", "999", ""} {
		t.Run(input, func(t *testing.T) {
			rows, err := eng.Lookup(context.Background(), input)
			require.NoError(t, err)
			assert.NotNil(t, rows)
			assert.Empty(t, rows)
		})
	}
}

func TestLookup_SampleFixture(t *testing.T) {
	ctx := context.Background()
	eng := engine.NewWithAdapter(testutil.OpenSQLite(t), testutil.NewTestLogger(t))
	require.NoError(t, eng.CreateSchema(ctx))
	records, err := fixture.Load(ctx, testutil.SampleFixturePath(t), fixture.Options{})
	require.NoError(t, err)
	_, err = eng.Load(ctx, records)
	require.NoError(t, err)

	rows, err := eng.Lookup(ctx, "O'Reilly")
	require.NoError(t, err)

	// sales 1, 2 and 5 are against O'Reilly stock lines, in sale id order
	require.Len(t, rows, 3)
	assert.Equal(t, "Programming Python, 4th Edition", rows[0].BookTitle)
	assert.Equal(t, "Labirint", rows[0].ShopName)
	assert.True(t, decimal.RequireFromString("50.05").Equal(rows[0].Price))
	assert.Equal(t, "Natural Language Processing with Python", rows[1].BookTitle)
	assert.Equal(t, "Amazon", rows[2].ShopName)
	assert.Equal(t, "2018-10-25", rows[2].SaleDate.String())

	pearson, err := eng.Lookup(ctx, "2")
	require.NoError(t, err)
	require.Len(t, pearson, 1)
	assert.Equal(t, "Modern Operating Systems", pearson[0].BookTitle)
	assert.Equal(t, "OZON", pearson[0].ShopName)
}
