package loader_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/leapstack-labs/booksales/internal/catalog"
	"github.com/leapstack-labs/booksales/internal/engine"
	"github.com/leapstack-labs/booksales/internal/fixture"
	"github.com/leapstack-labs/booksales/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng := engine.NewWithAdapter(testutil.OpenSQLite(t), testutil.NewTestLogger(t))
	require.NoError(t, eng.CreateSchema(context.Background()))
	return eng
}

func decode(t *testing.T, s string) []fixture.Record {
	t.Helper()
	records, err := fixture.Decode(strings.NewReader(s))
	require.NoError(t, err)
	return records
}

func pk(n int64) *int64 { return &n }

func count(t *testing.T, eng *engine.Engine, table string) int64 {
	t.Helper()
	stats, err := eng.Stats(context.Background())
	require.NoError(t, err)
	for _, s := range stats {
		if s.Table == table {
			return s.Rows
		}
	}
	t.Fatalf("table %s not in stats", table)
	return 0
}

func TestLoad_DependencyOrder(t *testing.T) {
	eng := newEngine(t)

	// children listed before parents
	sum, err := eng.Load(context.Background(), decode(t, testutil.MinimalFixture))
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"publisher": 1, "book": 1, "shop": 1, "stock": 1, "sale": 1}, sum.Inserted)
	assert.Equal(t, 5, sum.Total())
	assert.Zero(t, sum.Skipped)
	assert.NotEqual(t, uuid.Nil, sum.RunID)
}

func TestLoad_SampleFixture(t *testing.T) {
	eng := newEngine(t)
	records, err := fixture.Load(context.Background(), testutil.SampleFixturePath(t), fixture.Options{})
	require.NoError(t, err)

	sum, err := eng.Load(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, testutil.SamplePublishers, sum.Inserted["publisher"])
	assert.Equal(t, testutil.SampleBooks, sum.Inserted["book"])
	assert.Equal(t, testutil.SampleShops, sum.Inserted["shop"])
	assert.Equal(t, testutil.SampleStock, sum.Inserted["stock"])
	assert.Equal(t, testutil.SampleSales, sum.Inserted["sale"])
	assert.Equal(t, int64(testutil.SampleSales), count(t, eng, "sale"))
}

func TestLoad_UnknownLabelsSkipped(t *testing.T) {
	eng := newEngine(t)
	records := []fixture.Record{
		{Model: "author", PK: pk(1), Fields: map[string]any{"name": "Lutz"}},
		{Model: "publisher", PK: pk(1), Fields: map[string]any{"name": "O'Reilly"}},
		{Model: "review", Fields: map[string]any{}},
	}

	sum, err := eng.Load(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Skipped)
	assert.Equal(t, 1, sum.Inserted["publisher"])
}

func TestLoad_StoreAssignedIDs(t *testing.T) {
	eng := newEngine(t)
	records := []fixture.Record{
		{Model: "publisher", Fields: map[string]any{"name": "O'Reilly"}},
		{Model: "publisher", Fields: map[string]any{"name": "Pearson"}},
	}

	_, err := eng.Load(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count(t, eng, "publisher"))

	rows, err := eng.Lookup(context.Background(), "2")
	require.NoError(t, err)
	assert.Empty(t, rows, "no books yet")
}

func TestLoad_IntegrityViolations(t *testing.T) {
	base := func() []fixture.Record {
		return []fixture.Record{
			{Model: "publisher", PK: pk(1), Fields: map[string]any{"name": "O'Reilly"}},
			{Model: "book", PK: pk(1), Fields: map[string]any{"title": "Learning Python", "id_publisher": json.Number("1")}},
			{Model: "shop", PK: pk(1), Fields: map[string]any{"name": "Labirint"}},
			{Model: "stock", PK: pk(1), Fields: map[string]any{"id_book": json.Number("1"), "id_shop": json.Number("1"), "count": json.Number("5")}},
		}
	}

	tests := []struct {
		name      string
		extra     fixture.Record
		wantTable string
	}{
		{
			name:      "negative stock count",
			extra:     fixture.Record{Model: "stock", PK: pk(2), Fields: map[string]any{"id_book": json.Number("1"), "id_shop": json.Number("1"), "count": json.Number("-1")}},
			wantTable: "stock",
		},
		{
			name: "zero sale price",
			extra: fixture.Record{Model: "sale", PK: pk(1), Fields: map[string]any{
				"price": "0", "date_sale": "2020-05-17T10:00:00.000000+00:00", "id_stock": json.Number("1"), "count": json.Number("1"),
			}},
			wantTable: "sale",
		},
		{
			name: "zero sale count",
			extra: fixture.Record{Model: "sale", PK: pk(1), Fields: map[string]any{
				"price": "10.00", "date_sale": "2020-05-17T10:00:00.000000+00:00", "id_stock": json.Number("1"), "count": json.Number("0"),
			}},
			wantTable: "sale",
		},
		{
			name:      "duplicate publisher name",
			extra:     fixture.Record{Model: "publisher", PK: pk(2), Fields: map[string]any{"name": "O'Reilly"}},
			wantTable: "publisher",
		},
		{
			name:      "empty shop name",
			extra:     fixture.Record{Model: "shop", PK: pk(2), Fields: map[string]any{"name": ""}},
			wantTable: "shop",
		},
		{
			name:      "dangling book reference",
			extra:     fixture.Record{Model: "stock", PK: pk(2), Fields: map[string]any{"id_book": json.Number("99"), "id_shop": json.Number("1"), "count": json.Number("1")}},
			wantTable: "stock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := newEngine(t)
			_, err := eng.Load(context.Background(), append(base(), tt.extra))
			require.Error(t, err)
			assert.ErrorIs(t, err, engine.ErrIntegrityViolation)

			var ie *engine.IntegrityError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, tt.wantTable, ie.Table)
		})
	}
}

func TestLoad_CommittedRowsSurviveFailure(t *testing.T) {
	eng := newEngine(t)
	records := []fixture.Record{
		{Model: "publisher", PK: pk(1), Fields: map[string]any{"name": "O'Reilly"}},
		{Model: "publisher", PK: pk(2), Fields: map[string]any{"name": "Pearson"}},
		{Model: "publisher", PK: pk(3), Fields: map[string]any{"name": "Pearson"}},
	}

	_, err := eng.Load(context.Background(), records)
	require.ErrorIs(t, err, engine.ErrIntegrityViolation)
	assert.Equal(t, int64(2), count(t, eng, "publisher"), "rows before the failure stay committed")
}

func TestLoad_FieldErrors(t *testing.T) {
	eng := newEngine(t)
	records := []fixture.Record{
		{Model: "shop", PK: pk(1), Fields: map[string]any{"name": "Labirint"}},
		{Model: "shop", PK: pk(2), Fields: map[string]any{"title": "OZON"}},
	}

	_, err := eng.Load(context.Background(), records)
	require.Error(t, err)
	assert.False(t, errors.Is(err, engine.ErrIntegrityViolation))

	var fe *catalog.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "shop", fe.Entity)
	assert.Equal(t, 1, fe.Index)
	assert.Equal(t, "name", fe.Field)
	assert.Equal(t, catalog.ReasonMissing, fe.Reason)
}

func TestLoad_DateTruncation(t *testing.T) {
	eng := newEngine(t)
	_, err := eng.Load(context.Background(), decode(t, testutil.MinimalFixture))
	require.NoError(t, err)

	rows, err := eng.Lookup(context.Background(), "O'Reilly")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2020-05-17", rows[0].SaleDate.String())
}
