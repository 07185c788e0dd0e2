package testutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

// Expected contents of the bundled sample fixture.
const (
	SamplePublishers = 4
	SampleBooks      = 6
	SampleShops      = 3
	SampleStock      = 9
	SampleSales      = 6
)

// SampleFixturePath returns the absolute path of the repository's
// tests_data.json.
func SampleFixturePath(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot locate testutil source file")
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "tests_data.json")
}

// MinimalFixture is the one-sale scenario: one publisher, book, shop, stock
// line and sale.
const MinimalFixture = `[
  {"model": "sale", "pk": 1, "fields": {"price": "16.00", "date_sale": "2020-05-17T10:00:00.000000+00:00", "count": 1, "id_stock": 1}},
  {"model": "stock", "pk": 1, "fields": {"id_book": 1, "id_shop": 1, "count": 5}},
  {"model": "shop", "pk": 1, "fields": {"name": "Labirint"}},
  {"model": "book", "pk": 1, "fields": {"title": "Learning Python", "id_publisher": 1}},
  {"model": "publisher", "pk": 1, "fields": {"name": "O'Reilly"}}
]`
