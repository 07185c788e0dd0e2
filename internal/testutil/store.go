package testutil

import (
	"context"
	"testing"

	"github.com/leapstack-labs/booksales/pkg/adapter"
	"github.com/leapstack-labs/booksales/pkg/adapters/sqlite"
)

// OpenSQLite connects a private in-memory SQLite store that is closed when
// the test ends.
func OpenSQLite(t testing.TB) adapter.Adapter {
	t.Helper()
	adp := sqlite.New(NewTestLogger(t))
	if err := adp.Connect(context.Background(), adapter.Config{Type: "sqlite", Database: ":memory:"}); err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	t.Cleanup(func() { _ = adp.Close() })
	return adp
}
