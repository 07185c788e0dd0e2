// Package loader inserts fixture records into the store in foreign key
// dependency order.
//
// Records are grouped by their model label and inserted one entity at a time
// in registry order, so a fixture may list children before parents. Every row
// is inserted in its own session and committed before the next one starts.
package loader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/booksales/internal/catalog"
	"github.com/leapstack-labs/booksales/internal/fixture"
	"github.com/leapstack-labs/booksales/internal/schema"
	"github.com/leapstack-labs/booksales/pkg/dialect"
)

// SessionOpener runs units of work against the store.
type SessionOpener interface {
	// Session runs fn in a transaction that is committed when fn succeeds.
	Session(ctx context.Context, fn func(tx *sql.Tx) error) error
	Dialect() *dialect.Dialect
	// ClassifyError turns store constraint failures on table into
	// integrity errors and returns other errors unchanged.
	ClassifyError(table string, err error) error
}

// Summary describes a completed load.
type Summary struct {
	RunID    uuid.UUID
	Inserted map[string]int
	// Skipped counts records whose label is not a known entity.
	Skipped int
	Elapsed time.Duration
}

// Total returns the number of inserted rows.
func (s *Summary) Total() int {
	n := 0
	for _, c := range s.Inserted {
		n += c
	}
	return n
}

// Loader inserts fixture records.
type Loader struct {
	reg    *schema.Registry
	sess   SessionOpener
	logger *slog.Logger
}

// New creates a loader. If logger is nil, a discard logger is used.
func New(reg *schema.Registry, sess SessionOpener, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{reg: reg, sess: sess, logger: logger}
}

// Load inserts records. The first decode or integrity failure stops the run;
// rows committed before it stay committed.
func (l *Loader) Load(ctx context.Context, records []fixture.Record) (*Summary, error) {
	start := time.Now()
	sum := &Summary{RunID: uuid.New(), Inserted: make(map[string]int)}
	log := l.logger.With("run_id", sum.RunID.String())

	groups := make(map[string][]fixture.Record)
	for _, rec := range records {
		if _, ok := l.reg.Lookup(rec.Model); !ok {
			log.Debug("skipping record with unknown model", "model", rec.Model)
			sum.Skipped++
			continue
		}
		groups[rec.Model] = append(groups[rec.Model], rec)
	}

	log.Debug("loading fixture", "records", len(records), "skipped", sum.Skipped)

	d := l.sess.Dialect()
	explicitIDs := false

	for _, ent := range l.reg.Entities() {
		group := groups[ent.Label]
		if len(group) == 0 {
			continue
		}
		withID := ent.InsertSQL(d, true)
		withoutID := ent.InsertSQL(d, false)

		for i, rec := range group {
			row, err := ent.Decode(rec.Fields)
			if err != nil {
				var fe *catalog.FieldError
				if errors.As(err, &fe) {
					fe.Index = i
				}
				return sum, fmt.Errorf("load %s: %w", ent.Label, err)
			}

			query, args := withoutID, row.Args()
			if rec.PK != nil {
				query = withID
				args = append([]any{*rec.PK}, args...)
				explicitIDs = true
			}

			err = l.sess.Session(ctx, func(tx *sql.Tx) error {
				_, err := tx.ExecContext(ctx, query, args...)
				return err
			})
			if err != nil {
				return sum, fmt.Errorf("load %s record %d: %w", ent.Label, i, l.sess.ClassifyError(ent.Table, err))
			}
			sum.Inserted[ent.Label]++
		}
		log.Debug("loaded entity", "label", ent.Label, "rows", sum.Inserted[ent.Label])
	}

	if explicitIDs && d.SyncIdentity != nil {
		err := l.sess.Session(ctx, func(tx *sql.Tx) error {
			return schema.SyncIdentities(ctx, txExecer{tx}, l.reg, d)
		})
		if err != nil {
			return sum, err
		}
	}

	sum.Elapsed = time.Since(start)
	log.Info("fixture loaded", "rows", sum.Total(), "skipped", sum.Skipped, "elapsed", sum.Elapsed)
	return sum, nil
}

// txExecer adapts *sql.Tx to schema.Execer.
type txExecer struct{ tx *sql.Tx }

func (t txExecer) Exec(ctx context.Context, query string, args ...any) error {
	_, err := t.tx.ExecContext(ctx, query, args...)
	return err
}
