// Package sales answers the publisher sales lookup: every sale of a
// publisher's books across shops.
package sales

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/leapstack-labs/booksales/internal/catalog"
	"github.com/leapstack-labs/booksales/internal/schema"
	"github.com/leapstack-labs/booksales/pkg/dialect"
)

// SessionOpener runs read-only units of work against the store.
type SessionOpener interface {
	// ReadSession runs fn in a transaction that is always rolled back.
	ReadSession(ctx context.Context, fn func(tx *sql.Tx) error) error
	Dialect() *dialect.Dialect
}

// Identifier selects a publisher either by id or by exact name.
type Identifier struct {
	Raw  string
	ID   int64
	Name string
	ByID bool
}

func (i Identifier) String() string { return i.Raw }

// ParseIdentifier interprets user input after trimming surrounding
// whitespace. Input that parses as a base-10 integer selects by id; anything
// else selects by name. A publisher whose name is all digits can therefore
// only be found by its id.
func ParseIdentifier(s string) Identifier {
	trimmed := strings.TrimSpace(s)
	if id, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return Identifier{Raw: s, ID: id, ByID: true}
	}
	return Identifier{Raw: s, Name: trimmed}
}

// Service runs sales lookups.
type Service struct {
	reg    *schema.Registry
	sess   SessionOpener
	logger *slog.Logger
}

// NewService creates a lookup service. If logger is nil, a discard logger is used.
func NewService(reg *schema.Registry, sess SessionOpener, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{reg: reg, sess: sess, logger: logger}
}

// Lookup returns one row per sale of the matched publisher's books, ordered by
// sale id. No match yields an empty slice and no error.
func (s *Service) Lookup(ctx context.Context, identifier string) ([]catalog.SaleRow, error) {
	id := ParseIdentifier(identifier)
	query := s.query(id.ByID)

	var arg any = id.Name
	if id.ByID {
		arg = id.ID
	}

	s.logger.Debug("looking up publisher sales", "identifier", id.Raw, "by_id", id.ByID)

	rows := []catalog.SaleRow{}
	err := s.sess.ReadSession(ctx, func(tx *sql.Tx) error {
		res, err := tx.QueryContext(ctx, query, arg)
		if err != nil {
			return err
		}
		defer func() { _ = res.Close() }()

		for res.Next() {
			var r catalog.SaleRow
			if err := res.Scan(&r.BookTitle, &r.ShopName, &r.Price, &r.SaleDate); err != nil {
				return fmt.Errorf("scan sale row: %w", err)
			}
			rows = append(rows, r)
		}
		return res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("lookup publisher %q: %w", id.Raw, err)
	}

	s.logger.Debug("lookup complete", "identifier", id.Raw, "rows", len(rows))
	return rows, nil
}

// query renders the five-way join filtered on publisher id or name.
func (s *Service) query(byID bool) string {
	d := s.sess.Dialect()
	filter := "p.name = " + d.FormatPlaceholder(1)
	if byID {
		filter = "p.id = " + d.FormatPlaceholder(1)
	}
	return fmt.Sprintf(`SELECT b.title, sh.name, CAST(sa.price AS VARCHAR(32)), sa.date_sale
FROM %s p
JOIN %s b ON b.id_publisher = p.id
JOIN %s st ON st.id_book = b.id
JOIN %s sh ON sh.id = st.id_shop
JOIN %s sa ON sa.id_stock = st.id
WHERE %s
ORDER BY sa.id`,
		s.reg.Table(schema.LabelPublisher),
		s.reg.Table(schema.LabelBook),
		s.reg.Table(schema.LabelStock),
		s.reg.Table(schema.LabelShop),
		s.reg.Table(schema.LabelSale),
		filter,
	)
}
