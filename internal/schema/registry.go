// Package schema holds the explicit registry of bookstore entities and renders
// their DDL for each store dialect.
//
// The registry is built once with NewRegistry and handed to the loader and the
// query service. Its order is the foreign key dependency order: every entity
// appears after the entities it references.
package schema

import (
	"github.com/leapstack-labs/booksales/internal/catalog"
)

// Entity labels as they appear in fixture records.
const (
	LabelPublisher = "publisher"
	LabelBook      = "book"
	LabelShop      = "shop"
	LabelStock     = "stock"
	LabelSale      = "sale"
)

// IDColumn is the synthetic identity key every entity carries.
const IDColumn = "id"

// Row is a typed row ready for insertion.
type Row interface {
	// Args returns the insert values for Entity.InsertColumns, in order.
	Args() []any
}

// DecodeFunc builds a typed row from a fixture field map.
type DecodeFunc func(fields map[string]any) (Row, error)

// Entity describes one table.
type Entity struct {
	Label   string
	Table   string
	Columns []Column
	Checks  []Check
	Decode  DecodeFunc
}

// InsertColumns returns the non-identity column names in declaration order.
func (e *Entity) InsertColumns() []string {
	cols := make([]string, 0, len(e.Columns))
	for _, c := range e.Columns {
		if c.Type.Kind != KindIdentity {
			cols = append(cols, c.Name)
		}
	}
	return cols
}

// Parents returns the tables this entity references.
func (e *Entity) Parents() []string {
	var out []string
	for _, c := range e.Columns {
		if c.References != "" {
			out = append(out, c.References)
		}
	}
	return out
}

// Registry is the ordered set of entities.
type Registry struct {
	entities []*Entity
	byLabel  map[string]*Entity
}

// NewRegistry returns the bookstore registry in dependency order:
// publisher, book, shop, stock, sale.
func NewRegistry() *Registry {
	return newRegistry(
		&Entity{
			Label: LabelPublisher,
			Table: "publisher",
			Columns: []Column{
				{Name: IDColumn, Type: Identity},
				{Name: "name", Type: String(255), NotNull: true, Unique: true, NonEmpty: true},
			},
			Decode: decodeWith(catalog.DecodePublisher),
		},
		&Entity{
			Label: LabelBook,
			Table: "book",
			Columns: []Column{
				{Name: IDColumn, Type: Identity},
				{Name: "title", Type: String(255), NotNull: true, Unique: true, NonEmpty: true},
				{Name: "id_publisher", Type: Integer, NotNull: true, References: "publisher"},
			},
			Decode: decodeWith(catalog.DecodeBook),
		},
		&Entity{
			Label: LabelShop,
			Table: "shop",
			Columns: []Column{
				{Name: IDColumn, Type: Identity},
				{Name: "name", Type: String(255), NotNull: true, Unique: true, NonEmpty: true},
			},
			Decode: decodeWith(catalog.DecodeShop),
		},
		&Entity{
			Label: LabelStock,
			Table: "stock",
			Columns: []Column{
				{Name: IDColumn, Type: Identity},
				{Name: "id_book", Type: Integer, NotNull: true, References: "book"},
				{Name: "id_shop", Type: Integer, NotNull: true, References: "shop"},
				{Name: "count", Type: Integer, NotNull: true},
			},
			Checks: []Check{{Name: "ck_stock_count", Expr: "count >= 0"}},
			Decode: decodeWith(catalog.DecodeStock),
		},
		&Entity{
			Label: LabelSale,
			Table: "sale",
			Columns: []Column{
				{Name: IDColumn, Type: Identity},
				{Name: "price", Type: Decimal(10, 2), NotNull: true},
				{Name: "date_sale", Type: Date, NotNull: true},
				{Name: "id_stock", Type: Integer, NotNull: true, References: "stock"},
				{Name: "count", Type: Integer, NotNull: true},
			},
			Checks: []Check{
				{Name: "ck_sale_price", Expr: "price > 0"},
				{Name: "ck_sale_count", Expr: "count > 0"},
			},
			Decode: decodeWith(catalog.DecodeSale),
		},
	)
}

func newRegistry(entities ...*Entity) *Registry {
	r := &Registry{byLabel: make(map[string]*Entity, len(entities))}
	for _, e := range entities {
		r.entities = append(r.entities, e)
		r.byLabel[e.Label] = e
	}
	return r
}

func decodeWith[T Row](fn func(map[string]any) (T, error)) DecodeFunc {
	return func(fields map[string]any) (Row, error) {
		row, err := fn(fields)
		if err != nil {
			return nil, err
		}
		return row, nil
	}
}

// Entities returns the entities in dependency order.
func (r *Registry) Entities() []*Entity {
	out := make([]*Entity, len(r.entities))
	copy(out, r.entities)
	return out
}

// Lookup returns the entity for a fixture label.
func (r *Registry) Lookup(label string) (*Entity, bool) {
	e, ok := r.byLabel[label]
	return e, ok
}

// Labels returns the fixture labels in dependency order.
func (r *Registry) Labels() []string {
	out := make([]string, len(r.entities))
	for i, e := range r.entities {
		out[i] = e.Label
	}
	return out
}

// Table returns the table name for a label, or "" if unknown.
func (r *Registry) Table(label string) string {
	if e, ok := r.byLabel[label]; ok {
		return e.Table
	}
	return ""
}
