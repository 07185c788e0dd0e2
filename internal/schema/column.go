package schema

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/booksales/pkg/dialect"
)

// Kind is the abstract column type a dialect maps to concrete SQL.
type Kind int

// Column kinds.
const (
	KindIdentity Kind = iota
	KindInteger
	KindString
	KindDecimal
	KindDate
)

// Type is an abstract column type with its size parameters.
type Type struct {
	Kind      Kind
	Size      int
	Precision int
	Scale     int
}

// Abstract column types.
var (
	Identity = Type{Kind: KindIdentity}
	Integer  = Type{Kind: KindInteger}
	Date     = Type{Kind: KindDate}
)

// String is a bounded character type.
func String(size int) Type { return Type{Kind: KindString, Size: size} }

// Decimal is a fixed-point type.
func Decimal(precision, scale int) Type {
	return Type{Kind: KindDecimal, Precision: precision, Scale: scale}
}

// SQL renders t for d. Identity columns are rendered by the dialect directly.
func (t Type) SQL(d *dialect.Dialect) string {
	switch t.Kind {
	case KindInteger:
		return d.IntegerType
	case KindString:
		return d.StringType(t.Size)
	case KindDecimal:
		return d.DecimalType(t.Precision, t.Scale)
	case KindDate:
		return d.DateType
	default:
		return d.IntegerType
	}
}

// Column is one column of an entity table.
type Column struct {
	Name    string
	Type    Type
	NotNull bool
	Unique  bool
	// NonEmpty adds a named CHECK rejecting the empty string.
	NonEmpty bool
	// References names the parent table of a foreign key ("" for none).
	References string
}

// Check is a named table-level CHECK constraint.
type Check struct {
	Name string
	Expr string
}

func (c Column) definition(table string, d *dialect.Dialect) string {
	if c.Type.Kind == KindIdentity {
		return d.IdentityColumn(table, c.Name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", c.Name, c.Type.SQL(d))
	if c.NotNull {
		b.WriteString(" NOT NULL")
	}
	if c.Unique {
		b.WriteString(" UNIQUE")
	}
	return b.String()
}
