// Package catalog defines the typed rows of the bookstore dataset.
//
// Each entity exposes Args, the insert values in the column order its schema
// entity declares (identity column excluded), and a Decode function that turns
// a fixture record's field map into the typed row.
package catalog

import (
	"github.com/shopspring/decimal"
)

// Publisher issues books.
type Publisher struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Args returns insert values for (name).
func (p Publisher) Args() []any { return []any{p.Name} }

// Book is a title issued by a publisher.
type Book struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	PublisherID int64  `json:"id_publisher"`
}

// Args returns insert values for (title, id_publisher).
func (b Book) Args() []any { return []any{b.Title, b.PublisherID} }

// Shop is a retail outlet.
type Shop struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Args returns insert values for (name).
func (s Shop) Args() []any { return []any{s.Name} }

// Stock is the inventory of one book at one shop.
type Stock struct {
	ID     int64 `json:"id"`
	BookID int64 `json:"id_book"`
	ShopID int64 `json:"id_shop"`
	Count  int64 `json:"count"`
}

// Args returns insert values for (id_book, id_shop, count).
func (s Stock) Args() []any { return []any{s.BookID, s.ShopID, s.Count} }

// Sale is one transaction against a stock line.
type Sale struct {
	ID       int64           `json:"id"`
	Price    decimal.Decimal `json:"price"`
	DateSale Date            `json:"date_sale"`
	StockID  int64           `json:"id_stock"`
	Count    int64           `json:"count"`
}

// Args returns insert values for (price, date_sale, id_stock, count).
func (s Sale) Args() []any {
	return []any{s.Price, s.DateSale, s.StockID, s.Count}
}

// SaleRow is one line of a publisher sales lookup.
type SaleRow struct {
	BookTitle string
	ShopName  string
	Price     decimal.Decimal
	SaleDate  Date
}
