package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/leapstack-labs/booksales/internal/catalog"
)

// Result formats accepted by --format.
const (
	FormatTable    = "table"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "md"
)

// resultFormats lists the accepted --format values.
var resultFormats = []string{FormatTable, FormatJSON, FormatCSV, FormatMarkdown}

var salesHeader = table.Row{"Book Title", "Shop Name", "Price", "Sale Date"}

// saleJSON is the machine-readable form of one sale row.
type saleJSON struct {
	BookTitle string `json:"book_title"`
	ShopName  string `json:"shop_name"`
	Price     string `json:"price"`
	SaleDate  string `json:"sale_date"`
}

func validateFormat(format string) error {
	switch format {
	case FormatTable, FormatJSON, FormatCSV, FormatMarkdown, "markdown":
		return nil
	}
	return fmt.Errorf("unknown format %q (want one of %v)", format, resultFormats)
}

// renderSales writes the lookup result for identifier in the given format.
func renderSales(w io.Writer, identifier string, rows []catalog.SaleRow, format string) error {
	switch format {
	case FormatJSON:
		return renderSalesJSON(w, rows)
	case FormatCSV:
		_, err := fmt.Fprintln(w, salesTable(rows).RenderCSV())
		return err
	case FormatMarkdown, "markdown":
		if len(rows) == 0 {
			return renderNoSales(w, identifier)
		}
		_, err := fmt.Fprintln(w, salesTable(rows).RenderMarkdown())
		return err
	default:
		if len(rows) == 0 {
			return renderNoSales(w, identifier)
		}
		if _, err := fmt.Fprintln(w, salesTable(rows).Render()); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "(%d rows)\n", len(rows))
		return err
	}
}

// newTable returns a light-style table that keeps header case as written.
func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	return t
}

func salesTable(rows []catalog.SaleRow) table.Writer {
	t := newTable()
	t.AppendHeader(salesHeader)
	for _, row := range rows {
		t.AppendRow(table.Row{row.BookTitle, row.ShopName, row.Price.StringFixed(2), row.SaleDate.String()})
	}
	return t
}

func renderNoSales(w io.Writer, identifier string) error {
	_, err := fmt.Fprintf(w, "No sales found for publisher %q\n", identifier)
	return err
}

func renderSalesJSON(w io.Writer, rows []catalog.SaleRow) error {
	out := make([]saleJSON, 0, len(rows))
	for _, row := range rows {
		out = append(out, saleJSON{
			BookTitle: row.BookTitle,
			ShopName:  row.ShopName,
			Price:     row.Price.StringFixed(2),
			SaleDate:  row.SaleDate.String(),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
