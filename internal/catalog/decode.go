package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"
)

var (
	decimalType = reflect.TypeOf(decimal.Decimal{})
	dateType    = reflect.TypeOf(Date{})
	numberType  = reflect.TypeOf(json.Number(""))
)

// PriceScale is the number of decimal places a sale price is stored with.
const PriceScale = 2

var errEmptyNumber = errors.New("empty number")

// decimalHook converts fixture prices, which arrive as strings ("50.05") or
// JSON numbers, into decimal.Decimal.
func decimalHook(from, to reflect.Type, data any) (any, error) {
	if to != decimalType {
		return data, nil
	}
	switch v := data.(type) {
	case json.Number:
		if v == "" {
			return nil, errEmptyNumber
		}
		return decimal.NewFromString(v.String())
	case string:
		return decimal.NewFromString(v)
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	}
	if from == decimalType {
		return data, nil
	}
	return nil, fmt.Errorf("cannot convert %T to a decimal", data)
}

// dateHook converts ISO-8601 timestamps into their calendar Date.
func dateHook(from, to reflect.Type, data any) (any, error) {
	if to != dateType {
		return data, nil
	}
	switch v := data.(type) {
	case string:
		return ParseTimestamp(v)
	case time.Time:
		return DateOf(v), nil
	}
	if from == dateType {
		return data, nil
	}
	return nil, fmt.Errorf("cannot convert %T to a date", data)
}

// strictStringHook refuses JSON numbers for string columns.
func strictStringHook(from, to reflect.Type, data any) (any, error) {
	if to.Kind() == reflect.String && from == numberType {
		return nil, fmt.Errorf("expected a string, got number %s", data)
	}
	return data, nil
}

var decodeHook = mapstructure.ComposeDecodeHookFunc(
	strictStringHook,
	decimalHook,
	dateHook,
)

// fieldReader decodes the fields of one fixture record.
type fieldReader struct {
	entity string
	fields map[string]any
	used   map[string]bool
	err    error
}

func newFieldReader(entity string, fields map[string]any) *fieldReader {
	return &fieldReader{entity: entity, fields: fields, used: make(map[string]bool, len(fields))}
}

func (r *fieldReader) fail(field, reason string, err error) {
	if r.err == nil {
		r.err = &FieldError{Entity: r.entity, Index: -1, Field: field, Reason: reason, Err: err}
	}
}

// read decodes fields[name] into dst. The first failure is kept; later calls
// are no-ops.
func (r *fieldReader) read(name string, dst any) {
	if r.err != nil {
		return
	}
	v, ok := r.fields[name]
	if !ok || v == nil {
		r.fail(name, ReasonMissing, nil)
		return
	}
	r.used[name] = true

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: decodeHook,
		Result:     dst,
	})
	if err != nil {
		r.fail(name, ReasonInvalid, err)
		return
	}
	if err := dec.Decode(v); err != nil {
		r.fail(name, ReasonInvalid, err)
	}
}

// finish reports the first decode failure, or the first key no column consumed.
func (r *fieldReader) finish() error {
	if r.err != nil {
		return r.err
	}
	var unknown []string
	for k := range r.fields {
		if !r.used[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &FieldError{Entity: r.entity, Index: -1, Field: unknown[0], Reason: ReasonUnknown}
	}
	return nil
}

// DecodePublisher builds a Publisher from a fixture field map.
func DecodePublisher(fields map[string]any) (Publisher, error) {
	var p Publisher
	r := newFieldReader("publisher", fields)
	r.read("name", &p.Name)
	return p, r.finish()
}

// DecodeBook builds a Book from a fixture field map.
func DecodeBook(fields map[string]any) (Book, error) {
	var b Book
	r := newFieldReader("book", fields)
	r.read("title", &b.Title)
	r.read("id_publisher", &b.PublisherID)
	return b, r.finish()
}

// DecodeShop builds a Shop from a fixture field map.
func DecodeShop(fields map[string]any) (Shop, error) {
	var s Shop
	r := newFieldReader("shop", fields)
	r.read("name", &s.Name)
	return s, r.finish()
}

// DecodeStock builds a Stock from a fixture field map.
func DecodeStock(fields map[string]any) (Stock, error) {
	var s Stock
	r := newFieldReader("stock", fields)
	r.read("id_book", &s.BookID)
	r.read("id_shop", &s.ShopID)
	r.read("count", &s.Count)
	return s, r.finish()
}

// DecodeSale builds a Sale from a fixture field map. date_sale is truncated to
// its calendar date and price is rounded to PriceScale places, so every store
// keeps the value a DECIMAL(10, 2) column would.
func DecodeSale(fields map[string]any) (Sale, error) {
	var s Sale
	r := newFieldReader("sale", fields)
	r.read("price", &s.Price)
	r.read("date_sale", &s.DateSale)
	r.read("id_stock", &s.StockID)
	r.read("count", &s.Count)
	s.Price = s.Price.Round(PriceScale)
	return s, r.finish()
}
