// Package feed reads the delimited product feed and normalizes its rows
// into canonical records.
package feed

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/autolife/feedsync/internal/textutil"
	"github.com/autolife/feedsync/pkg/errors"
)

// Record is one normalized feed row. Immutable once constructed; the
// lifecycle is a single ingestion pass.
type Record struct {
	SKU          string // external SKU, the feed's stable identifier
	Name         string
	Gross        float64
	Quantity     int64
	EAN          string
	Manufacturer string
	ShortDesc    string
	LongDesc     string
	ImageURLs    []string
	CategoryPath []string // ordered, outer to inner
	Weight       string   // raw value; parsed where it is consumed
}

// Columns names the feed header tokens used to locate each field.
// Headers are matched by case-insensitive containment because exports
// vary in quoting and suffixes.
type Columns struct {
	SKU          string
	Name         string
	Gross        string
	ShortDesc    string
	LongDesc     string
	Images       string
	Quantity     string
	Weight       string
	EAN          string
	Manufacturer string
	Category     string
}

// DefaultColumns matches the UNAS admin export header set.
func DefaultColumns() Columns {
	return Columns{
		SKU:          "Cikkszám",
		Name:         "Termék Név",
		Gross:        "Bruttó Ár",
		ShortDesc:    "Rövid leírás",
		LongDesc:     "Tulajdonságok",
		Images:       "Kép link",
		Quantity:     "Raktárkészlet",
		Weight:       "Tömeg",
		EAN:          "EAN",
		Manufacturer: "Gyártó",
		Category:     "Kategória",
	}
}

// Parse reads a semicolon-delimited feed and returns its normalized
// records in feed order. Rows without an external SKU are dropped. A
// later row with a duplicate SKU replaces the earlier one in place, so
// the last row wins while the first row's position is kept.
func Parse(r io.Reader, cols Columns) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, errors.WrapParse("csv", "feed header", err)
	}

	idx := columnIndex{
		sku:          findHeader(header, cols.SKU),
		name:         findHeader(header, cols.Name),
		gross:        findHeader(header, cols.Gross),
		shortDesc:    findHeader(header, cols.ShortDesc),
		longDesc:     findHeader(header, cols.LongDesc),
		images:       findHeader(header, cols.Images),
		quantity:     findHeader(header, cols.Quantity),
		weight:       findHeader(header, cols.Weight),
		ean:          findHeader(header, cols.EAN),
		manufacturer: findHeader(header, cols.Manufacturer),
		category:     findHeader(header, cols.Category),
	}
	if idx.sku < 0 {
		return nil, errors.NewParseError("csv", "feed header", "external SKU column not found", nil)
	}

	var records []Record
	position := make(map[string]int)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapParse("csv", "feed row", err)
		}

		rec, ok := normalize(row, idx)
		if !ok {
			continue
		}

		key := strings.ToLower(rec.SKU)
		if at, seen := position[key]; seen {
			records[at] = rec
			continue
		}
		position[key] = len(records)
		records = append(records, rec)
	}

	return records, nil
}

type columnIndex struct {
	sku, name, gross, shortDesc, longDesc, images,
	quantity, weight, ean, manufacturer, category int
}

// normalize builds a Record from one raw row. Returns false when the row
// has no external SKU.
func normalize(row []string, idx columnIndex) (Record, bool) {
	sku := field(row, idx.sku)
	if sku == "" {
		return Record{}, false
	}

	rec := Record{
		SKU:          sku,
		Name:         textutil.StripHTML(textutil.DecodeEntities(field(row, idx.name))),
		Gross:        parseDecimal(field(row, idx.gross)),
		Quantity:     parseQuantity(field(row, idx.quantity)),
		EAN:          field(row, idx.ean),
		Manufacturer: field(row, idx.manufacturer),
		ShortDesc:    textutil.DecodeEntities(field(row, idx.shortDesc)),
		LongDesc:     textutil.DecodeEntities(field(row, idx.longDesc)),
		ImageURLs:    splitList(field(row, idx.images)),
		CategoryPath: splitList(field(row, idx.category)),
		Weight:       field(row, idx.weight),
	}
	return rec, true
}

// findHeader locates a column by case-insensitive containment.
func findHeader(header []string, name string) int {
	want := strings.ToLower(name)
	for i, h := range header {
		h = strings.Trim(strings.TrimSpace(h), `"`)
		if strings.Contains(strings.ToLower(h), want) {
			return i
		}
	}
	return -1
}

// field safely extracts a trimmed cell value; missing columns yield "".
func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.Trim(strings.TrimSpace(row[idx]), `"`)
}

// parseDecimal parses a price-like value, tolerating a decimal comma.
// Unparseable or absent values become 0.
func parseDecimal(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}

// parseQuantity parses quantity-on-hand; absent or unparseable means 0.
func parseQuantity(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// splitList splits a pipe-delimited list, trimming and dropping empties.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
