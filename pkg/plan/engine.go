package plan

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/autolife/feedsync/internal/textutil"
	"github.com/autolife/feedsync/pkg/catalog"
	"github.com/autolife/feedsync/pkg/feed"
	"github.com/autolife/feedsync/pkg/logging"
)

// CategoryResolver resolves a category path to the innermost remote
// category ID, creating missing nodes.
type CategoryResolver interface {
	ResolvePath(ctx context.Context, path []string) (int64, error)
}

// AttributeIDs maps the four remote extended-attribute identifiers.
type AttributeIDs struct {
	ExternalSKU  string
	EAN          string
	DeliveryTime string
	Manufacturer string
}

// Config carries the static parameters of plan building.
type Config struct {
	Attributes AttributeIDs

	// BaseCategoryID is the fixed base category referenced by every
	// create; the resolved feed path is attached as an alt reference.
	BaseCategoryID int64

	Unit     string
	VATRate  float64 // e.g. 0.27
	VATLabel string  // e.g. "27%"

	// DeliveryOnRequest is the delivery label for out-of-stock items,
	// DeliveryInStock for everything else.
	DeliveryOnRequest string
	DeliveryInStock   string

	// SKUSuffix is appended to sanitized external SKUs to form the
	// synthetic remote SKU on creates.
	SKUSuffix string
}

// Engine classifies normalized feed records into operations.
type Engine struct {
	cfg      Config
	index    *catalog.Index
	resolver CategoryResolver
	log      zerolog.Logger
}

// NewEngine creates an engine over a built catalog index and a category
// resolver.
func NewEngine(cfg Config, index *catalog.Index, resolver CategoryResolver, logger *zerolog.Logger) *Engine {
	if logger == nil {
		logger = &logging.Nop
	}
	return &Engine{cfg: cfg, index: index, resolver: resolver, log: *logger}
}

// Plan produces exactly one operation per record, except records skipped
// by the unaddressable-entry guard. Operations preserve record order.
// A category resolution failure aborts planning: submitting a create
// whose taxonomy could not be materialized would orphan the product.
func (e *Engine) Plan(ctx context.Context, records []feed.Record) ([]Operation, Counts, error) {
	ops := make([]Operation, 0, len(records))
	counts := Counts{Records: len(records)}

	for _, rec := range records {
		entry, found := e.index.Lookup(rec.SKU)
		if found {
			if entry.SKU == "" {
				// Matched a remote entry we cannot address. Writing to it
				// would hit an arbitrary record, so the row is dropped.
				counts.Skipped++
				e.log.Warn().Str("external_sku", rec.SKU).Msg("catalog entry has no remote SKU, skipping")
				continue
			}
			ops = append(ops, e.update(rec, entry))
			counts.Updates++
			continue
		}

		op, err := e.create(ctx, rec)
		if err != nil {
			return nil, counts, err
		}
		ops = append(ops, op)
		counts.Creates++
	}

	return ops, counts, nil
}

// update builds the sparse patch for an existing product.
func (e *Engine) update(rec feed.Record, entry catalog.Entry) *Update {
	net, gross := e.prices(rec.Gross)
	return &Update{
		SKU:        entry.SKU,
		External:   rec.SKU,
		Delivery:   Param{ID: e.cfg.Attributes.DeliveryTime, Value: e.deliveryLabel(rec.Quantity)},
		Quantity:   rec.Quantity,
		StockEmpty: rec.Quantity == 0,
		VAT:        e.cfg.VATLabel,
		NetPrice:   net,
		GrossPrice: gross,
		Weight:     positiveWeight(rec.Weight),
	}
}

// create builds the full desired state for a new product.
func (e *Engine) create(ctx context.Context, rec feed.Record) (*Create, error) {
	net, gross := e.prices(rec.Gross)

	op := &Create{
		SKU:            e.syntheticSKU(rec.SKU),
		External:       rec.SKU,
		Name:           rec.Name,
		Unit:           e.cfg.Unit,
		BaseCategoryID: e.cfg.BaseCategoryID,
		Quantity:       rec.Quantity,
		StockEmpty:     rec.Quantity == 0,
		VAT:            e.cfg.VATLabel,
		NetPrice:       net,
		GrossPrice:     gross,
		Weight:         positiveWeight(rec.Weight),
		ShortDesc:      rec.ShortDesc,
		LongDesc:       rec.LongDesc,
	}

	if strings.TrimSpace(op.Name) == "" {
		op.Name = fmt.Sprintf("Új termék %s", rec.SKU)
	}

	op.Params = []Param{
		{ID: e.cfg.Attributes.ExternalSKU, Value: rec.SKU},
		{ID: e.cfg.Attributes.DeliveryTime, Value: e.deliveryLabel(rec.Quantity)},
	}
	if rec.EAN != "" {
		op.Params = append(op.Params, Param{ID: e.cfg.Attributes.EAN, Value: rec.EAN})
	}
	if rec.Manufacturer != "" {
		op.Params = append(op.Params, Param{ID: e.cfg.Attributes.Manufacturer, Value: rec.Manufacturer})
	}

	if len(rec.CategoryPath) > 0 {
		altID, err := e.resolver.ResolvePath(ctx, rec.CategoryPath)
		if err != nil {
			return nil, err
		}
		op.AltCategoryID = altID
	}

	for i, u := range rec.ImageURLs {
		op.Images = append(op.Images, Image{
			URL:      u,
			Filename: imageFilename(u),
			Alt:      op.Name,
			Position: i,
		})
	}

	return op, nil
}

// deliveryLabel maps quantity-on-hand to the delivery-time attribute.
func (e *Engine) deliveryLabel(quantity int64) string {
	if quantity == 0 {
		return e.cfg.DeliveryOnRequest
	}
	return e.cfg.DeliveryInStock
}

// prices derives the rendered net and gross prices from the gross feed
// price. Net is gross divided by (1 + VAT), shown with at most four
// fractional digits; gross keeps at most two.
func (e *Engine) prices(gross float64) (netStr, grossStr string) {
	net := gross / (1 + e.cfg.VATRate)
	return FormatDecimal(net, 4), FormatDecimal(gross, 2)
}

// syntheticSKU derives a stable remote SKU from the external SKU, with a
// random fallback when sanitization leaves nothing usable.
func (e *Engine) syntheticSKU(external string) string {
	cleaned := textutil.SanitizeSKU(external)
	if cleaned == "" {
		return "SKU_" + randomID()
	}
	return cleaned + e.cfg.SKUSuffix
}

// randomID yields a short random identifier.
func randomID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}

// FormatDecimal renders v with at most maxFrac fractional digits,
// trimming trailing zeros and a dangling decimal point.
func FormatDecimal(v float64, maxFrac int) string {
	s := strconv.FormatFloat(v, 'f', maxFrac, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// positiveWeight parses a raw weight value (decimal comma tolerated) and
// renders it back when strictly positive; anything else is omitted.
func positiveWeight(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	w, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || w <= 0 {
		return ""
	}
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// imageFilename derives a filename from the URL's last path segment,
// without its extension.
func imageFilename(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	}
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}
