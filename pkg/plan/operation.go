// Package plan builds the sync plan: one create or update operation per
// valid feed record, classified against the remote catalog snapshot.
package plan

// Action tags an operation for the remote submission protocol.
type Action string

const (
	// ActionCreate adds a new product to the remote catalog.
	ActionCreate Action = "add"
	// ActionUpdate patches an existing product in place.
	ActionUpdate Action = "modify"
)

// Operation is one unit of the sync plan. Operations are value objects:
// fully populated at construction and never mutated afterwards.
type Operation interface {
	// Action returns the operation's wire action.
	Action() Action
	// ExternalSKU returns the feed identifier the operation derives from.
	ExternalSKU() string
}

// Param is one extended attribute on a product.
type Param struct {
	ID    string `yaml:"id"`
	Value string `yaml:"value"`
}

// Image is one product image reference. Position 0 is the primary
// (base) image; later positions are secondary (alt) images whose
// position doubles as their remote image ID.
type Image struct {
	URL      string `yaml:"url"`
	Filename string `yaml:"filename"`
	Alt      string `yaml:"alt"`
	Position int    `yaml:"position"`
}

// Create carries the full desired state of a new product.
type Create struct {
	SKU            string  `yaml:"sku"` // synthetic remote SKU
	External       string  `yaml:"external_sku"`
	Name           string  `yaml:"name"`
	Unit           string  `yaml:"unit"`
	BaseCategoryID int64   `yaml:"base_category_id"`
	AltCategoryID  int64   `yaml:"alt_category_id,omitempty"` // 0 = no resolved chain
	Params         []Param `yaml:"params"`
	Quantity       int64   `yaml:"quantity"`
	StockEmpty     bool    `yaml:"stock_empty"`
	VAT            string  `yaml:"vat"`
	NetPrice       string  `yaml:"net_price"`
	GrossPrice     string  `yaml:"gross_price"`
	Weight         string  `yaml:"weight,omitempty"` // "" = omitted
	ShortDesc      string  `yaml:"short_desc,omitempty"`
	LongDesc       string  `yaml:"long_desc,omitempty"`
	Images         []Image `yaml:"images,omitempty"`
}

// Action implements Operation.
func (c *Create) Action() Action { return ActionCreate }

// ExternalSKU implements Operation.
func (c *Create) ExternalSKU() string { return c.External }

// Update is a partial patch of an existing product: only the fields
// carried here may be touched by the remote system; everything else is
// left as-is.
type Update struct {
	SKU        string `yaml:"sku"` // remote SKU
	External   string `yaml:"external_sku"`
	Delivery   Param  `yaml:"delivery"`
	Quantity   int64  `yaml:"quantity"`
	StockEmpty bool   `yaml:"stock_empty"`
	VAT        string `yaml:"vat"`
	NetPrice   string `yaml:"net_price"`
	GrossPrice string `yaml:"gross_price"`
	Weight     string `yaml:"weight,omitempty"` // "" = omitted
}

// Action implements Operation.
func (u *Update) Action() Action { return ActionUpdate }

// ExternalSKU implements Operation.
func (u *Update) ExternalSKU() string { return u.External }

// Counts is the engine's observable summary.
type Counts struct {
	Records int `yaml:"records"` // valid feed records considered
	Creates int `yaml:"creates"`
	Updates int `yaml:"updates"`
	Skipped int `yaml:"skipped"`
}
