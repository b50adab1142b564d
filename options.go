package feedsync

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/autolife/feedsync/pkg/batch"
	"github.com/autolife/feedsync/pkg/errors"
	"github.com/autolife/feedsync/pkg/feed"
	"github.com/autolife/feedsync/pkg/plan"
)

// Production shop wiring defaults. The remote attribute and category IDs
// are shop-specific and overridable through configuration.
const (
	DefaultBaseCategoryID        int64 = 123950
	DefaultNewProductsCategoryID int64 = 304310

	DefaultExternalSKUParam  = "7098773"
	DefaultEANParam          = "7098778"
	DefaultDeliveryTimeParam = "7097618"
	DefaultManufacturerParam = "7391901"
)

// DefaultPlanConfig returns the engine configuration for the production
// shop: Hungarian VAT, piece unit, and the stock-dependent delivery
// labels.
func DefaultPlanConfig() plan.Config {
	return plan.Config{
		Attributes: plan.AttributeIDs{
			ExternalSKU:  DefaultExternalSKUParam,
			EAN:          DefaultEANParam,
			DeliveryTime: DefaultDeliveryTimeParam,
			Manufacturer: DefaultManufacturerParam,
		},
		BaseCategoryID:    DefaultBaseCategoryID,
		Unit:              "db",
		VATRate:           0.27,
		VATLabel:          "27%",
		DeliveryOnRequest: "Érdeklődjön",
		DeliveryInStock:   "2-3 munkanap",
		SKUSuffix:         "_al",
	}
}

type config struct {
	apiKey  string
	feedURL string
	baseURL string

	httpClient *http.Client
	logger     *zerolog.Logger
	remote     Remote
	source     FeedSource

	columns               feed.Columns
	planConfig            plan.Config
	batchConfig           batch.Config
	newProductsCategoryID int64
	dryRun                bool
}

func defaultConfig() *config {
	return &config{
		columns:               feed.DefaultColumns(),
		planConfig:            DefaultPlanConfig(),
		batchConfig:           batch.Config{StopOnError: true},
		newProductsCategoryID: DefaultNewProductsCategoryID,
	}
}

// Option is a function that configures a Syncer.
type Option func(*config) error

// WithAPIKey sets the remote API key used for login.
func WithAPIKey(key string) Option {
	return func(c *config) error {
		if key == "" {
			return errors.New("feedsync: API key must not be empty")
		}
		c.apiKey = key
		return nil
	}
}

// WithFeedURL sets the URL the product feed is downloaded from.
func WithFeedURL(url string) Option {
	return func(c *config) error {
		c.feedURL = url
		return nil
	}
}

// WithFeedColumns overrides the feed header-to-column mapping.
func WithFeedColumns(cols feed.Columns) Option {
	return func(c *config) error {
		c.columns = cols
		return nil
	}
}

// WithFeedSource replaces the feed download with a custom source.
func WithFeedSource(source FeedSource) Option {
	return func(c *config) error {
		c.source = source
		return nil
	}
}

// WithBaseURL overrides the remote API root.
func WithBaseURL(url string) Option {
	return func(c *config) error {
		c.baseURL = url
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for remote calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *config) error {
		c.httpClient = hc
		return nil
	}
}

// WithLogger sets the logger for the run.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithRemote injects a remote implementation, replacing the API client.
func WithRemote(remote Remote) Option {
	return func(c *config) error {
		c.remote = remote
		return nil
	}
}

// WithPlanConfig overrides the reconciliation engine configuration.
func WithPlanConfig(pc plan.Config) Option {
	return func(c *config) error {
		c.planConfig = pc
		return nil
	}
}

// WithBatchConfig overrides the submission protocol parameters.
func WithBatchConfig(bc batch.Config) Option {
	return func(c *config) error {
		c.batchConfig = bc
		return nil
	}
}

// WithNewProductsCategoryID sets the category feed paths are resolved
// under.
func WithNewProductsCategoryID(id int64) Option {
	return func(c *config) error {
		c.newProductsCategoryID = id
		return nil
	}
}

// WithDryRun plans against the live catalog without creating categories
// or submitting products.
func WithDryRun(enabled bool) Option {
	return func(c *config) error {
		c.dryRun = enabled
		return nil
	}
}
