// Package unas is the typed client for the UNAS webshop XML API. Every
// call is an XML POST against a per-operation endpoint; application
// errors come back as an <Error> root element regardless of the HTTP
// status.
package unas

import (
	"bytes"
	"context"
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/autolife/feedsync/internal/transport"
	"github.com/autolife/feedsync/pkg/catalog"
	"github.com/autolife/feedsync/pkg/categories"
	"github.com/autolife/feedsync/pkg/errors"
	"github.com/autolife/feedsync/pkg/logging"
	"github.com/autolife/feedsync/pkg/plan"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.unas.eu/shop"

// Endpoint names, appended to the base URL.
const (
	epLogin       = "login"
	epGetProduct  = "getProduct"
	epGetCategory = "getCategory"
	epSetCategory = "setCategory"
	epSetProduct  = "setProduct"
)

// Product listing pagination parameters.
const (
	DefaultPageSize  = 1000
	DefaultPageDelay = 300 * time.Millisecond
)

// listingStatuses are the base-status values the full product listing
// spans. The API pages within one status at a time.
var listingStatuses = []int{0, 1, 2}

// Client calls the remote API. It is not safe for concurrent use; a
// sync run drives it from a single goroutine.
type Client struct {
	http      *transport.Client
	baseURL   string
	log       zerolog.Logger
	pageSize  int
	pageDelay time.Duration
	sleep     func(ctx context.Context, d time.Duration) error

	token string
}

// NewClient creates a client against baseURL. An empty baseURL falls
// back to the production API root.
func NewClient(httpClient *transport.Client, baseURL string, logger *zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = transport.New(&transport.BearerAuth{})
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = &logging.Nop
	}
	return &Client{
		http:      httpClient,
		baseURL:   strings.TrimRight(baseURL, "/"),
		log:       *logger,
		pageSize:  DefaultPageSize,
		pageDelay: DefaultPageDelay,
		sleep:     sleepCtx,
	}
}

// Token returns the bearer token obtained by Login.
func (c *Client) Token() string { return c.token }

// Login exchanges the API key for a bearer token and stores it for
// subsequent calls.
func (c *Client) Login(ctx context.Context, apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return errors.NewAuthenticationError(epLogin, "missing API key", errors.ErrInvalidInput)
	}

	var out loginResponse
	if err := c.post(ctx, epLogin, loginRequest{APIKey: apiKey}, &out); err != nil {
		return errors.NewAuthenticationError(epLogin, "login call failed", err)
	}

	token := strings.TrimSpace(out.Token)
	if token == "" {
		return errors.NewAuthenticationError(epLogin, "remote returned no token", errors.ErrEmptyToken)
	}

	c.token = token
	c.log.Info().Msg("authenticated")
	return nil
}

// Products fetches the full product listing: every base status, paged
// until a short page. A failed status listing is logged and the
// remaining statuses are still fetched, so a transient error costs
// coverage of one status rather than the run.
func (c *Client) Products(ctx context.Context) ([]catalog.Entry, error) {
	var entries []catalog.Entry

	for _, status := range listingStatuses {
		start := 0
		for {
			req := productListRequest{
				StatusBase:  status,
				LimitNum:    c.pageSize,
				LimitStart:  start,
				ContentType: "full",
			}

			var out productsResponse
			if err := c.post(ctx, epGetProduct, req, &out); err != nil {
				if !errors.IsRecoverable(err) {
					return nil, err
				}
				c.log.Warn().Err(err).Int("status", status).Msg("product listing failed, skipping status")
				break
			}

			for _, p := range out.Products {
				entries = append(entries, toEntry(p))
			}

			if len(out.Products) < c.pageSize {
				break
			}
			start += c.pageSize
			if err := c.sleep(ctx, c.pageDelay); err != nil {
				return nil, err
			}
		}
	}

	c.log.Info().Int("products", len(entries)).Msg("catalog fetched")
	return entries, nil
}

// Categories implements categories.API.
func (c *Client) Categories(ctx context.Context, limit int) ([]categories.Category, error) {
	if limit <= 0 {
		limit = categories.DefaultListingLimit
	}

	var out categoriesResponse
	if err := c.post(ctx, epGetCategory, categoryListRequest{LimitNum: limit}, &out); err != nil {
		return nil, err
	}

	cats := make([]categories.Category, 0, len(out.Categories))
	for _, in := range out.Categories {
		cats = append(cats, categories.Category{ID: in.ID, Name: in.Name, ParentID: in.Parent.ID})
	}
	return cats, nil
}

// CreateCategory implements categories.API. The create response shape
// is loose, so the new ID is taken from the first <Id> element found.
func (c *Client) CreateCategory(ctx context.Context, parentID int64, name, slug string) (int64, error) {
	req := categoryCreateRequest{Category: categoryCreateOut{
		Action: "add",
		Parent: parentRef{ID: parentID},
		Name:   cdata{Value: name},
		SefURL: cdata{Value: slug},
	}}

	body, err := c.postRaw(ctx, epSetCategory, req)
	if err != nil {
		return 0, errors.NewCategoryError(parentID, name, err)
	}

	id, ok := firstID(body)
	if !ok {
		return 0, errors.NewCategoryError(parentID, name, errors.ErrCategoryCreation)
	}
	return id, nil
}

// SubmitProducts implements the submission surface of the batch
// protocol: one setProduct call per batch.
func (c *Client) SubmitProducts(ctx context.Context, ops []plan.Operation) error {
	body, err := encodeProducts(ops)
	if err != nil {
		return err
	}

	resp, err := c.http.PostXML(ctx, c.endpointURL(epSetProduct), c.token, body)
	if err != nil {
		return err
	}
	return transport.DecodeXML(epSetProduct, resp, nil)
}

func (c *Client) endpointURL(endpoint string) string {
	return c.baseURL + "/" + endpoint
}

func (c *Client) post(ctx context.Context, endpoint string, payload, target any) error {
	body, err := transport.EncodeXML(payload)
	if err != nil {
		return err
	}
	resp, err := c.http.PostXML(ctx, c.endpointURL(endpoint), c.token, body)
	if err != nil {
		return err
	}
	return transport.DecodeXML(endpoint, resp, target)
}

func (c *Client) postRaw(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	body, err := transport.EncodeXML(payload)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.PostXML(ctx, c.endpointURL(endpoint), c.token, body)
	if err != nil {
		return nil, err
	}
	return transport.ReadXML(endpoint, resp)
}

func toEntry(p productIn) catalog.Entry {
	e := catalog.Entry{SKU: strings.TrimSpace(p.Sku), Params: make(map[string]string, len(p.Params))}
	for _, prm := range p.Params {
		e.Params[prm.ID] = prm.Value
	}
	return e
}

// firstID scans body for the first <Id> element holding an integer.
func firstID(body []byte) (int64, bool) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := dec.Token()
		if err != nil {
			return 0, false
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Id" {
			continue
		}
		var raw string
		if err := dec.DecodeElement(&raw, &se); err != nil {
			return 0, false
		}
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return 0, false
		}
		return id, true
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
