package unas

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/autolife/feedsync/internal/transport"
	"github.com/autolife/feedsync/pkg/errors"
	"github.com/autolife/feedsync/pkg/plan"
)

// cdata renders its value as a CDATA section. The remote parser wants
// free-text fields wrapped this way.
type cdata struct {
	Value string `xml:",cdata"`
}

// Product elements for setProduct. Adds and modifies carry different
// fields in different element orders, so each gets its own shape.

type addOut struct {
	XMLName     xml.Name        `xml:"Product"`
	Action      string          `xml:"Action"`
	Statuses    statusesOut     `xml:"Statuses"`
	Sku         string          `xml:"Sku"`
	Name        string          `xml:"Name"`
	Unit        string          `xml:"Unit"`
	Categories  categoryRefsOut `xml:"Categories"`
	Params      paramsOut       `xml:"Params"`
	Stocks      stocksOut       `xml:"Stocks"`
	Prices      pricesOut       `xml:"Prices"`
	Weight      string          `xml:"Weight,omitempty"`
	Description *descriptionOut `xml:"Description,omitempty"`
	Images      *imagesOut      `xml:"Images,omitempty"`
}

type modifyOut struct {
	XMLName xml.Name  `xml:"Product"`
	Sku     string    `xml:"Sku"`
	Action  string    `xml:"Action"`
	Params  paramsOut `xml:"Params"`
	Stocks  stocksOut `xml:"Stocks"`
	Prices  pricesOut `xml:"Prices"`
	Weight  string    `xml:"Weight,omitempty"`
}

type statusesOut struct {
	Status statusOut `xml:"Status"`
}

type statusOut struct {
	Type  string `xml:"Type"`
	Value string `xml:"Value"`
}

type categoryRefsOut struct {
	Categories []categoryRefOut `xml:"Category"`
}

type categoryRefOut struct {
	ID   int64  `xml:"Id"`
	Type string `xml:"Type"`
}

type paramsOut struct {
	Params []paramOut `xml:"Param"`
}

type paramOut struct {
	ID    string `xml:"Id"`
	Value cdata  `xml:"Value"`
}

type stocksOut struct {
	Stock  stockOut       `xml:"Stock"`
	Status stockStatusOut `xml:"Status"`
}

type stockOut struct {
	Qty int64 `xml:"Qty"`
}

type stockStatusOut struct {
	Empty int `xml:"Empty"`
}

type pricesOut struct {
	Vat   string   `xml:"Vat"`
	Price priceOut `xml:"Price"`
}

type priceOut struct {
	Type  string `xml:"Type"`
	Net   string `xml:"Net"`
	Gross string `xml:"Gross"`
}

type descriptionOut struct {
	Short *cdata `xml:"Short,omitempty"`
	Long  *cdata `xml:"Long,omitempty"`
}

type imagesOut struct {
	Images []imageOut `xml:"Image"`
}

type imageOut struct {
	Type     string    `xml:"Type"`
	Import   importOut `xml:"Import"`
	Filename cdata     `xml:"Filename"`
	Alt      cdata     `xml:"Alt"`
	ID       int       `xml:"Id,omitempty"`
}

type importOut struct {
	URL string `xml:"Url"`
}

// encodeProducts renders one setProduct request body for a batch of
// operations.
func encodeProducts(ops []plan.Operation) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(transport.Header)
	buf.WriteString("<Products>")
	for _, op := range ops {
		elem, err := productElement(op)
		if err != nil {
			return nil, err
		}
		body, err := xml.Marshal(elem)
		if err != nil {
			return nil, errors.WrapParse("xml", "setProduct request", err)
		}
		buf.Write(body)
	}
	buf.WriteString("</Products>")
	return buf.Bytes(), nil
}

func productElement(op plan.Operation) (any, error) {
	switch v := op.(type) {
	case *plan.Create:
		return encodeCreate(v), nil
	case *plan.Update:
		return encodeUpdate(v), nil
	default:
		return nil, fmt.Errorf("%w: unknown operation type %T", errors.ErrInvalidInput, op)
	}
}

func encodeCreate(op *plan.Create) *addOut {
	out := &addOut{
		Action: string(op.Action()),
		// New products land hidden until reviewed in the shop admin.
		Statuses: statusesOut{Status: statusOut{Type: "base", Value: "0"}},
		Sku:      op.SKU,
		Name:     op.Name,
		Unit:     op.Unit,
		Params:   encodeParams(op.Params),
		Stocks:   encodeStocks(op.Quantity, op.StockEmpty),
		Prices:   encodePrices(op.VAT, op.NetPrice, op.GrossPrice),
		Weight:   op.Weight,
	}

	out.Categories.Categories = []categoryRefOut{{ID: op.BaseCategoryID, Type: "base"}}
	if op.AltCategoryID != 0 {
		out.Categories.Categories = append(out.Categories.Categories, categoryRefOut{ID: op.AltCategoryID, Type: "alt"})
	}

	if op.ShortDesc != "" || op.LongDesc != "" {
		desc := &descriptionOut{}
		if op.ShortDesc != "" {
			desc.Short = &cdata{Value: op.ShortDesc}
		}
		if op.LongDesc != "" {
			desc.Long = &cdata{Value: op.LongDesc}
		}
		out.Description = desc
	}

	if len(op.Images) > 0 {
		imgs := &imagesOut{}
		for _, img := range op.Images {
			e := imageOut{
				Type:     "alt",
				Import:   importOut{URL: img.URL},
				Filename: cdata{Value: img.Filename},
				Alt:      cdata{Value: img.Alt},
				ID:       img.Position,
			}
			if img.Position == 0 {
				e.Type = "base"
			}
			imgs.Images = append(imgs.Images, e)
		}
		out.Images = imgs
	}

	return out
}

func encodeUpdate(op *plan.Update) *modifyOut {
	return &modifyOut{
		Sku:    op.SKU,
		Action: string(op.Action()),
		Params: encodeParams([]plan.Param{op.Delivery}),
		Stocks: encodeStocks(op.Quantity, op.StockEmpty),
		Prices: encodePrices(op.VAT, op.NetPrice, op.GrossPrice),
		Weight: op.Weight,
	}
}

func encodeParams(params []plan.Param) paramsOut {
	out := paramsOut{}
	for _, p := range params {
		out.Params = append(out.Params, paramOut{ID: p.ID, Value: cdata{Value: p.Value}})
	}
	return out
}

// encodeStocks renders the stock block. The Empty status element is an
// availability flag on the wire: "1" means orderable, "0" means out of
// stock.
func encodeStocks(qty int64, empty bool) stocksOut {
	e := 1
	if empty {
		e = 0
	}
	return stocksOut{Stock: stockOut{Qty: qty}, Status: stockStatusOut{Empty: e}}
}

func encodePrices(vat, net, gross string) pricesOut {
	return pricesOut{Vat: vat, Price: priceOut{Type: "normal", Net: net, Gross: gross}}
}
