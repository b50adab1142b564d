package plan

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autolife/feedsync/pkg/catalog"
	"github.com/autolife/feedsync/pkg/errors"
	"github.com/autolife/feedsync/pkg/feed"
)

func testConfig() Config {
	return Config{
		Attributes: AttributeIDs{
			ExternalSKU:  "7098773",
			EAN:          "7098778",
			DeliveryTime: "7097618",
			Manufacturer: "7391901",
		},
		BaseCategoryID:    123950,
		Unit:              "db",
		VATRate:           0.27,
		VATLabel:          "27%",
		DeliveryOnRequest: "Érdeklődjön",
		DeliveryInStock:   "2-3 munkanap",
		SKUSuffix:         "_al",
	}
}

type fakeResolver struct {
	leafID int64
	err    error
	calls  [][]string
}

func (f *fakeResolver) ResolvePath(_ context.Context, path []string) (int64, error) {
	f.calls = append(f.calls, path)
	if f.err != nil {
		return 0, f.err
	}
	return f.leafID, nil
}

func index(entries ...catalog.Entry) *catalog.Index {
	return catalog.NewIndex(entries, "7098773")
}

func entry(remoteSKU, externalSKU string) catalog.Entry {
	return catalog.Entry{SKU: remoteSKU, Params: map[string]string{"7098773": externalSKU}}
}

func newTestEngine(idx *catalog.Index, r CategoryResolver) *Engine {
	return NewEngine(testConfig(), idx, r, nil)
}

func TestPlanClassification(t *testing.T) {
	idx := index(
		entry("R-1", "EXT-UPD"),
		entry("", "EXT-SKIP"),
	)
	e := newTestEngine(idx, &fakeResolver{leafID: 555})

	records := []feed.Record{
		{SKU: "EXT-UPD", Name: "Meglévő", Gross: 127, Quantity: 2},
		{SKU: "EXT-SKIP", Name: "Címezhetetlen", Gross: 100},
		{SKU: "EXT-NEW", Name: "Új cikk", Gross: 254, Quantity: 1},
	}

	ops, counts, err := e.Plan(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, Counts{Records: 3, Creates: 1, Updates: 1, Skipped: 1}, counts)
	require.Len(t, ops, 2)

	upd, ok := ops[0].(*Update)
	require.True(t, ok, "operations preserve record order")
	assert.Equal(t, ActionUpdate, upd.Action())
	assert.Equal(t, "R-1", upd.SKU)
	assert.Equal(t, "EXT-UPD", upd.ExternalSKU())

	crt, ok := ops[1].(*Create)
	require.True(t, ok)
	assert.Equal(t, ActionCreate, crt.Action())
	assert.Equal(t, "EXT-NEW_al", crt.SKU)
}

func TestPlanSkipOnlyWhenRemoteSKUEmpty(t *testing.T) {
	e := newTestEngine(index(entry("", "EXT-1")), &fakeResolver{})

	ops, counts, err := e.Plan(context.Background(), []feed.Record{{SKU: "EXT-1"}})
	require.NoError(t, err)
	assert.Empty(t, ops)
	assert.Equal(t, 1, counts.Skipped)
	assert.Zero(t, counts.Creates)
	assert.Zero(t, counts.Updates)
}

func TestPriceDerivation(t *testing.T) {
	e := newTestEngine(index(entry("R-1", "EXT-1")), &fakeResolver{})

	ops, _, err := e.Plan(context.Background(), []feed.Record{
		{SKU: "EXT-1", Gross: 127.00, Quantity: 1},
	})
	require.NoError(t, err)

	upd := ops[0].(*Update)
	assert.Equal(t, "127", upd.GrossPrice)
	assert.Equal(t, "100", upd.NetPrice, "127 gross at 27%% VAT is exactly 100 net")
	assert.Equal(t, "27%", upd.VAT)
}

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		v    float64
		frac int
		want string
	}{
		{127, 2, "127"},
		{127.5, 2, "127.5"},
		{127.559, 2, "127.56"},
		{100.0 / 1.27 * 1.27, 4, "100"},
		{78.74015748, 4, "78.7402"},
		{0, 2, "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDecimal(tt.v, tt.frac))
	}
}

func TestEmptyStockFlagAndDeliveryLabel(t *testing.T) {
	e := newTestEngine(index(entry("R-1", "EXT-1"), entry("R-2", "EXT-2")), &fakeResolver{})

	ops, _, err := e.Plan(context.Background(), []feed.Record{
		{SKU: "EXT-1", Quantity: 0},
		{SKU: "EXT-2", Quantity: 1},
	})
	require.NoError(t, err)

	out := ops[0].(*Update)
	assert.True(t, out.StockEmpty)
	assert.Equal(t, "Érdeklődjön", out.Delivery.Value)

	in := ops[1].(*Update)
	assert.False(t, in.StockEmpty)
	assert.Equal(t, "2-3 munkanap", in.Delivery.Value)
}

func TestCreatePayload(t *testing.T) {
	r := &fakeResolver{leafID: 555}
	e := newTestEngine(index(), r)

	ops, _, err := e.Plan(context.Background(), []feed.Record{{
		SKU:          "ABC 123",
		Name:         "Bosch ablaktörlő",
		Gross:        1270,
		Quantity:     3,
		EAN:          "5901234123457",
		Manufacturer: "Bosch",
		ShortDesc:    "rövid",
		LongDesc:     "hosszú",
		ImageURLs:    []string{"http://img.test/photos/front.jpg", "http://img.test/photos/back.png"},
		CategoryPath: []string{"Autóápolás", "Ablaktörlők"},
		Weight:       "0,5",
	}})
	require.NoError(t, err)

	crt := ops[0].(*Create)
	assert.Equal(t, "ABC-123_al", crt.SKU)
	assert.Equal(t, "db", crt.Unit)
	assert.Equal(t, int64(123950), crt.BaseCategoryID)
	assert.Equal(t, int64(555), crt.AltCategoryID)
	assert.Equal(t, "0.5", crt.Weight)
	assert.Equal(t, "1270", crt.GrossPrice)
	assert.Equal(t, "1000", crt.NetPrice)

	require.Equal(t, [][]string{{"Autóápolás", "Ablaktörlők"}}, r.calls)

	require.Len(t, crt.Params, 4)
	assert.Equal(t, Param{ID: "7098773", Value: "ABC 123"}, crt.Params[0])
	assert.Equal(t, "7097618", crt.Params[1].ID)
	assert.Equal(t, Param{ID: "7098778", Value: "5901234123457"}, crt.Params[2])
	assert.Equal(t, Param{ID: "7391901", Value: "Bosch"}, crt.Params[3])

	require.Len(t, crt.Images, 2)
	assert.Equal(t, Image{URL: "http://img.test/photos/front.jpg", Filename: "front", Alt: "Bosch ablaktörlő", Position: 0}, crt.Images[0])
	assert.Equal(t, 1, crt.Images[1].Position)
	assert.Equal(t, "back", crt.Images[1].Filename)
}

func TestCreateOmitsBlankOptionalFields(t *testing.T) {
	r := &fakeResolver{}
	e := newTestEngine(index(), r)

	ops, _, err := e.Plan(context.Background(), []feed.Record{{SKU: "EXT-1", Name: "Cikk"}})
	require.NoError(t, err)

	crt := ops[0].(*Create)
	assert.Len(t, crt.Params, 2, "only external SKU and delivery params when EAN/manufacturer are blank")
	assert.Empty(t, crt.Weight)
	assert.Empty(t, crt.Images)
	assert.Zero(t, crt.AltCategoryID)
	assert.Empty(t, r.calls, "no category path means no resolution")
}

func TestCreateNameFallback(t *testing.T) {
	e := newTestEngine(index(), &fakeResolver{})

	ops, _, err := e.Plan(context.Background(), []feed.Record{{SKU: "EXT-1", Name: "   "}})
	require.NoError(t, err)
	assert.Equal(t, "Új termék EXT-1", ops[0].(*Create).Name)
}

func TestCreateSyntheticSKUFallback(t *testing.T) {
	e := newTestEngine(index(), &fakeResolver{})

	ops, _, err := e.Plan(context.Background(), []feed.Record{{SKU: "###", Name: "Cikk"}})
	require.NoError(t, err)

	sku := ops[0].(*Create).SKU
	require.True(t, strings.HasPrefix(sku, "SKU_"), "sanitized-to-empty SKU falls back to a random identifier, got %q", sku)
	assert.Len(t, sku, len("SKU_")+10)
}

func TestWeightRules(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"0,5", "0.5"},
		{"1.25", "1.25"},
		{"0", ""},
		{"-1", ""},
		{"abc", ""},
		{"", ""},
		{"  ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, positiveWeight(tt.raw), "raw=%q", tt.raw)
	}
}

func TestPlanCategoryResolutionFailureAborts(t *testing.T) {
	r := &fakeResolver{err: errors.NewCategoryError(304310, "Rossz", nil)}
	e := newTestEngine(index(), r)

	_, _, err := e.Plan(context.Background(), []feed.Record{
		{SKU: "EXT-1", Name: "Cikk", CategoryPath: []string{"Rossz"}},
	})
	require.Error(t, err)
	assert.True(t, errors.IsCategoryError(err))
}
