package categories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autolife/feedsync/pkg/errors"
)

// fakeAPI records call counts and serves a mutable taxonomy.
type fakeAPI struct {
	listing     []Category
	listCalls   int
	createCalls int
	nextID      int64
	createErr   error
}

func (f *fakeAPI) Categories(_ context.Context, _ int) ([]Category, error) {
	f.listCalls++
	out := make([]Category, len(f.listing))
	copy(out, f.listing)
	return out, nil
}

func (f *fakeAPI) CreateCategory(_ context.Context, parentID int64, name, slug string) (int64, error) {
	f.createCalls++
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.nextID++
	f.listing = append(f.listing, Category{ID: f.nextID, Name: name, ParentID: parentID})
	return f.nextID, nil
}

func TestResolveFindsExistingNode(t *testing.T) {
	api := &fakeAPI{listing: []Category{
		{ID: 10, Name: "Autóápolás", ParentID: 304310},
		{ID: 11, Name: "Autóápolás", ParentID: 999}, // same name, wrong parent
	}}
	r := NewResolver(api, 304310, nil)

	id, err := r.Resolve(context.Background(), 304310, "autóápolás")
	require.NoError(t, err)
	assert.Equal(t, int64(10), id, "match requires exact parent and case-insensitive name")
	assert.Zero(t, api.createCalls)
}

func TestResolveCreatesMissingNode(t *testing.T) {
	api := &fakeAPI{nextID: 100}
	r := NewResolver(api, 304310, nil)

	id, err := r.Resolve(context.Background(), 304310, "Kábelek & Csatlakozók")
	require.NoError(t, err)
	assert.Equal(t, int64(101), id)
	assert.Equal(t, 1, api.createCalls)
}

func TestResolveIdempotentPerPair(t *testing.T) {
	api := &fakeAPI{nextID: 100}
	r := NewResolver(api, 304310, nil)
	ctx := context.Background()

	first, err := r.Resolve(ctx, 304310, "Kábelek")
	require.NoError(t, err)
	second, err := r.Resolve(ctx, 304310, "KÁBELEK")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, api.listCalls, "cached pair must not refetch the listing")
	assert.Equal(t, 1, api.createCalls, "cached pair must not recreate the node")
}

func TestResolveSameNameDifferentParents(t *testing.T) {
	api := &fakeAPI{nextID: 100}
	r := NewResolver(api, 304310, nil)
	ctx := context.Background()

	a, err := r.Resolve(ctx, 1, "Tartozékok")
	require.NoError(t, err)
	b, err := r.Resolve(ctx, 2, "Tartozékok")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, api.createCalls)
}

func TestResolveFreshListingPerUncachedResolution(t *testing.T) {
	api := &fakeAPI{nextID: 100}
	r := NewResolver(api, 304310, nil)
	ctx := context.Background()

	_, err := r.Resolve(ctx, 304310, "Első")
	require.NoError(t, err)
	_, err = r.Resolve(ctx, 304310, "Második")
	require.NoError(t, err)

	assert.Equal(t, 2, api.listCalls, "every uncached pair triggers its own listing fetch")
}

func TestResolvePathFoldsSegments(t *testing.T) {
	api := &fakeAPI{nextID: 100}
	r := NewResolver(api, 304310, nil)

	leaf, err := r.ResolvePath(context.Background(), []string{"Autóápolás", "Ablaktörlők", "Hátsó"})
	require.NoError(t, err)

	require.Len(t, api.listing, 3)
	assert.Equal(t, int64(304310), api.listing[0].ParentID)
	assert.Equal(t, api.listing[0].ID, api.listing[1].ParentID)
	assert.Equal(t, api.listing[1].ID, api.listing[2].ParentID)
	assert.Equal(t, api.listing[2].ID, leaf)
}

func TestResolvePathEmptyReturnsRoot(t *testing.T) {
	api := &fakeAPI{}
	r := NewResolver(api, 304310, nil)

	id, err := r.ResolvePath(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(304310), id)
	assert.Zero(t, api.listCalls)
}

func TestResolveCreateFailurePropagates(t *testing.T) {
	api := &fakeAPI{createErr: errors.NewCategoryError(304310, "Rossz", nil)}
	r := NewResolver(api, 304310, nil)

	_, err := r.Resolve(context.Background(), 304310, "Rossz")
	require.Error(t, err)
	assert.True(t, errors.IsCategoryError(err))

	// A failed creation must not poison the cache.
	api.createErr = nil
	api.nextID = 7
	id, err := r.Resolve(context.Background(), 304310, "Rossz")
	require.NoError(t, err)
	assert.Equal(t, int64(8), id)
}
