package feedsync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autolife/feedsync/pkg/batch"
	"github.com/autolife/feedsync/pkg/catalog"
	"github.com/autolife/feedsync/pkg/categories"
	"github.com/autolife/feedsync/pkg/errors"
	"github.com/autolife/feedsync/pkg/feed"
	"github.com/autolife/feedsync/pkg/plan"
)

type fakeRemote struct {
	loginKey  string
	loginErr  error
	entries   []catalog.Entry
	listing   []categories.Category
	nextCatID int64
	created   int
	batches   [][]plan.Operation
	submitErr error
}

func (f *fakeRemote) Login(_ context.Context, apiKey string) error {
	f.loginKey = apiKey
	return f.loginErr
}

func (f *fakeRemote) Products(context.Context) ([]catalog.Entry, error) {
	return f.entries, nil
}

func (f *fakeRemote) Categories(context.Context, int) ([]categories.Category, error) {
	return f.listing, nil
}

func (f *fakeRemote) CreateCategory(_ context.Context, parentID int64, name, _ string) (int64, error) {
	f.created++
	f.nextCatID++
	f.listing = append(f.listing, categories.Category{ID: f.nextCatID, Name: name, ParentID: parentID})
	return f.nextCatID, nil
}

func (f *fakeRemote) SubmitProducts(_ context.Context, ops []plan.Operation) error {
	f.batches = append(f.batches, ops)
	return f.submitErr
}

func staticFeed(records ...feed.Record) FeedSource {
	return func(context.Context) ([]feed.Record, error) {
		return records, nil
	}
}

func newTestSyncer(t *testing.T, remote Remote, extra ...Option) *Syncer {
	t.Helper()
	opts := append([]Option{
		WithRemote(remote),
		WithAPIKey("key"),
		WithBatchConfig(batch.Config{BatchSize: 50, Delay: time.Nanosecond, StopOnError: true}),
	}, extra...)
	s, err := New(opts...)
	require.NoError(t, err)
	return s
}

func TestSyncFullRun(t *testing.T) {
	remote := &fakeRemote{
		entries: []catalog.Entry{
			{SKU: "R-1", Params: map[string]string{DefaultExternalSKUParam: "EXT-UPD"}},
		},
		nextCatID: 400000,
	}
	s := newTestSyncer(t, remote, WithFeedSource(staticFeed(
		feed.Record{SKU: "EXT-UPD", Name: "Meglévő", Gross: 127, Quantity: 2},
		feed.Record{SKU: "EXT-NEW", Name: "Új cikk", Gross: 254, CategoryPath: []string{"Autóápolás"}},
	)))

	result, err := s.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "key", remote.loginKey)
	assert.Equal(t, 2, result.RecordsRead)
	assert.Equal(t, plan.Counts{Records: 2, Creates: 1, Updates: 1}, result.Counts)
	assert.Equal(t, 1, remote.created, "the feed category chain is materialized")

	require.Len(t, remote.batches, 1)
	assert.Len(t, remote.batches[0], 2)
	assert.True(t, result.Submitted())

	crt := remote.batches[0][1].(*plan.Create)
	assert.Equal(t, int64(400001), crt.AltCategoryID)
}

func TestSyncDryRunSubmitsNothing(t *testing.T) {
	remote := &fakeRemote{}
	s := newTestSyncer(t, remote,
		WithDryRun(true),
		WithFeedSource(staticFeed(
			feed.Record{SKU: "EXT-NEW", Name: "Új cikk", Gross: 127, CategoryPath: []string{"Autóápolás"}},
		)),
	)

	result, err := s.Sync(context.Background())
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Empty(t, remote.batches, "dry run must not submit")
	assert.Zero(t, remote.created, "dry run must not create categories")
	assert.Zero(t, result.Report.BatchesAttempted)
	assert.False(t, result.Submitted())

	require.Len(t, result.Operations, 1)
	crt := result.Operations[0].(*plan.Create)
	assert.Zero(t, crt.AltCategoryID, "unresolved chains stay at zero in a dry run")
}

func TestSyncBatchSplit(t *testing.T) {
	remote := &fakeRemote{}
	records := make([]feed.Record, 125)
	for i := range records {
		records[i] = feed.Record{SKU: "EXT-" + string(rune('A'+i%26)) + string(rune('0'+i/26)), Name: "Cikk", Gross: 127}
	}
	s := newTestSyncer(t, remote, WithFeedSource(staticFeed(records...)))

	result, err := s.Sync(context.Background())
	require.NoError(t, err)

	require.Len(t, remote.batches, 3)
	assert.Len(t, remote.batches[0], 50)
	assert.Len(t, remote.batches[2], 25)
	assert.Equal(t, 3, result.Report.BatchesSucceeded)
}

func TestSyncLoginFailureAbortsBeforeFeedDownload(t *testing.T) {
	remote := &fakeRemote{loginErr: errors.NewAuthenticationError("login", "rossz kulcs", nil)}
	sourceCalls := 0
	s := newTestSyncer(t, remote, WithFeedSource(func(context.Context) ([]feed.Record, error) {
		sourceCalls++
		return []feed.Record{{SKU: "EXT-1", Gross: 127}}, nil
	}))

	_, err := s.Sync(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsAuthError(err))
	assert.Zero(t, sourceCalls, "a bad credential fails fast, before the feed is downloaded")
	assert.Empty(t, remote.batches)
}

func TestSyncFeedFailureAborts(t *testing.T) {
	remote := &fakeRemote{}
	s := newTestSyncer(t, remote, WithFeedSource(func(context.Context) ([]feed.Record, error) {
		return nil, errors.NewFetchError("http://feed.test", errors.New("lejárt"))
	}))

	_, err := s.Sync(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsFeedError(err))
	assert.Empty(t, remote.batches, "nothing is submitted without feed rows")
}

func TestSyncSubmitFailureReturnsPartialResult(t *testing.T) {
	remote := &fakeRemote{submitErr: errors.NewAPIError("setProduct", 0, "hiba")}
	s := newTestSyncer(t, remote, WithFeedSource(staticFeed(
		feed.Record{SKU: "EXT-1", Name: "Cikk", Gross: 127},
	)))

	result, err := s.Sync(context.Background())
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Counts.Creates)
	require.NotNil(t, result.Report.FirstFailure)
	assert.Equal(t, 1, result.Report.FirstFailure.Batch)
}

func TestNewRequiresFeedSourceOrURL(t *testing.T) {
	_, err := New(WithRemote(&fakeRemote{}), WithAPIKey("key"))
	require.Error(t, err)
}

func TestNewRejectsEmptyAPIKey(t *testing.T) {
	_, err := New(WithAPIKey(""))
	require.Error(t, err)
}
