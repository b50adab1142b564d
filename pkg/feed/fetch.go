package feed

import (
	"context"
	"net/http"

	"github.com/autolife/feedsync/internal/transport"
	"github.com/autolife/feedsync/pkg/errors"
)

// Fetch downloads the feed from url and parses it. Any failure to reach
// or parse the feed is a *errors.FetchError, which is fatal to the run.
func Fetch(ctx context.Context, client *transport.Client, url string, cols Columns) ([]Record, error) {
	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, errors.NewFetchError(url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewFetchError(url, errors.New("unexpected status "+resp.Status))
	}

	records, err := Parse(resp.Body, cols)
	if err != nil {
		return nil, errors.NewFetchError(url, err)
	}
	return records, nil
}
