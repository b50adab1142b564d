// Package categories resolves hierarchical category paths against the
// remote taxonomy, creating missing nodes on demand.
package categories

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/autolife/feedsync/internal/textutil"
	"github.com/autolife/feedsync/pkg/logging"
)

// Category is one node of the remote taxonomy.
type Category struct {
	ID       int64
	Name     string
	ParentID int64
}

// API is the remote surface the resolver needs.
type API interface {
	// Categories fetches the current category listing, bounded by limit.
	Categories(ctx context.Context, limit int) ([]Category, error)
	// CreateCategory creates a node under parentID and returns its ID.
	CreateCategory(ctx context.Context, parentID int64, name, slug string) (int64, error)
}

// DefaultListingLimit bounds the category listing fetch.
const DefaultListingLimit = 1000

type cacheKey struct {
	parentID int64
	name     string // case-normalized
}

// Resolver resolves (parent, name) pairs to category IDs with a
// run-scoped cache. The cache guarantees at most one remote
// listing+create sequence per pair; the mutex is held across the remote
// calls so concurrent callers cannot race a duplicate create.
type Resolver struct {
	api    API
	rootID int64
	limit  int
	log    zerolog.Logger

	mu    sync.Mutex
	cache map[cacheKey]int64
}

// NewResolver creates a resolver rooted at rootID, the parent under
// which top-level path segments are resolved.
func NewResolver(api API, rootID int64, logger *zerolog.Logger) *Resolver {
	if logger == nil {
		logger = &logging.Nop
	}
	return &Resolver{
		api:    api,
		rootID: rootID,
		limit:  DefaultListingLimit,
		log:    *logger,
		cache:  make(map[cacheKey]int64),
	}
}

// Resolve returns the ID of the category called name under parentID,
// creating it remotely when absent. Cached pairs return without any
// remote call. Each uncached resolution fetches a fresh category
// listing; the listing itself is deliberately not cached, since reusing
// it across resolutions would change create-race behavior.
func (r *Resolver) Resolve(ctx context.Context, parentID int64, name string) (int64, error) {
	key := cacheKey{parentID: parentID, name: strings.ToLower(name)}

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.cache[key]; ok {
		return id, nil
	}

	listing, err := r.api.Categories(ctx, r.limit)
	if err != nil {
		return 0, err
	}
	for _, c := range listing {
		if c.ParentID == parentID && strings.EqualFold(c.Name, name) {
			r.cache[key] = c.ID
			return c.ID, nil
		}
	}

	slug := textutil.Slugify(name)
	id, err := r.api.CreateCategory(ctx, parentID, name, slug)
	if err != nil {
		return 0, err
	}

	r.log.Info().
		Str("name", name).
		Str("slug", slug).
		Int64("parent_id", parentID).
		Int64("id", id).
		Msg("category created")

	r.cache[key] = id
	return id, nil
}

// ResolvePath resolves an ordered outer-to-inner path by folding Resolve
// over its segments, each resolved ID becoming the next segment's
// parent. Returns the innermost category ID.
func (r *Resolver) ResolvePath(ctx context.Context, path []string) (int64, error) {
	parentID := r.rootID
	for _, segment := range path {
		id, err := r.Resolve(ctx, parentID, segment)
		if err != nil {
			return 0, err
		}
		parentID = id
	}
	return parentID, nil
}
