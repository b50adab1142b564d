// Package catalog models the remote catalog snapshot and the in-memory
// index used to match feed rows to existing entries.
package catalog

import "strings"

// Entry is a snapshot of one remote product. SKU is the remote system's
// own identifier; the external SKU used for matching lives in the
// attribute set under the configured parameter ID.
type Entry struct {
	SKU    string
	Params map[string]string
}

// Param returns the value of the attribute with the given parameter ID.
func (e Entry) Param(id string) string {
	return e.Params[id]
}

// Index is a lookup from external SKU to catalog entry, built once per
// run from the full catalog fetch and read-only thereafter.
type Index struct {
	byExternal map[string]Entry
	duplicates int
	skipped    int
}

// NewIndex builds an index over entries keyed by the external SKU stored
// in the attribute identified by externalSKUParam. Lookups are
// case-insensitive. On duplicate external SKUs the first entry wins;
// later duplicates are counted but ignored. Entries without the external
// SKU attribute are excluded.
func NewIndex(entries []Entry, externalSKUParam string) *Index {
	idx := &Index{byExternal: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		external := strings.TrimSpace(e.Param(externalSKUParam))
		if external == "" {
			idx.skipped++
			continue
		}
		key := strings.ToLower(external)
		if _, exists := idx.byExternal[key]; exists {
			idx.duplicates++
			continue
		}
		idx.byExternal[key] = e
	}
	return idx
}

// Lookup returns the entry matching the external SKU, if any.
func (i *Index) Lookup(externalSKU string) (Entry, bool) {
	e, ok := i.byExternal[strings.ToLower(strings.TrimSpace(externalSKU))]
	return e, ok
}

// Len returns the number of indexed entries.
func (i *Index) Len() int {
	return len(i.byExternal)
}

// Duplicates returns how many entries were dropped because an earlier
// entry claimed the same external SKU. A non-zero value is a
// data-quality signal in the remote catalog, not an error.
func (i *Index) Duplicates() int {
	return i.duplicates
}

// Unindexed returns how many entries lacked an external SKU attribute
// and are therefore unreachable by reconciliation.
func (i *Index) Unindexed() int {
	return i.skipped
}
