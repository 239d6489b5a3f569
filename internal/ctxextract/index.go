package ctxextract

import "sync"

// Index is the page-scoped cache of pre-built dl/dt/dd and table/th/td
// label lookups (SPEC_FULL.md §4.3's "single batch script" construction).
// Its lifetime equals a page, per the scoped-arena guidance in §9 — it is
// discarded on navigation and never shared across pages.
type Index struct {
	mu  sync.RWMutex
	dt  map[string]string // elementID -> preceding <dt> text
	th  map[string]string // elementID -> row <th> (or header) text
}

// NewIndex returns an empty, page-scoped index.
func NewIndex() *Index {
	return &Index{dt: make(map[string]string), th: make(map[string]string)}
}

// SetDT records the dt/dd mapping for one element, built once per page.
func (idx *Index) SetDT(elementID, text string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.dt[elementID] = text
}

// SetTH records the th/td mapping for one element, built once per page.
func (idx *Index) SetTH(elementID, text string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.th[elementID] = text
}

// DT looks up the dt/dd text for an element.
func (idx *Index) DT(elementID string) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	t, ok := idx.dt[elementID]
	return t, ok
}

// TH looks up the th/td text for an element.
func (idx *Index) TH(elementID string) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	t, ok := idx.th[elementID]
	return t, ok
}

// Reset discards all entries, used when the page navigates.
func (idx *Index) Reset() {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.dt = make(map[string]string)
	idx.th = make(map[string]string)
}
