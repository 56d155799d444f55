// Package bloom provides document URI deduplication for archive builds
// using Bloom filters.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter records document URIs seen during a build. The Bloom filter
// answers most lookups; positives are confirmed against an exact set so
// that a false positive never drops a document. Safe for concurrent use.
type Filter struct {
	mu    sync.Mutex
	f     *bloom.BloomFilter
	exact map[string]struct{}
}

// NewFilter creates a new filter sized for n expected URIs with the given
// false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f:     bloom.NewWithEstimates(n, fpRate),
		exact: make(map[string]struct{}),
	}
}

// Add records uri.
func (f *Filter) Add(uri string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.add(uri)
}

func (f *Filter) add(uri string) {
	f.f.AddString(uri)
	f.exact[uri] = struct{}{}
}

// MayContain reports whether uri might have been added.
// False positives are possible; false negatives are not.
func (f *Filter) MayContain(uri string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.f.TestString(uri)
}

// Seen reports whether uri was recorded before and records it if not.
func (f *Filter) Seen(uri string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f.TestString(uri) {
		if _, ok := f.exact[uri]; ok {
			return true
		}
	}
	f.add(uri)
	return false
}

// Len returns the exact number of distinct URIs recorded.
func (f *Filter) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.exact)
}

// EstimatedCount returns the number of URIs as estimated by the Bloom
// filter.
func (f *Filter) EstimatedCount() uint {
	f.mu.Lock()
	defer f.mu.Unlock()
	return uint(f.f.ApproximatedSize())
}
