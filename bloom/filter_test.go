package bloom_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/ftml/bloom"
	"github.com/stretchr/testify/assert"
)

const doc = "http://example.org?a=test&d=doc&l=en"

func TestFilter_AddAndMayContain(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.False(t, f.MayContain(doc))

	f.Add(doc)

	assert.True(t, f.MayContain(doc))
	assert.False(t, f.MayContain("http://example.org?a=test&d=other&l=en"))
}

func TestFilter_Seen(t *testing.T) {
	t.Parallel()

	t.Run("reports repeated URIs", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)

		assert.False(t, f.Seen(doc))
		assert.True(t, f.Seen(doc))
		assert.Equal(t, 1, f.Len())
	})

	t.Run("never drops a URI on a false positive", func(t *testing.T) {
		t.Parallel()

		// A tiny filter saturates quickly and answers maybe for everything.
		f := bloom.NewFilter(1, 0.5)
		for i := range 100 {
			f.Add(fmt.Sprintf("%s&e=%d", doc, i))
		}

		for i := range 100 {
			uri := fmt.Sprintf("http://example.org?a=test&d=new%d&l=en", i)
			assert.False(t, f.Seen(uri), uri)
		}
		assert.Equal(t, 200, f.Len())
	})

	t.Run("is safe for concurrent use", func(t *testing.T) {
		t.Parallel()

		f := bloom.NewFilter(1000, 0.01)
		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			fresh int
		)
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range 50 {
					if !f.Seen(fmt.Sprintf("%s&e=%d", doc, i)) {
						mu.Lock()
						fresh++
						mu.Unlock()
					}
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 50, fresh)
	})
}

func TestFilter_EstimatedCount(t *testing.T) {
	t.Parallel()

	f := bloom.NewFilter(1000, 0.01)

	assert.Equal(t, uint(0), f.EstimatedCount())

	f.Add(doc + "&e=1")
	f.Add(doc + "&e=2")
	f.Add(doc + "&e=3")

	count := f.EstimatedCount()
	assert.True(t, count >= 2 && count <= 4, "expected count near 3, got %d", count)
}

func TestFilter_FalsePositiveRate(t *testing.T) {
	t.Parallel()

	const (
		numItems   = 10000
		fpRate     = 0.01
		testProbes = 10000
	)

	f := bloom.NewFilter(numItems, fpRate)

	for i := range numItems {
		f.Add(fmt.Sprintf("http://example.org?a=added&d=d%d&l=en", i))
	}

	falsePositives := 0
	for i := range testProbes {
		if f.MayContain(fmt.Sprintf("http://example.org?a=notadded&d=d%d&l=en", i)) {
			falsePositives++
		}
	}

	// Allow up to 2% to account for statistical variance.
	actualRate := float64(falsePositives) / float64(testProbes)
	assert.Less(t, actualRate, 0.02, "false positive rate %f exceeds 2%%", actualRate)
}
