package generation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuard_LatestTokenCommits(t *testing.T) {
	var g Guard

	first := g.Begin()
	second := g.Begin()

	assert.False(t, first.Current())
	assert.True(t, second.Current())

	var published []uint64
	assert.False(t, g.Commit(first, func() { published = append(published, first.Generation()) }))
	assert.True(t, g.Commit(second, func() { published = append(published, second.Generation()) }))
	assert.Equal(t, []uint64{2}, published)
}

func TestGuard_InvalidateSuppressesOutstanding(t *testing.T) {
	var g Guard
	tok := g.Begin()

	g.Invalidate()

	assert.False(t, tok.Current())
	ran := g.Commit(tok, func() { t.Fatal("commit after invalidate must not run") })
	assert.False(t, ran)
	assert.Equal(t, uint64(2), g.Current())
}

func TestGuard_TokenFromOtherGuard(t *testing.T) {
	var a, b Guard
	tok := a.Begin()
	b.Begin()

	assert.False(t, b.Commit(tok, func() {}))
	assert.False(t, Token{}.Current())
}

func TestGuard_ConcurrentBeginCommit(t *testing.T) {
	var g Guard
	var mu sync.Mutex
	commits := 0

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok := g.Begin()
			g.Commit(tok, func() {
				mu.Lock()
				commits++
				mu.Unlock()
			})
		}()
	}
	wg.Wait()

	// The very last Begin always wins its commit; earlier ones may or may not.
	assert.GreaterOrEqual(t, commits, 1)
	assert.Equal(t, uint64(50), g.Current())
}
