package catalog

import (
	"sync"
	"testing"
)

func TestPublisher_LoadBeforeStore(t *testing.T) {
	var p Publisher
	c := p.Load()
	if c == nil {
		t.Fatal("Load returned nil")
	}
	if c.Count() != 0 {
		t.Errorf("expected empty catalog, got %d songs", c.Count())
	}
}

func TestPublisher_Swap(t *testing.T) {
	var p Publisher
	s := &Song{Hash: "a"}
	old := New(&Cache{Entries: []HashBucket{{Hash: "a", Songs: []*Song{s}}}})
	p.Store(old)

	held := p.Load()
	p.Store(New(nil))

	if held.Count() != 1 {
		t.Errorf("held catalog changed: %d songs", held.Count())
	}
	if p.Load().Count() != 0 {
		t.Errorf("expected new catalog after swap")
	}
}

func TestPublisher_ConcurrentReaders(t *testing.T) {
	var p Publisher
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if _, err := p.Load().SortedCategories(AttrGenre); err != nil {
					t.Errorf("reader %d: %v", i, err)
					return
				}
			}
		}()
	}
	for range 10 {
		p.Store(New(&Cache{Genres: []SortKeyGroup{{Key: NewSortKey("rock")}}}))
	}
	wg.Wait()
}
