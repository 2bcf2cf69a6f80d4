package cache

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/sebtreedb/sebtree/base"
	"github.com/sebtreedb/sebtree/page"
	"github.com/sebtreedb/sebtree/pool"
)

// Storage is the durable side of the cache: it hands out page buffers,
// backed by whatever medium a real deployment chooses. Loading and
// storing a page never touches its latch, and Cache does not take it
// either.
type Storage interface {
	// Load reads the page identified by id into a buffer taken from
	// buffers.
	Load(id base.PageIndex, buffers *pool.Pool) (*page.Page, error)
	// Allocate reserves a fresh page index and returns a zeroed page for
	// it, taken from buffers.
	Allocate(buffers *pool.Pool) (*page.Page, error)
	// Store persists p's current bytes.
	Store(p *page.Page) error
}

// ErrPageNotFound is returned by Load when no page exists for the
// requested id.
var ErrPageNotFound = errors.New("cache: page not found")

// MemoryStorage is a Storage backed by an in-process map, useful for
// tests and for prototyping tree code before a real disk- or
// object-store-backed Storage exists.
type MemoryStorage struct {
	mu    sync.Mutex
	pages map[base.PageIndex][]byte
	next  base.PageIndex
}

// NewMemoryStorage returns an empty MemoryStorage. Page index 0 is
// reserved for tree metadata, so allocation starts at 1.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{pages: make(map[base.PageIndex][]byte), next: 1}
}

func (s *MemoryStorage) Load(id base.PageIndex, buffers *pool.Pool) (*page.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bytes, ok := s.pages[id]
	if !ok {
		return nil, errors.WithStack(fmt.Errorf("%w: %d", ErrPageNotFound, id))
	}

	p := page.NewFromPool(id, buffers)
	copy(p.Bytes(), bytes)
	return p, nil
}

func (s *MemoryStorage) Allocate(buffers *pool.Pool) (*page.Page, error) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.mu.Unlock()

	return page.NewFromPool(id, buffers), nil
}

func (s *MemoryStorage) Store(p *page.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(p.Bytes()))
	copy(buf, p.Bytes())
	s.pages[p.GetPageIndex()] = buf
	return nil
}
