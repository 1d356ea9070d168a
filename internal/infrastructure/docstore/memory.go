package docstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRecord struct {
	payload   []byte
	createdAt time.Time
	updatedAt time.Time
	seq       uint64
}

// MemoryStore keeps documents in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]*memoryRecord
	maxBytes    int
	seq         uint64
	now         func() time.Time
}

type MemoryOption func(*MemoryStore)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) {
		s.now = now
	}
}

func NewMemoryStore(maxDocumentBytes int, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		collections: make(map[string]map[string]*memoryRecord),
		maxBytes:    maxDocumentBytes,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) collection(name string) map[string]*memoryRecord {
	c, ok := s.collections[name]
	if !ok {
		c = make(map[string]*memoryRecord)
		s.collections[name] = c
	}
	return c
}

func (s *MemoryStore) Add(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	payload, err := encode(data, s.maxBytes)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	now := s.now().UTC()
	s.seq++
	s.collection(collection)[id] = &memoryRecord{payload: payload, createdAt: now, updatedAt: now, seq: s.seq}
	return id, nil
}

func (s *MemoryStore) Set(ctx context.Context, collection, id string, data map[string]interface{}) error {
	payload, err := encode(data, s.maxBytes)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	c := s.collection(collection)
	if existing, ok := c[id]; ok {
		existing.payload = payload
		existing.updatedAt = now
		return nil
	}
	s.seq++
	c[id] = &memoryRecord{payload: payload, createdAt: now, updatedAt: now, seq: s.seq}
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection, id string, patch map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.collection(collection)[id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}

	current, err := decode(rec.payload)
	if err != nil {
		return err
	}
	payload, err := encode(merge(current, patch), s.maxBytes)
	if err != nil {
		return err
	}

	rec.payload = payload
	rec.updatedAt = s.now().UTC()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return rec.document(id)
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collections[collection]
	if _, ok := c[id]; !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	delete(c, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, collection, orderBy string, dir Direction) ([]*Document, error) {
	s.mu.RLock()
	type entry struct {
		doc *Document
		seq uint64
	}
	entries := make([]entry, 0, len(s.collections[collection]))
	for id, rec := range s.collections[collection] {
		doc, err := rec.document(id)
		if err != nil {
			s.mu.RUnlock()
			return nil, err
		}
		entries = append(entries, entry{doc: doc, seq: rec.seq})
	}
	s.mu.RUnlock()

	desc := validDirection(dir) == Descending
	sort.SliceStable(entries, func(i, j int) bool {
		c := compareDocs(entries[i].doc, entries[j].doc, orderBy)
		if c == 0 {
			c = compareUint(entries[i].seq, entries[j].seq)
		}
		if desc {
			return c > 0
		}
		return c < 0
	})

	docs := make([]*Document, len(entries))
	for i, e := range entries {
		docs[i] = e.doc
	}
	return docs, nil
}

func (r *memoryRecord) document(id string) (*Document, error) {
	data, err := decode(r.payload)
	if err != nil {
		return nil, err
	}
	return &Document{ID: id, Data: data, CreatedAt: r.createdAt, UpdatedAt: r.updatedAt}, nil
}

func compareDocs(a, b *Document, orderBy string) int {
	switch orderBy {
	case "", OrderByCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case OrderByUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	}
	return compareValues(a.Data[orderBy], b.Data[orderBy])
}

// compareValues: nil < number < string, numbers numerically, strings lexically
func compareValues(a, b interface{}) int {
	rank := func(v interface{}) int {
		switch v.(type) {
		case nil:
			return 0
		case float64:
			return 1
		case string:
			return 2
		default:
			return 3
		}
	}
	if ra, rb := rank(a), rank(b); ra != rb {
		return ra - rb
	}
	switch av := a.(type) {
	case nil:
		return 0
	case float64:
		bv := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case string:
		return strings.Compare(av, b.(string))
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
