package documents

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/uptimekeeper/internal/common"
)

// Op names a store operation for fault injection.
type Op string

const (
	OpCreate Op = "create"
	OpRead   Op = "read"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpList   Op = "list"
)

// MemoryStore keeps documents in process memory. Besides serving the
// "memory" storage driver, it lets tests force any operation to fail.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]map[string][]byte
	faults map[Op]error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:   make(map[string]map[string][]byte),
		faults: make(map[Op]error),
	}
}

// FailOn makes every subsequent op return err. A nil err clears the fault.
func (s *MemoryStore) FailOn(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

// PutRaw stores b as-is, bypassing encoding. Used to plant corrupt documents.
func (s *MemoryStore) PutRaw(collection, key string, b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bucket(collection)[key] = append([]byte(nil), b...)
}

// Len returns the number of documents in collection.
func (s *MemoryStore) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data[collection])
}

func (s *MemoryStore) bucket(collection string) map[string][]byte {
	b, ok := s.data[collection]
	if !ok {
		b = make(map[string][]byte)
		s.data[collection] = b
	}
	return b
}

func (s *MemoryStore) Create(ctx context.Context, collection, key string, doc any) error {
	if err := validate(collection, key); err != nil {
		return err
	}
	b, err := encode(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.faults[OpCreate]; err != nil {
		return err
	}
	bucket := s.bucket(collection)
	if _, ok := bucket[key]; ok {
		return common.ErrorAlreadyExists
	}
	bucket[key] = b
	return nil
}

func (s *MemoryStore) Read(ctx context.Context, collection, key string, out any) error {
	if err := validate(collection, key); err != nil {
		return err
	}

	s.mu.RLock()
	if err := s.faults[OpRead]; err != nil {
		s.mu.RUnlock()
		return err
	}
	b, ok := s.data[collection][key]
	s.mu.RUnlock()

	if !ok {
		return common.ErrorNotFound
	}
	return decode(b, out)
}

func (s *MemoryStore) Update(ctx context.Context, collection, key string, doc any) error {
	if err := validate(collection, key); err != nil {
		return err
	}
	b, err := encode(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.faults[OpUpdate]; err != nil {
		return err
	}
	bucket := s.bucket(collection)
	if _, ok := bucket[key]; !ok {
		return common.ErrorNotFound
	}
	bucket[key] = b
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, collection, key string) error {
	if err := validate(collection, key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.faults[OpDelete]; err != nil {
		return err
	}
	bucket := s.bucket(collection)
	if _, ok := bucket[key]; !ok {
		return common.ErrorNotFound
	}
	delete(bucket, key)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, collection string) ([]string, error) {
	if err := ValidateKey(collection); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.faults[OpList]; err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(s.data[collection]))
	for k := range s.data[collection] {
		keys = append(keys, k)
	}
	return keys, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
