// Package memory implements an in-process storage driver. Items live in a
// map, ids live in a btree so Index always enumerates in a stable (sorted)
// order regardless of insertion history.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/btree"

	"github.com/mjunaidi/kagodb/storage"
)

type Memory struct {
	mutex *sync.RWMutex
	items map[string]storage.Item
	keys  *btree.BTreeG[string]
}

func New() *Memory {
	return &Memory{
		mutex: &sync.RWMutex{},
		items: map[string]storage.Item{},
		keys:  btree.NewG(32, func(a, b string) bool { return a < b }),
	}
}

func (m *Memory) Index(ctx context.Context) ([]string, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	ids := make([]string, 0, m.keys.Len())
	m.keys.Ascend(func(id string) bool {
		ids = append(ids, id)
		return true
	})

	return ids, nil
}

func (m *Memory) Read(ctx context.Context, id string) (storage.Item, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	item, exist := m.items[id]
	if !exist {
		return nil, fmt.Errorf("read '%s': %w", id, storage.ErrNotFound)
	}

	return cloneItem(item), nil
}

func (m *Memory) Write(ctx context.Context, id string, item storage.Item) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.items[id] = cloneItem(item)
	m.keys.ReplaceOrInsert(id)

	return nil
}

func (m *Memory) Erase(ctx context.Context, id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exist := m.items[id]; !exist {
		return fmt.Errorf("erase '%s': %w", id, storage.ErrNotFound)
	}

	delete(m.items, id)
	m.keys.Delete(id)

	return nil
}

func (m *Memory) Exist(ctx context.Context, id string) (bool, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	_, exist := m.items[id]

	return exist, nil
}

// cloneItem keeps callers and the store from sharing mutable state.
func cloneItem(item storage.Item) storage.Item {
	if item == nil {
		return nil
	}
	clone := make(storage.Item, len(item))
	for k, v := range item {
		clone[k] = cloneValue(v)
	}
	return clone
}

func cloneValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		return cloneItem(v)
	case []interface{}:
		clone := make([]interface{}, len(v))
		for i, e := range v {
			clone[i] = cloneValue(e)
		}
		return clone
	}
	return value
}
