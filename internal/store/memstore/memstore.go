// Package memstore is an in-process store.Store used for local development
// and tests. Contents are lost when the process exits.
package memstore

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Bhavishyakolloori/todolist-v1/internal/model"
	"github.com/Bhavishyakolloori/todolist-v1/internal/store"
)

type MemStore struct {
	mu    sync.Mutex
	today []model.Item
	// lower-cased list name -> list
	lists map[string]*model.List
}

func New() *MemStore {
	return &MemStore{lists: make(map[string]*model.List)}
}

func (m *MemStore) Items() store.Items            { return (*items)(m) }
func (m *MemStore) Lists() store.Lists            { return (*lists)(m) }
func (m *MemStore) Close(_ context.Context) error { return nil }

// HealthPing implements health.HealthPinger; memory is always reachable.
func (m *MemStore) HealthPing(_ context.Context) error { return nil }

func newItem(name string) model.Item {
	return model.Item{ID: uuid.New().String(), Name: name}
}

func newItems(names []string) []model.Item {
	out := make([]model.Item, 0, len(names))
	for _, n := range names {
		out = append(out, newItem(n))
	}
	return out
}

func copyList(l *model.List) *model.List {
	out := *l
	out.Items = append([]model.Item(nil), l.Items...)
	return &out
}

// --- Today items ---
type items MemStore

func (s *items) List(_ context.Context) ([]model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Item(nil), s.today...), nil
}

func (s *items) Insert(_ context.Context, name string) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := newItem(name)
	s.today = append(s.today, it)
	return &it, nil
}

func (s *items) SeedIfEmpty(_ context.Context, names []string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.today) > 0 {
		return false, nil
	}
	s.today = newItems(names)
	return true, nil
}

func (s *items) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.today = removeItem(s.today, id)
	return nil
}

func removeItem(in []model.Item, id string) []model.Item {
	for i, it := range in {
		if it.ID == id {
			return append(in[:i:i], in[i+1:]...)
		}
	}
	return in
}

// --- Lists ---
type lists MemStore

func (s *lists) FindByName(_ context.Context, name string) (*model.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lists[strings.ToLower(name)]
	if !ok {
		return nil, model.ErrNotFound
	}
	return copyList(l), nil
}

func (s *lists) Create(_ context.Context, name string, itemNames []string) (*model.List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := model.CanonicalName(name)
	if _, ok := s.lists[key]; ok {
		return nil, model.ErrConflict
	}
	return copyList(s.insert(key, itemNames)), nil
}

func (s *lists) insert(key string, itemNames []string) *model.List {
	l := &model.List{ID: uuid.New().String(), Name: key, Items: newItems(itemNames)}
	s.lists[key] = l
	return l
}

func (s *lists) FindOrCreate(_ context.Context, name string, itemNames []string) (*model.List, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := model.CanonicalName(name)
	if l, ok := s.lists[key]; ok {
		return copyList(l), false, nil
	}
	return copyList(s.insert(key, itemNames)), true, nil
}

func (s *lists) AppendItem(_ context.Context, list *model.List, itemName string) (*model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stored *model.List
	for _, l := range s.lists {
		if l.ID == list.ID {
			stored = l
			break
		}
	}
	if stored == nil {
		return nil, model.ErrNotFound
	}
	it := newItem(itemName)
	stored.Items = append(stored.Items, it)
	list.Items = append(list.Items, it)
	return &it, nil
}

func (s *lists) PushItem(_ context.Context, name, itemName string) (*model.Item, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := model.CanonicalName(name)
	it := newItem(itemName)
	l, ok := s.lists[key]
	if !ok {
		s.lists[key] = &model.List{ID: uuid.New().String(), Name: key, Items: []model.Item{it}}
		return &it, true, nil
	}
	l.Items = append(l.Items, it)
	return &it, false, nil
}

func (s *lists) PullItem(_ context.Context, name, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.lists[model.CanonicalName(name)]; ok {
		l.Items = removeItem(l.Items, itemID)
	}
	return nil
}
