package remote

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vocabulous/vocabulous/internal/model"
)

// Memory is an in-process document store holding any number of user
// namespaces. It is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	users map[string]map[model.Kind]map[string]map[string]any
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{users: make(map[string]map[model.Kind]map[string]map[string]any)}
}

// Namespace returns the namespace for userID. Namespaces for the same user
// share data.
func (m *Memory) Namespace(userID string) Namespace {
	return &memNamespace{mem: m, userID: userID}
}

// Count returns the number of documents in one user's collection.
func (m *Memory) Count(userID string, kind model.Kind) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users[userID][kind])
}

func (m *Memory) collection(userID string, kind model.Kind, create bool) map[string]map[string]any {
	cols, ok := m.users[userID]
	if !ok {
		if !create {
			return nil
		}
		cols = make(map[model.Kind]map[string]map[string]any)
		m.users[userID] = cols
	}
	col, ok := cols[kind]
	if !ok && create {
		col = make(map[string]map[string]any)
		cols[kind] = col
	}
	return col
}

type memNamespace struct {
	mem    *Memory
	userID string

	mu     sync.Mutex
	closed bool
}

func (n *memNamespace) UserID() string { return n.userID }

func (n *memNamespace) check(op string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return &ErrUnavailable{Op: op, Err: fmt.Errorf("namespace closed")}
	}
	return nil
}

func (n *memNamespace) List(ctx context.Context, kind model.Kind) ([]Document, error) {
	if err := n.check("list"); err != nil {
		return nil, err
	}
	n.mem.mu.RLock()
	defer n.mem.mu.RUnlock()

	col := n.mem.collection(n.userID, kind, false)
	docs := make([]Document, 0, len(col))
	for id, data := range col {
		docs = append(docs, Document{ID: id, Data: cloneData(data)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (n *memNamespace) Probe(ctx context.Context, kind model.Kind) (bool, error) {
	if err := n.check("probe"); err != nil {
		return false, err
	}
	n.mem.mu.RLock()
	defer n.mem.mu.RUnlock()
	return len(n.mem.collection(n.userID, kind, false)) > 0, nil
}

func (n *memNamespace) Get(ctx context.Context, kind model.Kind, id string) (Document, error) {
	if err := n.check("get"); err != nil {
		return Document{}, err
	}
	n.mem.mu.RLock()
	defer n.mem.mu.RUnlock()

	data, ok := n.mem.collection(n.userID, kind, false)[id]
	if !ok {
		return Document{}, fmt.Errorf("%s/%s: %w", kind, id, ErrNotFound)
	}
	return Document{ID: id, Data: cloneData(data)}, nil
}

func (n *memNamespace) Set(ctx context.Context, kind model.Kind, doc Document) error {
	return n.SetAll(ctx, kind, []Document{doc})
}

func (n *memNamespace) SetAll(ctx context.Context, kind model.Kind, docs []Document) error {
	if err := n.check("set"); err != nil {
		return err
	}
	for _, d := range docs {
		if d.ID == "" {
			return fmt.Errorf("%w: document without id in %s", model.ErrInvalidInput, kind)
		}
	}
	n.mem.mu.Lock()
	defer n.mem.mu.Unlock()

	col := n.mem.collection(n.userID, kind, true)
	for _, d := range docs {
		col[d.ID] = cloneData(d.Data)
	}
	return nil
}

func (n *memNamespace) Delete(ctx context.Context, kind model.Kind, id string) error {
	if err := n.check("delete"); err != nil {
		return err
	}
	n.mem.mu.Lock()
	defer n.mem.mu.Unlock()
	delete(n.mem.collection(n.userID, kind, false), id)
	return nil
}

func (n *memNamespace) DeleteAll(ctx context.Context, kind model.Kind) error {
	if err := n.check("delete"); err != nil {
		return err
	}
	n.mem.mu.Lock()
	defer n.mem.mu.Unlock()
	if cols, ok := n.mem.users[n.userID]; ok {
		delete(cols, kind)
	}
	return nil
}

func (n *memNamespace) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	return nil
}
