package engine

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Registry holds open documents by id.
type Registry struct {
	mu    sync.RWMutex
	docs  map[uuid.UUID]*Document
	order []uuid.UUID
	opts  []Option
}

// NewRegistry creates a registry. opts are applied to every document
// before the options given to Open.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		docs: make(map[uuid.UUID]*Document),
		opts: opts,
	}
}

// Open creates and registers a document.
func (r *Registry) Open(opts ...Option) *Document {
	all := make([]Option, 0, len(r.opts)+len(opts))
	all = append(all, r.opts...)
	all = append(all, opts...)
	doc := New(all...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.id] = doc
	r.order = append(r.order, doc.id)
	return doc
}

// Get returns the document with the given id.
func (r *Registry) Get(id uuid.UUID) (*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return doc, nil
}

// Close removes the document with the given id and closes it.
func (r *Registry) Close(id uuid.UUID) error {
	r.mu.Lock()
	doc, ok := r.docs[id]
	if !ok {
		r.mu.Unlock()
		return ErrDocumentNotFound
	}
	delete(r.docs, id)
	r.order = slices.DeleteFunc(r.order, func(o uuid.UUID) bool { return o == id })
	r.mu.Unlock()

	doc.Close()
	return nil
}

// List returns the open documents in the order they were opened.
func (r *Registry) List() []*Document {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Document, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.docs[id])
	}
	return out
}

// Len returns the number of open documents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}
