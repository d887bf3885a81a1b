package catalog

import (
	"context"
	"sync"
)

type memoryRepo struct {
	mu       sync.RWMutex
	order    []string
	products map[string]*Product
}

// NewMemoryRepository returns an in-process Repository. Products are copied
// on the way in and out so callers cannot mutate stored state.
func NewMemoryRepository(products ...*Product) Repository {
	r := &memoryRepo{products: make(map[string]*Product)}
	for _, p := range products {
		r.order = append(r.order, p.ID)
		r.products[p.ID] = clone(p)
	}
	return r
}

func clone(p *Product) *Product {
	c := *p
	c.Images = append([]string{}, p.Images...)
	return &c
}

func (r *memoryRepo) Create(_ context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.products[p.ID] = clone(p)
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(p), nil
}

func (r *memoryRepo) List(_ context.Context, category string) ([]*Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*Product{}
	for _, id := range r.order {
		p := r.products[id]
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, clone(p))
	}
	return out, nil
}

func (r *memoryRepo) Update(_ context.Context, p *Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return ErrNotFound
	}
	r.products[p.ID] = clone(p)
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
