package institution

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type fakeRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*Institution

	// createErrs are returned by successive Create calls
	createErrs []error
	lastFilter *Filter
}

func newFakeRepo(items ...*Institution) *fakeRepo {
	f := &fakeRepo{items: map[uuid.UUID]*Institution{}}
	for _, i := range items {
		f.items[i.ID] = i
	}
	return f
}

func (f *fakeRepo) Create(ctx context.Context, inst *Institution) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	cp := *inst
	f.items[inst.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*Institution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i, ok := f.items[id]; ok {
		cp := *i
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRepo) GetBySlug(ctx context.Context, slug string) (*Institution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, i := range f.items {
		if i.Slug == slug {
			cp := *i
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	i, _ := f.GetBySlug(ctx, slug)
	return i != nil, nil
}

func (f *fakeRepo) Update(ctx context.Context, inst *Institution) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *inst
	f.items[inst.ID] = &cp
	return nil
}

func (f *fakeRepo) mutate(id uuid.UUID, fn func(*Institution)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, ok := f.items[id]
	if !ok {
		return ErrInstitutionNotFound
	}
	fn(i)
	return nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	return f.mutate(id, func(i *Institution) { i.Status = status })
}

func (f *fakeRepo) UpdateVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	return f.mutate(id, func(i *Institution) { i.IsVerified = verified })
}

func (f *fakeRepo) UpdateMediaKey(ctx context.Context, id uuid.UUID, kind, key string) error {
	return f.mutate(id, func(i *Institution) {
		if kind == "logo" {
			i.LogoKey = nullString(key)
		} else {
			i.CoverKey = nullString(key)
		}
	})
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return ErrInstitutionNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filter *Filter, pagination *Pagination) ([]*Institution, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	var out []*Institution
	for _, i := range f.items {
		if filter.Status != nil && i.Status != *filter.Status {
			continue
		}
		if filter.Type != nil && i.Type != *filter.Type {
			continue
		}
		out = append(out, i)
	}
	return out, len(out), nil
}
