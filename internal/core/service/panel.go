package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/campuslink/portal/internal/core/domain"
	"github.com/campuslink/portal/internal/core/ports"
)

// Panel manages the display cache for one resource family: the current page
// of records as last confirmed by the server. Mutations are applied to the
// cache only after the server confirms them, patched with the server's
// returned representation of the single affected record. The cache is never
// the source of truth and is not revalidated after a mutation.
type Panel[T domain.Record] struct {
	api ports.ResourceAPI[T]
	log zerolog.Logger

	mu    sync.Mutex
	items []T
	total int
}

func NewPanel[T domain.Record](api ports.ResourceAPI[T], log zerolog.Logger) *Panel[T] {
	return &Panel[T]{api: api, log: log}
}

// Load fetches one page and replaces the cache. Query parameters are
// forwarded verbatim. On failure the previous cache is kept.
func (p *Panel[T]) Load(ctx context.Context, q domain.ListQuery) error {
	page, err := p.api.List(ctx, q)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.items = page.Items
	p.total = page.Total
	p.mu.Unlock()
	return nil
}

// Items returns a copy of the cached page.
func (p *Panel[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]T, len(p.items))
	copy(out, p.items)
	return out
}

// Total returns the server-reported total for the last loaded page, or the
// page length when the server answered with a bare list.
func (p *Panel[T]) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// Create submits a draft record. On success the server's returned record is
// prepended to the cache; on failure the cache is untouched.
func (p *Panel[T]) Create(ctx context.Context, draft T) (T, error) {
	created, err := p.api.Create(ctx, draft)
	if err != nil {
		var zero T
		return zero, err
	}
	p.mu.Lock()
	p.items = append([]T{created}, p.items...)
	p.total++
	p.mu.Unlock()
	p.log.Debug().Str("id", created.RecordID()).Msg("record created")
	return created, nil
}

// Update submits a partial patch. On success the matching cached record is
// replaced by the server's representation; records absent from the current
// page are left alone.
func (p *Panel[T]) Update(ctx context.Context, id string, patch T) (T, error) {
	updated, err := p.api.Update(ctx, id, patch)
	if err != nil {
		var zero T
		return zero, err
	}
	p.mu.Lock()
	for i := range p.items {
		if p.items[i].RecordID() == id {
			p.items[i] = updated
			break
		}
	}
	p.mu.Unlock()
	return updated, nil
}

// Delete removes a record server-side, then drops it from the cache.
func (p *Panel[T]) Delete(ctx context.Context, id string) error {
	if err := p.api.Delete(ctx, id); err != nil {
		return err
	}
	p.mu.Lock()
	for i := range p.items {
		if p.items[i].RecordID() == id {
			p.items = append(p.items[:i], p.items[i+1:]...)
			p.total--
			break
		}
	}
	p.mu.Unlock()
	return nil
}
