package ports

import (
	"context"

	"github.com/campuslink/portal/internal/core/domain"
)

// ResourceAPI is the consumed CRUD surface for one resource family
// (students, faculty, notices, departments, courses, results, alumni,
// events).
//
// Create and Update return the server's representation of the affected
// record; the caller patches its local cache with exactly that value and
// never re-fetches the list.
type ResourceAPI[T domain.Record] interface {
	List(ctx context.Context, q domain.ListQuery) (domain.PageResult[T], error)
	Create(ctx context.Context, draft T) (T, error)
	Update(ctx context.Context, id string, patch T) (T, error)
	Delete(ctx context.Context, id string) error
}
