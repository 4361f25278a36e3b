package review

import "context"

type Repository interface {
	Create(ctx context.Context, r *Review) error
	ListByStaff(ctx context.Context, staffID string) ([]*Review, error)
}
