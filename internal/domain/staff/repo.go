package staff

import (
	"context"
)

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id string) (*Doctor, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, search string, limit, offset int) ([]*Doctor, int, error)
	// Working days
	AddWorkingDay(ctx context.Context, w *WorkingDay) error
	GetWorkingDays(ctx context.Context, doctorID string) ([]*WorkingDay, error)
}

type StaffRepository interface {
	Create(ctx context.Context, s *Staff) error
	GetByID(ctx context.Context, id string) (*Staff, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, role, search string, limit, offset int) ([]*Staff, int, error)
}
