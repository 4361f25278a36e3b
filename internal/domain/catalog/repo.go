package catalog

import "context"

type Repository interface {
	Create(ctx context.Context, s *MedicalService) error
	// Upsert inserts s unless a service with the same name exists and
	// reports whether a row was written.
	Upsert(ctx context.Context, s *MedicalService) (bool, error)
	GetByID(ctx context.Context, id int64) (*MedicalService, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, search string, limit, offset int) ([]*MedicalService, int, error)
}
