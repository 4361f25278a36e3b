package catalog

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/internal/platform/validation"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AddService validates and stores a catalog entry. The price may arrive as a
// string and must be a number greater than zero.
func (s *Service) AddService(ctx context.Context, payload map[string]any) (*MedicalService, error) {
	decoded, err := validation.Decode(validation.Service, payload)
	if err != nil {
		return nil, err
	}
	in := decoded.(*validation.ServiceInput)

	ms := &MedicalService{ServiceName: in.ServiceName, Price: in.Price, Description: in.Description}
	if err := s.repo.Create(ctx, ms); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.Field("service_name", "Ce service existe déjà")
		}
		return nil, apperr.Upstream("create service", err)
	}
	zerolog.Ctx(ctx).Info().Int64("service_id", ms.ID).Str("service_name", ms.ServiceName).Msg("service added")
	return ms, nil
}

func (s *Service) GetService(ctx context.Context, id int64) (*MedicalService, error) {
	ms, err := s.repo.GetByID(ctx, id)
	return ms, apperr.Wrap("get service", err)
}

func (s *Service) ListServices(ctx context.Context, search string, limit, offset int) ([]*MedicalService, int, error) {
	items, total, err := s.repo.List(ctx, search, limit, offset)
	return items, total, apperr.Wrap("list services", err)
}

func (s *Service) DeleteService(ctx context.Context, id int64) error {
	return apperr.Wrap("delete service", s.repo.Delete(ctx, id))
}

// Seed inserts the given entries, skipping names already present, and
// returns how many were written.
func (s *Service) Seed(ctx context.Context, entries []MedicalService) (int, error) {
	written := 0
	for i := range entries {
		ms := entries[i]
		if err := validation.Struct(&validation.ServiceInput{
			ServiceName: ms.ServiceName, Price: ms.Price, Description: ms.Description,
		}); err != nil {
			return written, err
		}
		ok, err := s.repo.Upsert(ctx, &ms)
		if err != nil {
			return written, apperr.Upstream("seed service "+ms.ServiceName, err)
		}
		if ok {
			written++
		}
	}
	return written, nil
}
