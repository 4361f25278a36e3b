package patient

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/internal/platform/validation"
	"github.com/hms/hms/pkg/colorcode"
)

type Service struct {
	patients Repository
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients}
}

// Register creates a patient. A patient registering themself gets their
// session subject as id; staff registrations get a generated one.
func (s *Service) Register(ctx context.Context, payload map[string]any) (*Patient, error) {
	actor := auth.UserIDFromContext(ctx)
	if actor == "" {
		return nil, apperr.Unauthorized("Non autorisé")
	}
	decoded, err := validation.Decode(validation.Patient, payload)
	if err != nil {
		return nil, err
	}
	in := decoded.(*validation.PatientInput)

	p := &Patient{
		PrivacyConsent: in.PrivacyConsent,
		ServiceConsent: in.ServiceConsent,
		MedicalConsent: in.MedicalConsent,
		ColorCode:      colorcode.Random(),
	}
	p.applyProfile(&in.PatientProfile)
	if _, self := auth.SelfServiceSubject(ctx); self {
		p.ID = actor
	} else {
		p.ID = uuid.NewString()
	}

	if err := s.patients.Create(ctx, p); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.Field("id", "Patient déjà enregistré")
		}
		return nil, apperr.Upstream("create patient", err)
	}

	zerolog.Ctx(ctx).Info().Str("patient_id", p.ID).Bool("self_service", p.ID == actor).Msg("patient registered")
	return p, nil
}

// Update replaces the editable profile. Patients may only edit their own record.
func (s *Service) Update(ctx context.Context, id string, payload map[string]any) (*Patient, error) {
	if err := auth.RequireSubject(ctx, id); err != nil {
		return nil, err
	}
	decoded, err := validation.Decode(validation.PatientUpdate, payload)
	if err != nil {
		return nil, err
	}
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("get patient", err)
	}
	p.applyProfile(decoded.(*validation.PatientProfile))
	if err := s.patients.Update(ctx, p); err != nil {
		return nil, apperr.Wrap("update patient", err)
	}
	return p, nil
}

// Get returns a patient; a patient actor may only read their own record.
func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	if err := auth.RequireSubject(ctx, id); err != nil {
		return nil, err
	}
	p, err := s.patients.GetByID(ctx, id)
	return p, apperr.Wrap("get patient", err)
}

// List searches all patients. Self-service actors are refused; they read
// their own record through Get.
func (s *Service) List(ctx context.Context, search string, limit, offset int) ([]*Patient, int, error) {
	if _, self := auth.SelfServiceSubject(ctx); self {
		return nil, 0, apperr.Unauthorized("Non autorisé")
	}
	items, total, err := s.patients.List(ctx, search, limit, offset)
	return items, total, apperr.Wrap("list patients", err)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return apperr.Wrap("delete patient", s.patients.Delete(ctx, id))
}
