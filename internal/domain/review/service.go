package review

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/internal/platform/validation"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateReview stores a rating of a doctor or staff member. A patient may
// only review in their own name.
func (s *Service) CreateReview(ctx context.Context, payload map[string]any) (*Review, error) {
	actor := auth.UserIDFromContext(ctx)
	if actor == "" {
		return nil, apperr.Unauthorized("Non autorisé")
	}
	decoded, err := validation.Decode(validation.Review, payload)
	if err != nil {
		return nil, err
	}
	in := decoded.(*validation.ReviewInput)

	roles := auth.RolesFromContext(ctx)
	if auth.Has(roles, auth.RolePatient) && !auth.Has(roles, auth.RoleAdmin) && in.PatientID != actor {
		return nil, apperr.Unauthorized("Non autorisé")
	}
	if in.PatientID == in.StaffID {
		return nil, apperr.Field("staff_id", "Auto-évaluation impossible")
	}

	r := &Review{PatientID: in.PatientID, StaffID: in.StaffID, Rating: in.Rating, Comment: in.Comment}
	if err := s.repo.Create(ctx, r); err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, apperr.Field("patient_id", "Patient inconnu")
		}
		return nil, apperr.Upstream("create review", err)
	}

	zerolog.Ctx(ctx).Info().Int64("review_id", r.ID).Str("staff_id", r.StaffID).Int("rating", r.Rating).Msg("review created")
	return r, nil
}

func (s *Service) ListByStaff(ctx context.Context, staffID string) (*Summary, error) {
	items, err := s.repo.ListByStaff(ctx, staffID)
	if err != nil {
		return nil, apperr.Upstream("list reviews", err)
	}
	return summarize(staffID, items), nil
}
