// Package admin carries the administrator's generic delete.
package admin

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/auth"
)

type StaffDirectory interface {
	DeleteDoctor(ctx context.Context, id string) error
	DeleteStaff(ctx context.Context, id string) error
}

type PatientRegistry interface {
	Delete(ctx context.Context, id string) error
}

type Catalog interface {
	DeleteService(ctx context.Context, id int64) error
}

// Entity types accepted by DeleteByID.
const (
	EntityDoctor  = "doctor"
	EntityStaff   = "staff"
	EntityPatient = "patient"
	EntityService = "service"
)

type deleter func(ctx context.Context, id string) error

type Service struct {
	deleters map[string]deleter
}

func NewService(staff StaffDirectory, patients PatientRegistry, catalog Catalog) *Service {
	return &Service{deleters: map[string]deleter{
		EntityDoctor:  staff.DeleteDoctor,
		EntityStaff:   staff.DeleteStaff,
		EntityPatient: patients.Delete,
		EntityService: func(ctx context.Context, id string) error {
			n, err := strconv.ParseInt(id, 10, 64)
			if err != nil || n <= 0 {
				return apperr.Field("id", "Identifiant invalide")
			}
			return catalog.DeleteService(ctx, n)
		},
	}}
}

// Types lists the accepted entity types.
func (s *Service) Types() []string {
	out := make([]string, 0, len(s.deleters))
	for k := range s.deleters {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DeleteByID removes one doctor, staff member, patient or service. Only an
// administrator may call it.
func (s *Service) DeleteByID(ctx context.Context, entityType, id string) error {
	roles := auth.RolesFromContext(ctx)
	if auth.UserIDFromContext(ctx) == "" || !auth.Has(roles, auth.RoleAdmin) {
		return apperr.Unauthorized("Non autorisé")
	}
	del, ok := s.deleters[strings.ToLower(entityType)]
	if !ok {
		return apperr.Field("type", "Type inconnu: "+strings.Join(s.Types(), ", "))
	}
	if strings.TrimSpace(id) == "" {
		return apperr.Field("id", "Identifiant requis")
	}
	if err := del(ctx, id); err != nil {
		return apperr.Wrap("delete "+entityType, err)
	}
	zerolog.Ctx(ctx).Info().Str("entity", entityType).Str("id", id).
		Str("admin_id", auth.UserIDFromContext(ctx)).Msg("record deleted")
	return nil
}
