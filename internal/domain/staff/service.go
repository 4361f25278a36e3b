package staff

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/internal/platform/idp"
	"github.com/hms/hms/internal/platform/validation"
	"github.com/hms/hms/pkg/colorcode"
)

// OperationRecorder counts domain operations by outcome.
type OperationRecorder interface {
	Operation(name string, err error)
}

type Service struct {
	doctors DoctorRepository
	staff   StaffRepository
	idp     idp.Provider
	tx      db.TxRunner
	metrics OperationRecorder
}

func NewService(doctors DoctorRepository, staff StaffRepository, provider idp.Provider, tx db.TxRunner) *Service {
	return &Service{doctors: doctors, staff: staff, idp: provider, tx: tx}
}

// SetMetrics attaches an optional operation recorder.
func (s *Service) SetMetrics(m OperationRecorder) {
	s.metrics = m
}

func (s *Service) observe(op string, err error) {
	if s.metrics != nil {
		s.metrics.Operation(op, err)
	}
}

func requireAdmin(ctx context.Context) error {
	if auth.UserIDFromContext(ctx) == "" || !auth.Has(auth.RolesFromContext(ctx), auth.RoleAdmin) {
		return apperr.Unauthorized("Non autorisé")
	}
	return nil
}

// CreateDoctor registers a doctor in two phases: an identity-provider account
// first, then the doctor row and its working days in one transaction keyed by
// the account id. When the second phase fails the account is deleted again.
func (s *Service) CreateDoctor(ctx context.Context, payload map[string]any) (d *Doctor, err error) {
	defer func() { s.observe("create_doctor", err) }()

	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	decoded, err := validation.Decode(validation.Doctor, payload)
	if err != nil {
		return nil, err
	}
	in := decoded.(*validation.DoctorInput)

	department, ok := DepartmentFor(in.Specialization)
	if !ok {
		department = in.Department
	}
	if department == "" {
		return nil, apperr.Field("department", "Département requis pour cette spécialisation")
	}

	d = &Doctor{
		Name:               in.Name,
		Email:              in.Email,
		Phone:              in.Phone,
		Address:            in.Address,
		Specialization:     in.Specialization,
		Department:         department,
		LicenseNumber:      in.LicenseNumber,
		Type:               in.Type,
		Img:                optional(in.Img),
		ColorCode:          colorcode.Random(),
		AvailabilityStatus: AvailabilityAvailable,
	}

	d.ID, err = s.onboard(ctx, in.Email, in.Password, in.Name, auth.RoleDoctor, func(ctx context.Context, id string) error {
		d.ID = id
		if err := s.doctors.Create(ctx, d); err != nil {
			return err
		}
		d.WorkingDays = make([]*WorkingDay, 0, len(in.WorkingDays))
		for _, wd := range in.WorkingDays {
			w := &WorkingDay{DoctorID: id, Day: wd.Day, StartTime: wd.StartTime, CloseTime: wd.CloseTime}
			if err := s.doctors.AddWorkingDay(ctx, w); err != nil {
				return err
			}
			d.WorkingDays = append(d.WorkingDays, w)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("doctor_id", d.ID).
		Str("department", d.Department).
		Int("working_days", len(d.WorkingDays)).
		Msg("doctor created")
	return d, nil
}

// CreateStaff registers a nurse or lab technician the same way as a doctor.
func (s *Service) CreateStaff(ctx context.Context, payload map[string]any) (m *Staff, err error) {
	defer func() { s.observe("create_staff", err) }()

	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	decoded, err := validation.Decode(validation.Staff, payload)
	if err != nil {
		return nil, err
	}
	in := decoded.(*validation.StaffInput)

	m = &Staff{
		Name:          in.Name,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		Role:          in.Role,
		LicenseNumber: optional(in.LicenseNumber),
		Department:    optional(in.Department),
		Img:           optional(in.Img),
		ColorCode:     colorcode.Random(),
		Status:        StatusActive,
	}

	role := auth.Role(strings.ToLower(in.Role))
	m.ID, err = s.onboard(ctx, in.Email, in.Password, in.Name, role, func(ctx context.Context, id string) error {
		m.ID = id
		return s.staff.Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("staff_id", m.ID).
		Str("role", m.Role).
		Msg("staff member created")
	return m, nil
}

// onboard creates the identity-provider account and runs persist inside a
// transaction with the new account id. If persist fails the account is
// deleted with a context that survives request cancellation.
func (s *Service) onboard(ctx context.Context, email, password, name string, role auth.Role,
	persist func(ctx context.Context, id string) error) (string, error) {
	first, last := idp.SplitName(name)
	id, err := s.idp.CreateUser(ctx, idp.Account{
		Email:     email,
		Password:  password,
		FirstName: first,
		LastName:  last,
		Role:      string(role),
	})
	if err != nil {
		return "", apperr.Upstream("create identity account", err)
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		return persist(ctx, id)
	})
	if err == nil {
		return id, nil
	}

	log := zerolog.Ctx(ctx)
	if cerr := s.idp.DeleteUser(context.WithoutCancel(ctx), id); cerr != nil {
		log.Error().Err(err).AnErr("compensation_error", cerr).Str("user_id", id).
			Msg("identity account left behind after failed insert")
		return "", apperr.Upstream("compensate identity account", errors.Join(err, cerr))
	}
	log.Warn().Err(err).Str("user_id", id).Msg("identity account removed after failed insert")

	if db.IsUniqueViolation(err) {
		return "", apperr.Field("email", "Adresse email déjà utilisée")
	}
	return "", apperr.Wrap("insert "+string(role), err)
}

// GetDoctor returns a doctor with its working days.
func (s *Service) GetDoctor(ctx context.Context, id string) (*Doctor, error) {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap("get doctor", err)
	}
	if d.WorkingDays, err = s.doctors.GetWorkingDays(ctx, id); err != nil {
		return nil, apperr.Upstream("list working days", err)
	}
	return d, nil
}

func (s *Service) ListDoctors(ctx context.Context, search string, limit, offset int) ([]*Doctor, int, error) {
	items, total, err := s.doctors.List(ctx, search, limit, offset)
	return items, total, apperr.Wrap("list doctors", err)
}

func (s *Service) GetStaff(ctx context.Context, id string) (*Staff, error) {
	m, err := s.staff.GetByID(ctx, id)
	return m, apperr.Wrap("get staff", err)
}

func (s *Service) ListStaff(ctx context.Context, role, search string, limit, offset int) ([]*Staff, int, error) {
	items, total, err := s.staff.List(ctx, strings.ToUpper(role), search, limit, offset)
	return items, total, apperr.Wrap("list staff", err)
}

// DeleteDoctor removes the local row and then the identity account. A failure
// to remove the account is logged; the local delete stands.
func (s *Service) DeleteDoctor(ctx context.Context, id string) error {
	if err := s.doctors.Delete(ctx, id); err != nil {
		return apperr.Wrap("delete doctor", err)
	}
	s.dropAccount(ctx, id)
	return nil
}

func (s *Service) DeleteStaff(ctx context.Context, id string) error {
	if err := s.staff.Delete(ctx, id); err != nil {
		return apperr.Wrap("delete staff", err)
	}
	s.dropAccount(ctx, id)
	return nil
}

func (s *Service) dropAccount(ctx context.Context, id string) {
	if err := s.idp.DeleteUser(context.WithoutCancel(ctx), id); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("user_id", id).Msg("identity account not removed")
	}
}
