package scheduling

import (
	"context"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id int64) (*Appointment, error)
	// UpdateStatus moves the appointment from one status to another in a
	// single statement. It fails with apperr.ErrNotFound when the row does
	// not exist or no longer has status from.
	UpdateStatus(ctx context.Context, id int64, from, to Status, reason string) (*Appointment, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Appointment, int, error)
	ListByDoctor(ctx context.Context, doctorID string, limit, offset int) ([]*Appointment, int, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Appointment, int, error)
}
