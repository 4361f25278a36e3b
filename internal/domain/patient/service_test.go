package patient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/auth"
)

type mockRepo struct {
	patients map[string]*Patient
}

func newMockRepo() *mockRepo {
	return &mockRepo{patients: make(map[string]*Patient)}
}

func (m *mockRepo) Create(_ context.Context, p *Patient) error {
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, apperr.NotFound("patient", id)
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.patients[p.ID]; !ok {
		return apperr.NotFound("patient", p.ID)
	}
	p.UpdatedAt = time.Now()
	m.patients[p.ID] = p
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.patients[id]; !ok {
		return apperr.NotFound("patient", id)
	}
	delete(m.patients, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, search string, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.patients {
		result = append(result, p)
	}
	return result, len(result), nil
}

func patientPayload() map[string]any {
	return map[string]any{
		"first_name":               "Fatou",
		"last_name":                "Ndiaye",
		"date_of_birth":            "1990-04-12",
		"gender":                   "FEMALE",
		"phone":                    "0612345678",
		"email":                    "fatou@example.test",
		"address":                  "8 rue des Lilas",
		"marital_status":           "single",
		"emergency_contact_name":   "Awa Ndiaye",
		"emergency_contact_number": "0687654321",
		"relation":                 "mother",
		"allergies":                "pénicilline",
		"privacy_consent":          true,
		"service_consent":          true,
		"medical_consent":          true,
	}
}

func TestRegister_SelfServiceUsesSubject(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := auth.WithActor(context.Background(), "user_fatou", auth.RolePatient)

	p, err := svc.Register(ctx, patientPayload())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if p.ID != "user_fatou" {
		t.Errorf("expected the session subject as id, got %s", p.ID)
	}
	if p.Allergies == nil || *p.Allergies != "pénicilline" {
		t.Errorf("expected allergies to be stored, got %v", p.Allergies)
	}
	if p.BloodGroup != nil {
		t.Error("expected blank blood group to be nil")
	}
	if p.DateOfBirth.Year() != 1990 {
		t.Errorf("unexpected date of birth %v", p.DateOfBirth)
	}
}

func TestRegister_StaffGeneratesID(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := auth.WithActor(context.Background(), "user_nurse", auth.RoleNurse)

	p, err := svc.Register(ctx, patientPayload())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := uuid.Parse(p.ID); err != nil {
		t.Errorf("expected a generated uuid, got %q", p.ID)
	}
	if p.ColorCode == "" {
		t.Error("expected a color code")
	}
}

func TestRegister_RequiresConsents(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := auth.WithActor(context.Background(), "user_fatou", auth.RolePatient)
	payload := patientPayload()
	payload["medical_consent"] = false

	_, err := svc.Register(ctx, payload)
	if apperr.FieldsOf(err)["medical_consent"] == "" {
		t.Fatalf("expected medical_consent field error, got %v", err)
	}
}

func TestRegister_Unauthenticated(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.Register(context.Background(), patientPayload()); !errors.Is(err, apperr.ErrAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestUpdate_DoesNotRequireConsents(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := auth.WithActor(context.Background(), "user_fatou", auth.RolePatient)
	if _, err := svc.Register(ctx, patientPayload()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	payload := patientPayload()
	delete(payload, "privacy_consent")
	delete(payload, "service_consent")
	delete(payload, "medical_consent")
	payload["address"] = "21 boulevard Central"

	p, err := svc.Update(ctx, "user_fatou", payload)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.Address != "21 boulevard Central" {
		t.Errorf("expected updated address, got %s", p.Address)
	}
	if !repo.patients["user_fatou"].PrivacyConsent {
		t.Error("consents recorded at registration must be kept")
	}
}

func TestUpdate_OtherPatientDenied(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := auth.WithActor(context.Background(), "user_fatou", auth.RolePatient)

	if _, err := svc.Update(ctx, "user_other", patientPayload()); !errors.Is(err, apperr.ErrAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
	if _, err := svc.Get(ctx, "user_other"); !errors.Is(err, apperr.ErrAuthorization) {
		t.Fatalf("expected authorization error on read, got %v", err)
	}
}

func TestList_RefusedToPatientActor(t *testing.T) {
	svc := NewService(newMockRepo())
	nurse := auth.WithActor(context.Background(), "user_nurse", auth.RoleNurse)
	other := patientPayload()
	other["first_name"] = "Moussa"
	if _, err := svc.Register(nurse, other); err != nil {
		t.Fatal(err)
	}

	ctx := auth.WithActor(context.Background(), "user_fatou", auth.RolePatient)
	items, _, err := svc.List(ctx, "", 10, 0)
	if !errors.Is(err, apperr.ErrAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no patients returned, got %d", len(items))
	}

	if _, total, err := svc.List(nurse, "", 10, 0); err != nil || total != 1 {
		t.Errorf("nurse listing: got %d (%v)", total, err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := auth.WithActor(context.Background(), "user_nurse", auth.RoleNurse)

	if _, err := svc.Update(ctx, "missing", patientPayload()); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := auth.WithActor(context.Background(), "user_nurse", auth.RoleNurse)
	p, _ := svc.Register(ctx, patientPayload())

	if err := svc.Delete(ctx, p.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, p.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestFullName(t *testing.T) {
	p := &Patient{FirstName: "Fatou", LastName: "Ndiaye"}
	if p.FullName() != "Fatou Ndiaye" {
		t.Errorf("unexpected full name %q", p.FullName())
	}
}
