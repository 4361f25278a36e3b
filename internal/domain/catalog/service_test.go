package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/auth"
)

type mockRepo struct {
	services map[int64]*MedicalService
	nextID   int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{services: make(map[int64]*MedicalService)}
}

func (m *mockRepo) Create(_ context.Context, s *MedicalService) error {
	m.nextID++
	s.ID = m.nextID
	m.services[s.ID] = s
	return nil
}

func (m *mockRepo) Upsert(ctx context.Context, s *MedicalService) (bool, error) {
	for _, existing := range m.services {
		if existing.ServiceName == s.ServiceName {
			return false, nil
		}
	}
	return true, m.Create(ctx, s)
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*MedicalService, error) {
	s, ok := m.services[id]
	if !ok {
		return nil, apperr.NotFound("service", id)
	}
	return s, nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.services[id]; !ok {
		return apperr.NotFound("service", id)
	}
	delete(m.services, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, search string, limit, offset int) ([]*MedicalService, int, error) {
	var result []*MedicalService
	for _, s := range m.services {
		if search == "" || strings.Contains(strings.ToLower(s.ServiceName), strings.ToLower(search)) {
			result = append(result, s)
		}
	}
	return result, len(result), nil
}

func TestAddService_CoercesPrice(t *testing.T) {
	svc := NewService(newMockRepo())

	ms, err := svc.AddService(context.Background(), map[string]any{
		"service_name": "Radiographie",
		"price":        "30000.50",
		"description":  "Examen radiologique",
	})
	if err != nil {
		t.Fatalf("AddService: %v", err)
	}
	if ms.Price != 30000.50 {
		t.Errorf("expected 30000.50, got %v", ms.Price)
	}
}

func TestAddService_RejectsBadPrice(t *testing.T) {
	svc := NewService(newMockRepo())

	for _, price := range []any{"0", -5, "gratuit"} {
		_, err := svc.AddService(context.Background(), map[string]any{
			"service_name": "Consultation",
			"price":        price,
			"description":  "x",
		})
		if apperr.FieldsOf(err)["price"] == "" {
			t.Errorf("price %v: expected price field error, got %v", price, err)
		}
	}
}

func TestDeleteService(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ms, _ := svc.AddService(context.Background(), map[string]any{"service_name": "ECG", "price": 100, "description": "ECG"})

	if err := svc.DeleteService(context.Background(), ms.ID); err != nil {
		t.Fatalf("DeleteService: %v", err)
	}
	if err := svc.DeleteService(context.Background(), ms.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestSeed_SkipsExisting(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	n, err := svc.Seed(context.Background(), Defaults)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if n != len(Defaults) {
		t.Errorf("expected %d written, got %d", len(Defaults), n)
	}
	n, err = svc.Seed(context.Background(), Defaults)
	if err != nil || n != 0 {
		t.Errorf("expected second seed to write nothing, got %d, %v", n, err)
	}
	if Defaults[0].ID != 0 {
		t.Error("seeding must not mutate the defaults")
	}
}

func TestHandler_AddServiceRoute(t *testing.T) {
	perms, err := auth.NewPermissions()
	if err != nil {
		t.Fatalf("permissions: %v", err)
	}
	h := NewHandler(NewService(newMockRepo()), perms)
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		_ = c.NoContent(apperr.HTTPStatus(err))
	}
	h.RegisterRoutes(e.Group("/api/v1"))

	body := `{"service_name":"Échographie","price":"35000","description":"Échographie abdominale"}`
	send := func(role auth.Role) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/services", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req = req.WithContext(auth.WithActor(req.Context(), "user_x", role))
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}
	if code := send(auth.RoleCashier); code != http.StatusCreated {
		t.Errorf("cashier: expected 201, got %d", code)
	}
	if code := send(auth.RolePatient); code != http.StatusForbidden {
		t.Errorf("patient: expected 403, got %d", code)
	}
}
