package review

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hms/hms/internal/platform/apperr"
	"github.com/hms/hms/internal/platform/auth"
)

type mockRepo struct {
	reviews []*Review
	fail    error
}

func (m *mockRepo) Create(_ context.Context, r *Review) error {
	if m.fail != nil {
		return m.fail
	}
	r.ID = int64(len(m.reviews) + 1)
	m.reviews = append(m.reviews, r)
	return nil
}

func (m *mockRepo) ListByStaff(_ context.Context, staffID string) ([]*Review, error) {
	var result []*Review
	for _, r := range m.reviews {
		if r.StaffID == staffID {
			result = append(result, r)
		}
	}
	return result, nil
}

func patientCtx() context.Context {
	return auth.WithActor(context.Background(), "user_pat", auth.RolePatient)
}

func reviewPayload(rating any) map[string]any {
	return map[string]any{"patient_id": "user_pat", "staff_id": "user_doc", "rating": rating, "comment": "Très à l'écoute"}
}

func TestCreateReview(t *testing.T) {
	svc := NewService(&mockRepo{})

	r, err := svc.CreateReview(patientCtx(), reviewPayload("4"))
	if err != nil {
		t.Fatalf("CreateReview: %v", err)
	}
	if r.Rating != 4 || r.ID == 0 {
		t.Errorf("unexpected review %+v", r)
	}
}

func TestCreateReview_RatingBounds(t *testing.T) {
	svc := NewService(&mockRepo{})

	for _, rating := range []any{0, 6, "-1"} {
		if _, err := svc.CreateReview(patientCtx(), reviewPayload(rating)); apperr.FieldsOf(err)["rating"] == "" {
			t.Errorf("rating %v: expected rating field error, got %v", rating, err)
		}
	}
}

func TestCreateReview_CommentLength(t *testing.T) {
	svc := NewService(&mockRepo{})
	p := reviewPayload(5)
	p["comment"] = ""

	if _, err := svc.CreateReview(patientCtx(), p); apperr.FieldsOf(err)["comment"] == "" {
		t.Fatalf("expected comment field error, got %v", err)
	}
}

func TestCreateReview_OnlyInOwnName(t *testing.T) {
	svc := NewService(&mockRepo{})
	p := reviewPayload(5)
	p["patient_id"] = "user_someone_else"

	if _, err := svc.CreateReview(patientCtx(), p); !errors.Is(err, apperr.ErrAuthorization) {
		t.Fatalf("expected authorization error, got %v", err)
	}
}

func TestCreateReview_UnknownPatient(t *testing.T) {
	svc := NewService(&mockRepo{fail: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})})

	if _, err := svc.CreateReview(patientCtx(), reviewPayload(5)); apperr.FieldsOf(err)["patient_id"] == "" {
		t.Fatalf("expected patient_id field error, got %v", err)
	}
}

func TestListByStaff_Average(t *testing.T) {
	svc := NewService(&mockRepo{})
	for _, rating := range []int{5, 4, 3} {
		if _, err := svc.CreateReview(patientCtx(), reviewPayload(rating)); err != nil {
			t.Fatalf("CreateReview: %v", err)
		}
	}

	s, err := svc.ListByStaff(context.Background(), "user_doc")
	if err != nil {
		t.Fatalf("ListByStaff: %v", err)
	}
	if s.Count != 3 || s.AverageRating != 4 {
		t.Errorf("expected 3 reviews averaging 4, got %d / %v", s.Count, s.AverageRating)
	}

	empty, _ := svc.ListByStaff(context.Background(), "user_nobody")
	if empty.Count != 0 || empty.AverageRating != 0 || empty.Reviews == nil {
		t.Errorf("unexpected empty summary %+v", empty)
	}
}
