package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestErrorsIs_MatchesKind(t *testing.T) {
	err := fmt.Errorf("create appointment: %w", IllegalTransition("COMPLETED", "PENDING"))
	if !errors.Is(err, ErrIllegalTransition) {
		t.Error("expected errors.Is to match ErrIllegalTransition")
	}
	if errors.Is(err, ErrValidation) {
		t.Error("did not expect ErrValidation to match")
	}
}

func TestUpstream_Unwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Upstream("insert doctor", cause)
	if !errors.Is(err, cause) {
		t.Error("expected upstream error to unwrap to its cause")
	}
	if !errors.Is(err, ErrUpstream) {
		t.Error("expected upstream error to match ErrUpstream")
	}
}

func TestError_MessageListsFieldsSorted(t *testing.T) {
	err := Validation("invalid payload", map[string]string{"phone": "len", "email": "email"})
	msg := err.Error()
	if !strings.Contains(msg, "email: email; phone: len") {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestKindOf_ForeignError(t *testing.T) {
	if KindOf(errors.New("boom")) != KindInternal {
		t.Error("expected foreign errors to be internal")
	}
	if FieldsOf(errors.New("boom")) != nil {
		t.Error("expected no fields on foreign error")
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Field("rating", "max"), http.StatusBadRequest},
		{Unauthorized("no session"), http.StatusForbidden},
		{NotFound("appointment", 7), http.StatusNotFound},
		{IllegalTransition("CANCELLED", "SCHEDULED"), http.StatusConflict},
		{Upstream("create user", errors.New("timeout")), http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := HTTPStatus(tt.err); got != tt.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestWrap(t *testing.T) {
	if Wrap("insert", nil) != nil {
		t.Error("expected nil for nil")
	}
	nf := NotFound("doctor", "user_1")
	if got := Wrap("get doctor", nf); got != nf {
		t.Errorf("expected application error to pass through, got %v", got)
	}
	if got := Wrap("get doctor", errors.New("conn reset")); KindOf(got) != KindUpstream {
		t.Errorf("expected upstream kind, got %s", KindOf(got))
	}
}
