package scheduling

import (
	"strings"
	"testing"
	"time"
)

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusPending, StatusScheduled, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusPending, false},
		{StatusScheduled, StatusCompleted, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusScheduled, StatusPending, true},
		{StatusScheduled, StatusScheduled, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusScheduled, false},
		{StatusCancelled, StatusPending, false},
		{Status("ARCHIVED"), StatusPending, false},
	}
	for _, tt := range tests {
		err := ValidateTransition(tt.from, tt.to)
		if (err == nil) != tt.ok {
			t.Errorf("%s -> %s: got err %v, want ok=%v", tt.from, tt.to, err, tt.ok)
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	for st, want := range map[Status]bool{
		StatusPending:   false,
		StatusScheduled: false,
		StatusCompleted: true,
		StatusCancelled: true,
		Status("nope"):  false,
	} {
		if got := st.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", st, got, want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if st, ok := ParseStatus(" scheduled "); !ok || st != StatusScheduled {
		t.Errorf("expected SCHEDULED, got %q %v", st, ok)
	}
	if _, ok := ParseStatus("archived"); ok {
		t.Error("expected unknown status to be rejected")
	}
}

func TestDefaultReason(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	tests := map[Status]string{
		StatusScheduled: "planifié",
		StatusCancelled: "annulé",
		StatusCompleted: "terminé",
		StatusPending:   "mis en attente",
	}
	for st, word := range tests {
		got := DefaultReason(st, at)
		if !strings.Contains(got, word) {
			t.Errorf("DefaultReason(%s) = %q, expected %q", st, got, word)
		}
		if !strings.HasSuffix(got, "Sat, 14 Mar 2026 09:30:00 UTC") {
			t.Errorf("expected RFC1123 timestamp, got %q", got)
		}
	}
}
