package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/hms/hms/internal/platform/apperr"
)

func validPatient() map[string]any {
	return map[string]any{
		"first_name":               "Amina",
		"last_name":                "Diallo",
		"date_of_birth":            "1990-04-12",
		"gender":                   "FEMALE",
		"phone":                    "0612345678",
		"email":                    "amina@example.com",
		"address":                  "12 rue des Lilas, Lyon",
		"marital_status":           "single",
		"emergency_contact_name":   "Moussa Diallo",
		"emergency_contact_number": "0698765432",
		"relation":                 "father",
		"privacy_consent":          true,
		"service_consent":          true,
		"medical_consent":          true,
	}
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	return apperr.FieldsOf(err)
}

func TestDecode_ValidPatient(t *testing.T) {
	v, err := Decode(Patient, validPatient())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, ok := v.(*PatientInput)
	if !ok {
		t.Fatalf("expected *PatientInput, got %T", v)
	}
	if p.FirstName != "Amina" || p.Gender != "FEMALE" {
		t.Errorf("unexpected decoded patient: %+v", p)
	}
	want := time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC)
	if !p.DateOfBirth.Equal(want) {
		t.Errorf("expected date of birth %v, got %v", want, p.DateOfBirth)
	}
}

func TestDecode_PatientConsentsMustBeTrue(t *testing.T) {
	for _, consent := range []string{"privacy_consent", "service_consent", "medical_consent"} {
		t.Run(consent, func(t *testing.T) {
			payload := validPatient()
			payload[consent] = false
			fields := fieldsOf(t, func() error { _, err := Decode(Patient, payload); return err }())
			if _, ok := fields[consent]; !ok {
				t.Errorf("expected %s in field errors, got %v", consent, fields)
			}
			if len(fields) != 1 {
				t.Errorf("expected only the consent to fail, got %v", fields)
			}
		})
	}
}

func TestDecode_PatientMissingConsentIsRejected(t *testing.T) {
	payload := validPatient()
	delete(payload, "medical_consent")
	fields := fieldsOf(t, func() error { _, err := Decode(Patient, payload); return err }())
	if _, ok := fields["medical_consent"]; !ok {
		t.Errorf("expected medical_consent error, got %v", fields)
	}
}

func TestDecode_PatientUpdateSkipsConsents(t *testing.T) {
	payload := validPatient()
	payload["privacy_consent"] = false
	if _, err := Decode(PatientUpdate, payload); err != nil {
		t.Errorf("expected update without consents to pass, got %v", err)
	}
}

func TestDecode_PhoneLength(t *testing.T) {
	tests := []struct {
		phone string
		ok    bool
	}{
		{"0612345678", true},
		{"061234567", false},
		{"06123456789", false},
		{"", false},
		{"06123456ab", false},
		{"12345.6789", false},
		{"+123456789", false},
		{"-123456789", false},
	}
	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			payload := validPatient()
			payload["phone"] = tt.phone
			_, err := Decode(Patient, payload)
			if tt.ok && err != nil {
				t.Fatalf("expected %q to pass, got %v", tt.phone, err)
			}
			if !tt.ok {
				if _, ok := fieldsOf(t, err)["phone"]; !ok {
					t.Errorf("expected phone error for %q", tt.phone)
				}
			}
		})
	}
}

func TestDecode_StaffPhoneDigitsOnly(t *testing.T) {
	for _, phone := range []string{"12345.6789", "+123456789"} {
		payload := map[string]any{
			"name": "Claire Petit", "role": "NURSE", "phone": phone,
			"email": "claire@example.com", "address": "4 rue des Écoles", "password": "s3cret-pass",
		}
		fields := fieldsOf(t, func() error { _, err := Decode(Staff, payload); return err }())
		if fields["phone"] != "Ne doit contenir que des chiffres" {
			t.Errorf("phone %q: expected digits-only error, got %v", phone, fields)
		}
	}
}

func TestDecode_NameAndAddressBounds(t *testing.T) {
	payload := validPatient()
	payload["first_name"] = "A"
	payload["address"] = "rue"
	fields := fieldsOf(t, func() error { _, err := Decode(Patient, payload); return err }())
	for _, f := range []string{"first_name", "address"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("expected %s error, got %v", f, fields)
		}
	}
}

func TestDecode_EnumMembership(t *testing.T) {
	payload := validPatient()
	payload["gender"] = "OTHER"
	payload["marital_status"] = "engaged"
	payload["relation"] = "cousin"
	fields := fieldsOf(t, func() error { _, err := Decode(Patient, payload); return err }())
	for _, f := range []string{"gender", "marital_status", "relation"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("expected %s error, got %v", f, fields)
		}
	}
}

func validReview() map[string]any {
	return map[string]any{
		"patient_id": "user_123",
		"staff_id":   "user_456",
		"rating":     4,
		"comment":    "Très attentionnée",
	}
}

func TestDecode_ReviewRatingBounds(t *testing.T) {
	for _, rating := range []any{0, 6, -1, "7", 5.9, 3.5, "4.5"} {
		payload := validReview()
		payload["rating"] = rating
		fields := fieldsOf(t, func() error { _, err := Decode(Review, payload); return err }())
		if _, ok := fields["rating"]; !ok {
			t.Errorf("rating %v: expected rating error, got %v", rating, fields)
		}
	}
	for _, rating := range []any{1, 5, "3", 2.0} {
		payload := validReview()
		payload["rating"] = rating
		if _, err := Decode(Review, payload); err != nil {
			t.Errorf("rating %v: unexpected error %v", rating, err)
		}
	}
}

func TestDecode_ReviewCommentBounds(t *testing.T) {
	long := make([]rune, 501)
	for i := range long {
		long[i] = 'é'
	}
	for _, comment := range []string{"", string(long)} {
		payload := validReview()
		payload["comment"] = comment
		fields := fieldsOf(t, func() error { _, err := Decode(Review, payload); return err }())
		if _, ok := fields["comment"]; !ok {
			t.Errorf("expected comment error for length %d", len([]rune(comment)))
		}
	}

	payload := validReview()
	payload["comment"] = string(long[:500])
	if _, err := Decode(Review, payload); err != nil {
		t.Errorf("expected 500-character comment to pass, got %v", err)
	}
}

func TestDecode_VitalSignsCoercesMeasurements(t *testing.T) {
	v, err := Decode(VitalSigns, map[string]any{
		"patient_id":        "user_1",
		"medical_id":        "",
		"body_temperature":  "37.2",
		"heartRate":         "72",
		"systolic":          "120",
		"diastolic":         80,
		"respiratory_rate":  "",
		"oxygen_saturation": "98",
		"weight":            "70.5",
		"height":            175,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vs := v.(*VitalSignsInput)
	if vs.BodyTemperature != 37.2 || vs.Systolic != 120 || vs.Weight != 70.5 || vs.Height != 175 {
		t.Errorf("unexpected coercion: %+v", vs)
	}
	if vs.HeartRate != "72" {
		t.Errorf("expected heartRate alias to populate heart_rate, got %q", vs.HeartRate)
	}
	if vs.MedicalID != 0 {
		t.Errorf("expected blank medical_id to decode as absent, got %d", vs.MedicalID)
	}
	if vs.RespiratoryRate != nil {
		t.Errorf("expected blank respiratory_rate to be dropped, got %v", *vs.RespiratoryRate)
	}
	if vs.OxygenSaturation == nil || *vs.OxygenSaturation != 98 {
		t.Errorf("expected oxygen saturation 98, got %v", vs.OxygenSaturation)
	}
}

func TestDecode_VitalSignsRejectsNonNumeric(t *testing.T) {
	fields := fieldsOf(t, func() error {
		_, err := Decode(VitalSigns, map[string]any{
			"patient_id":       "user_1",
			"body_temperature": "37",
			"heart_rate":       "72",
			"systolic":         "high",
			"diastolic":        "80",
			"weight":           "70",
			"height":           "175",
		})
		return err
	}())
	if _, ok := fields["systolic"]; !ok {
		t.Errorf("expected systolic error, got %v", fields)
	}
}

func TestDecode_VitalSignsMissingRequired(t *testing.T) {
	fields := fieldsOf(t, func() error {
		_, err := Decode(VitalSigns, map[string]any{"patient_id": "user_1"})
		return err
	}())
	for _, f := range []string{"body_temperature", "heart_rate", "systolic", "diastolic", "weight", "height"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("expected %s error, got %v", f, fields)
		}
	}
	if _, ok := fields["respiratory_rate"]; ok {
		t.Error("respiratory_rate is optional")
	}
}

func TestDecode_DoctorWorkingDays(t *testing.T) {
	payload := map[string]any{
		"name":           "Jean Martin",
		"phone":          "0611223344",
		"email":          "jean.martin@example.com",
		"address":        "3 avenue Foch, Paris",
		"specialization": "cardiologist",
		"license_number": "LIC-001",
		"type":           "FULL",
		"password":       "s3cretpass",
		"working_days": []any{
			map[string]any{"day": "monday", "start_time": "08:00", "close_time": "17:00"},
			map[string]any{"day": "funday", "start_time": "8h", "close_time": "17:00"},
		},
	}
	fields := fieldsOf(t, func() error { _, err := Decode(Doctor, payload); return err }())
	if _, ok := fields["working_days[1].day"]; !ok {
		t.Errorf("expected working_days[1].day error, got %v", fields)
	}
	if _, ok := fields["working_days[1].start_time"]; !ok {
		t.Errorf("expected working_days[1].start_time error, got %v", fields)
	}
	if len(fields) != 2 {
		t.Errorf("expected exactly two errors, got %v", fields)
	}
}

func TestDecode_DoctorPasswordReportedByJSONName(t *testing.T) {
	payload := map[string]any{
		"name": "Jean Martin", "phone": "0611223344", "email": "jean@example.com",
		"address": "3 avenue Foch", "specialization": "cardiologist",
		"license_number": "LIC-001", "type": "PART", "password": "short",
	}
	fields := fieldsOf(t, func() error { _, err := Decode(Doctor, payload); return err }())
	if _, ok := fields["password"]; !ok {
		t.Errorf("expected password error, got %v", fields)
	}
}

func TestDecode_StaffRole(t *testing.T) {
	payload := map[string]any{
		"name": "Claire Petit", "role": "DOCTOR", "phone": "0611223344",
		"email": "claire@example.com", "address": "5 place Bellecour", "password": "longenough",
	}
	fields := fieldsOf(t, func() error { _, err := Decode(Staff, payload); return err }())
	if _, ok := fields["role"]; !ok {
		t.Errorf("expected role error, got %v", fields)
	}
}

func TestDecode_ServicePriceMustBePositive(t *testing.T) {
	for _, price := range []any{"0", -5, "abc"} {
		payload := map[string]any{"service_name": "Radiographie", "price": price, "description": "Radio thoracique"}
		fields := fieldsOf(t, func() error { _, err := Decode(Service, payload); return err }())
		if _, ok := fields["price"]; !ok {
			t.Errorf("price %v: expected price error, got %v", price, fields)
		}
	}

	v, err := Decode(Service, map[string]any{"service_name": "Radiographie", "price": "45.50", "description": "Radio"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(*ServiceInput).Price != 45.5 {
		t.Errorf("expected price 45.5, got %v", v.(*ServiceInput).Price)
	}
}

func TestDecode_AppointmentAction(t *testing.T) {
	if _, err := Decode(AppointmentAction, map[string]any{"status": "SCHEDULED"}); err != nil {
		t.Errorf("expected status without reason to pass, got %v", err)
	}
	fields := fieldsOf(t, func() error {
		_, err := Decode(AppointmentAction, map[string]any{"status": "ARCHIVED"})
		return err
	}())
	if _, ok := fields["status"]; !ok {
		t.Errorf("expected status error, got %v", fields)
	}
}

func TestDecode_AppointmentRequiredFields(t *testing.T) {
	fields := fieldsOf(t, func() error {
		_, err := Decode(Appointment, map[string]any{"patient_id": "p1"})
		return err
	}())
	for _, f := range []string{"doctor_id", "appointment_date", "time", "type"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("expected %s error, got %v", f, fields)
		}
	}
	if _, ok := fields["note"]; ok {
		t.Error("note is optional")
	}
}

func TestDecode_InvalidDate(t *testing.T) {
	fields := fieldsOf(t, func() error {
		_, err := Decode(Appointment, map[string]any{
			"patient_id": "p1", "doctor_id": "d1", "appointment_date": "next tuesday",
			"time": "10:00", "type": "Consultation",
		})
		return err
	}())
	if _, ok := fields["appointment_date"]; !ok {
		t.Errorf("expected appointment_date error, got %v", fields)
	}
}

func TestDecode_UnknownSchema(t *testing.T) {
	_, err := Decode(Name("invoice"), map[string]any{})
	if !errors.Is(err, ErrUnknownSchema) {
		t.Fatalf("expected ErrUnknownSchema, got %v", err)
	}
	if errors.Is(err, apperr.ErrValidation) {
		t.Error("unknown schema must not be reported as a validation error")
	}
}

func TestDecode_DoesNotMutatePayload(t *testing.T) {
	payload := map[string]any{"patient_id": "p", "heartRate": "80"}
	_, _ = Decode(VitalSigns, payload)
	if _, ok := payload["heartRate"]; !ok {
		t.Error("expected caller payload to keep its original keys")
	}
}

func TestFieldPath(t *testing.T) {
	tests := map[string]string{
		"PatientInput.PatientProfile.first_name": "first_name",
		"DoctorInput.working_days[0].day":        "working_days[0].day",
		"ReviewInput.rating":                     "rating",
	}
	for in, want := range tests {
		if got := fieldPath(in); got != want {
			t.Errorf("fieldPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEchoValidator(t *testing.T) {
	v := NewEchoValidator()
	if err := v.Validate(&ReviewInput{PatientID: "p", StaffID: "s", Rating: 5, Comment: "ok"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := v.Validate(&ReviewInput{PatientID: "p", StaffID: "s", Rating: 9, Comment: "ok"}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDecode_DoctorWorkScheduleAlias(t *testing.T) {
	payload := map[string]any{
		"name": "Awa Diallo", "phone": "0611223344", "email": "awa@example.com",
		"address": "12 rue des Lilas", "specialization": "pediatrician",
		"license_number": "LIC-002", "type": "FULL", "password": "longenough",
		"work_schedule": []any{
			map[string]any{"day": "friday", "start_time": "09:00", "close_time": "13:00"},
		},
	}
	v, err := Decode(Doctor, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := v.(*DoctorInput)
	if len(d.WorkingDays) != 1 || d.WorkingDays[0].Day != "friday" {
		t.Errorf("expected work_schedule to populate working days, got %+v", d.WorkingDays)
	}
}
