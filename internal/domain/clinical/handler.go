package clinical

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/pkg/pagination"
	"github.com/hms/hms/pkg/result"
)

const (
	MsgVitalSignsAdded = "Signes vitaux ajoutés avec succès"
	MsgDiagnosisAdded  = "Diagnostic ajouté avec succès"
)

type Handler struct {
	svc   *Service
	perms *auth.Permissions
}

func NewHandler(svc *Service, perms *auth.Permissions) *Handler {
	return &Handler{svc: svc, perms: perms}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	write := h.perms.Require(auth.ResClinical, auth.ActWrite)
	api.POST("/appointments/:id/vital-signs", h.RecordVitalSigns, write)
	api.POST("/appointments/:id/diagnoses", h.AddDiagnosis, write)

	read := h.perms.Require(auth.ResClinical, auth.ActRead)
	api.GET("/appointments/:id/medical-records", h.ListAppointmentRecords, read)
	api.GET("/medical-records/:id", h.GetRecord, read)
	api.GET("/patients/:id/medical-records", h.ListPatientRecords, read)
}

// RecordVitalSigns reads the attending doctor from the payload's doctor_id,
// falling back to the appointment's doctor.
func (h *Handler) RecordVitalSigns(c echo.Context) error {
	appointmentID, err := result.ParamID(c, "id")
	if err != nil {
		return err
	}
	payload, err := result.Payload(c)
	if err != nil {
		return err
	}
	doctorID, _ := payload["doctor_id"].(string)

	v, err := h.svc.RecordVitalSigns(c.Request().Context(), payload, appointmentID, doctorID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result.OK(MsgVitalSignsAdded, v))
}

func (h *Handler) AddDiagnosis(c echo.Context) error {
	appointmentID, err := result.ParamID(c, "id")
	if err != nil {
		return err
	}
	payload, err := result.Payload(c)
	if err != nil {
		return err
	}
	d, err := h.svc.AddDiagnosis(c.Request().Context(), payload, appointmentID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result.OK(MsgDiagnosisAdded, d))
}

func (h *Handler) GetRecord(c echo.Context) error {
	id, err := result.ParamID(c, "id")
	if err != nil {
		return err
	}
	rec, err := h.svc.GetRecord(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result.OK("", rec))
}

func (h *Handler) ListAppointmentRecords(c echo.Context) error {
	id, err := result.ParamID(c, "id")
	if err != nil {
		return err
	}
	items, err := h.svc.ListRecordsByAppointment(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result.OK("", items))
}

func (h *Handler) ListPatientRecords(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListRecordsByPatient(c.Request().Context(), c.Param("id"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result.OK("", pagination.NewPage(items, total, pg)))
}
