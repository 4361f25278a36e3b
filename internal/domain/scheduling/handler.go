package scheduling

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/validation"
	"github.com/hms/hms/pkg/pagination"
	"github.com/hms/hms/pkg/result"
)

const MsgAppointmentCreated = "Rendez-vous pris avec succès"

type Handler struct {
	svc   *Service
	perms *auth.Permissions
}

func NewHandler(svc *Service, perms *auth.Permissions) *Handler {
	return &Handler{svc: svc, perms: perms}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := h.perms.Require(auth.ResAppointment, auth.ActRead)
	api.GET("/appointments", h.ListAppointments, read)
	api.GET("/appointments/:id", h.GetAppointment, read)
	api.GET("/patients/:id/appointments", h.ListPatientAppointments, read)
	api.GET("/doctors/:id/appointments", h.ListDoctorAppointments, read)

	api.POST("/appointments", h.CreateAppointment, h.perms.Require(auth.ResAppointment, auth.ActCreate))
	api.POST("/appointments/:id/status", h.TransitionAppointment, h.perms.Require(auth.ResAppointment, auth.ActTransition))
}

func (h *Handler) CreateAppointment(c echo.Context) error {
	payload, err := result.Payload(c)
	if err != nil {
		return err
	}
	a, err := h.svc.CreateAppointment(c.Request().Context(), payload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result.OK(MsgAppointmentCreated, a))
}

func (h *Handler) TransitionAppointment(c echo.Context) error {
	id, err := result.ParamID(c, "id")
	if err != nil {
		return err
	}
	payload, err := result.Payload(c)
	if err != nil {
		return err
	}
	v, err := validation.Decode(validation.AppointmentAction, payload)
	if err != nil {
		return err
	}
	in := v.(*validation.AppointmentActionInput)

	a, err := h.svc.TransitionAppointment(c.Request().Context(), id, in.Status, in.Reason)
	if err != nil {
		return err
	}
	msg := fmt.Sprintf("Rendez-vous %s avec succès", strings.ToLower(string(a.Status)))
	return c.JSON(http.StatusOK, result.OK(msg, a))
}

func (h *Handler) GetAppointment(c echo.Context) error {
	id, err := result.ParamID(c, "id")
	if err != nil {
		return err
	}
	a, err := h.svc.GetAppointment(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result.OK("", a))
}

func (h *Handler) ListAppointments(c echo.Context) error {
	pg := pagination.FromContext(c)
	params := map[string]string{}
	for _, k := range []string{"patient_id", "doctor_id", "status", "date", "from", "to", "type"} {
		if v := c.QueryParam(k); v != "" {
			params[k] = v
		}
	}
	items, total, err := h.svc.SearchAppointments(c.Request().Context(), params, pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result.OK("", pagination.NewPage(items, total, pg)))
}

func (h *Handler) ListPatientAppointments(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListAppointmentsByPatient(c.Request().Context(), c.Param("id"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result.OK("", pagination.NewPage(items, total, pg)))
}

func (h *Handler) ListDoctorAppointments(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListAppointmentsByDoctor(c.Request().Context(), c.Param("id"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result.OK("", pagination.NewPage(items, total, pg)))
}
