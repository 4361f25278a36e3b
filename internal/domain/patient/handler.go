package patient

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/pkg/pagination"
	"github.com/hms/hms/pkg/result"
)

const (
	MsgPatientCreated = "Patient créé avec succès"
	MsgPatientUpdated = "Informations du patient mises à jour"
)

type Handler struct {
	svc   *Service
	perms *auth.Permissions
}

func NewHandler(svc *Service, perms *auth.Permissions) *Handler {
	return &Handler{svc: svc, perms: perms}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/patients", h.Register, h.perms.Require(auth.ResPatient, auth.ActCreate))
	api.PUT("/patients/:id", h.Update, h.perms.Require(auth.ResPatient, auth.ActUpdate))

	read := h.perms.Require(auth.ResPatient, auth.ActRead)
	api.GET("/patients", h.List, read)
	api.GET("/patients/:id", h.Get, read)
}

func (h *Handler) Register(c echo.Context) error {
	payload, err := result.Payload(c)
	if err != nil {
		return err
	}
	p, err := h.svc.Register(c.Request().Context(), payload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result.OK(MsgPatientCreated, p))
}

func (h *Handler) Update(c echo.Context) error {
	payload, err := result.Payload(c)
	if err != nil {
		return err
	}
	p, err := h.svc.Update(c.Request().Context(), c.Param("id"), payload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result.OK(MsgPatientUpdated, p))
}

func (h *Handler) Get(c echo.Context) error {
	p, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result.OK("", p))
}

func (h *Handler) List(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), c.QueryParam("search"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result.OK("", pagination.NewPage(items, total, pg)))
}
