package catalog

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/pkg/pagination"
	"github.com/hms/hms/pkg/result"
)

const (
	MsgServiceAdded   = "Service ajouté avec succès"
	MsgServiceDeleted = "Service supprimé avec succès"
)

type Handler struct {
	svc   *Service
	perms *auth.Permissions
}

func NewHandler(svc *Service, perms *auth.Permissions) *Handler {
	return &Handler{svc: svc, perms: perms}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/services", h.AddService, h.perms.Require(auth.ResService, auth.ActCreate))
	api.DELETE("/services/:id", h.DeleteService, h.perms.Require(auth.ResService, auth.ActDelete))

	read := h.perms.Require(auth.ResService, auth.ActRead)
	api.GET("/services", h.ListServices, read)
	api.GET("/services/:id", h.GetService, read)
}

func (h *Handler) AddService(c echo.Context) error {
	payload, err := result.Payload(c)
	if err != nil {
		return err
	}
	ms, err := h.svc.AddService(c.Request().Context(), payload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result.OK(MsgServiceAdded, ms))
}

func (h *Handler) GetService(c echo.Context) error {
	id, err := result.ParamID(c, "id")
	if err != nil {
		return err
	}
	ms, err := h.svc.GetService(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result.OK("", ms))
}

func (h *Handler) ListServices(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListServices(c.Request().Context(), c.QueryParam("search"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result.OK("", pagination.NewPage(items, total, pg)))
}

func (h *Handler) DeleteService(c echo.Context) error {
	id, err := result.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteService(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result.OK(MsgServiceDeleted, nil))
}
