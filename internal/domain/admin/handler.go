package admin

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/pkg/result"
)

const MsgDeleted = "Enregistrement supprimé avec succès"

type Handler struct {
	svc   *Service
	perms *auth.Permissions
}

func NewHandler(svc *Service, perms *auth.Permissions) *Handler {
	return &Handler{svc: svc, perms: perms}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.DELETE("/admin/:type/:id", h.Delete, h.perms.Require(auth.ResAdmin, auth.ActDelete))
}

func (h *Handler) Delete(c echo.Context) error {
	if err := h.svc.DeleteByID(c.Request().Context(), c.Param("type"), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result.OK(MsgDeleted, nil))
}
