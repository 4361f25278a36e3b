package review

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/pkg/result"
)

const MsgReviewCreated = "Avis ajouté avec succès"

type Handler struct {
	svc   *Service
	perms *auth.Permissions
}

func NewHandler(svc *Service, perms *auth.Permissions) *Handler {
	return &Handler{svc: svc, perms: perms}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/reviews", h.CreateReview, h.perms.Require(auth.ResReview, auth.ActCreate))
	api.GET("/staff/:id/reviews", h.ListByStaff, h.perms.Require(auth.ResReview, auth.ActRead))
	api.GET("/doctors/:id/reviews", h.ListByStaff, h.perms.Require(auth.ResReview, auth.ActRead))
}

func (h *Handler) CreateReview(c echo.Context) error {
	payload, err := result.Payload(c)
	if err != nil {
		return err
	}
	r, err := h.svc.CreateReview(c.Request().Context(), payload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result.OK(MsgReviewCreated, r))
}

func (h *Handler) ListByStaff(c echo.Context) error {
	s, err := h.svc.ListByStaff(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result.OK("", s))
}
