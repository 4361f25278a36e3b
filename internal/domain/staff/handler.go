package staff

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/pkg/pagination"
	"github.com/hms/hms/pkg/result"
)

const (
	MsgDoctorCreated = "Médecin ajouté avec succès"
	MsgStaffCreated  = "Membre du staff ajouté avec succès"
)

type Handler struct {
	svc   *Service
	perms *auth.Permissions
}

func NewHandler(svc *Service, perms *auth.Permissions) *Handler {
	return &Handler{svc: svc, perms: perms}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	create := h.perms.Require(auth.ResStaff, auth.ActCreate)
	api.POST("/doctors", h.CreateDoctor, create)
	api.POST("/staff", h.CreateStaff, create)

	read := h.perms.Require(auth.ResStaff, auth.ActRead)
	api.GET("/doctors", h.ListDoctors, read)
	api.GET("/doctors/:id", h.GetDoctor, read)
	api.GET("/staff", h.ListStaff, read)
	api.GET("/staff/:id", h.GetStaff, read)
}

func (h *Handler) CreateDoctor(c echo.Context) error {
	payload, err := result.Payload(c)
	if err != nil {
		return err
	}
	d, err := h.svc.CreateDoctor(c.Request().Context(), payload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result.OK(MsgDoctorCreated, d))
}

func (h *Handler) CreateStaff(c echo.Context) error {
	payload, err := result.Payload(c)
	if err != nil {
		return err
	}
	m, err := h.svc.CreateStaff(c.Request().Context(), payload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, result.OK(MsgStaffCreated, m))
}

func (h *Handler) GetDoctor(c echo.Context) error {
	d, err := h.svc.GetDoctor(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result.OK("", d))
}

// ListDoctors supports ?search= on name, specialization and department.
func (h *Handler) ListDoctors(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListDoctors(c.Request().Context(), c.QueryParam("search"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result.OK("", pagination.NewPage(items, total, pg)))
}

func (h *Handler) GetStaff(c echo.Context) error {
	m, err := h.svc.GetStaff(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result.OK("", m))
}

func (h *Handler) ListStaff(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListStaff(c.Request().Context(), c.QueryParam("role"), c.QueryParam("search"), pg.Limit, pg.Offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result.OK("", pagination.NewPage(items, total, pg)))
}
