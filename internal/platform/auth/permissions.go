package auth

import (
	"fmt"
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/apperr"
)

// Resources and actions checked by route guards.
const (
	ResAppointment = "appointment"
	ResClinical    = "clinical"
	ResStaff       = "staff"
	ResPatient     = "patient"
	ResService     = "service"
	ResReview      = "review"
	ResAdmin       = "admin"

	ActRead       = "read"
	ActCreate     = "create"
	ActUpdate     = "update"
	ActDelete     = "delete"
	ActWrite      = "write"
	ActTransition = "transition"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && (p.obj == "*" || r.obj == p.obj) && (p.act == "*" || r.act == p.act)
`

// capabilities is the role → permission table.
var capabilities = [][]string{
	{string(RoleAdmin), "*", "*"},

	// every member of the care team
	{"care_team", ResAppointment, ActRead},
	{"care_team", ResAppointment, ActTransition},
	{"care_team", ResClinical, ActRead},
	{"care_team", ResClinical, ActWrite},
	{"care_team", ResPatient, ActRead},
	{"care_team", ResStaff, ActRead},
	{"care_team", ResService, ActRead},
	{"care_team", ResReview, ActRead},

	{string(RoleNurse), ResAppointment, ActCreate},
	{string(RoleNurse), ResPatient, ActCreate},
	{string(RoleNurse), ResPatient, ActUpdate},

	{string(RolePatient), ResAppointment, ActCreate},
	{string(RolePatient), ResAppointment, ActRead},
	{string(RolePatient), ResClinical, ActRead},
	{string(RolePatient), ResPatient, ActCreate},
	{string(RolePatient), ResPatient, ActRead},
	{string(RolePatient), ResPatient, ActUpdate},
	{string(RolePatient), ResStaff, ActRead},
	{string(RolePatient), ResService, ActRead},
	{string(RolePatient), ResReview, ActCreate},
	{string(RolePatient), ResReview, ActRead},

	{string(RoleCashier), ResAppointment, ActRead},
	{string(RoleCashier), ResPatient, ActRead},
	{string(RoleCashier), ResService, ActRead},
	{string(RoleCashier), ResService, ActCreate},
	{string(RoleCashier), ResStaff, ActRead},
}

var inheritance = [][]string{
	{string(RoleDoctor), "care_team"},
	{string(RoleNurse), "care_team"},
	{string(RoleLabTechnician), "care_team"},
}

// Permissions answers whether a set of roles may perform an action on a
// resource, backed by a casbin enforcer loaded with the capability table.
type Permissions struct {
	enforcer *casbin.Enforcer
}

func NewPermissions() (*Permissions, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("parse rbac model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}
	if _, err := e.AddPolicies(capabilities); err != nil {
		return nil, fmt.Errorf("load capabilities: %w", err)
	}
	if _, err := e.AddGroupingPolicies(inheritance); err != nil {
		return nil, fmt.Errorf("load role inheritance: %w", err)
	}
	return &Permissions{enforcer: e}, nil
}

// Allowed reports whether any of roles grants action on resource.
func (p *Permissions) Allowed(roles []Role, resource, action string) bool {
	for _, r := range roles {
		ok, err := p.enforcer.Enforce(string(r), resource, action)
		if err == nil && ok {
			return true
		}
	}
	return false
}

// Require returns route middleware rejecting actors whose roles do not grant
// action on resource. Unauthenticated requests get 401.
func (p *Permissions) Require(resource, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			if UserIDFromContext(ctx) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Non autorisé")
			}
			if !p.Allowed(RolesFromContext(ctx), resource, action) {
				return apperr.Unauthorized(fmt.Sprintf("%s:%s not permitted", resource, action))
			}
			return next(c)
		}
	}
}
