package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"solarforyou/internal/authz"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestServer(actor *authz.Actor) *echo.Echo {
	e := echo.New()
	policy := authz.RoutePolicy{}
	policy.Allow(authz.ManageProjects, "/api/projects/:id", http.MethodGet, http.MethodPatch)
	policy.Allow("", "/api/users/me", http.MethodGet)

	withActor := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if actor != nil {
				c.SetRequest(c.Request().WithContext(authz.WithActor(c.Request().Context(), actor)))
			}
			return next(c)
		}
	}

	g := e.Group("/api", withActor, Authorize(policy, authz.NewGatekeeper(), zap.NewNop()))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	g.GET("/projects/:id", ok)
	g.PATCH("/projects/:id", ok)
	g.DELETE("/projects/:id", ok)
	g.GET("/users/me", ok)
	return e
}

func do(e *echo.Echo, method, target string) int {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec.Code
}

func TestAuthorize(t *testing.T) {
	manager := &authz.Actor{UserID: 2, HasProfile: true, Privileges: authz.ParsePrivileges("manage_projects")}
	plain := &authz.Actor{UserID: 3, HasProfile: true, Privileges: authz.ParsePrivileges("manage_clients")}
	noProfile := &authz.Actor{UserID: 4}
	staff := &authz.Actor{UserID: 1, IsStaff: true}

	tests := []struct {
		name   string
		actor  *authz.Actor
		method string
		target string
		want   int
	}{
		{"привилегия есть", manager, http.MethodGet, "/api/projects/5", http.StatusNoContent},
		{"привилегии нет", plain, http.MethodPatch, "/api/projects/5", http.StatusForbidden},
		{"без профиля на открытом маршруте", noProfile, http.MethodGet, "/api/users/me", http.StatusNoContent},
		{"без профиля на закрытом маршруте", noProfile, http.MethodGet, "/api/projects/5", http.StatusForbidden},
		{"маршрут вне таблицы закрыт даже для staff", staff, http.MethodDelete, "/api/projects/5", http.StatusForbidden},
		{"staff проходит", staff, http.MethodPatch, "/api/projects/5", http.StatusNoContent},
		{"без актора", nil, http.MethodGet, "/api/users/me", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, do(newTestServer(tt.actor), tt.method, tt.target))
		})
	}
}
