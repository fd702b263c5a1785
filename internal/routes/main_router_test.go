package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"solarforyou/pkg/config"
	"solarforyou/pkg/eventbus"
	"solarforyou/pkg/websocket"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

var publicRoutes = map[string]bool{
	"POST /api/login":        true,
	"POST /api/logout":       true,
	"POST /api/mobile/login": true,
	"GET /api/csrf":          true,
}

var httpMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// RouterTestSuite собирает роутер без реальных БД и Redis:
// пул pgx не нужен до первого запроса, клиент Redis подключается лениво.
type RouterTestSuite struct {
	suite.Suite
	Echo  *echo.Echo
	Redis *redis.Client
}

func (s *RouterTestSuite) SetupSuite() {
	logger := zap.NewNop()
	cfg := &config.Config{
		Server:  config.ServerConfig{BaseURL: "http://localhost:8080", CORSOrigins: []string{"http://localhost:5173"}},
		JWT:     config.JWTConfig{SecretKey: "test-secret", AccessTokenTTL: time.Hour},
		Session: config.SessionConfig{CookieName: "sessionid", TTL: time.Hour, PrivilegeCache: time.Minute},
		Storage: config.StorageConfig{UploadDir: s.T().TempDir()},
	}

	s.Echo = echo.New()
	s.Redis = redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	InitRouter(s.Echo, nil, s.Redis, websocket.NewHub(logger), eventbus.New(logger), cfg, logger)
}

func (s *RouterTestSuite) TearDownSuite() {
	s.Redis.Close()
}

func (s *RouterTestSuite) registered() map[string]bool {
	keys := make(map[string]bool)
	for _, r := range s.Echo.Routes() {
		if !httpMethods[r.Method] || !strings.HasPrefix(r.Path, "/api/") || strings.HasSuffix(r.Path, "/*") {
			continue
		}
		keys[r.Method+" "+r.Path] = true
	}
	return keys
}

func (s *RouterTestSuite) TestEverySecureRouteHasPolicy() {
	policy := Policy()
	for key := range s.registered() {
		if publicRoutes[key] {
			continue
		}
		method, path, _ := strings.Cut(key, " ")
		_, ok := policy.Lookup(method, path)
		s.True(ok, "маршрут без привилегии: %s", key)
	}
}

func (s *RouterTestSuite) TestPolicyHasNoStaleEntries() {
	registered := s.registered()
	for key := range Policy() {
		s.True(registered[key], "привилегия для несуществующего маршрута: %s", key)
	}
}

func (s *RouterTestSuite) TestPolicyRequirements() {
	policy := Policy()
	cases := []struct {
		method, path, want string
	}{
		{http.MethodGet, "/api/export-requisitions", "export_data"},
		{http.MethodPatch, "/api/projects/:id", "manage_projects"},
		{http.MethodPost, "/api/project-activities-config/import", "manage_projects"},
		{http.MethodDelete, "/api/employee-tags/:id", "manage_employees"},
		{http.MethodPost, "/api/assign-employee-to-quarter", "manage_quarters"},
		{http.MethodPost, "/api/transport-requests/:id/change-status", "manage_transport"},
		{http.MethodGet, "/api/users/me", ""},
		{http.MethodPatch, "/api/user-settings/me", ""},
		{http.MethodGet, "/api/available-employees", ""},
	}
	for _, tc := range cases {
		got, ok := policy.Lookup(tc.method, tc.path)
		s.True(ok, tc.path)
		s.Equal(tc.want, got, "%s %s", tc.method, tc.path)
	}
}

func (s *RouterTestSuite) TestSecureRouteWithoutCredentials() {
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RouterTestSuite) TestCSRFIsPublic() {
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/csrf", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "CSRF cookie set")
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}
