package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/placementcrm/internal/app/controllers"
	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/app/models/dto"
	"github.com/yigit/placementcrm/internal/middleware"
	"github.com/yigit/placementcrm/internal/pkg/auth"
)

type codesOnlyCatalog struct{}

func (codesOnlyCatalog) CreateCourse(context.Context, *dto.CourseRequest) (*models.Course, error) {
	return nil, nil
}
func (codesOnlyCatalog) GetCourse(context.Context, int64) (*models.Course, error) { return nil, nil }
func (codesOnlyCatalog) ListCourses(context.Context, int, int) (*dto.CourseListResponse, error) {
	return nil, nil
}
func (codesOnlyCatalog) UpdateCourse(context.Context, int64, *dto.CourseRequest) (*models.Course, error) {
	return nil, nil
}
func (codesOnlyCatalog) DeleteCourse(context.Context, int64) error { return nil }
func (codesOnlyCatalog) CodeTables() *dto.CodeTablesResponse {
	return &dto.CodeTablesResponse{Branches: map[string]string{"tambaram": "TM"}}
}

func newRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "routes-secret",
		AccessTokenExp:  time.Minute,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "test",
	})

	lgr := zerolog.Nop()
	router := gin.New()
	SetupRouter(router, Controllers{
		Auth:       controllers.NewAuthController(nil, lgr),
		Student:    controllers.NewStudentController(nil, lgr),
		Job:        controllers.NewJobController(nil, lgr),
		Catalog:    controllers.NewCatalogController(codesOnlyCatalog{}, lgr),
		Invoice:    controllers.NewInvoiceController(nil, lgr),
		Attendance: controllers.NewAttendanceController(nil, lgr),
	}, middleware.NewAuthMiddleware(jwtService))
	return router, jwtService
}

func call(t *testing.T, router *gin.Engine, s *auth.JWTService, role models.RoleType, method, path string) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if role != "" {
		token, _, _, _, err := s.GenerateTokenPair(&models.Employee{ID: 5, Email: "staff@example.com", Role: role})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestHealthIsPublic(t *testing.T) {
	router, s := newRouter(t)
	assert.Equal(t, http.StatusOK, call(t, router, s, "", http.MethodGet, "/api/v1/health"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, s := newRouter(t)
	for _, path := range []string{"/api/v1/students", "/api/v1/jobs", "/api/v1/catalog/codes", "/api/v1/auth/profile"} {
		assert.Equal(t, http.StatusUnauthorized, call(t, router, s, "", http.MethodGet, path), path)
	}
}

func TestRoleGates(t *testing.T) {
	router, s := newRouter(t)

	cases := []struct {
		role   models.RoleType
		method string
		path   string
	}{
		{models.RoleTrainer, http.MethodPost, "/api/v1/students"},
		{models.RoleTrainer, http.MethodGet, "/api/v1/jobs/next-code"},
		{models.RoleTrainer, http.MethodPost, "/api/v1/invoices/1/pay"},
		{models.RoleCounselor, http.MethodPost, "/api/v1/employees"},
		{models.RoleCounselor, http.MethodPost, "/api/v1/courses"},
		{models.RoleCounselor, http.MethodDelete, "/api/v1/students/1"},
	}

	for _, tc := range cases {
		assert.Equal(t, http.StatusForbidden, call(t, router, s, tc.role, tc.method, tc.path), "%s %s as %s", tc.method, tc.path, tc.role)
	}
}

func TestCatalogCodesReadableByEveryRole(t *testing.T) {
	router, s := newRouter(t)
	for _, role := range []models.RoleType{models.RoleAdmin, models.RoleCounselor, models.RoleTrainer} {
		assert.Equal(t, http.StatusOK, call(t, router, s, role, http.MethodGet, "/api/v1/catalog/codes"), role)
	}
}
