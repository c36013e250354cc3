package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/placementcrm/internal/app/models"
	"github.com/yigit/placementcrm/internal/app/models/dto"
	"github.com/yigit/placementcrm/internal/pkg/apperrors"
	"github.com/yigit/placementcrm/internal/pkg/auth"
	"github.com/yigit/placementcrm/internal/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   dto.ErrorCode
	}{
		{apperrors.NewInvalidArgumentError("department name is required"), http.StatusBadRequest, dto.ErrorCodeInvalidArgument},
		{fmt.Errorf("%w: scan failed", apperrors.ErrStorageUnavailable), http.StatusServiceUnavailable, dto.ErrorCodeStorageUnavailable},
		{fmt.Errorf("allocating student code: %w", fmt.Errorf("%w: failed to begin transaction: %w", apperrors.ErrStorageUnavailable, fmt.Errorf("connection refused"))), http.StatusServiceUnavailable, dto.ErrorCodeStorageUnavailable},
		{fmt.Errorf("allocating: %w", apperrors.ErrUniquenessViolation), http.StatusConflict, dto.ErrorCodeIdentifierCollision},
		{apperrors.ErrInvoiceAlreadyPaid, http.StatusConflict, dto.ErrorCodeConflict},
		{apperrors.ErrCourseHasStudents, http.StatusConflict, dto.ErrorCodeConflict},
		{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrJobNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
		{fmt.Errorf("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			HandleAPIError(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			resp := decodeError(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.code, resp.Error.Code)
		})
	}
}

func TestHandleAPIErrorUsesCustomMessage(t *testing.T) {
	_, detail := errorResponse(apperrors.NewValidationError("amount must be greater than zero"))
	assert.Equal(t, "amount must be greater than zero", detail.Details)
}

func TestErrorResponseSeverity(t *testing.T) {
	_, detail := errorResponse(fmt.Errorf("%w: scan failed", apperrors.ErrStorageUnavailable))
	assert.Equal(t, dto.ErrorSeverityCritical, detail.Severity)

	_, detail = errorResponse(apperrors.ErrUniquenessViolation)
	assert.Equal(t, dto.ErrorSeverityWarning, detail.Severity)

	_, detail = errorResponse(apperrors.ErrStudentNotFound)
	assert.Equal(t, dto.ErrorSeverityInfo, detail.Severity)

	_, detail = errorResponse(apperrors.NewInvalidArgumentError("department name is required"))
	assert.Equal(t, dto.ErrorSeverityError, detail.Severity)
}

func TestErrorResponseUnmappedPostgresError(t *testing.T) {
	status, detail := errorResponse(fmt.Errorf("error listing jobs: %w", &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, dto.ErrorCodeDatabaseError, detail.Code)
	assert.Empty(t, detail.DebugInfo)
}

func TestErrorResponseDebugInfoOnlyInDebugMode(t *testing.T) {
	gin.SetMode(gin.DebugMode)
	defer gin.SetMode(gin.TestMode)

	_, detail := errorResponse(fmt.Errorf("boom"))
	assert.Equal(t, "boom", detail.DebugInfo)

	_, detail = errorResponse(apperrors.ErrJobNotFound)
	assert.Empty(t, detail.DebugInfo)
}

func newAuthRouter(t *testing.T, roles ...models.RoleType) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "middleware-secret",
		AccessTokenExp:  time.Minute,
		RefreshTokenExp: time.Hour,
		TokenIssuer:     "test",
	})
	m := NewAuthMiddleware(jwtService)

	router := gin.New()
	router.GET("/secure", m.JWTAuth(), m.RoleRequired(roles...), func(c *gin.Context) {
		id, ok := EmployeeID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"employeeId": id})
	})
	return router, jwtService
}

func tokenFor(t *testing.T, s *auth.JWTService, role models.RoleType) string {
	t.Helper()
	access, _, _, _, err := s.GenerateTokenPair(&models.Employee{ID: 42, Email: "e@example.com", Role: role})
	require.NoError(t, err)
	return access
}

func TestJWTAuthAndRoles(t *testing.T) {
	router, jwtService := newAuthRouter(t, models.RoleAdmin, models.RoleCounselor)

	do := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/secure", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, do("").Code)
	assert.Equal(t, http.StatusUnauthorized, do("Bearer not-a-token").Code)
	assert.Equal(t, http.StatusUnauthorized, do("Basic abc").Code)

	w := do("Bearer " + tokenFor(t, jwtService, models.RoleCounselor))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"employeeId":42}`, w.Body.String())

	assert.Equal(t, http.StatusOK, do(tokenFor(t, jwtService, models.RoleAdmin)).Code)

	w = do("Bearer " + tokenFor(t, jwtService, models.RoleTrainer))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, dto.ErrorCodeForbidden, decodeError(t, w).Error.Code)
}

func TestBindJSONReportsFields(t *testing.T) {
	router := gin.New()
	router.POST("/invoices", func(c *gin.Context) {
		var req dto.CreateInvoiceRequest
		if !BindJSON(c, &req) {
			return
		}
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/invoices",
		strings.NewReader(`{"amount":-5,"description":"Term 1","dueDate":"30/04/2024"}`)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, dto.ErrorCodeValidationFailed, resp.Error.Code)
	assert.Contains(t, w.Body.String(), "Amount must be greater than 0")
	assert.Contains(t, w.Body.String(), "DueDate must be a date formatted as YYYY-MM-DD")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/invoices",
		strings.NewReader(`{"amount":10,"description":"Term 1","dueDate":"2024-04-30"}`)))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestRequestLoggerCountsRoutes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)
	router := gin.New()
	router.Use(RequestLogger(m))
	router.GET("/students/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/students/1", "/students/2", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
# HELP placementcrm_http_requests_total HTTP requests by method, route and status.
# TYPE placementcrm_http_requests_total counter
placementcrm_http_requests_total{method="GET",route="/students/:id",status="200"} 2
placementcrm_http_requests_total{method="GET",route="unmatched",status="404"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "placementcrm_http_requests_total"))
}
