package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/placementcrm/internal/app/models/dto"
	"github.com/yigit/placementcrm/internal/pkg/apperrors"
	"github.com/yigit/placementcrm/internal/pkg/dberrors"
	"github.com/yigit/placementcrm/internal/pkg/logger"
)

type errorMapping struct {
	targets []error
	status  int
	code    dto.ErrorCode
	message string
}

// Checked in order; the first mapping with a matching target wins.
var errorMappings = []errorMapping{
	{[]error{apperrors.ErrInvalidArgument}, http.StatusBadRequest, dto.ErrorCodeInvalidArgument, "Invalid argument"},
	{[]error{apperrors.ErrValidationFailed}, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{[]error{apperrors.ErrBadRequest}, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"},
	{[]error{apperrors.ErrStorageUnavailable}, http.StatusServiceUnavailable, dto.ErrorCodeStorageUnavailable, "Identifier storage unavailable"},
	{[]error{apperrors.ErrUniquenessViolation}, http.StatusConflict, dto.ErrorCodeIdentifierCollision, "Could not allocate a unique code, please retry"},
	{[]error{apperrors.ErrEmailAlreadyExists}, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
	{[]error{apperrors.ErrCourseAlreadyExists, apperrors.ErrResourceAlreadyExists}, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{[]error{apperrors.ErrInvoiceAlreadyPaid, apperrors.ErrCourseHasStudents, apperrors.ErrConflict}, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},
	{[]error{
		apperrors.ErrStudentNotFound, apperrors.ErrJobNotFound, apperrors.ErrCourseNotFound,
		apperrors.ErrInvoiceNotFound, apperrors.ErrEmployeeNotFound, apperrors.ErrResourceNotFound,
	}, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{[]error{apperrors.ErrInvalidCredentials}, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{[]error{apperrors.ErrAccountDisabled}, http.StatusUnauthorized, dto.ErrorCodeAccountDisabled, "Account is disabled"},
	{[]error{apperrors.ErrTokenExpired}, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{[]error{apperrors.ErrTokenNotFound}, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found"},
	{[]error{apperrors.ErrTokenInvalid, apperrors.ErrTokenRevoked}, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{[]error{apperrors.ErrPermissionDenied}, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
}

// HandleAPIError writes the error response matching err and aborts the request
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorResponse(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Int("status", status).Msg("Request failed")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func errorResponse(err error) (int, *dto.ErrorDetail) {
	status, detail := matchError(err)
	detail = detail.WithSeverity(severityFor(status))
	if status >= http.StatusInternalServerError && gin.Mode() == gin.DebugMode {
		detail = detail.WithDebugInfo("%v", err)
	}
	return status, detail
}

func matchError(err error) (int, *dto.ErrorDetail) {
	for _, m := range errorMappings {
		if !apperrors.Is(err, m.targets[0], m.targets[1:]...) {
			continue
		}
		detail := dto.NewErrorDetail(m.code, m.message)
		if msg := customMessage(err); msg != "" {
			detail = detail.WithDetails(msg)
		} else if m.status != http.StatusServiceUnavailable {
			detail = detail.WithDetails(err.Error())
		}
		return m.status, detail
	}
	if dberrors.IsPostgresError(err) {
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database error")
	}
	return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
}

// severityFor grades a response: server faults are critical, a lost code race is retryable.
func severityFor(status int) dto.ErrorSeverity {
	switch {
	case status >= http.StatusInternalServerError:
		return dto.ErrorSeverityCritical
	case status == http.StatusConflict:
		return dto.ErrorSeverityWarning
	case status == http.StatusNotFound:
		return dto.ErrorSeverityInfo
	default:
		return dto.ErrorSeverityError
	}
}

func customMessage(err error) string {
	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		return custom.Message
	}
	return ""
}
