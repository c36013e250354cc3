// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/placementcrm/internal/app/models/dto"
	"github.com/yigit/placementcrm/internal/middleware"
)

// parseIDParam parses a positive ID path parameter, writing a 400 response when it is malformed
func parseIDParam(ctx *gin.Context, paramName, label string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(paramName), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+label+" ID")
		errorDetail = errorDetail.WithField(paramName).WithDetails(label + " ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// currentEmployeeID reads the authenticated employee, writing a 401 response when it is missing
func currentEmployeeID(ctx *gin.Context) (int64, bool) {
	id, ok := middleware.EmployeeID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}
