package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"spv_captable_back/models"
	"spv_captable_back/pkg/middleware"
	"spv_captable_back/pkg/service"
)

type Error struct {
	Message string `json:"message"`
}

func newErrorResponse(c *gin.Context, statusCode int, message string) {
	logrus.Error(message)
	c.AbortWithStatusJSON(statusCode, Error{Message: message})
}

// serviceErrorResponse maps the error taxonomy to HTTP statuses. Ledger
// inconsistencies are logged loudly: they mean the serialization lock failed
// to prevent an oversell attempt.
func serviceErrorResponse(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	var conflictErr *models.StateConflictError
	var permissionErr *models.PermissionError
	var notFoundErr *models.NotFoundError
	var ledgerErr *models.LedgerInconsistencyError
	var externalErr *models.ExternalServiceError

	switch {
	case errors.As(err, &validationErr):
		newErrorResponse(c, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &conflictErr):
		newErrorResponse(c, http.StatusConflict, conflictErr.Message)
	case errors.As(err, &permissionErr):
		newErrorResponse(c, http.StatusForbidden, permissionErr.Message)
	case errors.As(err, &notFoundErr):
		newErrorResponse(c, http.StatusNotFound, notFoundErr.Message)
	case errors.As(err, &ledgerErr):
		logrus.Errorf("LEDGER INCONSISTENCY: %s", ledgerErr.Message)
		newErrorResponse(c, http.StatusConflict, ledgerErr.Message)
	case errors.As(err, &externalErr):
		newErrorResponse(c, http.StatusBadGateway, externalErr.Error())
	default:
		newErrorResponse(c, http.StatusInternalServerError, "something went wrong")
	}
}

func wrapOkJSON(c *gin.Context, response map[string]interface{}) {
	c.JSON(http.StatusOK, response)
}

func requestMeta(c *gin.Context) service.RequestMeta {
	return service.RequestMeta{
		ActorID:   c.GetInt64(middleware.ActorKey),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
