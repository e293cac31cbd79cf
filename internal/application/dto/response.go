package dto

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/adminauth/pkg/errors"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// SendError writes err as JSON with its mapped status. Only the AppError message is exposed;
// causes stay in the operator log. Errors that are not AppErrors render as a generic 500.
func SendError(c *gin.Context, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.ErrInternalServer
	}

	if appErr.Code == errors.CodeRateLimitExceeded {
		if secs, ok := appErr.Metadata[errors.MetadataRetryAfter].(int64); ok && secs > 0 {
			c.Header("Retry-After", strconv.FormatInt(secs, 10))
		}
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: appErr.Message, Code: string(appErr.Code)})
}

// SendSuccess writes data as a 200 JSON response.
func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

//Personal.AI order the ending
