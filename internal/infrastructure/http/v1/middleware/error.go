package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gims/internal/core/apperror"
	appctx "gims/internal/core/context"
	"gims/internal/infrastructure/http/v1/dto"
	"gims/pkg/logger"
)

// ErrorHandler is the single place errors become JSON. Handlers attach
// errors with c.Error; the body shape is {error, message, details?}
// where error carries the machine code. Raw database errors are never
// leaked to the caller.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		// A handler may have streamed a file or written its own body.
		if c.Writer.Written() {
			return
		}

		if appErr, ok := apperror.AsAppError(err); ok {
			if appErr.Err != nil {
				logger.Error(c.Request.Context(), "request failed",
					"error", appErr.Code,
					"cause", appErr.Err,
				)
			}

			c.JSON(appErr.HTTPStatus, dto.ErrorResponse{
				Error:   appErr.Code,
				Message: appErr.Message,
				Details: appErr.Details,
			})
			return
		}

		logger.Error(c.Request.Context(), "unhandled error", "error", err)

		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   apperror.CodeInternal,
			Message: "internal server error",
			Details: map[string]any{
				"requestId": appctx.GetRequestID(c.Request.Context()),
			},
		})
	}
}
