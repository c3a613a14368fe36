package handlers

import (
	"log/slog"
	"net/http"

	"github.com/geocoder89/taskhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// Errors go out as a plain human-readable message; validation
// failures additionally carry the field violations under details.
func RespondError(ctx *gin.Context, status int, message string, details interface{}) {
	body := gin.H{"message": message}

	if details != nil {
		body["details"] = details
	}

	ctx.JSON(status, body)
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, message, details)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message, nil)
}

func RespondUnauthorized(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusUnauthorized, message, nil)
}

// RespondInternal logs the underlying error and surfaces a generic
// message only; internal detail never reaches the caller.
func RespondInternal(ctx *gin.Context, err error) {
	reqID, _ := ctx.Get(middlewares.CtxRequestID)

	slog.Default().ErrorContext(ctx.Request.Context(), "internal_error",
		"err", err,
		"request_id", reqID,
	)

	RespondError(ctx, http.StatusInternalServerError, "Something went wrong!", nil)
}
