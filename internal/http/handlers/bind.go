package handlers

import (
	"errors"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// BindJSON decodes and validates the request body, answering 400 with
// the violation list on failure. Returns false once the response is
// written so handlers can bail with a bare return.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err == nil {
		return true
	}

	if errors.Is(err, io.EOF) {
		RespondBadRequest(ctx, "Request body is required.", nil)
		return false
	}

	var validatorErrs validator.ValidationErrors

	if errors.As(err, &validatorErrs) {
		RespondBadRequest(ctx, "Invalid request body", gin.H{"fields": ViolationsFrom(validatorErrs)})
		return false
	}

	RespondBadRequest(ctx, "Invalid request body", gin.H{"reason": err.Error()})
	return false
}

// ViolationsFrom flattens validator errors into the wire shape.
func ViolationsFrom(errs validator.ValidationErrors) []FieldError {
	fields := make([]FieldError, 0, len(errs))

	for _, fe := range errs {
		rule := fe.Tag()
		param := fe.Param()

		fields = append(fields, FieldError{
			Field:   lowerFirst(fe.Field()),
			Rule:    rule,
			Param:   param,
			Message: validationMessage(rule, param),
		})
	}

	return fields
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	case "uuid":
		return "must be a valid id"
	default:
		if param != "" {
			return "failed " + rule + " validation (" + param + ")"
		}
		return "failed " + rule + " validation"
	}
}
