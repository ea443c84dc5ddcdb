package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"rayverse/apperror"
	"rayverse/config"
	"rayverse/models"
)

// ErrorHandler is the single funnel for handler errors. Handlers report
// failures with c.Error and return; this middleware normalizes whatever
// accumulated into one client-facing envelope. Recognized library errors
// become 4xx operational errors, everything else is logged server-side and
// surfaces as a generic 500.
//
// The response body depends on the deploy mode: development includes the
// underlying error and a stack, production is message and status only.
func ErrorHandler(mode string, logger *log.Logger) gin.HandlerFunc {
	verbose := mode == config.ModeDevelopment

	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		appErr := Normalize(err)

		if appErr.Code >= http.StatusInternalServerError {
			logger.Printf("ERROR: %v", err)
		}

		body := gin.H{
			"status":  appErr.Status(),
			"message": appErr.Message,
		}
		if verbose {
			body["error"] = err.Error()
			body["stack"] = string(debug.Stack())
		}
		c.JSON(appErr.Code, body)
	}
}

// Normalize maps an arbitrary error onto the operational taxonomy.
func Normalize(err error) *apperror.Error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	if mongo.IsDuplicateKeyError(err) {
		return apperror.BadRequest("Duplicate field value. Please use another value.")
	}
	if errors.Is(err, primitive.ErrInvalidHex) {
		return apperror.BadRequest("Invalid identifier format.")
	}
	if errors.Is(err, models.ErrValidation) {
		return apperror.BadRequest(fmt.Sprintf("Invalid input data: %s", err.Error()))
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return apperror.BadRequest(fmt.Sprintf("Invalid input data: %s", validationErrs.Error()))
	}
	// Body decoding failures out of ShouldBindJSON are client input errors.
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) ||
		errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return apperror.BadRequest("Malformed JSON in request body.")
	}

	return apperror.Internal("Something went wrong O.O")
}
