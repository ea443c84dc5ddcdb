package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"rayverse/apperror"
	"rayverse/config"
	"rayverse/models"
)

func TestNormalizeOperationalError(t *testing.T) {
	appErr := apperror.NotFound("missing")
	got := Normalize(fmt.Errorf("wrapped: %w", appErr))

	assert.Equal(t, http.StatusNotFound, got.Code)
	assert.Equal(t, "missing", got.Message)
	assert.Equal(t, "fail", got.Status())
}

func TestNormalizeDuplicateKey(t *testing.T) {
	dup := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key"}},
	}
	got := Normalize(dup)

	assert.Equal(t, http.StatusBadRequest, got.Code)
	assert.Contains(t, got.Message, "Duplicate field value")
}

func TestNormalizeInvalidObjectID(t *testing.T) {
	_, err := primitive.ObjectIDFromHex("not-a-hex-id")
	got := Normalize(err)

	assert.Equal(t, http.StatusBadRequest, got.Code)
}

func TestNormalizeValidationError(t *testing.T) {
	err := fmt.Errorf("%w: article must have at least one category", models.ErrValidation)
	got := Normalize(err)

	assert.Equal(t, http.StatusBadRequest, got.Code)
	assert.Contains(t, got.Message, "Invalid input data")
}

func TestNormalizeMalformedJSONBody(t *testing.T) {
	var target struct{ Title string }

	syntaxErr := json.Unmarshal([]byte(`{not json`), &target)
	got := Normalize(syntaxErr)
	assert.Equal(t, http.StatusBadRequest, got.Code)
	assert.Contains(t, got.Message, "Malformed JSON")

	typeErr := json.Unmarshal([]byte(`{"Title": 42}`), &target)
	got = Normalize(typeErr)
	assert.Equal(t, http.StatusBadRequest, got.Code)

	// ShouldBindJSON surfaces an empty body as EOF.
	got = Normalize(io.EOF)
	assert.Equal(t, http.StatusBadRequest, got.Code)
}

func TestNormalizeUnknownErrorIsGeneric(t *testing.T) {
	got := Normalize(errors.New("database exploded: password=hunter2"))

	assert.Equal(t, http.StatusInternalServerError, got.Code)
	assert.Equal(t, "error", got.Status())
	// Internal detail must never reach the client.
	assert.NotContains(t, got.Message, "hunter2")
}

func errorTestRouter(mode string, failWith error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler(mode, log.New(io.Discard, "", 0)))
	router.GET("/boom", func(c *gin.Context) {
		_ = c.Error(failWith)
	})
	return router
}

func TestErrorHandlerTerseInProduction(t *testing.T) {
	router := errorTestRouter(config.ModeProduction, errors.New("secret detail"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong O.O")
	assert.NotContains(t, rec.Body.String(), "secret detail")
	assert.NotContains(t, rec.Body.String(), "stack")
}

func TestErrorHandlerVerboseInDevelopment(t *testing.T) {
	router := errorTestRouter(config.ModeDevelopment, errors.New("secret detail"))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "secret detail")
	assert.Contains(t, rec.Body.String(), "stack")
}

func TestErrorHandlerKeepsOperationalStatus(t *testing.T) {
	router := errorTestRouter(config.ModeProduction, apperror.BadRequest("Language parameter (lang) is required."))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Language parameter")
	assert.Contains(t, rec.Body.String(), `"fail"`)
}
