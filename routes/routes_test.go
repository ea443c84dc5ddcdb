package routes

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rayverse/config"
	"rayverse/handlers"
	"rayverse/middleware"
)

func testDeps() Deps {
	logger := log.New(io.Discard, "", 0)
	return Deps{
		Config: config.Config{
			APIPrefix:      "/api/v1",
			APIToken:       "secret",
			Mode:           config.ModeProduction,
			AllowedOrigins: []string{"*"},
		},
		Logger:  logger,
		Limiter: middleware.NewIPRateLimiter(40, 15*time.Minute),
		// Handlers with nil collaborators: these tests only exercise
		// routing and middleware that run before any controller.
		Articles: handlers.NewArticleHandler(nil, nil, nil, 4, logger),
		Images:   handlers.NewImageHandler(nil, nil, logger),
		Videos:   handlers.NewVideoHandler(nil, nil, logger),
		Resumes:  handlers.NewResumeHandler(nil, nil, logger),
	}
}

func TestRootHello(t *testing.T) {
	router := SetupRouter(testDeps())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "RayVerse")
}

func TestUnmatchedRouteIs404Envelope(t *testing.T) {
	router := SetupRouter(testDeps())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fail"`)
	assert.Contains(t, rec.Body.String(), "/api/v1/nope")
}

func TestMutationsAreGatedBeforeControllers(t *testing.T) {
	router := SetupRouter(testDeps())

	// No token: rejected by the gate; the nil-collaborator handler is
	// never reached, otherwise this would panic.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/articles", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
