package handlers_test

import (
	"context"
	"io"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"rayverse/config"
	"rayverse/middleware"
	"rayverse/models"
	"rayverse/query"
)

type mockArticleStore struct {
	mock.Mock
}

func (m *mockArticleStore) Count(ctx context.Context, filter bson.M) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockArticleStore) FindPage(ctx context.Context, f query.Features) ([]bson.M, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]bson.M), args.Error(1)
}

func (m *mockArticleStore) FindBySlug(ctx context.Context, slug string) (*models.Article, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *mockArticleStore) Insert(ctx context.Context, a *models.Article) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

type mockImageStore struct {
	mock.Mock
}

func (m *mockImageStore) FindByCategory(ctx context.Context, category models.ImageCategory) ([]models.Image, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]models.Image), args.Error(1)
}

func (m *mockImageStore) FindBySlug(ctx context.Context, slug string) (*models.Image, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

func (m *mockImageStore) Insert(ctx context.Context, i *models.Image) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

type mockVideoStore struct {
	mock.Mock
}

func (m *mockVideoStore) FindAll(ctx context.Context) ([]models.Video, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Video), args.Error(1)
}

func (m *mockVideoStore) Insert(ctx context.Context, v *models.Video) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

type mockResumeStore struct {
	mock.Mock
}

func (m *mockResumeStore) FindByLanguage(ctx context.Context, lang models.Language) (*models.Resume, error) {
	args := m.Called(ctx, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Resume), args.Error(1)
}

func (m *mockResumeStore) Insert(ctx context.Context, r *models.Resume) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

type mockSigner struct {
	mock.Mock
}

func (m *mockSigner) PresignGet(ctx context.Context, objectKey string) (string, error) {
	args := m.Called(ctx, objectKey)
	return args.String(0), args.Error(1)
}

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchText(ctx context.Context, url string) (string, error) {
	args := m.Called(ctx, url)
	return args.String(0), args.Error(1)
}

// newTestRouter builds an engine with the error normalizer attached in terse
// mode, mirroring the production middleware chain.
func newTestRouter(register func(*gin.Engine)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler(config.ModeProduction, log.New(io.Discard, "", 0)))
	register(router)
	return router
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
