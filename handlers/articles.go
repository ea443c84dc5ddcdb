package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"rayverse/apperror"
	"rayverse/models"
	"rayverse/query"
)

// ArticleStore is what the article handler needs from the repository.
type ArticleStore interface {
	Count(ctx context.Context, filter bson.M) (int64, error)
	FindPage(ctx context.Context, f query.Features) ([]bson.M, error)
	FindBySlug(ctx context.Context, slug string) (*models.Article, error)
	Insert(ctx context.Context, a *models.Article) error
}

type ArticleHandler struct {
	store       ArticleStore
	signer      Signer
	fetcher     ContentFetcher
	defaultPage int
	logger      *log.Logger
}

func NewArticleHandler(store ArticleStore, signer Signer, fetcher ContentFetcher, defaultPageSize int, logger *log.Logger) *ArticleHandler {
	return &ArticleHandler{
		store:       store,
		signer:      signer,
		fetcher:     fetcher,
		defaultPage: defaultPageSize,
		logger:      logger,
	}
}

// List serves the filtered, sorted, projected, paginated article list. The
// total count comes from a separate filter-only query so totalPages reflects
// the whole filtered set, not the current page.
func (h *ArticleHandler) List(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	f := query.Parse(c.Request.URL.Query(), h.defaultPage)

	total, err := h.store.Count(ctx, f.Filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	articles, err := h.store.FindPage(ctx, f)
	if err != nil {
		_ = c.Error(err)
		return
	}

	for _, doc := range articles {
		localizeField(doc, "title", f.Lang)
		localizeField(doc, "summary", f.Lang)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"results":       len(articles),
		"articles":      articles,
		"currentPage":   f.Page,
		"totalPages":    query.TotalPages(total, f.Limit),
		"totalArticles": total,
	})
}

// localizeField backfills the requested language from English at format time
// when the requested value is absent, then strips the English source so only
// the resolved language reaches the client. Storage is never touched.
func localizeField(doc bson.M, field string, lang models.Language) {
	values, ok := doc[field].(bson.M)
	if !ok || lang == models.LangEN {
		return
	}
	if v, _ := values[string(lang)].(string); v == "" {
		if en, _ := values["en"].(string); en != "" {
			values[string(lang)] = en
		}
	}
	delete(values, "en")
}

type createArticleRequest struct {
	Title       models.LocalizedText `json:"title" binding:"required"`
	Summary     models.LocalizedText `json:"summary" binding:"required"`
	ContentKeys models.LocalizedText `json:"contentUrl" binding:"required"`
	Categories  []models.Category    `json:"categories" binding:"required"`
	PublishedAt *time.Time           `json:"publishedAt"`
	Visible     *bool                `json:"visible"`
}

// Create inserts a new article. The slug is recomputed from the English
// title on every save.
func (h *ArticleHandler) Create(c *gin.Context) {
	var req createArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	now := time.Now()
	article := models.Article{
		Title:       req.Title,
		Summary:     req.Summary,
		ContentKeys: req.ContentKeys,
		Categories:  req.Categories,
		PublishedAt: now,
		Visible:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.PublishedAt != nil {
		article.PublishedAt = *req.PublishedAt
	}
	if req.Visible != nil {
		article.Visible = *req.Visible
	}

	if err := article.Validate(); err != nil {
		_ = c.Error(err)
		return
	}
	article.DeriveSlug()

	ctx, cancel := requestContext()
	defer cancel()

	if err := h.store.Insert(ctx, &article); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   gin.H{"newArticle": article},
	})
}

// GetBySlug returns one article's metadata together with its Markdown body
// fetched from storage. The language is required and never falls back for
// the body: missing content for the requested language is a 404.
func (h *ArticleHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")
	langParam := c.Query("lang")
	if langParam == "" {
		_ = c.Error(apperror.BadRequest("Language parameter (lang) is required."))
		return
	}
	lang := models.Language(langParam)

	ctx, cancel := requestContext()
	defer cancel()

	article, err := h.store.FindBySlug(ctx, slug)
	if err != nil {
		_ = c.Error(notFoundOr(err, fmt.Sprintf("Article with slug %q not found.", slug)))
		return
	}

	contentKey := article.ContentKeys.Get(lang)
	if contentKey == "" {
		_ = c.Error(apperror.NotFound(
			fmt.Sprintf("No content available for language %q for article %q.", langParam, slug)))
		return
	}

	signedURL, err := h.signer.PresignGet(ctx, contentKey)
	if err != nil {
		h.logger.Printf("failed to presign article content %q: %v", contentKey, err)
		_ = c.Error(apperror.Internal("Failed to load article content from storage."))
		return
	}
	content, err := h.fetcher.FetchText(ctx, signedURL)
	if err != nil {
		h.logger.Printf("failed to fetch article content %q: %v", contentKey, err)
		_ = c.Error(apperror.Internal("Failed to load article content from storage."))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          article.ID,
		"slug":        article.Slug,
		"title":       article.Title.GetOrEnglish(lang),
		"summary":     article.Summary.GetOrEnglish(lang),
		"content":     content,
		"publishedAt": article.PublishedAt,
		"likes":       article.Likes,
	})
}
