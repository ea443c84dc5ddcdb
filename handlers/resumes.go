package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rayverse/apperror"
	"rayverse/models"
)

// ResumeStore is what the resume handler needs from the repository.
type ResumeStore interface {
	FindByLanguage(ctx context.Context, lang models.Language) (*models.Resume, error)
	Insert(ctx context.Context, r *models.Resume) error
}

type ResumeHandler struct {
	store  ResumeStore
	signer Signer
	logger *log.Logger
}

func NewResumeHandler(store ResumeStore, signer Signer, logger *log.Logger) *ResumeHandler {
	return &ResumeHandler{store: store, signer: signer, logger: logger}
}

// Get returns a signed download URL for the résumé in the requested
// language, defaulting to English.
func (h *ResumeHandler) Get(c *gin.Context) {
	lang := models.ParseLanguage(c.Query("lang"))

	ctx, cancel := requestContext()
	defer cancel()

	resume, err := h.store.FindByLanguage(ctx, lang)
	if err != nil {
		_ = c.Error(notFoundOr(err, fmt.Sprintf("Resume key not found for language %q.", lang)))
		return
	}
	if resume.ResumeKey == "" {
		_ = c.Error(apperror.NotFound(fmt.Sprintf("Resume key not found for language %q.", lang)))
		return
	}

	signedURL, err := h.signer.PresignGet(ctx, resume.ResumeKey)
	if err != nil {
		h.logger.Printf("failed to presign resume %q: %v", resume.ResumeKey, err)
		_ = c.Error(apperror.Internal("Failed to load resume from storage."))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"url":    signedURL,
	})
}

type createResumeRequest struct {
	ResumeKey string          `json:"resumeUrl" binding:"required"`
	Language  models.Language `json:"language" binding:"required"`
}

// Create inserts a résumé record. The store's unique index on language
// rejects a second résumé for the same language.
func (h *ResumeHandler) Create(c *gin.Context) {
	var req createResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	now := time.Now()
	resume := models.Resume{
		ResumeKey: req.ResumeKey,
		Language:  req.Language,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := resume.Validate(); err != nil {
		_ = c.Error(err)
		return
	}

	ctx, cancel := requestContext()
	defer cancel()

	if err := h.store.Insert(ctx, &resume); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   gin.H{"newResume": resume},
	})
}
