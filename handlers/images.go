package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"rayverse/apperror"
	"rayverse/models"
)

// ImageStore is what the image handler needs from the repository.
type ImageStore interface {
	FindByCategory(ctx context.Context, category models.ImageCategory) ([]models.Image, error)
	FindBySlug(ctx context.Context, slug string) (*models.Image, error)
	Insert(ctx context.Context, i *models.Image) error
}

type ImageHandler struct {
	store  ImageStore
	signer Signer
	logger *log.Logger
}

func NewImageHandler(store ImageStore, signer Signer, logger *log.Logger) *ImageHandler {
	return &ImageHandler{store: store, signer: signer, logger: logger}
}

// Thumbnails lists every photograph with a signed thumbnail URL. The signing
// calls for a page run concurrently and the response is all-or-nothing: one
// failed signing call fails the whole request.
func (h *ImageHandler) Thumbnails(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	images, err := h.store.FindByCategory(ctx, models.ImagePhotograph)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if len(images) == 0 {
		_ = c.Error(apperror.NotFound("No thumbnail images found."))
		return
	}

	// Documents without a thumbnail key are skipped rather than failing
	// the page.
	valid := images[:0]
	for _, img := range images {
		if img.ThumbnailKey == "" {
			h.logger.Printf("image %s missing thumbnail key, skipping", img.ID.Hex())
			continue
		}
		valid = append(valid, img)
	}

	formatted := make([]gin.H, len(valid))
	g, gctx := errgroup.WithContext(ctx)
	for i, img := range valid {
		g.Go(func() error {
			signedURL, err := h.signer.PresignGet(gctx, img.ThumbnailKey)
			if err != nil {
				return err
			}
			formatted[i] = gin.H{
				"id":           img.ID,
				"slug":         img.Slug,
				"description":  img.Description,
				"thumbnailUrl": signedURL,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.logger.Printf("failed to sign thumbnail URLs: %v", err)
		_ = c.Error(apperror.Internal("Failed to load thumbnails from storage."))
		return
	}

	c.JSON(http.StatusOK, formatted)
}

// GetBySlug returns one image with a signed URL for the full-size file.
func (h *ImageHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")

	ctx, cancel := requestContext()
	defer cancel()

	image, err := h.store.FindBySlug(ctx, slug)
	if err != nil {
		_ = c.Error(notFoundOr(err, fmt.Sprintf("Image with slug %q not found.", slug)))
		return
	}

	signedURL, err := h.signer.PresignGet(ctx, image.ImageKey)
	if err != nil {
		h.logger.Printf("failed to presign image %q: %v", image.ImageKey, err)
		_ = c.Error(apperror.Internal("Failed to load image from storage."))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          image.ID,
		"title":       image.Title,
		"slug":        image.Slug,
		"description": image.Description,
		"imageUrl":    signedURL,
	})
}

type createImageRequest struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	ImageKey     string               `json:"imageUrl" binding:"required"`
	ThumbnailKey string               `json:"thumbnailUrl" binding:"required"`
	Category     models.ImageCategory `json:"category" binding:"required"`
}

// Create inserts a new image record. The slug is derived from the category
// and the creation timestamp.
func (h *ImageHandler) Create(c *gin.Context) {
	var req createImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	now := time.Now()
	image := models.Image{
		Title:        req.Title,
		Description:  req.Description,
		ImageKey:     req.ImageKey,
		ThumbnailKey: req.ThumbnailKey,
		Category:     req.Category,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := image.Validate(); err != nil {
		_ = c.Error(err)
		return
	}
	image.DeriveSlug(now)

	ctx, cancel := requestContext()
	defer cancel()

	if err := h.store.Insert(ctx, &image); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   gin.H{"newImage": image},
	})
}
