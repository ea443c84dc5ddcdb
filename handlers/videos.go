package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"rayverse/apperror"
	"rayverse/models"
)

// VideoStore is what the video handler needs from the repository.
type VideoStore interface {
	FindAll(ctx context.Context) ([]models.Video, error)
	Insert(ctx context.Context, v *models.Video) error
}

type VideoHandler struct {
	store  VideoStore
	signer Signer
	logger *log.Logger
}

func NewVideoHandler(store VideoStore, signer Signer, logger *log.Logger) *VideoHandler {
	return &VideoHandler{store: store, signer: signer, logger: logger}
}

// List returns every video with signed media and poster URLs. An empty
// collection short-circuits before any signing call. Each video needs two
// signing calls; the batch runs concurrently and fails as a whole.
func (h *VideoHandler) List(c *gin.Context) {
	ctx, cancel := requestContext()
	defer cancel()

	videos, err := h.store.FindAll(ctx)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if len(videos) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"results": 0,
			"videos":  []gin.H{},
		})
		return
	}

	formatted := make([]gin.H, len(videos))
	g, gctx := errgroup.WithContext(ctx)
	for i, video := range videos {
		g.Go(func() error {
			videoURL, err := h.signer.PresignGet(gctx, video.VideoKey)
			if err != nil {
				return err
			}
			posterURL, err := h.signer.PresignGet(gctx, video.CoverKey)
			if err != nil {
				return err
			}
			formatted[i] = gin.H{
				"id":          video.ID,
				"title":       video.Title,
				"videoUrl":    videoURL,
				"posterUrl":   posterURL,
				"description": video.Description,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.logger.Printf("failed to sign video URLs: %v", err)
		_ = c.Error(apperror.Internal("Failed to generate video URLs."))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": len(formatted),
		"videos":  formatted,
	})
}

type createVideoRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	VideoKey    string `json:"videoUrl" binding:"required"`
	CoverKey    string `json:"coverUrl" binding:"required"`
}

// Create inserts a new video record with a slug derived from the title.
func (h *VideoHandler) Create(c *gin.Context) {
	var req createVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		return
	}

	now := time.Now()
	video := models.Video{
		Title:       req.Title,
		Description: req.Description,
		VideoKey:    req.VideoKey,
		CoverKey:    req.CoverKey,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := video.Validate(); err != nil {
		_ = c.Error(err)
		return
	}
	video.DeriveSlug()

	ctx, cancel := requestContext()
	defer cancel()

	if err := h.store.Insert(ctx, &video); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   gin.H{"newVideo": video},
	})
}
