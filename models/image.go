package models

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageCategory is an image category.
type ImageCategory string

const (
	ImagePhotograph ImageCategory = "photograph"
	ImageCover      ImageCategory = "cover"
)

func (c ImageCategory) Valid() bool {
	switch c {
	case ImagePhotograph, ImageCover:
		return true
	}
	return false
}

// Image is a gallery image. ImageKey and ThumbnailKey are storage keys;
// signed URLs are minted per request.
type Image struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug         string             `bson:"slug" json:"slug"`
	Title        string             `bson:"title,omitempty" json:"title,omitempty"`
	Description  string             `bson:"description" json:"description"`
	ImageKey     string             `bson:"imageUrl" json:"imageUrl"`
	ThumbnailKey string             `bson:"thumbnailUrl" json:"thumbnailUrl"`
	Category     ImageCategory      `bson:"category" json:"category"`
	Likes        int                `bson:"likes" json:"likes"`
	LikedByIPs   []string           `bson:"likedByIPs,omitempty" json:"likedByIPs,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DeriveSlug builds the slug from the category and a millisecond timestamp.
// There is no title to derive from, so uniqueness is timestamp-bounded.
func (i *Image) DeriveSlug(now time.Time) {
	i.Slug = fmt.Sprintf("%s-%d", slug.Make(string(i.Category)), now.UnixMilli())
}

func (i *Image) Validate() error {
	if i.ImageKey == "" {
		return fmt.Errorf("%w: image must have a storage key", ErrValidation)
	}
	if i.ThumbnailKey == "" {
		return fmt.Errorf("%w: image must have a thumbnail storage key", ErrValidation)
	}
	if !i.Category.Valid() {
		return fmt.Errorf("%w: unknown image category %q", ErrValidation, i.Category)
	}
	return nil
}
