package models

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Video is a published video. VideoKey and CoverKey are storage keys for the
// media file and its poster image.
type Video struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug        string             `bson:"slug" json:"slug"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	VideoKey    string             `bson:"videoUrl" json:"videoUrl"`
	CoverKey    string             `bson:"coverUrl" json:"coverUrl"`
	Likes       int                `bson:"likes" json:"likes"`
	LikedByIPs  []string           `bson:"likedByIPs,omitempty" json:"likedByIPs,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DeriveSlug recomputes the slug from the title.
func (v *Video) DeriveSlug() {
	v.Slug = slug.Make(v.Title)
}

func (v *Video) Validate() error {
	if v.Title == "" {
		return fmt.Errorf("%w: video must have a title", ErrValidation)
	}
	if v.VideoKey == "" {
		return fmt.Errorf("%w: video must have a storage key", ErrValidation)
	}
	if v.CoverKey == "" {
		return fmt.Errorf("%w: video must have a cover storage key", ErrValidation)
	}
	return nil
}
