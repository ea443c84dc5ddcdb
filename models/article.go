package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrValidation marks document validation failures so the error normalizer
// can map them to a 400 response.
var ErrValidation = errors.New("validation failed")

// Category is an article category.
type Category string

const (
	CategoryTechnology Category = "technology"
	CategoryArt        Category = "art"
	CategoryPoetry     Category = "poetry"
	CategoryLife       Category = "life"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryTechnology, CategoryArt, CategoryPoetry, CategoryLife:
		return true
	}
	return false
}

// Article is a published article. Title and summary are stored per language;
// ContentKeys holds per-language storage keys for the Markdown body, not URLs.
type Article struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug        string             `bson:"slug" json:"slug"`
	Title       LocalizedText      `bson:"title" json:"title"`
	Summary     LocalizedText      `bson:"summary" json:"summary"`
	ContentKeys LocalizedText      `bson:"contentUrl" json:"contentUrl"`
	Categories  []Category         `bson:"categories" json:"categories"`
	PublishedAt time.Time          `bson:"publishedAt" json:"publishedAt"`
	Visible     bool               `bson:"visible" json:"visible"`
	Likes       int                `bson:"likes" json:"likes"`
	LikedByIPs  []string           `bson:"likedByIPs,omitempty" json:"likedByIPs,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DeriveSlug recomputes the slug from the English title, using only the part
// before the first colon. Called on every save.
func (a *Article) DeriveSlug() {
	base := a.Title.EN
	if i := strings.Index(base, ":"); i >= 0 {
		base = base[:i]
	}
	a.Slug = slug.Make(strings.TrimSpace(base))
}

// Validate enforces what the document schema used to: all languages present
// on every localized field and a non-empty set of known categories.
func (a *Article) Validate() error {
	if !a.Title.Complete() {
		return fmt.Errorf("%w: article title must be set for every language", ErrValidation)
	}
	if !a.Summary.Complete() {
		return fmt.Errorf("%w: article summary must be set for every language", ErrValidation)
	}
	if !a.ContentKeys.Complete() {
		return fmt.Errorf("%w: article content key must be set for every language", ErrValidation)
	}
	if len(a.Categories) == 0 {
		return fmt.Errorf("%w: article must have at least one category", ErrValidation)
	}
	for _, c := range a.Categories {
		if !c.Valid() {
			return fmt.Errorf("%w: unknown category %q", ErrValidation, c)
		}
	}
	return nil
}
