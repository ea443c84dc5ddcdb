package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Resume points at one résumé file per language. Language uniqueness is
// enforced by the store, so at most one document per language exists.
type Resume struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ResumeKey string             `bson:"resumeUrl" json:"resumeUrl"`
	Language  Language           `bson:"language" json:"language"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (r *Resume) Validate() error {
	if r.ResumeKey == "" {
		return fmt.Errorf("%w: resume must have a storage key", ErrValidation)
	}
	if !r.Language.Valid() {
		return fmt.Errorf("%w: unknown resume language %q", ErrValidation, r.Language)
	}
	return nil
}
