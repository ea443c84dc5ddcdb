package database

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rayverse/models"
)

// Resumes is the repository for the resumes collection. The unique index on
// language guarantees at most one résumé document per language.
type Resumes struct {
	col    *mongo.Collection
	logger *log.Logger
}

func NewResumes(db *mongo.Database, logger *log.Logger) (*Resumes, error) {
	repo := &Resumes{col: db.Collection("resumes"), logger: logger}
	if err := repo.ensureIndexes(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *Resumes) ensureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "language", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	if err != nil && r.logger != nil {
		r.logger.Printf("failed to create resume indexes: %v", err)
	}
	return err
}

func (r *Resumes) FindByLanguage(ctx context.Context, lang models.Language) (*models.Resume, error) {
	var resume models.Resume
	err := r.col.FindOne(ctx, bson.M{"language": lang}).Decode(&resume)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &resume, nil
}

func (r *Resumes) Insert(ctx context.Context, resume *models.Resume) error {
	res, err := r.col.InsertOne(ctx, resume)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		resume.ID = id
	}
	return nil
}
