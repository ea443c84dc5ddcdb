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

// Images is the repository for the images collection.
type Images struct {
	col    *mongo.Collection
	logger *log.Logger
}

func NewImages(db *mongo.Database, logger *log.Logger) (*Images, error) {
	repo := &Images{col: db.Collection("images"), logger: logger}
	if err := repo.ensureIndexes(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *Images) ensureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "category", Value: 1}},
		},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	if err != nil && r.logger != nil {
		r.logger.Printf("failed to create image indexes: %v", err)
	}
	return err
}

func (r *Images) FindByCategory(ctx context.Context, category models.ImageCategory) ([]models.Image, error) {
	cursor, err := r.col.Find(ctx, bson.M{"category": category})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	images := []models.Image{}
	if err := cursor.All(ctx, &images); err != nil {
		return nil, err
	}
	return images, nil
}

func (r *Images) FindBySlug(ctx context.Context, slug string) (*models.Image, error) {
	var image models.Image
	err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&image)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *Images) Insert(ctx context.Context, i *models.Image) error {
	res, err := r.col.InsertOne(ctx, i)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		i.ID = id
	}
	return nil
}
