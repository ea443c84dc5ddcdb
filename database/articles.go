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
	"rayverse/query"
)

// Articles is the repository for the articles collection.
type Articles struct {
	col    *mongo.Collection
	logger *log.Logger
}

func NewArticles(db *mongo.Database, logger *log.Logger) (*Articles, error) {
	repo := &Articles{col: db.Collection("articles"), logger: logger}
	if err := repo.ensureIndexes(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *Articles) ensureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "publishedAt", Value: -1}},
		},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	if err != nil && r.logger != nil {
		r.logger.Printf("failed to create article indexes: %v", err)
	}
	return err
}

// Count applies only the filter, never sort, projection or pagination, so
// total-page arithmetic reflects the full filtered set.
func (r *Articles) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.col.CountDocuments(ctx, filter)
}

// FindPage runs the fully shaped list query. Documents come back as raw maps
// because the projection is caller-driven.
func (r *Articles) FindPage(ctx context.Context, f query.Features) ([]bson.M, error) {
	opts := options.Find().
		SetSort(f.Sort).
		SetProjection(f.Projection).
		SetSkip(f.Skip).
		SetLimit(int64(f.Limit))

	cursor, err := r.col.Find(ctx, f.Filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *Articles) FindBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var article models.Article
	err := r.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&article)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *Articles) Insert(ctx context.Context, a *models.Article) error {
	res, err := r.col.InsertOne(ctx, a)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = id
	}
	return nil
}
