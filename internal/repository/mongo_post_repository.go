package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"microblogPosts/internal/database"
	"microblogPosts/internal/models"
	"microblogPosts/internal/observability"
)

type MongoPostRepository struct {
	coll *mongo.Collection
}

func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{coll: db.Collection(database.PostsCollection)}
}

func readFilter(filter bson.M, opts models.ReadOptions) bson.M {
	if opts.ExcludeDeleted {
		filter["deletedAt"] = bson.M{"$exists": false}
	}
	return filter
}

func ownedFilter(ownerID, postID string) bson.M {
	return bson.M{"_id": documentID(postID), "userId": ownerID}
}

func (r *MongoPostRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.ObserveStore("posts.create", driverMongo, time.Now())

	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M) ([]models.Post, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

func (r *MongoPostRepository) findOne(ctx context.Context, filter bson.M, postID string) (*models.Post, error) {
	var post models.Post
	err := r.coll.FindOne(ctx, filter).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewPostNotFoundError(postID)
		}
		return nil, fmt.Errorf("find post %s: %w", postID, err)
	}
	return &post, nil
}

func (r *MongoPostRepository) GetAll(ctx context.Context, opts models.ReadOptions) ([]models.Post, error) {
	defer observability.ObserveStore("posts.find_all", driverMongo, time.Now())
	return r.find(ctx, readFilter(bson.M{}, opts))
}

func (r *MongoPostRepository) GetByID(ctx context.Context, postID string, opts models.ReadOptions) (*models.Post, error) {
	defer observability.ObserveStore("posts.find_by_id", driverMongo, time.Now())
	return r.findOne(ctx, readFilter(bson.M{"_id": documentID(postID)}, opts), postID)
}

func (r *MongoPostRepository) GetByUserID(ctx context.Context, userID string, opts models.ReadOptions) ([]models.Post, error) {
	defer observability.ObserveStore("posts.find_by_user", driverMongo, time.Now())
	return r.find(ctx, readFilter(bson.M{"userId": userID}, opts))
}

func (r *MongoPostRepository) GetOwned(ctx context.Context, ownerID, postID string) (*models.Post, error) {
	defer observability.ObserveStore("posts.find_owned", driverMongo, time.Now())
	return r.findOne(ctx, ownedFilter(ownerID, postID), postID)
}

func (r *MongoPostRepository) UpdateOwned(ctx context.Context, ownerID, postID string, req models.UpdatePostRequest, updatedAt time.Time) (*models.Post, error) {
	defer observability.ObserveStore("posts.update_owned", driverMongo, time.Now())

	set := bson.M{"updatedAt": updatedAt}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Content != nil {
		set["content"] = *req.Content
	}

	var post models.Post
	err := r.coll.FindOneAndUpdate(
		ctx,
		ownedFilter(ownerID, postID),
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewPostNotFoundError(postID)
		}
		return nil, fmt.Errorf("update post %s: %w", postID, err)
	}

	return &post, nil
}

func (r *MongoPostRepository) SoftDeleteOwned(ctx context.Context, ownerID, postID string, deletedAt time.Time) error {
	defer observability.ObserveStore("posts.soft_delete_owned", driverMongo, time.Now())

	result, err := r.coll.UpdateOne(
		ctx,
		ownedFilter(ownerID, postID),
		bson.M{"$set": bson.M{"deletedAt": deletedAt, "updatedAt": deletedAt}},
	)
	if err != nil {
		return fmt.Errorf("soft delete post %s: %w", postID, err)
	}

	if result.MatchedCount == 0 {
		return models.NewPostNotFoundError(postID)
	}

	return nil
}
