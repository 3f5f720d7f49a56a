package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"microblogPosts/internal/database"
	"microblogPosts/internal/models"
	"microblogPosts/internal/observability"
)

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(database.UsersCollection)}
}

// documentID matches ObjectID-keyed documents by their hex form and falls back to string
// ids. Posts created here carry UUID ids, which never parse as ObjectIDs.
func documentID(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

func (r *MongoUserRepository) AttachPost(ctx context.Context, userID, postID string) error {
	defer observability.ObserveStore("users.attach_post", driverMongo, time.Now())

	result, err := r.coll.UpdateOne(
		ctx,
		bson.M{"_id": documentID(userID)},
		bson.M{"$addToSet": bson.M{"posts": postID}},
	)
	if err != nil {
		return fmt.Errorf("attach post %s to user %s: %w", postID, userID, err)
	}

	if result.MatchedCount == 0 {
		return models.NewUserNotFoundError(userID)
	}

	return nil
}
