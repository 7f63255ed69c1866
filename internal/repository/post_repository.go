package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/familygrove/familygrove/internal/models"
	"github.com/familygrove/familygrove/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository handles database operations on the posts collection.
type PostRepository struct {
	collection *mongo.Collection
}

// NewPostRepository creates a new instance of PostRepository.
func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		collection: db.Collection("posts"),
	}
}

// CreatePost inserts a new post.
func (r *PostRepository) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt

	result, err := r.collection.InsertOne(ctx, post)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert post")
		return nil, fmt.Errorf("failed to insert post: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	post.ID = insertedID

	logger.Log.WithField("post_id", post.ID.Hex()).Info("Post created successfully")
	return post, nil
}

// GetFamilyPost fetches an active post scoped to a family. Foreign or
// soft-deleted posts come back as ErrNoDocuments.
func (r *PostRepository) GetFamilyPost(ctx context.Context, postID, familyID primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	filter := bson.M{"_id": postID, "family": familyID, "is_active": true}
	if err := r.collection.FindOne(ctx, filter).Decode(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPostByID fetches a post by id regardless of the active flag, for
// audit access to soft-deleted entries. Still family scoped.
func (r *PostRepository) GetPostByID(ctx context.Context, postID, familyID primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	filter := bson.M{"_id": postID, "family": familyID}
	if err := r.collection.FindOne(ctx, filter).Decode(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// GetFamilyPosts returns one page of a family's active posts, newest first.
func (r *PostRepository) GetFamilyPosts(ctx context.Context, familyID primitive.ObjectID, page, limit int) ([]models.Post, error) {
	skip := int64((page - 1) * limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"family": familyID, "is_active": true}, opts)
	if err != nil {
		logger.Log.WithError(err).WithField("family_id", familyID.Hex()).Error("Failed to fetch posts")
		return nil, fmt.Errorf("failed to fetch posts: %v", err)
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %v", err)
	}
	return posts, nil
}

// CountFamilyPosts counts a family's active posts.
func (r *PostRepository) CountFamilyPosts(ctx context.Context, familyID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"family": familyID, "is_active": true})
	if err != nil {
		return 0, fmt.Errorf("failed to count posts: %v", err)
	}
	return count, nil
}

// AddLike appends a like for userID unless one exists. The members filter
// keeps concurrent toggles by the same user from duplicating the entry.
// Returns whether the like was applied.
func (r *PostRepository) AddLike(ctx context.Context, postID, familyID, userID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"_id":        postID,
		"family":     familyID,
		"is_active":  true,
		"likes.user": bson.M{"$ne": userID},
	}
	update := bson.M{
		"$push": bson.M{"likes": models.Like{UserID: userID, LikedAt: time.Now()}},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to add like: %v", err)
	}
	return result.ModifiedCount > 0, nil
}

// RemoveLike pulls userID's like. Returns whether a like was removed.
func (r *PostRepository) RemoveLike(ctx context.Context, postID, familyID, userID primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": postID, "family": familyID, "is_active": true}
	update := bson.M{
		"$pull": bson.M{"likes": bson.M{"user": userID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to remove like: %v", err)
	}
	return result.ModifiedCount > 0, nil
}

// CountLikes returns the current like count of a post.
func (r *PostRepository) CountLikes(ctx context.Context, postID, familyID primitive.ObjectID) (int, error) {
	post, err := r.GetFamilyPost(ctx, postID, familyID)
	if err != nil {
		return 0, err
	}
	return len(post.Likes), nil
}

// AddComment appends a comment and returns it with its generated id.
func (r *PostRepository) AddComment(ctx context.Context, postID, familyID primitive.ObjectID, comment models.Comment) (*models.Comment, error) {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()

	filter := bson.M{"_id": postID, "family": familyID, "is_active": true}
	update := bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return &comment, nil
}

// SoftDeletePost flips the active flag; the document is never removed.
func (r *PostRepository) SoftDeletePost(ctx context.Context, postID primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": postID}, update)
	if err != nil {
		logger.Log.WithError(err).WithField("post_id", postID.Hex()).Error("Failed to soft delete post")
		return fmt.Errorf("failed to delete post: %v", err)
	}

	logger.Log.WithField("post_id", postID.Hex()).Info("Post soft deleted")
	return nil
}
