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

// MemoryRepository handles database operations on the memories collection.
type MemoryRepository struct {
	collection *mongo.Collection
}

// NewMemoryRepository creates a new instance of MemoryRepository.
func NewMemoryRepository(db *mongo.Database) *MemoryRepository {
	return &MemoryRepository{
		collection: db.Collection("memories"),
	}
}

// CreateMemory inserts a new memory.
func (r *MemoryRepository) CreateMemory(ctx context.Context, memory *models.Memory) (*models.Memory, error) {
	memory.CreatedAt = time.Now()
	memory.UpdatedAt = memory.CreatedAt

	result, err := r.collection.InsertOne(ctx, memory)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert memory")
		return nil, fmt.Errorf("failed to insert memory: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	memory.ID = insertedID

	logger.Log.WithField("memory_id", memory.ID.Hex()).Info("Memory created successfully")
	return memory, nil
}

// GetFamilyMemory fetches an active memory scoped to a family.
func (r *MemoryRepository) GetFamilyMemory(ctx context.Context, memoryID, familyID primitive.ObjectID) (*models.Memory, error) {
	var memory models.Memory
	filter := bson.M{"_id": memoryID, "family": familyID, "is_active": true}
	if err := r.collection.FindOne(ctx, filter).Decode(&memory); err != nil {
		return nil, err
	}
	return &memory, nil
}

// GetMemoryByID fetches a memory by id regardless of the active flag, for
// audit access to soft-deleted entries. Still family scoped.
func (r *MemoryRepository) GetMemoryByID(ctx context.Context, memoryID, familyID primitive.ObjectID) (*models.Memory, error) {
	var memory models.Memory
	filter := bson.M{"_id": memoryID, "family": familyID}
	if err := r.collection.FindOne(ctx, filter).Decode(&memory); err != nil {
		return nil, err
	}
	return &memory, nil
}

// GetFamilyMemories returns one page of a family's active memories sorted
// by memory date descending.
func (r *MemoryRepository) GetFamilyMemories(ctx context.Context, familyID primitive.ObjectID, page, limit int) ([]models.Memory, error) {
	skip := int64((page - 1) * limit)
	opts := options.Find().
		SetSort(bson.D{{Key: "memory_date", Value: -1}}).
		SetSkip(skip).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"family": familyID, "is_active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch memories: %v", err)
	}
	defer cursor.Close(ctx)

	var memories []models.Memory
	if err := cursor.All(ctx, &memories); err != nil {
		return nil, fmt.Errorf("failed to decode memories: %v", err)
	}
	return memories, nil
}

// CountFamilyMemories counts a family's active memories.
func (r *MemoryRepository) CountFamilyMemories(ctx context.Context, familyID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"family": familyID, "is_active": true})
	if err != nil {
		return 0, fmt.Errorf("failed to count memories: %v", err)
	}
	return count, nil
}

// AddLike appends a like for userID unless one exists.
func (r *MemoryRepository) AddLike(ctx context.Context, memoryID, familyID, userID primitive.ObjectID) (bool, error) {
	filter := bson.M{
		"_id":        memoryID,
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

// RemoveLike pulls userID's like.
func (r *MemoryRepository) RemoveLike(ctx context.Context, memoryID, familyID, userID primitive.ObjectID) (bool, error) {
	filter := bson.M{"_id": memoryID, "family": familyID, "is_active": true}
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

// AddComment appends a comment and returns it with its generated id.
func (r *MemoryRepository) AddComment(ctx context.Context, memoryID, familyID primitive.ObjectID, comment models.Comment) (*models.Comment, error) {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()

	filter := bson.M{"_id": memoryID, "family": familyID, "is_active": true}
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

// SoftDeleteMemory flips the active flag.
func (r *MemoryRepository) SoftDeleteMemory(ctx context.Context, memoryID primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": memoryID}, update)
	if err != nil {
		return fmt.Errorf("failed to delete memory: %v", err)
	}

	logger.Log.WithField("memory_id", memoryID.Hex()).Info("Memory soft deleted")
	return nil
}
