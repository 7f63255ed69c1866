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
)

// FamilyRepository handles database operations on the families collection.
type FamilyRepository struct {
	collection *mongo.Collection
}

// NewFamilyRepository creates a new instance of FamilyRepository.
func NewFamilyRepository(db *mongo.Database) *FamilyRepository {
	return &FamilyRepository{
		collection: db.Collection("families"),
	}
}

// CreateFamily inserts a new family. The unique indexes on name and
// family_code make a concurrent duplicate creation fail here.
func (r *FamilyRepository) CreateFamily(ctx context.Context, family *models.Family) (*models.Family, error) {
	family.CreatedAt = time.Now()
	family.UpdatedAt = family.CreatedAt

	result, err := r.collection.InsertOne(ctx, family)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("duplicate family: %w", err)
		}
		logger.Log.WithError(err).Error("Failed to insert family")
		return nil, fmt.Errorf("failed to insert family: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	family.ID = insertedID

	logger.Log.WithField("family_id", family.ID.Hex()).Info("Family created successfully")
	return family, nil
}

// GetFamilyByID fetches a family by its ID.
func (r *FamilyRepository) GetFamilyByID(ctx context.Context, id primitive.ObjectID) (*models.Family, error) {
	var family models.Family
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "is_active": true}).Decode(&family)
	if err != nil {
		return nil, err
	}
	return &family, nil
}

// GetFamilyByName fetches the canonical shared family by its name.
func (r *FamilyRepository) GetFamilyByName(ctx context.Context, name string) (*models.Family, error) {
	var family models.Family
	err := r.collection.FindOne(ctx, bson.M{"name": name, "is_active": true}).Decode(&family)
	if err != nil {
		return nil, err
	}
	return &family, nil
}

// GetFamilyByCode fetches a family by its join code.
func (r *FamilyRepository) GetFamilyByCode(ctx context.Context, code string) (*models.Family, error) {
	var family models.Family
	err := r.collection.FindOne(ctx, bson.M{"family_code": code, "is_active": true}).Decode(&family)
	if err != nil {
		return nil, err
	}
	return &family, nil
}

// AddMember appends a membership entry unless the user is already present.
// The filter on members.user makes the append atomic.
func (r *FamilyRepository) AddMember(ctx context.Context, familyID primitive.ObjectID, member models.FamilyMember) error {
	member.JoinedAt = time.Now()

	filter := bson.M{
		"_id":          familyID,
		"members.user": bson.M{"$ne": member.UserID},
	}
	update := bson.M{
		"$push": bson.M{"members": member},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"family_id": familyID.Hex(),
			"user_id":   member.UserID.Hex(),
		}).Error("Failed to add family member")
		return fmt.Errorf("failed to add family member: %v", err)
	}
	return nil
}

// RemoveMember pulls a user's membership entry.
func (r *FamilyRepository) RemoveMember(ctx context.Context, familyID, userID primitive.ObjectID) error {
	update := bson.M{
		"$pull": bson.M{"members": bson.M{"user": userID}},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": familyID}, update)
	if err != nil {
		return fmt.Errorf("failed to remove family member: %v", err)
	}
	return nil
}

// UpdateFamily applies a partial field update.
func (r *FamilyRepository) UpdateFamily(ctx context.Context, id primitive.ObjectID, update map[string]interface{}) (*models.Family, error) {
	update["updated_at"] = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": update})
	if err != nil {
		logger.Log.WithError(err).WithField("family_id", id.Hex()).Error("Failed to update family")
		return nil, fmt.Errorf("failed to update family: %v", err)
	}
	return r.GetFamilyByID(ctx, id)
}
