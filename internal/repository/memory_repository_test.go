package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestGetMemoryByIDResolvesSoftDeleted(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("soft-deleted memory stays resolvable by id", func(mt *mtest.T) {
		repo := NewMemoryRepository(mt.DB)
		memoryID := primitive.NewObjectID()
		familyID := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "familygrove.memories", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: memoryID},
			{Key: "family", Value: familyID},
			{Key: "title", Value: "Beach trip"},
			{Key: "is_active", Value: false},
		}))

		memory, err := repo.GetMemoryByID(context.Background(), memoryID, familyID)
		require.NoError(mt, err)
		assert.Equal(mt, memoryID, memory.ID)
		assert.False(mt, memory.IsActive)

		filter := mt.GetStartedEvent().Command.Lookup("filter").Document()
		_, lookupErr := filter.LookupErr("is_active")
		assert.Error(mt, lookupErr, "direct id fetch must not filter on the active flag")
	})

	mt.Run("feed fetch keeps the active filter", func(mt *mtest.T) {
		repo := NewMemoryRepository(mt.DB)
		memoryID := primitive.NewObjectID()
		familyID := primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "familygrove.memories", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: memoryID},
			{Key: "family", Value: familyID},
			{Key: "is_active", Value: true},
		}))

		_, err := repo.GetFamilyMemory(context.Background(), memoryID, familyID)
		require.NoError(mt, err)

		filter := mt.GetStartedEvent().Command.Lookup("filter").Document()
		active, lookupErr := filter.LookupErr("is_active")
		require.NoError(mt, lookupErr)
		assert.True(mt, active.Boolean())
	})
}
