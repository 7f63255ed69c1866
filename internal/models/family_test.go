package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFamilyHasMember(t *testing.T) {
	member := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	family := Family{
		Members: []FamilyMember{
			{UserID: member, Relationship: "parent", JoinedAt: time.Now()},
		},
	}

	assert.True(t, family.HasMember(member))
	assert.False(t, family.HasMember(stranger))
}

func TestUserSummary(t *testing.T) {
	user := User{
		ID:             primitive.NewObjectID(),
		FirstName:      "Asha",
		LastName:       "Rao",
		Mobile:         "9876543210",
		HashedPassword: "secret-hash",
		ProfilePicture: "https://example.com/p.jpg",
	}

	summary := user.Summary()
	assert.Equal(t, user.ID, summary.ID)
	assert.Equal(t, "Asha", summary.FirstName)
	assert.Equal(t, "Rao", summary.LastName)
	assert.Equal(t, user.ProfilePicture, summary.ProfilePicture)
}

func TestUserFamilyIDHex(t *testing.T) {
	user := User{ID: primitive.NewObjectID()}
	assert.Empty(t, user.FamilyIDHex(), "a user without a family must produce no family claim")

	user.FamilyID = primitive.NewObjectID()
	assert.Equal(t, user.FamilyID.Hex(), user.FamilyIDHex())
}

func TestValidGender(t *testing.T) {
	assert.True(t, ValidGender(""))
	assert.True(t, ValidGender("female"))
	assert.True(t, ValidGender("male"))
	assert.True(t, ValidGender("other"))
	assert.False(t, ValidGender("unknown"))
}
