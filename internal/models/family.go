package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FamilyMember is one entry in a family's ordered membership list.
type FamilyMember struct {
	UserID       primitive.ObjectID `bson:"user" json:"userId"`
	Relationship string             `bson:"relationship,omitempty" json:"relationship,omitempty"`
	JoinedAt     time.Time          `bson:"joined_at" json:"joinedAt"`
}

// Family is the single tenant scoping all content. In the canonical flow
// exactly one family exists system-wide, created by the first registrant;
// the unique index on name backs that invariant at the data layer.
type Family struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	FamilyCode  string             `bson:"family_code" json:"familyCode"`
	AdminID     primitive.ObjectID `bson:"admin" json:"adminId"`
	Members     []FamilyMember     `bson:"members" json:"members"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// HasMember reports whether userID already appears in the membership list.
func (f *Family) HasMember(userID primitive.ObjectID) bool {
	for _, m := range f.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// FamilySummary is what auth responses embed for the user's family.
type FamilySummary struct {
	ID         primitive.ObjectID `json:"id"`
	Name       string             `json:"name"`
	FamilyCode string             `json:"familyCode"`
}

// Summary builds the compact family projection.
func (f *Family) Summary() FamilySummary {
	return FamilySummary{ID: f.ID, Name: f.Name, FamilyCode: f.FamilyCode}
}

// FamilyMemberView is a membership entry with the user reference populated.
type FamilyMemberView struct {
	User         UserSummary `json:"user"`
	Relationship string      `json:"relationship,omitempty"`
	JoinedAt     time.Time   `json:"joinedAt"`
	LastSeen     time.Time   `json:"lastSeen,omitempty"`
}

// FamilyView is the fully populated family returned by GET /family.
type FamilyView struct {
	ID          primitive.ObjectID `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	FamilyCode  string             `json:"familyCode"`
	Admin       UserSummary        `json:"admin"`
	Members     []FamilyMemberView `json:"members"`
	CreatedAt   time.Time          `json:"createdAt"`
}
