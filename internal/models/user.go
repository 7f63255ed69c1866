package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold inside the family.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User represents an account in the Family Grove system. The mobile number
// is stored in its normalized 10-digit national form and uniquely
// identifies the user.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Mobile         string             `bson:"mobile" json:"mobile"`
	HashedPassword string             `bson:"hashed_password" json:"-"`
	FirstName      string             `bson:"first_name" json:"firstName"`
	LastName       string             `bson:"last_name" json:"lastName"`
	Email          string             `bson:"email,omitempty" json:"email,omitempty"`
	DateOfBirth    *time.Time         `bson:"date_of_birth,omitempty" json:"dateOfBirth,omitempty"`
	Gender         string             `bson:"gender,omitempty" json:"gender,omitempty"`
	ProfilePicture string             `bson:"profile_picture,omitempty" json:"profilePicture,omitempty"`
	FamilyID       primitive.ObjectID `bson:"family_id,omitempty" json:"familyId,omitempty"`
	Role           string             `bson:"role" json:"role"`
	IsActive       bool               `bson:"is_active" json:"isActive"`
	LastSeen       time.Time          `bson:"last_seen" json:"lastSeen"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updatedAt"`
}

// UserSummary is the populated projection embedded in place of a user
// reference when assembling responses (author, sender, likes.user, ...).
type UserSummary struct {
	ID             primitive.ObjectID `json:"id"`
	FirstName      string             `json:"firstName"`
	LastName       string             `json:"lastName"`
	ProfilePicture string             `json:"profilePicture,omitempty"`
}

// Summary builds the populated projection of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
	}
}

// FamilyIDHex returns the family id in the form token claims carry it:
// empty when the user has no family, so the claim is omitted entirely.
func (u *User) FamilyIDHex() string {
	if u.FamilyID.IsZero() {
		return ""
	}
	return u.FamilyID.Hex()
}

// ValidGender reports whether g is one of the accepted gender values.
// Empty is allowed since the field is optional.
func ValidGender(g string) bool {
	switch g {
	case "", "male", "female", "other":
		return true
	}
	return false
}
