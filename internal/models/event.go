package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RSVP statuses. A missing response keeps the stored record at pending;
// attendee records are never deleted once created.
const (
	RSVPGoing    = "going"
	RSVPMaybe    = "maybe"
	RSVPNotGoing = "not_going"
	RSVPPending  = "pending"
)

// ValidRSVPStatus reports whether s belongs to the closed RSVP enum.
func ValidRSVPStatus(s string) bool {
	switch s {
	case RSVPGoing, RSVPMaybe, RSVPNotGoing, RSVPPending:
		return true
	}
	return false
}

// Event types.
const (
	EventTypeBirthday    = "birthday"
	EventTypeAnniversary = "anniversary"
	EventTypeReunion     = "reunion"
	EventTypeCelebration = "celebration"
	EventTypeMeeting     = "meeting"
	EventTypeOther       = "other"
)

// ValidEventType reports whether t belongs to the event type enum.
func ValidEventType(t string) bool {
	switch t {
	case EventTypeBirthday, EventTypeAnniversary, EventTypeReunion,
		EventTypeCelebration, EventTypeMeeting, EventTypeOther:
		return true
	}
	return false
}

// Attendee is the per-user RSVP record on an event; exactly one per user.
type Attendee struct {
	UserID      primitive.ObjectID `bson:"user" json:"userId"`
	Status      string             `bson:"status" json:"status"`
	RespondedAt *time.Time         `bson:"responded_at,omitempty" json:"respondedAt,omitempty"`
}

// Coordinates is an optional lat/long pair on a location.
type Coordinates struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
}

// Location is a free-form address with optional coordinates.
type Location struct {
	Address     string       `bson:"address,omitempty" json:"address,omitempty"`
	Coordinates *Coordinates `bson:"coordinates,omitempty" json:"coordinates,omitempty"`
}

// Event is a family calendar entry with its attendee list. EventDate is
// stored in UTC; EventTime stays a display string.
type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	EventDate   time.Time          `bson:"event_date" json:"eventDate"`
	EventTime   string             `bson:"event_time" json:"eventTime"`
	Location    Location           `bson:"location,omitempty" json:"location,omitempty"`
	CreatedBy   primitive.ObjectID `bson:"created_by" json:"createdBy"`
	FamilyID    primitive.ObjectID `bson:"family" json:"familyId"`
	Type        string             `bson:"event_type" json:"eventType"`
	Images      []string           `bson:"images" json:"images"`
	Attendees   []Attendee         `bson:"attendees" json:"attendees"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// ApplyRSVP applies the RSVP transition for userID on the attendee list:
// an existing entry is overwritten in place, otherwise a new entry is
// appended. A pending request against an absent record is a no-op. The
// list never holds more than one entry per user.
func ApplyRSVP(attendees []Attendee, userID primitive.ObjectID, status string, now time.Time) []Attendee {
	for i := range attendees {
		if attendees[i].UserID == userID {
			attendees[i].Status = status
			attendees[i].RespondedAt = &now
			return attendees
		}
	}
	if status == RSVPPending {
		return attendees
	}
	return append(attendees, Attendee{UserID: userID, Status: status, RespondedAt: &now})
}

// AttendeeCounts is the per-status breakdown returned after an RSVP.
type AttendeeCounts struct {
	Going    int `json:"going"`
	Maybe    int `json:"maybe"`
	NotGoing int `json:"notGoing"`
	Pending  int `json:"pending"`
}

// CountAttendees tallies the attendee list by status.
func CountAttendees(attendees []Attendee) AttendeeCounts {
	var counts AttendeeCounts
	for _, a := range attendees {
		switch a.Status {
		case RSVPGoing:
			counts.Going++
		case RSVPMaybe:
			counts.Maybe++
		case RSVPNotGoing:
			counts.NotGoing++
		case RSVPPending:
			counts.Pending++
		}
	}
	return counts
}

// AttendeeView and EventView are the populated projections.
type AttendeeView struct {
	User        UserSummary `json:"user"`
	Status      string      `json:"status"`
	RespondedAt *time.Time  `json:"respondedAt,omitempty"`
}

type EventView struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	EventDate   time.Time          `json:"eventDate"`
	EventTime   string             `json:"eventTime"`
	Location    Location           `json:"location,omitempty"`
	CreatedBy   UserSummary        `json:"createdBy"`
	Type        string             `json:"eventType"`
	Images      []string           `json:"images"`
	Attendees   []AttendeeView     `json:"attendees"`
	IsActive    bool               `json:"isActive"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}
