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

// EventRepository handles database operations on the events collection.
type EventRepository struct {
	collection *mongo.Collection
}

// NewEventRepository creates a new instance of EventRepository.
func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{
		collection: db.Collection("events"),
	}
}

// CreateEvent inserts a new event.
func (r *EventRepository) CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt

	result, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert event")
		return nil, fmt.Errorf("failed to insert event: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	event.ID = insertedID

	logger.Log.WithField("event_id", event.ID.Hex()).Info("Event created successfully")
	return event, nil
}

// GetFamilyEvent fetches an active event scoped to a family.
func (r *EventRepository) GetFamilyEvent(ctx context.Context, eventID, familyID primitive.ObjectID) (*models.Event, error) {
	var event models.Event
	filter := bson.M{"_id": eventID, "family": familyID, "is_active": true}
	if err := r.collection.FindOne(ctx, filter).Decode(&event); err != nil {
		return nil, err
	}
	return &event, nil
}

// GetEventByID fetches an event by id regardless of the active flag, for
// audit access. Still family scoped.
func (r *EventRepository) GetEventByID(ctx context.Context, eventID, familyID primitive.ObjectID) (*models.Event, error) {
	var event models.Event
	filter := bson.M{"_id": eventID, "family": familyID}
	if err := r.collection.FindOne(ctx, filter).Decode(&event); err != nil {
		return nil, err
	}
	return &event, nil
}

// GetFamilyEvents returns a family's active events sorted by date
// ascending, optionally restricted to events from now on.
func (r *EventRepository) GetFamilyEvents(ctx context.Context, familyID primitive.ObjectID, upcomingOnly bool) ([]models.Event, error) {
	filter := bson.M{"family": familyID, "is_active": true}
	if upcomingOnly {
		filter["event_date"] = bson.M{"$gte": time.Now().UTC()}
	}

	opts := options.Find().SetSort(bson.D{{Key: "event_date", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		logger.Log.WithError(err).WithField("family_id", familyID.Hex()).Error("Failed to fetch events")
		return nil, fmt.Errorf("failed to fetch events: %v", err)
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %v", err)
	}
	return events, nil
}

// GetEventsBetween returns all active events in [from, to) across families;
// the reminder job scans with this.
func (r *EventRepository) GetEventsBetween(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	filter := bson.M{
		"is_active":  true,
		"event_date": bson.M{"$gte": from, "$lt": to},
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events in range: %v", err)
	}
	defer cursor.Close(ctx)

	var events []models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %v", err)
	}
	return events, nil
}

// UpdateAttendeeStatus rewrites the status of an existing attendee entry in
// place via the positional operator. Returns false when the user has no
// entry on the event yet.
func (r *EventRepository) UpdateAttendeeStatus(ctx context.Context, eventID, familyID, userID primitive.ObjectID, status string) (bool, error) {
	now := time.Now()
	filter := bson.M{
		"_id":            eventID,
		"family":         familyID,
		"is_active":      true,
		"attendees.user": userID,
	}
	update := bson.M{"$set": bson.M{
		"attendees.$.status":       status,
		"attendees.$.responded_at": now,
		"updated_at":               now,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to update attendee status: %v", err)
	}
	return result.MatchedCount > 0, nil
}

// AddAttendee appends a new attendee entry unless one already exists for
// the user; paired with UpdateAttendeeStatus it keeps the one-entry-per-
// user invariant under concurrent RSVPs.
func (r *EventRepository) AddAttendee(ctx context.Context, eventID, familyID primitive.ObjectID, attendee models.Attendee) (bool, error) {
	now := time.Now()
	filter := bson.M{
		"_id":            eventID,
		"family":         familyID,
		"is_active":      true,
		"attendees.user": bson.M{"$ne": attendee.UserID},
	}
	update := bson.M{
		"$push": bson.M{"attendees": attendee},
		"$set":  bson.M{"updated_at": now},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to add attendee: %v", err)
	}
	return result.ModifiedCount > 0, nil
}

// UpdateEvent applies a partial field update.
func (r *EventRepository) UpdateEvent(ctx context.Context, eventID primitive.ObjectID, update map[string]interface{}) error {
	update["updated_at"] = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": eventID}, bson.M{"$set": update})
	if err != nil {
		logger.Log.WithError(err).WithField("event_id", eventID.Hex()).Error("Failed to update event")
		return fmt.Errorf("failed to update event: %v", err)
	}
	return nil
}

// SoftDeleteEvent flips the active flag.
func (r *EventRepository) SoftDeleteEvent(ctx context.Context, eventID primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": eventID}, update)
	if err != nil {
		return fmt.Errorf("failed to delete event: %v", err)
	}

	logger.Log.WithField("event_id", eventID.Hex()).Info("Event soft deleted")
	return nil
}
