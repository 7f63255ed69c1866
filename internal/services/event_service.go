package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/familygrove/familygrove/internal/models"
	"github.com/familygrove/familygrove/internal/repository"
	"github.com/familygrove/familygrove/pkg/apperr"
	"github.com/familygrove/familygrove/pkg/logger"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventService encapsulates the business logic for events and RSVPs.
type EventService struct {
	repo      *repository.EventRepository
	populator *Populator
}

// NewEventService creates a new instance of EventService.
func NewEventService(repo *repository.EventRepository, populator *Populator) *EventService {
	return &EventService{
		repo:      repo,
		populator: populator,
	}
}

// EventInput is the validated payload for creating or updating an event.
type EventInput struct {
	Title       string
	Description string
	EventDate   time.Time
	EventTime   string
	Location    models.Location
	Type        string
	Images      []string
}

// CreateEvent stores a new event with the creator recorded as going.
func (s *EventService) CreateEvent(ctx context.Context, user *models.User, input EventInput) (*models.EventView, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, apperr.Validation("Event title is required",
			apperr.FieldError{Field: "title", Message: "cannot be empty"})
	}
	if input.EventDate.IsZero() {
		return nil, apperr.Validation("Valid event date is required",
			apperr.FieldError{Field: "eventDate", Message: "must be an RFC 3339 date"})
	}
	if strings.TrimSpace(input.EventTime) == "" {
		return nil, apperr.Validation("Event time is required",
			apperr.FieldError{Field: "eventTime", Message: "cannot be empty"})
	}
	if input.Type == "" {
		input.Type = models.EventTypeOther
	}
	if !models.ValidEventType(input.Type) {
		return nil, apperr.Validation("Invalid event type",
			apperr.FieldError{Field: "eventType", Message: "unknown event type"})
	}

	now := time.Now()
	event := &models.Event{
		Title:       input.Title,
		Description: input.Description,
		EventDate:   input.EventDate.UTC(),
		EventTime:   input.EventTime,
		Location:    input.Location,
		CreatedBy:   user.ID,
		FamilyID:    user.FamilyID,
		Type:        input.Type,
		Images:      input.Images,
		// The creator is automatically going.
		Attendees: models.ApplyRSVP(nil, user.ID, models.RSVPGoing, now),
		IsActive:  true,
	}
	if event.Images == nil {
		event.Images = []string{}
	}

	created, err := s.repo.CreateEvent(ctx, event)
	if err != nil {
		return nil, apperr.Server("Server error creating event", err)
	}

	logger.Log.WithField("event_id", created.ID.Hex()).Info("Event created in service layer")
	return s.buildView(ctx, created)
}

// GetEvents lists the family's events, date ascending, optionally upcoming
// only.
func (s *EventService) GetEvents(ctx context.Context, familyID primitive.ObjectID, upcomingOnly bool) ([]models.EventView, error) {
	events, err := s.repo.GetFamilyEvents(ctx, familyID, upcomingOnly)
	if err != nil {
		return nil, apperr.Server("Server error fetching events", err)
	}

	var refs []primitive.ObjectID
	for i := range events {
		refs = append(refs, events[i].CreatedBy)
		for _, a := range events[i].Attendees {
			refs = append(refs, a.UserID)
		}
	}
	summaries, err := s.populator.Summaries(ctx, refs)
	if err != nil {
		return nil, apperr.Server("Server error fetching events", err)
	}

	views := make([]models.EventView, 0, len(events))
	for i := range events {
		views = append(views, projectEvent(&events[i], summaries))
	}
	return views, nil
}

// GetEvent fetches one event by id, ignoring the active flag for audit.
func (s *EventService) GetEvent(ctx context.Context, familyID primitive.ObjectID, eventID string) (*models.EventView, error) {
	objID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, apperr.NotFound("Event not found")
	}

	event, err := s.repo.GetEventByID(ctx, objID, familyID)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return nil, apperr.NotFound("Event not found")
		}
		return nil, apperr.Server("Server error fetching event", err)
	}
	return s.buildView(ctx, event)
}

// SetRSVP applies the caller's RSVP on an event. The attendee entry is
// upserted atomically: existing entries are overwritten in place, so one
// user never holds two records. Returns the final status and breakdown.
func (s *EventService) SetRSVP(ctx context.Context, user *models.User, eventID, status string) (string, models.AttendeeCounts, error) {
	if !models.ValidRSVPStatus(status) {
		return "", models.AttendeeCounts{}, apperr.Validation("Invalid RSVP status",
			apperr.FieldError{Field: "status", Message: "must be one of going, maybe, not_going, pending"})
	}

	objID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return "", models.AttendeeCounts{}, apperr.NotFound("Event not found")
	}

	updated, err := s.repo.UpdateAttendeeStatus(ctx, objID, user.FamilyID, user.ID, status)
	if err != nil {
		return "", models.AttendeeCounts{}, apperr.Server("Server error updating RSVP", err)
	}
	if !updated {
		// First answer from this user: append the record the transition
		// produces. A pending answer for an absent record produces none.
		for _, attendee := range models.ApplyRSVP(nil, user.ID, status, time.Now()) {
			if _, err := s.repo.AddAttendee(ctx, objID, user.FamilyID, attendee); err != nil {
				return "", models.AttendeeCounts{}, apperr.Server("Server error updating RSVP", err)
			}
		}
	}

	// Re-read to confirm scope and return the fresh breakdown; an event
	// outside the caller's family never matched any update above.
	event, err := s.repo.GetFamilyEvent(ctx, objID, user.FamilyID)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return "", models.AttendeeCounts{}, apperr.NotFound("Event not found")
		}
		return "", models.AttendeeCounts{}, apperr.Server("Server error updating RSVP", err)
	}

	logrus.WithFields(logrus.Fields{
		"eventID": eventID,
		"userID":  user.ID.Hex(),
		"status":  status,
	}).Info("RSVP updated")
	return status, models.CountAttendees(event.Attendees), nil
}

// UpdateEvent applies a partial update; only the creator or an admin may.
func (s *EventService) UpdateEvent(ctx context.Context, user *models.User, eventID string, input EventUpdate) (*models.EventView, error) {
	objID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, apperr.NotFound("Event not found")
	}

	event, err := s.repo.GetFamilyEvent(ctx, objID, user.FamilyID)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return nil, apperr.NotFound("Event not found")
		}
		return nil, apperr.Server("Server error updating event", err)
	}

	if event.CreatedBy != user.ID && user.Role != models.RoleAdmin {
		return nil, apperr.Authorization("You can only update events you created")
	}

	update := map[string]interface{}{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, apperr.Validation("Event title cannot be empty",
				apperr.FieldError{Field: "title", Message: "cannot be empty"})
		}
		update["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		update["description"] = *input.Description
	}
	if input.EventDate != nil {
		update["event_date"] = input.EventDate.UTC()
	}
	if input.EventTime != nil {
		if strings.TrimSpace(*input.EventTime) == "" {
			return nil, apperr.Validation("Event time cannot be empty",
				apperr.FieldError{Field: "eventTime", Message: "cannot be empty"})
		}
		update["event_time"] = *input.EventTime
	}
	if input.Location != nil {
		update["location"] = *input.Location
	}
	if input.Type != nil {
		if !models.ValidEventType(*input.Type) {
			return nil, apperr.Validation("Invalid event type",
				apperr.FieldError{Field: "eventType", Message: "unknown event type"})
		}
		update["event_type"] = *input.Type
	}
	if input.Images != nil {
		update["images"] = input.Images
	}
	if len(update) == 0 {
		return nil, apperr.Validation("No event fields to update")
	}

	if err := s.repo.UpdateEvent(ctx, objID, update); err != nil {
		return nil, apperr.Server("Server error updating event", err)
	}

	fresh, err := s.repo.GetFamilyEvent(ctx, objID, user.FamilyID)
	if err != nil {
		return nil, apperr.Server("Server error updating event", err)
	}
	return s.buildView(ctx, fresh)
}

// EventUpdate is the accepted partial update of PUT /events/:id.
type EventUpdate struct {
	Title       *string
	Description *string
	EventDate   *time.Time
	EventTime   *string
	Location    *models.Location
	Type        *string
	Images      []string
}

// DeleteEvent soft-deletes an event; only the creator or an admin may.
func (s *EventService) DeleteEvent(ctx context.Context, user *models.User, eventID string) error {
	objID, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return apperr.NotFound("Event not found")
	}

	event, err := s.repo.GetFamilyEvent(ctx, objID, user.FamilyID)
	if err != nil {
		if errors.Is(err, repository.ErrNoDocuments) {
			return apperr.NotFound("Event not found")
		}
		return apperr.Server("Server error deleting event", err)
	}

	if event.CreatedBy != user.ID && user.Role != models.RoleAdmin {
		return apperr.Authorization("You can only delete events you created")
	}

	if err := s.repo.SoftDeleteEvent(ctx, objID); err != nil {
		return apperr.Server("Server error deleting event", err)
	}
	return nil
}

func (s *EventService) buildView(ctx context.Context, event *models.Event) (*models.EventView, error) {
	refs := []primitive.ObjectID{event.CreatedBy}
	for _, a := range event.Attendees {
		refs = append(refs, a.UserID)
	}

	summaries, err := s.populator.Summaries(ctx, refs)
	if err != nil {
		return nil, apperr.Server("Server error fetching event", err)
	}

	view := projectEvent(event, summaries)
	return &view, nil
}

func projectEvent(event *models.Event, summaries map[primitive.ObjectID]models.UserSummary) models.EventView {
	attendees := make([]models.AttendeeView, 0, len(event.Attendees))
	for _, a := range event.Attendees {
		attendees = append(attendees, models.AttendeeView{
			User:        summaries[a.UserID],
			Status:      a.Status,
			RespondedAt: a.RespondedAt,
		})
	}
	return models.EventView{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		EventDate:   event.EventDate,
		EventTime:   event.EventTime,
		Location:    event.Location,
		CreatedBy:   summaries[event.CreatedBy],
		Type:        event.Type,
		Images:      event.Images,
		Attendees:   attendees,
		IsActive:    event.IsActive,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}
