package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestApplyRSVPAppendsNewAttendee(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now()

	attendees := ApplyRSVP(nil, userID, RSVPGoing, now)

	require.Len(t, attendees, 1)
	assert.Equal(t, userID, attendees[0].UserID)
	assert.Equal(t, RSVPGoing, attendees[0].Status)
	require.NotNil(t, attendees[0].RespondedAt)
	assert.Equal(t, now, *attendees[0].RespondedAt)
}

func TestApplyRSVPOverwritesExistingRecord(t *testing.T) {
	userID := primitive.NewObjectID()
	first := time.Now()
	attendees := ApplyRSVP(nil, userID, RSVPGoing, first)

	later := first.Add(time.Hour)
	attendees = ApplyRSVP(attendees, userID, RSVPNotGoing, later)

	require.Len(t, attendees, 1, "changing an answer must not add a record")
	assert.Equal(t, RSVPNotGoing, attendees[0].Status)
	assert.Equal(t, later, *attendees[0].RespondedAt)
}

func TestApplyRSVPSameStatusTwice(t *testing.T) {
	userID := primitive.NewObjectID()
	now := time.Now()

	attendees := ApplyRSVP(nil, userID, RSVPMaybe, now)
	attendees = ApplyRSVP(attendees, userID, RSVPMaybe, now.Add(time.Minute))

	require.Len(t, attendees, 1)
	assert.Equal(t, RSVPMaybe, attendees[0].Status)
}

func TestApplyRSVPPendingOnAbsentUserIsNoop(t *testing.T) {
	attendees := ApplyRSVP(nil, primitive.NewObjectID(), RSVPPending, time.Now())
	assert.Empty(t, attendees)
}

func TestApplyRSVPPendingOverwritesExisting(t *testing.T) {
	userID := primitive.NewObjectID()
	attendees := ApplyRSVP(nil, userID, RSVPGoing, time.Now())

	attendees = ApplyRSVP(attendees, userID, RSVPPending, time.Now())

	require.Len(t, attendees, 1)
	assert.Equal(t, RSVPPending, attendees[0].Status)
}

func TestCountAttendees(t *testing.T) {
	attendees := []Attendee{
		{UserID: primitive.NewObjectID(), Status: RSVPGoing},
		{UserID: primitive.NewObjectID(), Status: RSVPGoing},
		{UserID: primitive.NewObjectID(), Status: RSVPMaybe},
		{UserID: primitive.NewObjectID(), Status: RSVPNotGoing},
		{UserID: primitive.NewObjectID(), Status: RSVPPending},
	}

	counts := CountAttendees(attendees)

	assert.Equal(t, 2, counts.Going)
	assert.Equal(t, 1, counts.Maybe)
	assert.Equal(t, 1, counts.NotGoing)
	assert.Equal(t, 1, counts.Pending)
}

func TestValidRSVPStatus(t *testing.T) {
	for _, status := range []string{RSVPGoing, RSVPMaybe, RSVPNotGoing, RSVPPending} {
		assert.True(t, ValidRSVPStatus(status), status)
	}
	assert.False(t, ValidRSVPStatus("attending"))
	assert.False(t, ValidRSVPStatus(""))
}

func TestValidEventType(t *testing.T) {
	assert.True(t, ValidEventType(EventTypeBirthday))
	assert.True(t, ValidEventType(EventTypeOther))
	assert.False(t, ValidEventType("party"))
}
