package events

import (
	"strconv"
	"time"
)

// EventType can be one of:
//   - training_started
//   - training_finished
//   - training_canceled
type EventType string

const (
	EventTypeTrainingStarted  EventType = "training_started"
	EventTypeTrainingFinished EventType = "training_finished"
	EventTypeTrainingCanceled EventType = "training_canceled"
)

func (et EventType) String() string {
	return string(et)
}

func (et EventType) IsValid() bool {
	switch et {
	case EventTypeTrainingStarted,
		EventTypeTrainingFinished,
		EventTypeTrainingCanceled:
		return true
	default:
		return false
	}
}

// Event records a workout lifecycle transition of a user.
type Event struct {
	ID        int               `json:"id"`
	UserID    string            `json:"userId"`
	WorkoutID string            `json:"workoutId"`
	Type      EventType         `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Data      map[string]string `json:"data"`
}

type TrainingStart struct {
	UserID      string
	WorkoutID   string
	WorkoutName string
	TemplateID  *string
	Timestamp   time.Time
}

type TrainingFinish struct {
	UserID          string
	WorkoutID       string
	Timestamp       time.Time
	DurationSeconds int
	VolumeKg        float64
	Sets            int
}

type TrainingCancel struct {
	UserID    string
	WorkoutID string
	Timestamp time.Time
}

func NewTrainingStartEvent(ts TrainingStart) Event {
	data := map[string]string{
		"name": ts.WorkoutName,
	}
	if ts.TemplateID != nil {
		data["templateId"] = *ts.TemplateID
	}
	return Event{
		UserID:    ts.UserID,
		WorkoutID: ts.WorkoutID,
		Type:      EventTypeTrainingStarted,
		Timestamp: ts.Timestamp,
		Data:      data,
	}
}

func NewTrainingFinishEvent(tf TrainingFinish) Event {
	return Event{
		UserID:    tf.UserID,
		WorkoutID: tf.WorkoutID,
		Type:      EventTypeTrainingFinished,
		Timestamp: tf.Timestamp,
		Data: map[string]string{
			"durationSeconds": strconv.Itoa(tf.DurationSeconds),
			"volumeKg":        strconv.FormatFloat(tf.VolumeKg, 'f', -1, 64),
			"sets":            strconv.Itoa(tf.Sets),
		},
	}
}

func NewTrainingCancelEvent(tc TrainingCancel) Event {
	return Event{
		UserID:    tc.UserID,
		WorkoutID: tc.WorkoutID,
		Type:      EventTypeTrainingCanceled,
		Timestamp: tc.Timestamp,
		Data:      map[string]string{},
	}
}
