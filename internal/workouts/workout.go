package workouts

import (
	"time"

	"github.com/mesut7942/my-gym-log/internal/exercises"
)

const (
	MinRPE = 1.0
	MaxRPE = 10.0
)

// Set weights are always kilograms.
type Set struct {
	ID        string   `json:"id"`
	EntryID   string   `json:"entryId"`
	SetNumber int      `json:"setNumber"`
	WeightKg  *float64 `json:"weightKg"`
	Reps      *int     `json:"reps"`
	RPE       *float64 `json:"rpe"`
	Completed bool     `json:"completed"`
}

// Volume is weight x reps, zero when either is missing.
func (s Set) Volume() float64 {
	if s.WeightKg == nil || s.Reps == nil {
		return 0
	}
	return *s.WeightKg * float64(*s.Reps)
}

type ExerciseRef struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	MuscleGroup exercises.MuscleGroup `json:"muscleGroup"`
}

type Entry struct {
	ID        string      `json:"id"`
	WorkoutID string      `json:"workoutId"`
	Exercise  ExerciseRef `json:"exercise"`
	Position  int         `json:"position"`
	Sets      []Set       `json:"sets"`
}

func (e Entry) Volume() float64 {
	var volume float64
	for _, s := range e.Sets {
		volume += s.Volume()
	}
	return volume
}

// Workout is in progress until CompletedAt is stamped.
type Workout struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	Name            string     `json:"name"`
	StartedAt       time.Time  `json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt"`
	DurationSeconds *int       `json:"durationSeconds"`
	Notes           string     `json:"notes"`
	Entries         []Entry    `json:"entries"`
}

func (w Workout) IsCompleted() bool {
	return w.CompletedAt != nil
}

func (w Workout) Volume() float64 {
	var volume float64
	for _, e := range w.Entries {
		volume += e.Volume()
	}
	return volume
}

func (w Workout) SetCount() int {
	count := 0
	for _, e := range w.Entries {
		count += len(e.Sets)
	}
	return count
}

func (w Workout) entry(entryID string) (*Entry, bool) {
	for i := range w.Entries {
		if w.Entries[i].ID == entryID {
			return &w.Entries[i], true
		}
	}
	return nil, false
}

func (w Workout) set(setID string) (*Set, bool) {
	for i := range w.Entries {
		for j := range w.Entries[i].Sets {
			if w.Entries[i].Sets[j].ID == setID {
				return &w.Entries[i].Sets[j], true
			}
		}
	}
	return nil, false
}

// PerformedEntry is one exercise entry of a completed workout, used for per-exercise history.
type PerformedEntry struct {
	WorkoutID   string    `json:"workoutId"`
	CompletedAt time.Time `json:"completedAt"`
	Sets        []Set     `json:"sets"`
}
