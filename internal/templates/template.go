package templates

import (
	"time"

	"github.com/mesut7942/my-gym-log/internal/exercises"
)

// Template is a saved, reusable list of exercises with target set/rep counts.
type Template struct {
	ID          string             `json:"id"`
	UserID      string             `json:"userId"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Exercises   []TemplateExercise `json:"exercises"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type TemplateExercise struct {
	ID           string                `json:"id"`
	ExerciseID   string                `json:"exerciseId"`
	ExerciseName string                `json:"exerciseName"`
	MuscleGroup  exercises.MuscleGroup `json:"muscleGroup"`
	Position     int                   `json:"position"`
	TargetSets   int                   `json:"targetSets"`
	TargetReps   int                   `json:"targetReps"`
}
