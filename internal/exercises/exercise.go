package exercises

import (
	"strings"
	"time"
)

type MuscleGroup string

const (
	MuscleGroupChest     MuscleGroup = "Chest"
	MuscleGroupBack      MuscleGroup = "Back"
	MuscleGroupLegs      MuscleGroup = "Legs"
	MuscleGroupShoulders MuscleGroup = "Shoulders"
	MuscleGroupArms      MuscleGroup = "Arms"
	MuscleGroupCore      MuscleGroup = "Core"
)

var MuscleGroups = []MuscleGroup{
	MuscleGroupChest,
	MuscleGroupBack,
	MuscleGroupLegs,
	MuscleGroupShoulders,
	MuscleGroupArms,
	MuscleGroupCore,
}

// ParseMuscleGroup is case-insensitive; ok is false for anything outside the fixed set.
func ParseMuscleGroup(s string) (MuscleGroup, bool) {
	s = strings.TrimSpace(s)
	for _, mg := range MuscleGroups {
		if strings.EqualFold(string(mg), s) {
			return mg, true
		}
	}
	return "", false
}

// Exercise is either part of the built-in library (OwnerID nil) or a custom one owned by a user.
type Exercise struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	MuscleGroup MuscleGroup `json:"muscleGroup"`
	Description string      `json:"description"`
	IsCustom    bool        `json:"isCustom"`
	OwnerID     *string     `json:"ownerId,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
}
