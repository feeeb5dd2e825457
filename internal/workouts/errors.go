package workouts

import "errors"

var (
	ErrWorkoutNotFound      = errors.New("workout not found")
	ErrEntryNotFound        = errors.New("exercise entry not found")
	ErrSetNotFound          = errors.New("set not found")
	ErrWorkoutNotInProgress = errors.New("workout is not in progress")
	ErrWorkoutAlreadyActive = errors.New("another workout is already in progress")
	ErrCancelNotConfirmed   = errors.New("cancel requires confirmation")
	ErrInvalidRPE           = errors.New("rpe must be between 1 and 10")
	ErrInvalidSetValue      = errors.New("weight and reps must not be negative")
)
