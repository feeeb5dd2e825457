package workouts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mesut7942/my-gym-log/internal/events"
	"github.com/mesut7942/my-gym-log/internal/exercises"
	"github.com/mesut7942/my-gym-log/internal/telemetry/metrics"
	"github.com/mesut7942/my-gym-log/internal/telemetry/tracing"
	"github.com/mesut7942/my-gym-log/internal/templates"
	"github.com/mesut7942/my-gym-log/internal/units"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=editor_mocks_test.go -package=workouts_test

const defaultWorkoutName = "Workout"

type workoutsRepo interface {
	Create(ctx context.Context, workout Workout) error
	Get(ctx context.Context, userID, id string) (*Workout, error)
	GetActive(ctx context.Context, userID string) (*Workout, error)
	AddEntry(ctx context.Context, entry Entry) (*Entry, error)
	DeleteEntry(ctx context.Context, workoutID, entryID string) error
	AddSet(ctx context.Context, set Set) (*Set, error)
	UpdateSet(ctx context.Context, set Set) error
	DeleteSet(ctx context.Context, entryID, setID string) error
	ToggleSet(ctx context.Context, entryID, setID string) (bool, error)
	Finish(ctx context.Context, userID, id string, completedAt time.Time, durationSeconds int) error
	Delete(ctx context.Context, userID, id string) error
}

type exerciseLookup interface {
	Get(ctx context.Context, userID, id string) (*exercises.Exercise, error)
}

type templateLookup interface {
	Get(ctx context.Context, userID, id string) (*templates.Template, error)
}

type eventRecorder interface {
	Record(ctx context.Context, event events.Event) (*events.Event, error)
}

type statsInvalidator interface {
	InvalidateUser(userID string)
}

// SetUpdate replaces weight, reps and RPE of a set; nil clears the value.
// Completed is left as is when nil. Weight is given in Unit.
type SetUpdate struct {
	Weight    *float64
	Unit      units.Unit
	Reps      *int
	RPE       *float64
	Completed *bool
}

func (u SetUpdate) validate() error {
	if u.Weight != nil && *u.Weight < 0 {
		return ErrInvalidSetValue
	}
	if u.Reps != nil && *u.Reps < 0 {
		return ErrInvalidSetValue
	}
	if u.RPE != nil && (*u.RPE < MinRPE || *u.RPE > MaxRPE) {
		return ErrInvalidRPE
	}
	return nil
}

// Editor drives the lifecycle of a workout session. Every mutation is written
// first and the returned workout is reloaded from the store afterwards.
type Editor struct {
	repo           workoutsRepo
	exercises      exerciseLookup
	templates      templateLookup
	events         eventRecorder
	statsCache     statsInvalidator
	metricsManager *metrics.Manager
	now            func() time.Time
}

type NewEditorParams struct {
	Repo           workoutsRepo
	Exercises      exerciseLookup
	Templates      templateLookup
	Events         eventRecorder
	StatsCache     statsInvalidator
	MetricsManager *metrics.Manager
	Now            func() time.Time
}

func NewEditor(params NewEditorParams) *Editor {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Editor{
		repo:           params.Repo,
		exercises:      params.Exercises,
		templates:      params.Templates,
		events:         params.Events,
		statsCache:     params.StatsCache,
		metricsManager: params.MetricsManager,
		now:            now,
	}
}

// Start opens a new in-progress workout, pre-populated from the template when templateID is set.
func (e *Editor) Start(ctx context.Context, userID, name string, templateID *string) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "editor.workouts.start")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workout := Workout{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		StartedAt: e.now(),
		Entries:   []Entry{},
	}

	if templateID != nil {
		span.SetAttributes(attribute.String("template.id", *templateID))
		template, err := e.templates.Get(ctx, userID, *templateID)
		if err != nil {
			return nil, err
		}
		if workout.Name == "" {
			workout.Name = template.Name
		}
		workout.Entries = entriesFromTemplate(workout.ID, template)
	}
	if workout.Name == "" {
		workout.Name = defaultWorkoutName
	}

	if err := e.repo.Create(ctx, workout); err != nil {
		return nil, err
	}

	e.metricsManager.WorkoutTransition("started")
	e.record(ctx, events.NewTrainingStartEvent(events.TrainingStart{
		UserID:      userID,
		WorkoutID:   workout.ID,
		WorkoutName: workout.Name,
		TemplateID:  templateID,
		Timestamp:   workout.StartedAt,
	}))
	e.invalidate(userID)

	return e.repo.Get(ctx, userID, workout.ID)
}

func entriesFromTemplate(workoutID string, template *templates.Template) []Entry {
	entries := make([]Entry, 0, len(template.Exercises))
	for i, te := range template.Exercises {
		entry := Entry{
			ID:        uuid.NewString(),
			WorkoutID: workoutID,
			Exercise: ExerciseRef{
				ID:          te.ExerciseID,
				Name:        te.ExerciseName,
				MuscleGroup: te.MuscleGroup,
			},
			Position: i + 1,
			Sets:     make([]Set, 0, te.TargetSets),
		}
		for n := 1; n <= te.TargetSets; n++ {
			set := Set{
				ID:        uuid.NewString(),
				EntryID:   entry.ID,
				SetNumber: n,
			}
			if te.TargetReps > 0 {
				reps := te.TargetReps
				set.Reps = &reps
			}
			entry.Sets = append(entry.Sets, set)
		}
		entries = append(entries, entry)
	}
	return entries
}

func (e *Editor) Get(ctx context.Context, userID, id string) (*Workout, error) {
	return e.repo.Get(ctx, userID, id)
}

func (e *Editor) Active(ctx context.Context, userID string) (*Workout, error) {
	return e.repo.GetActive(ctx, userID)
}

func (e *Editor) inProgress(ctx context.Context, userID, id string) (*Workout, error) {
	workout, err := e.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if workout.IsCompleted() {
		return nil, ErrWorkoutNotInProgress
	}
	return workout, nil
}

func (e *Editor) AddExercise(ctx context.Context, userID, workoutID, exerciseID string) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "editor.workouts.addExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	if _, err := e.inProgress(ctx, userID, workoutID); err != nil {
		return nil, err
	}
	exercise, err := e.exercises.Get(ctx, userID, exerciseID)
	if err != nil {
		return nil, err
	}

	if _, err := e.repo.AddEntry(ctx, Entry{
		ID:        uuid.NewString(),
		WorkoutID: workoutID,
		Exercise: ExerciseRef{
			ID:          exercise.ID,
			Name:        exercise.Name,
			MuscleGroup: exercise.MuscleGroup,
		},
	}); err != nil {
		return nil, fmt.Errorf("add entry: %w", err)
	}

	return e.reload(ctx, userID, workoutID)
}

func (e *Editor) RemoveExercise(ctx context.Context, userID, workoutID, entryID string) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "editor.workouts.removeExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workout, err := e.inProgress(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	if _, ok := workout.entry(entryID); !ok {
		return nil, ErrEntryNotFound
	}

	if err := e.repo.DeleteEntry(ctx, workoutID, entryID); err != nil {
		return nil, fmt.Errorf("delete entry: %w", err)
	}

	return e.reload(ctx, userID, workoutID)
}

// AddSet appends a set to the entry, pre-filled with the weight and reps of its last set.
func (e *Editor) AddSet(ctx context.Context, userID, workoutID, entryID string) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "editor.workouts.addSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	workout, err := e.inProgress(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	entry, ok := workout.entry(entryID)
	if !ok {
		return nil, ErrEntryNotFound
	}

	set := Set{
		ID:      uuid.NewString(),
		EntryID: entryID,
	}
	if n := len(entry.Sets); n > 0 {
		previous := entry.Sets[n-1]
		set.WeightKg = previous.WeightKg
		set.Reps = previous.Reps
	}

	if _, err := e.repo.AddSet(ctx, set); err != nil {
		return nil, fmt.Errorf("add set: %w", err)
	}
	e.metricsManager.SetLogged()

	return e.reload(ctx, userID, workoutID)
}

func (e *Editor) UpdateSet(ctx context.Context, userID, workoutID, setID string, update SetUpdate) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "editor.workouts.updateSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("set.id", setID))

	if err := update.validate(); err != nil {
		return nil, err
	}

	workout, err := e.inProgress(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	current, ok := workout.set(setID)
	if !ok {
		return nil, ErrSetNotFound
	}

	set := *current
	set.WeightKg = nil
	if update.Weight != nil {
		kg := units.ToKilograms(*update.Weight, update.Unit)
		set.WeightKg = &kg
	}
	set.Reps = update.Reps
	set.RPE = update.RPE
	if update.Completed != nil {
		set.Completed = *update.Completed
	}

	if err := e.repo.UpdateSet(ctx, set); err != nil {
		if errors.Is(err, ErrInvalidRPE) || errors.Is(err, ErrSetNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update set: %w", err)
	}

	return e.reload(ctx, userID, workoutID)
}

// RemoveSet deletes the set; the remaining sets of its entry are renumbered from 1.
func (e *Editor) RemoveSet(ctx context.Context, userID, workoutID, setID string) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "editor.workouts.removeSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("set.id", setID))

	workout, err := e.inProgress(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	set, ok := workout.set(setID)
	if !ok {
		return nil, ErrSetNotFound
	}

	if err := e.repo.DeleteSet(ctx, set.EntryID, setID); err != nil {
		return nil, fmt.Errorf("delete set: %w", err)
	}

	return e.reload(ctx, userID, workoutID)
}

func (e *Editor) ToggleSet(ctx context.Context, userID, workoutID, setID string) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "editor.workouts.toggleSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("set.id", setID))

	workout, err := e.inProgress(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	set, ok := workout.set(setID)
	if !ok {
		return nil, ErrSetNotFound
	}

	if _, err := e.repo.ToggleSet(ctx, set.EntryID, setID); err != nil {
		return nil, fmt.Errorf("toggle set: %w", err)
	}

	return e.reload(ctx, userID, workoutID)
}

// Finish stamps the completion time and the elapsed duration in whole seconds.
func (e *Editor) Finish(ctx context.Context, userID, workoutID string) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "editor.workouts.finish")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workoutID))

	workout, err := e.inProgress(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	duration := int(Elapsed(*workout, now).Seconds())
	if err := e.repo.Finish(ctx, userID, workoutID, now, duration); err != nil {
		return nil, err
	}

	e.metricsManager.WorkoutTransition("finished")
	e.record(ctx, events.NewTrainingFinishEvent(events.TrainingFinish{
		UserID:          userID,
		WorkoutID:       workoutID,
		Timestamp:       now,
		DurationSeconds: duration,
		VolumeKg:        workout.Volume(),
		Sets:            workout.SetCount(),
	}))

	return e.reload(ctx, userID, workoutID)
}

// Cancel hard-deletes an in-progress workout. Nothing happens without confirm.
func (e *Editor) Cancel(ctx context.Context, userID, workoutID string, confirm bool) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "editor.workouts.cancel")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workoutID))

	if !confirm {
		return ErrCancelNotConfirmed
	}
	if _, err := e.inProgress(ctx, userID, workoutID); err != nil {
		return err
	}

	if err := e.repo.Delete(ctx, userID, workoutID); err != nil {
		return err
	}

	e.metricsManager.WorkoutTransition("canceled")
	e.record(ctx, events.NewTrainingCancelEvent(events.TrainingCancel{
		UserID:    userID,
		WorkoutID: workoutID,
		Timestamp: e.now(),
	}))
	e.invalidate(userID)

	return nil
}

func (e *Editor) reload(ctx context.Context, userID, workoutID string) (*Workout, error) {
	e.invalidate(userID)
	workout, err := e.repo.Get(ctx, userID, workoutID)
	if err != nil {
		return nil, fmt.Errorf("reload workout: %w", err)
	}
	return workout, nil
}

func (e *Editor) invalidate(userID string) {
	if e.statsCache != nil {
		e.statsCache.InvalidateUser(userID)
	}
}

func (e *Editor) record(ctx context.Context, event events.Event) {
	if e.events == nil {
		return
	}
	if _, err := e.events.Record(ctx, event); err != nil {
		log.Errorf("record %s event for workout %s: %s", event.Type, event.WorkoutID, err)
	}
}
