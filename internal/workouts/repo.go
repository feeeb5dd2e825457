package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mesut7942/my-gym-log/internal/exercises"
	"github.com/mesut7942/my-gym-log/internal/telemetry/tracing"
	"github.com/mesut7942/my-gym-log/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const selectWorkoutsSQL = `
	SELECT
		w.id, w.user_id, w.name, w.started_at, w.completed_at, w.duration_seconds, w.notes,
		we.id, we.position, e.id, e.name, e.muscle_group,
		ws.id, ws.set_number, ws.weight_kg, ws.reps, ws.rpe, ws.completed
	FROM workout w
	LEFT JOIN workout_exercise we ON we.workout_id = w.id
	LEFT JOIN exercise e ON e.id = we.exercise_id
	LEFT JOIN workout_set ws ON ws.workout_exercise_id = we.id
`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Create inserts the workout with its entries and sets in one transaction.
func (r *Repo) Create(ctx context.Context, workout Workout) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", workout.ID))

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO workout (id, user_id, name, started_at, completed_at, duration_seconds, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7);`,
			workout.ID, workout.UserID, workout.Name, workout.StartedAt,
			workout.CompletedAt, workout.DurationSeconds, workout.Notes,
		); err != nil {
			return err
		}

		for _, entry := range workout.Entries {
			if _, err := tx.Exec(ctx, `
				INSERT INTO workout_exercise (id, workout_id, exercise_id, position)
				VALUES ($1, $2, $3, $4);`,
				entry.ID, workout.ID, entry.Exercise.ID, entry.Position,
			); err != nil {
				return err
			}
			for _, set := range entry.Sets {
				if err := insertSet(ctx, tx, entry.ID, set); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case pkg.IsUniqueViolationError(err):
			return ErrWorkoutAlreadyActive
		case pkg.IsForeignKeyViolationError(err):
			return exercises.ErrExerciseNotFound
		}
		return fmt.Errorf("create workout: %w", err)
	}
	return nil
}

func insertSet(ctx context.Context, tx pgx.Tx, entryID string, set Set) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO workout_set (id, workout_exercise_id, set_number, weight_kg, reps, rpe, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`,
		set.ID, entryID, set.SetNumber, set.WeightKg, set.Reps, set.RPE, set.Completed,
	)
	return err
}

func (r *Repo) Get(ctx context.Context, userID, id string) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	rows, err := r.db.Query(ctx, selectWorkoutsSQL+`
		WHERE w.id = $1 AND w.user_id = $2
		ORDER BY we.position, ws.set_number;`,
		id, userID,
	)
	if err != nil {
		return nil, err
	}

	workouts, err := collectWorkouts(rows)
	if err != nil {
		return nil, err
	}
	if len(workouts) == 0 {
		return nil, ErrWorkoutNotFound
	}
	return &workouts[0], nil
}

// GetActive returns the in-progress workout of the user.
func (r *Repo) GetActive(ctx context.Context, userID string) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.getActive")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, selectWorkoutsSQL+`
		WHERE w.user_id = $1 AND w.completed_at IS NULL
		ORDER BY w.started_at DESC, w.id, we.position, ws.set_number;`,
		userID,
	)
	if err != nil {
		return nil, err
	}

	workouts, err := collectWorkouts(rows)
	if err != nil {
		return nil, err
	}
	if len(workouts) == 0 {
		return nil, ErrWorkoutNotFound
	}
	return &workouts[0], nil
}

// ListCompleted returns all completed workouts of the user, most recently completed first.
func (r *Repo) ListCompleted(ctx context.Context, userID string) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listCompleted")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, selectWorkoutsSQL+`
		WHERE w.user_id = $1 AND w.completed_at IS NOT NULL
		ORDER BY w.completed_at DESC, w.id, we.position, ws.set_number;`,
		userID,
	)
	if err != nil {
		return nil, err
	}

	workouts, err := collectWorkouts(rows)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("workouts.count", len(workouts)))
	return workouts, nil
}

// ListPerformedEntries returns the entries of one exercise from the user's completed workouts.
func (r *Repo) ListPerformedEntries(ctx context.Context, userID, exerciseID string) (_ []PerformedEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.listPerformedEntries")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", exerciseID))

	rows, err := r.db.Query(ctx, `
		SELECT w.id, w.completed_at, we.id,
			ws.id, ws.set_number, ws.weight_kg, ws.reps, ws.rpe, ws.completed
		FROM workout_exercise we
		JOIN workout w ON w.id = we.workout_id
		LEFT JOIN workout_set ws ON ws.workout_exercise_id = we.id
		WHERE w.user_id = $1 AND we.exercise_id = $2 AND w.completed_at IS NOT NULL
		ORDER BY w.completed_at, we.id, ws.set_number;`,
		userID, exerciseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		entries     []PerformedEntry
		lastEntryID string
	)
	for rows.Next() {
		var (
			workoutID, entryID string
			completedAt        time.Time
			s                  nullableSet
		)
		if err := rows.Scan(
			&workoutID, &completedAt, &entryID,
			&s.id, &s.setNumber, &s.weightKg, &s.reps, &s.rpe, &s.completed,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		if entryID != lastEntryID {
			entries = append(entries, PerformedEntry{
				WorkoutID:   workoutID,
				CompletedAt: completedAt,
				Sets:        []Set{},
			})
			lastEntryID = entryID
		}
		if set, ok := s.toSet(entryID); ok {
			last := &entries[len(entries)-1]
			last.Sets = append(last.Sets, set)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// AddEntry appends the entry at the next position of the workout.
func (r *Repo) AddEntry(ctx context.Context, entry Entry) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.addEntry")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", entry.WorkoutID))

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockInProgressWorkout(ctx, tx, entry.WorkoutID); err != nil {
			return err
		}
		return tx.QueryRow(ctx, `
			INSERT INTO workout_exercise (id, workout_id, exercise_id, position)
			SELECT $1, $2, $3, COALESCE(MAX(position), 0) + 1
			FROM workout_exercise WHERE workout_id = $2
			RETURNING position;`,
			entry.ID, entry.WorkoutID, entry.Exercise.ID,
		).Scan(&entry.Position)
	})
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, exercises.ErrExerciseNotFound
		}
		return nil, err
	}

	if entry.Sets == nil {
		entry.Sets = []Set{}
	}
	return &entry, nil
}

func (r *Repo) DeleteEntry(ctx context.Context, workoutID, entryID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.deleteEntry")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("entry.id", entryID))

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockInProgressWorkout(ctx, tx, workoutID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx,
			`DELETE FROM workout_exercise WHERE id = $1 AND workout_id = $2;`,
			entryID, workoutID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrEntryNotFound
		}
		return nil
	})
}

// AddSet appends the set to the entry, numbering it densely after the existing ones.
func (r *Repo) AddSet(ctx context.Context, set Set) (_ *Set, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.addSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("entry.id", set.EntryID))

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockEntryWorkout(ctx, tx, set.EntryID); err != nil {
			return err
		}
		return tx.QueryRow(ctx, `
			INSERT INTO workout_set (id, workout_exercise_id, set_number, weight_kg, reps, rpe, completed)
			SELECT $1, $2, COALESCE(MAX(set_number), 0) + 1, $3, $4, $5, $6
			FROM workout_set WHERE workout_exercise_id = $2
			RETURNING set_number;`,
			set.ID, set.EntryID, set.WeightKg, set.Reps, set.RPE, set.Completed,
		).Scan(&set.SetNumber)
	})
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *Repo) UpdateSet(ctx context.Context, set Set) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.updateSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("set.id", set.ID))

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockEntryWorkout(ctx, tx, set.EntryID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `
			UPDATE workout_set SET weight_kg = $1, reps = $2, rpe = $3, completed = $4
			WHERE id = $5 AND workout_exercise_id = $6;`,
			set.WeightKg, set.Reps, set.RPE, set.Completed, set.ID, set.EntryID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrSetNotFound
		}
		return nil
	})
	if pkg.IsCheckViolationError(err) {
		return ErrInvalidRPE
	}
	return err
}

// DeleteSet removes the set and renumbers the remaining sets of the entry from 1.
func (r *Repo) DeleteSet(ctx context.Context, entryID, setID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.deleteSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("set.id", setID))

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockEntryWorkout(ctx, tx, entryID); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx,
			`DELETE FROM workout_set WHERE id = $1 AND workout_exercise_id = $2;`,
			setID, entryID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrSetNotFound
		}

		_, err = tx.Exec(ctx, `
			UPDATE workout_set ws SET set_number = numbered.rn
			FROM (
				SELECT id, ROW_NUMBER() OVER (ORDER BY set_number) AS rn
				FROM workout_set WHERE workout_exercise_id = $1
			) numbered
			WHERE ws.id = numbered.id AND ws.set_number <> numbered.rn;`,
			entryID,
		)
		return err
	})
}

// ToggleSet flips the completion flag and returns the new value.
func (r *Repo) ToggleSet(ctx context.Context, entryID, setID string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.toggleSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("set.id", setID))

	var completed bool
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockEntryWorkout(ctx, tx, entryID); err != nil {
			return err
		}
		err := tx.QueryRow(ctx, `
			UPDATE workout_set SET completed = NOT completed
			WHERE id = $1 AND workout_exercise_id = $2
			RETURNING completed;`,
			setID, entryID,
		).Scan(&completed)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSetNotFound
		}
		return err
	})
	if err != nil {
		return false, err
	}
	return completed, nil
}

// Finish stamps the completion of an in-progress workout.
func (r *Repo) Finish(ctx context.Context, userID, id string, completedAt time.Time, durationSeconds int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.finish")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	tag, err := r.db.Exec(ctx, `
		UPDATE workout SET completed_at = $1, duration_seconds = $2
		WHERE id = $3 AND user_id = $4 AND completed_at IS NULL;`,
		completedAt, durationSeconds, id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotInProgress
	}
	return nil
}

// Delete hard-deletes an in-progress workout; entries and sets go with it (ON DELETE CASCADE).
func (r *Repo) Delete(ctx context.Context, userID, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	tag, err := r.db.Exec(ctx,
		`DELETE FROM workout WHERE id = $1 AND user_id = $2 AND completed_at IS NULL;`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotInProgress
	}
	return nil
}

// lockInProgressWorkout takes the workout row lock, so a concurrent Finish or Delete
// waits for the write to commit.
func lockInProgressWorkout(ctx context.Context, tx pgx.Tx, workoutID string) error {
	var completed bool
	err := tx.QueryRow(ctx,
		`SELECT completed_at IS NOT NULL FROM workout WHERE id = $1 FOR UPDATE;`,
		workoutID,
	).Scan(&completed)
	return inProgressErr(err, completed, ErrWorkoutNotFound)
}

// lockEntryWorkout is lockInProgressWorkout for the workout owning the entry.
func lockEntryWorkout(ctx context.Context, tx pgx.Tx, entryID string) error {
	var completed bool
	err := tx.QueryRow(ctx, `
		SELECT w.completed_at IS NOT NULL
		FROM workout w
		JOIN workout_exercise we ON we.workout_id = w.id
		WHERE we.id = $1
		FOR UPDATE OF w;`,
		entryID,
	).Scan(&completed)
	return inProgressErr(err, completed, ErrEntryNotFound)
}

func inProgressErr(err error, completed bool, notFoundErr error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return notFoundErr
	case err != nil:
		return err
	case completed:
		return ErrWorkoutNotInProgress
	}
	return nil
}

type nullableSet struct {
	id        *string
	setNumber *int
	weightKg  *float64
	reps      *int
	rpe       *float64
	completed *bool
}

func (s nullableSet) toSet(entryID string) (Set, bool) {
	if s.id == nil {
		return Set{}, false
	}
	set := Set{
		ID:       *s.id,
		EntryID:  entryID,
		WeightKg: s.weightKg,
		Reps:     s.reps,
		RPE:      s.rpe,
	}
	if s.setNumber != nil {
		set.SetNumber = *s.setNumber
	}
	if s.completed != nil {
		set.Completed = *s.completed
	}
	return set, true
}

// collectWorkouts folds the workout/entry/set join rows into nested workouts, keeping row order.
func collectWorkouts(rows pgx.Rows) ([]Workout, error) {
	defer rows.Close()

	workouts := make([]Workout, 0)
	workoutIdx := make(map[string]int)
	entryIdx := make(map[string]int)

	for rows.Next() {
		var (
			w           Workout
			entryID     *string
			position    *int
			exerciseID  *string
			exName      *string
			muscleGroup *string
			s           nullableSet
		)
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.Name, &w.StartedAt, &w.CompletedAt, &w.DurationSeconds, &w.Notes,
			&entryID, &position, &exerciseID, &exName, &muscleGroup,
			&s.id, &s.setNumber, &s.weightKg, &s.reps, &s.rpe, &s.completed,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}

		wi, ok := workoutIdx[w.ID]
		if !ok {
			w.Entries = []Entry{}
			workouts = append(workouts, w)
			wi = len(workouts) - 1
			workoutIdx[w.ID] = wi
		}
		if entryID == nil {
			continue
		}

		ei, ok := entryIdx[*entryID]
		if !ok {
			entry := Entry{
				ID:        *entryID,
				WorkoutID: w.ID,
				Sets:      []Set{},
			}
			if position != nil {
				entry.Position = *position
			}
			if exerciseID != nil {
				entry.Exercise.ID = *exerciseID
			}
			if exName != nil {
				entry.Exercise.Name = *exName
			}
			if muscleGroup != nil {
				entry.Exercise.MuscleGroup = exercises.MuscleGroup(*muscleGroup)
			}
			workouts[wi].Entries = append(workouts[wi].Entries, entry)
			ei = len(workouts[wi].Entries) - 1
			entryIdx[*entryID] = ei
		}

		if set, ok := s.toSet(*entryID); ok {
			workouts[wi].Entries[ei].Sets = append(workouts[wi].Entries[ei].Sets, set)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workouts, nil
}
